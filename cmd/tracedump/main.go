// tracedump - dump agent traces from an MLflow-compatible tracking server
package main

import (
	"fmt"
	"os"

	"github.com/tracedump/tracedump/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tracedump: %v\n", err)
		os.Exit(1)
	}
}
