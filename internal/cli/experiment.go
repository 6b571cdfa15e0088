package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracedump/tracedump/internal/domain"
)

var experimentCmd = &cobra.Command{
	Use:   "experiment <experiment-id>",
	Short: "Dump traces from a single experiment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		experimentID := args[0]
		defaultOutput := fmt.Sprintf("experiment_%s_traces.json", experimentID)
		return runDump(domain.ScopeExperiment, experimentID, defaultOutput)
	},
}
