// Package cli wires the tracedump commands.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "0.1.0"

	// Global flags
	trackingURL string
	username    string
	password    string
	apiPrefix   string
	output      string
	keywords    []string
	concurrency int
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "tracedump",
	Short: "Dump agent traces from an MLflow-compatible tracking server",
	Long: `tracedump connects to an MLflow-compatible tracking server, walks its
experiments and runs, classifies trace data (API traces, trace artifacts,
trace-flavored tags and params) and writes one aggregated JSON document.

Commands:
  dump        - Dump traces from every experiment on the server
  experiment  - Dump traces from a single experiment
  langgraph   - Scan the whole server for LangGraph trace-bearing runs

Example:
  tracedump dump --url http://localhost:5000 --output traces_dump.json
  tracedump experiment 260533303499057285 --url http://localhost:5000
  tracedump langgraph --url http://localhost:5000 --username alice --password secret`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&trackingURL, "url", "", "Tracking server URL (or set TRACKING_URL)")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "Username for basic auth (optional)")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Password for basic auth (optional)")
	rootCmd.PersistentFlags().StringVar(&apiPrefix, "api-prefix", "", "REST API prefix (default /api/2.0/mlflow)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output file path")
	rootCmd.PersistentFlags().StringSliceVar(&keywords, "keywords", nil, "Override the trace keyword set")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "Concurrent run fetches per experiment (default 1)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(experimentCmd)
	rootCmd.AddCommand(langgraphCmd)
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}
