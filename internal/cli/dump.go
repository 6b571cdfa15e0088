package cli

import (
	"github.com/spf13/cobra"

	"github.com/tracedump/tracedump/internal/domain"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump traces from every experiment on the tracking server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDump(domain.ScopeAll, "", "mlflow_traces_dump.json")
	},
}
