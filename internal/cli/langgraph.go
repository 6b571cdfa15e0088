package cli

import (
	"github.com/spf13/cobra"

	"github.com/tracedump/tracedump/internal/domain"
)

var langgraphCmd = &cobra.Command{
	Use:   "langgraph",
	Short: "Scan the whole server for LangGraph trace-bearing runs",
	Long: `langgraph walks every experiment but descends into a run only when its
tags, name or experiment ID look trace-bearing, which keeps the scan cheap
on servers where most runs are unrelated to agent execution.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDump(domain.ScopeLangGraph, "", "langraph_traces_dump.json")
	},
}
