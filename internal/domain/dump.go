package domain

import "time"

// DumpScope selects which traversal the dumper performs
type DumpScope string

const (
	// ScopeAll walks every experiment on the tracking server.
	ScopeAll DumpScope = "all"
	// ScopeExperiment walks the runs of a single experiment.
	ScopeExperiment DumpScope = "experiment"
	// ScopeLangGraph walks every experiment but keeps only runs that the
	// classifier gates as trace-bearing.
	ScopeLangGraph DumpScope = "langgraph"
)

// DumpMetadata is the summary header of a dump document. Re-running a
// dump against unchanged server state reproduces the document except for
// DumpTimestamp.
type DumpMetadata struct {
	TrackingURL    string    `json:"tracking_url"`
	ExperimentID   string    `json:"experiment_id,omitempty"`
	ExperimentName string    `json:"experiment_name,omitempty"`
	DumpTimestamp  time.Time `json:"dump_timestamp"`

	TotalExperiments int `json:"total_experiments,omitempty"`
	TotalRuns        int `json:"total_runs"`
	TotalTraces      int `json:"total_traces,omitempty"`
	// TotalLangGraphTraces replaces TotalTraces in langgraph scope.
	TotalLangGraphTraces int `json:"total_langraph_traces,omitempty"`
}

// RunDetails is the full run record fetched after the search response,
// together with its metric history and artifact listing. Nil when the
// runs/get call failed; empty sub-fields when their own calls failed.
type RunDetails struct {
	Run       *Run       `json:"run,omitempty"`
	Metrics   []Metric   `json:"metrics,omitempty"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// RunDump is one inspected run. Every run inspected appears in the
// document, even with an empty trace list, so the dump accounts for the
// whole traversal.
type RunDump struct {
	// ExperimentInfo is set only in langgraph scope, where run dumps are
	// collected in one flat list across experiments.
	ExperimentInfo *Experiment `json:"experiment_info,omitempty"`

	RunInfo    Run           `json:"run_info"`
	RunDetails *RunDetails   `json:"run_details,omitempty"`
	Traces     []TraceRecord `json:"traces"`
}

// ExperimentDump groups the run dumps of one experiment
type ExperimentDump struct {
	ExperimentInfo Experiment `json:"experiment_info"`
	Runs           []RunDump  `json:"runs"`
}

// Dump is the root output document. Exactly one of Experiments, Runs or
// LangGraphTraces is populated, depending on the scope.
type Dump struct {
	Metadata DumpMetadata `json:"metadata"`

	// ScopeExperiment
	ExperimentInfo *Experiment `json:"experiment_info,omitempty"`
	Runs           []RunDump   `json:"runs,omitempty"`

	// ScopeAll
	Experiments []ExperimentDump `json:"experiments,omitempty"`

	// ScopeLangGraph
	LangGraphTraces []RunDump `json:"langraph_traces,omitempty"`
}

// RunDumps returns every run dump in the document regardless of scope,
// in document order.
func (d *Dump) RunDumps() []RunDump {
	if len(d.Experiments) > 0 {
		var runs []RunDump
		for _, exp := range d.Experiments {
			runs = append(runs, exp.Runs...)
		}
		return runs
	}
	if len(d.LangGraphTraces) > 0 {
		return d.LangGraphTraces
	}
	return d.Runs
}

// TraceCount sums the trace records embedded in the document. The
// metadata totals must always equal this value.
func (d *Dump) TraceCount() int {
	total := 0
	for _, run := range d.RunDumps() {
		total += len(run.Traces)
	}
	return total
}
