package classifier

import "strings"

// KeywordSet is the vocabulary used for heuristic trace detection. The
// "right" set is deployment-specific, so it is an explicit, overridable
// list rather than a constant.
type KeywordSet []string

// GenericKeywords matches anything that smells like an agent or workflow
// execution. Deliberately permissive: false positives are preferred over
// missed traces, since trace storage location is unknown in advance.
func GenericKeywords() KeywordSet {
	return KeywordSet{"trace", "langraph", "langgraph", "agent", "execution", "workflow", "flow"}
}

// LangGraphArtifactPatterns is the specialized artifact vocabulary for
// LangGraph trace files.
func LangGraphArtifactPatterns() KeywordSet {
	return KeywordSet{
		"trace.json", "trace.jsonl", "langraph_trace", "agent_trace",
		"trace_data", "execution_trace", "workflow_trace",
	}
}

// Match reports whether s contains any keyword, case-insensitively.
func (k KeywordSet) Match(s string) bool {
	lower := strings.ToLower(s)
	for _, keyword := range k {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
