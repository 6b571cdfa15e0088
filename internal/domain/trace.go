package domain

import "encoding/json"

// TraceSource identifies where a trace record was recovered from
type TraceSource string

const (
	// TraceSourceAPI marks traces returned by the trace-search endpoint.
	TraceSourceAPI TraceSource = "api"
	// TraceSourceArtifact marks traces downloaded from the artifact store.
	TraceSourceArtifact TraceSource = "artifact"
	// TraceSourceMetadata marks traces reconstructed from run tags/params.
	TraceSourceMetadata TraceSource = "metadata"
)

// TraceRecord is one classified trace. It is a tagged union over Source:
// api records carry Data, artifact records carry ArtifactPath/Size and
// optionally Structure, metadata records carry Tags/Params. Content holds
// the raw text for every variant.
type TraceRecord struct {
	TraceID string      `json:"trace_id"`
	Source  TraceSource `json:"source"`
	Content string      `json:"content,omitempty"`

	// api variant
	Data json.RawMessage `json:"data,omitempty"`

	// artifact variant
	ArtifactPath string          `json:"artifact_path,omitempty"`
	Size         int             `json:"size,omitempty"`
	Structure    *TraceStructure `json:"structure,omitempty"`

	// metadata variant
	Tags   map[string]string `json:"trace_tags,omitempty"`
	Params map[string]string `json:"trace_params,omitempty"`
}

// TraceStructure summarizes a trace artifact whose body parsed as JSON.
// Counts are best-effort: a key is zero when the document has no
// corresponding collection.
type TraceStructure struct {
	Steps int `json:"steps,omitempty"`
	Nodes int `json:"nodes,omitempty"`
	Edges int `json:"edges,omitempty"`
}
