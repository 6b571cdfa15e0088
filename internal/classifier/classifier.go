// Package classifier decides which artifacts, API traces and tag/param
// entries of a run constitute trace data.
//
// Three independent detection passes run per run and their results are
// concatenated, never deduplicated: traces may live behind the dedicated
// search endpoint, in the artifact store, or in ad-hoc tags, and the same
// trace surfacing twice is cheaper than missing it once.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/tracedump/tracedump/internal/domain"
)

// TraceFetcher is the subset of the tracking client the classifier needs.
type TraceFetcher interface {
	SearchTraces(ctx context.Context, runID string) ([]json.RawMessage, error)
	DownloadArtifact(ctx context.Context, runID, path string) (string, error)
}

// Classifier runs the trace detection passes for a single run.
type Classifier struct {
	fetcher  TraceFetcher
	keywords KeywordSet
	// artifactPatterns narrows the artifact pass when set, as in the
	// specialized LangGraph mode. Empty means "use keywords".
	artifactPatterns KeywordSet
	logger           *zap.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithKeywords overrides the generic keyword set.
func WithKeywords(keywords KeywordSet) Option {
	return func(c *Classifier) {
		if len(keywords) > 0 {
			c.keywords = keywords
		}
	}
}

// WithArtifactPatterns narrows the artifact pass to a specialized pattern
// list instead of the keyword set.
func WithArtifactPatterns(patterns KeywordSet) Option {
	return func(c *Classifier) {
		c.artifactPatterns = patterns
	}
}

// New creates a Classifier.
func New(fetcher TraceFetcher, logger *zap.Logger, opts ...Option) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Classifier{
		fetcher:  fetcher,
		keywords: GenericKeywords(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Keywords returns the active keyword set.
func (c *Classifier) Keywords() KeywordSet {
	return c.keywords
}

// Classify runs the three detection passes against a run and its artifact
// listing and concatenates the results in pass order.
func (c *Classifier) Classify(ctx context.Context, run *domain.Run, artifacts []domain.Artifact) []domain.TraceRecord {
	traces := []domain.TraceRecord{}
	traces = append(traces, c.apiPass(ctx, run.Info.RunID)...)
	traces = append(traces, c.artifactPass(ctx, run.Info.RunID, artifacts)...)
	if record := c.metadataPass(run); record != nil {
		traces = append(traces, *record)
	}
	return traces
}

// apiPass collects traces from the dedicated trace-search endpoint.
func (c *Classifier) apiPass(ctx context.Context, runID string) []domain.TraceRecord {
	items, err := c.fetcher.SearchTraces(ctx, runID)
	if err != nil {
		c.logger.Error("trace search failed", zap.String("run_id", runID), zap.Error(err))
		return nil
	}

	var traces []domain.TraceRecord
	for i, item := range items {
		traces = append(traces, domain.TraceRecord{
			TraceID: apiTraceID(item, i),
			Source:  domain.TraceSourceAPI,
			Data:    item,
			Content: indentJSON(item),
		})
	}
	if len(items) > 0 {
		c.logger.Info("found traces via API",
			zap.String("run_id", runID),
			zap.Int("count", len(items)),
		)
	}
	return traces
}

// artifactPass downloads every artifact whose path matches the vocabulary.
// A failed download is skipped, not fatal. The body is probed as JSON for
// structure counts but the raw text is retained regardless.
func (c *Classifier) artifactPass(ctx context.Context, runID string, artifacts []domain.Artifact) []domain.TraceRecord {
	patterns := c.keywords
	if len(c.artifactPatterns) > 0 {
		patterns = c.artifactPatterns
	}

	var traces []domain.TraceRecord
	for _, artifact := range artifacts {
		if artifact.IsDir || !patterns.Match(artifact.Path) {
			continue
		}

		content, err := c.fetcher.DownloadArtifact(ctx, runID, artifact.Path)
		if err != nil {
			c.logger.Warn("failed to download trace artifact",
				zap.String("run_id", runID),
				zap.String("path", artifact.Path),
				zap.Error(err),
			)
			continue
		}

		traces = append(traces, domain.TraceRecord{
			TraceID:      artifact.Path,
			Source:       domain.TraceSourceArtifact,
			ArtifactPath: artifact.Path,
			Content:      content,
			Size:         len(content),
			Structure:    probeStructure(content),
		})
		c.logger.Info("downloaded trace artifact",
			zap.String("run_id", runID),
			zap.String("path", artifact.Path),
			zap.Int("size", len(content)),
		)
	}
	return traces
}

// metadataPass scans tag keys/values and param keys for the keyword set.
// Any match emits exactly one record aggregating all matching pairs.
func (c *Classifier) metadataPass(run *domain.Run) *domain.TraceRecord {
	matchedTags := map[string]string{}
	for key, value := range run.Data.Tags {
		if c.keywords.Match(key) || c.keywords.Match(value) {
			matchedTags[key] = value
		}
	}

	matchedParams := map[string]string{}
	for key, value := range run.Data.Params {
		if c.keywords.Match(key) {
			matchedParams[key] = value
		}
	}

	if len(matchedTags) == 0 && len(matchedParams) == 0 {
		return nil
	}

	content, _ := json.MarshalIndent(map[string]map[string]string{
		"tags":   matchedTags,
		"params": matchedParams,
	}, "", "  ")

	return &domain.TraceRecord{
		TraceID: "metadata_trace_" + run.Info.RunID,
		Source:  domain.TraceSourceMetadata,
		Content: string(content),
		Tags:    matchedTags,
		Params:  matchedParams,
	}
}

// IsTraceRun reports whether a run looks trace-bearing at all, checking
// tags, run name and experiment ID against the keyword set. Used to skip
// per-run detail calls when scanning a whole tracking server.
func (c *Classifier) IsTraceRun(run *domain.Run) bool {
	for key, value := range run.Data.Tags {
		if c.keywords.Match(key) || c.keywords.Match(value) {
			return true
		}
	}
	if c.keywords.Match(run.Info.RunName) {
		return true
	}
	return c.keywords.Match(run.Info.ExperimentID)
}

// apiTraceID extracts the trace's own identifier or falls back to a
// synthetic index-based one.
func apiTraceID(item json.RawMessage, index int) string {
	var probe struct {
		TraceID string `json:"trace_id"`
	}
	if err := json.Unmarshal(item, &probe); err == nil && probe.TraceID != "" {
		return probe.TraceID
	}
	return fmt.Sprintf("api_trace_%d", index)
}

// indentJSON pretty-prints a raw message, falling back to the raw bytes.
func indentJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// probeStructure parses an artifact body as JSON and counts the step,
// node and edge collections. Returns nil when the body is not JSON or
// has none of the collections.
func probeStructure(content string) *domain.TraceStructure {
	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil
	}

	structure := &domain.TraceStructure{}
	switch v := doc.(type) {
	case []any:
		structure.Steps = len(v)
	case map[string]any:
		structure.Steps = collectionLen(v, "steps")
		structure.Nodes = collectionLen(v, "nodes")
		structure.Edges = collectionLen(v, "edges")
	default:
		return nil
	}

	if structure.Steps == 0 && structure.Nodes == 0 && structure.Edges == 0 {
		return nil
	}
	return structure
}

func collectionLen(doc map[string]any, key string) int {
	if items, ok := doc[key].([]any); ok {
		return len(items)
	}
	return 0
}
