// Package domain contains the core entities for tracedump.
//
// This package defines:
//   - Tracking-server entities as returned by the REST API
//     (Experiment, Run, Metric, Artifact)
//   - TraceRecord, the classified trace union (api, artifact, metadata)
//   - Dump, the aggregated output document and its metadata
//
// # Design Philosophy
//
// All entities are read-only snapshots: they are constructed during a
// single top-to-bottom traversal of the tracking server and serialized
// once. There is no update or delete path.
//
// JSON field names follow the tracking server's wire format (snake_case)
// so a dump round-trips the server's responses verbatim.
package domain
