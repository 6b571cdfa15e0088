package domain

// LifecycleStage values used by the tracking server.
const (
	LifecycleStageActive  = "active"
	LifecycleStageDeleted = "deleted"
)

// Experiment represents a top-level grouping of runs on the tracking server.
// Immutable once fetched.
type Experiment struct {
	ExperimentID     string `json:"experiment_id"`
	Name             string `json:"name"`
	ArtifactLocation string `json:"artifact_location,omitempty"`
	LifecycleStage   string `json:"lifecycle_stage,omitempty"`
	CreationTime     int64  `json:"creation_time,omitempty"`
	LastUpdateTime   int64  `json:"last_update_time,omitempty"`
}
