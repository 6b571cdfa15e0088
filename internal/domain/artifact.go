package domain

// Artifact is a file associated with a run, addressable by its relative
// path within the run's artifact store.
type Artifact struct {
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir,omitempty"`
	Size  int64  `json:"size,omitempty"`
}
