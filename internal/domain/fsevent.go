package domain

type FileEventKind string

const (
	FileAdded    FileEventKind = "added"
	FileModified FileEventKind = "modified"
	FileRemoved  FileEventKind = "removed"
)

// FileSystemEvent is forwarded verbatim from the filesystem watcher.
type FileSystemEvent struct {
	Kind       FileEventKind `json:"kind"`
	Path       string        `json:"path"`
	OccurredAt int64         `json:"occurred_at"`
}
