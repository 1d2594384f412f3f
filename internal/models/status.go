package models

// Status is the closed set of lifecycle states shared by applications and
// evaluation jobs. Both entities persist the same enum so the denormalized
// application view never drifts into ad-hoc status strings.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transition is expected. A retry may
// still re-open a failed job via MarkProcessing.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}
