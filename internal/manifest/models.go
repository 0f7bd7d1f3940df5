package manifest

import "time"

// RunStatus tracks the lifecycle of a recorded run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// ItemStatus records the outcome of one work item within a run.
type ItemStatus string

const (
	ItemCompleted ItemStatus = "completed"
	ItemFailed    ItemStatus = "failed"
)

// Run describes one pipeline invocation.
type Run struct {
	ID          string
	Status      RunStatus
	Devices     int
	TotalItems  int
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
}

// ItemRecord describes one processed work item.
type ItemRecord struct {
	RunID       string
	Group       string
	FileName    string
	TargetPath  string
	DeviceID    int
	TokenCount  int
	Status      ItemStatus
	Error       string
	CompletedAt time.Time
}

// Summary aggregates item outcomes for a run.
type Summary struct {
	Completed   int
	Failed      int
	TotalTokens int64
}
