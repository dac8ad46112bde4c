package audit

import "time"

// Actions emitted by the sync engine.
const (
	ActionSyncCompleted = "sync.completed"
	ActionSyncFailed    = "sync.failed"
)

// Event captures one sync pass outcome. Keep it transport-agnostic so stores
// and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor,omitempty"`
	ReportID  int64     `json:"reportId"`
	Total     int       `json:"total"`
	Upserted  int       `json:"upserted"`
	Modified  int       `json:"modified"`
	Deleted   int       `json:"deleted"`
	Error     string    `json:"error,omitempty"`
}
