package attempt

import "time"

// Attempt records a training run that was started from this machine. It is
// written when `opsim train` launches a session and removed once the final
// report has been saved, so `opsim status` can tell whether a run is still
// in flight after a crash or terminal disconnect.
type Attempt struct {
	ID            string    `json:"id"`
	TaskID        string    `json:"task_id"`
	ScenarioTitle string    `json:"scenario_title"`
	AttemptID     string    `json:"attempt_id"`
	AttemptNumber int       `json:"attempt_number"`
	OperatorID    int       `json:"operator_id"`
	SessionID     string    `json:"session_id,omitempty"`
	Mode          string    `json:"mode"` // "chat" or "call"
	Training      bool      `json:"training"`
	StartedAt     time.Time `json:"started_at"`
}
