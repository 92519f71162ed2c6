// Package report builds and serializes call reports, the artifact left
// behind by a finished training session. A report can be rendered as
// indented JSON or as Markdown with an embedded payload, and both forms
// parse back losslessly for `opsim view`.
package report

import (
	"time"

	"github.com/dispatchlab/opsim/internal/api"
)

// CallReport is the complete, renderable record of one training call.
type CallReport struct {
	Session    SessionMeta         `json:"session"`
	Transcript []api.DialogueEntry `json:"transcript"`
	Form       api.ReportForm      `json:"form"`
	Outcome    *Outcome            `json:"outcome,omitempty"`
}

// SessionMeta holds summary metadata about the call.
type SessionMeta struct {
	SessionID     string    `json:"session_id"`
	AttemptID     string    `json:"attempt_id"`
	AttemptNumber int       `json:"attempt_number"`
	TaskID        string    `json:"task_id"`
	ScenarioTitle string    `json:"scenario_title"`
	Mode          string    `json:"mode"` // "chat" or "call"
	Training      bool      `json:"training"`
	Operator      string    `json:"operator,omitempty"` // operator email
	StartedAt     time.Time `json:"started_at"`
	EndedAt       time.Time `json:"ended_at"`
	Duration      string    `json:"duration"` // human-readable, e.g. "4m35s"
}

// Outcome holds the gateway's evaluation of the call. Nil when the session
// ended without being scored.
type Outcome struct {
	Score      float64            `json:"score"`
	Status     string             `json:"status"` // "completed" or "failed"
	Evaluation map[string]float64 `json:"evaluation,omitempty"`
}

// evaluationLabels maps the gateway's evaluation keys to display names.
var evaluationLabels = map[string]string{
	"accuracy_of_collected_data": "Data accuracy",
	"operator_expertise":         "Expertise",
	"operator_empathy":           "Empathy",
	"response_speed":             "Response speed",
	"notes_quality":              "Notes quality",
}

// EvaluationLabel returns the display name for an evaluation key, falling
// back to the raw key for anything the gateway adds later.
func EvaluationLabel(key string) string {
	if label, ok := evaluationLabels[key]; ok {
		return label
	}
	return key
}

// EvaluationOrder lists the known evaluation keys in display order.
var EvaluationOrder = []string{
	"accuracy_of_collected_data",
	"operator_expertise",
	"operator_empathy",
	"response_speed",
	"notes_quality",
}
