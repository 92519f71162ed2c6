package api

import (
	"context"
	"net/url"
	"strconv"
)

// DialogueEntry is one turn of the simulated call, as stored by the gateway.
// Timestamp is kept as the gateway's opaque string; locally appended entries
// use RFC 3339.
type DialogueEntry struct {
	Role      string `json:"role"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ReportForm is the structured incident-intake form kept alongside the call.
// Field names are fixed by the gateway contract. The local copy is the source
// of truth while a session runs; the gateway copy is the autosave target and
// the resume source.
type ReportForm struct {
	CallerName    string   `json:"callerName"`
	CallerAge     string   `json:"callerAge"`
	CallerType    string   `json:"callerType"` // H1 | H2 | H3
	Priority      string   `json:"priority"`   // K | N | M | O
	Region        string   `json:"region"`
	City          string   `json:"city"`
	Street        string   `json:"street"`
	Number        string   `json:"number"`
	Diagnosis     string   `json:"diagnosis"`
	OperatorNotes string   `json:"operatorNotes"`
	ExtraUnits    []string `json:"extraUnits"`
}

// StartParams are the query parameters of the simulation start call.
type StartParams struct {
	TaskID      string
	OperatorID  int
	UserEmail   string
	Training    string // scenario title
	Practice    bool
	PhoneNumber string // optional; enables the live voice call
}

// StartResult is the simulation start response. Mode "resume" means an
// unfinished attempt was picked up: Dialogue carries its history and Form,
// when present, the previously saved report form.
type StartResult struct {
	SessionID     string          `json:"session_id"`
	AttemptID     string          `json:"attempt_id"`
	TaskID        string          `json:"task_id"`
	AttemptNumber int             `json:"attempt_number"`
	Training      string          `json:"training"`
	Dialogue      []DialogueEntry `json:"dialogue"`
	Mode          string          `json:"mode"` // "new" | "resume"
	CallSID       string          `json:"call_sid,omitempty"`
	Form          *ReportForm     `json:"form,omitempty"`
}

// StartSimulation starts a new simulated call, or resumes an unfinished one.
func (c *Client) StartSimulation(ctx context.Context, p StartParams) (*StartResult, error) {
	q := url.Values{}
	q.Set("task_id", p.TaskID)
	q.Set("operator_id", strconv.Itoa(p.OperatorID))
	q.Set("user_email", p.UserEmail)
	q.Set("training", p.Training)
	q.Set("practice", strconv.FormatBool(p.Practice))
	if p.PhoneNumber != "" {
		q.Set("phone_number", p.PhoneNumber)
	}

	var out StartResult
	if err := c.post(ctx, "/ai/simulate/start?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChatResult is the reply to one operator chat message.
type ChatResult struct {
	Reply          string          `json:"reply"`
	SessionID      string          `json:"session_id"`
	AttemptID      string          `json:"attempt_id"`
	DialogueAppend []DialogueEntry `json:"dialogue_append"`
}

// Chat sends an operator message to the simulated caller and returns the
// caller's reply. Used when no live voice call is attached to the session.
func (c *Client) Chat(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	q := url.Values{}
	q.Set("session_id", sessionID)
	q.Set("message", message)

	var out ChatResult
	if err := c.post(ctx, "/ai/simulate/chat?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AppendMessage mirrors a live transcript entry into the gateway's durable
// session store. Best-effort: callers treat failures as non-fatal.
func (c *Client) AppendMessage(ctx context.Context, sessionID, role, content string) error {
	return c.post(ctx, "/ai/simulate/append_message", map[string]string{
		"session_id": sessionID,
		"role":       role,
		"content":    content,
	}, nil)
}

// EndResult is the terminal evaluation of a session.
type EndResult struct {
	SessionID  string             `json:"session_id"`
	AttemptID  string             `json:"attempt_id"`
	Score      float64            `json:"score"`  // 0–100
	Status     string             `json:"status"` // "completed" | "failed"
	Evaluation map[string]float64 `json:"evaluation"`
}

// EndSimulation ends the session; the gateway evaluates the dialogue and
// returns the score.
func (c *Client) EndSimulation(ctx context.Context, sessionID string) (*EndResult, error) {
	q := url.Values{}
	q.Set("session_id", sessionID)

	var out EndResult
	if err := c.post(ctx, "/ai/simulate/end?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateForm saves the full report-form snapshot for the session.
func (c *Client) UpdateForm(ctx context.Context, sessionID string, form ReportForm) error {
	q := url.Values{}
	q.Set("session_id", sessionID)

	var out struct {
		OK bool `json:"ok"`
	}
	return c.post(ctx, "/ai/simulate/form?"+q.Encode(), form, &out)
}
