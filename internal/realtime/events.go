// Package realtime streams live-call events from the voice-simulation
// service. One stream exists per call handle; it never reconnects. A fresh
// session start with a new handle is the only recovery path.
package realtime

import "encoding/json"

// Event is one decoded inbound message from the voice stream.
type Event interface {
	isEvent()
}

// CallStatus reports a change in the remote call's state. "connected" means
// the voice call itself is live (a stronger signal than socket-open);
// "ended" means the remote side hung up and the session should end.
type CallStatus struct {
	Status string `json:"status"`
}

// ConversationUpdate carries one new dialogue turn.
type ConversationUpdate struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Unknown is any event type this client does not handle. Kept so callers can
// log and move on instead of failing on new server-side event types.
type Unknown struct {
	Type string
}

func (CallStatus) isEvent()         {}
func (ConversationUpdate) isEvent() {}
func (Unknown) isEvent()            {}

// StatusConnected and StatusEnded are the call_status values the client
// reacts to.
const (
	StatusConnected = "connected"
	StatusEnded     = "ended"
)

// Decode maps a raw stream payload onto the event sum type. Malformed
// payloads decode to Unknown rather than erroring; a bad frame must not
// take down the live experience.
func Decode(data []byte) Event {
	var probe struct {
		Type    string `json:"type"`
		Status  string `json:"status"`
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Unknown{}
	}
	switch probe.Type {
	case "call_status":
		return CallStatus{Status: probe.Status}
	case "conversation_update":
		return ConversationUpdate{Role: probe.Role, Content: probe.Content}
	default:
		return Unknown{Type: probe.Type}
	}
}
