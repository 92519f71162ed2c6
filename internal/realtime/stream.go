package realtime

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// Stream is one open connection to the voice-simulation service, scoped to a
// call handle. Events arrive on Events(); the channel closes when the
// connection drops for any reason, which callers treat as "disconnected".
type Stream struct {
	callSID string
	conn    *websocket.Conn
	events  chan Event

	closeOnce sync.Once
}

// Dial opens the stream for callSID against the voice agent at baseURL
// (ws:// or wss://). The caller owns the stream and must Close it on
// teardown or handle change.
func Dial(ctx context.Context, baseURL, callSID string) (*Stream, error) {
	u := strings.TrimRight(baseURL, "/") + "/ws/client/" + callSID

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	s := &Stream{
		callSID: callSID,
		conn:    conn,
		events:  make(chan Event, 16),
	}
	go s.readLoop()
	return s, nil
}

// CallSID returns the call handle this stream is scoped to.
func (s *Stream) CallSID() string {
	return s.callSID
}

// Events returns the inbound event channel. It is closed when the
// connection ends; no reconnection is attempted.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Close tears the connection down deterministically. Safe to call more than
// once; the read loop exits and Events() closes shortly after.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close()
	})
	return err
}

func (s *Stream) readLoop() {
	defer close(s.events)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			// Normal teardown and transport errors end the stream the
			// same way; the consumer only needs "disconnected".
			slog.Debug("voice stream closed", "call_sid", s.callSID, "err", err)
			return
		}
		ev := Decode(data)
		if u, ok := ev.(Unknown); ok {
			slog.Debug("unhandled voice stream event", "call_sid", s.callSID, "type", u.Type)
		}
		s.events <- ev
	}
}
