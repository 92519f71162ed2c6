package sim

import (
	"context"
	"errors"
	"sync"

	"github.com/dispatchlab/opsim/internal/api"
)

// State is the session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateActive
	StateEnding
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateActive:
		return "active"
	case StateEnding:
		return "ending"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

// ConnectionStatus is the live-call connection state. Connected means the
// remote side confirmed the call, not merely that the socket opened.
type ConnectionStatus int

const (
	Disconnected ConnectionStatus = iota
	Connecting
	Connected
)

func (c ConnectionStatus) String() string {
	switch c {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return "disconnected"
}

// ErrStartSkipped means a start was suppressed without a network call: the
// controller already left idle, or another start for the same key is in
// flight. Callers treat it as silence, not failure.
var ErrStartSkipped = errors.New("session start already in progress")

// ErrEndSkipped means an end was suppressed: no session exists yet, or an
// end is already in flight or done. The second end trigger is a no-op.
var ErrEndSkipped = errors.New("session end already in progress")

// ErrNotReady means the start preconditions (operator identity, task id,
// scenario title) are not all known yet.
var ErrNotReady = errors.New("operator, task, and scenario must be known before starting")

// Gateway is the slice of the gateway API the controller drives.
type Gateway interface {
	StartSimulation(ctx context.Context, p api.StartParams) (*api.StartResult, error)
	EndSimulation(ctx context.Context, sessionID string) (*api.EndResult, error)
}

// Controller owns one session's identity and lifecycle. All transitions are
// serialized internally; methods may be called from UI command goroutines
// and the socket event path alike.
type Controller struct {
	mu    sync.Mutex
	gw    Gateway
	guard *StartGuard

	state         State
	conn          ConnectionStatus
	sessionID     string
	attemptID     string
	attemptNumber int
	callSID       string
	mode          string
	training      string

	transcript *Transcript
	result     *api.EndResult
}

// NewController returns an idle controller. A nil guard uses the
// process-wide DefaultGuard.
func NewController(gw Gateway, guard *StartGuard) *Controller {
	if guard == nil {
		guard = DefaultGuard
	}
	return &Controller{
		gw:         gw,
		guard:      guard,
		transcript: NewTranscript(),
	}
}

// Start runs idle → starting → active. At most one start proceeds per
// (operator, task, scenario) key at a time: re-entrant triggers and parallel
// controllers for the same key get ErrStartSkipped with no network call.
// The guard claim is released when the attempt settles, so a failed start
// can be retried and a completed one does not block later navigations.
func (c *Controller) Start(ctx context.Context, p api.StartParams) (*api.StartResult, error) {
	if p.OperatorID == 0 || p.TaskID == "" || p.Training == "" {
		return nil, ErrNotReady
	}

	key := StartKey(p.OperatorID, p.TaskID, p.Training)

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil, ErrStartSkipped
	}
	if !c.guard.TryClaim(key) {
		c.mu.Unlock()
		return nil, ErrStartSkipped
	}
	c.state = StateStarting
	c.mu.Unlock()

	res, err := c.gw.StartSimulation(ctx, p)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.guard.Release(key)

	if err != nil {
		c.state = StateIdle
		return nil, err
	}

	c.sessionID = res.SessionID
	c.attemptID = res.AttemptID
	c.attemptNumber = res.AttemptNumber
	c.callSID = res.CallSID
	c.mode = res.Mode
	c.training = res.Training
	c.transcript.Seed(res.Dialogue)
	c.state = StateActive
	return res, nil
}

// End runs active → ending → ended and returns the evaluation. A second end
// trigger while one is in flight (user pressed the button as the remote
// "ended" event arrived) is a no-op. On failure the session stays active so
// the user may retry.
func (c *Controller) End(ctx context.Context) (*api.EndResult, error) {
	c.mu.Lock()
	if c.sessionID == "" || c.state == StateEnding || c.state == StateEnded {
		c.mu.Unlock()
		return nil, ErrEndSkipped
	}
	sid := c.sessionID
	c.state = StateEnding
	c.mu.Unlock()

	res, err := c.gw.EndSimulation(ctx, sid)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateActive
		return nil, err
	}
	c.state = StateEnded
	c.result = res
	return res, nil
}

// ApplyCallStatus feeds a remote call_status event into the lifecycle.
// It returns true when the event asks for the session to end; the caller
// then invokes End, which stays idempotent against a concurrent manual end.
func (c *Controller) ApplyCallStatus(status string) (endRequested bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch status {
	case "connected":
		c.conn = Connected
	case "ended":
		return c.sessionID != "" && c.state == StateActive
	}
	return false
}

// SetConnection records transport-level status changes (dialing, closed).
func (c *Controller) SetConnection(s ConnectionStatus) {
	c.mu.Lock()
	c.conn = s
	c.mu.Unlock()
}

// Connection returns the live-call connection status.
func (c *Controller) Connection() ConnectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID returns the backend-issued session id, or "" before start.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// AttemptID returns the durable attempt id, or "" before start.
func (c *Controller) AttemptID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attemptID
}

// AttemptNumber returns which attempt at the task this session is.
func (c *Controller) AttemptNumber() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attemptNumber
}

// CallSID returns the live-call handle, or "" when the session has no voice
// call attached.
func (c *Controller) CallSID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.callSID
}

// Mode returns "new" or "resume" after a successful start.
func (c *Controller) Mode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Training returns the scenario title after a successful start.
func (c *Controller) Training() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.training
}

// Transcript returns the session's dialogue log.
func (c *Controller) Transcript() *Transcript {
	return c.transcript
}

// Result returns the evaluation, or nil before the session ended.
func (c *Controller) Result() *api.EndResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}
