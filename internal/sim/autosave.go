package sim

import (
	"context"
	"sync"
	"time"

	"github.com/dispatchlab/opsim/internal/api"
)

// DefaultSaveDelay is the quiet period after the last edit before the form
// is persisted.
const DefaultSaveDelay = 2 * time.Second

// SaveFunc persists one full form snapshot to the gateway.
type SaveFunc func(ctx context.Context, sessionID string, snapshot api.ReportForm) error

// SaveResult is the outcome of one persistence attempt.
type SaveResult struct {
	Err     error // nil on success
	Skipped bool  // true when no session existed yet
}

// Autosave owns the authoritative in-memory report form and coordinates its
// persistence. Non-immediate edits reschedule a single pending timer, so a
// burst of edits produces one save carrying the final state; immediate edits
// (checkboxes) skip the quiet period. Every save sends the full snapshot,
// which makes overlapping immediate and debounced saves idempotent. Local
// state is never rolled back on save failure.
type Autosave struct {
	mu    sync.Mutex
	form  api.ReportForm
	timer *time.Timer // at most one pending debounced save

	delay     time.Duration
	save      SaveFunc
	sessionID func() string     // empty until the session is established
	onResult  func(SaveResult)  // optional; called after every attempt
}

// AutosaveConfig configures an Autosave coordinator.
type AutosaveConfig struct {
	Delay     time.Duration // zero means DefaultSaveDelay
	Save      SaveFunc
	SessionID func() string
	OnResult  func(SaveResult)
}

// NewAutosave returns a coordinator with an empty form.
func NewAutosave(cfg AutosaveConfig) *Autosave {
	if cfg.Delay == 0 {
		cfg.Delay = DefaultSaveDelay
	}
	if cfg.SessionID == nil {
		cfg.SessionID = func() string { return "" }
	}
	return &Autosave{
		delay:     cfg.Delay,
		save:      cfg.Save,
		sessionID: cfg.SessionID,
		onResult:  cfg.OnResult,
	}
}

// Form returns a snapshot of the current form state.
func (a *Autosave) Form() api.ReportForm {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Restore overwrites the form with resume data from the gateway. Used once,
// at session start, before any local edit.
func (a *Autosave) Restore(form api.ReportForm) {
	a.mu.Lock()
	a.form = form
	a.mu.Unlock()
}

// Update applies one field edit. Non-immediate edits (re)schedule the
// debounced save; an edit arriving before the quiet period elapses restarts
// the timer, so only the last edit in a burst is persisted. Immediate edits
// skip the quiet period and leave any pending debounced save untouched; the
// save itself runs on its own goroutine, so callers never wait on the
// network. The outcome arrives through OnResult either way.
func (a *Autosave) Update(field Field, value any, immediate bool) error {
	a.mu.Lock()
	if err := applyField(&a.form, field, value); err != nil {
		a.mu.Unlock()
		return err
	}
	if !immediate {
		if a.timer != nil {
			a.timer.Stop()
		}
		a.timer = time.AfterFunc(a.delay, a.fireTimer)
		a.mu.Unlock()
		return nil
	}
	a.mu.Unlock()

	go a.Flush()
	return nil
}

// fireTimer runs in the timer goroutine when the quiet period elapses.
func (a *Autosave) fireTimer() {
	a.mu.Lock()
	a.timer = nil
	a.mu.Unlock()
	a.Flush()
}

// Flush persists the current snapshot now. A flush with no established
// session is a no-op reported as Skipped.
func (a *Autosave) Flush() {
	a.mu.Lock()
	snapshot := a.snapshotLocked()
	a.mu.Unlock()

	sid := a.sessionID()
	if sid == "" {
		a.report(SaveResult{Skipped: true})
		return
	}

	err := a.save(context.Background(), sid, snapshot)
	a.report(SaveResult{Err: err})
}

// Stop cancels any pending debounced save. Called on session teardown.
func (a *Autosave) Stop() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
}

func (a *Autosave) snapshotLocked() api.ReportForm {
	snap := a.form
	if a.form.ExtraUnits != nil {
		snap.ExtraUnits = make([]string, len(a.form.ExtraUnits))
		copy(snap.ExtraUnits, a.form.ExtraUnits)
	}
	return snap
}

func (a *Autosave) report(res SaveResult) {
	if a.onResult != nil {
		a.onResult(res)
	}
}
