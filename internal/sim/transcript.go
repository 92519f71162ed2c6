package sim

import (
	"sync"
	"time"

	"github.com/dispatchlab/opsim/internal/api"
)

// TypingSentinel is the message value the simulation emits while a turn is
// still being produced. It renders as an animated indicator, never as text.
const TypingSentinel = "..."

// IsTyping reports whether a dialogue message is the in-progress placeholder.
func IsTyping(message string) bool {
	return message == TypingSentinel
}

// RoleOperator and RoleCaller are the two speaker roles the gateway uses.
// The gateway occasionally labels operator turns "user"; treat both the same.
const (
	RoleOperator = "operator"
	RoleCaller   = "caller"
)

// IsOperatorRole reports whether a dialogue role belongs to the operator side.
func IsOperatorRole(role string) bool {
	return role == RoleOperator || role == "user"
}

// Transcript is the append-only, arrival-ordered dialogue log. Entries are
// never mutated or removed once appended; resumed history is seeded before
// any live entry. Safe for concurrent use: live entries arrive from the
// socket read loop while the UI reads.
type Transcript struct {
	mu      sync.Mutex
	entries []api.DialogueEntry
	seeded  bool
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Seed installs the historical entries from a resumed attempt. Applied at
// most once; if live entries somehow arrived first, the seed is placed ahead
// of them so seed order always precedes live-arrival order.
func (t *Transcript) Seed(history []api.DialogueEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seeded {
		return
	}
	t.seeded = true
	if len(history) == 0 {
		return
	}
	seeded := make([]api.DialogueEntry, 0, len(history)+len(t.entries))
	seeded = append(seeded, history...)
	seeded = append(seeded, t.entries...)
	t.entries = seeded
}

// Append adds one live entry with a locally generated timestamp and returns it.
func (t *Transcript) Append(role, message string) api.DialogueEntry {
	entry := api.DialogueEntry{
		Role:      role,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	t.mu.Lock()
	t.entries = append(t.entries, entry)
	t.mu.Unlock()
	return entry
}

// AppendEntry adds an entry that already carries a gateway timestamp
// (e.g. from a chat reply).
func (t *Transcript) AppendEntry(entry api.DialogueEntry) {
	t.mu.Lock()
	t.entries = append(t.entries, entry)
	t.mu.Unlock()
}

// Entries returns a snapshot of the log in order. The snapshot is
// prefix-consistent: a later call returns the same entries plus any appended
// since.
func (t *Transcript) Entries() []api.DialogueEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]api.DialogueEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
