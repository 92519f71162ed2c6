// Package sim holds the client-side state of one live training session:
// the lifecycle controller, the transcript log, and the report-form
// autosave coordinator. Network transports live elsewhere; this package
// only decides what may happen and when.
package sim

import (
	"fmt"
	"sync"
)

// StartGuard prevents duplicate concurrent session-start calls for the same
// logical (operator, task, scenario) key. The start trigger can be evaluated
// many times before the asynchronous start settles, so a claim is
// checked-and-set atomically; it is released when the attempt settles,
// success or failure, so a later legitimate start is never blocked forever.
type StartGuard struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

// DefaultGuard is the process-wide guard shared by all controllers that are
// not given an explicit one. Tests inject their own.
var DefaultGuard = NewStartGuard()

// NewStartGuard returns an empty guard.
func NewStartGuard() *StartGuard {
	return &StartGuard{claimed: make(map[string]struct{})}
}

// TryClaim atomically claims key. Returns false if key is already claimed.
func (g *StartGuard) TryClaim(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.claimed[key]; ok {
		return false
	}
	g.claimed[key] = struct{}{}
	return true
}

// Release frees key. Releasing an unclaimed key is a no-op.
func (g *StartGuard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.claimed, key)
}

// StartKey builds the guard key for one logical session identity.
func StartKey(operatorID int, taskID, scenarioTitle string) string {
	return fmt.Sprintf("%d:%s:%s", operatorID, taskID, scenarioTitle)
}
