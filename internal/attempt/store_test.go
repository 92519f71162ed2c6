package attempt_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"pgregory.net/rapid"

	"github.com/dispatchlab/opsim/internal/attempt"
)

// generateTime produces an arbitrary time.Time value.
// We truncate to second precision to match JSON round-trip fidelity
// (time.Time marshals to RFC3339 which has second precision by default).
func generateTime(t *rapid.T) time.Time {
	sec := rapid.Int64Range(0, 1_700_000_000).Draw(t, "unix_sec")
	return time.Unix(sec, 0).UTC()
}

// generateAttempt produces an arbitrary Attempt value.
func generateAttempt(t *rapid.T) *attempt.Attempt {
	mode := "chat"
	if rapid.Bool().Draw(t, "is_call") {
		mode = "call"
	}
	return &attempt.Attempt{
		ID:            uuid.NewString(),
		TaskID:        rapid.StringN(1, 36, -1).Draw(t, "task_id"),
		ScenarioTitle: rapid.StringN(1, 100, -1).Draw(t, "scenario_title"),
		AttemptID:     rapid.StringN(1, 36, -1).Draw(t, "attempt_id"),
		AttemptNumber: rapid.IntRange(1, 50).Draw(t, "attempt_number"),
		OperatorID:    rapid.IntRange(1, 1_000_000).Draw(t, "operator_id"),
		SessionID:     rapid.StringN(0, 36, -1).Draw(t, "session_id"),
		Mode:          mode,
		Training:      rapid.Bool().Draw(t, "training"),
		StartedAt:     generateTime(t),
	}
}

// Attempt persistence round-trip: whatever train writes, status reads back.
func TestAttemptPersistenceRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store, err := attempt.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	rapid.Check(t, func(t *rapid.T) {
		original := generateAttempt(t)

		if err := store.Save(original); err != nil {
			t.Fatalf("Save: %v", err)
		}

		loaded, err := store.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}

		if loaded.ID != original.ID {
			t.Errorf("ID mismatch: got %q, want %q", loaded.ID, original.ID)
		}
		if loaded.TaskID != original.TaskID {
			t.Errorf("TaskID mismatch: got %q, want %q", loaded.TaskID, original.TaskID)
		}
		if loaded.ScenarioTitle != original.ScenarioTitle {
			t.Errorf("ScenarioTitle mismatch: got %q, want %q", loaded.ScenarioTitle, original.ScenarioTitle)
		}
		if loaded.AttemptID != original.AttemptID {
			t.Errorf("AttemptID mismatch: got %q, want %q", loaded.AttemptID, original.AttemptID)
		}
		if loaded.AttemptNumber != original.AttemptNumber {
			t.Errorf("AttemptNumber mismatch: got %d, want %d", loaded.AttemptNumber, original.AttemptNumber)
		}
		if loaded.OperatorID != original.OperatorID {
			t.Errorf("OperatorID mismatch: got %d, want %d", loaded.OperatorID, original.OperatorID)
		}
		if loaded.SessionID != original.SessionID {
			t.Errorf("SessionID mismatch: got %q, want %q", loaded.SessionID, original.SessionID)
		}
		if loaded.Mode != original.Mode {
			t.Errorf("Mode mismatch: got %q, want %q", loaded.Mode, original.Mode)
		}
		if loaded.Training != original.Training {
			t.Errorf("Training mismatch: got %v, want %v", loaded.Training, original.Training)
		}
		if !loaded.StartedAt.Equal(original.StartedAt) {
			t.Errorf("StartedAt mismatch: got %v, want %v", loaded.StartedAt, original.StartedAt)
		}
	})
}

// TestLoadReturnsErrNoAttempt verifies that Load returns ErrNoAttempt when no
// attempt file exists on disk.
func TestLoadReturnsErrNoAttempt(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store, err := attempt.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	_, err = store.Load()
	if err == nil {
		t.Fatal("expected ErrNoAttempt, got nil")
	}
	if !errors.Is(err, attempt.ErrNoAttempt) {
		t.Errorf("expected ErrNoAttempt, got: %v", err)
	}
}

// TestDeleteClearsAttempt verifies Delete removes the file and is a no-op when
// nothing is stored.
func TestDeleteClearsAttempt(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store, err := attempt.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if err := store.Delete(); err != nil {
		t.Errorf("Delete with no file: %v", err)
	}

	if err := store.Save(&attempt.Attempt{ID: uuid.NewString(), TaskID: "t1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, attempt.ErrNoAttempt) {
		t.Errorf("expected ErrNoAttempt after Delete, got: %v", err)
	}
}

// TestSaveFailurePropagatesError verifies that store creation fails when the
// underlying directory is not writable.
func TestSaveFailurePropagatesError(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root; permission checks are ineffective")
	}

	tmp := t.TempDir()
	if err := os.Chmod(tmp, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(tmp, 0o755) })

	t.Setenv("XDG_DATA_HOME", tmp)

	_, err := attempt.NewStore()
	if err == nil {
		t.Fatal("expected error creating store in unwritable directory, got nil")
	}
}

// TestWatchSeesSaveAndDelete exercises the follow path end to end.
func TestWatchSeesSaveAndDelete(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store, err := attempt.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type change struct {
		a   *attempt.Attempt
		err error
	}
	changes := make(chan change, 8)
	watchDone := make(chan error, 1)
	go func() {
		watchDone <- attempt.Watch(ctx, store, func(a *attempt.Attempt, err error) {
			changes <- change{a, err}
		})
	}()

	// Give the watcher a moment to register before the first save.
	time.Sleep(100 * time.Millisecond)

	want := &attempt.Attempt{ID: uuid.NewString(), TaskID: "task-7", ScenarioTitle: "Chest pain"}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	deadline := time.After(2 * time.Second)
	var got change
	for {
		select {
		case got = <-changes:
		case <-deadline:
			t.Fatal("timed out waiting for save notification")
		}
		if got.err == nil && got.a != nil && got.a.ID == want.ID {
			break
		}
	}
	if got.a.TaskID != want.TaskID {
		t.Errorf("watched TaskID = %q, want %q", got.a.TaskID, want.TaskID)
	}

	if err := store.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	deadline = time.After(2 * time.Second)
	for {
		select {
		case got = <-changes:
		case <-deadline:
			t.Fatal("timed out waiting for delete notification")
		}
		if errors.Is(got.err, attempt.ErrNoAttempt) {
			break
		}
	}

	cancel()
	select {
	case err := <-watchDone:
		if err != nil {
			t.Errorf("Watch returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
