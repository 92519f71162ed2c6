package sim

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/dispatchlab/opsim/internal/api"
)

// TestTranscriptAppendOnly: for any seed history and any live sequence, the
// observed order is seed-order followed by live-arrival-order, with nothing
// dropped or duplicated.
func TestTranscriptAppendOnly(t *testing.T) {
	message := rapid.StringMatching(`[a-zA-Z ?!.]{0,30}`)
	role := rapid.SampledFrom([]string{RoleOperator, RoleCaller})

	rapid.Check(t, func(t *rapid.T) {
		seedCount := rapid.IntRange(0, 10).Draw(t, "seedCount")
		liveCount := rapid.IntRange(0, 10).Draw(t, "liveCount")

		seed := make([]api.DialogueEntry, seedCount)
		for i := range seed {
			seed[i] = api.DialogueEntry{
				Role:      role.Draw(t, "seedRole"),
				Message:   message.Draw(t, "seedMessage"),
				Timestamp: "t0",
			}
		}

		tr := NewTranscript()
		tr.Seed(seed)

		var live []api.DialogueEntry
		for i := 0; i < liveCount; i++ {
			live = append(live, tr.Append(role.Draw(t, "liveRole"), message.Draw(t, "liveMessage")))
		}

		got := tr.Entries()
		if len(got) != seedCount+liveCount {
			t.Fatalf("got %d entries, want %d", len(got), seedCount+liveCount)
		}
		for i, want := range seed {
			if got[i] != want {
				t.Fatalf("seed entry %d reordered: got %+v want %+v", i, got[i], want)
			}
		}
		for i, want := range live {
			if got[seedCount+i] != want {
				t.Fatalf("live entry %d reordered: got %+v want %+v", i, got[seedCount+i], want)
			}
		}
	})
}

func TestTranscriptSeedOnce(t *testing.T) {
	tr := NewTranscript()
	tr.Seed([]api.DialogueEntry{{Role: RoleCaller, Message: "Hello", Timestamp: "t0"}})
	tr.Seed([]api.DialogueEntry{{Role: RoleCaller, Message: "again", Timestamp: "t1"}})

	got := tr.Entries()
	if len(got) != 1 || got[0].Message != "Hello" {
		t.Fatalf("second seed must be ignored, got %+v", got)
	}
}

func TestTranscriptSeedBeforeEarlyLive(t *testing.T) {
	tr := NewTranscript()
	tr.Append(RoleCaller, "live first")
	tr.Seed([]api.DialogueEntry{{Role: RoleCaller, Message: "history", Timestamp: "t0"}})

	got := tr.Entries()
	if len(got) != 2 || got[0].Message != "history" || got[1].Message != "live first" {
		t.Fatalf("seed must precede live entries, got %+v", got)
	}
}

func TestTranscriptSnapshotIsolation(t *testing.T) {
	tr := NewTranscript()
	tr.Append(RoleCaller, "one")
	snap := tr.Entries()
	tr.Append(RoleOperator, "two")

	if len(snap) != 1 {
		t.Fatalf("earlier snapshot must not grow, got %d entries", len(snap))
	}
	if tr.Len() != 2 {
		t.Fatalf("transcript should have 2 entries, got %d", tr.Len())
	}
}

func TestAppendTimestampIsRFC3339(t *testing.T) {
	tr := NewTranscript()
	e := tr.Append(RoleCaller, "hi")
	if _, err := time.Parse(time.RFC3339, e.Timestamp); err != nil {
		t.Fatalf("timestamp %q is not RFC 3339: %v", e.Timestamp, err)
	}
}

func TestTypingSentinel(t *testing.T) {
	if !IsTyping("...") {
		t.Error(`"..." should be the typing sentinel`)
	}
	if IsTyping("... on my way") {
		t.Error("text containing dots is not the sentinel")
	}
}

func TestOperatorRoles(t *testing.T) {
	for _, role := range []string{"operator", "user"} {
		if !IsOperatorRole(role) {
			t.Errorf("%q should be an operator role", role)
		}
	}
	if IsOperatorRole("caller") {
		t.Error("caller is not an operator role")
	}
}
