package report

import (
	"encoding/base64"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dispatchlab/opsim/internal/api"
)

// Unit tests for parser error conditions.

func TestMarkdownParser_PlainMarkdownWithoutSentinel(t *testing.T) {
	p := &MarkdownParser{}

	plainMarkdown := `# Some Document

Regular Markdown with no report sentinel.

- item 1
- item 2
`
	_, err := p.Parse([]byte(plainMarkdown))
	if err == nil {
		t.Fatal("expected error for plain Markdown without sentinel, got nil")
	}
	if !strings.Contains(err.Error(), "not a valid call report") {
		t.Errorf("expected error to contain 'not a valid call report', got: %q", err.Error())
	}
}

func TestMarkdownParser_CorruptedBase64Payload(t *testing.T) {
	p := &MarkdownParser{}

	// Has the version sentinel but the base64 payload is garbage.
	corrupted := `<!-- opsim-report-version: 1 -->
<!-- opsim-data: !!!not-valid-base64!!! -->

# Call report
`
	_, err := p.Parse([]byte(corrupted))
	if err == nil {
		t.Fatal("expected error for corrupted base64 payload, got nil")
	}
	if !strings.Contains(err.Error(), "not a valid call report") {
		t.Errorf("expected error to contain 'not a valid call report', got: %q", err.Error())
	}
}

func TestMarkdownParser_MissingDataPayload(t *testing.T) {
	p := &MarkdownParser{}

	noData := `<!-- opsim-report-version: 1 -->

# Call report

Some content but no data payload.
`
	_, err := p.Parse([]byte(noData))
	if err == nil {
		t.Fatal("expected error when data payload is missing, got nil")
	}
	if !strings.Contains(err.Error(), "not a valid call report") {
		t.Errorf("expected error to contain 'not a valid call report', got: %q", err.Error())
	}
}

func TestMarkdownParser_ValidBase64ButInvalidJSON(t *testing.T) {
	p := &MarkdownParser{}

	badJSON := base64.StdEncoding.EncodeToString([]byte("this is not json {{{"))
	content := "<!-- opsim-report-version: 1 -->\n<!-- opsim-data: " + badJSON + " -->\n\n# Call report\n"

	_, err := p.Parse([]byte(content))
	if err == nil {
		t.Fatal("expected error for valid base64 but invalid embedded JSON, got nil")
	}
	if !strings.Contains(err.Error(), "not a valid call report") {
		t.Errorf("expected error to contain 'not a valid call report', got: %q", err.Error())
	}
}

func TestJSONParser_MalformedJSON(t *testing.T) {
	p := &JSONParser{}

	cases := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"truncated object", `{"session": {`},
		{"plain text", "not json at all"},
		{"array instead of object", `[1, 2, 3]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Parse([]byte(tc.input))
			if err == nil {
				t.Fatalf("expected error for malformed JSON input %q, got nil", tc.input)
			}
			if !strings.Contains(err.Error(), "failed to parse JSON report") {
				t.Errorf("expected descriptive error containing 'failed to parse JSON report', got: %q", err.Error())
			}
		})
	}
}

// TestWriteThenRead exercises the disk path in both formats: Write sniffs
// the extension from the format and Read sniffs the format from the bytes.
func TestWriteThenRead(t *testing.T) {
	r := &CallReport{
		Session: SessionMeta{
			TaskID:        "task-9",
			ScenarioTitle: "Traffic accident on highway",
			AttemptNumber: 2,
			Mode:          "chat",
			EndedAt:       time.Date(2026, 5, 2, 9, 15, 0, 0, time.UTC),
		},
		Transcript: []api.DialogueEntry{{Role: "caller", Message: "There was a crash"}},
		Outcome:    &Outcome{Score: 64, Status: "failed"},
	}

	for _, format := range []string{"json", "markdown"} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			path, err := Write(dir, format, r)
			if err != nil {
				t.Fatalf("Write: %v", err)
			}
			if filepath.Dir(path) != dir {
				t.Errorf("report written to %q, want directory %q", path, dir)
			}

			loaded, err := Read(path)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if loaded.Session != r.Session {
				t.Errorf("session meta mismatch: got %+v, want %+v", loaded.Session, r.Session)
			}
			if loaded.Outcome == nil || loaded.Outcome.Score != 64 {
				t.Errorf("outcome mismatch: got %+v", loaded.Outcome)
			}
		})
	}
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	_, err := Write(t.TempDir(), "yaml", &CallReport{})
	if err == nil {
		t.Fatal("expected error for unknown format, got nil")
	}
}
