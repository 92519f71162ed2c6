package report_test

import (
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/dispatchlab/opsim/internal/api"
	"github.com/dispatchlab/opsim/internal/report"
)

// generateTime produces an arbitrary time.Time value truncated to second
// precision (matches JSON round-trip fidelity via RFC3339).
func generateTime(t *rapid.T, label string) time.Time {
	sec := rapid.Int64Range(1_000_000_000, 1_700_000_000).Draw(t, label+"_unix_sec")
	return time.Unix(sec, 0).UTC()
}

// generateReport produces a fully-populated *report.CallReport with at least
// one transcript entry and a scored outcome.
func generateReport(t *rapid.T) *report.CallReport {
	meta := report.SessionMeta{
		SessionID:     rapid.StringN(1, 36, -1).Draw(t, "session_id"),
		AttemptID:     rapid.StringN(1, 36, -1).Draw(t, "attempt_id"),
		AttemptNumber: rapid.IntRange(1, 50).Draw(t, "attempt_number"),
		TaskID:        rapid.StringN(1, 36, -1).Draw(t, "task_id"),
		ScenarioTitle: rapid.StringN(1, 60, -1).Draw(t, "scenario_title"),
		Mode:          "call",
		Training:      rapid.Bool().Draw(t, "training"),
		Operator:      rapid.StringN(1, 40, -1).Draw(t, "operator"),
		StartedAt:     generateTime(t, "started"),
		EndedAt:       generateTime(t, "ended"),
		Duration:      rapid.StringN(1, 20, -1).Draw(t, "duration"),
	}

	numEntries := rapid.IntRange(1, 8).Draw(t, "num_entries")
	transcript := make([]api.DialogueEntry, numEntries)
	for i := range transcript {
		role := "caller"
		if rapid.Bool().Draw(t, "is_operator") {
			role = "operator"
		}
		transcript[i] = api.DialogueEntry{
			Role:      role,
			Message:   rapid.StringN(1, 80, -1).Draw(t, "message"),
			Timestamp: generateTime(t, "entry").Format(time.RFC3339),
		}
	}

	form := api.ReportForm{
		CallerName: rapid.StringN(1, 40, -1).Draw(t, "caller_name"),
		CallerAge:  rapid.StringN(1, 3, -1).Draw(t, "caller_age"),
		CallerType: "H1",
		Priority:   "K",
		Region:     rapid.StringN(1, 40, -1).Draw(t, "region"),
		City:       rapid.StringN(1, 40, -1).Draw(t, "city"),
		Diagnosis:  "Heart attack",
		ExtraUnits: []string{"HaZZ"},
	}

	outcome := &report.Outcome{
		Score:  rapid.Float64Range(0, 100).Draw(t, "score"),
		Status: "completed",
		Evaluation: map[string]float64{
			"accuracy_of_collected_data": rapid.Float64Range(0, 100).Draw(t, "eval_accuracy"),
			"operator_empathy":           rapid.Float64Range(0, 100).Draw(t, "eval_empathy"),
		},
	}

	return &report.CallReport{
		Session:    meta,
		Transcript: transcript,
		Form:       form,
		Outcome:    outcome,
	}
}

// Every report survives a render/parse round-trip in both formats.
func TestReportRoundTrip(t *testing.T) {
	mdRenderer := &report.MarkdownRenderer{}
	jsonRenderer := &report.JSONRenderer{}
	mdParser := &report.MarkdownParser{}
	jsonParser := &report.JSONParser{}

	rapid.Check(t, func(t *rapid.T) {
		original := generateReport(t)

		for _, rt := range []struct {
			name     string
			renderer report.Renderer
			parser   report.Parser
		}{
			{"markdown", mdRenderer, mdParser},
			{"json", jsonRenderer, jsonParser},
		} {
			data, err := rt.renderer.Render(original)
			if err != nil {
				t.Fatalf("%s render: %v", rt.name, err)
			}
			parsed, err := rt.parser.Parse(data)
			if err != nil {
				t.Fatalf("%s parse: %v", rt.name, err)
			}

			if parsed.Session != original.Session {
				t.Errorf("%s: session meta mismatch: got %+v, want %+v", rt.name, parsed.Session, original.Session)
			}
			if len(parsed.Transcript) != len(original.Transcript) {
				t.Fatalf("%s: transcript length mismatch: got %d, want %d", rt.name, len(parsed.Transcript), len(original.Transcript))
			}
			for i, entry := range original.Transcript {
				if parsed.Transcript[i] != entry {
					t.Errorf("%s: transcript[%d] mismatch: got %+v, want %+v", rt.name, i, parsed.Transcript[i], entry)
				}
			}
			if parsed.Form.CallerName != original.Form.CallerName || parsed.Form.Diagnosis != original.Form.Diagnosis {
				t.Errorf("%s: form mismatch: got %+v, want %+v", rt.name, parsed.Form, original.Form)
			}
			if parsed.Outcome == nil {
				t.Fatalf("%s: outcome lost in round-trip", rt.name)
			}
			if parsed.Outcome.Score != original.Outcome.Score || parsed.Outcome.Status != original.Outcome.Status {
				t.Errorf("%s: outcome mismatch: got %+v, want %+v", rt.name, parsed.Outcome, original.Outcome)
			}
			for key, score := range original.Outcome.Evaluation {
				if parsed.Outcome.Evaluation[key] != score {
					t.Errorf("%s: evaluation[%s] = %v, want %v", rt.name, key, parsed.Outcome.Evaluation[key], score)
				}
			}
		}
	})
}

// TestMarkdownRendersHumanSections checks the visible structure of the
// Markdown output, independent of the embedded payload.
func TestMarkdownRendersHumanSections(t *testing.T) {
	r := &report.CallReport{
		Session: report.SessionMeta{
			ScenarioTitle: "Chest pain at home",
			AttemptNumber: 3,
			Mode:          "call",
			Training:      true,
			EndedAt:       time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
			Duration:      "4m35s",
		},
		Transcript: []api.DialogueEntry{
			{Role: "caller", Message: "My father collapsed"},
			{Role: "operator", Message: "Is he breathing?"},
		},
		Form: api.ReportForm{CallerName: "Jana Kovacs", Priority: "K"},
		Outcome: &report.Outcome{
			Score:  82,
			Status: "completed",
			Evaluation: map[string]float64{
				"operator_empathy": 90,
				"response_speed":   75,
			},
		},
	}

	data, err := (&report.MarkdownRenderer{}).Render(r)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"# Call report: Chest pain at home (attempt 3)",
		"- Score: 82%",
		"- Status: completed",
		"| Empathy | 90 |",
		"| Response speed | 75 |",
		"- **caller**: My father collapsed",
		"- **operator**: Is he breathing?",
		"- Caller name: Jana Kovacs",
		"- Diagnosis: _empty_",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

// TestMarkdownUnscoredReport checks abandoned sessions render without an
// evaluation table.
func TestMarkdownUnscoredReport(t *testing.T) {
	r := &report.CallReport{
		Session: report.SessionMeta{ScenarioTitle: "Abandoned run", AttemptNumber: 1},
	}
	data, err := (&report.MarkdownRenderer{}).Render(r)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "_Not evaluated._") {
		t.Error("expected unscored marker in evaluation section")
	}
	if !strings.Contains(out, "_No messages recorded._") {
		t.Error("expected empty transcript marker")
	}
}

func TestEvaluationLabelFallsBackToKey(t *testing.T) {
	if got := report.EvaluationLabel("operator_empathy"); got != "Empathy" {
		t.Errorf("EvaluationLabel(operator_empathy) = %q", got)
	}
	if got := report.EvaluationLabel("brand_new_metric"); got != "brand_new_metric" {
		t.Errorf("EvaluationLabel(unknown) = %q, want raw key", got)
	}
}
