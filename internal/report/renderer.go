package report

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Renderer serializes a CallReport to bytes.
type Renderer interface {
	Render(r *CallReport) ([]byte, error)
}

// JSONRenderer renders a CallReport as indented JSON.
type JSONRenderer struct{}

func (jr *JSONRenderer) Render(r *CallReport) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// MarkdownRenderer renders a CallReport as human-readable Markdown with an
// embedded base64 JSON payload for lossless round-trip parsing.
type MarkdownRenderer struct{}

func (mr *MarkdownRenderer) Render(r *CallReport) ([]byte, error) {
	jsonBytes, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(jsonBytes)

	var sb strings.Builder

	// Sentinel and embedded payload.
	sb.WriteString("<!-- opsim-report-version: 1 -->\n")
	fmt.Fprintf(&sb, "<!-- opsim-data: %s -->\n\n", encoded)

	// Title.
	fmt.Fprintf(&sb, "# Call report: %s (attempt %d)\n\n",
		r.Session.ScenarioTitle,
		r.Session.AttemptNumber,
	)

	// ## Summary
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Mode: %s\n", r.Session.Mode)
	if r.Session.Training {
		sb.WriteString("- Run type: training\n")
	} else {
		sb.WriteString("- Run type: practice\n")
	}
	if r.Session.Operator != "" {
		fmt.Fprintf(&sb, "- Operator: %s\n", r.Session.Operator)
	}
	fmt.Fprintf(&sb, "- Ended: %s\n", r.Session.EndedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "- Duration: %s\n", r.Session.Duration)
	if r.Outcome != nil {
		fmt.Fprintf(&sb, "- Status: %s\n", r.Outcome.Status)
		fmt.Fprintf(&sb, "- Score: %.0f%%\n", r.Outcome.Score)
	}
	sb.WriteString("\n")

	// ## Evaluation
	sb.WriteString("## Evaluation\n\n")
	if r.Outcome == nil || len(r.Outcome.Evaluation) == 0 {
		sb.WriteString("_Not evaluated._\n")
	} else {
		sb.WriteString("| Criterion | Score |\n")
		sb.WriteString("|-----------|-------|\n")
		for _, key := range evaluationKeys(r.Outcome.Evaluation) {
			fmt.Fprintf(&sb, "| %s | %.0f |\n", EvaluationLabel(key), r.Outcome.Evaluation[key])
		}
	}
	sb.WriteString("\n")

	// ## Transcript
	sb.WriteString("## Transcript\n\n")
	if len(r.Transcript) == 0 {
		sb.WriteString("_No messages recorded._\n")
	} else {
		for _, entry := range r.Transcript {
			fmt.Fprintf(&sb, "- **%s**: %s\n", entry.Role, entry.Message)
		}
	}
	sb.WriteString("\n")

	// ## Report Form
	sb.WriteString("## Report Form\n\n")
	form := [...][2]string{
		{"Caller name", r.Form.CallerName},
		{"Caller age", r.Form.CallerAge},
		{"Caller type", r.Form.CallerType},
		{"Priority", r.Form.Priority},
		{"Region", r.Form.Region},
		{"City", r.Form.City},
		{"Street", r.Form.Street},
		{"Number", r.Form.Number},
		{"Diagnosis", r.Form.Diagnosis},
		{"Notes", r.Form.OperatorNotes},
		{"Extra units", strings.Join(r.Form.ExtraUnits, ", ")},
	}
	for _, row := range form {
		value := row[1]
		if value == "" {
			value = "_empty_"
		}
		fmt.Fprintf(&sb, "- %s: %s\n", row[0], value)
	}
	sb.WriteString("\n")

	return []byte(sb.String()), nil
}

// evaluationKeys returns the known keys in display order followed by any
// unknown keys sorted alphabetically.
func evaluationKeys(eval map[string]float64) []string {
	keys := make([]string, 0, len(eval))
	seen := make(map[string]bool, len(eval))
	for _, key := range EvaluationOrder {
		if _, ok := eval[key]; ok {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	var extra []string
	for key := range eval {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}
