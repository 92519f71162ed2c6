package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dispatchlab/opsim/internal/report"
	"github.com/dispatchlab/opsim/internal/tui"
)

var plainOutput bool

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "View a saved call report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		r, err := report.Read(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file not found: %s", path)
			}
			return err
		}

		if plainOutput {
			printReport(cmd, r)
			return nil
		}
		return tui.RunViewer(r, path)
	},
}

// printReport writes a plain-text rendition to stdout.
func printReport(cmd *cobra.Command, r *report.CallReport) {
	cmd.Println("## Summary")
	cmd.Printf("  Scenario:  %s (attempt %d)\n", r.Session.ScenarioTitle, r.Session.AttemptNumber)
	cmd.Printf("  Mode:      %s\n", r.Session.Mode)
	if !r.Session.EndedAt.IsZero() {
		cmd.Printf("  Ended:     %s\n", r.Session.EndedAt.Format("2006-01-02 15:04:05 MST"))
	}
	cmd.Printf("  Duration:  %s\n", r.Session.Duration)
	if r.Outcome != nil {
		cmd.Printf("  Status:    %s\n", r.Outcome.Status)
		cmd.Printf("  Score:     %.0f%%\n", r.Outcome.Score)
	}
	cmd.Println()

	cmd.Println("## Evaluation")
	if r.Outcome == nil || len(r.Outcome.Evaluation) == 0 {
		cmd.Println("  (not evaluated)")
	} else {
		for _, key := range report.EvaluationOrder {
			if v, ok := r.Outcome.Evaluation[key]; ok {
				cmd.Printf("  %-16s %.0f\n", report.EvaluationLabel(key), v)
			}
		}
	}
	cmd.Println()

	cmd.Println("## Transcript")
	if len(r.Transcript) == 0 {
		cmd.Println("  (no messages)")
	} else {
		for _, entry := range r.Transcript {
			cmd.Printf("  %-9s %s\n", entry.Role+":", entry.Message)
		}
	}
	cmd.Println()

	cmd.Println("## Report Form")
	form := r.Form
	rows := [][2]string{
		{"Caller name", form.CallerName},
		{"Caller age", form.CallerAge},
		{"Caller type", form.CallerType},
		{"Priority", form.Priority},
		{"Region", form.Region},
		{"City", form.City},
		{"Street", form.Street},
		{"Number", form.Number},
		{"Diagnosis", form.Diagnosis},
		{"Notes", form.OperatorNotes},
		{"Extra units", strings.Join(form.ExtraUnits, ", ")},
	}
	for _, row := range rows {
		value := row[1]
		if value == "" {
			value = "(empty)"
		}
		cmd.Printf("  %-12s %s\n", row[0]+":", value)
	}
	cmd.Println()
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of TUI")
	rootCmd.AddCommand(viewCmd)
}
