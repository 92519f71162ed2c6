package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List your assigned training tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, user, err := currentOperator(cmd)
		if err != nil {
			return err
		}

		dash, err := client.TaskDashboard(cmd.Context(), user.ID)
		if err != nil {
			return err
		}

		cmd.Printf("Pending: %d   Completed: %d   Success rate: %s\n\n",
			dash.Stats.Pending, dash.Stats.Completed, dash.Stats.SuccessRate)

		if len(dash.Tasks) == 0 {
			cmd.Println("No tasks assigned.")
			return nil
		}

		cmd.Printf("%-10s %-34s %-12s %-10s %s\n", "ID", "TITLE", "STATUS", "ATTEMPTS", "SCORE")
		for _, t := range dash.Tasks {
			attempts := fmt.Sprintf("%d/%d", t.Attempts.Current, t.Attempts.Total)
			score := "-"
			if t.Score > 0 {
				score = fmt.Sprintf("%d%%", t.Score)
			}
			cmd.Printf("%-10s %-34s %-12s %-10s %s\n", t.ID, clip(t.Title, 34), t.Status, attempts, score)
			if t.Deadline != "" {
				cmd.Printf("%10s deadline %s (%d days left), pass mark %d%%\n", "", t.Deadline, t.DaysLeft, t.MinScore)
			}
		}
		cmd.Println("\nRun 'opsim train --task <id>' to start one.")
		return nil
	},
}

// clip shortens s to at most n runes.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
