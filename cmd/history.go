package cmd

import (
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List your completed training calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, user, err := currentOperator(cmd)
		if err != nil {
			return err
		}

		hist, err := client.CallHistory(cmd.Context(), user.ID)
		if err != nil {
			return err
		}

		cmd.Printf("Total calls: %d   Average score: %.0f%%   Last call: %s\n\n",
			hist.Stats.TotalCalls, hist.Stats.AverageScore, hist.Stats.LastCallDate)

		if len(hist.Calls) == 0 {
			cmd.Println("No completed calls yet.")
			return nil
		}

		cmd.Printf("%-28s %-10s %-12s %-8s %-10s %s\n", "SCENARIO", "SEVERITY", "DATE", "TIME", "DURATION", "SCORE")
		for _, c := range hist.Calls {
			cmd.Printf("%-28s %-10s %-12s %-8s %-10s %d%%\n",
				clip(c.Name, 28), c.Severity, c.Date, c.Time, c.Duration, c.Score)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
