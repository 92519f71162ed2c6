package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dispatchlab/opsim/internal/api"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your performance summary and skill progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, user, err := currentOperator(cmd)
		if err != nil {
			return err
		}

		// The two stats endpoints are independent; fetch them in parallel.
		var (
			summary *api.StatsSummary
			skills  []api.Skill
		)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			var err error
			summary, err = client.Summary(ctx, user.ID)
			return err
		})
		g.Go(func() error {
			var err error
			skills, err = client.SkillStats(ctx, user.ID)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		cmd.Printf("Calls: %d   Average: %.0f%%   Best: %.0f%%   Average time: %s\n\n",
			summary.TotalCalls, summary.AverageScore, summary.BestScore, summary.AverageTime)

		if len(skills) == 0 {
			cmd.Println("No skill data yet.")
			return nil
		}

		cmd.Println("Skills:")
		for _, s := range skills {
			cmd.Printf("  %-24s %3d/%3d  %s\n", clip(s.Name, 24), s.Current, s.Target, progressBar(s.Current, s.Target, 20))
		}
		return nil
	},
}

// progressBar draws current/target as a fixed-width gauge.
func progressBar(current, target, width int) string {
	if target <= 0 {
		target = 100
	}
	filled := current * width / target
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
