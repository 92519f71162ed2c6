package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/dispatchlab/opsim/internal/attempt"
)

var statusFollow bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the attempt currently in progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := attempt.NewStore()
		if err != nil {
			return err
		}

		printAttempt := func(a *attempt.Attempt, err error) {
			if err != nil {
				if errors.Is(err, attempt.ErrNoAttempt) {
					cmd.Println("no attempt in progress")
				} else {
					cmd.Printf("error: %v\n", err)
				}
				return
			}
			cmd.Printf("Task: %s (%s)\n", a.TaskID, a.ScenarioTitle)
			cmd.Printf("Mode: %s\n", a.Mode)
			if a.SessionID != "" {
				cmd.Printf("Session: %s\n", a.SessionID)
			}
			cmd.Printf("Started: %s\n", a.StartedAt.Local().Format(time.RFC3339))
			cmd.Printf("Elapsed: %s\n", time.Since(a.StartedAt).Round(time.Second).String())
		}

		printAttempt(store.Load())
		if !statusFollow {
			return nil
		}

		cmd.Println("\nwatching for changes (ctrl+c to stop)…")
		return attempt.Watch(cmd.Context(), store, func(a *attempt.Attempt, err error) {
			cmd.Println("---")
			printAttempt(a, err)
		})
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusFollow, "follow", false, "keep watching the attempt state")
	rootCmd.AddCommand(statusCmd)
}
