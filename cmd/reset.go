package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dispatchlab/opsim/internal/attempt"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the local attempt state",
	Long: `Removes the locally recorded attempt without ending the gateway session.
The gateway keeps the attempt's dialogue, so training the same task again
resumes it server-side.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := attempt.NewStore()
		if err != nil {
			return err
		}

		if _, err := store.Load(); err != nil {
			if errors.Is(err, attempt.ErrNoAttempt) {
				cmd.Println("no attempt in progress")
				return nil
			}
			return err
		}

		if err := store.Delete(); err != nil {
			return err
		}
		cmd.Println("Attempt state cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
