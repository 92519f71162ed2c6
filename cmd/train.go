package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dispatchlab/opsim/internal/api"
	"github.com/dispatchlab/opsim/internal/attempt"
	"github.com/dispatchlab/opsim/internal/tui"
)

var (
	trainTaskID   string
	trainPractice bool
	trainPhone    string
	trainFormat   string
	trainOutput   string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run a live training session for a task",
	Long: `Claims the task, opens a session against the simulator, and drops you
into the live console: transcript on the left, incident report form on the
right. With --phone the simulator places a real voice call and the console
follows it; without it you chat with the simulated caller directly.

An interrupted session leaves its attempt on disk and is resumed by running
train again for the same task.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, user, err := currentOperator(cmd)
		if err != nil {
			return err
		}

		store, err := attempt.NewStore()
		if err != nil {
			return err
		}

		// A leftover attempt for a different task blocks a new one: ending it
		// properly (or 'opsim reset') comes first.
		if prev, err := store.Load(); err == nil && prev.TaskID != trainTaskID {
			return fmt.Errorf("an attempt for task %s (%s) is still in progress; finish it or run 'opsim reset'",
				prev.TaskID, prev.ScenarioTitle)
		} else if err != nil && !errors.Is(err, attempt.ErrNoAttempt) {
			return err
		}

		claim, err := client.StartTask(cmd.Context(), trainTaskID, user.ID)
		if err != nil {
			return fmt.Errorf("claiming task: %w", err)
		}
		if claim.Mode == "resume" {
			cmd.Printf("Resuming attempt for %q…\n", claim.ScenarioTitle)
		}

		record := &attempt.Attempt{
			ID:            uuid.NewString(),
			TaskID:        trainTaskID,
			ScenarioTitle: claim.ScenarioTitle,
			AttemptID:     claim.AttemptID,
			OperatorID:    user.ID,
			Training:      !trainPractice,
			StartedAt:     time.Now().UTC(),
		}
		if trainPhone != "" {
			record.Mode = "call"
		} else {
			record.Mode = "chat"
		}
		if err := store.Save(record); err != nil {
			return err
		}

		format := trainFormat
		if format == "" {
			format = cfg.DefaultFormat
		}
		output := trainOutput
		if output == "" {
			output = cfg.OutputDir
		}

		return tui.RunLive(tui.LiveOptions{
			Client:        client,
			VoiceAgentURL: cfg.VoiceAgentURL,
			Params: api.StartParams{
				TaskID:      trainTaskID,
				OperatorID:  user.ID,
				UserEmail:   user.Email,
				Training:    claim.ScenarioTitle,
				Practice:    trainPractice,
				PhoneNumber: trainPhone,
			},
			ScenarioTitle: claim.ScenarioTitle,
			Operator:      user.Email,
			Store:         store,
			Record:        record,
			OutputDir:     output,
			Format:        format,
		})
	},
}

func init() {
	trainCmd.Flags().StringVar(&trainTaskID, "task", "", "task id to train on (see 'opsim tasks')")
	trainCmd.Flags().BoolVar(&trainPractice, "practice", false, "practice run: no attempt is consumed and no score is recorded")
	trainCmd.Flags().StringVar(&trainPhone, "phone", "", "phone number for a live voice call instead of chat")
	trainCmd.Flags().StringVar(&trainFormat, "format", "", "report format: json or markdown (default from config)")
	trainCmd.Flags().StringVar(&trainOutput, "output", "", "directory for the call report (default from config)")
	trainCmd.MarkFlagRequired("task")
	rootCmd.AddCommand(trainCmd)
}
