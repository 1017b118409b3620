package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/lifelist/internal/export"
	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/store"
)

var doneCmd = &cobra.Command{
	Use:   "done [goal]",
	Short: "Mark a goal as complete",
	Long: `Mark a goal as complete. The goal is named by its list number or id prefix.
Recurring goals record today's completion instead.

Examples:
  lifelist done 3
  lifelist done 3 --note "Finished in 4:12" --emotion proud
  lifelist done 3 --image finish-line.jpg
  lifelist done 3 --undo`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

var (
	doneNote    string
	doneEmotion string
	doneDate    string
	doneImage   string
	doneUndo    bool
)

func init() {
	doneCmd.Flags().StringVarP(&doneNote, "note", "n", "", "Completion note")
	doneCmd.Flags().StringVarP(&doneEmotion, "emotion", "e", "", "How it felt (happy, proud, grateful, ...)")
	doneCmd.Flags().StringVarP(&doneDate, "date", "d", "", "Completion date (YYYY-MM-DD), default today")
	doneCmd.Flags().StringVarP(&doneImage, "image", "i", "", "Attach a JPEG, PNG or WebP photo")
	doneCmd.Flags().BoolVarP(&doneUndo, "undo", "u", false, "Mark the goal as not complete")
}

func runDone(cmd *cobra.Command, args []string) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	g, err := resolveGoal(a.Store, args[0])
	if err != nil {
		return err
	}

	if doneUndo {
		reopen := false
		if _, err := a.Store.UpdateGoal(g.ID, store.GoalUpdate{Completed: &reopen}); err != nil {
			return fmt.Errorf("failed to reopen goal: %w", err)
		}
		fmt.Printf("○ Reopened: %s\n", g.Text)
		return nil
	}

	if g.State() == model.ActiveRecurring {
		updated, err := a.Store.CompleteRecurringGoal(g.ID)
		if errors.Is(err, store.ErrAlreadyCompletedToday) {
			fmt.Printf("Already completed today: %s\n", g.Text)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to complete goal: %w", err)
		}
		fmt.Printf("🔁 Completed today: %s (×%d, next due %s)\n",
			updated.Text, updated.Recurring.TotalCompletions, model.DateKey(updated.Recurring.NextDue))
		return nil
	}

	c := store.Completion{Note: doneNote, Emotion: model.Emotion(doneEmotion)}
	if doneDate != "" {
		d, err := time.ParseInLocation(model.DateLayout, doneDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q: use YYYY-MM-DD", doneDate)
		}
		c.Date = &d
	}
	if doneImage != "" {
		data, err := os.ReadFile(doneImage)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		p, _ := a.Store.CurrentProfile()
		if c.Image, err = export.PrepareImage(data, p.Settings); err != nil {
			return fmt.Errorf("failed to attach image: %w", err)
		}
	}

	updated, err := a.Store.CompleteGoal(g.ID, c)
	if err != nil {
		return fmt.Errorf("failed to complete goal: %w", err)
	}

	fmt.Printf("✓ Completed: %s\n", updated.Text)
	if updated.CompletionEmotion != "" {
		fmt.Printf("  Feeling %s\n", updated.CompletionEmotion)
	}
	st := a.Store.Stats()
	fmt.Printf("🎉 %d of %d goals done (%d%%)\n", st.Completed, st.Total, st.Percentage)
	return nil
}
