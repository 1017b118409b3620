package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/store"
)

var recurCmd = &cobra.Command{
	Use:     "recur",
	Aliases: []string{"recurring"},
	Short:   "Work with recurring goals",
	Long: `Recurring goals are completed once per day at most and keep going until stopped.

Examples:
  lifelist recur done 4
  lifelist recur status
  lifelist recur stop 4`,
}

var recurDoneCmd = &cobra.Command{
	Use:   "done [goal]",
	Short: "Record today's completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecurDone,
}

var recurStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show every recurring goal and whether today is done",
	RunE:  runRecurStatus,
}

var recurStopCmd = &cobra.Command{
	Use:   "stop [goal]",
	Short: "Deactivate a recurring goal for good",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecurStop,
}

func init() {
	recurCmd.AddCommand(recurDoneCmd)
	recurCmd.AddCommand(recurStatusCmd)
	recurCmd.AddCommand(recurStopCmd)
}

func runRecurDone(cmd *cobra.Command, args []string) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	g, err := resolveGoal(a.Store, args[0])
	if err != nil {
		return err
	}
	updated, err := a.Store.CompleteRecurringGoal(g.ID)
	if errors.Is(err, store.ErrAlreadyCompletedToday) {
		fmt.Printf("Already completed today: %s\n", g.Text)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to complete goal: %w", err)
	}
	fmt.Printf("🔁 %s ×%d, next due %s\n", updated.Text, updated.Recurring.TotalCompletions, model.DateKey(updated.Recurring.NextDue))
	return nil
}

func runRecurStatus(cmd *cobra.Command, args []string) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	goals, err := a.Store.Goals()
	if err != nil {
		return err
	}

	shown := 0
	fmt.Println()
	for i, g := range goals {
		if g.Recurring == nil {
			continue
		}
		shown++
		status := "stopped"
		if g.Recurring.IsActive {
			if open, _ := a.Store.CanCompleteToday(g.ID); open {
				status = "due, next " + model.DateKey(g.Recurring.NextDue)
			} else {
				status = "✓ done today"
			}
		}
		fmt.Printf("  %3d. %-40s %-8s ×%-4d %s\n", i+1, truncate(g.Text, 40), g.Recurring.Type, g.Recurring.TotalCompletions, status)
	}
	if shown == 0 {
		fmt.Println("No recurring goals. Add one with: lifelist add \"Meditate\" --recur daily")
		return nil
	}
	fmt.Println()
	return nil
}

func runRecurStop(cmd *cobra.Command, args []string) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	g, err := resolveGoal(a.Store, args[0])
	if err != nil {
		return err
	}
	if cfg.ConfirmDelete && !confirm(fmt.Sprintf("Stop %q for good? This cannot be undone.", g.Text)) {
		fmt.Println("Aborted.")
		return nil
	}
	updated, err := a.Store.DeactivateRecurringGoal(g.ID)
	if err != nil {
		return fmt.Errorf("failed to stop goal: %w", err)
	}
	fmt.Printf("⏹ Stopped after %d completions: %s\n", updated.Recurring.TotalCompletions, updated.Text)
	return nil
}
