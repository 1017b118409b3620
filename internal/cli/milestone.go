package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/lifelist/internal/store"
)

var milestoneCmd = &cobra.Command{
	Use:     "milestone",
	Aliases: []string{"ms"},
	Short:   "Group a goal's tasks into milestones",
	Long: `Milestones track a subset of a goal's tasks. A milestone is achieved once all
of its tasks are done.

Examples:
  lifelist milestone add 1 "First 10k" --tasks 1,2 --target 2024-06-01
  lifelist milestone list 1`,
}

var milestoneAddCmd = &cobra.Command{
	Use:   "add [goal] [title]",
	Short: "Add a milestone",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runMilestoneAdd,
}

var milestoneListCmd = &cobra.Command{
	Use:     "list [goal]",
	Aliases: []string{"ls"},
	Short:   "List milestones and their progress",
	Args:    cobra.ExactArgs(1),
	RunE:    runMilestoneList,
}

var milestoneDeleteCmd = &cobra.Command{
	Use:     "delete [goal] [milestone]",
	Aliases: []string{"rm"},
	Short:   "Delete a milestone",
	Args:    cobra.ExactArgs(2),
	RunE:    runMilestoneDelete,
}

var (
	milestoneTasks  []string
	milestoneTarget string
)

func init() {
	milestoneAddCmd.Flags().StringSliceVarP(&milestoneTasks, "tasks", "t", nil, "Tasks in the milestone (numbers or id prefixes)")
	milestoneAddCmd.Flags().StringVar(&milestoneTarget, "target", "", "Target date (YYYY-MM-DD)")

	milestoneCmd.AddCommand(milestoneAddCmd)
	milestoneCmd.AddCommand(milestoneListCmd)
	milestoneCmd.AddCommand(milestoneDeleteCmd)
}

func runMilestoneAdd(cmd *cobra.Command, args []string) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	g, err := resolveGoal(a.Store, args[0])
	if err != nil {
		return err
	}
	var ids []string
	for _, ref := range milestoneTasks {
		t, err := resolveTask(g, strings.TrimSpace(ref))
		if err != nil {
			return err
		}
		ids = append(ids, t.ID)
	}

	m, err := a.Store.AddMilestone(g.ID, store.MilestoneInput{
		Title:      strings.Join(args[1:], " "),
		TargetDate: milestoneTarget,
		TaskIDs:    ids,
	})
	if err != nil {
		return fmt.Errorf("failed to add milestone: %w", err)
	}
	fmt.Printf("🏁 Added milestone to \"%s\": %s (%d tasks)\n", g.Text, m.Title, len(m.TaskIDs))
	return nil
}

func runMilestoneList(cmd *cobra.Command, args []string) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	g, err := resolveGoal(a.Store, args[0])
	if err != nil {
		return err
	}
	if len(g.Milestones) == 0 {
		fmt.Println("No milestones yet.")
		return nil
	}

	fmt.Println()
	for i, m := range g.Milestones {
		st := g.MilestoneProgress(m)
		mark := "○"
		if st.Achieved {
			mark = "🏆"
		}
		line := fmt.Sprintf("  %d. %s %-30s %d/%d (%d%%)", i+1, mark, truncate(m.Title, 30), st.Completed, st.Total, st.Percent)
		if m.TargetDate != "" {
			line += "  target " + m.TargetDate
		}
		fmt.Println(line)
	}
	fmt.Println()
	return nil
}

func runMilestoneDelete(cmd *cobra.Command, args []string) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	g, err := resolveGoal(a.Store, args[0])
	if err != nil {
		return err
	}
	m, err := resolveMilestone(g, args[1])
	if err != nil {
		return err
	}
	if err := a.Store.DeleteMilestone(g.ID, m.ID); err != nil {
		return fmt.Errorf("failed to delete milestone: %w", err)
	}
	fmt.Printf("✗ Deleted milestone: %s\n", m.Title)
	return nil
}
