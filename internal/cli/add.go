package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a goal to the bucket list",
	Long: `Add a goal to the active profile's bucket list.

Examples:
  lifelist add "Run a marathon" -c health
  lifelist add "See the northern lights" -c travel --priority high
  lifelist add "Call grandma" -c relationship --recur weekly`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addCategory string
	addPriority string
	addRecur    string
	addForce    bool
)

func init() {
	addCmd.Flags().StringVarP(&addCategory, "category", "c", string(model.CategoryOther),
		"Category (travel, hobby, career, relationship, health, other)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", string(model.PriorityMedium), "Priority (low, medium, high)")
	addCmd.Flags().StringVarP(&addRecur, "recur", "r", "", "Make the goal recurring (daily, weekly, monthly, yearly)")
	addCmd.Flags().BoolVarP(&addForce, "force", "f", false, "Add even if a goal with the same text exists")
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	text := strings.Join(args, " ")
	if !addForce && a.Store.DuplicateGoalExists(text) {
		if !confirm(fmt.Sprintf("A goal named %q already exists. Add it anyway?", strings.TrimSpace(text))) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	g, err := a.Store.AddGoal(store.GoalInput{
		Text:      text,
		Category:  model.Category(addCategory),
		Priority:  model.Priority(addPriority),
		Recurring: model.RecurrenceType(addRecur),
	})
	if err != nil {
		return fmt.Errorf("failed to add goal: %w", err)
	}

	fmt.Printf("✓ Added to [%s]: \"%s\" (%s)\n", g.Category, g.Text, g.Priority)
	if g.Recurring != nil {
		fmt.Printf("🔁 Repeats %s, next due %s\n", g.Recurring.Type, model.DateKey(g.Recurring.NextDue))
	}
	return nil
}
