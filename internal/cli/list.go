package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/store"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List goals",
	Long: `List the active profile's goals.

Examples:
  lifelist list
  lifelist list --filter travel
  lifelist list --filter completed --sort completed
  lifelist list --search marathon`,
	RunE: runList,
}

var (
	listFilter string
	listSearch string
	listSort   string
	listTasks  bool
)

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "all", "all, completed, active or a category")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Search goal text and completion notes")
	listCmd.Flags().StringVar(&listSort, "sort", string(store.SortDateDesc), "date-desc, date-asc, category or completed")
	listCmd.Flags().BoolVarP(&listTasks, "tasks", "t", false, "Show tasks under each goal")
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := store.ParseFilter(listFilter)
	if err != nil {
		return err
	}
	order, err := store.ParseSortOrder(listSort)
	if err != nil {
		return err
	}

	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	all, err := a.Store.Goals()
	if err != nil {
		return err
	}
	position := make(map[string]int, len(all))
	for i, g := range all {
		position[g.ID] = i + 1
	}

	goals, err := a.Store.FilteredGoals(filter, listSearch, order)
	if err != nil {
		return fmt.Errorf("failed to list goals: %w", err)
	}
	if len(goals) == 0 {
		if len(all) == 0 {
			fmt.Println("No goals yet. Add one with: lifelist add \"Your dream\"")
		} else {
			fmt.Println("No goals match.")
		}
		return nil
	}

	fmt.Println()
	for _, g := range goals {
		printGoal(position[g.ID], g)
		if listTasks {
			for i, t := range g.Tasks {
				check := "[ ]"
				if t.Completed {
					check = "[✓]"
				}
				fmt.Printf("        %d. %s %s\n", i+1, check, truncate(t.Text, 60))
			}
		}
	}
	fmt.Printf("\n%d of %d goals\n", len(goals), len(all))
	return nil
}

func printGoal(n int, g model.Goal) {
	check := "[ ]"
	if g.Completed {
		check = "[✓]"
	}

	var extra []string
	if len(g.Tasks) > 0 {
		extra = append(extra, fmt.Sprintf("%d%% tasks", g.TaskProgress))
	}
	switch g.State() {
	case model.ActiveRecurring:
		extra = append(extra, fmt.Sprintf("🔁 %s ×%d", g.Recurring.Type, g.Recurring.TotalCompletions))
	case model.DeactivatedRecurring:
		extra = append(extra, "🔁 stopped")
	}
	if g.Completed && g.CompletedAt != nil {
		extra = append(extra, "done "+humanize.Time(*g.CompletedAt))
	} else {
		extra = append(extra, "added "+humanize.Time(g.CreatedAt))
	}

	fmt.Printf("  %3d. %s %-45s  %-12s  %s\n", n, check, truncate(g.Text, 45), g.Category, strings.Join(extra, " · "))
}
