package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/store"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Break a goal into tasks",
	Long: `Manage the tasks of a goal. Goals and tasks are named by list number or id prefix.

Examples:
  lifelist task add 1 "Buy running shoes" -p high --estimate 1h
  lifelist task done 1 2
  lifelist task note 1 2 "Tried the 10k plan"
  lifelist task list 1`,
}

var taskAddCmd = &cobra.Command{
	Use:   "add [goal] [text]",
	Short: "Add a task to a goal",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:     "list [goal]",
	Aliases: []string{"ls"},
	Short:   "List a goal's tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskList,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [goal] [task]",
	Short: "Mark a task as complete",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskDone(args, true)
	},
}

var taskUndoCmd = &cobra.Command{
	Use:   "undo [goal] [task]",
	Short: "Mark a task as not complete",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskDone(args, false)
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete [goal] [task]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(2),
	RunE:    runTaskDelete,
}

var taskNoteCmd = &cobra.Command{
	Use:   "note [goal] [task] [text]",
	Short: "Add a note to a task",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runTaskNote,
}

var (
	taskPriority string
	taskEstimate string
)

func init() {
	taskAddCmd.Flags().StringVarP(&taskPriority, "priority", "p", string(model.PriorityMedium), "Priority (low, medium, high)")
	taskAddCmd.Flags().StringVar(&taskEstimate, "estimate", "", "Estimated time, e.g. 2h")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskUndoCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskNoteCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	g, err := resolveGoal(a.Store, args[0])
	if err != nil {
		return err
	}
	t, err := a.Store.AddTask(g.ID, store.TaskInput{
		Text:          strings.Join(args[1:], " "),
		Priority:      model.Priority(taskPriority),
		EstimatedTime: taskEstimate,
	})
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	updated, _ := a.Store.Goal(g.ID)
	fmt.Printf("✓ Added task to \"%s\": %s (%d%% done)\n", g.Text, t.Text, updated.TaskProgress)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	g, err := resolveGoal(a.Store, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("\n%s  (%d%% of tasks done)\n", g.Text, g.TaskProgress)
	fmt.Println(strings.Repeat("─", 50))
	if len(g.Tasks) == 0 {
		fmt.Println("No tasks yet.")
		return nil
	}
	for i, t := range g.Tasks {
		check := "[ ]"
		if t.Completed {
			check = "[✓]"
		}
		line := fmt.Sprintf("  %d. %s %s", i+1, check, t.Text)
		if t.Priority != model.PriorityMedium {
			line += fmt.Sprintf(" (%s)", t.Priority)
		}
		if t.EstimatedTime != "" {
			line += " ~" + t.EstimatedTime
		}
		fmt.Println(line)
		for _, n := range t.Notes {
			fmt.Printf("       · %s  %s\n", n.Date.Format(model.DateLayout), n.Text)
		}
	}
	fmt.Println()
	return nil
}

func setTaskDone(args []string, done bool) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	g, err := resolveGoal(a.Store, args[0])
	if err != nil {
		return err
	}
	t, err := resolveTask(g, args[1])
	if err != nil {
		return err
	}
	if _, err := a.Store.UpdateTask(g.ID, t.ID, store.TaskUpdate{Completed: &done}); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	updated, _ := a.Store.Goal(g.ID)
	mark := "○"
	if done {
		mark = "✓"
	}
	fmt.Printf("%s %s (%d%% of \"%s\")\n", mark, t.Text, updated.TaskProgress, g.Text)
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	g, err := resolveGoal(a.Store, args[0])
	if err != nil {
		return err
	}
	t, err := resolveTask(g, args[1])
	if err != nil {
		return err
	}
	if err := a.Store.DeleteTask(g.ID, t.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	fmt.Printf("✗ Deleted task: %s\n", t.Text)
	return nil
}

func runTaskNote(cmd *cobra.Command, args []string) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	g, err := resolveGoal(a.Store, args[0])
	if err != nil {
		return err
	}
	t, err := resolveTask(g, args[1])
	if err != nil {
		return err
	}
	if _, err := a.Store.AddTaskNote(g.ID, t.ID, strings.Join(args[2:], " ")); err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}
	fmt.Printf("📝 Noted on: %s\n", t.Text)
	return nil
}
