package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/store"
)

var editCmd = &cobra.Command{
	Use:   "edit [goal]",
	Short: "Edit a goal",
	Long: `Change a goal's text, category, priority or completion details.

Examples:
  lifelist edit 2 --text "Run a half marathon"
  lifelist edit 2 -c health -p high
  lifelist edit 5 --note "Best trip ever" --emotion grateful`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringP("text", "t", "", "New goal text")
	editCmd.Flags().StringP("category", "c", "", "New category")
	editCmd.Flags().StringP("priority", "p", "", "New priority")
	editCmd.Flags().StringP("note", "n", "", "New completion note")
	editCmd.Flags().StringP("emotion", "e", "", "New completion emotion")
	editCmd.Flags().Bool("clear-image", false, "Remove the attached photo")
}

func runEdit(cmd *cobra.Command, args []string) error {
	var u store.GoalUpdate
	flags := cmd.Flags()

	if flags.Changed("text") {
		v, _ := flags.GetString("text")
		u.Text = &v
	}
	if flags.Changed("category") {
		v, _ := flags.GetString("category")
		c := model.Category(strings.ToLower(v))
		u.Category = &c
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		p := model.Priority(strings.ToLower(v))
		u.Priority = &p
	}
	if flags.Changed("note") {
		v, _ := flags.GetString("note")
		u.CompletionNote = &v
	}
	if flags.Changed("emotion") {
		v, _ := flags.GetString("emotion")
		e := model.Emotion(strings.ToLower(v))
		u.CompletionEmotion = &e
	}
	if clearImage, _ := flags.GetBool("clear-image"); clearImage {
		empty := ""
		u.CompletionImage = &empty
	}
	if u == (store.GoalUpdate{}) {
		return errors.New("nothing to change: pass at least one flag")
	}

	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	g, err := resolveGoal(a.Store, args[0])
	if err != nil {
		return err
	}
	updated, err := a.Store.UpdateGoal(g.ID, u)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	fmt.Printf("✓ Updated: %s [%s] (%s)\n", updated.Text, updated.Category, updated.Priority)
	return nil
}
