package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:     "move [goal] [position]",
	Aliases: []string{"mv"},
	Short:   "Move a goal to a new list position",
	Long: `Move a goal to a 1-based position. Positions past either end are clamped.

Examples:
  lifelist move 7 1`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

func runMove(cmd *cobra.Command, args []string) error {
	pos, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid position %q", args[1])
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
	if err := a.Store.MoveGoal(g.ID, pos-1); err != nil {
		return fmt.Errorf("failed to move goal: %w", err)
	}
	fmt.Printf("↕ Moved: %s\n", g.Text)
	return nil
}
