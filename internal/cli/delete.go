package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [goal]",
	Aliases: []string{"rm"},
	Short:   "Delete a goal",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Do not ask for confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	g, err := resolveGoal(a.Store, args[0])
	if err != nil {
		return err
	}

	if !deleteForce && cfg.ConfirmDelete {
		if !confirm(fmt.Sprintf("Delete %q?", g.Text)) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := a.Store.DeleteGoal(g.ID); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	fmt.Printf("✗ Deleted: %s\n", g.Text)
	return nil
}
