package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all profiles and settings",
	Long: `Delete every profile, goal and stored image setting. Export first if you
want to keep anything.`,
	RunE: runReset,
}

var resetForce bool

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Do not ask for confirmation")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetForce && !confirm("Are you sure you want to delete ALL data?") {
		fmt.Println("Aborted.")
		return nil
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp(a)

	fmt.Println("🧹 Clearing all data...")
	if err := a.Store.Reset(); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	_ = ClearContext()
	fmt.Println("All data cleared.")
	return nil
}
