package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"profiles"},
	Short:   "Manage profiles",
	Long:    `Create, list, select and delete profiles. Each profile holds its own bucket list.`,
}

var profileNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new profile and switch to it",
	Long: `Create a new profile.

Examples:
  lifelist profile new "Alex"
  lifelist profile new Sam --no-switch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProfileNew,
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all profiles",
	RunE:    runProfileList,
}

var profileUseCmd = &cobra.Command{
	Use:   "use [name-or-id]",
	Short: "Switch to a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileUse,
}

var profileCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the active profile",
	RunE:  runContextShow,
}

var profileDeleteCmd = &cobra.Command{
	Use:     "delete [name-or-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a profile and all of its goals",
	Args:    cobra.ExactArgs(1),
	RunE:    runProfileDelete,
}

var profileRenameCmd = &cobra.Command{
	Use:   "rename [name-or-id] [new-name]",
	Short: "Rename a profile",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runProfileRename,
}

var profileGuestCmd = &cobra.Command{
	Use:   "guest",
	Short: "Open the TUI with a throwaway guest profile",
	Long: `Start a guest session. Guest goals live only as long as the TUI is open
and are never written to disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(true)
	},
}

var (
	profileNoSwitch bool
	profileForce    bool
)

func init() {
	profileNewCmd.Flags().BoolVar(&profileNoSwitch, "no-switch", false, "Do not switch to the new profile")
	profileDeleteCmd.Flags().BoolVarP(&profileForce, "force", "f", false, "Do not ask for confirmation")

	profileCmd.AddCommand(profileNewCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileUseCmd)
	profileCmd.AddCommand(profileCurrentCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileRenameCmd)
	profileCmd.AddCommand(profileGuestCmd)
}

func runProfileNew(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp(a)

	p, err := a.Store.CreateProfile(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	fmt.Printf("✓ Created profile: %s (id: %s)\n", p.Name, shortID(p.ID))

	if !profileNoSwitch {
		if err := SetContext(p.ID); err != nil {
			return fmt.Errorf("failed to set context: %w", err)
		}
		fmt.Printf("👤 Switched to: %s\n", p.Name)
	}
	return nil
}

func runProfileList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp(a)

	profiles := a.Store.Profiles()
	if len(profiles) == 0 {
		fmt.Println("No profiles yet. Create one with: lifelist profile new \"Your name\"")
		return nil
	}

	current := GetCurrentContext()

	fmt.Println()
	fmt.Printf("  %-10s  %-20s  %-8s  %s\n", "ID", "Name", "Goals", "Last active")
	fmt.Println(strings.Repeat("─", 60))
	for _, p := range profiles {
		done := 0
		for _, g := range p.BucketList {
			if g.Completed {
				done++
			}
		}
		marker := "  "
		if p.ID == current {
			marker = "❯ "
		}
		fmt.Printf("%s%-10s  %-20s  %3d/%-4d  %s\n", marker, shortID(p.ID), truncate(p.Name, 20),
			done, len(p.BucketList), humanize.Time(p.LastActive))
	}
	fmt.Println()
	return nil
}

func runProfileUse(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp(a)

	p, err := findProfile(a.Store, args[0])
	if err != nil {
		return err
	}
	if _, err := a.Store.SelectProfile(p.ID); err != nil {
		return err
	}
	if err := SetContext(p.ID); err != nil {
		return fmt.Errorf("failed to set context: %w", err)
	}
	fmt.Printf("👤 Switched to: %s\n", p.Name)
	return nil
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp(a)

	p, err := findProfile(a.Store, args[0])
	if err != nil {
		return err
	}
	if !profileForce && cfg.ConfirmDelete {
		if !confirm(fmt.Sprintf("Delete profile %q and its %d goals?", p.Name, len(p.BucketList))) {
			fmt.Println("Aborted.")
			return nil
		}
	}
	if err := a.Store.DeleteProfile(p.ID); err != nil {
		return err
	}
	if GetCurrentContext() == p.ID {
		_ = ClearContext()
	}
	fmt.Printf("✗ Deleted profile: %s\n", p.Name)
	return nil
}

func runProfileRename(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp(a)

	p, err := findProfile(a.Store, args[0])
	if err != nil {
		return err
	}
	renamed, err := a.Store.RenameProfile(p.ID, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Printf("✓ Renamed %s → %s\n", p.Name, renamed.Name)
	return nil
}
