package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/existflow/lifelist/internal/export"
	"github.com/existflow/lifelist/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import an exported bucket list",
	Long: `Import a file written by 'lifelist export'. A single profile is added, or
overwrites the profile with the same id. A multi-profile export replaces
everything. Encrypted backups prompt for their passphrase.

Examples:
  lifelist import alex-bucket-list-2024-05-01.json
  lifelist import backup.lifelist --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	importYes     bool
	importDecrypt bool
)

func init() {
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Overwrite without asking")
	importCmd.Flags().BoolVar(&importDecrypt, "decrypt", false, "Require an encrypted backup")
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	sealed := export.IsSealed(data)
	if importDecrypt && !sealed {
		return export.ErrNotSealed
	}
	if sealed {
		pass, err := readPassphrase("Passphrase: ", false)
		if err != nil {
			return err
		}
		if data, err = export.Open(data, pass); err != nil {
			return err
		}
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp(a)

	res, err := a.Store.Import(data, func(action store.ImportAction, detail string) bool {
		if importYes {
			return true
		}
		return confirm("Import will " + detail + ". Continue?")
	})
	if errors.Is(err, store.ErrImportDeclined) {
		fmt.Println("Aborted.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}

	switch {
	case res.Replaced:
		fmt.Printf("📥 Replaced all data with %d imported profile(s)\n", res.Profiles)
		if ctx := GetCurrentContext(); ctx != "" {
			if _, err := a.Store.Profile(ctx); err != nil {
				_ = ClearContext()
			}
		}
	case res.Overwritten:
		fmt.Println("📥 Profile overwritten")
	default:
		fmt.Println("📥 Profile imported")
	}
	return nil
}
