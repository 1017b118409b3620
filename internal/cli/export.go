package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/lifelist/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the bucket list",
	Long: `Export the active profile as JSON, a printable text document, or an
achievement card image for one goal.

Examples:
  lifelist export
  lifelist export --all --encrypt
  lifelist export --format doc --out ~/Desktop
  lifelist export --format card --goal 3`,
	RunE: runExport,
}

var (
	exportFormat  string
	exportOut     string
	exportAll     bool
	exportEncrypt bool
	exportGoal    string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "F", "json", "json, doc or card")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file or directory (default: current directory)")
	exportCmd.Flags().BoolVarP(&exportAll, "all", "a", false, "Export every profile (json only)")
	exportCmd.Flags().BoolVar(&exportEncrypt, "encrypt", false, "Encrypt the JSON backup with a passphrase")
	exportCmd.Flags().StringVarP(&exportGoal, "goal", "g", "", "Goal for the achievement card")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer closeApp(a)

	if !exportAll {
		if ok, err := restoreContext(a); err != nil {
			return err
		} else if !ok {
			return errors.New("no active profile: use --all or 'lifelist profile use <name>'")
		}
	}
	p, _ := a.Store.CurrentProfile()
	now := time.Now()

	var (
		data []byte
		ext  string
	)
	switch exportFormat {
	case "json":
		id := p.ID
		if exportAll {
			id = ""
		}
		if data, err = a.Store.Export(id); err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		ext = "json"
		if exportEncrypt {
			pass, err := readPassphrase("Passphrase: ", true)
			if err != nil {
				return err
			}
			if data, err = export.Seal(data, pass); err != nil {
				return fmt.Errorf("failed to encrypt backup: %w", err)
			}
			ext = "lifelist"
		}
	case "doc":
		if exportAll {
			return errors.New("--all only applies to json exports")
		}
		data = []byte(export.NewDocument(p.BucketList, p.Name, now, export.DefaultLinesPerPage).Render())
		ext = "txt"
	case "card":
		if exportGoal == "" {
			return errors.New("--goal is required for card exports")
		}
		g, err := resolveGoal(a.Store, exportGoal)
		if err != nil {
			return err
		}
		card, err := export.RenderCard(g, p.Name, p.Settings)
		if err != nil {
			return err
		}
		data, ext = card.Data, card.Ext
	default:
		return fmt.Errorf("unknown format %q: use json, doc or card", exportFormat)
	}

	name := p.Name
	if exportAll {
		name = "all-profiles"
	}
	path := exportPath(exportOut, export.Filename(name, ext, now))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Printf("📦 Exported to %s\n", path)
	return nil
}

// exportPath places name inside out when out is a directory or empty
func exportPath(out, name string) string {
	if out == "" {
		return name
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, name)
	}
	return out
}
