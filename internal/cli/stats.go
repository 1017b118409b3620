package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/lifelist/internal/tui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show bucket list statistics",
	RunE:  runStats,
}

var statsJSON bool

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print statistics as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	st := a.Store.Stats()
	if statsJSON {
		out, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	p, _ := a.Store.CurrentProfile()
	fmt.Println()
	fmt.Println(tui.RenderStats(p.Name, st, 30))
	return nil
}
