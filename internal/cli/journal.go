package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/store"
)

var journalCmd = &cobra.Command{
	Use:   "journal [goal] [note]",
	Short: "Log how a goal is going",
	Long: `Record an emotional-journey check-in for a goal. Without --motivation the
goal's journey is printed instead.

Examples:
  lifelist journal 1 -m 8 -e excited --energy high "Ran 15k today"
  lifelist journal 1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runJournal,
}

var (
	journalMotivation int
	journalEmotion    string
	journalEnergy     string
)

func init() {
	journalCmd.Flags().IntVarP(&journalMotivation, "motivation", "m", 0, "Motivation from 1 to 10")
	journalCmd.Flags().StringVarP(&journalEmotion, "emotion", "e", string(model.EmotionNeutral), "Current emotion")
	journalCmd.Flags().StringVar(&journalEnergy, "energy", string(model.EnergyMedium), "Energy (low, medium, high)")
}

func runJournal(cmd *cobra.Command, args []string) error {
	a, err := openWithProfile()
	if err != nil {
		return err
	}
	defer closeApp(a)

	g, err := resolveGoal(a.Store, args[0])
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("motivation") {
		if len(g.EmotionalJourney) == 0 {
			fmt.Println("No journal entries yet.")
			return nil
		}
		fmt.Printf("\n%s\n%s\n", g.Text, strings.Repeat("─", 50))
		for _, e := range g.EmotionalJourney {
			fmt.Printf("  %-14s %-12s motivation %2d  energy %-6s %s\n",
				humanize.Time(e.Date), e.Emotion, e.Motivation, e.Energy, e.Note)
		}
		fmt.Println()
		return nil
	}

	entry, err := a.Store.LogJourney(g.ID, store.JourneyInput{
		Emotion:    model.Emotion(journalEmotion),
		Motivation: journalMotivation,
		Energy:     model.Energy(journalEnergy),
		Note:       strings.Join(args[1:], " "),
	})
	if err != nil {
		return fmt.Errorf("failed to log journey: %w", err)
	}
	fmt.Printf("📓 Logged for \"%s\": %s, motivation %d/10\n", g.Text, entry.Emotion, entry.Motivation)
	fmt.Printf("   Motivation index now %.1f\n", a.Store.Stats().MotivationIndex)
	return nil
}
