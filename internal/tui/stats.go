package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/store"
)

// RenderStats draws the statistics panel: overall completion, motivation,
// recurring and task counts, and a bar per category. barWidth sizes the bars.
func RenderStats(profileName string, st store.Stats, barWidth int) string {
	if barWidth < 10 {
		barWidth = 10
	}
	title := "Statistics"
	if profileName != "" {
		title = profileName + "'s statistics"
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(title) + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(Border).Render(repeat("─", barWidth+28)) + "\n\n")

	done := lipgloss.NewStyle().Foreground(Completed)
	fmt.Fprintf(&b, "  %-14s %s %3d%%  (%d of %d)\n", "Completed",
		done.Render(bar(st.Percentage, barWidth)), st.Percentage, st.Completed, st.Total)

	motivation := int(st.MotivationIndex * 10)
	fmt.Fprintf(&b, "  %-14s %s %4.1f\n", "Motivation",
		lipgloss.NewStyle().Foreground(PriorityMedium).Render(bar(motivation, barWidth)), st.MotivationIndex)

	if st.TasksTotal > 0 {
		pct := st.TasksCompleted * 100 / st.TasksTotal
		fmt.Fprintf(&b, "  %-14s %s %3d%%  (%d of %d)\n", "Tasks",
			lipgloss.NewStyle().Foreground(Primary).Render(bar(pct, barWidth)), pct, st.TasksCompleted, st.TasksTotal)
	}
	b.WriteString("\n")

	for _, c := range model.Categories {
		cs := st.ByCategory[c]
		pct := 0
		if cs.Total > 0 {
			pct = cs.Completed * 100 / cs.Total
		}
		style := lipgloss.NewStyle().Foreground(CategoryColors[c])
		fmt.Fprintf(&b, "  %-14s %s %d/%d\n", c, style.Render(bar(pct, barWidth)), cs.Completed, cs.Total)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "  🔁 %d active recurring, %d completions\n", st.ActiveRecurring, st.RecurringCompletions)
	fmt.Fprintf(&b, "  🏆 %d achievements\n", st.Achievements)
	return b.String()
}
