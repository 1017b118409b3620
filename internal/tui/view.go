package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/existflow/lifelist/internal/model"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var mainContent string
	switch m.screen {
	case ScreenProfiles:
		mainContent = m.renderProfiles()
	case ScreenDetail:
		mainContent = m.renderDetail()
	case ScreenStats:
		p, _ := m.store.CurrentProfile()
		stats := RenderStats(p.Name, m.store.Stats(), max(10, m.width/3))
		mainContent = lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, stats)
	default:
		mainContent = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderGoalList())
	}

	switch m.mode {
	case ModeNewProfile, ModeAddGoal, ModeEditGoal, ModeCompleteGoal,
		ModeAddTask, ModeTaskNote, ModeAddMilestone, ModeJournal, ModeConfirm:
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			m.renderModal(),
			lipgloss.WithWhitespaceChars(" "),
		)
	case ModeHelp:
		mainContent = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, m.renderStatusBar())
}

func (m Model) renderProfiles() string {
	var s string
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("🌟 Life List") + "\n"
	s += HelpStyle.Render("Who is dreaming today?") + "\n\n"

	if len(m.profiles) == 0 {
		s += HelpStyle.Render("No profiles yet. Press 'n' to create one or 'g' to try as a guest.") + "\n"
	}
	for i, p := range m.profiles {
		done := 0
		for _, g := range p.BucketList {
			if g.Completed {
				done++
			}
		}
		cursor := "  "
		style := ItemStyle
		if i == m.profCursor {
			cursor = "❯ "
			style = ItemSelectedStyle
		}
		line := fmt.Sprintf("%s%-20s %3d/%-3d goals   active %s", cursor, truncate(p.Name, 20),
			done, len(p.BucketList), humanize.Time(p.LastActive))
		s += style.Render(line) + "\n"
	}

	s += "\n" + lipgloss.NewStyle().Foreground(Guest).Render("  g  continue as guest (nothing is saved)") + "\n"

	box := ModalStyle.Width(min(70, m.width-4)).Render(s)
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderSidebar() string {
	sidebarWidth := 22
	var s string

	// Header with time
	p, _ := m.store.CurrentProfile()
	name := p.Name
	if p.IsGuest {
		name = lipgloss.NewStyle().Foreground(Guest).Render(name)
	}
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Life List") + "\n"
	s += name + "\n"
	s += HelpStyle.Render(time.Now().Format("15:04:05")) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render("─────────────────") + "\n\n"

	for i, f := range sidebarFilters {
		cursor := "  "
		style := FilterItemStyle
		if i == m.filterCursor {
			cursor = "❯ "
			if m.pane == PaneSidebar {
				style = FilterItemSelectedStyle
			}
		}
		line := fmt.Sprintf("%s%-13s %d", cursor, truncate(string(f), 13), m.counts[f])
		s += style.Render(line) + "\n"
		if i == 2 {
			s += "\n"
		}
	}

	s += "\n" + lipgloss.NewStyle().Foreground(Border).Render("─────────────────") + "\n"
	s += HelpStyle.Render("S stats  P profiles")

	return SidebarStyle.Width(sidebarWidth).Height(m.height - 2).Render(s)
}

func (m Model) renderGoalList() string {
	width := m.width - 24
	var s string

	st := m.store.Stats()
	header := fmt.Sprintf("%s  %d/%d done (%d%%)  sort: %s", m.currentFilter(), st.Completed, st.Total, st.Percentage, m.order)
	if m.search != "" {
		header += fmt.Sprintf("  /%s", m.search)
	}
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(header) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", width-4)) + "\n\n"

	if len(m.goals) == 0 {
		s += HelpStyle.Render("  No goals here. Press 'a' to add one.")
	}

	textWidth := max(10, width-40)
	for i, g := range m.goals {
		cursor := "  "
		style := ItemStyle
		if i == m.goalCursor && m.pane == PaneGoalList {
			cursor = "❯ "
			style = ItemSelectedStyle
		}

		icon := "[ ]"
		switch {
		case g.State() == model.ActiveRecurring:
			icon = "[↻]"
		case g.Completed:
			icon = "[x]"
			style = ItemDoneStyle
		}

		extra := ""
		if len(g.Tasks) > 0 {
			extra = fmt.Sprintf("%3d%%", g.TaskProgress)
		}
		if g.Recurring != nil {
			extra = fmt.Sprintf("×%d", g.Recurring.TotalCompletions)
		}

		check := style.Render(cursor + icon)
		desc := style.Render(fmt.Sprintf(" %-*s ", textWidth, truncate(g.Text, textWidth)))
		s += check + desc + FormatPriority(g.Priority) + " " +
			fmt.Sprintf("%-12s", FormatCategory(g.Category)) + " " + HelpStyle.Render(extra) + "\n"
	}

	return GoalListStyle.Width(width).Height(m.height - 2).Render(s)
}

func (m Model) renderDetail() string {
	g := m.detailGoal()
	if g == nil {
		return "Goal not found"
	}
	width := m.width - 4
	var s string

	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(g.Text) + "\n"
	meta := []string{FormatCategory(g.Category), string(g.Priority) + " priority", "added " + humanize.Time(g.CreatedAt)}
	if g.Completed && g.CompletedAt != nil {
		meta = append(meta, lipgloss.NewStyle().Foreground(Completed).Render("completed "+humanize.Time(*g.CompletedAt)))
	}
	if g.Recurring != nil {
		r := g.Recurring
		state := fmt.Sprintf("🔁 %s ×%d, next %s", r.Type, r.TotalCompletions, model.DateKey(r.NextDue))
		if !r.IsActive {
			state = fmt.Sprintf("🔁 stopped after %d", r.TotalCompletions)
		}
		meta = append(meta, state)
	}
	s += HelpStyle.Render(strings.Join(meta, " · ")) + "\n"
	if g.CompletionNote != "" || g.CompletionEmotion != "" {
		s += fmt.Sprintf("\n  “%s” %s\n", g.CompletionNote, g.CompletionEmotion)
	}
	s += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", width-4)) + "\n\n"

	// Tasks
	s += lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Tasks  %s %d%%", bar(g.TaskProgress, 20), g.TaskProgress)) + "\n"
	if len(g.Tasks) == 0 {
		s += HelpStyle.Render("  No tasks. Press 'a' to break this goal down.") + "\n"
	}
	for i, t := range g.Tasks {
		cursor := "  "
		style := ItemStyle
		if i == m.taskCursor {
			cursor = "❯ "
			style = ItemSelectedStyle
		}
		icon := "[ ]"
		if t.Completed {
			icon = "[x]"
			style = ItemDoneStyle
		}
		mark := " "
		if m.marked[t.ID] {
			mark = lipgloss.NewStyle().Foreground(Highlight).Render("•")
		}
		line := style.Render(fmt.Sprintf("%s%s %s", cursor, icon, truncate(t.Text, width-30)))
		if len(t.Notes) > 0 {
			line += HelpStyle.Render(fmt.Sprintf(" 📝%d", len(t.Notes)))
		}
		s += mark + line + " " + FormatPriority(t.Priority) + "\n"
	}

	// Milestones
	if len(g.Milestones) > 0 {
		s += "\n" + lipgloss.NewStyle().Bold(true).Render("Milestones") + "\n"
		for _, ms := range g.Milestones {
			st := g.MilestoneProgress(ms)
			icon := "○"
			if st.Achieved {
				icon = lipgloss.NewStyle().Foreground(Completed).Render("🏆")
			}
			line := fmt.Sprintf("  %s %-30s %d/%d", icon, truncate(ms.Title, 30), st.Completed, st.Total)
			if ms.TargetDate != "" {
				line += HelpStyle.Render("  by " + ms.TargetDate)
			}
			s += line + "\n"
		}
	}

	// Journey
	if n := len(g.EmotionalJourney); n > 0 {
		s += "\n" + lipgloss.NewStyle().Bold(true).Render("Journey") + "\n"
		for _, e := range g.EmotionalJourney[max(0, n-5):] {
			s += fmt.Sprintf("  %-14s %-12s %2d/10  %-6s %s\n",
				humanize.Time(e.Date), e.Emotion, e.Motivation, e.Energy, truncate(e.Note, width-50))
		}
	}

	return GoalListStyle.Width(m.width).Height(m.height - 2).Render(s)
}

func (m Model) renderStatusBar() string {
	// When searching, show inline input (like vim)
	if m.mode == ModeFilter {
		return StatusBarStyle.Width(m.width).Render(fmt.Sprintf("/%s  [%d matches]", m.input.View(), len(m.goals)))
	}

	var help string
	switch m.screen {
	case ScreenProfiles:
		help = "enter:select  n:new  g:guest  d:delete  q:quit"
	case ScreenDetail:
		help = "a:task  x:toggle  n:note  space:mark  M:milestone  m:mood  d:del  esc:back"
	case ScreenStats:
		help = "any key:back"
	default:
		help = "/:search  s:sort  a:add  e:edit  x:done  c:category  1-3:priority  d:del  ?:help  q:quit"
	}
	if m.message != "" {
		help = m.message
	}

	if m.screen != ScreenProfiles && m.store.IsGuest() {
		tag := lipgloss.NewStyle().Foreground(Guest).Render("GUEST")
		avail := m.width - lipgloss.Width(help) - 7
		if avail > 0 {
			help += strings.Repeat(" ", avail) + tag
		} else {
			help += " " + tag
		}
	}

	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderModal() string {
	if m.mode == ModeConfirm {
		content := lipgloss.NewStyle().Bold(true).Foreground(Expired).Render(m.confirmPrompt) + "\n\n"
		content += HelpStyle.Render("y:confirm  any other key:cancel")
		return ModalStyle.Render(content)
	}

	title := map[Mode]string{
		ModeNewProfile:   "New Profile",
		ModeAddGoal:      "Add Goal",
		ModeEditGoal:     "Edit Goal",
		ModeCompleteGoal: "Complete Goal",
		ModeAddTask:      "Add Task",
		ModeTaskNote:     "Task Note",
		ModeAddMilestone: "New Milestone",
		ModeJournal:      "How is it going?",
	}[m.mode]

	if m.mode == ModeAddGoal {
		if c, err := model.ParseCategory(string(m.currentFilter())); err == nil {
			title = fmt.Sprintf("Add Goal to: %s", c)
		}
	}
	if m.mode == ModeAddMilestone {
		n := 0
		for _, v := range m.marked {
			if v {
				n++
			}
		}
		title = fmt.Sprintf("New Milestone (%d marked tasks)", n)
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render("Enter:save  Esc:cancel")

	return ModalStyle.Render(content)
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ────────╮
│                               │
│  Goals                        │
│  ─────                        │
│  j/k ↑/↓  Move                │
│  h/l Tab  Filters / goals     │
│  enter    Open goal           │
│  a        Add goal            │
│  e        Edit text           │
│  x        Complete / reopen   │
│  X        Stop recurring      │
│  c        Cycle category      │
│  1-3      High/medium/low     │
│  J/K      Move down/up        │
│  /        Search              │
│  s        Cycle sort          │
│  S        Statistics          │
│  P        Switch profile      │
│                               │
│  Goal detail                  │
│  ───────────                  │
│  a        Add task            │
│  x/enter  Toggle task         │
│  n        Note on task        │
│  space    Mark for milestone  │
│  M        New milestone       │
│  m        Log mood            │
│  esc      Back                │
│                               │
│  ?        Toggle help         │
│  q        Quit                │
│                               │
╰───────────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}

