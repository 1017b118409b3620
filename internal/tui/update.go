package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/session"
	"github.com/existflow/lifelist/internal/store"
)

// tickMsg is sent every second for the clock
type tickMsg time.Time

// sessionExpiredMsg is sent when the inactivity timer lapses
type sessionExpiredMsg struct{}

// Init starts the clock and the session watcher
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitForExpiry())
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForExpiry listens for session expiry signals
func (m Model) waitForExpiry() tea.Cmd {
	if m.expired == nil {
		return nil
	}
	return func() tea.Msg {
		<-m.expired
		return sessionExpiredMsg{}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tickCmd()

	case sessionExpiredMsg:
		if m.screen != ScreenProfiles && !m.store.IsGuest() {
			m.leaveProfile("Session expired after inactivity. Select a profile to continue.")
		}
		return m, m.waitForExpiry()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		switch {
		case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
			m.monitor.Touch(session.ActivityScroll)
		case msg.Action == tea.MouseActionPress:
			m.monitor.Touch(session.ActivityClick)
		}
		return m, nil

	case tea.KeyMsg:
		m.monitor.Touch(session.ActivityKey)

		// Handle mode-specific input
		switch m.mode {
		case ModeNewProfile, ModeAddGoal, ModeEditGoal, ModeCompleteGoal,
			ModeAddTask, ModeTaskNote, ModeAddMilestone, ModeJournal:
			return m.updateInput(msg)
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}

		if key.Matches(msg, keys.Quit) && msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.screen {
		case ScreenProfiles:
			return m.handleProfileKeys(msg)
		case ScreenDetail:
			return m.handleDetailKeys(msg)
		case ScreenStats:
			if key.Matches(msg, keys.Quit) {
				return m, tea.Quit
			}
			m.screen = ScreenGoals
			return m, nil
		}
		return m.handleGoalKeys(msg)
	}

	return m, nil
}

// handleProfileKeys handles the profile selection screen
func (m Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.profCursor > 0 {
			m.profCursor--
		}

	case key.Matches(msg, keys.Down):
		if m.profCursor < len(m.profiles)-1 {
			m.profCursor++
		}

	case key.Matches(msg, keys.Enter):
		if m.profCursor < len(m.profiles) {
			m.selectProfile(m.profiles[m.profCursor].ID)
		}

	case key.Matches(msg, keys.New), key.Matches(msg, keys.Add):
		return m.startInput(ModeNewProfile, "Your name...", "")

	case key.Matches(msg, keys.Guest):
		m.startGuest()

	case key.Matches(msg, keys.Delete):
		if m.profCursor < len(m.profiles) {
			p := m.profiles[m.profCursor]
			m.confirm(fmt.Sprintf("Delete profile %q and its %d goals?", p.Name, len(p.BucketList)), func(m *Model) {
				if err := m.store.DeleteProfile(p.ID); err != nil {
					m.message = "Error: " + err.Error()
					return
				}
				m.loadData()
				m.message = "Deleted profile: " + p.Name
			})
		}

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}
	return m, nil
}

// handleGoalKeys handles the goal list screen
func (m Model) handleGoalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneSidebar {
			m.pane = PaneGoalList
		} else {
			m.pane = PaneSidebar
		}

	case key.Matches(msg, keys.Left):
		m.pane = PaneSidebar

	case key.Matches(msg, keys.Right):
		m.pane = PaneGoalList

	case key.Matches(msg, keys.Up):
		m.handleUp()

	case key.Matches(msg, keys.Down):
		m.handleDown()

	case msg.String() == "G":
		if m.pane == PaneSidebar {
			m.filterCursor = len(sidebarFilters) - 1
			m.goalCursor = 0
			m.loadData()
		} else {
			m.goalCursor = max(0, len(m.goals)-1)
		}

	case msg.String() == "1", msg.String() == "2", msg.String() == "3":
		m.handlePriority(msg.String())

	case key.Matches(msg, keys.Add):
		return m.startInput(ModeAddGoal, "Something to do before you die...", "")

	case key.Matches(msg, keys.Edit):
		if g := m.currentGoal(); g != nil {
			return m.startInput(ModeEditGoal, "Edit goal...", g.Text)
		}

	case key.Matches(msg, keys.Done):
		return m.handleToggleDone()

	case key.Matches(msg, keys.Stop):
		m.handleStopRecurring()

	case key.Matches(msg, keys.Delete):
		m.handleDeleteGoal()

	case key.Matches(msg, keys.MoveUp):
		m.handleMove(-1)

	case key.Matches(msg, keys.MoveDown):
		m.handleMove(1)

	case key.Matches(msg, keys.Sort):
		m.cycleSort()

	case msg.String() == "c":
		m.cycleCategory()

	case key.Matches(msg, keys.Search):
		return m.startFilter()

	case key.Matches(msg, keys.Stats):
		m.screen = ScreenStats

	case key.Matches(msg, keys.Enter):
		if m.pane == PaneSidebar {
			m.pane = PaneGoalList
		} else if g := m.currentGoal(); g != nil {
			m.screen = ScreenDetail
			m.detailID = g.ID
			m.taskCursor = 0
			m.marked = make(map[string]bool)
		}

	case key.Matches(msg, keys.Escape):
		if m.search != "" {
			m.search = ""
			m.loadData()
			m.message = "Search cleared"
		}

	case key.Matches(msg, keys.Switch):
		m.leaveProfile("Select a profile")

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

func (m *Model) handleUp() {
	if m.pane == PaneSidebar {
		if m.filterCursor > 0 {
			m.filterCursor--
			m.goalCursor = 0
			m.loadData()
		}
	} else if m.goalCursor > 0 {
		m.goalCursor--
	}
}

func (m *Model) handleDown() {
	if m.pane == PaneSidebar {
		if m.filterCursor < len(sidebarFilters)-1 {
			m.filterCursor++
			m.goalCursor = 0
			m.loadData()
		}
	} else if m.goalCursor < len(m.goals)-1 {
		m.goalCursor++
	}
}

// handlePriority maps 1/2/3 to high/medium/low
func (m *Model) handlePriority(k string) {
	g := m.currentGoal()
	if m.pane != PaneGoalList || g == nil {
		return
	}
	p := map[string]model.Priority{"1": model.PriorityHigh, "2": model.PriorityMedium, "3": model.PriorityLow}[k]
	if _, err := m.store.UpdateGoal(g.ID, store.GoalUpdate{Priority: &p}); err != nil {
		m.message = "Error: " + err.Error()
		return
	}
	m.loadData()
	m.message = fmt.Sprintf("Priority set to %s", p)
}

// cycleCategory moves the selected goal to the next category
func (m *Model) cycleCategory() {
	g := m.currentGoal()
	if m.pane != PaneGoalList || g == nil {
		return
	}
	next := model.Categories[0]
	for i, c := range model.Categories {
		if c == g.Category {
			next = model.Categories[(i+1)%len(model.Categories)]
		}
	}
	if _, err := m.store.UpdateGoal(g.ID, store.GoalUpdate{Category: &next}); err != nil {
		m.message = "Error: " + err.Error()
		return
	}
	m.loadData()
	m.message = "Category: " + string(next)
}

func (m *Model) cycleSort() {
	for i, o := range store.SortOrders {
		if o == m.order {
			m.order = store.SortOrders[(i+1)%len(store.SortOrders)]
			break
		}
	}
	m.loadData()
	m.message = "Sort: " + string(m.order)
}

// handleToggleDone completes the selected goal (asking for a note), records
// today's completion of a recurring goal, or reopens a completed one.
func (m Model) handleToggleDone() (tea.Model, tea.Cmd) {
	g := m.currentGoal()
	if m.pane != PaneGoalList || g == nil {
		return m, nil
	}

	switch {
	case g.State() == model.ActiveRecurring:
		updated, err := m.store.CompleteRecurringGoal(g.ID)
		switch {
		case errors.Is(err, store.ErrAlreadyCompletedToday):
			m.message = "Already completed today"
		case err != nil:
			m.message = "Error: " + err.Error()
		default:
			m.message = fmt.Sprintf("Done for today (×%d), next due %s",
				updated.Recurring.TotalCompletions, model.DateKey(updated.Recurring.NextDue))
		}
		m.loadData()
		return m, nil

	case g.Completed:
		reopen := false
		if _, err := m.store.UpdateGoal(g.ID, store.GoalUpdate{Completed: &reopen}); err != nil {
			m.message = "Error: " + err.Error()
		} else {
			m.message = "Reopened: " + g.Text
		}
		m.loadData()
		return m, nil
	}

	return m.startInput(ModeCompleteGoal, "How did it go? [emotion] note (Enter to skip)", "")
}

func (m *Model) handleStopRecurring() {
	g := m.currentGoal()
	if g == nil || g.State() != model.ActiveRecurring {
		m.message = "Not an active recurring goal"
		return
	}
	id, text := g.ID, g.Text
	m.confirm(fmt.Sprintf("Stop %q for good?", text), func(m *Model) {
		if _, err := m.store.DeactivateRecurringGoal(id); err != nil {
			m.message = "Error: " + err.Error()
			return
		}
		m.loadData()
		m.message = "Stopped: " + text
	})
}

func (m *Model) handleDeleteGoal() {
	g := m.currentGoal()
	if m.pane != PaneGoalList || g == nil {
		return
	}
	id, text := g.ID, g.Text
	m.confirm(fmt.Sprintf("Delete %q?", text), func(m *Model) {
		if err := m.store.DeleteGoal(id); err != nil {
			m.message = "Error: " + err.Error()
			return
		}
		m.loadData()
		m.message = "Deleted: " + text
	})
}

// handleMove moves the selected goal within the unfiltered list
func (m *Model) handleMove(delta int) {
	g := m.currentGoal()
	if m.pane != PaneGoalList || g == nil {
		return
	}
	all, err := m.store.Goals()
	if err != nil {
		return
	}
	from := -1
	for i := range all {
		if all[i].ID == g.ID {
			from = i
		}
	}
	if err := m.store.MoveGoal(g.ID, from+delta); err != nil {
		m.message = "Error: " + err.Error()
		return
	}
	m.loadData()
	for i := range m.goals {
		if m.goals[i].ID == g.ID {
			m.goalCursor = i
		}
	}
}

// handleDetailKeys handles the goal detail screen
func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := m.detailGoal()
	if g == nil {
		m.screen = ScreenGoals
		m.loadData()
		return m, nil
	}
	task := func() *model.Task {
		if m.taskCursor < len(g.Tasks) {
			return &g.Tasks[m.taskCursor]
		}
		return nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Left):
		m.screen = ScreenGoals
		m.detailID = ""
		m.loadData()

	case key.Matches(msg, keys.Up):
		if m.taskCursor > 0 {
			m.taskCursor--
		}

	case key.Matches(msg, keys.Down):
		if m.taskCursor < len(g.Tasks)-1 {
			m.taskCursor++
		}

	case key.Matches(msg, keys.Add):
		return m.startInput(ModeAddTask, "Next step...", "")

	case key.Matches(msg, keys.Done), key.Matches(msg, keys.Enter):
		if t := task(); t != nil {
			done := !t.Completed
			if _, err := m.store.UpdateTask(g.ID, t.ID, store.TaskUpdate{Completed: &done}); err != nil {
				m.message = "Error: " + err.Error()
			}
		}

	case key.Matches(msg, keys.Delete):
		if t := task(); t != nil {
			goalID, taskID, text := g.ID, t.ID, t.Text
			m.confirm(fmt.Sprintf("Delete task %q?", text), func(m *Model) {
				if err := m.store.DeleteTask(goalID, taskID); err != nil {
					m.message = "Error: " + err.Error()
					return
				}
				delete(m.marked, taskID)
				m.loadData()
				m.message = "Deleted task: " + text
			})
		}

	case key.Matches(msg, keys.Note):
		if task() != nil {
			return m.startInput(ModeTaskNote, "Note...", "")
		}

	case key.Matches(msg, keys.Mark):
		if t := task(); t != nil {
			m.marked[t.ID] = !m.marked[t.ID]
		}

	case key.Matches(msg, keys.Milestone):
		return m.startInput(ModeAddMilestone, "Milestone title [YYYY-MM-DD]", "")

	case key.Matches(msg, keys.Journal):
		return m.startInput(ModeJournal, "motivation 1-10 [emotion] [low|medium|high] note", "")

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

func (m Model) startInput(mode Mode, placeholder, value string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.Focus()
	m.input.CursorEnd()
	return m, textinput.Blink
}

func (m Model) startFilter() (tea.Model, tea.Cmd) {
	m.mode = ModeFilter
	m.pane = PaneGoalList
	m.input.SetValue(m.search)
	m.input.Placeholder = "/"
	m.input.Focus()
	return m, textinput.Blink
}

// confirm runs fn after a y answer, or straight away when confirmation is off
func (m *Model) confirm(prompt string, fn func(*Model)) {
	if !m.opts.ConfirmDelete {
		fn(m)
		return
	}
	m.mode = ModeConfirm
	m.confirmPrompt = prompt
	m.onConfirm = fn
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fn := m.onConfirm
	m.mode = ModeNormal
	m.onConfirm = nil
	if strings.EqualFold(msg.String(), "y") && fn != nil {
		fn(&m)
	} else {
		m.message = "Cancelled"
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = ModeNormal
		if value == "" && mode != ModeCompleteGoal {
			return m, nil
		}
		m.submit(mode, value)
		m.loadData()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit applies the text entered in an input modal
func (m *Model) submit(mode Mode, value string) {
	var err error
	switch mode {
	case ModeNewProfile:
		var p model.Profile
		if p, err = m.store.CreateProfile(value); err == nil {
			m.selectProfile(p.ID)
			return
		}

	case ModeAddGoal:
		if m.store.DuplicateGoalExists(value) {
			m.message = "A goal with that text already exists"
			return
		}
		category := model.CategoryOther
		if c, perr := model.ParseCategory(string(m.currentFilter())); perr == nil {
			category = c
		}
		var g model.Goal
		if g, err = m.store.AddGoal(store.GoalInput{Text: value, Category: category}); err == nil {
			m.message = fmt.Sprintf("Added to [%s]: %s", g.Category, g.Text)
		}

	case ModeEditGoal:
		if g := m.currentGoal(); g != nil {
			if _, err = m.store.UpdateGoal(g.ID, store.GoalUpdate{Text: &value}); err == nil {
				m.message = "Updated: " + value
			}
		}

	case ModeCompleteGoal:
		if g := m.currentGoal(); g != nil {
			emotion, note := splitEmotion(value)
			var done model.Goal
			if done, err = m.store.CompleteGoal(g.ID, store.Completion{Note: note, Emotion: emotion}); err == nil {
				st := m.store.Stats()
				m.message = fmt.Sprintf("🎉 Completed: %s (%d%% of your list)", done.Text, st.Percentage)
			}
		}

	case ModeAddTask:
		var t model.Task
		if t, err = m.store.AddTask(m.detailID, store.TaskInput{Text: value}); err == nil {
			m.message = "Added task: " + t.Text
		}

	case ModeTaskNote:
		if g := m.detailGoal(); g != nil && m.taskCursor < len(g.Tasks) {
			if _, err = m.store.AddTaskNote(g.ID, g.Tasks[m.taskCursor].ID, value); err == nil {
				m.message = "Note added"
			}
		}

	case ModeAddMilestone:
		in := store.MilestoneInput{Title: value}
		if fields := strings.Fields(value); len(fields) > 1 {
			if _, perr := time.Parse(model.DateLayout, fields[len(fields)-1]); perr == nil {
				in.TargetDate = fields[len(fields)-1]
				in.Title = strings.Join(fields[:len(fields)-1], " ")
			}
		}
		if g := m.detailGoal(); g != nil {
			for _, t := range g.Tasks {
				if m.marked[t.ID] {
					in.TaskIDs = append(in.TaskIDs, t.ID)
				}
			}
		}
		var ms model.Milestone
		if ms, err = m.store.AddMilestone(m.detailID, in); err == nil {
			m.marked = make(map[string]bool)
			m.message = fmt.Sprintf("Milestone %q tracks %d tasks", ms.Title, len(ms.TaskIDs))
		}

	case ModeJournal:
		var in store.JourneyInput
		if in, err = parseJourney(value); err == nil {
			if _, err = m.store.LogJourney(m.detailID, in); err == nil {
				m.message = fmt.Sprintf("Logged. Motivation index %.1f", m.store.Stats().MotivationIndex)
			}
		}
	}

	if err != nil {
		m.message = "Error: " + err.Error()
	}
}

// splitEmotion peels a leading emotion word off a completion note
func splitEmotion(s string) (model.Emotion, string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", ""
	}
	if e, err := model.ParseEmotion(fields[0]); err == nil {
		return e, strings.Join(fields[1:], " ")
	}
	return "", s
}

// parseJourney reads "motivation [emotion] [energy] note"
func parseJourney(s string) (store.JourneyInput, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return store.JourneyInput{}, fmt.Errorf("%w: motivation is required", model.ErrValidation)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return store.JourneyInput{}, fmt.Errorf("%w: motivation must be a number from 1 to 10", model.ErrValidation)
	}
	in := store.JourneyInput{Motivation: n, Emotion: model.EmotionNeutral, Energy: model.EnergyMedium}
	rest := fields[1:]
	if len(rest) > 0 {
		if e, err := model.ParseEmotion(rest[0]); err == nil && e != "" {
			in.Emotion = e
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		switch model.Energy(strings.ToLower(rest[0])) {
		case model.EnergyLow, model.EnergyMedium, model.EnergyHigh:
			in.Energy = model.Energy(strings.ToLower(rest[0]))
			rest = rest[1:]
		}
	}
	in.Note = strings.Join(rest, " ")
	return in, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.search = ""
		m.loadData()
		return m, nil

	case key.Matches(msg, keys.Enter):
		m.mode = ModeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// Live filter as user types
	m.search = m.input.Value()
	m.goalCursor = 0
	m.loadData()
	return m, cmd
}
