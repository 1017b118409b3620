package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/existflow/lifelist/internal/logger"
	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/session"
	"github.com/existflow/lifelist/internal/store"
)

// Screen is the top-level view being shown
type Screen int

const (
	ScreenProfiles Screen = iota
	ScreenGoals
	ScreenDetail
	ScreenStats
)

// Pane represents which pane is focused on the goals screen
type Pane int

const (
	PaneSidebar Pane = iota
	PaneGoalList
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeNewProfile
	ModeAddGoal
	ModeEditGoal
	ModeCompleteGoal
	ModeAddTask
	ModeTaskNote
	ModeAddMilestone
	ModeJournal
	ModeFilter
	ModeConfirm
	ModeHelp
)

// Options configures the TUI
type Options struct {
	SessionTimeout time.Duration
	// ConfirmDelete asks before deleting profiles, goals and tasks
	ConfirmDelete bool
	// OnSelect is called whenever a stored profile becomes active
	OnSelect func(profileID string)
}

// Model is the main TUI model
type Model struct {
	store *store.Store
	opts  Options

	// Session
	monitor *session.Monitor
	expired chan struct{}

	profiles []model.Profile
	goals    []model.Goal
	counts   map[store.Filter]int

	// UI state
	width        int
	height       int
	screen       Screen
	pane         Pane
	mode         Mode
	profCursor   int
	filterCursor int
	goalCursor   int
	taskCursor   int

	// Goal list shaping
	search string
	order  store.SortOrder

	// Detail screen
	detailID string
	marked   map[string]bool

	// Input
	input textinput.Model

	confirmPrompt string
	onConfirm     func(*Model)

	message string
}

// sidebarFilters lists the fixed filters followed by every category
var sidebarFilters = func() []store.Filter {
	f := []store.Filter{store.FilterAll, store.FilterActive, store.FilterCompleted}
	for _, c := range model.Categories {
		f = append(f, store.Filter(c))
	}
	return f
}()

// NewModel creates a new TUI model over st. When st already has an active
// profile the goal list is shown, otherwise profile selection.
func NewModel(st *store.Store, opts Options) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50

	expired := make(chan struct{}, 1) // Buffered so the timer never blocks
	m := Model{
		store:   st,
		opts:    opts,
		expired: expired,
		screen:  ScreenProfiles,
		pane:    PaneGoalList,
		mode:    ModeNormal,
		order:   store.SortDateDesc,
		marked:  make(map[string]bool),
		input:   ti,
	}
	m.monitor = session.NewMonitor(session.Config{
		Timeout: opts.SessionTimeout,
		OnExpire: func() {
			select {
			case expired <- struct{}{}:
			default:
			}
		},
		IsGuest: st.IsGuest,
		Logger:  logger.Default(),
	})

	if _, ok := st.CurrentProfile(); ok {
		m.screen = ScreenGoals
		m.monitor.Start()
	}

	m.loadData()
	logger.Debug("TUI model initialized",
		logger.F("profiles", len(m.profiles)),
		logger.F("goals", len(m.goals)))
	return m
}

func (m *Model) loadData() {
	m.profiles = m.store.Profiles()
	if m.profCursor >= len(m.profiles) {
		m.profCursor = 0
	}

	all, err := m.store.Goals()
	if err != nil {
		m.goals = nil
		m.counts = nil
		return
	}

	m.counts = make(map[store.Filter]int, len(sidebarFilters))
	for _, f := range sidebarFilters {
		m.counts[f] = len(store.FilterGoals(append([]model.Goal{}, all...), f, "", m.order))
	}
	m.goals = store.FilterGoals(all, m.currentFilter(), m.search, m.order)
	if m.goalCursor >= len(m.goals) {
		m.goalCursor = max(0, len(m.goals)-1)
	}

	if g := m.detailGoal(); g != nil && m.taskCursor >= len(g.Tasks) {
		m.taskCursor = max(0, len(g.Tasks)-1)
	}
}

func (m *Model) currentFilter() store.Filter {
	return sidebarFilters[m.filterCursor]
}

func (m *Model) currentGoal() *model.Goal {
	if m.goalCursor < len(m.goals) {
		return &m.goals[m.goalCursor]
	}
	return nil
}

// detailGoal is the goal open on the detail screen, re-read from the store
func (m *Model) detailGoal() *model.Goal {
	if m.detailID == "" {
		return nil
	}
	g, err := m.store.Goal(m.detailID)
	if err != nil {
		return nil
	}
	return &g
}

// selectProfile makes id active and starts watching for inactivity
func (m *Model) selectProfile(id string) {
	p, err := m.store.SelectProfile(id)
	if err != nil {
		m.message = "Error: " + err.Error()
		return
	}
	if m.opts.OnSelect != nil {
		m.opts.OnSelect(p.ID)
	}
	m.enterGoals("Welcome back, " + p.Name)
}

func (m *Model) startGuest() {
	m.store.StartGuest("")
	m.enterGoals("Guest session: nothing will be saved")
}

func (m *Model) enterGoals(msg string) {
	m.screen = ScreenGoals
	m.pane = PaneGoalList
	m.filterCursor, m.goalCursor = 0, 0
	m.search = ""
	m.detailID = ""
	m.monitor.Start()
	m.loadData()
	m.message = msg
}

// leaveProfile drops the active profile and returns to profile selection
func (m *Model) leaveProfile(msg string) {
	m.monitor.Stop()
	m.store.ClearCurrentProfile()
	m.screen = ScreenProfiles
	m.mode = ModeNormal
	m.detailID = ""
	m.marked = make(map[string]bool)
	m.loadData()
	m.message = msg
}
