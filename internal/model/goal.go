package model

import (
	"math"
	"time"
)

// JourneyEntry is one self-reported check-in on the way to a goal
type JourneyEntry struct {
	Date       time.Time `json:"date"`
	Emotion    Emotion   `json:"emotion"`
	Motivation int       `json:"motivation" validate:"min=1,max=10"`
	Energy     Energy    `json:"energy"`
	Note       string    `json:"note,omitempty"`
}

// Recurring tracks a goal re-completed on a fixed cadence
type Recurring struct {
	Type             RecurrenceType `json:"type"`
	NextDue          time.Time      `json:"nextDue"`
	CompletedDates   []string       `json:"completedDates"`
	TotalCompletions int            `json:"totalCompletions"`
	IsActive         bool           `json:"isActive"`
}

// CompletedOn reports whether day (a DateKey) was already recorded
func (r *Recurring) CompletedOn(day string) bool {
	for _, d := range r.CompletedDates {
		if d == day {
			return true
		}
	}
	return false
}

// RecurrenceState of a goal
type RecurrenceState int

const (
	NotRecurring RecurrenceState = iota
	ActiveRecurring
	DeactivatedRecurring
)

func (s RecurrenceState) String() string {
	switch s {
	case ActiveRecurring:
		return "active-recurring"
	case DeactivatedRecurring:
		return "deactivated-recurring"
	default:
		return "not-recurring"
	}
}

// Goal is one bucket-list entry
type Goal struct {
	ID                string         `json:"id"`
	Text              string         `json:"text"`
	Category          Category       `json:"category"`
	Priority          Priority       `json:"priority"`
	Completed         bool           `json:"completed"`
	CreatedAt         time.Time      `json:"createdAt"`
	CompletedAt       *time.Time     `json:"completedAt,omitempty"`
	CompletionNote    string         `json:"completionNote,omitempty"`
	CompletionEmotion Emotion        `json:"completionEmotion,omitempty"`
	CompletionImage   string         `json:"completionImage,omitempty"`
	EmotionalJourney  []JourneyEntry `json:"emotionalJourney"`
	Tasks             []Task         `json:"tasks"`
	TaskProgress      int            `json:"taskProgress"`
	Milestones        []Milestone    `json:"milestones"`
	Recurring         *Recurring     `json:"recurring,omitempty"`
}

// NewGoal creates a goal with every derived field initialized
func NewGoal(id, text string, category Category, now time.Time) Goal {
	return Goal{
		ID:               id,
		Text:             text,
		Category:         category,
		Priority:         PriorityMedium,
		CreatedAt:        now,
		EmotionalJourney: []JourneyEntry{},
		Tasks:            []Task{},
		Milestones:       []Milestone{},
	}
}

// State reports where the goal sits in the recurrence state machine
func (g *Goal) State() RecurrenceState {
	switch {
	case g.Recurring == nil:
		return NotRecurring
	case g.Recurring.IsActive:
		return ActiveRecurring
	default:
		return DeactivatedRecurring
	}
}

// RecomputeProgress sets TaskProgress from the current task list
func (g *Goal) RecomputeProgress() {
	g.TaskProgress = percent(g.completedTasks(), len(g.Tasks))
}

func (g *Goal) completedTasks() int {
	n := 0
	for _, t := range g.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// TaskIndex returns the position of a task or -1
func (g *Goal) TaskIndex(id string) int {
	for i := range g.Tasks {
		if g.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// MilestoneProgress derives milestone achievement from the referenced tasks that
// still exist. Stale ids are skipped.
func (g *Goal) MilestoneProgress(m Milestone) MilestoneStatus {
	var st MilestoneStatus
	for _, id := range m.TaskIDs {
		i := g.TaskIndex(id)
		if i < 0 {
			continue
		}
		st.Total++
		if g.Tasks[i].Completed {
			st.Completed++
		}
	}
	st.Percent = percent(st.Completed, st.Total)
	st.Achieved = st.Total > 0 && st.Percent == 100
	return st
}

// Clone returns a deep copy
func (g Goal) Clone() Goal {
	out := g
	if g.CompletedAt != nil {
		t := *g.CompletedAt
		out.CompletedAt = &t
	}
	out.EmotionalJourney = append([]JourneyEntry{}, g.EmotionalJourney...)
	out.Tasks = make([]Task, len(g.Tasks))
	for i, t := range g.Tasks {
		if t.CompletedAt != nil {
			c := *t.CompletedAt
			t.CompletedAt = &c
		}
		t.Notes = append([]TaskNote{}, t.Notes...)
		out.Tasks[i] = t
	}
	out.Milestones = make([]Milestone, len(g.Milestones))
	for i, m := range g.Milestones {
		m.TaskIDs = append([]string{}, m.TaskIDs...)
		out.Milestones[i] = m
	}
	if g.Recurring != nil {
		r := *g.Recurring
		r.CompletedDates = append([]string{}, g.Recurring.CompletedDates...)
		out.Recurring = &r
	}
	return out
}

// Normalize fills nil collections and recomputes progress; stored progress is never trusted
func (g *Goal) Normalize() {
	if g.EmotionalJourney == nil {
		g.EmotionalJourney = []JourneyEntry{}
	}
	if g.Tasks == nil {
		g.Tasks = []Task{}
	}
	for i := range g.Tasks {
		if g.Tasks[i].Notes == nil {
			g.Tasks[i].Notes = []TaskNote{}
		}
		if g.Tasks[i].Priority == "" {
			g.Tasks[i].Priority = PriorityMedium
		}
	}
	if g.Milestones == nil {
		g.Milestones = []Milestone{}
	}
	for i := range g.Milestones {
		if g.Milestones[i].TaskIDs == nil {
			g.Milestones[i].TaskIDs = []string{}
		}
	}
	if g.Priority == "" {
		g.Priority = PriorityMedium
	}
	if g.Recurring != nil && g.Recurring.CompletedDates == nil {
		g.Recurring.CompletedDates = []string{}
	}
	g.RecomputeProgress()
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
