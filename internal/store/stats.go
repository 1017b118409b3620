package store

import (
	"math"

	"github.com/existflow/lifelist/internal/model"
)

// DefaultMotivation is reported when no journey entries exist
const DefaultMotivation = 5.0

// motivationWindow is how many of each goal's most recent ratings count
const motivationWindow = 3

// CategoryStats counts goals in one category
type CategoryStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Stats summarizes a profile's bucket list
type Stats struct {
	Total                int                              `json:"total"`
	Completed            int                              `json:"completed"`
	Percentage           int                              `json:"percentage"`
	ByCategory           map[model.Category]CategoryStats `json:"byCategory"`
	MotivationIndex      float64                          `json:"motivationIndex"`
	ActiveRecurring      int                              `json:"activeRecurring"`
	RecurringCompletions int                              `json:"recurringCompletions"`
	TasksTotal           int                              `json:"tasksTotal"`
	TasksCompleted       int                              `json:"tasksCompleted"`
	Achievements         int                              `json:"achievements"`
}

// Stats computes statistics for the active profile. With no active profile the
// zero-goal statistics are returned.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ComputeStats(nil)
	}
	st := ComputeStats(s.current.BucketList)
	st.Achievements = len(s.current.Achievements)
	return st
}

// ComputeStats derives Stats from a goal list. Every category appears in
// ByCategory, including those with no goals.
func ComputeStats(goals []model.Goal) Stats {
	st := Stats{ByCategory: make(map[model.Category]CategoryStats, len(model.Categories))}
	for _, c := range model.Categories {
		st.ByCategory[c] = CategoryStats{}
	}

	for i := range goals {
		g := &goals[i]
		st.Total++
		cs := st.ByCategory[g.Category]
		cs.Total++
		if g.Completed {
			st.Completed++
			cs.Completed++
		}
		st.ByCategory[g.Category] = cs

		if g.State() == model.ActiveRecurring {
			st.ActiveRecurring++
		}
		if g.Recurring != nil {
			st.RecurringCompletions += g.Recurring.TotalCompletions
		}
		for _, t := range g.Tasks {
			st.TasksTotal++
			if t.Completed {
				st.TasksCompleted++
			}
		}
	}

	if st.Total > 0 {
		st.Percentage = int(math.Round(float64(st.Completed) / float64(st.Total) * 100))
	}
	st.MotivationIndex = MotivationIndex(goals)
	return st
}

// MotivationIndex pools the last three motivation ratings of every goal that
// has journey entries and averages them, rounded to one decimal. Each rating
// weighs the same, so a goal with three check-ins counts more than a goal with
// one; this is not a mean of per-goal means (A=[10], B=[1,1,1] gives 3.3, not 5.5).
func MotivationIndex(goals []model.Goal) float64 {
	sum, n := 0, 0
	for _, g := range goals {
		journey := g.EmotionalJourney
		if len(journey) > motivationWindow {
			journey = journey[len(journey)-motivationWindow:]
		}
		for _, e := range journey {
			sum += e.Motivation
			n++
		}
	}
	if n == 0 {
		return DefaultMotivation
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}
