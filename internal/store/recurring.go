package store

import (
	"fmt"

	"github.com/existflow/lifelist/internal/logger"
	"github.com/existflow/lifelist/internal/model"
)

// CompleteRecurringGoal records today's completion of an active recurring goal.
// A second call on the same calendar day changes nothing and returns
// ErrAlreadyCompletedToday.
func (s *Store) CompleteRecurringGoal(id string) (model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, g, err := s.goal(id)
	if err != nil {
		return model.Goal{}, err
	}
	if err := requireActiveRecurring(g); err != nil {
		return model.Goal{}, err
	}

	now := s.now()
	today := model.DateKey(now)
	if g.Recurring.CompletedOn(today) {
		return model.Goal{}, fmt.Errorf("%w: %s", ErrAlreadyCompletedToday, today)
	}

	r := g.Recurring
	r.CompletedDates = append(r.CompletedDates, today)
	r.TotalCompletions++
	r.NextDue = model.NextDue(now, r.Type)
	s.commit(p)

	s.log.Info("Recurring goal completed",
		logger.F("goal", g.ID), logger.F("total", r.TotalCompletions), logger.F("nextDue", model.DateKey(r.NextDue)))
	return g.Clone(), nil
}

// CanCompleteToday reports whether today is still open for a recurring completion
func (s *Store) CanCompleteToday(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, g, err := s.goal(id)
	if err != nil {
		return false, err
	}
	if g.Recurring == nil {
		return false, ErrNotRecurring
	}
	return !g.Recurring.CompletedOn(model.DateKey(s.now())), nil
}

// DeactivateRecurringGoal retires a recurring goal for good: it becomes a
// completed goal and can no longer be re-completed.
func (s *Store) DeactivateRecurringGoal(id string) (model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, g, err := s.goal(id)
	if err != nil {
		return model.Goal{}, err
	}
	if err := requireActiveRecurring(g); err != nil {
		return model.Goal{}, err
	}

	now := s.now()
	g.Recurring.IsActive = false
	g.Completed = true
	g.CompletedAt = &now
	s.commit(p)

	s.log.Info("Recurring goal deactivated", logger.F("goal", g.ID))
	return g.Clone(), nil
}

func requireActiveRecurring(g *model.Goal) error {
	switch g.State() {
	case model.NotRecurring:
		return fmt.Errorf("%w: %s", ErrNotRecurring, g.ID)
	case model.DeactivatedRecurring:
		return fmt.Errorf("%w: %s", ErrRecurringInactive, g.ID)
	}
	return nil
}
