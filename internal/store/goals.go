package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/existflow/lifelist/internal/logger"
	"github.com/existflow/lifelist/internal/model"
)

// GoalInput describes a new goal. An empty Recurring makes a one-shot goal.
type GoalInput struct {
	Text      string
	Category  model.Category
	Priority  model.Priority
	Recurring model.RecurrenceType
}

// Completion carries the metadata recorded when a goal is completed.
// A nil Date means now.
type Completion struct {
	Date    *time.Time
	Note    string
	Emotion model.Emotion
	Image   string
}

// GoalUpdate lists the fields UpdateGoal may touch; nil fields are left alone.
type GoalUpdate struct {
	Text              *string
	Category          *model.Category
	Priority          *model.Priority
	Completed         *bool
	CompletionNote    *string
	CompletionEmotion *model.Emotion
	CompletionImage   *string
}

// JourneyInput is one emotional-journey check-in
type JourneyInput struct {
	Emotion    model.Emotion
	Motivation int `validate:"min=1,max=10"`
	Energy     model.Energy
	Note       string
}

// Goals returns the active profile's goals in list order
func (s *Store) Goals() ([]model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.active()
	if err != nil {
		return nil, err
	}
	return cloneGoals(p.BucketList), nil
}

// Goal returns one goal of the active profile
func (s *Store) Goal(id string) (model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, g, err := s.goal(id)
	if err != nil {
		return model.Goal{}, err
	}
	return g.Clone(), nil
}

// AddGoal appends a goal to the active profile. Duplicate text is allowed here;
// callers wanting the duplicate guard use DuplicateGoalExists first.
func (s *Store) AddGoal(in GoalInput) (model.Goal, error) {
	text, err := model.RequireText("goal text", in.Text)
	if err != nil {
		return model.Goal{}, err
	}
	category, err := model.ParseCategory(string(in.Category))
	if err != nil {
		return model.Goal{}, err
	}
	priority, err := model.ParsePriority(string(in.Priority))
	if err != nil {
		return model.Goal{}, err
	}
	var recur model.RecurrenceType
	if in.Recurring != "" {
		if recur, err = model.ParseRecurrenceType(string(in.Recurring)); err != nil {
			return model.Goal{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.active()
	if err != nil {
		return model.Goal{}, err
	}

	now := s.now()
	g := model.NewGoal(s.newID(), text, category, now)
	g.Priority = priority
	if recur != "" {
		g.Recurring = &model.Recurring{
			Type:           recur,
			NextDue:        model.NextDue(now, recur),
			CompletedDates: []string{},
			IsActive:       true,
		}
	}
	p.BucketList = append(p.BucketList, g)
	s.commit(p)

	s.log.Info("Goal added", logger.F("profile", p.ID), logger.F("goal", g.ID), logger.F("category", category))
	return g.Clone(), nil
}

// DuplicateGoalExists reports a case-insensitive exact text match in the active profile
func (s *Store) DuplicateGoalExists(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.active()
	if err != nil {
		return false
	}
	text = strings.TrimSpace(text)
	for _, g := range p.BucketList {
		if strings.EqualFold(g.Text, text) {
			return true
		}
	}
	return false
}

// CompleteGoal records completion of a one-shot (or deactivated recurring) goal
// and appends an achievement to the profile.
func (s *Store) CompleteGoal(id string, c Completion) (model.Goal, error) {
	emotion, err := model.ParseEmotion(string(c.Emotion))
	if err != nil {
		return model.Goal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, g, err := s.goal(id)
	if err != nil {
		return model.Goal{}, err
	}
	if g.State() == model.ActiveRecurring {
		return model.Goal{}, fmt.Errorf("%w: use the recurring completion or deactivate it first", ErrRecurringActive)
	}

	date := s.now()
	if c.Date != nil {
		date = *c.Date
	}
	g.Completed = true
	g.CompletedAt = &date
	g.CompletionNote = strings.TrimSpace(c.Note)
	g.CompletionEmotion = emotion
	g.CompletionImage = c.Image

	if !hasAchievement(p, g.ID) {
		p.Achievements = append(p.Achievements, model.Achievement{GoalID: g.ID, Date: date, Emotion: emotion})
	}
	s.commit(p)

	s.log.Info("Goal completed", logger.F("goal", g.ID), logger.F("emotion", emotion))
	return g.Clone(), nil
}

func hasAchievement(p *model.Profile, goalID string) bool {
	for _, a := range p.Achievements {
		if a.GoalID == goalID {
			return true
		}
	}
	return false
}

// UpdateGoal applies a typed partial update, then recomputes task progress.
func (s *Store) UpdateGoal(id string, u GoalUpdate) (model.Goal, error) {
	var (
		text     string
		category model.Category
		priority model.Priority
		emotion  model.Emotion
		err      error
	)
	if u.Text != nil {
		if text, err = model.RequireText("goal text", *u.Text); err != nil {
			return model.Goal{}, err
		}
	}
	if u.Category != nil {
		if category, err = model.ParseCategory(string(*u.Category)); err != nil {
			return model.Goal{}, err
		}
	}
	if u.Priority != nil {
		if priority, err = model.ParsePriority(string(*u.Priority)); err != nil {
			return model.Goal{}, err
		}
	}
	if u.CompletionEmotion != nil {
		if emotion, err = model.ParseEmotion(string(*u.CompletionEmotion)); err != nil {
			return model.Goal{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, g, err := s.goal(id)
	if err != nil {
		return model.Goal{}, err
	}
	if u.Completed != nil && *u.Completed && g.State() == model.ActiveRecurring {
		return model.Goal{}, ErrRecurringActive
	}
	if u.Completed != nil && !*u.Completed && g.State() == model.DeactivatedRecurring {
		return model.Goal{}, fmt.Errorf("%w: deactivation cannot be undone", ErrRecurringInactive)
	}

	if u.Text != nil {
		g.Text = text
	}
	if u.Category != nil {
		g.Category = category
	}
	if u.Priority != nil {
		g.Priority = priority
	}
	if u.Completed != nil && *u.Completed != g.Completed {
		g.Completed = *u.Completed
		if g.Completed {
			now := s.now()
			g.CompletedAt = &now
		} else {
			g.CompletedAt = nil
		}
	}
	if u.CompletionNote != nil {
		g.CompletionNote = strings.TrimSpace(*u.CompletionNote)
	}
	if u.CompletionEmotion != nil {
		g.CompletionEmotion = emotion
	}
	if u.CompletionImage != nil {
		g.CompletionImage = *u.CompletionImage
	}
	g.RecomputeProgress()
	s.commit(p)

	return g.Clone(), nil
}

// DeleteGoal removes a goal from the active profile
func (s *Store) DeleteGoal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.active()
	if err != nil {
		return err
	}
	i := p.GoalIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrGoalNotFound, id)
	}
	p.BucketList = append(p.BucketList[:i], p.BucketList[i+1:]...)
	s.commit(p)

	s.log.Info("Goal deleted", logger.F("goal", id))
	return nil
}

// MoveGoal moves a goal to index (clamped to the list bounds)
func (s *Store) MoveGoal(id string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.active()
	if err != nil {
		return err
	}
	from := p.GoalIndex(id)
	if from < 0 {
		return fmt.Errorf("%w: %s", ErrGoalNotFound, id)
	}
	index = max(0, min(index, len(p.BucketList)-1))
	if index == from {
		return nil
	}

	g := p.BucketList[from]
	list := append(p.BucketList[:from:from], p.BucketList[from+1:]...)
	list = append(list[:index], append([]model.Goal{g}, list[index:]...)...)
	p.BucketList = list
	s.commit(p)
	return nil
}

// LogJourney appends an emotional-journey entry to a goal
func (s *Store) LogJourney(goalID string, in JourneyInput) (model.JourneyEntry, error) {
	if err := model.ValidateStruct(in); err != nil {
		return model.JourneyEntry{}, err
	}
	emotion, err := model.ParseEmotion(string(in.Emotion))
	if err != nil {
		return model.JourneyEntry{}, err
	}
	energy, err := model.ParseEnergy(string(in.Energy))
	if err != nil {
		return model.JourneyEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, g, err := s.goal(goalID)
	if err != nil {
		return model.JourneyEntry{}, err
	}
	entry := model.JourneyEntry{
		Date:       s.now(),
		Emotion:    emotion,
		Motivation: in.Motivation,
		Energy:     energy,
		Note:       strings.TrimSpace(in.Note),
	}
	g.EmotionalJourney = append(g.EmotionalJourney, entry)
	s.commit(p)
	return entry, nil
}

func cloneGoals(goals []model.Goal) []model.Goal {
	out := make([]model.Goal, len(goals))
	for i, g := range goals {
		out[i] = g.Clone()
	}
	return out
}
