package store

import (
	"fmt"
	"strings"

	"github.com/existflow/lifelist/internal/model"
)

// TaskInput describes a new task
type TaskInput struct {
	Text          string
	Priority      model.Priority
	EstimatedTime string
	Notes         []string
}

// TaskUpdate lists the fields UpdateTask may touch; nil fields are left alone.
type TaskUpdate struct {
	Text          *string
	Completed     *bool
	Priority      *model.Priority
	EstimatedTime *string
}

// MilestoneInput describes a new milestone. TaskIDs are stored as given.
type MilestoneInput struct {
	Title      string
	TargetDate string `validate:"omitempty,datetime=2006-01-02"`
	TaskIDs    []string
}

// AddTask appends a task and recomputes the goal's progress
func (s *Store) AddTask(goalID string, in TaskInput) (model.Task, error) {
	text, err := model.RequireText("task text", in.Text)
	if err != nil {
		return model.Task{}, err
	}
	priority, err := model.ParsePriority(string(in.Priority))
	if err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, g, err := s.goal(goalID)
	if err != nil {
		return model.Task{}, err
	}

	now := s.now()
	t := model.NewTask(s.newID(), text, now)
	t.Priority = priority
	t.EstimatedTime = strings.TrimSpace(in.EstimatedTime)
	for _, n := range in.Notes {
		if n = strings.TrimSpace(n); n != "" {
			t.Notes = append(t.Notes, model.TaskNote{ID: s.newID(), Text: n, Date: now})
		}
	}
	g.Tasks = append(g.Tasks, t)
	g.RecomputeProgress()
	s.commit(p)

	return copyTask(t), nil
}

// UpdateTask applies a typed partial update and recomputes progress
func (s *Store) UpdateTask(goalID, taskID string, u TaskUpdate) (model.Task, error) {
	var text string
	if u.Text != nil {
		var err error
		if text, err = model.RequireText("task text", *u.Text); err != nil {
			return model.Task{}, err
		}
	}
	var priority model.Priority
	if u.Priority != nil {
		var err error
		if priority, err = model.ParsePriority(string(*u.Priority)); err != nil {
			return model.Task{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, g, t, err := s.task(goalID, taskID)
	if err != nil {
		return model.Task{}, err
	}
	if u.Text != nil {
		t.Text = text
	}
	if u.Priority != nil {
		t.Priority = priority
	}
	if u.EstimatedTime != nil {
		t.EstimatedTime = strings.TrimSpace(*u.EstimatedTime)
	}
	if u.Completed != nil {
		t.SetCompleted(*u.Completed, s.now())
	}
	out := copyTask(*t)
	g.RecomputeProgress()
	s.commit(p)
	return out, nil
}

// DeleteTask removes a task and recomputes progress. Milestones keep any
// reference to it; their status ignores ids that no longer resolve.
func (s *Store) DeleteTask(goalID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, g, err := s.goal(goalID)
	if err != nil {
		return err
	}
	i := g.TaskIndex(taskID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	g.Tasks = append(g.Tasks[:i], g.Tasks[i+1:]...)
	g.RecomputeProgress()
	s.commit(p)
	return nil
}

// AddTaskNote appends a note to a task
func (s *Store) AddTaskNote(goalID, taskID, text string) (model.TaskNote, error) {
	text, err := model.RequireText("note", text)
	if err != nil {
		return model.TaskNote{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, t, err := s.task(goalID, taskID)
	if err != nil {
		return model.TaskNote{}, err
	}
	note := model.TaskNote{ID: s.newID(), Text: text, Date: s.now()}
	t.Notes = append(t.Notes, note)
	s.commit(p)
	return note, nil
}

func copyTask(t model.Task) model.Task {
	t.Notes = append([]model.TaskNote{}, t.Notes...)
	return t
}

func (s *Store) task(goalID, taskID string) (*model.Profile, *model.Goal, *model.Task, error) {
	p, g, err := s.goal(goalID)
	if err != nil {
		return nil, nil, nil, err
	}
	i := g.TaskIndex(taskID)
	if i < 0 {
		return nil, nil, nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	return p, g, &g.Tasks[i], nil
}

// AddMilestone attaches a milestone referencing some of the goal's tasks
func (s *Store) AddMilestone(goalID string, in MilestoneInput) (model.Milestone, error) {
	title, err := model.RequireText("milestone title", in.Title)
	if err != nil {
		return model.Milestone{}, err
	}
	if err := model.ValidateStruct(in); err != nil {
		return model.Milestone{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, g, err := s.goal(goalID)
	if err != nil {
		return model.Milestone{}, err
	}
	m := model.Milestone{
		ID:         s.newID(),
		Title:      title,
		TargetDate: in.TargetDate,
		TaskIDs:    append([]string{}, in.TaskIDs...),
	}
	g.Milestones = append(g.Milestones, m)
	s.commit(p)
	return m, nil
}

// DeleteMilestone removes a milestone from a goal
func (s *Store) DeleteMilestone(goalID, milestoneID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, g, err := s.goal(goalID)
	if err != nil {
		return err
	}
	for i, m := range g.Milestones {
		if m.ID == milestoneID {
			g.Milestones = append(g.Milestones[:i], g.Milestones[i+1:]...)
			s.commit(p)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrMilestoneNotFound, milestoneID)
}
