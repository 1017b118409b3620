package model

import "time"

// TaskNote is a timestamped note on a task
type TaskNote struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

// Task is a sub-step of a goal
type Task struct {
	ID            string     `json:"id"`
	Text          string     `json:"text"`
	Completed     bool       `json:"completed"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	Priority      Priority   `json:"priority"`
	EstimatedTime string     `json:"estimatedTime,omitempty"`
	Notes         []TaskNote `json:"notes"`
}

// NewTask creates a task with defaults
func NewTask(id, text string, now time.Time) Task {
	return Task{
		ID:        id,
		Text:      text,
		CreatedAt: now,
		Priority:  PriorityMedium,
		Notes:     []TaskNote{},
	}
}

// SetCompleted flips completion, stamping CompletedAt only on the transition to done
func (t *Task) SetCompleted(done bool, now time.Time) {
	switch {
	case done && !t.Completed:
		t.CompletedAt = &now
	case !done:
		t.CompletedAt = nil
	}
	t.Completed = done
}

// Milestone is a named checkpoint over a subset of the goal's tasks. The task ids
// are references only and may go stale after task deletion.
type Milestone struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	TargetDate string   `json:"targetDate,omitempty"`
	TaskIDs    []string `json:"taskIds"`
}

// MilestoneStatus is computed on read and never persisted
type MilestoneStatus struct {
	Total     int  `json:"total"`
	Completed int  `json:"completed"`
	Percent   int  `json:"percent"`
	Achieved  bool `json:"achieved"`
}
