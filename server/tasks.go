package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/store"
)

type addTaskRequest struct {
	Text          string   `json:"text" validate:"required"`
	Priority      string   `json:"priority"`
	EstimatedTime string   `json:"estimatedTime"`
	Notes         []string `json:"notes"`
}

type updateTaskRequest struct {
	Text          *string `json:"text"`
	Completed     *bool   `json:"completed"`
	Priority      *string `json:"priority"`
	EstimatedTime *string `json:"estimatedTime"`
}

type noteRequest struct {
	Text string `json:"text" validate:"required"`
}

type milestoneRequest struct {
	Title      string   `json:"title" validate:"required"`
	TargetDate string   `json:"targetDate"`
	TaskIDs    []string `json:"taskIds"`
}

type milestoneView struct {
	model.Milestone
	Status model.MilestoneStatus `json:"status"`
}

func (s *Server) handleAddTask(c echo.Context) error {
	var req addTaskRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	t, err := s.store.AddTask(c.Param("id"), store.TaskInput{
		Text:          req.Text,
		Priority:      model.Priority(req.Priority),
		EstimatedTime: req.EstimatedTime,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	u := store.TaskUpdate{Text: req.Text, Completed: req.Completed, EstimatedTime: req.EstimatedTime}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		u.Priority = &p
	}
	t, err := s.store.UpdateTask(c.Param("id"), c.Param("taskID"), u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	if err := s.store.DeleteTask(c.Param("id"), c.Param("taskID")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleAddTaskNote(c echo.Context) error {
	var req noteRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	n, err := s.store.AddTaskNote(c.Param("id"), c.Param("taskID"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, n)
}

func (s *Server) handleListMilestones(c echo.Context) error {
	g, err := s.store.Goal(c.Param("id"))
	if err != nil {
		return err
	}
	out := make([]milestoneView, 0, len(g.Milestones))
	for _, m := range g.Milestones {
		out = append(out, milestoneView{Milestone: m, Status: g.MilestoneProgress(m)})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleAddMilestone(c echo.Context) error {
	var req milestoneRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	m, err := s.store.AddMilestone(c.Param("id"), store.MilestoneInput{
		Title:      req.Title,
		TargetDate: req.TargetDate,
		TaskIDs:    req.TaskIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (s *Server) handleDeleteMilestone(c echo.Context) error {
	if err := s.store.DeleteMilestone(c.Param("id"), c.Param("milestoneID")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
