package server

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/existflow/lifelist/internal/export"
	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/store"
)

type addGoalRequest struct {
	Text           string `json:"text" validate:"required"`
	Category       string `json:"category" validate:"required"`
	Priority       string `json:"priority"`
	Recurring      string `json:"recurring"`
	AllowDuplicate bool   `json:"allowDuplicate"`
}

type updateGoalRequest struct {
	Text              *string `json:"text"`
	Category          *string `json:"category"`
	Priority          *string `json:"priority"`
	Completed         *bool   `json:"completed"`
	CompletionNote    *string `json:"completionNote"`
	CompletionEmotion *string `json:"completionEmotion"`
	CompletionImage   *string `json:"completionImage"`
}

type completeRequest struct {
	Date    *time.Time `json:"date"`
	Note    string     `json:"note"`
	Emotion string     `json:"emotion"`
	Image   string     `json:"image"`
}

type moveRequest struct {
	Index int `json:"index"`
}

type journeyRequest struct {
	Emotion    string `json:"emotion"`
	Motivation int    `json:"motivation" validate:"min=1,max=10"`
	Energy     string `json:"energy"`
	Note       string `json:"note"`
}

type recurringStatus struct {
	State            string `json:"state"`
	CanCompleteToday bool   `json:"canCompleteToday"`
	NextDue          string `json:"nextDue"`
	TotalCompletions int    `json:"totalCompletions"`
}

func (s *Server) handleListGoals(c echo.Context) error {
	filter, err := store.ParseFilter(c.QueryParam("filter"))
	if err != nil {
		return err
	}
	order, err := store.ParseSortOrder(c.QueryParam("sort"))
	if err != nil {
		return err
	}
	goals, err := s.store.FilteredGoals(filter, c.QueryParam("q"), order)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, goals)
}

func (s *Server) handleAddGoal(c echo.Context) error {
	var req addGoalRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if !req.AllowDuplicate && s.store.DuplicateGoalExists(req.Text) {
		return echo.NewHTTPError(http.StatusConflict, "a goal with this text already exists")
	}
	g, err := s.store.AddGoal(store.GoalInput{
		Text:      req.Text,
		Category:  model.Category(req.Category),
		Priority:  model.Priority(req.Priority),
		Recurring: model.RecurrenceType(req.Recurring),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, g)
}

func (s *Server) handleGetGoal(c echo.Context) error {
	g, err := s.store.Goal(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, g)
}

func (s *Server) handleUpdateGoal(c echo.Context) error {
	var req updateGoalRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	u := store.GoalUpdate{
		Text:            req.Text,
		Completed:       req.Completed,
		CompletionNote:  req.CompletionNote,
		CompletionImage: req.CompletionImage,
	}
	if req.Category != nil {
		v := model.Category(*req.Category)
		u.Category = &v
	}
	if req.Priority != nil {
		v := model.Priority(*req.Priority)
		u.Priority = &v
	}
	if req.CompletionEmotion != nil {
		v := model.Emotion(*req.CompletionEmotion)
		u.CompletionEmotion = &v
	}
	g, err := s.store.UpdateGoal(c.Param("id"), u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, g)
}

func (s *Server) handleDeleteGoal(c echo.Context) error {
	if err := s.store.DeleteGoal(c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleCompleteGoal(c echo.Context) error {
	var req completeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	g, err := s.store.CompleteGoal(c.Param("id"), store.Completion{
		Date:    req.Date,
		Note:    req.Note,
		Emotion: model.Emotion(req.Emotion),
		Image:   req.Image,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, g)
}

func (s *Server) handleMoveGoal(c echo.Context) error {
	var req moveRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := s.store.MoveGoal(c.Param("id"), req.Index); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// handleAttachImage compresses an uploaded photo and stores it as the goal's completion image
func (s *Server) handleAttachImage(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart field \"image\" is required")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, export.MaxAttachmentBytes+1))
	if err != nil {
		return err
	}

	p, ok := s.store.CurrentProfile()
	if !ok {
		return store.ErrNoActiveProfile
	}
	url, err := export.PrepareImage(data, p.Settings)
	if err != nil {
		return err
	}
	g, err := s.store.UpdateGoal(c.Param("id"), store.GoalUpdate{CompletionImage: &url})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, g)
}

func (s *Server) handleCard(c echo.Context) error {
	g, err := s.store.Goal(c.Param("id"))
	if err != nil {
		return err
	}
	p, ok := s.store.CurrentProfile()
	if !ok {
		return store.ErrNoActiveProfile
	}
	card, err := export.RenderCard(g, p.Name, p.Settings)
	if err != nil {
		return err
	}
	name := export.Filename(p.Name+" "+g.ID, card.Ext, time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, card.ContentType, card.Data)
}

func (s *Server) handleLogJourney(c echo.Context) error {
	var req journeyRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	entry, err := s.store.LogJourney(c.Param("id"), store.JourneyInput{
		Emotion:    model.Emotion(req.Emotion),
		Motivation: req.Motivation,
		Energy:     model.Energy(req.Energy),
		Note:       req.Note,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleRecurringStatus(c echo.Context) error {
	g, err := s.store.Goal(c.Param("id"))
	if err != nil {
		return err
	}
	if g.Recurring == nil {
		return store.ErrNotRecurring
	}
	can, err := s.store.CanCompleteToday(g.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recurringStatus{
		State:            g.State().String(),
		CanCompleteToday: can && g.Recurring.IsActive,
		NextDue:          g.Recurring.NextDue.Format(model.DateLayout),
		TotalCompletions: g.Recurring.TotalCompletions,
	})
}

func (s *Server) handleCompleteRecurring(c echo.Context) error {
	g, err := s.store.CompleteRecurringGoal(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, g)
}

func (s *Server) handleDeactivateRecurring(c echo.Context) error {
	g, err := s.store.DeactivateRecurringGoal(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, g)
}
