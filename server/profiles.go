package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/existflow/lifelist/internal/model"
)

type profileRequest struct {
	Name string `json:"name" validate:"required"`
}

type guestRequest struct {
	Name string `json:"name"`
}

type profileSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Goals      int    `json:"goals"`
	Completed  int    `json:"completed"`
	LastActive string `json:"lastActive"`
}

type sessionResponse struct {
	Active  bool           `json:"active"`
	Guest   bool           `json:"guest"`
	Profile *model.Profile `json:"profile,omitempty"`
}

func (s *Server) handleListProfiles(c echo.Context) error {
	profiles := s.store.Profiles()
	out := make([]profileSummary, 0, len(profiles))
	for _, p := range profiles {
		done := 0
		for _, g := range p.BucketList {
			if g.Completed {
				done++
			}
		}
		out = append(out, profileSummary{
			ID:         p.ID,
			Name:       p.Name,
			Goals:      len(p.BucketList),
			Completed:  done,
			LastActive: p.LastActive.Format(model.DateLayout),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateProfile(c echo.Context) error {
	var req profileRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	p, err := s.store.CreateProfile(req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) handleGetProfile(c echo.Context) error {
	p, err := s.store.Profile(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleRenameProfile(c echo.Context) error {
	var req profileRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	p, err := s.store.RenameProfile(c.Param("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleDeleteProfile(c echo.Context) error {
	if err := s.store.DeleteProfile(c.Param("id")); err != nil {
		return err
	}
	if _, ok := s.store.CurrentProfile(); !ok && s.monitor != nil {
		s.monitor.Stop()
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSelectProfile(c echo.Context) error {
	p, err := s.store.SelectProfile(c.Param("id"))
	if err != nil {
		return err
	}
	if s.monitor != nil {
		s.monitor.Start()
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleStartGuest(c echo.Context) error {
	var req guestRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	p := s.store.StartGuest(req.Name)
	if s.monitor != nil {
		s.monitor.Stop()
	}
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) handleGetSession(c echo.Context) error {
	p, ok := s.store.CurrentProfile()
	if !ok {
		return c.JSON(http.StatusOK, sessionResponse{})
	}
	return c.JSON(http.StatusOK, sessionResponse{Active: true, Guest: p.IsGuest, Profile: &p})
}

func (s *Server) handleEndSession(c echo.Context) error {
	s.store.ClearCurrentProfile()
	if s.monitor != nil {
		s.monitor.Stop()
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleGetImageSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.ImageDefaults())
}

func (s *Server) handlePutImageSettings(c echo.Context) error {
	var req model.ImageSettings
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := s.store.SetImageDefaults(req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req)
}

// bindValid binds the request body and runs its validate tags
func bindValid(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return err
	}
	return c.Validate(v)
}
