package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/existflow/lifelist/internal/export"
	"github.com/existflow/lifelist/internal/logger"
	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/session"
	"github.com/existflow/lifelist/internal/store"
)

// requestLogger logs every request and its outcome
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		s.log.Debug("HTTP Request",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("remote", req.RemoteAddr))

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		res := c.Response()
		s.log.Info("HTTP Response",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()),
			logger.F("request_id", res.Header().Get(echo.HeaderXRequestID)))

		return nil
	}
}

// touchSession counts every API call as activity for the inactivity monitor
func (s *Server) touchSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.monitor != nil {
			if s.monitor.Expired() {
				c.Response().Header().Set("X-Session-Expired", "true")
			}
			s.monitor.Touch(session.ActivityRequest)
		}
		return next(c)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleError maps domain errors onto status codes
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := errorStatus(err)
	msg := err.Error()

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("Request failed", logger.F("uri", c.Request().RequestURI), logger.F("error", err))
		if status == http.StatusInternalServerError {
			msg = "internal error"
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, errorResponse{Error: msg})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation),
		errors.Is(err, store.ErrInvalidImport),
		errors.Is(err, store.ErrUnsupportedSchema),
		errors.Is(err, export.ErrUnsupportedImage):
		return http.StatusBadRequest
	case errors.Is(err, export.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, store.ErrProfileNotFound),
		errors.Is(err, store.ErrGoalNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrMilestoneNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrNoActiveProfile):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrNotRecurring),
		errors.Is(err, store.ErrRecurringActive),
		errors.Is(err, store.ErrRecurringInactive),
		errors.Is(err, store.ErrAlreadyCompletedToday),
		errors.Is(err, store.ErrImportDeclined):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
