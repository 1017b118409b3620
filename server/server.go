package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/existflow/lifelist/internal/logger"
	"github.com/existflow/lifelist/internal/model"
	"github.com/existflow/lifelist/internal/offline"
	"github.com/existflow/lifelist/internal/session"
	"github.com/existflow/lifelist/internal/store"
)

// Options wires the server to its collaborators. Monitor and Assets are optional.
type Options struct {
	Store   *store.Store
	Monitor *session.Monitor
	Assets  *offline.Cache
	Logger  *logger.Logger
	// RateLimit caps API requests per second per client; zero disables it
	RateLimit float64
}

// Server is the local JSON API over the goal store
type Server struct {
	store   *store.Store
	monitor *session.Monitor
	assets  *offline.Cache
	log     *logger.Logger
	metrics *metrics
	echo    *echo.Echo
}

// New creates a new server
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("server: store is required")
	}
	s := &Server{
		store:   opts.Store,
		monitor: opts.Monitor,
		assets:  opts.Assets,
		log:     opts.Logger,
	}
	s.setupEcho(opts.RateLimit)
	return s, nil
}

func (s *Server) setupEcho(limit float64) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = requestValidator{}
	e.HTTPErrorHandler = s.handleError

	s.metrics = s.newMetrics()
	e.Use(s.metrics.instrument)
	e.Use(s.requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.GET("/health", s.handleHealth)
	e.GET("/metrics", s.metrics.handler())

	if s.assets != nil {
		e.Any("/app/*", echo.WrapHandler(http.StripPrefix("/app", s.assets)))
	}

	api := e.Group("/api/v1")
	api.Use(s.touchSession)
	if limit > 0 {
		api.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(limit))))
	}

	// profiles and session
	api.GET("/profiles", s.handleListProfiles)
	api.POST("/profiles", s.handleCreateProfile)
	api.GET("/profiles/:id", s.handleGetProfile)
	api.PATCH("/profiles/:id", s.handleRenameProfile)
	api.DELETE("/profiles/:id", s.handleDeleteProfile)
	api.POST("/profiles/:id/select", s.handleSelectProfile)
	api.POST("/guest", s.handleStartGuest)
	api.GET("/session", s.handleGetSession)
	api.DELETE("/session", s.handleEndSession)
	api.GET("/settings/images", s.handleGetImageSettings)
	api.PUT("/settings/images", s.handlePutImageSettings)

	// goals
	api.GET("/goals", s.handleListGoals)
	api.POST("/goals", s.handleAddGoal)
	api.GET("/goals/:id", s.handleGetGoal)
	api.PATCH("/goals/:id", s.handleUpdateGoal)
	api.DELETE("/goals/:id", s.handleDeleteGoal)
	api.POST("/goals/:id/complete", s.handleCompleteGoal)
	api.POST("/goals/:id/move", s.handleMoveGoal)
	api.POST("/goals/:id/image", s.handleAttachImage)
	api.GET("/goals/:id/card", s.handleCard)
	api.POST("/goals/:id/journey", s.handleLogJourney)
	api.GET("/goals/:id/recurring", s.handleRecurringStatus)
	api.POST("/goals/:id/recurring/complete", s.handleCompleteRecurring)
	api.POST("/goals/:id/recurring/deactivate", s.handleDeactivateRecurring)

	// tasks and milestones
	api.POST("/goals/:id/tasks", s.handleAddTask)
	api.PATCH("/goals/:id/tasks/:taskID", s.handleUpdateTask)
	api.DELETE("/goals/:id/tasks/:taskID", s.handleDeleteTask)
	api.POST("/goals/:id/tasks/:taskID/notes", s.handleAddTaskNote)
	api.GET("/goals/:id/milestones", s.handleListMilestones)
	api.POST("/goals/:id/milestones", s.handleAddMilestone)
	api.DELETE("/goals/:id/milestones/:milestoneID", s.handleDeleteMilestone)

	api.GET("/stats", s.handleStats)
	api.GET("/export", s.handleExport)
	api.GET("/export/document", s.handleExportDocument)
	api.POST("/import", s.handleImport)

	s.echo = e
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	s.log.Info("Server starting", logger.F("addr", addr))
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.monitor != nil {
		s.monitor.Stop()
	}
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	status := map[string]any{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)}
	if s.assets != nil {
		status["offlineCache"] = s.assets.Installed()
	}
	return c.JSON(http.StatusOK, status)
}

// requestValidator plugs the model's validator into echo's c.Validate
type requestValidator struct{}

func (requestValidator) Validate(i any) error {
	return model.ValidateStruct(i)
}
