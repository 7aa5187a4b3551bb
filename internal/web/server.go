// Package web serves nemo's JSON API.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Nati35/NEMO/internal/domain"
	"github.com/Nati35/NEMO/internal/sm2"
	"github.com/Nati35/NEMO/internal/study"
	nemosync "github.com/Nati35/NEMO/internal/sync"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Store is the persistence the API reads and manages directly. Reviews go
// through the session engine instead.
type Store interface {
	Ping(ctx context.Context) error

	CreateDeck(ctx context.Context, userID, name string) (domain.Deck, error)
	FindDeck(ctx context.Context, id string) (*domain.Deck, error)
	ListDecks(ctx context.Context, userID string) ([]domain.Deck, error)
	UpdateDeck(ctx context.Context, id, name string) (domain.Deck, error)
	DeleteDeck(ctx context.Context, id string) error
	ResetDeck(ctx context.Context, deckID string) (int64, error)

	CreateCard(ctx context.Context, card domain.Card) (domain.Card, error)
	ListCards(ctx context.Context, deckID string) ([]domain.Card, error)
	UpdateCard(ctx context.Context, id, front, back string, imageRefs []string, audioRef string) (domain.Card, error)
	CountDueCards(ctx context.Context, userID string, now time.Time) (int, error)
	SetSuspended(ctx context.Context, cardID string, suspended bool) error
	DeleteCard(ctx context.Context, cardID string) error

	LoadUserProgress(ctx context.Context, userID string) (domain.UserProgress, error)
	ReviewLogs(ctx context.Context, userID string) ([]domain.ReviewLog, error)
	ResetUserProgress(ctx context.Context, userID string) error
	ExportUserData(ctx context.Context, userID string) (domain.UserExport, error)

	InsertSource(ctx context.Context, path string, kind domain.SourceKind, deckID string) (domain.Source, error)
	FindSourceByPath(ctx context.Context, path string) (*domain.Source, error)
	GetAllSources(ctx context.Context) ([]domain.Source, error)
	DeleteSource(ctx context.Context, sourceID string) error
}

// Syncer reconciles all sources on demand.
type Syncer interface {
	RunAll(ctx context.Context) ([]nemosync.Report, error)
}

// Deps are the collaborators of a Server. Metrics and Logger are optional.
type Deps struct {
	Store    Store
	Engine   *study.Engine
	Syncer   Syncer
	Metrics  http.Handler
	Location *time.Location
	Logger   *zap.Logger
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	echo     *echo.Echo
	store    Store
	engine   *study.Engine
	syncer   Syncer
	sessions *sessionRegistry
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewServer creates and configures a new server.
func NewServer(d Deps) *Server {
	s := &Server{
		echo:     echo.New(),
		store:    d.Store,
		engine:   d.Engine,
		syncer:   d.Syncer,
		sessions: newSessionRegistry(),
		location: d.Location,
		logger:   d.Logger,
		now:      time.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.location == nil {
		s.location = time.Local
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Validator = &requestValidator{v: validator.New()}
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(s.requestLogger())

	s.routes(d.Metrics)
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// routes sets up the routing for the server.
func (s *Server) routes(metrics http.Handler) {
	s.echo.GET("/health", s.handleHealth())
	if metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(metrics))
	}

	api := s.echo.Group("/api/v1")

	api.POST("/decks", s.handleCreateDeck())
	api.PUT("/decks/:deckID", s.handleUpdateDeck())
	api.DELETE("/decks/:deckID", s.handleDeleteDeck())
	api.GET("/decks/:deckID/cards", s.handleListCards())
	api.POST("/decks/:deckID/cards", s.handleCreateCard())
	api.POST("/decks/:deckID/reset", s.handleResetDeck())
	api.POST("/decks/:deckID/sessions", s.handleStartSession())

	api.PUT("/cards/:id", s.handleUpdateCard())
	api.PUT("/cards/:id/suspension", s.handleSetSuspended())
	api.DELETE("/cards/:id", s.handleDeleteCard())

	api.GET("/sessions/:id", s.handleGetSession())
	api.DELETE("/sessions/:id", s.handleAbandonSession())
	api.POST("/sessions/:id/ratings", s.handleRate())
	api.POST("/sessions/:id/skip", s.handleSkip())
	api.GET("/sessions/:id/summary", s.handleSummary())
	api.GET("/sessions/:id/preview", s.handlePreview())

	api.GET("/users/:id/decks", s.handleListDecks())
	api.GET("/users/:id/progress", s.handleGetProgress())
	api.GET("/users/:id/stats", s.handleGetStats())
	api.GET("/users/:id/due-count", s.handleDueCount())
	api.GET("/users/:id/export", s.handleExport())
	api.POST("/users/:id/reset", s.handleResetUser())

	api.GET("/sources", s.handleListSources())
	api.POST("/sources", s.handleCreateSource())
	api.DELETE("/sources/:id", s.handleDeleteSource())
	api.POST("/sync", s.handleSync())
}

func (s *Server) handleHealth() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.store.Ping(c.Request().Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			s.logger.Info("request", fields...)
			return nil
		},
	})
}

// bind decodes and validates a request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

type requestValidator struct {
	v *validator.Validate
}

func (rv *requestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

// fail maps domain errors to HTTP errors. Unexpected errors are logged and
// hidden from the client.
func (s *Server) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, sm2.ErrInvalidRating):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, domain.ErrDeckNotFound),
		errors.Is(err, domain.ErrSourceNotFound),
		errors.Is(err, errSessionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, study.ErrSessionFinished),
		errors.Is(err, study.ErrCardMismatch),
		errors.Is(err, errSourceExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	s.logger.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
