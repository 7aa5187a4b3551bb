package web

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Nati35/NEMO/internal/domain"
	"github.com/Nati35/NEMO/internal/sm2"
	"github.com/Nati35/NEMO/internal/study"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var errSessionNotFound = errors.New("session not found")

// sessionEntry serializes access to one session; study.Session is not
// safe for concurrent use.
type sessionEntry struct {
	mu       sync.Mutex
	session  *study.Session
	lastUsed atomic.Int64 // unix nanoseconds
}

// sessionRegistry keeps live sessions in memory. Sessions stay until they
// are abandoned or sit idle long enough to be evicted, so a finished
// session's summary remains readable for a while.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	now      func() time.Time
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]*sessionEntry),
		now:      time.Now,
	}
}

func (r *sessionRegistry) add(s *study.Session) {
	e := &sessionEntry{session: s}
	e.lastUsed.Store(r.now().UnixNano())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = e
}

func (r *sessionRegistry) get(id string) (*sessionEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errSessionNotFound, id)
	}
	e.lastUsed.Store(r.now().UnixNano())
	return e, nil
}

func (r *sessionRegistry) remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", errSessionNotFound, id)
	}
	delete(r.sessions, id)
	return nil
}

// evictIdle drops sessions not used for longer than maxIdle and returns
// how many were dropped.
func (r *sessionRegistry) evictIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.sessions {
		if e.lastUsed.Load() < cutoff {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

func (r *sessionRegistry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictIdleSessions forgets sessions nobody touched within maxIdle.
// Committed reviews are unaffected.
func (s *Server) EvictIdleSessions(maxIdle time.Duration) int {
	n := s.sessions.evictIdle(maxIdle)
	if n > 0 {
		s.logger.Info("evicted idle sessions",
			zap.Int("evicted", n),
			zap.Int("remaining", s.sessions.count()))
	}
	return n
}

// withSession runs fn holding the session's lock.
func (s *Server) withSession(c echo.Context, fn func(*study.Session) error) error {
	e, err := s.sessions.get(c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

type sessionView struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	DeckID    string       `json:"deck_id"`
	Status    study.Status `json:"status"`
	Current   *domain.Card `json:"current,omitempty"`
	Position  int          `json:"position"`
	Total     int          `json:"total"`
	Remaining int          `json:"remaining"`
}

func viewOf(s *study.Session) sessionView {
	v := sessionView{
		ID:     s.ID,
		UserID: s.UserID,
		DeckID: s.DeckID,
		Status: s.Status(),
	}
	if card, ok := s.Current(); ok {
		v.Current = &card
	}
	v.Position, v.Total = s.Position()
	v.Remaining = s.Remaining()
	return v
}

type startSessionRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

func (s *Server) handleStartSession() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req startSessionRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		ctx := c.Request().Context()

		deck, err := s.store.FindDeck(ctx, c.Param("deckID"))
		if err != nil {
			return s.fail(c, err)
		}
		if deck.UserID != req.UserID {
			return s.fail(c, fmt.Errorf("%w: %s", domain.ErrDeckNotFound, deck.ID))
		}

		session, err := s.engine.Start(ctx, req.UserID, deck.ID)
		if err != nil {
			return s.fail(c, err)
		}
		s.sessions.add(session)
		return c.JSON(http.StatusCreated, viewOf(session))
	}
}

func (s *Server) handleGetSession() echo.HandlerFunc {
	return func(c echo.Context) error {
		return s.withSession(c, func(session *study.Session) error {
			return c.JSON(http.StatusOK, viewOf(session))
		})
	}
}

// handleAbandonSession forgets a session. Ratings already committed stay.
func (s *Server) handleAbandonSession() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.sessions.remove(c.Param("id")); err != nil {
			return s.fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

type rateRequest struct {
	CardID string `json:"card_id" validate:"required"`
	Rating int    `json:"rating"`
}

type rateResponse struct {
	Outcome *study.Outcome `json:"outcome"`
	Session sessionView    `json:"session"`
}

func (s *Server) handleRate() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req rateRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		return s.withSession(c, func(session *study.Session) error {
			out, err := s.engine.Rate(c.Request().Context(), session, req.CardID, sm2.Rating(req.Rating))
			if err != nil {
				return s.fail(c, err)
			}
			return c.JSON(http.StatusOK, rateResponse{Outcome: out, Session: viewOf(session)})
		})
	}
}

// handleSkip moves past the current card, typically one that was deleted
// while the session was running.
func (s *Server) handleSkip() echo.HandlerFunc {
	return func(c echo.Context) error {
		return s.withSession(c, func(session *study.Session) error {
			if err := session.Skip(); err != nil {
				return s.fail(c, err)
			}
			return c.JSON(http.StatusOK, viewOf(session))
		})
	}
}

func (s *Server) handleSummary() echo.HandlerFunc {
	return func(c echo.Context) error {
		return s.withSession(c, func(session *study.Session) error {
			return c.JSON(http.StatusOK, session.Summary())
		})
	}
}

func (s *Server) handlePreview() echo.HandlerFunc {
	return func(c echo.Context) error {
		return s.withSession(c, func(session *study.Session) error {
			labels, err := s.engine.Preview(session)
			if err != nil {
				return s.fail(c, err)
			}
			return c.JSON(http.StatusOK, labels)
		})
	}
}
