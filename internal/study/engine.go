package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nati35/NEMO/internal/domain"
	"github.com/Nati35/NEMO/internal/progress"
	"github.com/Nati35/NEMO/internal/sm2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Observer is notified about session events. Metrics implement it.
type Observer interface {
	SessionStarted(status Status)
	CardRated(rating sm2.Rating)
	CommitFailed()
	SessionFinished()
}

// Outcome is what a single committed rating changed.
type Outcome struct {
	Result   Result              `json:"result"`
	Schedule domain.Schedule     `json:"schedule"`
	Progress domain.UserProgress `json:"progress"`
	Gained   int                 `json:"points_gained"`
	Status   Status              `json:"status"`
}

// Engine starts sessions and commits ratings through a unit of work.
type Engine struct {
	store      domain.UnitOfWork
	selector   *Selector
	aggregator *progress.Aggregator
	logger     *zap.Logger
	observer   Observer
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver registers an observer for session events.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// NewEngine wires an engine over store.
func NewEngine(store domain.UnitOfWork, selector *Selector, aggregator *progress.Aggregator, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		selector:   selector,
		aggregator: aggregator,
		logger:     zap.NewNop(),
		observer:   nopObserver{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start selects the cards for userID's session on deckID. A deck with
// nothing to offer yields a session in the NothingToStudy state.
func (e *Engine) Start(ctx context.Context, userID, deckID string) (*Session, error) {
	cards, err := e.selector.Select(ctx, deckID, e.now())
	if err != nil {
		return nil, err
	}

	s := newSession(uuid.NewString(), userID, deckID, cards)
	e.observer.SessionStarted(s.status)
	e.logger.Info("session started",
		zap.String("session_id", s.ID),
		zap.String("user_id", userID),
		zap.String("deck_id", deckID),
		zap.Int("cards", len(cards)),
		zap.Stringer("status", s.status),
	)
	return s, nil
}

// Rate commits rating for the current card of s. The card schedule, the
// review log entry and the user's progress are written in one transaction;
// if it fails the session is left untouched and the call may be retried.
// A card deleted since the session started is the exception: the call
// fails with ErrCardNotFound and the session moves past it.
func (e *Engine) Rate(ctx context.Context, s *Session, cardID string, rating sm2.Rating) (*Outcome, error) {
	quality, err := rating.Quality()
	if err != nil {
		return nil, err
	}
	current, ok := s.Current()
	if !ok {
		return nil, ErrSessionFinished
	}
	if current.ID != cardID {
		return nil, fmt.Errorf("%w: got %s, presenting %s", ErrCardMismatch, cardID, current.ID)
	}

	now := e.now()
	var (
		card   *domain.Card
		result sm2.Result
		next   domain.UserProgress
		gained int
	)
	err = e.store.InTx(ctx, func(tx domain.Repository) error {
		var err error
		card, err = tx.LoadCard(ctx, cardID)
		if err != nil {
			return err
		}

		result = sm2.Next(sm2.State{
			Interval:   card.Interval,
			Repetition: card.Repetition,
			EFactor:    card.EFactor,
		}, quality, now)

		prev, err := tx.LoadUserProgress(ctx, s.UserID)
		if err != nil {
			return err
		}
		var entry domain.ReviewLog
		next, entry, gained = e.aggregator.Apply(prev, progress.Event{
			UserID:        s.UserID,
			CardID:        cardID,
			Rating:        int(rating),
			ScheduledDate: card.NextReview,
			ReviewedAt:    now,
		})

		card.Schedule = domain.Schedule{
			Interval:   result.Interval,
			Repetition: result.Repetition,
			EFactor:    result.EFactor,
			NextReview: result.Due,
		}
		if err := tx.SaveCardSchedule(ctx, cardID, card.Schedule); err != nil {
			return err
		}
		if err := tx.AppendReviewLog(ctx, entry); err != nil {
			return err
		}
		return tx.SaveUserProgress(ctx, next)
	})
	if err != nil {
		e.observer.CommitFailed()
		level := zap.ErrorLevel
		if errors.Is(err, domain.ErrCardNotFound) {
			level = zap.WarnLevel
		}
		e.logger.Log(level, "failed to commit review",
			zap.String("session_id", s.ID),
			zap.String("card_id", cardID),
			zap.Stringer("rating", rating),
			zap.Error(err),
		)
		if errors.Is(err, domain.ErrCardNotFound) {
			// The card is gone for good; retrying cannot succeed.
			s.advance()
			e.finished(s)
		}
		return nil, fmt.Errorf("failed to commit review of card %s: %w", cardID, err)
	}

	res := Result{
		CardID: cardID,
		Rating: rating,
		Label:  sm2.Label(now, result),
		Due:    result.Due,
	}
	s.record(*card, res, gained)
	e.observer.CardRated(rating)
	e.finished(s)

	return &Outcome{
		Result:   res,
		Schedule: card.Schedule,
		Progress: next,
		Gained:   gained,
		Status:   s.status,
	}, nil
}

func (e *Engine) finished(s *Session) {
	if s.status != Finished {
		return
	}
	e.observer.SessionFinished()
	e.logger.Info("session finished",
		zap.String("session_id", s.ID),
		zap.Int("reviewed", len(s.results)),
		zap.Int("points_gained", s.points),
	)
}

// Preview returns the label each rating would give the current card.
func (e *Engine) Preview(s *Session) (map[sm2.Rating]string, error) {
	card, ok := s.Current()
	if !ok {
		return nil, ErrSessionFinished
	}
	return sm2.Preview(sm2.State{
		Interval:   card.Interval,
		Repetition: card.Repetition,
		EFactor:    card.EFactor,
	}, e.now()), nil
}

type nopObserver struct{}

func (nopObserver) SessionStarted(Status) {}
func (nopObserver) CardRated(sm2.Rating) {}
func (nopObserver) CommitFailed() {}
func (nopObserver) SessionFinished() {}
