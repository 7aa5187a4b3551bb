package domain

import (
	"context"
	"time"
)

// Repository is the narrow persistence contract the review core consumes.
type Repository interface {
	// LoadCard returns ErrCardNotFound if the card does not exist.
	LoadCard(ctx context.Context, id string) (*Card, error)

	// LoadDueCards returns unsuspended cards of the deck that are due at now
	// or still learning, ordered by next review ascending, at most limit.
	LoadDueCards(ctx context.Context, deckID string, now time.Time, limit int) ([]Card, error)

	// LoadDeckCards returns up to limit unsuspended cards of the deck in
	// storage order, regardless of schedule.
	LoadDeckCards(ctx context.Context, deckID string, limit int) ([]Card, error)

	// LoadUserProgress returns a zero progress for users that never studied.
	LoadUserProgress(ctx context.Context, userID string) (UserProgress, error)

	SaveCardSchedule(ctx context.Context, cardID string, s Schedule) error
	AppendReviewLog(ctx context.Context, entry ReviewLog) error
	SaveUserProgress(ctx context.Context, p UserProgress) error
}

// UnitOfWork runs fn against a Repository bound to a single transaction.
// If fn returns an error nothing it wrote is kept.
type UnitOfWork interface {
	Repository
	InTx(ctx context.Context, fn func(Repository) error) error
}
