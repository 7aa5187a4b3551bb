// Package study selects the cards for a review session and drives the
// session one rating at a time.
package study

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Nati35/NEMO/internal/domain"
)

// DefaultSessionSize caps the number of cards offered in one session.
const DefaultSessionSize = 20

// CardLoader is the part of the repository the selector reads from.
type CardLoader interface {
	LoadDueCards(ctx context.Context, deckID string, now time.Time, limit int) ([]domain.Card, error)
	LoadDeckCards(ctx context.Context, deckID string, limit int) ([]domain.Card, error)
}

// Selector produces the ordered pool of cards for a session.
type Selector struct {
	cards CardLoader
	limit int
	// fallback serves arbitrary deck cards when nothing is due.
	fallback bool
}

// NewSelector returns a selector capped at limit cards per session.
// With fallback set, a deck with nothing due still yields up to limit cards.
func NewSelector(cards CardLoader, limit int, fallback bool) *Selector {
	if limit < 1 {
		limit = DefaultSessionSize
	}
	return &Selector{cards: cards, limit: limit, fallback: fallback}
}

// Select returns the cards of deckID eligible at now: unsuspended and either
// due or still learning, most overdue first, at most the session size.
func (s *Selector) Select(ctx context.Context, deckID string, now time.Time) ([]domain.Card, error) {
	due, err := s.cards.LoadDueCards(ctx, deckID, now, s.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load due cards for deck %s: %w", deckID, err)
	}

	eligible := due[:0]
	for _, c := range due {
		if !c.IsSuspended && (c.Learning() || !c.NextReview.After(now)) {
			eligible = append(eligible, c)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].NextReview.Before(eligible[j].NextReview)
	})

	if len(eligible) == 0 && s.fallback {
		all, err := s.cards.LoadDeckCards(ctx, deckID, s.limit)
		if err != nil {
			return nil, fmt.Errorf("failed to load fallback cards for deck %s: %w", deckID, err)
		}
		for _, c := range all {
			if !c.IsSuspended {
				eligible = append(eligible, c)
			}
		}
	}

	if len(eligible) > s.limit {
		eligible = eligible[:s.limit]
	}
	return eligible, nil
}
