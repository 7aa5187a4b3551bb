package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Nati35/NEMO/internal/domain"
	"github.com/Nati35/NEMO/internal/knol"
	"github.com/jmoiron/sqlx"
)

const cardColumns = `id, deck_id, front, back, audio_ref, content_hash, is_suspended,
	interval_days, repetition, efactor, next_review, created_at`

// CreateCard inserts a card with its images. Empty ids are generated and a
// zero schedule is replaced by a fresh one due now.
func (s *Store) CreateCard(ctx context.Context, card domain.Card) (domain.Card, error) {
	err := s.inTx(ctx, func(tx *Store) error {
		now := tx.now()
		if card.ID == "" {
			card.ID = newID()
		}
		if card.NextReview.IsZero() {
			card.Schedule = domain.NewSchedule(now)
		}
		if card.CreatedAt.IsZero() {
			card.CreatedAt = now
		}
		card.NextReview = dbTime(card.NextReview)
		card.CreatedAt = dbTime(card.CreatedAt)

		_, err := tx.exec(ctx, `
			INSERT INTO cards (`+cardColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			card.ID, card.DeckID, card.Front, card.Back, card.AudioRef, card.ContentHash, card.IsSuspended,
			card.Interval, card.Repetition, card.EFactor, card.NextReview, card.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert card %s: %w", card.ID, err)
		}
		return tx.insertImages(ctx, card.ID, card.ImageRefs)
	})
	if err != nil {
		return domain.Card{}, err
	}
	return card, nil
}

func (s *Store) insertImages(ctx context.Context, cardID string, refs []string) error {
	for i, ref := range refs {
		if _, err := s.exec(ctx, `
			INSERT INTO card_images (card_id, position, ref) VALUES (?, ?, ?)
		`, cardID, i, ref); err != nil {
			return fmt.Errorf("failed to insert image %d of card %s: %w", i, cardID, err)
		}
	}
	return nil
}

// UpdateCard replaces the content of a card and recomputes its content
// hash. The image list is rewritten as given; the schedule is untouched.
func (s *Store) UpdateCard(ctx context.Context, id, front, back string, imageRefs []string, audioRef string) (domain.Card, error) {
	var card *domain.Card
	err := s.inTx(ctx, func(tx *Store) error {
		var err error
		if card, err = tx.LoadCard(ctx, id); err != nil {
			return err
		}
		card.Front, card.Back = front, back
		card.ImageRefs = imageRefs
		card.AudioRef = audioRef
		card.ContentHash = knol.Hash(*card)

		if _, err := tx.exec(ctx, `
			UPDATE cards SET front = ?, back = ?, audio_ref = ?, content_hash = ?
			WHERE id = ?
		`, card.Front, card.Back, card.AudioRef, card.ContentHash, id); err != nil {
			return fmt.Errorf("failed to update card %s: %w", id, err)
		}
		if _, err := tx.exec(ctx, `DELETE FROM card_images WHERE card_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear images of card %s: %w", id, err)
		}
		return tx.insertImages(ctx, id, imageRefs)
	})
	if err != nil {
		return domain.Card{}, err
	}
	return *card, nil
}

// LoadCard retrieves a card by id.
func (s *Store) LoadCard(ctx context.Context, id string) (*domain.Card, error) {
	var c domain.Card
	err := s.get(ctx, &c, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCardNotFound, id)
		}
		return nil, fmt.Errorf("failed to load card %s: %w", id, err)
	}

	cards := []domain.Card{c}
	if err := s.attachImages(ctx, cards); err != nil {
		return nil, err
	}
	return &cards[0], nil
}

// LoadDueCards returns the unsuspended cards of a deck that are due at now
// or still learning, most overdue first.
func (s *Store) LoadDueCards(ctx context.Context, deckID string, now time.Time, limit int) ([]domain.Card, error) {
	return s.loadCards(ctx, `
		SELECT `+cardColumns+` FROM cards
		WHERE deck_id = ? AND is_suspended = ? AND (next_review <= ? OR interval_days = 0)
		ORDER BY next_review ASC, id ASC
		LIMIT ?
	`, deckID, false, dbTime(now), limit)
}

// CountDueCards counts the cards across all of a user's decks that
// LoadDueCards would consider due at now.
func (s *Store) CountDueCards(ctx context.Context, userID string, now time.Time) (int, error) {
	var n int
	err := s.get(ctx, &n, `
		SELECT COUNT(*) FROM cards c
		JOIN decks d ON d.id = c.deck_id
		WHERE d.user_id = ? AND c.is_suspended = ? AND (c.next_review <= ? OR c.interval_days = 0)
	`, userID, false, dbTime(now))
	if err != nil {
		return 0, fmt.Errorf("failed to count due cards for user %s: %w", userID, err)
	}
	return n, nil
}

// LoadDeckCards returns up to limit unsuspended cards of a deck in creation order.
func (s *Store) LoadDeckCards(ctx context.Context, deckID string, limit int) ([]domain.Card, error) {
	return s.loadCards(ctx, `
		SELECT `+cardColumns+` FROM cards
		WHERE deck_id = ? AND is_suspended = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ?
	`, deckID, false, limit)
}

// ListCards returns every card of a deck, suspended ones included.
func (s *Store) ListCards(ctx context.Context, deckID string) ([]domain.Card, error) {
	return s.loadCards(ctx, `
		SELECT `+cardColumns+` FROM cards
		WHERE deck_id = ?
		ORDER BY created_at ASC, id ASC
	`, deckID)
}

func (s *Store) loadCards(ctx context.Context, query string, args ...any) ([]domain.Card, error) {
	var cards []domain.Card
	if err := s.selectAll(ctx, &cards, query, args...); err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	if err := s.attachImages(ctx, cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// attachImages fills ImageRefs and normalizes timestamps in place.
func (s *Store) attachImages(ctx context.Context, cards []domain.Card) error {
	if len(cards) == 0 {
		return nil
	}

	ids := make([]string, len(cards))
	byID := make(map[string]int, len(cards))
	for i := range cards {
		cards[i].NextReview = cards[i].NextReview.UTC()
		cards[i].CreatedAt = cards[i].CreatedAt.UTC()
		ids[i] = cards[i].ID
		byID[cards[i].ID] = i
	}

	query, args, err := sqlx.In(`
		SELECT card_id, ref FROM card_images
		WHERE card_id IN (?)
		ORDER BY card_id, position
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to build image query: %w", err)
	}

	var rows []struct {
		CardID string `db:"card_id"`
		Ref    string `db:"ref"`
	}
	if err := s.selectAll(ctx, &rows, query, args...); err != nil {
		return fmt.Errorf("failed to load card images: %w", err)
	}
	for _, r := range rows {
		i := byID[r.CardID]
		cards[i].ImageRefs = append(cards[i].ImageRefs, r.Ref)
	}
	return nil
}

// SaveCardSchedule overwrites the memory state of a card.
func (s *Store) SaveCardSchedule(ctx context.Context, cardID string, sched domain.Schedule) error {
	res, err := s.exec(ctx, `
		UPDATE cards
		SET interval_days = ?, repetition = ?, efactor = ?, next_review = ?
		WHERE id = ?
	`, sched.Interval, sched.Repetition, sched.EFactor, dbTime(sched.NextReview), cardID)
	if err != nil {
		return fmt.Errorf("failed to update schedule for card %s: %w", cardID, err)
	}
	return requireRow(res, domain.ErrCardNotFound, cardID)
}

// SetSuspended excludes or re-admits a card to due-set selection.
func (s *Store) SetSuspended(ctx context.Context, cardID string, suspended bool) error {
	res, err := s.exec(ctx, `UPDATE cards SET is_suspended = ? WHERE id = ?`, suspended, cardID)
	if err != nil {
		return fmt.Errorf("failed to update suspension for card %s: %w", cardID, err)
	}
	return requireRow(res, domain.ErrCardNotFound, cardID)
}

// DeleteCard removes a card; its images and review logs go with it.
func (s *Store) DeleteCard(ctx context.Context, cardID string) error {
	res, err := s.exec(ctx, `DELETE FROM cards WHERE id = ?`, cardID)
	if err != nil {
		return fmt.Errorf("failed to delete card %s: %w", cardID, err)
	}
	return requireRow(res, domain.ErrCardNotFound, cardID)
}

func requireRow(res sql.Result, notFound error, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return nil
}

// CardHashes maps content hash to card id for every card of a deck.
func (s *Store) CardHashes(ctx context.Context, deckID string) (map[string]string, error) {
	var rows []struct {
		ID   string `db:"id"`
		Hash string `db:"content_hash"`
	}
	if err := s.selectAll(ctx, &rows, `SELECT id, content_hash FROM cards WHERE deck_id = ?`, deckID); err != nil {
		return nil, fmt.Errorf("failed to load card hashes for deck %s: %w", deckID, err)
	}
	hashes := make(map[string]string, len(rows))
	for _, r := range rows {
		hashes[r.Hash] = r.ID
	}
	return hashes, nil
}
