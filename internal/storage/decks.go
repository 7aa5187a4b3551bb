package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Nati35/NEMO/internal/domain"
)

// CreateDeck inserts a new deck owned by userID.
func (s *Store) CreateDeck(ctx context.Context, userID, name string) (domain.Deck, error) {
	d := domain.Deck{
		ID:        newID(),
		UserID:    userID,
		Name:      name,
		CreatedAt: dbTime(s.now()),
	}
	_, err := s.exec(ctx, `
		INSERT INTO decks (id, user_id, name, created_at)
		VALUES (?, ?, ?, ?)
	`, d.ID, d.UserID, d.Name, d.CreatedAt)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("failed to insert deck %s: %w", name, err)
	}
	return d, nil
}

// FindDeck retrieves a deck by id.
func (s *Store) FindDeck(ctx context.Context, id string) (*domain.Deck, error) {
	var d domain.Deck
	err := s.get(ctx, &d, `SELECT id, user_id, name, created_at FROM decks WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDeckNotFound, id)
		}
		return nil, fmt.Errorf("failed to find deck %s: %w", id, err)
	}
	d.CreatedAt = d.CreatedAt.UTC()
	return &d, nil
}

// ListDecks returns the decks owned by userID.
func (s *Store) ListDecks(ctx context.Context, userID string) ([]domain.Deck, error) {
	var decks []domain.Deck
	err := s.selectAll(ctx, &decks, `
		SELECT id, user_id, name, created_at FROM decks
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks for user %s: %w", userID, err)
	}
	for i := range decks {
		decks[i].CreatedAt = decks[i].CreatedAt.UTC()
	}
	return decks, nil
}

// UpdateDeck renames a deck.
func (s *Store) UpdateDeck(ctx context.Context, id, name string) (domain.Deck, error) {
	var d *domain.Deck
	err := s.inTx(ctx, func(tx *Store) error {
		res, err := tx.exec(ctx, `UPDATE decks SET name = ? WHERE id = ?`, name, id)
		if err != nil {
			return fmt.Errorf("failed to rename deck %s: %w", id, err)
		}
		if err := requireRow(res, domain.ErrDeckNotFound, id); err != nil {
			return err
		}
		d, err = tx.FindDeck(ctx, id)
		return err
	})
	if err != nil {
		return domain.Deck{}, err
	}
	return *d, nil
}

// DeleteDeck removes a deck with its cards, their review logs and any
// source bound to it.
func (s *Store) DeleteDeck(ctx context.Context, id string) error {
	res, err := s.exec(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deck %s: %w", id, err)
	}
	return requireRow(res, domain.ErrDeckNotFound, id)
}
