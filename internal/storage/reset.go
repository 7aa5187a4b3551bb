package storage

import (
	"context"
	"fmt"

	"github.com/Nati35/NEMO/internal/domain"
)

// ResetDeck puts every card of a deck back to a fresh, unsuspended schedule
// due now. It returns the number of cards reset.
func (s *Store) ResetDeck(ctx context.Context, deckID string) (int64, error) {
	if _, err := s.FindDeck(ctx, deckID); err != nil {
		return 0, err
	}
	res, err := s.exec(ctx, `
		UPDATE cards
		SET interval_days = 0, repetition = 0, efactor = ?, next_review = ?, is_suspended = ?
		WHERE deck_id = ?
	`, domain.DefaultEFactor, dbTime(s.now()), false, deckID)
	if err != nil {
		return 0, fmt.Errorf("failed to reset deck %s: %w", deckID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

// ResetUserProgress deletes a user's review history, resets the schedule of
// every card in the user's decks and zeroes points and streak, atomically.
func (s *Store) ResetUserProgress(ctx context.Context, userID string) error {
	return s.inTx(ctx, func(tx *Store) error {
		if _, err := tx.exec(ctx, `DELETE FROM review_logs WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to delete review logs of user %s: %w", userID, err)
		}
		if _, err := tx.exec(ctx, `
			UPDATE cards
			SET interval_days = 0, repetition = 0, efactor = ?, next_review = ?
			WHERE deck_id IN (SELECT id FROM decks WHERE user_id = ?)
		`, domain.DefaultEFactor, dbTime(tx.now()), userID); err != nil {
			return fmt.Errorf("failed to reset cards of user %s: %w", userID, err)
		}
		return tx.SaveUserProgress(ctx, domain.UserProgress{UserID: userID})
	})
}
