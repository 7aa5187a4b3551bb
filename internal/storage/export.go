package storage

import (
	"context"
	"fmt"

	"github.com/Nati35/NEMO/internal/domain"
)

// ExportUserData reads a user's decks, cards, progress and review history
// from a single transaction.
func (s *Store) ExportUserData(ctx context.Context, userID string) (domain.UserExport, error) {
	out := domain.UserExport{UserID: userID}
	err := s.inTx(ctx, func(tx *Store) error {
		out.ExportedAt = dbTime(tx.now())

		decks, err := tx.ListDecks(ctx, userID)
		if err != nil {
			return err
		}
		out.Decks = make([]domain.DeckExport, 0, len(decks))
		for _, d := range decks {
			cards, err := tx.ListCards(ctx, d.ID)
			if err != nil {
				return fmt.Errorf("failed to export deck %s: %w", d.ID, err)
			}
			if cards == nil {
				cards = []domain.Card{}
			}
			out.Decks = append(out.Decks, domain.DeckExport{Deck: d, Cards: cards})
		}

		if out.Progress, err = tx.LoadUserProgress(ctx, userID); err != nil {
			return err
		}
		if out.History, err = tx.ReviewLogs(ctx, userID); err != nil {
			return err
		}
		if out.History == nil {
			out.History = []domain.ReviewLog{}
		}
		return nil
	})
	if err != nil {
		return domain.UserExport{}, err
	}
	return out, nil
}
