package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Nati35/NEMO/internal/domain"
)

// InsertSource records a new source feeding deckID and returns it.
func (s *Store) InsertSource(ctx context.Context, path string, kind domain.SourceKind, deckID string) (domain.Source, error) {
	src := domain.Source{ID: newID(), Path: path, Kind: kind, DeckID: deckID}
	_, err := s.exec(ctx, `
		INSERT INTO sources (id, path, kind, deck_id)
		VALUES (?, ?, ?, ?)
	`, src.ID, src.Path, src.Kind, src.DeckID)
	if err != nil {
		return domain.Source{}, fmt.Errorf("failed to insert source %s: %w", path, err)
	}
	return src, nil
}

// FindSourceByPath retrieves a source by its path.
func (s *Store) FindSourceByPath(ctx context.Context, path string) (*domain.Source, error) {
	var src domain.Source
	err := s.get(ctx, &src, `
		SELECT id, path, kind, deck_id, last_scanned
		FROM sources WHERE path = ?
	`, path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to find source by path %s: %w", path, err)
	}
	src.LastScanned = utcPtr(src.LastScanned)
	return &src, nil
}

// GetAllSources retrieves all stored sources.
func (s *Store) GetAllSources(ctx context.Context) ([]domain.Source, error) {
	var sources []domain.Source
	err := s.selectAll(ctx, &sources, `
		SELECT id, path, kind, deck_id, last_scanned
		FROM sources
		ORDER BY path ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sources: %w", err)
	}
	for i := range sources {
		sources[i].LastScanned = utcPtr(sources[i].LastScanned)
	}
	return sources, nil
}

// UpdateSourceLastScanned stamps a source with the current time.
func (s *Store) UpdateSourceLastScanned(ctx context.Context, sourceID string) error {
	res, err := s.exec(ctx, `UPDATE sources SET last_scanned = ? WHERE id = ?`, dbTime(s.now()), sourceID)
	if err != nil {
		return fmt.Errorf("failed to update last scanned for source %s: %w", sourceID, err)
	}
	return requireRow(res, domain.ErrSourceNotFound, sourceID)
}

// DeleteSource removes a source. The deck and its cards are kept.
func (s *Store) DeleteSource(ctx context.Context, sourceID string) error {
	res, err := s.exec(ctx, `DELETE FROM sources WHERE id = ?`, sourceID)
	if err != nil {
		return fmt.Errorf("failed to delete source %s: %w", sourceID, err)
	}
	return requireRow(res, domain.ErrSourceNotFound, sourceID)
}
