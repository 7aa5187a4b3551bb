// Package sync reconciles deck sources with the cards stored for them.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nati35/NEMO/internal/domain"
	"github.com/Nati35/NEMO/internal/gitsource"
	"github.com/Nati35/NEMO/internal/knol"
	"github.com/Nati35/NEMO/internal/parser"
	"github.com/Nati35/NEMO/internal/xlsx"
	"go.uber.org/zap"
)

// Store is the persistence the sync process needs.
type Store interface {
	GetAllSources(ctx context.Context) ([]domain.Source, error)
	UpdateSourceLastScanned(ctx context.Context, sourceID string) error
	CardHashes(ctx context.Context, deckID string) (map[string]string, error)
	CreateCard(ctx context.Context, card domain.Card) (domain.Card, error)
	DeleteCard(ctx context.Context, cardID string) error
}

// Observer is notified after each reconciled source.
type Observer interface {
	SourceSynced(kind domain.SourceKind, r Report)
}

// Report summarizes the reconciliation of one source.
type Report struct {
	SourceID string
	Parsed   int
	Inserted int
	Deleted  int
	Errors   []error
}

// Syncer walks sources and brings their decks in line with the files.
type Syncer struct {
	store    Store
	reposDir string
	logger   *zap.Logger
	observer Observer
	gitSync  func(ctx context.Context, logger *zap.Logger, url, localPath string) error
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(s *Syncer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver sets the observer. Nil is ignored.
func WithObserver(o Observer) Option {
	return func(s *Syncer) {
		if o != nil {
			s.observer = o
		}
	}
}

// New returns a Syncer that keeps git clones under reposDir.
func New(store Store, reposDir string, opts ...Option) *Syncer {
	s := &Syncer{
		store:    store,
		reposDir: reposDir,
		logger:   zap.NewNop(),
		observer: nopObserver{},
		gitSync:  gitsource.Sync,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunAll iterates over all sources and reconciles them. A failing source
// does not stop the others; all failures are returned joined.
func (s *Syncer) RunAll(ctx context.Context) ([]Report, error) {
	s.logger.Info("starting sync for all sources")
	sources, err := s.store.GetAllSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sources: %w", err)
	}

	if len(sources) == 0 {
		s.logger.Info("no sources configured")
		return nil, nil
	}

	var reports []Report
	var errs []error
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		r, err := s.SyncSource(ctx, src)
		if err != nil {
			s.logger.Error("failed to sync source",
				zap.String("source_id", src.ID), zap.String("path", src.Path), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		reports = append(reports, r)
	}
	s.logger.Info("sync complete", zap.Int("sources", len(sources)), zap.Int("failed", len(errs)))
	return reports, errors.Join(errs...)
}

// SyncSource fetches a git source if needed and reconciles its files.
func (s *Syncer) SyncSource(ctx context.Context, src domain.Source) (Report, error) {
	dir := src.Path
	if src.Kind == domain.SourceGit {
		if err := os.MkdirAll(s.reposDir, 0o755); err != nil {
			return Report{}, fmt.Errorf("failed to create repos directory: %w", err)
		}
		local, err := gitsource.LocalPath(s.reposDir, src.Path)
		if err != nil {
			return Report{}, err
		}
		if err := s.gitSync(ctx, s.logger, src.Path, local); err != nil {
			return Report{}, err
		}
		dir = local
	}

	r, err := s.Reconcile(ctx, src, dir)
	if err != nil {
		return r, err
	}
	s.observer.SourceSynced(src.Kind, r)
	return r, nil
}

// Reconcile parses every card file under dir into src's deck. Content not
// yet stored is inserted and stored content no longer present is deleted
// together with its review history, unless some file failed to parse.
// Unchanged cards keep their schedule.
func (s *Syncer) Reconcile(ctx context.Context, src domain.Source, dir string) (Report, error) {
	r := Report{SourceID: src.ID}
	log := s.logger.With(zap.String("source_id", src.ID), zap.String("deck_id", src.DeckID))

	existing, err := s.store.CardHashes(ctx, src.DeckID)
	if err != nil {
		return r, err
	}

	found := make(map[string]bool)
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		cards, parseErr := parseCardFile(path)
		if parseErr != nil {
			r.Errors = append(r.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
		}
		for _, card := range cards {
			r.Parsed++
			card.ContentHash = knol.Hash(card)
			if found[card.ContentHash] {
				continue
			}
			found[card.ContentHash] = true
			if _, ok := existing[card.ContentHash]; ok {
				continue
			}

			card.DeckID = src.DeckID
			if _, err := s.store.CreateCard(ctx, card); err != nil {
				r.Errors = append(r.Errors, fmt.Errorf("inserting %s: %w", card.ContentHash, err))
				continue
			}
			log.Debug("new card inserted", zap.String("hash", card.ContentHash))
			r.Inserted++
		}
		return nil
	})
	if walkErr != nil {
		return r, fmt.Errorf("error walking directory %s: %w", dir, walkErr)
	}

	if len(r.Errors) > 0 {
		// A file that failed to parse would look like deleted content.
		log.Warn("skipping orphan removal after parse errors", zap.Int("errors", len(r.Errors)))
		existing = nil
	}
	for hash, id := range existing {
		if found[hash] {
			continue
		}
		if err := s.store.DeleteCard(ctx, id); err != nil {
			log.Warn("failed to delete orphaned card", zap.String("card_id", id), zap.Error(err))
			r.Errors = append(r.Errors, err)
			continue
		}
		r.Deleted++
	}

	if err := s.store.UpdateSourceLastScanned(ctx, src.ID); err != nil {
		log.Warn("failed to update last scanned", zap.Error(err))
	}

	log.Info("reconciliation complete",
		zap.String("path", dir),
		zap.Int("parsed_cards", r.Parsed),
		zap.Int("inserted", r.Inserted),
		zap.Int("orphaned_deleted", r.Deleted),
		zap.Int("errors", len(r.Errors)),
	)
	return r, nil
}

// parseCardFile dispatches on extension; other files yield no cards.
func parseCardFile(path string) ([]domain.Card, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return parser.ParseFile(path)
	case ".xlsx":
		return xlsx.ParseFile(path)
	}
	return nil, nil
}

type nopObserver struct{}

func (nopObserver) SourceSynced(domain.SourceKind, Report) {}
