package sync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Nati35/NEMO/internal/domain"
	"github.com/Nati35/NEMO/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	reports []Report
}

func (r *recorder) SourceSynced(_ domain.SourceKind, rep Report) { r.reports = append(r.reports, rep) }

func newStore(t *testing.T) (*storage.Store, domain.Deck) {
	t.Helper()
	s, err := storage.Open(storage.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	d, err := s.CreateDeck(context.Background(), "u1", "spanish")
	require.NoError(t, err)
	return s, d
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, axis, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	store, deck := newStore(t)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "animals.md"), "Q: el perro\nA: the dog\n---\nQ: el gato\nA: the cat\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "Q: ignored\nA: not a card file")
	writeFile(t, filepath.Join(dir, ".git", "HEAD.md"), "Q: inside git dir\nA: skipped")
	writeWorkbook(t, filepath.Join(dir, "nested", "food.xlsx"), [][]any{
		{"Front", "Back"},
		{"el pan", "the bread"},
	})

	src, err := store.InsertSource(ctx, dir, domain.SourceLocal, deck.ID)
	require.NoError(t, err)

	rec := &recorder{}
	s := New(store, t.TempDir(), WithObserver(rec))

	r, err := s.SyncSource(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Parsed)
	assert.Equal(t, 3, r.Inserted)
	assert.Empty(t, r.Errors)
	require.Len(t, rec.reports, 1)

	cards, err := store.ListCards(ctx, deck.ID)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	for _, c := range cards {
		assert.NotEmpty(t, c.ContentHash)
		assert.Equal(t, 0, c.Interval)
	}

	t.Run("unchanged files keep cards", func(t *testing.T) {
		r, err := s.SyncSource(ctx, src)
		require.NoError(t, err)
		assert.Equal(t, 0, r.Inserted)
		assert.Equal(t, 0, r.Deleted)
	})

	t.Run("removed content is deleted", func(t *testing.T) {
		writeFile(t, filepath.Join(dir, "animals.md"), "Q: el perro\nA: the dog\n---\nQ: el pájaro\nA: the bird\n")

		r, err := s.SyncSource(ctx, src)
		require.NoError(t, err)
		assert.Equal(t, 1, r.Inserted)
		assert.Equal(t, 1, r.Deleted)

		cards, err := store.ListCards(ctx, deck.ID)
		require.NoError(t, err)
		var fronts []string
		for _, c := range cards {
			fronts = append(fronts, c.Front)
		}
		assert.ElementsMatch(t, []string{"el perro", "el pan", "el pájaro"}, fronts)
	})

	t.Run("parse errors keep existing cards", func(t *testing.T) {
		writeFile(t, filepath.Join(dir, "nested", "food.xlsx"), "not a workbook")

		r, err := s.SyncSource(ctx, src)
		require.NoError(t, err)
		assert.Len(t, r.Errors, 1)
		assert.Equal(t, 0, r.Deleted)

		cards, err := store.ListCards(ctx, deck.ID)
		require.NoError(t, err)
		assert.Len(t, cards, 3)
	})

	found, err := store.FindSourceByPath(ctx, dir)
	require.NoError(t, err)
	assert.NotNil(t, found.LastScanned)
}

func TestRunAllGitSource(t *testing.T) {
	ctx := context.Background()
	store, deck := newStore(t)
	reposDir := t.TempDir()

	url := "https://github.com/nati/decks.git"
	_, err := store.InsertSource(ctx, url, domain.SourceGit, deck.ID)
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	s := New(store, reposDir, WithLogger(zap.New(core)))

	var cloned string
	s.gitSync = func(_ context.Context, _ *zap.Logger, u, localPath string) error {
		assert.Equal(t, url, u)
		cloned = localPath
		writeFile(t, filepath.Join(localPath, "deck.md"), "Q: hola\nA: hello\n")
		return nil
	}

	reports, err := s.RunAll(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].Inserted)
	assert.Equal(t, filepath.Join(reposDir, "github.com", "nati", "decks"), cloned)
	assert.Equal(t, 1, logs.FilterMessage("reconciliation complete").Len())

	t.Run("clone failure is reported", func(t *testing.T) {
		s.gitSync = func(context.Context, *zap.Logger, string, string) error {
			return errors.New("network down")
		}
		reports, err := s.RunAll(ctx)
		assert.Error(t, err)
		assert.Empty(t, reports)

		cards, err := store.ListCards(ctx, deck.ID)
		require.NoError(t, err)
		assert.Len(t, cards, 1)
	})
}

func TestRunAllWithoutSources(t *testing.T) {
	store, _ := newStore(t)
	reports, err := New(store, t.TempDir()).RunAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)
}
