package domain

import (
	"strings"
	"time"
)

// SourceKind tells the sync process how to obtain a source's files.
type SourceKind string

const (
	SourceLocal SourceKind = "local"
	SourceGit   SourceKind = "git"
)

// Source is a local directory or git repository whose card files feed one deck.
type Source struct {
	ID          string     `db:"id" json:"id"`
	Path        string     `db:"path" json:"path"`
	Kind        SourceKind `db:"kind" json:"kind"`
	DeckID      string     `db:"deck_id" json:"deck_id"`
	LastScanned *time.Time `db:"last_scanned" json:"last_scanned,omitempty"`
}

// KindOf guesses the kind of a source from its path.
func KindOf(path string) SourceKind {
	if strings.HasSuffix(path, ".git") || strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		return SourceGit
	}
	return SourceLocal
}
