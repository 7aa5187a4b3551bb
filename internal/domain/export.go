package domain

import "time"

// UserExport is a complete backup of one user's study data.
type UserExport struct {
	ExportedAt time.Time    `json:"exported_at"`
	UserID     string       `json:"user_id"`
	Progress   UserProgress `json:"progress"`
	Decks      []DeckExport `json:"decks"`
	History    []ReviewLog  `json:"history"`
}

// DeckExport is a deck together with every card in it.
type DeckExport struct {
	Deck
	Cards []Card `json:"cards"`
}
