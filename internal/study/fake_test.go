package study

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Nati35/NEMO/internal/domain"
)

// memStore is an in-memory domain.UnitOfWork. InTx snapshots the state and
// restores it when fn fails.
type memStore struct {
	cards    map[string]domain.Card
	order    []string
	progress map[string]domain.UserProgress
	logs     []domain.ReviewLog

	failProgress error
}

func newMemStore(cards ...domain.Card) *memStore {
	m := &memStore{
		cards:    map[string]domain.Card{},
		progress: map[string]domain.UserProgress{},
	}
	for _, c := range cards {
		m.cards[c.ID] = c
		m.order = append(m.order, c.ID)
	}
	return m
}

func (m *memStore) LoadCard(_ context.Context, id string) (*domain.Card, error) {
	c, ok := m.cards[id]
	if !ok {
		return nil, domain.ErrCardNotFound
	}
	return &c, nil
}

func (m *memStore) LoadDueCards(_ context.Context, deckID string, now time.Time, limit int) ([]domain.Card, error) {
	var out []domain.Card
	for _, id := range m.order {
		c, ok := m.cards[id]
		if !ok || c.DeckID != deckID || c.IsSuspended {
			continue
		}
		if c.Interval == 0 || !c.NextReview.After(now) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NextReview.Before(out[j].NextReview) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) LoadDeckCards(_ context.Context, deckID string, limit int) ([]domain.Card, error) {
	var out []domain.Card
	for _, id := range m.order {
		if c, ok := m.cards[id]; ok && c.DeckID == deckID && !c.IsSuspended {
			out = append(out, c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) LoadUserProgress(_ context.Context, userID string) (domain.UserProgress, error) {
	p, ok := m.progress[userID]
	if !ok {
		return domain.UserProgress{UserID: userID}, nil
	}
	return p, nil
}

func (m *memStore) SaveCardSchedule(_ context.Context, cardID string, s domain.Schedule) error {
	c, ok := m.cards[cardID]
	if !ok {
		return domain.ErrCardNotFound
	}
	c.Schedule = s
	m.cards[cardID] = c
	return nil
}

func (m *memStore) AppendReviewLog(_ context.Context, entry domain.ReviewLog) error {
	m.logs = append(m.logs, entry)
	return nil
}

func (m *memStore) SaveUserProgress(_ context.Context, p domain.UserProgress) error {
	if m.failProgress != nil {
		return m.failProgress
	}
	m.progress[p.UserID] = p
	return nil
}

func (m *memStore) InTx(_ context.Context, fn func(domain.Repository) error) error {
	cards := make(map[string]domain.Card, len(m.cards))
	for k, v := range m.cards {
		cards[k] = v
	}
	progress := make(map[string]domain.UserProgress, len(m.progress))
	for k, v := range m.progress {
		progress[k] = v
	}
	logs := len(m.logs)

	if err := fn(m); err != nil {
		m.cards, m.progress, m.logs = cards, progress, m.logs[:logs]
		return err
	}
	return nil
}

var errDiskFull = errors.New("disk full")
