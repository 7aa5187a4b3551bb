package study

import (
	"errors"
	"fmt"
	"time"

	"github.com/Nati35/NEMO/internal/domain"
	"github.com/Nati35/NEMO/internal/sm2"
)

var (
	// ErrSessionFinished is returned when rating a session that has no current card.
	ErrSessionFinished = errors.New("session has no card left to rate")
	// ErrCardMismatch is returned when the rated card is not the presented one.
	ErrCardMismatch = errors.New("rated card is not the current card")
)

// Status is the lifecycle stage of a session.
type Status int

const (
	// NothingToStudy is terminal: the selector returned no cards.
	NothingToStudy Status = iota
	Active
	Finished
)

func (s Status) String() string {
	switch s {
	case NothingToStudy:
		return "nothing_to_study"
	case Active:
		return "active"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// MarshalText lets the status appear by name in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name as produced by MarshalText.
func (s *Status) UnmarshalText(b []byte) error {
	for _, v := range []Status{NothingToStudy, Active, Finished} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown session status %q", b)
}

// Result records one committed rating.
type Result struct {
	CardID string     `json:"card_id"`
	Rating sm2.Rating `json:"rating"`
	Label  string     `json:"label"`
	Due    time.Time  `json:"due"`
}

// Session is one user's pass over a deck. It is not safe for concurrent use.
type Session struct {
	ID     string
	UserID string
	DeckID string

	queue   []domain.Card
	index   int
	results []Result
	points  int
	status  Status
}

func newSession(id, userID, deckID string, cards []domain.Card) *Session {
	s := &Session{
		ID:     id,
		UserID: userID,
		DeckID: deckID,
		queue:  append([]domain.Card(nil), cards...),
		status: Active,
	}
	if len(s.queue) == 0 {
		s.status = NothingToStudy
	}
	return s
}

// Status returns the current lifecycle stage.
func (s *Session) Status() Status {
	return s.status
}

// Current returns the card being presented. ok is false outside Active.
func (s *Session) Current() (card domain.Card, ok bool) {
	if s.status != Active {
		return domain.Card{}, false
	}
	return s.queue[s.index], true
}

// Position returns the zero-based index of the current card and the queue length.
func (s *Session) Position() (index, total int) {
	return s.index, len(s.queue)
}

// Remaining is the number of cards still to present, including the current one.
func (s *Session) Remaining() int {
	return len(s.queue) - s.index
}

// Results returns a copy of the ratings committed so far.
func (s *Session) Results() []Result {
	return append([]Result(nil), s.results...)
}

// Skip advances past the current card without recording a result.
func (s *Session) Skip() error {
	if s.status != Active {
		return ErrSessionFinished
	}
	s.advance()
	return nil
}

// record applies a committed rating to the session: it stores the result,
// re-queues forgotten cards at the end with their new schedule and advances.
func (s *Session) record(card domain.Card, r Result, gained int) {
	s.results = append(s.results, r)
	s.points += gained
	s.queue[s.index] = card
	if r.Rating == sm2.Forgot {
		s.queue = append(s.queue, card)
	}
	s.advance()
}

func (s *Session) advance() {
	s.index++
	if s.index >= len(s.queue) {
		s.status = Finished
	}
}
