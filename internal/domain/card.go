package domain

import "time"

// DefaultEFactor is the easiness factor every card starts with.
const DefaultEFactor = 2.5

// Schedule is the memory state of a card. Only the scheduler produces new
// values for it; everything else reads or resets it.
type Schedule struct {
	Interval   int       `db:"interval_days" json:"interval"`
	Repetition int       `db:"repetition" json:"repetition"`
	EFactor    float64   `db:"efactor" json:"efactor"`
	NextReview time.Time `db:"next_review" json:"next_review"`
}

// NewSchedule returns the schedule of a freshly created card, due at now.
func NewSchedule(now time.Time) Schedule {
	return Schedule{
		Interval:   0,
		Repetition: 0,
		EFactor:    DefaultEFactor,
		NextReview: now,
	}
}

// Learning reports whether the card is still in the sub-day learning phase.
func (s Schedule) Learning() bool {
	return s.Interval < 1
}

// Card represents a single two-sided fact inside a deck.
type Card struct {
	ID          string    `db:"id" json:"id"`
	DeckID      string    `db:"deck_id" json:"deck_id"`
	Front       string    `db:"front" json:"front"`
	Back        string    `db:"back" json:"back"`
	ImageRefs   []string  `db:"-" json:"image_refs,omitempty"`
	AudioRef    string    `db:"audio_ref" json:"audio_ref,omitempty"`
	ContentHash string    `db:"content_hash" json:"-"`
	IsSuspended bool      `db:"is_suspended" json:"is_suspended"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	Schedule
}

// Deck groups cards owned by one user.
type Deck struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ReviewLog records a single review event for a card. Entries are never
// updated; they only disappear with their card or a full progress reset.
// Rating is the user-facing grade:
// 1: Forgot
// 2: Hard
// 3: Good
// 4: Easy
type ReviewLog struct {
	ID            string    `db:"id" json:"id"`
	CardID        string    `db:"card_id" json:"card_id"`
	UserID        string    `db:"user_id" json:"user_id"`
	Rating        int       `db:"rating" json:"rating"`
	ScheduledDate time.Time `db:"scheduled_date" json:"scheduled_date"`
	ReviewedAt    time.Time `db:"reviewed_at" json:"reviewed_at"`
}

// UserProgress is the per-user aggregate folded from review events.
type UserProgress struct {
	UserID        string     `db:"id" json:"user_id"`
	Points        int        `db:"points" json:"points"`
	StreakDays    int        `db:"streak_days" json:"streak_days"`
	LastStudyDate *time.Time `db:"last_study_date" json:"last_study_date,omitempty"`
}
