// Package progress folds review events into per-user points and streaks.
package progress

import (
	"time"

	"github.com/Nati35/NEMO/internal/domain"
)

// DefaultPointsPerReview is awarded for every reviewed card.
const DefaultPointsPerReview = 10

// Event is one completed rating of a card by a user.
type Event struct {
	UserID string
	CardID string
	Rating int
	// ScheduledDate is when the card was due before this review.
	ScheduledDate time.Time
	ReviewedAt    time.Time
}

// Aggregator computes updated user progress for review events.
type Aggregator struct {
	PointsPerReview int
	// AwardOnForgot grants points for rating 1 as well.
	AwardOnForgot bool
	// Location decides where calendar days begin for streaks.
	Location *time.Location
}

// NewAggregator returns an aggregator with the default point award that
// counts calendar days in loc. A nil loc means time.Local.
func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{
		PointsPerReview: DefaultPointsPerReview,
		AwardOnForgot:   true,
		Location:        loc,
	}
}

// Apply returns the progress after ev and the log entry recording it.
// The input progress is not modified.
func (a *Aggregator) Apply(p domain.UserProgress, ev Event) (domain.UserProgress, domain.ReviewLog, int) {
	next := p
	next.UserID = ev.UserID

	gained := a.PointsPerReview
	if ev.Rating == 1 && !a.AwardOnForgot {
		gained = 0
	}
	next.Points += gained

	if p.LastStudyDate == nil {
		next.StreakDays = 1
	} else {
		switch days := DaysBetween(*p.LastStudyDate, ev.ReviewedAt, a.location()); {
		case days == 0:
		case days == 1:
			next.StreakDays++
		default:
			next.StreakDays = 1
		}
	}

	reviewed := ev.ReviewedAt
	next.LastStudyDate = &reviewed

	entry := domain.ReviewLog{
		CardID:        ev.CardID,
		UserID:        ev.UserID,
		Rating:        ev.Rating,
		ScheduledDate: ev.ScheduledDate,
		ReviewedAt:    ev.ReviewedAt,
	}
	return next, entry, gained
}

func (a *Aggregator) location() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

// DaysBetween counts calendar days from a to b in loc, ignoring the time of
// day. The result is absolute so clock skew never produces a negative count.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	a, b = a.In(loc), b.In(loc)
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(db.Sub(da).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}
