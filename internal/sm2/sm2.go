// Package sm2 computes the next review of a card from its memory state and
// a recall quality. Cards live in one of two phases: learning (interval 0,
// minute steps) and review (interval in days, multiplicative growth).
package sm2

import (
	"math"
	"time"
)

const (
	FirstStep          = 1 * time.Minute
	SecondStep         = 10 * time.Minute
	GraduatingInterval = 1 // days
	EasyInterval       = 4 // days

	// MaxInterval caps review intervals at roughly a century.
	MaxInterval = 36500 // days

	hardMultiplier = 1.2
	goodMultiplier = 2.5
	easyMultiplier = 3.5
)

// State holds the memory state of a card.
// EFactor is carried through unchanged; no interval depends on it.
type State struct {
	Interval   int
	Repetition int
	EFactor    float64
}

// Result is the state after a review together with the next due time.
type Result struct {
	State
	Due time.Time
}

// Learning reports whether the state is in the sub-day learning phase.
func (s State) Learning() bool {
	return s.Interval < 1
}

// Next applies one review of quality q at now. Qualities below QualityHard
// count as a lapse and qualities above QualityEasy as easy.
func Next(s State, q Quality, now time.Time) Result {
	if s.Learning() {
		return nextLearning(s, q, now)
	}
	return nextReview(s, q, now)
}

func nextLearning(s State, q Quality, now time.Time) Result {
	switch {
	case q < QualityHard:
		return relearn(s, now)
	case q == QualityHard:
		step := FirstStep
		if s.Repetition > 0 {
			step = SecondStep
		}
		return Result{
			State: State{Interval: 0, Repetition: s.Repetition, EFactor: s.EFactor},
			Due:   now.Add(step),
		}
	case q == QualityGood && s.Repetition == 0:
		return Result{
			State: State{Interval: 0, Repetition: 1, EFactor: s.EFactor},
			Due:   now.Add(SecondStep),
		}
	case q == QualityGood:
		return graduate(s, GraduatingInterval, now)
	default:
		return graduate(s, EasyInterval, now)
	}
}

func nextReview(s State, q Quality, now time.Time) Result {
	if q < QualityHard {
		return relearn(s, now)
	}

	base := min(s.Interval, MaxInterval)
	multiplier, floor := goodMultiplier, base+1
	switch {
	case q == QualityHard:
		// Hard may keep the interval flat but never shrinks it.
		multiplier, floor = hardMultiplier, base
	case q >= QualityEasy:
		multiplier = easyMultiplier
	}

	interval := int(math.Round(float64(base) * multiplier))
	interval = min(max(interval, floor), MaxInterval)

	return Result{
		State: State{Interval: interval, Repetition: s.Repetition + 1, EFactor: s.EFactor},
		Due:   now.AddDate(0, 0, interval),
	}
}

// relearn is the full reset shared by learning failures and lapses.
func relearn(s State, now time.Time) Result {
	return Result{
		State: State{Interval: 0, Repetition: 0, EFactor: s.EFactor},
		Due:   now.Add(FirstStep),
	}
}

func graduate(s State, days int, now time.Time) Result {
	return Result{
		State: State{Interval: days, Repetition: 1, EFactor: s.EFactor},
		Due:   now.AddDate(0, 0, days),
	}
}
