package sm2

import (
	"errors"
	"fmt"
)

// ErrInvalidRating is returned for ratings outside 1..4.
var ErrInvalidRating = errors.New("sm2: invalid rating")

// Rating is the user's 4-point answer to a card review.
type Rating int

const (
	Forgot Rating = iota + 1 // Could not recall.
	Hard                     // Recalled with significant difficulty.
	Good                     // Recalled with some effort.
	Easy                     // Recalled effortlessly.
)

// Ratings lists every valid rating in ascending order.
var Ratings = [...]Rating{Forgot, Hard, Good, Easy}

var ratingNames = [...]string{Forgot: "Forgot", Hard: "Hard", Good: "Good", Easy: "Easy"}

// IsValid reports whether r is one of Forgot, Hard, Good or Easy.
func (r Rating) IsValid() bool {
	return r >= Forgot && r <= Easy
}

// String returns the rating name, or "Rating(n)" for invalid values.
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// Quality is the 0-5 recall score the scheduler works with.
type Quality int

const (
	QualityForgot Quality = 0
	QualityHard   Quality = 3
	QualityGood   Quality = 4
	QualityEasy   Quality = 5
)

// Quality maps a rating onto the scheduler's quality scale.
func (r Rating) Quality() (Quality, error) {
	switch r {
	case Forgot:
		return QualityForgot, nil
	case Hard:
		return QualityHard, nil
	case Good:
		return QualityGood, nil
	case Easy:
		return QualityEasy, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
}
