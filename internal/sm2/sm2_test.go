package sm2

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func fresh() State {
	return State{Interval: 0, Repetition: 0, EFactor: 2.5}
}

func TestLearningPhase(t *testing.T) {
	testCases := []struct {
		name     string
		state    State
		quality  Quality
		expected State
		due      time.Time
	}{
		{
			name:     "forgot resets to first step",
			state:    State{Interval: 0, Repetition: 1, EFactor: 2.5},
			quality:  QualityForgot,
			expected: State{Interval: 0, Repetition: 0, EFactor: 2.5},
			due:      t0.Add(time.Minute),
		},
		{
			name:     "hard on first step repeats one minute",
			state:    fresh(),
			quality:  QualityHard,
			expected: State{Interval: 0, Repetition: 0, EFactor: 2.5},
			due:      t0.Add(time.Minute),
		},
		{
			name:     "hard on second step repeats ten minutes",
			state:    State{Interval: 0, Repetition: 1, EFactor: 2.5},
			quality:  QualityHard,
			expected: State{Interval: 0, Repetition: 1, EFactor: 2.5},
			due:      t0.Add(10 * time.Minute),
		},
		{
			name:     "good on first step moves to second step",
			state:    fresh(),
			quality:  QualityGood,
			expected: State{Interval: 0, Repetition: 1, EFactor: 2.5},
			due:      t0.Add(10 * time.Minute),
		},
		{
			name:     "good on second step graduates",
			state:    State{Interval: 0, Repetition: 1, EFactor: 2.5},
			quality:  QualityGood,
			expected: State{Interval: 1, Repetition: 1, EFactor: 2.5},
			due:      t0.AddDate(0, 0, 1),
		},
		{
			name:     "easy graduates immediately",
			state:    fresh(),
			quality:  QualityEasy,
			expected: State{Interval: 4, Repetition: 1, EFactor: 2.5},
			due:      t0.AddDate(0, 0, 4),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Next(tc.state, tc.quality, t0)
			assert.Equal(t, tc.expected, got.State)
			assert.Equal(t, tc.due, got.Due)
		})
	}
}

func TestReviewPhase(t *testing.T) {
	t.Run("easy on interval 10", func(t *testing.T) {
		got := Next(State{Interval: 10, Repetition: 3, EFactor: 2.5}, QualityEasy, t0)
		assert.Equal(t, 35, got.Interval)
		assert.Equal(t, 4, got.Repetition)
		assert.Equal(t, t0.AddDate(0, 0, 35), got.Due)
	})

	t.Run("forgot lapses back to learning", func(t *testing.T) {
		got := Next(State{Interval: 10, Repetition: 3, EFactor: 2.5}, QualityForgot, t0)
		assert.Equal(t, 0, got.Interval)
		assert.Equal(t, 0, got.Repetition)
		assert.Equal(t, t0.Add(time.Minute), got.Due)
	})

	t.Run("hard on interval 1 stays flat", func(t *testing.T) {
		got := Next(State{Interval: 1, Repetition: 1, EFactor: 2.5}, QualityHard, t0)
		assert.Equal(t, 1, got.Interval)
		assert.Equal(t, 2, got.Repetition)
	})

	t.Run("good on interval 1 grows by the floor", func(t *testing.T) {
		// round(1 * 2.5) = 3 already exceeds the floor of 2
		got := Next(State{Interval: 1, Repetition: 1, EFactor: 2.5}, QualityGood, t0)
		assert.Equal(t, 3, got.Interval)
	})

	t.Run("efactor is carried unchanged", func(t *testing.T) {
		got := Next(State{Interval: 5, Repetition: 2, EFactor: 1.7}, QualityGood, t0)
		assert.Equal(t, 1.7, got.EFactor)
	})
}

func TestLapseAlwaysResets(t *testing.T) {
	for interval := 0; interval <= 400; interval += 7 {
		for rep := 0; rep < 6; rep++ {
			got := Next(State{Interval: interval, Repetition: rep, EFactor: 2.5}, QualityForgot, t0)
			require.Equal(t, 0, got.Interval, "interval=%d rep=%d", interval, rep)
			require.Equal(t, 0, got.Repetition, "interval=%d rep=%d", interval, rep)
		}
	}
}

func TestReviewIntervalsNeverRegress(t *testing.T) {
	for interval := 1; interval <= 500; interval++ {
		s := State{Interval: interval, Repetition: 2, EFactor: 2.5}

		hard := Next(s, QualityHard, t0)
		require.GreaterOrEqual(t, hard.Interval, interval)

		for _, q := range []Quality{QualityGood, QualityEasy} {
			got := Next(s, q, t0)
			require.Greater(t, got.Interval, interval, "quality=%d", q)
		}
	}
}

func TestReviewIntervalIsCapped(t *testing.T) {
	testCases := []struct {
		name     string
		interval int
		quality  Quality
	}{
		{"good near the cap", 20000, QualityGood},
		{"easy near the cap", 15000, QualityEasy},
		{"hard at the cap", MaxInterval, QualityHard},
		{"good at the cap", MaxInterval, QualityGood},
		{"corrupt interval", math.MaxInt, QualityEasy},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Next(State{Interval: tc.interval, Repetition: 5, EFactor: 2.5}, tc.quality, t0)
			assert.Equal(t, MaxInterval, got.Interval)
			assert.Equal(t, 6, got.Repetition)
			assert.Equal(t, t0.AddDate(0, 0, MaxInterval), got.Due)
		})
	}
}

func TestGraduation(t *testing.T) {
	t.Run("two goods from a fresh card", func(t *testing.T) {
		first := Next(fresh(), QualityGood, t0)
		assert.True(t, first.Learning())
		assert.Equal(t, 1, first.Repetition)
		assert.Equal(t, t0.Add(10*time.Minute), first.Due)

		second := Next(first.State, QualityGood, first.Due)
		assert.False(t, second.Learning())
		assert.Equal(t, 1, second.Interval)
		assert.Equal(t, 1, second.Repetition)
		assert.Equal(t, first.Due.AddDate(0, 0, 1), second.Due)
	})

	t.Run("one easy from a fresh card", func(t *testing.T) {
		got := Next(fresh(), QualityEasy, t0)
		assert.False(t, got.Learning())
	})
}

func TestRatingQuality(t *testing.T) {
	expected := map[Rating]Quality{Forgot: 0, Hard: 3, Good: 4, Easy: 5}
	for r, q := range expected {
		got, err := r.Quality()
		require.NoError(t, err)
		assert.Equal(t, q, got, r.String())
	}

	for _, r := range []Rating{0, 5, -1} {
		_, err := r.Quality()
		assert.ErrorIs(t, err, ErrInvalidRating)
		assert.False(t, r.IsValid())
	}
	assert.Equal(t, "Rating(7)", Rating(7).String())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "1 min", Label(t0, Next(fresh(), QualityForgot, t0)))
	assert.Equal(t, "10 min", Label(t0, Next(fresh(), QualityGood, t0)))
	assert.Equal(t, "4 days", Label(t0, Next(fresh(), QualityEasy, t0)))
	assert.Equal(t, "1 day", Label(t0, Next(State{Interval: 0, Repetition: 1}, QualityGood, t0)))
	assert.Equal(t, "2 h", Label(t0, Result{Due: t0.Add(2 * time.Hour)}))
	assert.Equal(t, "1 min", Label(t0, Result{Due: t0.Add(-time.Hour)}))

	preview := Preview(State{Interval: 10, Repetition: 3, EFactor: 2.5}, t0)
	assert.Equal(t, map[Rating]string{
		Forgot: "1 min",
		Hard:   "12 days",
		Good:   "25 days",
		Easy:   "35 days",
	}, preview)
}
