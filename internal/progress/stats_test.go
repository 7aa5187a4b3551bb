package progress

import (
	"testing"
	"time"

	"github.com/Nati35/NEMO/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	logs := []domain.ReviewLog{
		{Rating: 1, ReviewedAt: t0},
		{Rating: 3, ReviewedAt: t0.Add(-time.Hour)},
		{Rating: 4, ReviewedAt: t0.AddDate(0, 0, -2)},
		{Rating: 2, ReviewedAt: t0.AddDate(0, 0, -30)},
	}

	stats := Summarize(logs, t0, time.UTC)
	assert.Equal(t, 4, stats.TotalReviews)
	assert.Equal(t, 50, stats.Accuracy)

	require.Len(t, stats.Activity, ActivityWindow)
	assert.Equal(t, DayActivity{Date: "2025-06-15", Count: 2}, stats.Activity[ActivityWindow-1])
	assert.Equal(t, DayActivity{Date: "2025-06-13", Count: 1}, stats.Activity[ActivityWindow-3])
	assert.Equal(t, "2025-06-02", stats.Activity[0].Date)
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil, t0, time.UTC)
	assert.Zero(t, stats.TotalReviews)
	assert.Zero(t, stats.Accuracy)
	assert.Len(t, stats.Activity, ActivityWindow)
}
