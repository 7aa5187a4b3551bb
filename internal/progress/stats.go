package progress

import (
	"time"

	"github.com/Nati35/NEMO/internal/domain"
)

// ActivityWindow is the number of trailing days reported in Stats.Activity.
const ActivityWindow = 14

// DayActivity is the number of reviews done on one calendar day.
type DayActivity struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Stats summarizes a user's review history.
type Stats struct {
	TotalReviews int           `json:"total_reviews"`
	Accuracy     int           `json:"accuracy"`
	Activity     []DayActivity `json:"activity"`
}

// Summarize builds review statistics from a user's log entries. Accuracy is
// the rounded percentage of ratings of Good or better.
func Summarize(logs []domain.ReviewLog, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.Local
	}
	stats := Stats{TotalReviews: len(logs)}

	successful := 0
	for _, l := range logs {
		if l.Rating >= 3 {
			successful++
		}
	}
	if len(logs) > 0 {
		stats.Accuracy = (successful*100 + len(logs)/2) / len(logs)
	}

	today := now.In(loc)
	index := make(map[string]int, ActivityWindow)
	stats.Activity = make([]DayActivity, ActivityWindow)
	for i := 0; i < ActivityWindow; i++ {
		day := today.AddDate(0, 0, i-(ActivityWindow-1)).Format(time.DateOnly)
		stats.Activity[i] = DayActivity{Date: day}
		index[day] = i
	}
	for _, l := range logs {
		if i, ok := index[l.ReviewedAt.In(loc).Format(time.DateOnly)]; ok {
			stats.Activity[i].Count++
		}
	}
	return stats
}
