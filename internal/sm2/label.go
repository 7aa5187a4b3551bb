package sm2

import (
	"fmt"
	"math"
	"time"
)

// Label renders the wait between now and due the way a rating button shows
// it: minutes under an hour, hours under a day, otherwise the interval in days.
func Label(now time.Time, r Result) string {
	minutes := math.Max(1, r.Due.Sub(now).Minutes())
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d min", int(math.Round(minutes)))
	case minutes < 24*60:
		return fmt.Sprintf("%d h", int(math.Round(minutes/60)))
	case r.Interval == 1:
		return "1 day"
	}
	return fmt.Sprintf("%d days", r.Interval)
}

// Preview returns the label every rating would produce for s at now.
func Preview(s State, now time.Time) map[Rating]string {
	out := make(map[Rating]string, len(Ratings))
	for _, r := range Ratings {
		q, _ := r.Quality()
		out[r] = Label(now, Next(s, q, now))
	}
	return out
}
