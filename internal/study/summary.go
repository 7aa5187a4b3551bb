package study

import "github.com/Nati35/NEMO/internal/sm2"

// Bucket counts results that share a next-interval label.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary describes a session's outcome.
type Summary struct {
	Status       Status             `json:"status"`
	Reviewed     int                `json:"reviewed"`
	PointsGained int                `json:"points_gained"`
	Counts       map[sm2.Rating]int `json:"counts"`
	// Forecast groups results by label in order of first appearance.
	Forecast []Bucket `json:"forecast"`
}

// Summary tallies the results committed so far. Every rating has an entry
// in Counts even when zero.
func (s *Session) Summary() Summary {
	sum := Summary{
		Status:       s.status,
		Reviewed:     len(s.results),
		PointsGained: s.points,
		Counts:       make(map[sm2.Rating]int, len(sm2.Ratings)),
		Forecast:     []Bucket{},
	}
	for _, r := range sm2.Ratings {
		sum.Counts[r] = 0
	}

	index := map[string]int{}
	for _, res := range s.results {
		sum.Counts[res.Rating]++
		i, ok := index[res.Label]
		if !ok {
			i = len(sum.Forecast)
			index[res.Label] = i
			sum.Forecast = append(sum.Forecast, Bucket{Label: res.Label})
		}
		sum.Forecast[i].Count++
	}
	return sum
}
