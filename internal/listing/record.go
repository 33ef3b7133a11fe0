// Package listing holds scraped job postings and the sources that produce them.
package listing

import (
	"fmt"
	"math"
)

const (
	MinScore = 0
	MaxScore = 100
	// MidpointScore is assigned when a listing could not be scored.
	MidpointScore = 50
)

// Record is a single job posting.
type Record struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	Link         string `json:"link"`
	Source       string `json:"source"`
	Description  string `json:"description,omitempty"`
	Requirements string `json:"requirements,omitempty"`
	// Score is nil until the listing has been scored.
	Score *Score `json:"match_score,omitempty"`
}

// Key is the deduplication identity of the record. Values are compared
// verbatim, so case or whitespace differences yield distinct keys.
func (r *Record) Key() string {
	return r.Title + "-" + r.Company + "-" + r.Location
}

// Score is a match score outcome: either a genuine model score or a default
// assigned because scoring failed.
type Score struct {
	Value     float64 `json:"value"`
	Defaulted bool    `json:"defaulted,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

// Scored returns a genuine score clamped to [MinScore, MaxScore].
func Scored(v float64) *Score {
	return &Score{Value: ClampScore(v)}
}

// Defaulted returns a fallback score clamped to [MinScore, MaxScore].
func Defaulted(v float64, reason string) *Score {
	return &Score{Value: ClampScore(v), Defaulted: true, Reason: reason}
}

func (s *Score) String() string {
	if s == nil {
		return ""
	}
	if s.Defaulted {
		return fmt.Sprintf("%g (default: %s)", s.Value, s.Reason)
	}
	return fmt.Sprintf("%g", s.Value)
}

// ClampScore bounds v to [MinScore, MaxScore]. NaN maps to MinScore.
func ClampScore(v float64) float64 {
	if math.IsNaN(v) {
		return MinScore
	}
	return math.Min(math.Max(v, MinScore), MaxScore)
}
