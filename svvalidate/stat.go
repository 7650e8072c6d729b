package svvalidate

import "fmt"

// Stat is a count of matched intervals out of a total.
type Stat struct {
	Match, Total int
}

// Value is the percentage of Total that matched, or 0 when Total is 0.
func (s Stat) Value() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Match) / float64(s.Total) * 100
}

// Label formats the stat as "66.7% (2 / 3)". It is empty when there is
// nothing to measure so that "no data" can be told apart from 0%.
func (s Stat) Label() string {
	if s.Total <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f%% (%d / %d)", s.Value(), s.Match, s.Total)
}

func (s Stat) String() string {
	return s.Label()
}
