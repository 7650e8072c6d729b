package svvalidate

import (
	"fmt"

	"github.com/brentp/svval/interval"
)

// SizeBin is a half-open range [Min, Max) over interval length.
type SizeBin struct {
	Min, Max int
}

// DefaultSizeBins are the event-size strata used to report results. Events
// of 1Mb or larger fall outside all bins and are not evaluated.
func DefaultSizeBins() []SizeBin {
	return []SizeBin{
		{1, 450},
		{450, 2000},
		{2000, 4000},
		{4000, 20000},
		{20000, 60000},
		{60000, 1000000},
	}
}

func (b SizeBin) String() string {
	return fmt.Sprintf("%d-%d", b.Min, b.Max)
}

// Title is the label used on plots.
func (b SizeBin) Title() string {
	return fmt.Sprintf("%d to %dbp", b.Min, b.Max)
}

// Contains reports whether the length of iv is within the bin.
func (b SizeBin) Contains(iv interval.Interval) bool {
	l := iv.Len()
	return l >= b.Min && l < b.Max
}

// MinOverlap is the fraction of a call that must be covered by a truth
// interval when size-dependent overlap is requested. Small events get more
// slack than large ones.
func (b SizeBin) MinOverlap() float64 {
	switch {
	case b.Min < 600:
		return 0.2
	case b.Min < 2500:
		return 0.5
	default:
		return 0.8
	}
}
