package svvalidate

import (
	"github.com/brentp/svval/event"
	"github.com/brentp/svval/interval"
)

// Comparison holds the stats for a single caller, event type and size bin.
type Comparison struct {
	// Sensitivity is the number of merged calls that hit the truth out of the
	// number of merged truth intervals.
	Sensitivity Stat
	// Precision is the same count out of the number of merged calls.
	Precision Stat
}

// Matcher returns a predicate that is true for intervals with any tag
// supporting svtype from caller.
func Matcher(caller string, svtype event.Type, ploidy int) func(interval.Interval) (bool, error) {
	return func(iv interval.Interval) (bool, error) {
		return event.AnyMatch(iv.Tags, caller, svtype, ploidy)
	}
}

// EvaluateOne compares calls from caller against the truth for svtype within
// a single size bin. Both sets are restricted to the bin, the calls to those
// matching (caller, svtype), and each is merged before counting.
func EvaluateOne(caller string, svtype event.Type, bin SizeBin, calls, truth interval.Set, opts Options) (Comparison, error) {
	efeats, err := calls.Filter(bin.Contains).FilterErr(Matcher(caller, svtype, opts.Ploidy))
	if err != nil {
		return Comparison{}, err
	}
	efeats = efeats.Merge()
	tfeats := truth.Filter(bin.Contains).Merge()

	var frac float64
	if opts.SizeOverlap {
		frac = bin.MinOverlap()
	}
	match := efeats.IntersectFrac(tfeats, frac).Merge().Count()
	return Comparison{
		Sensitivity: Stat{Match: match, Total: tfeats.Count()},
		Precision:   Stat{Match: match, Total: efeats.Count()},
	}, nil
}
