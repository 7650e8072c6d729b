package interval

import (
	"math"

	"github.com/biogo/store/interval"
)

// Integer-specific intervals
type irange struct {
	Start, End int
	UID        uintptr
}

func (i irange) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return i.End > b.Start && i.Start < b.End
}
func (i irange) ID() uintptr              { return i.UID }
func (i irange) Range() interval.IntRange { return interval.IntRange{Start: i.Start, End: i.End} }

// Trees holds one interval tree per chromosome.
type Trees map[string]*interval.IntTree

// NewTrees indexes the set by chromosome. Empty intervals are skipped since
// they can't overlap anything.
func NewTrees(s Set) Trees {
	trees := make(Trees, 24)
	for k, iv := range s {
		if iv.End <= iv.Start {
			continue
		}
		t, ok := trees[iv.Chrom]
		if !ok {
			t = &interval.IntTree{}
			trees[iv.Chrom] = t
		}
		if err := t.Insert(irange{iv.Start, iv.End, uintptr(k)}, true); err != nil {
			panic(err)
		}
	}
	for _, t := range trees {
		t.AdjustRanges()
	}
	return trees
}

// Overlaps checks for an overlap of at least frac * iv.Len() bases with any
// single interval in the trees without pulling intervals from the tree.
func (t Trees) Overlaps(iv Interval, frac float64) bool {
	tree, ok := t[iv.Chrom]
	if !ok || iv.End <= iv.Start {
		return false
	}
	need := 1
	if frac > 0 {
		need = imax(1, int(math.Ceil(frac*float64(iv.Len()))))
	}

	q := irange{Start: iv.Start, End: iv.End, UID: uintptr(tree.Len())}
	overlaps := false
	tree.DoMatching(func(m interval.IntInterface) bool {
		r := m.Range()
		if imin(r.End, iv.End)-imax(r.Start, iv.Start) >= need {
			overlaps = true
		}
		return overlaps
	}, q)
	return overlaps
}
