// Package interval implements the set operations used to compare BED files of
// structural-variant calls: filter, merge, overlap and count.
package interval

import (
	"fmt"
	"sort"

	"github.com/brentp/svval/event"
)

// Interval is a half-open, 0-based genomic interval with optional tags
// decoded from the BED name column.
type Interval struct {
	Chrom string
	Start int
	End   int
	Tags  []event.Tag
}

func (i Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", i.Chrom, i.Start, i.End)
}

// Len is End - Start.
func (i Interval) Len() int {
	return i.End - i.Start
}

// Overlap returns the number of bases shared by a and b.
func Overlap(a, b Interval) int {
	if a.Chrom != b.Chrom {
		return 0
	}
	o := imin(a.End, b.End) - imax(a.Start, b.Start)
	if o < 0 {
		return 0
	}
	return o
}

// Set is an unordered collection of intervals. Operations return new sets
// and never modify the receiver.
type Set []Interval

// Count is the number of intervals in the set.
func (s Set) Count() int { return len(s) }

// Filter keeps the intervals for which keep returns true.
func (s Set) Filter(keep func(Interval) bool) Set {
	out := make(Set, 0, len(s))
	for _, iv := range s {
		if keep(iv) {
			out = append(out, iv)
		}
	}
	return out
}

// FilterErr is Filter for predicates that can fail. The first error stops the scan.
func (s Set) FilterErr(keep func(Interval) (bool, error)) (Set, error) {
	out := make(Set, 0, len(s))
	for _, iv := range s {
		ok, err := keep(iv)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, iv)
		}
	}
	return out, nil
}

func less(a, b Interval) bool {
	return a.Chrom < b.Chrom || (a.Chrom == b.Chrom && (a.Start < b.Start || (a.Start == b.Start && a.End < b.End)))
}

// Sorted returns a copy of the set ordered by chrom, start, end.
func (s Set) Sorted() Set {
	out := make(Set, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Merge sorts the set and collapses overlapping and book-ended intervals into
// single spans. Merged intervals carry no tags.
func (s Set) Merge() Set {
	if len(s) == 0 {
		return Set{}
	}
	sorted := s.Sorted()
	out := make(Set, 0, len(sorted))
	cur := Interval{Chrom: sorted[0].Chrom, Start: sorted[0].Start, End: sorted[0].End}
	for _, iv := range sorted[1:] {
		if iv.Chrom == cur.Chrom && iv.Start <= cur.End {
			cur.End = imax(cur.End, iv.End)
			continue
		}
		out = append(out, cur)
		cur = Interval{Chrom: iv.Chrom, Start: iv.Start, End: iv.End}
	}
	return append(out, cur)
}

// IntersectAny keeps the intervals of s that overlap any interval in other by
// at least one base.
func (s Set) IntersectAny(other Set) Set {
	return s.IntersectFrac(other, 0)
}

// IntersectFrac keeps the intervals of s that overlap a single interval in
// other by at least frac of their own length. A frac <= 0 accepts any overlap.
func (s Set) IntersectFrac(other Set, frac float64) Set {
	trees := NewTrees(other)
	return s.Filter(func(iv Interval) bool {
		return trees.Overlaps(iv, frac)
	})
}

func imin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
