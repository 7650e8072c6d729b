package svvalidate

import (
	"strconv"
	"strings"

	"github.com/brentp/svval/event"
)

// Result is a single row of an evaluation.
type Result struct {
	Event  event.Type
	Bin    SizeBin
	Caller string
	Comparison
}

// Results are kept in evaluation order.
type Results []Result

// Metrics are the names used for the detail table.
var Metrics = []string{"sensitivity", "precision"}

// Metric returns the named stat.
func (r Result) Metric(name string) Stat {
	if name == "precision" {
		return r.Precision
	}
	return r.Sensitivity
}

// Events returns the event types in order of first appearance.
func (rs Results) Events() []event.Type {
	seen := make(map[event.Type]bool)
	var evs []event.Type
	for _, r := range rs {
		if !seen[r.Event] {
			seen[r.Event] = true
			evs = append(evs, r.Event)
		}
	}
	return evs
}

// Event returns the results for a single event type.
func (rs Results) Event(e event.Type) Results {
	var out Results
	for _, r := range rs {
		if r.Event == e {
			out = append(out, r)
		}
	}
	return out
}

// Find returns the result for the given bin and caller.
func (rs Results) Find(bin SizeBin, caller string) (Result, bool) {
	for _, r := range rs {
		if r.Bin == bin && r.Caller == caller {
			return r, true
		}
	}
	return Result{}, false
}

// SummaryHeader is the header of the summary table.
var SummaryHeader = []string{"svtype", "size", "caller", "sensitivity", "precision"}

// DetailHeader is the header of the per-metric table used for plotting.
var DetailHeader = []string{"svtype", "size", "caller", "metric", "value", "label"}

// Summary has one row per result with the sensitivity and precision labels.
func (rs Results) Summary() [][]string {
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []string{string(r.Event), r.Bin.String(), r.Caller,
			r.Sensitivity.Label(), r.Precision.Label()})
	}
	return rows
}

// formatValue writes measured percentages with at least one decimal
// (100.0, 66.66666666666666) and an unmeasured stat as 0.
func formatValue(s Stat) string {
	if s.Total <= 0 {
		return "0"
	}
	v := strconv.FormatFloat(s.Value(), 'f', -1, 64)
	if !strings.Contains(v, ".") {
		v += ".0"
	}
	return v
}

// Detail has one row per result and metric with the numeric value.
func (rs Results) Detail() [][]string {
	rows := make([][]string, 0, 2*len(rs))
	for _, r := range rs {
		for _, m := range Metrics {
			st := r.Metric(m)
			rows = append(rows, []string{string(r.Event), r.Bin.String(), r.Caller, m,
				formatValue(st), st.Label()})
		}
	}
	return rows
}
