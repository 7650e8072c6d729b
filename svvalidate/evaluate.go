// Package svvalidate evaluates structural-variant calls against truth sets,
// reporting sensitivity and precision per caller, event type and event size.
package svvalidate

import (
	"log"
	"sort"

	"github.com/brentp/svval/event"
	"github.com/brentp/svval/interval"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ErrUnknownCaller is returned when a requested caller has no calls.
var ErrUnknownCaller = errors.New("caller has no call set")

// ErrNoBins is returned when Options has no size bins.
var ErrNoBins = errors.New("no size bins")

// Visualizer draws evaluation results. It never affects the results.
type Visualizer interface {
	Visualize(Results) error
}

// Options configure EvaluateMulti.
type Options struct {
	// Bins are evaluated in order.
	Bins []SizeBin
	// Ploidy resolves copy-number calls into DEL and DUP.
	Ploidy int
	// SizeOverlap requires calls to overlap a truth interval by the
	// fraction given by SizeBin.MinOverlap. By default any overlap counts.
	SizeOverlap bool
	// Processes is the number of comparisons run at once.
	Processes int
	// Visualizer is optional.
	Visualizer Visualizer
}

// DefaultOptions uses the default size bins and a diploid sample.
func DefaultOptions() Options {
	return Options{Bins: DefaultSizeBins(), Ploidy: 2, Processes: 1}
}

// Truth is the truth-set for a single event type.
type Truth struct {
	Event     event.Type
	Intervals interval.Set
}

// Input is the full set of calls and truths for an evaluation.
type Input struct {
	// Callers to report, conventionally with event.Ensemble first.
	Callers []string
	// Truth is evaluated in order.
	Truth []Truth
	// Ensemble is the combined call set, with a tag per supporting caller.
	Ensemble interval.Set
	// Calls holds the call set for each caller. The ensemble caller falls
	// back to Ensemble when it's not present here.
	Calls map[string]interval.Set
}

// CallersByEvent records, for each event type in the ensemble, the callers
// that reported it.
func CallersByEvent(ensemble interval.Set, ploidy int) (map[event.Type]map[string]bool, error) {
	total := make(map[event.Type]map[string]bool)
	for _, iv := range ensemble {
		for _, t := range iv.Tags {
			typ, err := t.Type(ploidy)
			if err != nil {
				return nil, errors.Wrapf(err, "at %s", iv)
			}
			if total[typ] == nil {
				total[typ] = make(map[string]bool)
			}
			total[typ][t.Caller] = true
		}
	}
	return total, nil
}

// SortedCallers returns event.Ensemble followed by the sorted names in calls.
func SortedCallers(calls map[string]interval.Set) []string {
	names := make([]string, 0, len(calls))
	for c := range calls {
		if c != event.Ensemble {
			names = append(names, c)
		}
	}
	sort.Strings(names)
	return append([]string{event.Ensemble}, names...)
}

func (in Input) callSet(caller string) (interval.Set, error) {
	if s, ok := in.Calls[caller]; ok {
		return s, nil
	}
	if caller == event.Ensemble {
		return in.Ensemble, nil
	}
	return nil, errors.Wrap(ErrUnknownCaller, caller)
}

type job struct {
	Result
	calls, truth interval.Set
}

// EvaluateMulti compares every active caller against each truth set in every
// size bin. A caller is active for an event type if it has at least one call
// of that type in the ensemble; event.Ensemble is always active. Rows are
// ordered by truth, then bin, then caller.
func EvaluateMulti(in Input, opts Options) (Results, error) {
	if len(opts.Bins) == 0 {
		return nil, ErrNoBins
	}
	for _, c := range in.Callers {
		if _, err := in.callSet(c); err != nil {
			return nil, err
		}
	}
	total, err := CallersByEvent(in.Ensemble, opts.Ploidy)
	if err != nil {
		return nil, err
	}

	var jobs []job
	for _, t := range in.Truth {
		for _, bin := range opts.Bins {
			for _, caller := range in.Callers {
				if caller != event.Ensemble && !total[t.Event][caller] {
					continue
				}
				calls, _ := in.callSet(caller)
				jobs = append(jobs, job{Result: Result{Event: t.Event, Bin: bin, Caller: caller}, calls: calls, truth: t.Intervals})
			}
		}
	}

	results := make(Results, len(jobs))
	var g errgroup.Group
	if opts.Processes > 0 {
		g.SetLimit(opts.Processes)
	}
	for i := range jobs {
		i := i
		g.Go(func() error {
			j := jobs[i]
			cmp, err := EvaluateOne(j.Caller, j.Event, j.Bin, j.calls, j.truth, opts)
			if err != nil {
				return errors.Wrapf(err, "evaluating %s %s %s", j.Caller, j.Event, j.Bin)
			}
			j.Result.Comparison = cmp
			results[i] = j.Result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Printf("evaluated %d caller, event and size combinations", len(results))

	if opts.Visualizer != nil {
		if err := opts.Visualizer.Visualize(results); err != nil {
			log.Printf("no validation plot: %s", err)
		}
	}
	return results, nil
}
