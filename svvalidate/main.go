package svvalidate

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	arg "github.com/alexflint/go-arg"
	"github.com/brentp/svval/event"
	"github.com/brentp/svval/interval"
	"github.com/brentp/xopen"
	"github.com/fatih/color"
	"github.com/pkg/errors"
)

type cliargs struct {
	Ploidy      int      `arg:"-p,help:sample ploidy used to turn copy-number calls into DEL or DUP"`
	Truth       []string `arg:"-t,required,separate,help:truth set as EVENT:path.bed. may be repeated and is evaluated in order"`
	Call        []string `arg:"-c,separate,help:call set for a single caller as caller:path.bed. may be repeated"`
	Callers     []string `arg:"help:callers to report in order. default is sv-ensemble then the sorted callers from --call"`
	Prefix      string   `arg:"help:prefix for output files. default is the ensemble path without extension"`
	SizeOverlap bool     `arg:"-s,help:require calls to overlap truth by a size-dependent fraction (0.2, 0.5 or 0.8) instead of any overlap"`
	Processes   int      `arg:"-j,help:number of comparisons to run in parallel"`
	Plot        bool     `arg:"help:write html plots of the results"`
	PNG         bool     `arg:"help:also write png plots (requires --plot)"`
	Force       bool     `arg:"-f,help:re-run even if outputs are newer than the ensemble"`
	Ensemble    string   `arg:"positional,required,help:combined bed with name column of EVENT_caller tags"`
}

func pcheck(e error) {
	if e != nil {
		log.Fatal(e)
	}
}

func warn(format string, a ...interface{}) {
	c := color.New(color.FgYellow).Add(color.Bold)
	fmt.Fprintf(os.Stderr, "%s\n", c.SprintFunc()(fmt.Sprintf(format, a...)))
}

// splitPair splits "key:path" on the first ':'.
func splitPair(s string) (string, string, error) {
	i := strings.IndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return "", "", errors.Errorf("expected name:path, got %q", s)
	}
	return s[:i], s[i+1:], nil
}

// Prefix strips .gz and .bed from an ensemble path.
func Prefix(p string) string {
	p = strings.TrimSuffix(p, ".gz")
	return strings.TrimSuffix(p, ".bed")
}

func readInput(cli cliargs, ploidy int) (Input, error) {
	var in Input
	var err error
	if in.Ensemble, err = interval.ReadBed(cli.Ensemble); err != nil {
		return in, err
	}
	seen := make(map[event.Type]bool)
	for _, t := range cli.Truth {
		name, path, err := splitPair(t)
		if err != nil {
			return in, err
		}
		if seen[event.Type(name)] {
			return in, errors.Errorf("truth set for %s given more than once", name)
		}
		seen[event.Type(name)] = true
		ivs, err := interval.ReadRegionsBed(path)
		if err != nil {
			return in, err
		}
		if len(ivs) == 0 {
			warn("WARNING: empty truth set for %s: %s", name, path)
		}
		in.Truth = append(in.Truth, Truth{Event: event.Type(name), Intervals: ivs})
	}
	in.Calls = make(map[string]interval.Set, len(cli.Call))
	for _, c := range cli.Call {
		name, path, err := splitPair(c)
		if err != nil {
			return in, err
		}
		if in.Calls[name], err = interval.ReadBed(path); err != nil {
			return in, err
		}
	}
	in.Callers = cli.Callers
	if len(in.Callers) == 0 {
		in.Callers = SortedCallers(in.Calls)
	}

	total, err := CallersByEvent(in.Ensemble, ploidy)
	if err != nil {
		return in, err
	}
	for _, c := range in.Callers {
		found := c == event.Ensemble
		for _, callers := range total {
			found = found || callers[c]
		}
		if !found {
			warn("WARNING: caller %s has no calls in %s", c, cli.Ensemble)
		}
	}
	return in, nil
}

// Main is run from the dispatcher
func Main() {
	cli := cliargs{Ploidy: 2, Processes: 1}
	p := arg.MustParse(&cli)
	if cli.Ploidy < 1 {
		p.Fail("ploidy must be at least 1")
	}
	if cli.Processes < 1 {
		p.Fail("processes must be at least 1")
	}
	if cli.PNG && !cli.Plot {
		p.Fail("--png requires --plot")
	}
	if cli.Prefix == "" {
		cli.Prefix = Prefix(cli.Ensemble)
	}

	opts := DefaultOptions()
	opts.Ploidy = cli.Ploidy
	opts.Processes = cli.Processes
	opts.SizeOverlap = cli.SizeOverlap
	var plotter *Plotter
	if cli.Plot {
		plotter = &Plotter{Prefix: cli.Prefix + "-validate", PNG: cli.PNG}
	}

	summary, detail := cli.Prefix+"-validate.csv", cli.Prefix+"-validate-df.csv"
	if !cli.Force && UpToDate(cli.Ensemble, summary, detail) {
		log.Printf("%s and %s are up to date", summary, detail)
		if plotter != nil {
			fh, err := xopen.Ropen(detail)
			pcheck(err)
			rs, err := ReadDetail(fh)
			fh.Close()
			pcheck(err)
			pcheck(plotter.Visualize(rs))
		}
		return
	}

	in, err := readInput(cli, opts.Ploidy)
	pcheck(err)
	if plotter != nil {
		opts.Visualizer = plotter
	}
	rs, err := EvaluateMulti(in, opts)
	pcheck(err)
	_, _, err = WriteFiles(cli.Prefix, rs)
	pcheck(err)
	log.Printf("wrote %s and %s", summary, detail)
}

type callerargs struct {
	Ploidy   int    `arg:"-p,help:sample ploidy used to turn copy-number calls into DEL or DUP"`
	Ensemble string `arg:"positional,required,help:combined bed with name column of EVENT_caller tags"`
}

// CallersMain prints the callers that reported each event type.
func CallersMain() {
	cli := callerargs{Ploidy: 2}
	p := arg.MustParse(&cli)
	if cli.Ploidy < 1 {
		p.Fail("ploidy must be at least 1")
	}
	ens, err := interval.ReadBed(cli.Ensemble)
	pcheck(err)
	total, err := CallersByEvent(ens, cli.Ploidy)
	pcheck(err)

	evs := make([]string, 0, len(total))
	for e := range total {
		evs = append(evs, string(e))
	}
	sort.Strings(evs)
	for _, e := range evs {
		callers := make([]string, 0, len(total[event.Type(e)]))
		for c := range total[event.Type(e)] {
			callers = append(callers, c)
		}
		sort.Strings(callers)
		fmt.Printf("%s\t%s\n", e, strings.Join(callers, ","))
	}
}
