package svvalidate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brentp/svval/event"
	"github.com/brentp/svval/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func bed(t *testing.T, s string) interval.Set {
	ivs, err := interval.Read(strings.NewReader(s))
	require.NoError(t, err)
	return ivs
}

func TestStat(t *testing.T) {
	assert.Equal(t, "", Stat{Match: 3, Total: 0}.Label())
	assert.Equal(t, 0.0, Stat{Match: 3, Total: 0}.Value())
	assert.Equal(t, "0.0% (0 / 4)", Stat{Match: 0, Total: 4}.Label())
	assert.Equal(t, "66.7% (2 / 3)", Stat{Match: 2, Total: 3}.Label())
	assert.Equal(t, "100.0% (1 / 1)", Stat{Match: 1, Total: 1}.Label())
}

func TestSizeBins(t *testing.T) {
	bins := DefaultSizeBins()
	require.Len(t, bins, 6)
	iv := interval.Interval{Chrom: "chr1", Start: 0, End: 450}
	assert.False(t, bins[0].Contains(iv))
	assert.True(t, bins[1].Contains(iv))
	// 1Mb and larger are never evaluated.
	big := interval.Interval{Chrom: "chr1", Start: 0, End: 1000000}
	for _, b := range bins {
		assert.False(t, b.Contains(big), b.String())
	}
	assert.Equal(t, "60000-1000000", bins[5].String())
	assert.Equal(t, 0.2, bins[0].MinOverlap())
	assert.Equal(t, 0.2, bins[1].MinOverlap())
	assert.Equal(t, 0.5, bins[2].MinOverlap())
	assert.Equal(t, 0.8, bins[3].MinOverlap())
	assert.Equal(t, 0.8, bins[5].MinOverlap())
}

func TestEvaluateOne(t *testing.T) {
	ens := bed(t, "chr1\t100\t200\tDEL_lumpy,DEL_delly\n")
	truth := bed(t, "chr1\t120\t180\n")
	bin := SizeBin{1, 450}
	opts := DefaultOptions()

	for _, caller := range []string{event.Ensemble, "lumpy", "delly"} {
		cmp, err := EvaluateOne(caller, event.DEL, bin, ens, truth, opts)
		require.NoError(t, err)
		assert.Equal(t, "100.0% (1 / 1)", cmp.Sensitivity.Label(), caller)
		assert.Equal(t, "100.0% (1 / 1)", cmp.Precision.Label(), caller)
	}

	cmp, err := EvaluateOne("wham", event.DEL, bin, ens, truth, opts)
	require.NoError(t, err)
	assert.Equal(t, Stat{0, 1}, cmp.Sensitivity)
	assert.Equal(t, "", cmp.Precision.Label())
}

func TestEvaluateOneNoOverlap(t *testing.T) {
	ens := bed(t, "chr1\t100\t200\tDEL_lumpy\nchr1\t1000\t1100\tDEL_lumpy\n")
	truth := bed(t, "chr1\t300\t400\nchr2\t100\t200\nchr2\t150\t250\n")
	cmp, err := EvaluateOne("lumpy", event.DEL, SizeBin{1, 450}, ens, truth, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "0.0% (0 / 2)", cmp.Sensitivity.Label())
	assert.Equal(t, "0.0% (0 / 2)", cmp.Precision.Label())
}

func TestEvaluateOneEmptyTruth(t *testing.T) {
	ens := bed(t, "chr1\t100\t200\tDEL_lumpy\n")
	cmp, err := EvaluateOne("lumpy", event.DEL, SizeBin{1, 450}, ens, nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "", cmp.Sensitivity.Label())
	assert.Equal(t, "0.0% (0 / 1)", cmp.Precision.Label())
}

func TestEvaluateOneMerges(t *testing.T) {
	// overlapping calls count once and the large truth interval is in another bin.
	ens := bed(t, "chr1\t100\t200\tDEL_lumpy\nchr1\t150\t300\tDEL_delly\nchr1\t600\t700\tDUP_delly\nchr1\t5000\t5300\tBND_delly\n")
	truth := bed(t, "chr1\t250\t260\nchr1\t280\t290\nchr1\t5000\t5900\nchr1\t5100\t5200\n")
	cmp, err := EvaluateOne(event.Ensemble, event.DEL, SizeBin{1, 450}, ens, truth, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, Stat{2, 3}, cmp.Sensitivity)
	assert.Equal(t, Stat{2, 2}, cmp.Precision)
}

func TestEvaluateOneSizeOverlap(t *testing.T) {
	ens := bed(t, "chr1\t1000\t2000\tDEL_lumpy\n")
	truth := bed(t, "chr1\t1900\t2500\n")
	bin := SizeBin{450, 2000}
	opts := DefaultOptions()
	cmp, err := EvaluateOne("lumpy", event.DEL, bin, ens, truth, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, cmp.Precision.Match)

	opts.SizeOverlap = true
	cmp, err = EvaluateOne("lumpy", event.DEL, bin, ens, truth, opts)
	require.NoError(t, err)
	assert.Equal(t, Stat{0, 1}, cmp.Precision)
}

func TestEvaluateOneCNV(t *testing.T) {
	ens := bed(t, "chr1\t100\t200\tcnv1_cnvkit\nchr1\t300\t400\tcnv3_cnvkit\nchr1\t500\t600\tcnv2_cnvkit\n")
	truth := bed(t, "chr1\t100\t200\nchr1\t300\t400\nchr1\t500\t600\n")
	bin := SizeBin{1, 450}
	del, err := EvaluateOne("cnvkit", event.DEL, bin, ens, truth, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, Stat{1, 1}, del.Precision)
	dup, err := EvaluateOne("cnvkit", event.DUP, bin, ens, truth, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, Stat{1, 1}, dup.Precision)

	opts := DefaultOptions()
	opts.Ploidy = 1
	del, err = EvaluateOne("cnvkit", event.DEL, bin, ens, truth, opts)
	require.NoError(t, err)
	assert.Equal(t, Stat{0, 0}, del.Precision)
}

func TestCallersByEvent(t *testing.T) {
	ens := bed(t, "chr1\t100\t200\tDEL_lumpy,DEL_delly\nchr1\t300\t400\tcnv3_cnvkit,UKN_wham\nchr2\t1\t5\tcnv2_cnvkit\n")
	total, err := CallersByEvent(ens, 2)
	require.NoError(t, err)
	assert.Equal(t, map[event.Type]map[string]bool{
		event.DEL: {"lumpy": true, "delly": true},
		event.DUP: {"cnvkit": true},
		"UKN":     {"wham": true},
		"cnv2":    {"cnvkit": true},
	}, total)
}

func TestEvaluateMulti(t *testing.T) {
	ens := bed(t, "chr1\t100\t200\tDEL_lumpy,DEL_delly\nchr1\t5000\t6000\tDUP_delly\n")
	in := Input{
		Callers: []string{event.Ensemble, "delly", "lumpy", "wham"},
		Truth: []Truth{
			{Event: event.DUP, Intervals: bed(t, "chr1\t5500\t6500\n")},
			{Event: event.DEL, Intervals: bed(t, "chr1\t120\t180\n")},
		},
		Ensemble: ens,
		Calls: map[string]interval.Set{
			"lumpy": bed(t, "chr1\t100\t200\tDEL_lumpy\n"),
			"delly": bed(t, "chr1\t100\t200\tDEL_delly\nchr1\t5000\t6000\tDUP_delly\n"),
			"wham":  nil,
		},
	}
	opts := DefaultOptions()
	opts.Bins = []SizeBin{{1, 450}, {450, 2000}}
	opts.Processes = 3
	rs, err := EvaluateMulti(in, opts)
	require.NoError(t, err)

	var got []string
	for _, r := range rs {
		got = append(got, strings.Join([]string{string(r.Event), r.Bin.String(), r.Caller, r.Sensitivity.Label(), r.Precision.Label()}, "|"))
	}
	assert.Equal(t, []string{
		"DUP|1-450|sv-ensemble||",
		"DUP|1-450|delly||",
		"DUP|450-2000|sv-ensemble|100.0% (1 / 1)|100.0% (1 / 1)",
		"DUP|450-2000|delly|100.0% (1 / 1)|100.0% (1 / 1)",
		"DEL|1-450|sv-ensemble|100.0% (1 / 1)|100.0% (1 / 1)",
		"DEL|1-450|delly|100.0% (1 / 1)|100.0% (1 / 1)",
		"DEL|1-450|lumpy|100.0% (1 / 1)|100.0% (1 / 1)",
		"DEL|450-2000|sv-ensemble||",
		"DEL|450-2000|delly||",
		"DEL|450-2000|lumpy||",
	}, got)
	assert.Equal(t, []event.Type{event.DUP, event.DEL}, rs.Events())
}

func TestEvaluateMultiUnknownCaller(t *testing.T) {
	in := Input{
		Callers:  []string{event.Ensemble, "manta"},
		Truth:    []Truth{{Event: event.DEL}},
		Ensemble: bed(t, "chr1\t100\t200\tDEL_manta\n"),
	}
	_, err := EvaluateMulti(in, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownCaller)

	_, err = EvaluateMulti(in, Options{})
	assert.ErrorIs(t, err, ErrNoBins)
}

type recorder struct {
	rs Results
}

func (r *recorder) Visualize(rs Results) error {
	r.rs = rs
	return nil
}

func TestEvaluateMultiVisualizer(t *testing.T) {
	in := Input{
		Callers:  []string{event.Ensemble},
		Truth:    []Truth{{Event: event.DEL, Intervals: bed(t, "chr1\t100\t200\n")}},
		Ensemble: bed(t, "chr1\t100\t200\tDEL_manta\n"),
	}
	rec := &recorder{}
	opts := DefaultOptions()
	opts.Visualizer = rec
	rs, err := EvaluateMulti(in, opts)
	require.NoError(t, err)
	assert.Len(t, rs, 6)
	assert.Equal(t, rs, rec.rs)
}

func TestReports(t *testing.T) {
	rs := Results{
		{Event: event.DEL, Bin: SizeBin{1, 450}, Caller: event.Ensemble,
			Comparison: Comparison{Sensitivity: Stat{1, 2}, Precision: Stat{1, 1}}},
		{Event: event.DEL, Bin: SizeBin{450, 2000}, Caller: "lumpy",
			Comparison: Comparison{Sensitivity: Stat{0, 0}, Precision: Stat{0, 3}}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, rs))
	assert.Equal(t, "svtype,size,caller,sensitivity,precision\n"+
		"DEL,1-450,sv-ensemble,50.0% (1 / 2),100.0% (1 / 1)\n"+
		"DEL,450-2000,lumpy,,0.0% (0 / 3)\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteDetail(&buf, rs))
	assert.Equal(t, "svtype,size,caller,metric,value,label\n"+
		"DEL,1-450,sv-ensemble,sensitivity,50.0,50.0% (1 / 2)\n"+
		"DEL,1-450,sv-ensemble,precision,100.0,100.0% (1 / 1)\n"+
		"DEL,450-2000,lumpy,sensitivity,0,\n"+
		"DEL,450-2000,lumpy,precision,0,0.0% (0 / 3)\n", buf.String())

	back, err := ReadDetail(&buf)
	require.NoError(t, err)
	assert.Equal(t, rs, back)
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	ens := filepath.Join(dir, "sample-ensemble.bed")
	require.NoError(t, os.WriteFile(ens, []byte("chr1\t1\t10\tDEL_lumpy\n"), 0644))
	assert.Equal(t, filepath.Join(dir, "sample-ensemble"), Prefix(ens+".gz"))

	rs := Results{{Event: event.DEL, Bin: SizeBin{1, 450}, Caller: event.Ensemble}}
	summary, detail, err := WriteFiles(Prefix(ens), rs)
	require.NoError(t, err)
	assert.True(t, UpToDate(ens, summary, detail))
	assert.False(t, UpToDate(ens, summary, detail+".missing"))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "0", formatValue(Stat{0, 0}))
	assert.Equal(t, "0.0", formatValue(Stat{0, 3}))
	assert.Equal(t, "66.66666666666666", formatValue(Stat{2, 3}))
	assert.Equal(t, "100.0", formatValue(Stat{1, 1}))
}

func TestPlotHelpers(t *testing.T) {
	rs := Results{
		{Event: event.DEL, Bin: SizeBin{450, 2000}, Caller: "lumpy", Comparison: Comparison{Sensitivity: Stat{1, 2}}},
		{Event: event.DEL, Bin: SizeBin{1, 450}, Caller: event.Ensemble, Comparison: Comparison{Sensitivity: Stat{0, 2}}},
		{Event: event.DEL, Bin: SizeBin{1, 450}, Caller: "delly"},
		{Event: event.DEL, Bin: SizeBin{2000, 4000}, Caller: "delly"},
	}
	assert.Equal(t, []SizeBin{{1, 450}, {450, 2000}}, plotBins(rs))
	assert.Equal(t, []string{"delly", "lumpy", event.Ensemble}, plotCallers(rs))
	v := values(rs, []SizeBin{{1, 450}, {450, 2000}}, "lumpy", "sensitivity")
	assert.Equal(t, []float64{0.1, 50}, v.Ys())
}

func TestBarWidth(t *testing.T) {
	for _, n := range []int{0, 1, 3, 60, 61, 500} {
		assert.True(t, barWidth(n) > 0, "%d callers", n)
	}
	assert.Equal(t, vg.Points(20), barWidth(3))
}
