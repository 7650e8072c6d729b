package svvalidate

import (
	"fmt"
	"html/template"
	"image/color"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"

	chartjs "github.com/brentp/go-chartjs"
	"github.com/brentp/go-chartjs/types"
	"github.com/brentp/svval/event"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var titles = map[event.Type]string{
	event.INV: "Inversions",
	event.DEL: "Deletions",
	event.DUP: "Duplications",
	event.INS: "Insertions",
}

func title(e event.Type) string {
	if t, ok := titles[e]; ok {
		return t
	}
	return string(e)
}

type vs struct {
	xs []float64
	ys []float64
}

func (v *vs) Xs() []float64 {
	return v.xs
}

func (v *vs) Ys() []float64 {
	return v.ys
}

func (v *vs) Rs() []float64 {
	return nil
}

func (v *vs) Len() int {
	return len(v.xs)
}

// Value makes vs a gonum plotter.Valuer over the ys.
func (v *vs) Value(i int) float64 {
	return v.ys[i]
}

func randomColor(s int) *types.RGBA {
	r := rand.New(rand.NewSource(int64(s)))
	return &types.RGBA{
		R: uint8(r.Intn(256)),
		G: uint8(r.Intn(256)),
		B: uint8(r.Intn(256)),
		A: 240}
}

// Plotter draws an HTML chart and a PNG bar chart for each event type and
// metric. Files are named <Prefix>-<event>-<metric>.{html,png}.
type Plotter struct {
	Prefix string
	// PNG turns on the static bar charts.
	PNG bool
}

// plotBins are the bins where any caller has a sensitivity to report.
func plotBins(rs Results) []SizeBin {
	var bins []SizeBin
	seen := make(map[SizeBin]bool)
	for _, r := range rs {
		if seen[r.Bin] || r.Sensitivity.Label() == "" {
			continue
		}
		seen[r.Bin] = true
		bins = append(bins, r.Bin)
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].Min < bins[j].Min })
	return bins
}

// plotCallers are sorted with the ensemble drawn last.
func plotCallers(rs Results) []string {
	seen := make(map[string]bool)
	var callers []string
	hasEnsemble := false
	for _, r := range rs {
		if r.Caller == event.Ensemble {
			hasEnsemble = true
			continue
		}
		if !seen[r.Caller] {
			seen[r.Caller] = true
			callers = append(callers, r.Caller)
		}
	}
	sort.Strings(callers)
	if hasEnsemble {
		callers = append(callers, event.Ensemble)
	}
	return callers
}

// values gets the metric for each bin. Missing rows and 0 are drawn as a
// sliver so the bar is still visible.
func values(rs Results, bins []SizeBin, caller, metric string) *vs {
	v := &vs{xs: make([]float64, len(bins)), ys: make([]float64, len(bins))}
	for i, b := range bins {
		v.xs[i] = float64(i)
		v.ys[i] = 0.1
		if r, ok := rs.Find(b, caller); ok && r.Metric(metric).Value() > 0 {
			v.ys[i] = r.Metric(metric).Value()
		}
	}
	return v
}

// Visualize implements Visualizer.
func (p Plotter) Visualize(rs Results) error {
	for _, e := range rs.Events() {
		ers := rs.Event(e)
		bins := plotBins(ers)
		if len(bins) == 0 {
			continue
		}
		callers := plotCallers(ers)
		for _, metric := range Metrics {
			base := fmt.Sprintf("%s-%s-%s", p.Prefix, e, metric)
			chart, err := chartMetric(ers, e, bins, callers, metric)
			if err != nil {
				return err
			}
			if err := saveHTML(base+".html", chart, bins); err != nil {
				return err
			}
			if p.PNG {
				if err := asPng(base+".png", ers, e, bins, callers, metric); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func chartMetric(rs Results, e event.Type, bins []SizeBin, callers []string, metric string) (chartjs.Chart, error) {
	chart := chartjs.Chart{Label: fmt.Sprintf("%s %s", title(e), metric)}
	xa, err := chart.AddXAxis(chartjs.Axis{Type: chartjs.Linear, Position: chartjs.Bottom,
		Tick:       &chartjs.Tick{Min: 0, Max: float64(len(bins) - 1)},
		ScaleLabel: &chartjs.ScaleLabel{FontSize: 16, LabelString: "size bin", Display: chartjs.True}})
	if err != nil {
		return chart, err
	}
	ya, err := chart.AddYAxis(chartjs.Axis{Type: chartjs.Linear, Position: chartjs.Left,
		Tick:       &chartjs.Tick{Min: 0, Max: 100},
		ScaleLabel: &chartjs.ScaleLabel{FontSize: 16, LabelString: metric + " (%)", Display: chartjs.True}})
	if err != nil {
		return chart, err
	}
	for i, caller := range callers {
		c := randomColor(i)
		dataset := chartjs.Dataset{Data: values(rs, bins, caller, metric), Label: caller, Fill: chartjs.False,
			PointRadius: 4, BorderWidth: 2, BorderColor: c, BackgroundColor: c, PointBackgroundColor: c,
			PointHitRadius: 6, PointHoverRadius: 6}
		dataset.XAxisID = xa
		dataset.YAxisID = ya
		chart.AddDataset(dataset)
	}
	chart.Options.Responsive = chartjs.False
	chart.Options.Tooltip = &chartjs.Tooltip{Mode: "nearest"}
	return chart, nil
}

func saveHTML(path string, chart chartjs.Chart, bins []SizeBin) error {
	labels := make([]string, len(bins))
	for i, b := range bins {
		labels[i] = fmt.Sprintf("%d: %s", i, b.Title())
	}
	wtr, err := os.Create(path)
	if err != nil {
		return err
	}
	custom := template.HTML("<p>size bins " + template.HTMLEscapeString(strings.Join(labels, ", ")) + "</p>")
	if err := chart.SaveHTML(wtr, map[string]interface{}{"width": 850, "height": 550, "customHTML": custom}); err != nil {
		wtr.Close()
		return err
	}
	return wtr.Close()
}

// barWidth splits a fixed width between the callers in each group.
func barWidth(n int) vg.Length {
	if n < 1 {
		n = 1
	}
	return vg.Points(60 / float64(n))
}

func asPng(path string, rs Results, e event.Type, bins []SizeBin, callers []string, metric string) error {
	p := plot.New()
	p.Title.Text = title(e)
	p.Y.Label.Text = metric + " (%)"

	labels := make([]string, len(bins))
	for i, b := range bins {
		labels[i] = b.Title()
	}
	p.NominalX(labels...)

	w := barWidth(len(callers))
	ymax := 100.0
	for i, caller := range callers {
		v := values(rs, bins, caller, metric)
		ymax = math.Max(ymax, floats.Max(v.ys))
		bar, err := plotter.NewBarChart(v, w)
		if err != nil {
			return err
		}
		bar.LineStyle.Width = vg.Length(0.1)
		c := color.RGBA(*randomColor(i))
		c.A = 255
		bar.Color = c
		bar.Offset = w * vg.Length(i-len(callers)/2)
		p.Add(bar)
		p.Legend.Add(caller, bar)
	}
	p.Y.Min, p.Y.Max = 0, ymax*1.05
	p.Legend.Top = true

	return p.Save(vg.Length(7)*vg.Inch, vg.Length(len(bins)+1)*vg.Inch, path)
}
