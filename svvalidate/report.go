package svvalidate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brentp/svval/event"
	"github.com/brentp/xopen"
	"github.com/pkg/errors"
)

func writeRows(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteSummary writes the summary table as CSV.
func WriteSummary(w io.Writer, rs Results) error {
	return writeRows(w, SummaryHeader, rs.Summary())
}

// WriteDetail writes the per-metric table as CSV.
func WriteDetail(w io.Writer, rs Results) error {
	return writeRows(w, DetailHeader, rs.Detail())
}

// ParseSizeBin parses a bin label such as "1-450".
func ParseSizeBin(s string) (SizeBin, error) {
	var b SizeBin
	if _, err := fmt.Sscanf(s, "%d-%d", &b.Min, &b.Max); err != nil {
		return b, errors.Wrapf(err, "bad size bin %q", s)
	}
	if b.Max <= b.Min {
		return b, errors.Errorf("bad size bin %q", s)
	}
	return b, nil
}

// ParseStat recovers a Stat from its label. An empty label is an empty Stat.
func ParseStat(label string) (Stat, error) {
	var s Stat
	if label == "" {
		return s, nil
	}
	i := strings.IndexByte(label, '(')
	if i < 0 {
		return s, errors.Errorf("bad stat label %q", label)
	}
	if _, err := fmt.Sscanf(label[i:], "(%d / %d)", &s.Match, &s.Total); err != nil {
		return s, errors.Wrapf(err, "bad stat label %q", label)
	}
	return s, nil
}

// ReadDetail reads a table written by WriteDetail.
func ReadDetail(r io.Reader) (Results, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(DetailHeader)
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 || strings.Join(recs[0], ",") != strings.Join(DetailHeader, ",") {
		return nil, errors.New("missing detail header")
	}
	var rs Results
	for _, rec := range recs[1:] {
		bin, err := ParseSizeBin(rec[1])
		if err != nil {
			return nil, err
		}
		st, err := ParseStat(rec[5])
		if err != nil {
			return nil, err
		}
		// sensitivity comes first, precision fills in the same row.
		n := len(rs)
		if n > 0 && rs[n-1].Event == event.Type(rec[0]) && rs[n-1].Bin == bin && rs[n-1].Caller == rec[2] {
			if rec[3] == "precision" {
				rs[n-1].Precision = st
			} else {
				rs[n-1].Sensitivity = st
			}
			continue
		}
		res := Result{Event: event.Type(rec[0]), Bin: bin, Caller: rec[2]}
		if rec[3] == "precision" {
			res.Precision = st
		} else {
			res.Sensitivity = st
		}
		rs = append(rs, res)
	}
	return rs, nil
}

// WriteFiles writes <prefix>-validate.csv and <prefix>-validate-df.csv and
// returns their paths.
func WriteFiles(prefix string, rs Results) (summary, detail string, err error) {
	summary, detail = prefix+"-validate.csv", prefix+"-validate-df.csv"
	for _, f := range []struct {
		path  string
		write func(io.Writer, Results) error
	}{{summary, WriteSummary}, {detail, WriteDetail}} {
		w, err := xopen.Wopen(f.path)
		if err != nil {
			return "", "", err
		}
		if err := f.write(w, rs); err != nil {
			w.Close()
			return "", "", errors.Wrapf(err, "writing %s", f.path)
		}
		if err := w.Close(); err != nil {
			return "", "", err
		}
	}
	return summary, detail, nil
}

// UpToDate is true if every output exists and is newer than input.
func UpToDate(input string, outputs ...string) bool {
	in, err := os.Stat(input)
	if err != nil {
		return false
	}
	for _, o := range outputs {
		out, err := os.Stat(o)
		if err != nil || out.ModTime().Before(in.ModTime()) {
			return false
		}
	}
	return true
}
