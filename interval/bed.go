package interval

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/brentp/svval/event"
	"github.com/brentp/xopen"
	"github.com/pkg/errors"
)

func isHeader(line string) bool {
	return line == "" || line[0] == '#' || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser")
}

// ParseLine reads chrom, start, end and the optional comma-separated name
// column of a BED line.
func ParseLine(line string) (Interval, error) {
	return parseLine(line, true)
}

func parseLine(line string, tags bool) (Interval, error) {
	toks := strings.Fields(line)
	if len(toks) < 3 {
		return Interval{}, errors.Errorf("expected at least 3 fields in bed line: %q", line)
	}
	start, err := strconv.Atoi(toks[1])
	if err != nil {
		return Interval{}, errors.Wrapf(err, "bad start in %q", line)
	}
	end, err := strconv.Atoi(toks[2])
	if err != nil {
		return Interval{}, errors.Wrapf(err, "bad end in %q", line)
	}
	if start < 0 || end < start {
		return Interval{}, errors.Errorf("invalid interval %s:%d-%d", toks[0], start, end)
	}
	iv := Interval{Chrom: toks[0], Start: start, End: end}
	if tags && len(toks) > 3 {
		if iv.Tags, err = event.ParseLabel(toks[3]); err != nil {
			return Interval{}, err
		}
	}
	return iv, nil
}

// Read parses BED intervals from r, decoding the name column into tags.
func Read(r io.Reader) (Set, error) {
	return read(r, true)
}

// ReadRegions parses chrom, start and end from r and ignores any other column.
// Use it for truth sets whose names are never matched against callers.
func ReadRegions(r io.Reader) (Set, error) {
	return read(r, false)
}

func read(r io.Reader, tags bool) (Set, error) {
	br := bufio.NewReader(r)
	s := make(Set, 0, 1024)
	for k := 1; ; k++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if l := strings.TrimRight(line, "\r\n"); !isHeader(l) {
			iv, perr := parseLine(l, tags)
			if perr != nil {
				return nil, errors.Wrapf(perr, "line %d", k)
			}
			s = append(s, iv)
		}
		if err == io.EOF {
			break
		}
	}
	return s, nil
}

// ReadBed reads a (possibly gzipped) BED file of tagged calls.
func ReadBed(p string) (Set, error) {
	return readPath(p, true)
}

// ReadRegionsBed reads a (possibly gzipped) BED file without decoding names.
func ReadRegionsBed(p string) (Set, error) {
	return readPath(p, false)
}

func readPath(p string, tags bool) (Set, error) {
	fh, err := xopen.Ropen(p)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", p)
	}
	defer fh.Close()
	s, err := read(fh, tags)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", p)
	}
	log.Printf("read %d intervals from %s", len(s), p)
	return s, nil
}
