// Package event classifies structural-variant caller tags into event types.
package event

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Type is a canonical event type such as DEL or DUP. Callers may report
// labels outside the fixed set and those are kept verbatim.
type Type string

const (
	DEL Type = "DEL"
	DUP Type = "DUP"
	INV Type = "INV"
	INS Type = "INS"
	BND Type = "BND"
)

// Ensemble is the name of the aggregate caller that combines all others.
const Ensemble = "sv-ensemble"

// ErrMalformedTag is returned when a copy-number tag can't be parsed.
var ErrMalformedTag = errors.New("malformed copy-number tag")

// ErrEmptyTag is returned for an empty entry in a comma-separated label.
var ErrEmptyTag = errors.New("empty tag")

const cnvPrefix = "cnv"

// IsCNV reports whether the raw tag is a copy-number call (e.g. cnv1_cnvkit).
func IsCNV(raw string) bool {
	return strings.HasPrefix(raw, cnvPrefix)
}

// CopyNumber returns the largest copy-number encoded in a tag like
// "cnv0;1_cnvkit". Only the part before the first '_' is considered.
func CopyNumber(raw string) (int, error) {
	if !IsCNV(raw) {
		return 0, errors.Wrapf(ErrMalformedTag, "%q is not a copy-number tag", raw)
	}
	seg := raw
	if i := strings.IndexByte(seg, '_'); i >= 0 {
		seg = seg[:i]
	}
	seg = strings.TrimPrefix(seg, cnvPrefix)
	cn := -1
	for _, s := range strings.Split(seg, ";") {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, errors.Wrapf(ErrMalformedTag, "%q: %s", raw, err)
		}
		if v > cn {
			cn = v
		}
	}
	return cn, nil
}

// Classify resolves a raw tag to its event type. Copy-number tags become DEL
// or DUP relative to ploidy; a copy-number equal to ploidy, and any
// non copy-number tag, is returned unchanged.
func Classify(raw string, ploidy int) (Type, error) {
	if !IsCNV(raw) {
		return Type(raw), nil
	}
	cn, err := CopyNumber(raw)
	if err != nil {
		return "", err
	}
	if cn < ploidy {
		return DEL, nil
	}
	if cn > ploidy {
		return DUP, nil
	}
	return Type(raw), nil
}
