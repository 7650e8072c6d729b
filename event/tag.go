package event

import (
	"strings"

	"github.com/pkg/errors"
)

// Tag is a single caller/event pair from a BED name column such as
// "DEL_lumpy,cnv3_cnvkit".
type Tag struct {
	// Event is the event part of the tag before the first '_' (e.g. DEL, cnv3, UKN).
	Event string
	// Caller is everything after the first '_'. It may be empty for bare breakends.
	Caller string
	// Raw is the tag as it appeared in the file.
	Raw string
}

func (t Tag) String() string {
	return t.Raw
}

// ParseTag splits a raw tag on the first '_'. Copy-number tags are validated
// here so that a bad file fails on load rather than halfway through an evaluation.
func ParseTag(raw string) (Tag, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Tag{}, ErrEmptyTag
	}
	t := Tag{Raw: raw, Event: raw}
	if i := strings.IndexByte(raw, '_'); i >= 0 {
		t.Event, t.Caller = raw[:i], raw[i+1:]
	}
	if IsCNV(raw) {
		if _, err := CopyNumber(raw); err != nil {
			return Tag{}, err
		}
	}
	return t, nil
}

// ParseLabel decodes a comma-separated label into tags.
func ParseLabel(label string) ([]Tag, error) {
	if label == "" {
		return nil, nil
	}
	toks := strings.Split(label, ",")
	tags := make([]Tag, 0, len(toks))
	for _, tok := range toks {
		t, err := ParseTag(tok)
		if err != nil {
			return nil, errors.Wrapf(err, "label %q", label)
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// FormatLabel is the inverse of ParseLabel.
func FormatLabel(tags []Tag) string {
	raws := make([]string, len(tags))
	for i, t := range tags {
		raws[i] = t.Raw
	}
	return strings.Join(raws, ",")
}

// Type classifies the event part of the tag.
func (t Tag) Type(ploidy int) (Type, error) {
	return Classify(t.Event, ploidy)
}

// IsBreakend is true for tags beginning with BND.
func (t Tag) IsBreakend() bool {
	return strings.HasPrefix(t.Raw, string(BND))
}

// wham reports unknown (UKN) events; those are allowed to match deletions.
var whamAllowed = map[Type]map[string]bool{
	DEL: {"DEL": true, "UKN": true},
	DUP: {"DUP": true},
	INV: {"INV": true},
}

// whamMatches looks only at the first two '_' separated parts of the tag, so
// "UKN_wham_x" still counts as a wham call.
func (t Tag) whamMatches(svtype Type) bool {
	parts := strings.Split(t.Raw, "_")
	if len(parts) < 2 || parts[1] != "wham" {
		return false
	}
	allowed, ok := whamAllowed[svtype]
	return ok && allowed[parts[0]]
}

// Matches reports whether the tag supports an event of svtype from caller.
// The aggregate Ensemble caller accepts tags from any caller.
func (t Tag) Matches(caller string, svtype Type, ploidy int) (bool, error) {
	if caller != Ensemble && t.Caller != caller {
		return false, nil
	}
	if strings.HasPrefix(t.Raw, string(svtype)) || t.IsBreakend() || t.whamMatches(svtype) {
		return true, nil
	}
	if !IsCNV(t.Raw) {
		return false, nil
	}
	typ, err := Classify(t.Raw, ploidy)
	if err != nil {
		return false, err
	}
	return typ == svtype, nil
}

// AnyMatch is true if any of the tags match.
func AnyMatch(tags []Tag, caller string, svtype Type, ploidy int) (bool, error) {
	for _, t := range tags {
		ok, err := t.Matches(caller, svtype, ploidy)
		if err != nil {
			return false, errors.Wrapf(err, "matching %s", t)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
