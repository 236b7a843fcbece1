package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SourceName identifies decisions collected from the court-of-appeal database
// in the normalized store and in the screening service.
const SourceName = "jurica"

// Decision is one decision row keyed by column. It carries the source columns
// as read, the derived fields added by the enricher, and, once mirrored, the
// _id and _indexed markers.
//
// A key that is present with a nil value is distinct from a missing key.
type Decision map[Field]any

// ID returns the source identifier, preferring the mirror _id.
// Returns 0 when neither key holds an integer value.
func (d Decision) ID() int64 {
	if id, ok := toInt64(d[FieldMirrorID]); ok {
		return id
	}
	id, _ := toInt64(d[FieldID])
	return id
}

// Has reports whether the key is present, even with a nil value.
func (d Decision) Has(f Field) bool {
	_, ok := d[f]
	return ok
}

// String returns the value of f as a string. Missing and nil values yield "".
func (d Decision) String(f Field) string {
	switch v := d[f].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the value of f as an integer and whether it could be read as one.
func (d Decision) Int(f Field) (int64, bool) {
	return toInt64(d[f])
}

// Date reads f as a calendar date at midnight, local time. Text values are
// read as year-month-day; anything after the day digits is ignored.
func (d Decision) Date(f Field) (time.Time, error) {
	switch v := d[f].(type) {
	case nil:
		return time.Time{}, fmt.Errorf("%w: %s is not set", ErrInvalidInput, f)
	case time.Time:
		y, m, day := v.Date()
		return time.Date(y, m, day, 0, 0, 0, 0, time.Local), nil
	default:
		return ParseDate(d.String(f))
	}
}

// ParseDate reads a year-month-day date at midnight, local time. Out of
// range months and days roll over into the next period.
func ParseDate(s string) (time.Time, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 3)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, s)
	}
	var ymd [3]int
	for i, p := range parts {
		n, err := leadingInt(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, s)
		}
		ymd[i] = n
	}
	return time.Date(ymd[0], time.Month(ymd[1]), ymd[2], 0, 0, 0, 0, time.Local), nil
}

func leadingInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return strconv.Atoi(s[:end])
}

// Clone returns a shallow copy of the decision. Values are shared.
func (d Decision) Clone() Decision {
	c := make(Decision, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}

// Codes returns the classification codes driving publication policy.
func (d Decision) Codes() PublicationCodes {
	codes := PublicationCodes{
		NAC:     d.String(FieldNAC),
		NACPart: d.String(FieldNACPart),
	}
	if flag, ok := d.Int(FieldPublicFlag); ok {
		v := int(flag)
		codes.PublicFlag = &v
	}
	return codes
}

// Serialized returns the JSON form of the value held for f, or "" when the
// key is missing. Two decisions hold the same value for f when their
// serialized forms are equal. Times are serialized in UTC to the
// millisecond, the precision kept by the document stores.
func (d Decision) Serialized(f Field) string {
	v, ok := d[f]
	if !ok {
		return ""
	}
	if t, isTime := v.(time.Time); isTime {
		v = t.UTC().Truncate(time.Millisecond)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// Attributes are extra columns merged into a decision from a reference table.
type Attributes map[Field]any

// PublicationCodes are the classification codes of a decision.
type PublicationCodes struct {
	// NAC is the case nature code.
	NAC string `json:"codeNac"`

	// NACPart is the optional nature code complement.
	NACPart string `json:"codeNacPart,omitempty"`

	// PublicFlag is the public indicator set by the court (nil when unset).
	PublicFlag *int `json:"publicFlag"`
}

// ClassCode returns the NAC code joined with its complement, e.g. "4AA-12".
func (c PublicationCodes) ClassCode() string {
	if c.NACPart == "" {
		return c.NAC
	}
	return c.NAC + "-" + c.NACPart
}

// Publicity describes the court's public indicator for the screening service.
func (c PublicationCodes) Publicity() string {
	switch {
	case c.PublicFlag == nil:
		return PublicityUnspecified
	case *c.PublicFlag == 1:
		return PublicityPublic
	default:
		return PublicityNotPublic
	}
}

// Publicity values sent with a screening submission.
const (
	PublicityUnspecified = "unspecified"
	PublicityPublic      = "public"
	PublicityNotPublic   = "notPublic"
)

// toInt64 reads integers from the shapes produced by SQL drivers, JSON and
// BSON decoding.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	case []byte:
		i, err := strconv.ParseInt(strings.TrimSpace(string(n)), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
