package domain

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Change holds the serialized old and new values of one field.
// An empty value means the field was absent.
type Change struct {
	Old string `json:"old,omitempty"`
	New string `json:"new,omitempty"`
}

// ChangeSet is the result of comparing a re-collected decision with its
// mirrored copy.
type ChangeSet struct {
	// Changes maps every differing updatable field to its values.
	Changes map[Field]Change

	// Anomaly is set when a field that should never change did.
	Anomaly bool

	// Reprocess is set when a change invalidates prior pseudonymisation.
	Reprocess bool
}

// Empty reports whether no field differs.
func (c *ChangeSet) Empty() bool {
	return c == nil || len(c.Changes) == 0
}

// Changelog renders the changes as a JSON object, fields in the order of
// UpdatableFields.
func (c *ChangeSet) Changelog() string {
	if c.Empty() {
		return "null"
	}
	order := make([]Field, 0, len(c.Changes))
	for _, f := range UpdatableFields {
		if _, ok := c.Changes[f]; ok {
			order = append(order, f)
		}
	}
	if len(order) < len(c.Changes) {
		known := NewFieldSet(order...)
		var rest []Field
		for f := range c.Changes {
			if !known.Has(f) {
				rest = append(rest, f)
			}
		}
		sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
		order = append(order, rest...)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(string(f))
		value, _ := json.Marshal(c.Changes[f])
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.String()
}

// Candidate is a decision retained for storage.
type Candidate struct {
	Decision Decision

	// Changes is nil for first-time collection and for re-collected
	// decisions that were never mirrored.
	Changes *ChangeSet
}

// Rejection is a decision excluded from storage and why.
type Rejection struct {
	Decision Decision
	Reason   string
}

// FilterResult partitions a batch into collected and rejected decisions.
type FilterResult struct {
	Collected []Candidate
	Rejected  []Rejection
}

// Rejection reasons.
const (
	ReasonTooOld            = "decision is too old"
	ReasonTooEarly          = "decision is too early"
	ReasonAlreadyCollected  = "decision already collected"
	ReasonNoSignificantDiff = "decision has no significant difference"
)
