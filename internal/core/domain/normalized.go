package domain

import (
	"encoding/json"
	"fmt"
)

// LabelStatus is the state of a normalized decision in the labelling workflow.
type LabelStatus string

// Label statuses used by the collector.
const (
	LabelStatusToBeTreated LabelStatus = "toBeTreated"
	LabelStatusDone        LabelStatus = "done"
)

// NormalizedDecision is the canonical, indexing-ready representation of a
// decision shared with the labelling workflow.
//
// At most one exists per (SourceID, SourceName).
type NormalizedDecision struct {
	// ID is the store-assigned identifier.
	ID string `json:"_id,omitempty" bson:"_id,omitempty"`

	// SourceID is the source decision identifier.
	SourceID int64 `json:"sourceId" bson:"sourceId"`

	// SourceName is the source database, "jurica" for this collector.
	SourceName string `json:"sourceName" bson:"sourceName"`

	// Locked is set by the labelling workflow; a locked record is never overwritten.
	Locked bool `json:"locked" bson:"locked"`

	// LabelStatus is the labelling workflow state.
	LabelStatus LabelStatus `json:"labelStatus" bson:"labelStatus"`

	// LabelTreatments holds the labelling history.
	LabelTreatments []map[string]any `json:"labelTreatments" bson:"labelTreatments"`

	// PseudoText is the pseudonymised text, empty until labelled.
	PseudoText string `json:"pseudoText,omitempty" bson:"pseudoText,omitempty"`

	// PseudoStatus is the pseudonymisation state.
	PseudoStatus int `json:"pseudoStatus" bson:"pseudoStatus"`

	// OriginalText is the cleaned decision text.
	OriginalText string `json:"originalText,omitempty" bson:"originalText,omitempty"`

	// DateCreation is the ISO 8601 creation timestamp.
	DateCreation string `json:"dateCreation,omitempty" bson:"dateCreation,omitempty"`

	// Zoning caches the zoning result; reset on update.
	Zoning map[string]any `json:"zoning" bson:"zoning"`

	// Public is set once the screening service released the decision.
	Public *bool `json:"public,omitempty" bson:"public,omitempty"`

	// Metadata carries any other normalized attribute as returned by the
	// normalization service. Its keys are stored at the top level of the
	// document, next to the fields above.
	Metadata map[string]any `json:"-" bson:",inline"`
}

// normalizedKeys are the top-level document keys bound to a struct field.
var normalizedKeys = map[string]bool{
	"_id":             true,
	"sourceId":        true,
	"sourceName":      true,
	"locked":          true,
	"labelStatus":     true,
	"labelTreatments": true,
	"pseudoText":      true,
	"pseudoStatus":    true,
	"originalText":    true,
	"dateCreation":    true,
	"zoning":          true,
	"public":          true,
}

// normalizedFields has the fields of NormalizedDecision without its JSON methods.
type normalizedFields NormalizedDecision

// MarshalJSON writes the record as one flat document: the bound fields
// followed by the Metadata keys. A Metadata key shadowing a bound field is
// ignored.
func (n NormalizedDecision) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(normalizedFields(n))
	if err != nil {
		return nil, err
	}
	if len(n.Metadata) == 0 {
		return base, nil
	}

	flat := make(map[string]json.RawMessage, len(n.Metadata)+len(normalizedKeys))
	if err := json.Unmarshal(base, &flat); err != nil {
		return nil, err
	}
	for k, v := range n.Metadata {
		if normalizedKeys[k] {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshalling attribute %s: %w", k, err)
		}
		flat[k] = raw
	}
	return json.Marshal(flat)
}

// UnmarshalJSON reads a flat document, folding every key not bound to a
// field into Metadata.
func (n *NormalizedDecision) UnmarshalJSON(data []byte) error {
	var fields normalizedFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k, raw := range all {
		if normalizedKeys[k] {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("unmarshalling attribute %s: %w", k, err)
		}
		if fields.Metadata == nil {
			fields.Metadata = make(map[string]any)
		}
		fields.Metadata[k] = v
	}

	*n = NormalizedDecision(fields)
	return nil
}

// ResetLabelling puts the record back to the unlabelled state.
func (n *NormalizedDecision) ResetLabelling() {
	n.PseudoText = ""
	n.PseudoStatus = 0
	n.LabelStatus = LabelStatusToBeTreated
	n.LabelTreatments = []map[string]any{}
}
