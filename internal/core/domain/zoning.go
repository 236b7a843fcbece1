package domain

import (
	"bytes"
	"encoding/json"
)

// Zone names required to rebuild a partially public decision.
const (
	ZoneIntroduction = "introduction"
	ZoneDispositif   = "dispositif"
)

// Span is a character range [Start, End) of a decision text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Zone is the list of spans of one zone. The zoning service returns either a
// single span object or an array of spans; both decode into a Zone.
type Zone []Span

// UnmarshalJSON accepts a span object or an array of span objects.
func (z *Zone) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*z = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var spans []Span
		if err := json.Unmarshal(trimmed, &spans); err != nil {
			return err
		}
		*z = spans
		return nil
	}
	var span Span
	if err := json.Unmarshal(trimmed, &span); err != nil {
		return err
	}
	*z = Zone{span}
	return nil
}

// Zoning is the result of the zoning service for a decision text.
type Zoning struct {
	// Zones maps zone names to their spans.
	Zones map[string]Zone `json:"zones"`

	// Detail is set by the zoning service when it could not zone the text.
	Detail any `json:"detail,omitempty"`
}
