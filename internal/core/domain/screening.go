package domain

import "encoding/json"

// Submission is a decision sent to the screening service for a public or
// not-public verdict.
type Submission struct {
	SourceID     int64  `json:"sourceId"`
	SourceDB     string `json:"sourceDb"`
	DecisionDate string `json:"decisionDate"`
	Jurisdiction string `json:"jurisdictionCode"`
	ClassCode    string `json:"clerkRequest"`
	Publicity    string `json:"publicityClerkRequest"`
}

// NewSubmission builds the screening submission for a decision.
func NewSubmission(d Decision) Submission {
	codes := d.Codes()
	return Submission{
		SourceID:     d.ID(),
		SourceDB:     SourceName,
		DecisionDate: d.String(FieldDate),
		Jurisdiction: d.String(FieldJurisdictionCode),
		ClassCode:    codes.ClassCode(),
		Publicity:    codes.Publicity(),
	}
}

// ScreenedDecision is a decision the screening service reached a verdict on.
type ScreenedDecision struct {
	SourceID int64  `json:"sourceId"`
	SourceDB string `json:"sourceDb"`
}

// ScreeningResult is the raw answer of the screening service, kept for audit.
type ScreeningResult map[string]any

// String renders the result as JSON.
func (r ScreeningResult) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(b)
}
