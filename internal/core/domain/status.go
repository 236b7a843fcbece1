package domain

// Status is the processing status written back to a source decision (IND_ANO).
type Status int

// Source statuses.
const (
	// StatusReset asks for the decision to be processed again.
	StatusReset Status = 0

	// StatusPending marks an accepted decision awaiting labelling.
	StatusPending Status = 1

	// StatusApproved marks a decision whose labelling was reinjected.
	StatusApproved Status = 2

	// StatusErroneous marks a decision that was rejected or failed.
	StatusErroneous Status = 4
)

// ApprovalLabel is written as the status author on reinjection.
const ApprovalLabel = "LABEL"

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusReset:
		return "reset"
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusErroneous:
		return "erroneous"
	default:
		return unknownDescription
	}
}
