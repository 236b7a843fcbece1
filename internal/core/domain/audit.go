package domain

// Origin names the store an audited decision belongs to.
type Origin string

// Origins understood by the indexing service.
const (
	// OriginRaw is the raw mirror of court-of-appeal decisions.
	OriginRaw Origin = "ca"

	// OriginNormalized is the normalized decision store.
	OriginNormalized Origin = "sder"
)

// AuditEntry is one line of a decision's history, recorded by the indexing
// service. Exactly one of Decision and Normalized is set.
type AuditEntry struct {
	Origin     Origin
	Decision   Decision
	Normalized *NormalizedDecision

	// DuplicateID references another decision this one duplicates; empty
	// when there is none.
	DuplicateID string

	Message string
	Err     error
}

// RawAudit builds an audit entry for a raw decision.
func RawAudit(d Decision, message string) AuditEntry {
	return AuditEntry{Origin: OriginRaw, Decision: d, Message: message}
}

// NormalizedAudit builds an audit entry for a normalized decision.
func NormalizedAudit(n *NormalizedDecision, message string) AuditEntry {
	return AuditEntry{Origin: OriginNormalized, Normalized: n, Message: message}
}

// WithError attaches an error to the entry.
func (e AuditEntry) WithError(err error) AuditEntry {
	e.Err = err
	return e
}
