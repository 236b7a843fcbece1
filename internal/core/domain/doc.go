// Package domain defines the core business entities of the collector.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Decision: a source decision row keyed by Field
//   - ChangeSet: field-level differences between a decision and its mirror
//   - NormalizedDecision: the canonical record shared with labelling
//   - Zoning: character spans of the zones of a decision text
//   - RunSummary: outcome counts of a batch job
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
