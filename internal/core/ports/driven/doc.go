// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SourceStore: Reads decisions from and writes statuses to the source database
//   - ReferenceStore: Reads the NAC and occultation reference tables
//   - RawDecisionStore: Raw mirror persistence
//   - DecisionStore: Normalized decision persistence
//   - SyncStateStore: Sync progress persistence
//   - IndexingService: Normalization, zoning, publication policy and audit history
//   - ScreeningService: Public/not-public screening of decisions
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - WhitelistLoader: Without it, the whitelist is empty.
//   - RunRecorder: Without it, no run metrics are kept.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
