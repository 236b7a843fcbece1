// Package mongo provides the MongoDB implementation of the document stores,
// the layout used in production:
//
//   - rawJurica: raw mirror of source decisions, keyed by source identifier
//   - decisions: normalized decisions, unique per (sourceId, sourceName)
//   - syncStates: sync progress, keyed by source database name
//
// The store uses the official go.mongodb.org/mongo-driver client. Indexes are
// created when the store is opened.
package mongo
