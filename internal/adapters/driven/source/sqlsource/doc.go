// Package sqlsource reads court-of-appeal decisions from the relational
// source database and writes their processing status back.
//
// Two database/sql handles are used: one for the decisions and NAC tables,
// one for the occultation blocks, which may live in another database. The
// production driver is pgx; the pure Go SQLite driver serves local runs and
// tests. Column names are read upper-cased, whatever the case the database
// reports them in.
package sqlsource
