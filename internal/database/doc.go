// Package database opens the connection to the static data export.
//
// Two backends are supported:
//   - PostgreSQL through a pgx pool (a Fuzzwork style SDE dump)
//   - SQLite through gorm (a single-file SDE conversion)
//
// Both are opened read-only; nothing in evetele writes to the SDE.
package database
