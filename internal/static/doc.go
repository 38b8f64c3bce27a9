// Package static reads the EVE static data export (SDE).
//
// The SDE is an external, read-only relational database. Two backends
// are supported:
//   - PGStore: a Postgres conversion, queried through a pgx pool
//   - SQLiteStore: a SQLite conversion, queried through gorm
//
// Both answer point lookups of an id by name and load the universe
// tables (regions, systems, stations, item types) into memory once.
package static
