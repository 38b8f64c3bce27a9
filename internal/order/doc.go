// Package order models market orders as they are observed.
//
// Three escalating views exist:
//   - Simple wraps the raw key/value data of one order and derives
//     issue time, expiry and identity fields from it on demand
//   - Snapshot is a Simple plus the moment it was observed
//   - Versioned folds snapshots of one order id into a history keyed
//     by observation time
//
// Order data is never schema validated. Missing or malformed fields
// surface as typed errors (ParseError, MissingFieldError) at first
// access.
package order
