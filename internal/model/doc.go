// Package model defines typed ESI records that are not market orders.
//
// Market orders stay untyped (see package order); these records are
// decoded straight into structs.
//
// Conventions:
//   - ISK amounts: decimal.Decimal, never float64
//   - Timestamps: time.Time in UTC
//   - IDs: int64
package model
