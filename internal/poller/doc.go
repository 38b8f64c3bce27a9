// Package poller implements the market refresher.
//
// The refresher:
//   - Updates every configured region's market orders on an interval
//   - Runs regions concurrently, bounded by a semaphore
//   - Bounds each region update with a timeout
//   - Hands each refreshed region to an optional handler
package poller
