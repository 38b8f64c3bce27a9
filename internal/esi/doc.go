// Package esi provides the client for the EVE Swagger Interface.
//
// Endpoints are addressed by their operation id (for example
// "markets_region_id_orders") and take simple key/value parameters.
// Path parameters are substituted, everything else goes in the query.
//
// Paged endpoints are probed with a HEAD request for page 1; the
// X-Pages header then drives a concurrent fetch of every page. Results
// are flattened in ascending page order.
//
// Base URL:
//   - https://esi.evetech.net/latest
package esi
