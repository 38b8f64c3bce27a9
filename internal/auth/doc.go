// Package auth talks to EVE SSO.
//
// Only the refresh-token grant is supported: the refresh token is
// obtained once out of band and stored in config. TokenSource exchanges
// it for short-lived access tokens and caches them for ESI requests.
package auth
