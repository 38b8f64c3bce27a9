// Package character reads a single character's orders and wallet from
// ESI. The character is identified lazily by verifying the access
// token.
package character
