// Package market implements the market snapshot cache.
//
// The cache holds live order snapshots addressed by
// region → system → station → type. It is filled one region at a time
// from the region orders endpoint:
//   - every order in a fetch is stamped with the same UTC time
//   - each type seen in a fetch replaces that type's lists within the
//     region; types not seen are left alone
//   - replacements are built off-lock and swapped in, so readers never
//     see a half-updated list
//
// Reads never fail. A path with no data yields an empty result.
package market
