// Package place resolves regions, solar systems, stations and items by
// id or name.
//
// A Resolver hands out one shared instance per id and variant. Metadata
// comes from the preloaded static universe and is fixed once the
// instance exists. Entities address their slice of the market cache:
//
//	Region  [region]
//	System  [region, system]
//	Station [region, system, station]
//
// Regions are the unit of market updates. Systems and stations delegate
// UpdateMarket to their region.
package place
