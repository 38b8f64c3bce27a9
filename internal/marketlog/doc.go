// Package marketlog imports market logs exported by the game client.
//
// The client writes CSV files under <client data>/logs/Marketlogs,
// either a region/item order book or a "My Orders" export. Rows are
// normalised to the field names ESI uses so the resulting orders read
// the same as API-sourced ones.
package marketlog
