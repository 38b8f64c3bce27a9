package esi

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Operation ids used by this module.
const (
	EndpointMarketOrders        = "markets_region_id_orders"
	EndpointCharacterOrders     = "characters_character_id_orders"
	EndpointCharacterHistory    = "characters_character_id_orders_history"
	EndpointWallet              = "characters_character_id_wallet"
	EndpointWalletJournal       = "characters_character_id_wallet_journal"
	EndpointWalletTransactions  = "characters_character_id_wallet_transactions"
	EndpointCharacterPublicInfo = "characters_character_id"
)

// Params holds request parameters. Values are formatted with fmt.
type Params map[string]any

// Endpoint describes one ESI operation.
type Endpoint struct {
	ID       string
	Path     string // {name} placeholders are filled from Params
	Paged    bool
	Defaults map[string]string
}

var catalogue = map[string]Endpoint{
	EndpointMarketOrders: {
		ID:       EndpointMarketOrders,
		Path:     "/markets/{region_id}/orders/",
		Paged:    true,
		Defaults: map[string]string{"order_type": "all"},
	},
	EndpointCharacterOrders: {
		ID:   EndpointCharacterOrders,
		Path: "/characters/{character_id}/orders/",
	},
	EndpointCharacterHistory: {
		ID:    EndpointCharacterHistory,
		Path:  "/characters/{character_id}/orders/history/",
		Paged: true,
	},
	EndpointWallet: {
		ID:   EndpointWallet,
		Path: "/characters/{character_id}/wallet/",
	},
	EndpointWalletJournal: {
		ID:    EndpointWalletJournal,
		Path:  "/characters/{character_id}/wallet/journal/",
		Paged: true,
	},
	EndpointWalletTransactions: {
		ID:   EndpointWalletTransactions,
		Path: "/characters/{character_id}/wallet/transactions/",
	},
	EndpointCharacterPublicInfo: {
		ID:   EndpointCharacterPublicInfo,
		Path: "/characters/{character_id}/",
	},
}

// Lookup returns the catalogued endpoint for id.
func Lookup(id string) (Endpoint, bool) {
	ep, ok := catalogue[id]
	return ep, ok
}

// Endpoints lists the catalogued operation ids.
func Endpoints() []string {
	ids := make([]string, 0, len(catalogue))
	for id := range catalogue {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// build resolves the request path and query for params.
func (e Endpoint) build(params Params) (string, url.Values, error) {
	path := e.Path
	query := url.Values{"datasource": {"tranquility"}}
	for k, v := range e.Defaults {
		query.Set(k, v)
	}

	for k, v := range params {
		value := fmt.Sprint(v)
		placeholder := "{" + k + "}"
		if strings.Contains(path, placeholder) {
			path = strings.ReplaceAll(path, placeholder, url.PathEscape(value))
			continue
		}
		query.Set(k, value)
	}

	if i := strings.IndexByte(path, '{'); i >= 0 {
		name := path[i+1:]
		if j := strings.IndexByte(name, '}'); j >= 0 {
			name = name[:j]
		}
		return "", nil, fmt.Errorf("%s: missing path parameter %s", e.ID, name)
	}
	return path, query, nil
}
