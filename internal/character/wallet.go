package character

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/corriander/eve-telemetrics/internal/esi"
	"github.com/corriander/eve-telemetrics/internal/model"
)

// Wallet reads the character's ISK wallet.
type Wallet struct {
	character *Character
}

// Balance returns the current balance.
func (w *Wallet) Balance(ctx context.Context) (decimal.Decimal, error) {
	params, err := w.character.params(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	balance, err := esi.FetchOne[decimal.Decimal](ctx, w.character.client, esi.EndpointWallet, params)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch wallet balance: %w", err)
	}
	return balance, nil
}

// Journal returns the wallet journal, newest first as served by ESI.
func (w *Wallet) Journal(ctx context.Context) ([]model.JournalEntry, error) {
	params, err := w.character.params(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := esi.FetchAll[model.JournalEntry](ctx, w.character.client, esi.EndpointWalletJournal, params)
	if err != nil {
		return nil, fmt.Errorf("fetch wallet journal: %w", err)
	}
	return entries, nil
}

// Transactions returns recent market transactions.
func (w *Wallet) Transactions(ctx context.Context) ([]model.Transaction, error) {
	params, err := w.character.params(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := esi.FetchAll[model.Transaction](ctx, w.character.client, esi.EndpointWalletTransactions, params)
	if err != nil {
		return nil, fmt.Errorf("fetch wallet transactions: %w", err)
	}
	return txs, nil
}
