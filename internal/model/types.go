package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CharacterInfo is a character's public information.
type CharacterInfo struct {
	Name           string    `json:"name"`
	CorporationID  int64     `json:"corporation_id"`
	AllianceID     int64     `json:"alliance_id,omitempty"`
	Birthday       time.Time `json:"birthday"`
	Gender         string    `json:"gender"`
	RaceID         int64     `json:"race_id"`
	BloodlineID    int64     `json:"bloodline_id"`
	SecurityStatus float64   `json:"security_status"`
	Description    string    `json:"description,omitempty"`
}

// -----------------------------------------------------------------------------
// Wallet
// -----------------------------------------------------------------------------

// JournalEntry is one line of the wallet journal.
type JournalEntry struct {
	ID            int64           `json:"id"`
	Date          time.Time       `json:"date"`
	RefType       string          `json:"ref_type"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`  // Negative for debits
	Balance       decimal.Decimal `json:"balance"` // Wallet balance after the entry
	FirstPartyID  int64           `json:"first_party_id,omitempty"`
	SecondPartyID int64           `json:"second_party_id,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	ContextID     int64           `json:"context_id,omitempty"`
	ContextIDType string          `json:"context_id_type,omitempty"`
	Tax           decimal.Decimal `json:"tax,omitempty"`
	TaxReceiverID int64           `json:"tax_receiver_id,omitempty"`
}

// IsCredit reports whether the entry added ISK.
func (e JournalEntry) IsCredit() bool {
	return e.Amount.IsPositive()
}

// Transaction is one market transaction.
type Transaction struct {
	TransactionID int64           `json:"transaction_id"`
	Date          time.Time       `json:"date"`
	TypeID        int64           `json:"type_id"`
	LocationID    int64           `json:"location_id"`
	ClientID      int64           `json:"client_id"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	IsBuy         bool            `json:"is_buy"`
	IsPersonal    bool            `json:"is_personal"`
	JournalRefID  int64           `json:"journal_ref_id"`
}

// Total is the ISK value of the transaction.
func (t Transaction) Total() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(t.Quantity))
}

// Summary aggregates a set of transactions.
type Summary struct {
	Bought decimal.Decimal
	Sold   decimal.Decimal
	Count  int
}

// Net is sales minus purchases.
func (s Summary) Net() decimal.Decimal {
	return s.Sold.Sub(s.Bought)
}

// Summarize totals purchases and sales.
func Summarize(txs []Transaction) Summary {
	s := Summary{Bought: decimal.Zero, Sold: decimal.Zero, Count: len(txs)}
	for _, tx := range txs {
		if tx.IsBuy {
			s.Bought = s.Bought.Add(tx.Total())
		} else {
			s.Sold = s.Sold.Add(tx.Total())
		}
	}
	return s
}
