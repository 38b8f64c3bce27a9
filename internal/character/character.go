package character

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corriander/eve-telemetrics/internal/auth"
	"github.com/corriander/eve-telemetrics/internal/esi"
	"github.com/corriander/eve-telemetrics/internal/model"
	"github.com/corriander/eve-telemetrics/internal/order"
)

// Verifier identifies the character behind the current access token.
// *auth.TokenSource satisfies it.
type Verifier interface {
	Verify(ctx context.Context) (*auth.Verification, error)
}

// Character is the authenticated character.
type Character struct {
	client   *esi.Client
	verifier Verifier
	logger   *slog.Logger
	now      func() time.Time

	identity order.Memo[*auth.Verification]
}

// New creates a character reading through client. client must carry a
// token source for the same character verifier identifies.
func New(client *esi.Client, verifier Verifier, logger *slog.Logger) *Character {
	if logger == nil {
		logger = slog.Default()
	}
	return &Character{
		client:   client,
		verifier: verifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (c *Character) verify(ctx context.Context) (*auth.Verification, error) {
	return c.identity.Get(func() (*auth.Verification, error) {
		v, err := c.verifier.Verify(ctx)
		if err != nil {
			return nil, fmt.Errorf("verify character: %w", err)
		}
		c.logger.Info("character verified", "character_id", v.CharacterID, "name", v.CharacterName)
		return v, nil
	})
}

// ID returns the character id.
func (c *Character) ID(ctx context.Context) (int64, error) {
	v, err := c.verify(ctx)
	if err != nil {
		return 0, err
	}
	return v.CharacterID, nil
}

// Name returns the character name.
func (c *Character) Name(ctx context.Context) (string, error) {
	v, err := c.verify(ctx)
	if err != nil {
		return "", err
	}
	return v.CharacterName, nil
}

func (c *Character) params(ctx context.Context) (esi.Params, error) {
	id, err := c.ID(ctx)
	if err != nil {
		return nil, err
	}
	return esi.Params{"character_id": id}, nil
}

// Info returns the character's public information.
func (c *Character) Info(ctx context.Context) (model.CharacterInfo, error) {
	params, err := c.params(ctx)
	if err != nil {
		return model.CharacterInfo{}, err
	}
	return esi.FetchOne[model.CharacterInfo](ctx, c.client, esi.EndpointCharacterPublicInfo, params)
}

// OpenOrders returns the character's active orders, each stamped with
// the fetch time.
func (c *Character) OpenOrders(ctx context.Context) ([]*order.Snapshot, error) {
	params, err := c.params(ctx)
	if err != nil {
		return nil, err
	}
	records, err := c.client.FetchRecords(ctx, esi.EndpointCharacterOrders, params)
	if err != nil {
		return nil, fmt.Errorf("fetch open orders: %w", err)
	}

	t := c.now().UTC()
	out := make([]*order.Snapshot, len(records))
	for i, rec := range records {
		out[i] = order.NewSnapshot(order.Data(rec), t)
	}
	return out, nil
}

// HistoricOrders returns the character's expired and cancelled orders.
func (c *Character) HistoricOrders(ctx context.Context) ([]*order.Simple, error) {
	params, err := c.params(ctx)
	if err != nil {
		return nil, err
	}
	records, err := c.client.FetchRecords(ctx, esi.EndpointCharacterHistory, params)
	if err != nil {
		return nil, fmt.Errorf("fetch order history: %w", err)
	}

	out := make([]*order.Simple, len(records))
	for i, rec := range records {
		out[i] = order.New(order.Data(rec))
	}
	return out, nil
}

// Wallet returns the character's wallet.
func (c *Character) Wallet() *Wallet {
	return &Wallet{character: c}
}
