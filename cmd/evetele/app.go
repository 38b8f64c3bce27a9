package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/corriander/eve-telemetrics/internal/auth"
	"github.com/corriander/eve-telemetrics/internal/character"
	"github.com/corriander/eve-telemetrics/internal/config"
	"github.com/corriander/eve-telemetrics/internal/esi"
	"github.com/corriander/eve-telemetrics/internal/market"
	"github.com/corriander/eve-telemetrics/internal/place"
	"github.com/corriander/eve-telemetrics/internal/static"
)

var errNoSSO = errors.New("sso.refresh_token is not configured")

// app wires components from config on demand.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer

	store  static.Store
	tokens *auth.TokenSource
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}

func (a *app) esiClient(tokens esi.TokenSource) *esi.Client {
	opts := []esi.ClientOption{
		esi.WithLogger(a.logger),
		esi.WithTimeout(a.cfg.ESI.Timeout),
		esi.WithRetries(a.cfg.ESI.MaxRetries, esi.DefaultRetryBackoff),
		esi.WithPageConcurrency(a.cfg.ESI.PageConcurrency),
	}
	if tokens != nil {
		opts = append(opts, esi.WithTokenSource(tokens))
	}
	return esi.NewClient(a.cfg.ESI.BaseURL, opts...)
}

func (a *app) tokenSource() (*auth.TokenSource, error) {
	if !a.cfg.SSO.Enabled() {
		return nil, errNoSSO
	}
	if a.tokens == nil {
		sso := auth.NewSSO(a.cfg.SSO.BaseURL, a.cfg.SSO.ClientID, a.cfg.SSO.ClientSecret,
			auth.WithLogger(a.logger),
			auth.WithTimeout(a.cfg.ESI.Timeout),
		)
		a.tokens = auth.NewTokenSource(sso, a.cfg.SSO.RefreshToken)
	}
	return a.tokens, nil
}

func (a *app) character() (*character.Character, error) {
	tokens, err := a.tokenSource()
	if err != nil {
		return nil, err
	}
	return character.New(a.esiClient(tokens), tokens, a.logger), nil
}

func (a *app) openStore(ctx context.Context) (static.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	a.logger.Info("opening static data", "driver", a.cfg.Static.Driver)
	store, err := static.Open(ctx, a.cfg.Static)
	if err != nil {
		return nil, fmt.Errorf("open static data: %w", err)
	}
	a.store = store
	return store, nil
}

// resolver loads the universe and binds it to a fresh market cache.
func (a *app) resolver(ctx context.Context) (*place.Resolver, *market.Cache, error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	cache := market.NewCache(a.esiClient(nil), a.logger)
	resolver, err := place.Load(ctx, store, cache, a.logger)
	if err != nil {
		return nil, nil, err
	}
	return resolver, cache, nil
}

// parseIdent reads an id when s is numeric and a name otherwise.
func parseIdent(s string) place.Ident {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return place.ID(id)
	}
	return place.Name(s)
}
