package esi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Record is one decoded JSON object from a list endpoint. Numbers are
// json.Number.
type Record = map[string]any

// Fetch retrieves endpoint and returns the decoded body. Paged
// endpoints return every page's elements as a single []any.
func (c *Client) Fetch(ctx context.Context, endpoint string, params Params) (any, error) {
	ep, ok := Lookup(endpoint)
	if !ok {
		return nil, fmt.Errorf("unknown endpoint %q", endpoint)
	}
	if ep.Paged {
		return FetchAll[any](ctx, c, endpoint, params)
	}

	bodies, err := c.pages(ctx, ep, params)
	if err != nil {
		return nil, err
	}
	var out any
	if err := decode(bodies[0], &out); err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	return out, nil
}

// FetchRecords retrieves a list endpoint as raw records.
func (c *Client) FetchRecords(ctx context.Context, endpoint string, params Params) ([]Record, error) {
	return FetchAll[Record](ctx, c, endpoint, params)
}

// FetchAll retrieves a list endpoint and decodes every page into T,
// concatenated in page order.
func FetchAll[T any](ctx context.Context, c *Client, endpoint string, params Params) ([]T, error) {
	ep, ok := Lookup(endpoint)
	if !ok {
		return nil, fmt.Errorf("unknown endpoint %q", endpoint)
	}

	bodies, err := c.pages(ctx, ep, params)
	if err != nil {
		return nil, err
	}

	var all []T
	for i, body := range bodies {
		var page []T
		if err := decode(body, &page); err != nil {
			return nil, fmt.Errorf("%s page %d: %w", endpoint, i+1, err)
		}
		all = append(all, page...)
	}
	return all, nil
}

// FetchOne retrieves a single-page endpoint into T.
func FetchOne[T any](ctx context.Context, c *Client, endpoint string, params Params) (T, error) {
	var out T
	ep, ok := Lookup(endpoint)
	if !ok {
		return out, fmt.Errorf("unknown endpoint %q", endpoint)
	}
	if ep.Paged {
		return out, fmt.Errorf("%s is paged", endpoint)
	}

	bodies, err := c.pages(ctx, ep, params)
	if err != nil {
		return out, err
	}
	if err := decode(bodies[0], &out); err != nil {
		return out, fmt.Errorf("%s: %w", endpoint, err)
	}
	return out, nil
}

// pages returns the raw body of every page in ascending page order.
func (c *Client) pages(ctx context.Context, ep Endpoint, params Params) ([][]byte, error) {
	path, query, err := ep.build(params)
	if err != nil {
		return nil, err
	}

	if !ep.Paged {
		resp, err := c.doWithRetry(ctx, http.MethodGet, path, query)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", ep.ID, err)
		}
		return [][]byte{resp.body}, nil
	}

	n, err := c.pageCount(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", ep.ID, err)
	}

	c.logger.Debug("fetching pages", "endpoint", ep.ID, "pages", n)

	bodies := make([][]byte, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.pageConcurrency)
	for i := range n {
		page := i + 1
		g.Go(func() error {
			q := cloneValues(query)
			q.Set("page", strconv.Itoa(page))
			resp, err := c.doWithRetry(gctx, http.MethodGet, path, q)
			if err != nil {
				return fmt.Errorf("get %s page %d: %w", ep.ID, page, err)
			}
			bodies[i] = resp.body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bodies, nil
}

// pageCount issues a HEAD for page 1 and reads X-Pages. Anything but a
// 200 is a TransportFault.
func (c *Client) pageCount(ctx context.Context, path string, query url.Values) (int, error) {
	q := cloneValues(query)
	q.Set("page", "1")

	resp, err := c.doWithRetry(ctx, http.MethodHead, path, q)
	if err != nil {
		return 0, err
	}
	if resp.status != http.StatusOK {
		return 0, &TransportFault{
			Path:       path,
			StatusCode: resp.status,
			Message:    http.StatusText(resp.status),
		}
	}

	raw := resp.header.Get("X-Pages")
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid X-Pages header %q", raw)
	}
	return n, nil
}

func decode(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
