package esi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// pagedServer serves /markets/{region}/orders/ with the given number of
// pages, each holding two orders whose ids encode the page number.
func pagedServer(t *testing.T, pages int, heads *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets/10000042/orders/" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/markets/10000042/orders/")
		}
		if got := r.URL.Query().Get("order_type"); got != "all" {
			t.Errorf("order_type = %q, want %q", got, "all")
		}
		w.Header().Set("X-Pages", fmt.Sprint(pages))

		if r.Method == http.MethodHead {
			atomic.AddInt32(heads, 1)
			if got := r.URL.Query().Get("page"); got != "1" {
				t.Errorf("HEAD page = %q, want 1", got)
			}
			return
		}

		var page int
		fmt.Sscan(r.URL.Query().Get("page"), &page)
		// Later pages answer first to exercise ordering.
		time.Sleep(time.Duration(pages-page) * 5 * time.Millisecond)
		json.NewEncoder(w).Encode([]map[string]any{
			{"order_id": page*100 + 1, "type_id": 40},
			{"order_id": page*100 + 2, "type_id": 506},
		})
	}))
}

func TestFetchRecords_Paged(t *testing.T) {
	var heads int32
	server := pagedServer(t, 3, &heads)
	defer server.Close()

	c := NewClient(server.URL, WithPageConcurrency(3))
	records, err := c.FetchRecords(context.Background(), EndpointMarketOrders, Params{"region_id": 10000042})
	if err != nil {
		t.Fatalf("FetchRecords failed: %v", err)
	}

	if heads != 1 {
		t.Errorf("HEAD requests = %d, want 1", heads)
	}
	if len(records) != 6 {
		t.Fatalf("len(records) = %d, want 6", len(records))
	}

	want := []string{"101", "102", "201", "202", "301", "302"}
	for i, rec := range records {
		got := rec["order_id"].(json.Number).String()
		if got != want[i] {
			t.Errorf("records[%d].order_id = %s, want %s", i, got, want[i])
		}
	}
}

func TestFetchRecords_TypeFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type_id"); got != "34" {
			t.Errorf("type_id = %q, want %q", got, "34")
		}
		if r.Method == http.MethodHead {
			return
		}
		w.Write([]byte(`[{"order_id": 1, "type_id": 34}]`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	records, err := c.FetchRecords(context.Background(), EndpointMarketOrders, Params{"region_id": 1, "type_id": 34})
	if err != nil {
		t.Fatalf("FetchRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("len(records) = %d, want 1 (missing X-Pages means one page)", len(records))
	}
}

func TestFetch_HeadFault(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"no content", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gets int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodHead {
					atomic.AddInt32(&gets, 1)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			c := NewClient(server.URL, WithRetries(0, 0))
			_, err := c.Fetch(context.Background(), EndpointMarketOrders, Params{"region_id": 1})

			var fault *TransportFault
			if !errors.As(err, &fault) {
				t.Fatalf("err = %v, want *TransportFault", err)
			}
			if fault.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", fault.StatusCode, tt.status)
			}
			if gets != 0 {
				t.Errorf("GET requests = %d, want 0", gets)
			}
		})
	}
}

func TestFetch_PageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pages", "2")
		if r.Method == http.MethodHead {
			return
		}
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.FetchRecords(context.Background(), EndpointMarketOrders, Params{"region_id": 1})
	if err == nil || !strings.Contains(err.Error(), "page 2") {
		t.Fatalf("err = %v, want page 2 failure", err)
	}
}

func TestFetch_Unpaged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			t.Error("unexpected HEAD for unpaged endpoint")
		}
		if r.URL.Path != "/characters/2112625428/wallet/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`29500.01`))
	}))
	defer server.Close()

	c := NewClient(server.URL)

	v, err := c.Fetch(context.Background(), EndpointWallet, Params{"character_id": 2112625428})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if v.(json.Number).String() != "29500.01" {
		t.Errorf("Fetch() = %v, want 29500.01", v)
	}

	n, err := FetchOne[json.Number](context.Background(), c, EndpointWallet, Params{"character_id": 2112625428})
	if err != nil {
		t.Fatalf("FetchOne failed: %v", err)
	}
	if n.String() != "29500.01" {
		t.Errorf("FetchOne() = %v, want 29500.01", n)
	}
}

func TestFetch_UnknownEndpoint(t *testing.T) {
	c := NewClient("http://127.0.0.1:0")
	if _, err := c.Fetch(context.Background(), "nope", nil); err == nil {
		t.Error("expected error for unknown endpoint")
	}
	if _, err := FetchOne[any](context.Background(), c, EndpointMarketOrders, Params{"region_id": 1}); err == nil {
		t.Error("expected error for FetchOne on paged endpoint")
	}
}

func TestEndpointBuild(t *testing.T) {
	ep, ok := Lookup(EndpointCharacterHistory)
	if !ok {
		t.Fatal("history endpoint not catalogued")
	}

	path, query, err := ep.build(Params{"character_id": 42, "extra": "x"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if path != "/characters/42/orders/history/" {
		t.Errorf("path = %q", path)
	}
	if query.Get("extra") != "x" {
		t.Errorf("extra = %q, want x", query.Get("extra"))
	}
	if query.Get("datasource") != "tranquility" {
		t.Errorf("datasource = %q, want tranquility", query.Get("datasource"))
	}
	if query.Has("character_id") {
		t.Error("path parameter leaked into query")
	}

	_, _, err = ep.build(nil)
	if err == nil || !strings.Contains(err.Error(), "character_id") {
		t.Errorf("err = %v, want missing character_id", err)
	}
}

func TestEndpoints(t *testing.T) {
	ids := Endpoints()
	if len(ids) != 7 {
		t.Errorf("len(Endpoints()) = %d, want 7", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Errorf("Endpoints() not sorted: %v", ids)
		}
	}
}
