package records

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"warehouse-ops-dashboard/shared/config"
	"warehouse-ops-dashboard/shared/storex"
)

func newFetcher(t *testing.T, nodes map[string]string) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if body, ok := nodes[r.URL.Path]; ok {
			w.Write([]byte(body))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	store, err := storex.New(config.Config{
		StoreBaseURL:   srv.URL,
		StorePrefix:    "release",
		StoreTimeoutMS: 2000,
	})
	if err != nil {
		t.Fatalf("store client: %v", err)
	}
	return NewFetcher(store, nil, 0)
}

func TestDayEventsLiftsLogID(t *testing.T) {
	f := newFetcher(t, map[string]string{
		"/release/logging_db/Scanning/2026/3/9.json": `{
			"090000": {"userId":"u1","screen":"picking","success":true},
			"093000": {"userId":"u2","screen":"packing","success":"false"}
		}`,
	})

	events, err := f.DayEvents(context.Background(), "2026", "3", "9")
	if err != nil {
		t.Fatalf("day events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for _, e := range events {
		if e.LogID == "" {
			t.Fatalf("logId not lifted from key: %#v", e)
		}
	}
}

func TestDayEventsAbsentDayIsEmpty(t *testing.T) {
	f := newFetcher(t, nil)
	events, err := f.DayEvents(context.Background(), "2026", "3", "9")
	if err != nil {
		t.Fatalf("expected no error for absent day, got %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected empty slice, got %#v", events)
	}
}

func TestMonthsWithDataSorted(t *testing.T) {
	f := newFetcher(t, map[string]string{
		"/release/logging_db/Scanning/2026.json": `{"10":{"1":{}},"2":{"5":{}},"9":{"3":{}}}`,
	})
	months, err := f.MonthsWithData(context.Background(), "2026")
	if err != nil {
		t.Fatalf("months: %v", err)
	}
	if !reflect.DeepEqual(months, []string{"2", "9", "10"}) {
		t.Fatalf("unexpected months: %#v", months)
	}
}

func TestOrdersAndParams(t *testing.T) {
	f := newFetcher(t, map[string]string{
		"/release/orders_DB_V3.json": `{
			"o1": {"statusId": 2, "products": [{"parameterProductId":"A","amount":2}]}
		}`,
		"/release/placement_db.json": `{
			"p1": {"productId":"A","width":100,"length":100,"height":100,"weight":500}
		}`,
	})

	orders, err := f.Orders(context.Background())
	if err != nil || len(orders) != 1 {
		t.Fatalf("orders: %v %#v", err, orders)
	}
	if orders[0].Products[0].ParameterProductID != "A" {
		t.Fatalf("unexpected order: %#v", orders[0])
	}

	params, err := f.PlacementParams(context.Background())
	if err != nil || len(params) != 1 {
		t.Fatalf("params: %v %#v", err, params)
	}
	if params[0].Weight != 500 {
		t.Fatalf("unexpected param: %#v", params[0])
	}
}
