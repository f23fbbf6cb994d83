package analytics

import (
	"reflect"
	"testing"
)

func TestFilterAllIsIdentity(t *testing.T) {
	events := []ScanEvent{
		{LogID: "090000", UserID: "u1", Screen: "picking", Success: true},
		{LogID: "091000", Success: false},
	}
	got := Filter(events, FilterAll, FilterAll)
	if !reflect.DeepEqual(got, events) {
		t.Fatalf("expected identity, got %#v", got)
	}
}

func TestFilterExactMatch(t *testing.T) {
	events := []ScanEvent{
		{LogID: "090000", UserID: "u1", Screen: "picking"},
		{LogID: "091000", UserID: "u2", Screen: "picking"},
		{LogID: "092000", UserID: "u1", Screen: "packing"},
	}

	got := Filter(events, "u1", FilterAll)
	if len(got) != 2 {
		t.Fatalf("expected 2 events for u1, got %d", len(got))
	}

	got = Filter(events, "u1", "picking")
	if len(got) != 1 || got[0].LogID != "090000" {
		t.Fatalf("unexpected result: %#v", got)
	}
}

func TestFilterAbsentFieldNeverMatchesConcreteValue(t *testing.T) {
	events := []ScanEvent{{LogID: "090000"}}
	if got := Filter(events, "u1", FilterAll); len(got) != 0 {
		t.Fatalf("absent userId must not match u1: %#v", got)
	}
	if got := Filter(events, FilterAll, "picking"); len(got) != 0 {
		t.Fatalf("absent action must not match picking: %#v", got)
	}
	if got := Filter(events, FilterAll, FilterAll); len(got) != 1 {
		t.Fatalf("absent fields must match the all sentinel: %#v", got)
	}
}

func TestFilterLegacyActionName(t *testing.T) {
	events := []ScanEvent{{LogID: "090000", ActionName: "sorting"}}
	if got := Filter(events, FilterAll, "sorting"); len(got) != 1 {
		t.Fatalf("actionName fallback not matched: %#v", got)
	}
}

func TestDistinctUsersAndActions(t *testing.T) {
	events := []ScanEvent{
		{UserID: "u1", Screen: "picking"},
		{UserID: "u2", Screen: "picking"},
		{UserID: "u1", ActionName: "packing"},
		{},
	}
	if got := DistinctUsers(events); !reflect.DeepEqual(got, []string{"u1", "u2"}) {
		t.Fatalf("unexpected users: %#v", got)
	}
	if got := DistinctActions(events); !reflect.DeepEqual(got, []string{"picking", "packing"}) {
		t.Fatalf("unexpected actions: %#v", got)
	}
}
