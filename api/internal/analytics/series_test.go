package analytics

import "testing"

func TestBuildViewModel(t *testing.T) {
	events := []ScanEvent{
		{LogID: "090000", UserID: "u1", Screen: "picking", Success: true},
		{LogID: "093000", UserID: "u1", Screen: "picking", Success: false},
		{LogID: "095900", UserID: "u2", Screen: "packing", Success: true},
		{LogID: "notime", UserID: "u1", Screen: "picking", Success: true},
	}
	orders := []Order{{Products: []OrderProduct{
		{ParameterProductID: "A", Amount: 2},
		{ParameterProductID: "ghost", Amount: 1},
	}}}
	params := []PlacementParameter{{ProductID: "A", Width: 100, Length: 100, Height: 100, Weight: 500}}

	vm := BuildViewModel(events, orders, params, Filters{User: "u1", Action: "picking", IntervalMinutes: 30})

	if len(vm.Buckets) != 2 {
		t.Fatalf("expected 2 buckets for u1/picking, got %#v", vm.Buckets)
	}
	if vm.Buckets[0].Time != "09:00" || vm.Buckets[1].Time != "09:30" {
		t.Fatalf("unexpected bucket labels: %#v", vm.Buckets)
	}
	if vm.SuccessTotal != 1 || vm.FailTotal != 1 || vm.Total != 2 {
		t.Fatalf("unexpected sums: %+v", vm)
	}
	if vm.Diagnostics.DroppedTimestamps != 1 {
		t.Fatalf("expected 1 dropped timestamp, got %d", vm.Diagnostics.DroppedTimestamps)
	}
	if vm.Diagnostics.UnjoinedRefs != 1 {
		t.Fatalf("expected 1 unjoined ref, got %d", vm.Diagnostics.UnjoinedRefs)
	}
	if vm.OrderCount != 1 || vm.ProductCount != 3 {
		t.Fatalf("unexpected order/product counts: %+v", vm)
	}
	if vm.TotalWeightKg != 10 {
		t.Fatalf("expected 10 kg, got %v", vm.TotalWeightKg)
	}
}

func TestBuildViewModelEmptyFilterResult(t *testing.T) {
	events := []ScanEvent{{LogID: "090000", UserID: "u1", Success: true}}
	vm := BuildViewModel(events, nil, nil, Filters{User: "nobody", Action: FilterAll, IntervalMinutes: 30})
	if len(vm.Buckets) != 0 {
		t.Fatalf("expected empty series, got %#v", vm.Buckets)
	}
	if vm.SuccessTotal != 0 || vm.FailTotal != 0 || vm.Total != 0 {
		t.Fatalf("expected all-zero sums, got %+v", vm)
	}
}

func TestBuildViewModelDefaults(t *testing.T) {
	events := []ScanEvent{{LogID: "090000", Success: true}}
	vm := BuildViewModel(events, nil, nil, Filters{})
	if len(vm.Buckets) != 1 || vm.SuccessTotal != 1 {
		t.Fatalf("empty filters should act as all/all with default interval: %+v", vm)
	}
}
