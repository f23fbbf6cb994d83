package analytics

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateScenario(t *testing.T) {
	orders := []Order{{
		StatusID: 1,
		Products: []OrderProduct{{ParameterProductID: "A", Amount: 2}},
	}}
	params := []PlacementParameter{{
		ProductID: "A", Width: 100, Length: 100, Height: 100, Weight: 500,
	}}

	got := Aggregate(orders, params)
	if !almostEqual(got.TotalWeightKg, 10) {
		t.Fatalf("expected 10 kg, got %v", got.TotalWeightKg)
	}
	if !almostEqual(got.TotalVolumeM3, 2) {
		t.Fatalf("expected 2 m3 (2 x 1m3), got %v", got.TotalVolumeM3)
	}
	if got.OrderCount != 1 || got.ProductCount != 2 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if got.UnjoinedRefs != 0 {
		t.Fatalf("expected 0 unjoined refs, got %d", got.UnjoinedRefs)
	}
}

func TestAggregateUnmatchedRefSkipped(t *testing.T) {
	orders := []Order{{
		Products: []OrderProduct{
			{ParameterProductID: "missing", Amount: 3},
			{ParameterProductID: "B", Amount: 1},
		},
	}}
	params := []PlacementParameter{{ProductID: "B", Width: 50, Length: 50, Height: 50, Weight: 200}}

	got := Aggregate(orders, params)
	if got.UnjoinedRefs != 1 {
		t.Fatalf("expected 1 unjoined ref, got %d", got.UnjoinedRefs)
	}
	if !almostEqual(got.TotalWeightKg, 2) {
		t.Fatalf("expected 2 kg from product B only, got %v", got.TotalWeightKg)
	}
	if !almostEqual(got.TotalVolumeM3, 0.125) {
		t.Fatalf("expected 0.125 m3, got %v", got.TotalVolumeM3)
	}
}

func TestAggregateMissingDimensionZeroesVolumeOnly(t *testing.T) {
	orders := []Order{{Products: []OrderProduct{{ParameterProductID: "C", Amount: 1}}}}
	params := []PlacementParameter{{ProductID: "C", Width: 0, Length: 100, Height: 100, Weight: 300}}

	got := Aggregate(orders, params)
	if !almostEqual(got.TotalVolumeM3, 0) {
		t.Fatalf("expected 0 m3, got %v", got.TotalVolumeM3)
	}
	if !almostEqual(got.TotalWeightKg, 3) {
		t.Fatalf("expected weight unaffected at 3 kg, got %v", got.TotalWeightKg)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	orders := []Order{
		{Products: []OrderProduct{{ParameterProductID: "A", Amount: 1}}},
		{Products: []OrderProduct{{ParameterProductID: "B", Amount: 4}}},
	}
	params := []PlacementParameter{
		{ProductID: "A", Width: 100, Length: 50, Height: 20, Weight: 150},
		{ProductID: "B", Width: 30, Length: 30, Height: 30, Weight: 75},
	}

	forward := Aggregate(orders, params)
	reversedOrders := []Order{orders[1], orders[0]}
	reversedParams := []PlacementParameter{params[1], params[0]}
	backward := Aggregate(reversedOrders, reversedParams)

	if !almostEqual(forward.TotalWeightKg, backward.TotalWeightKg) ||
		!almostEqual(forward.TotalVolumeM3, backward.TotalVolumeM3) {
		t.Fatalf("join is input-order dependent: %+v vs %+v", forward, backward)
	}
}

func TestAggregateEmptyInputs(t *testing.T) {
	got := Aggregate(nil, nil)
	if got.OrderCount != 0 || got.ProductCount != 0 ||
		got.TotalWeightKg != 0 || got.TotalVolumeM3 != 0 || got.UnjoinedRefs != 0 {
		t.Fatalf("expected zero totals, got %+v", got)
	}
}
