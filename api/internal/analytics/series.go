package analytics

// Filters is the transient selection applied to a day of scan data.
type Filters struct {
	User            string
	Action          string
	IntervalMinutes int
}

// Diagnostics counts records silently excluded during aggregation. The
// exclusions themselves are load-bearing compatibility behavior; the counts
// exist so operators can see them without changing any aggregate output.
type Diagnostics struct {
	DroppedTimestamps int `json:"droppedTimestamps"`
	UnjoinedRefs      int `json:"unjoinedRefs"`
}

// ViewModel is the complete chart-ready result for one day and one filter
// selection.
type ViewModel struct {
	Buckets       []TimeBucket `json:"buckets"`
	SuccessTotal  int          `json:"successTotal"`
	FailTotal     int          `json:"failTotal"`
	Total         int          `json:"total"`
	OrderCount    int          `json:"orderCount"`
	ProductCount  int          `json:"productCount"`
	TotalWeightKg float64      `json:"totalWeightKg"`
	TotalVolumeM3 float64      `json:"totalVolumeM3"`
	Diagnostics   Diagnostics  `json:"diagnostics"`
}

// BuildViewModel is the single pure reducer over already-fetched
// collections: filter, bucketize, join, and reduce in one pass. Inputs are
// never mutated; every call recomputes the whole model.
func BuildViewModel(events []ScanEvent, orders []Order, params []PlacementParameter, f Filters) ViewModel {
	user := f.User
	if user == "" {
		user = FilterAll
	}
	action := f.Action
	if action == "" {
		action = FilterAll
	}
	interval := f.IntervalMinutes
	if interval == 0 {
		interval = DefaultInterval
	}

	filtered := Filter(events, user, action)
	buckets, dropped := Bucketize(filtered, interval)
	totals := Aggregate(orders, params)

	vm := ViewModel{
		Buckets:       buckets,
		OrderCount:    totals.OrderCount,
		ProductCount:  totals.ProductCount,
		TotalWeightKg: totals.TotalWeightKg,
		TotalVolumeM3: totals.TotalVolumeM3,
		Diagnostics: Diagnostics{
			DroppedTimestamps: dropped,
			UnjoinedRefs:      totals.UnjoinedRefs,
		},
	}
	for _, b := range buckets {
		vm.SuccessTotal += b.SuccessCount
		vm.FailTotal += b.FailCount
		vm.Total += b.Total
	}
	return vm
}
