package analytics

// Order is a fulfillment record joined for the weight/volume summary.
type Order struct {
	StatusID int            `json:"statusId"`
	Products []OrderProduct `json:"products"`
}

// OrderProduct is one order line item referencing a placement parameter.
type OrderProduct struct {
	ParameterProductID string  `json:"parameterProductId"`
	Amount             float64 `json:"amount"`
}

// PlacementParameter holds the physical attributes of a product. Dimensions
// and weight are stored pre-scaled by 100.
type PlacementParameter struct {
	ProductID string  `json:"productId"`
	Width     float64 `json:"width"`
	Length    float64 `json:"length"`
	Height    float64 `json:"height"`
	Weight    float64 `json:"weight"`
}

// Totals carries the headline aggregates of the join stage.
type Totals struct {
	OrderCount    int
	ProductCount  int
	TotalWeightKg float64
	TotalVolumeM3 float64
	UnjoinedRefs  int
}

// Aggregate cross-references order line items against placement parameters
// by product id and accumulates total weight and volume. Unmatched
// references contribute nothing and are counted, not raised: that is an
// accepted data-quality gap in the source records. Weight and volume
// accumulate independently, so a zero dimension zeroes only the volume
// contribution.
func Aggregate(orders []Order, params []PlacementParameter) Totals {
	byProduct := make(map[string]PlacementParameter, len(params))
	for _, p := range params {
		byProduct[p.ProductID] = p
	}

	t := Totals{OrderCount: len(orders)}
	for _, o := range orders {
		for _, item := range o.Products {
			t.ProductCount += int(item.Amount)
			p, ok := byProduct[item.ParameterProductID]
			if !ok {
				t.UnjoinedRefs++
				continue
			}
			t.TotalWeightKg += p.Weight / 100 * item.Amount
			t.TotalVolumeM3 += (p.Width / 100) * (p.Length / 100) * (p.Height / 100) * item.Amount
		}
	}
	return t
}
