package builder

// PriceLine is one priced component reference. A ref appearing twice in a
// slot list produces two lines; quantity is list membership, not a
// multiplier.
type PriceLine struct {
	Slot          string  `json:"slot"`
	ComponentID   string  `json:"component_id"`
	Name          string  `json:"name"`
	UnitPrice     float64 `json:"unit_price"`
	OriginalPrice float64 `json:"original_price"`
	Discount      float64 `json:"discount"`
	LineTotal     float64 `json:"line_total"`
}

// PriceBreakdown is the aggregation output. Total equals Subtotal; no
// cart-level discount applies at this stage.
type PriceBreakdown struct {
	Subtotal float64     `json:"subtotal"`
	Total    float64     `json:"total"`
	Lines    []PriceLine `json:"lines"`
}

// Price computes the breakdown for a configuration against a catalog
// snapshot, independent of validity. Unresolvable refs contribute nothing.
// Line order follows slot submission order, then in-slot order, so output
// is byte-identical for a fixed configuration and snapshot.
func Price(cfg *Configuration, catalog Catalog) PriceBreakdown {
	breakdown := PriceBreakdown{Lines: []PriceLine{}}
	if cfg == nil {
		return breakdown
	}

	var subtotal float64
	for _, slot := range cfg.Slots() {
		sel, _ := cfg.Selection(slot)
		for _, ref := range sel.Refs {
			rec, ok := catalog.resolve(ref)
			if !ok {
				continue
			}
			unit := rec.DiscountedPrice()
			breakdown.Lines = append(breakdown.Lines, PriceLine{
				Slot:          slot,
				ComponentID:   rec.ID,
				Name:          rec.Name,
				UnitPrice:     unit,
				OriginalPrice: rec.Price,
				Discount:      rec.Discount,
				LineTotal:     unit,
			})
			subtotal += unit
		}
	}
	breakdown.Subtotal = round2(subtotal)
	breakdown.Total = breakdown.Subtotal
	return breakdown
}
