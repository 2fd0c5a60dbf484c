package builder

import (
	"math"

	"github.com/velinpetkov/techlane-backend/internal/specmap"
)

// ComponentRecord is the immutable point-in-time view of a catalog
// component that evaluation and pricing consume. Records are resolved per
// request; the core never caches them across calls.
type ComponentRecord struct {
	ID       string
	Category string
	Name     string
	Price    float64
	Discount float64
	Specs    specmap.SpecMap
}

// DiscountedPrice is price after the component discount, rounded to 2
// decimal places. A zero discount yields the list price exactly.
func (r ComponentRecord) DiscountedPrice() float64 {
	return round2(r.Price * (1 - r.Discount/100))
}

// Catalog maps component identifier to its resolved record. Identifiers
// with no catalog match are simply absent; rule checks treat absence as
// insufficient data and skip.
type Catalog map[string]ComponentRecord

func (c Catalog) resolve(ref ComponentRef) (ComponentRecord, bool) {
	rec, ok := c[ref.ID]
	return rec, ok
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
