package builder

import (
	"encoding/json"
	"testing"
)

func TestPriceBreakdown(t *testing.T) {
	cfg := mustConfig(t, `{"cpu": {"id": "cpu-am4"}, "ram": [{"id": "ram-ddr4"}, {"id": "ram-ddr4"}]}`)
	catalog := testCatalog()

	breakdown := Price(cfg, catalog)
	if len(breakdown.Lines) != 3 {
		t.Fatalf("lines = %+v, want 3", breakdown.Lines)
	}
	// slot order, then in-slot order; a duplicate ref is two lines
	if breakdown.Lines[0].Slot != "cpu" || breakdown.Lines[1].Slot != "ram" || breakdown.Lines[2].Slot != "ram" {
		t.Fatalf("line order wrong: %+v", breakdown.Lines)
	}
	want := 299.0 + 59.0 + 59.0
	if breakdown.Subtotal != want {
		t.Fatalf("subtotal = %v, want %v", breakdown.Subtotal, want)
	}
	if breakdown.Total != breakdown.Subtotal {
		t.Fatalf("total = %v, want subtotal %v", breakdown.Total, breakdown.Subtotal)
	}
}

func TestDiscountArithmetic(t *testing.T) {
	cases := []struct {
		name     string
		price    float64
		discount float64
		want     float64
	}{
		{name: "zero_discount_exact", price: 299, discount: 0, want: 299},
		{name: "ten_percent", price: 100, discount: 10, want: 90},
		{name: "rounding_down", price: 99.99, discount: 15, want: 84.99},
		{name: "third_off", price: 10, discount: 33.33, want: 6.67},
		{name: "full_discount", price: 250, discount: 100, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := ComponentRecord{Price: tc.price, Discount: tc.discount}
			if got := rec.DiscountedPrice(); got != tc.want {
				t.Fatalf("DiscountedPrice(%v, %v%%) = %v, want %v", tc.price, tc.discount, got, tc.want)
			}
		})
	}
}

func TestPriceAppliesDiscounts(t *testing.T) {
	catalog := Catalog{
		"x1": {ID: "x1", Name: "Discounted", Price: 100, Discount: 25},
	}
	cfg := mustConfig(t, `{"gpu": {"id": "x1"}}`)

	breakdown := Price(cfg, catalog)
	if len(breakdown.Lines) != 1 {
		t.Fatalf("lines = %+v", breakdown.Lines)
	}
	line := breakdown.Lines[0]
	if line.UnitPrice != 75 || line.OriginalPrice != 100 || line.Discount != 25 || line.LineTotal != 75 {
		t.Fatalf("line = %+v", line)
	}
	if breakdown.Subtotal != 75 {
		t.Fatalf("subtotal = %v, want 75", breakdown.Subtotal)
	}
}

func TestPriceSkipsUnresolvedRefs(t *testing.T) {
	cfg := mustConfig(t, `{"cpu": {"id": "cpu-am4"}, "gpu": {"id": "ghost"}}`)
	breakdown := Price(cfg, testCatalog())
	if len(breakdown.Lines) != 1 || breakdown.Lines[0].ComponentID != "cpu-am4" {
		t.Fatalf("lines = %+v, want only the resolved cpu", breakdown.Lines)
	}
	if breakdown.Subtotal != 299 {
		t.Fatalf("subtotal = %v, want 299", breakdown.Subtotal)
	}
}

func TestPriceEmptyConfiguration(t *testing.T) {
	cfg := mustConfig(t, `{}`)
	breakdown := Price(cfg, testCatalog())
	if breakdown.Subtotal != 0 || breakdown.Total != 0 || len(breakdown.Lines) != 0 {
		t.Fatalf("breakdown = %+v, want zero breakdown", breakdown)
	}
}

func TestPriceDeterminism(t *testing.T) {
	raw := `{"cpu": {"id": "cpu-am4"}, "ram": [{"id": "ram-ddr4"}, {"id": "ram-ddr5"}], "storage": [{"id": "ssd-nvme"}]}`
	catalog := testCatalog()

	first, err := json.Marshal(Price(mustConfig(t, raw), catalog))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for i := 0; i < 10; i++ {
		next, err := json.Marshal(Price(mustConfig(t, raw), catalog))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(next) != string(first) {
			t.Fatalf("run %d differs:\n%s\n%s", i, next, first)
		}
	}
}
