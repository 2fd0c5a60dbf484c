package builder

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestConfigurationUnmarshal(t *testing.T) {
	raw := `{
		"cpu": {"id": "c1", "name": "Ryzen 5 7600"},
		"ram": [{"id": "r1"}, {"id": "r2"}],
		"storage": [{"id": "s1"}]
	}`

	var cfg Configuration
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	wantOrder := []string{"cpu", "ram", "storage"}
	if !reflect.DeepEqual(cfg.Slots(), wantOrder) {
		t.Fatalf("slot order = %v, want %v", cfg.Slots(), wantOrder)
	}

	cpu, ok := cfg.Selection("cpu")
	if !ok || cpu.Count() != 1 || cpu.Refs[0].ID != "c1" {
		t.Fatalf("cpu selection = %+v", cpu)
	}
	ram, ok := cfg.Selection("ram")
	if !ok || ram.Count() != 2 {
		t.Fatalf("ram selection = %+v", ram)
	}
}

func TestConfigurationRejectsNonMapping(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "array_root", raw: `[{"id": "c1"}]`},
		{name: "scalar_root", raw: `"cpu"`},
		{name: "number_root", raw: `42`},
		{name: "scalar_slot_value", raw: `{"cpu": "c1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Configuration
			if err := json.Unmarshal([]byte(tc.raw), &cfg); err == nil {
				t.Fatalf("expected error for %s", tc.raw)
			}
		})
	}
}

func TestComponentIDsDeduplicated(t *testing.T) {
	raw := `{"ram": [{"id": "r1"}, {"id": "r1"}, {"id": "r2"}], "cpu": {"id": "c1"}}`
	var cfg Configuration
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"r1", "r2", "c1"}
	if got := cfg.ComponentIDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ComponentIDs() = %v, want %v", got, want)
	}
}

func TestConfigurationMarshalPreservesOrder(t *testing.T) {
	raw := `{"storage":[{"id":"s1"}],"cpu":{"id":"c1"},"ram":[{"id":"r1"},{"id":"r2"}]}`
	var cfg Configuration
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != raw {
		t.Fatalf("round-trip = %s, want %s", out, raw)
	}
}

func TestEmptyConfiguration(t *testing.T) {
	var cfg Configuration
	if err := json.Unmarshal([]byte(`{}`), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !cfg.Empty() {
		t.Fatal("expected empty configuration")
	}
	if ids := cfg.ComponentIDs(); len(ids) != 0 {
		t.Fatalf("ComponentIDs() = %v, want none", ids)
	}
}
