package builder

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/velinpetkov/techlane-backend/internal/specmap"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

func testRule(kind, name, message, config string) *types.CompatibilityRule {
	return &types.CompatibilityRule{
		ID:      uuid.New(),
		Kind:    kind,
		Name:    name,
		Message: message,
		Config:  datatypes.JSON([]byte(config)),
		Active:  true,
	}
}

func testCatalog() Catalog {
	return Catalog{
		"cpu-am4": {
			ID: "cpu-am4", Category: types.CategoryCPU, Name: "Ryzen 7 5800X", Price: 299,
			Specs: specmap.SpecMap{"socket": "AM4", "tdp": float64(105)},
		},
		"cpu-lga": {
			ID: "cpu-lga", Category: types.CategoryCPU, Name: "Core i5-13600K", Price: 319,
			Specs: specmap.SpecMap{"socket": "LGA1700", "tdp": float64(125)},
		},
		"mb-am4": {
			ID: "mb-am4", Category: types.CategoryMotherboard, Name: "B550 Tomahawk", Price: 169,
			Specs: specmap.SpecMap{
				"socket":             "AM4",
				"form_factor":        "ATX",
				"memory_types":       []interface{}{"DDR4"},
				"storage_interfaces": []interface{}{"SATA", "NVMe"},
				"tdp":                float64(35),
			},
		},
		"mb-lga": {
			ID: "mb-lga", Category: types.CategoryMotherboard, Name: "Z790 Edge", Price: 289,
			Specs: specmap.SpecMap{
				"socket":       "LGA1700",
				"form_factor":  "ATX",
				"memory_types": []interface{}{"DDR5"},
			},
		},
		"case-atx": {
			ID: "case-atx", Category: types.CategoryCase, Name: "Meshify 2", Price: 139,
			Specs: specmap.SpecMap{"form_factors": []interface{}{"ATX", "mATX", "ITX"}},
		},
		"case-itx": {
			ID: "case-itx", Category: types.CategoryCase, Name: "NR200", Price: 99,
			Specs: specmap.SpecMap{"form_factors": []interface{}{"ITX"}},
		},
		"ram-ddr4": {
			ID: "ram-ddr4", Category: types.CategoryMemory, Name: "Vengeance 16GB", Price: 59,
			Specs: specmap.SpecMap{"memory_type": "DDR4", "power_consumption": float64(5)},
		},
		"ram-ddr5": {
			ID: "ram-ddr5", Category: types.CategoryMemory, Name: "Fury 16GB", Price: 79,
			Specs: specmap.SpecMap{"memory_type": "DDR5", "power_consumption": float64(6)},
		},
		"ssd-nvme": {
			ID: "ssd-nvme", Category: types.CategoryStorage, Name: "980 Pro 1TB", Price: 109,
			Specs: specmap.SpecMap{"interface": "NVMe", "power_consumption": float64(8)},
		},
		"hdd-ide": {
			ID: "hdd-ide", Category: types.CategoryStorage, Name: "Legacy IDE 500GB", Price: 25,
			Specs: specmap.SpecMap{"interface": "IDE"},
		},
		"psu-400": {
			ID: "psu-400", Category: types.CategoryPSU, Name: "Basic 400", Price: 45,
			Specs: specmap.SpecMap{"wattage": float64(400)},
		},
		"psu-500": {
			ID: "psu-500", Category: types.CategoryPSU, Name: "Core 500", Price: 59,
			Specs: specmap.SpecMap{"wattage": float64(500)},
		},
		"gpu-480": {
			ID: "gpu-480", Category: types.CategoryGPU, Name: "Hungry GPU", Price: 599,
			Specs: specmap.SpecMap{"tdp": float64(480)},
		},
	}
}

func mustConfig(t *testing.T, raw string) *Configuration {
	t.Helper()
	var cfg Configuration
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		t.Fatalf("config %s: %v", raw, err)
	}
	return &cfg
}

func evaluate(t *testing.T, cfgJSON string, rules ...*types.CompatibilityRule) ValidationResult {
	t.Helper()
	cfg := mustConfig(t, cfgJSON)
	compiled := CompileRules(rules, nil)
	return NewEvaluator(nil).Evaluate(cfg, testCatalog(), compiled)
}

func TestSocketMismatch(t *testing.T) {
	rule := testRule(types.RuleKindSocketCompatibility, "CPU socket", "CPU and motherboard sockets do not match",
		`{"cpu_slot": "cpu", "motherboard_slot": "motherboard"}`)

	res := evaluate(t, `{"cpu": {"id": "cpu-am4"}, "motherboard": {"id": "mb-lga"}}`, rule)
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %+v, want exactly one", res.Errors)
	}
	if res.Errors[0].Slot != "motherboard" {
		t.Fatalf("error slot = %q, want motherboard", res.Errors[0].Slot)
	}
	if res.Errors[0].RuleID != rule.ID {
		t.Fatalf("error rule id = %v, want %v", res.Errors[0].RuleID, rule.ID)
	}
}

func TestSocketMatch(t *testing.T) {
	rule := testRule(types.RuleKindSocketCompatibility, "CPU socket", "mismatch",
		`{"cpu_slot": "cpu", "motherboard_slot": "motherboard"}`)

	res := evaluate(t, `{"cpu": {"id": "cpu-am4"}, "motherboard": {"id": "mb-am4"}}`, rule)
	if !res.Valid || len(res.Errors) != 0 || len(res.Warnings) != 0 {
		t.Fatalf("result = %+v, want clean pass", res)
	}
}

func TestSocketSkippedWhenComponentUnresolved(t *testing.T) {
	rule := testRule(types.RuleKindSocketCompatibility, "CPU socket", "mismatch",
		`{"cpu_slot": "cpu", "motherboard_slot": "motherboard"}`)

	res := evaluate(t, `{"cpu": {"id": "no-such-id"}, "motherboard": {"id": "mb-lga"}}`, rule)
	if !res.Valid {
		t.Fatalf("unresolved component must skip the check, got %+v", res)
	}
}

func TestFormFactor(t *testing.T) {
	rule := testRule(types.RuleKindFormFactor, "Board fits case", "motherboard does not fit the selected case",
		`{"motherboard_slot": "motherboard", "case_slot": "case"}`)

	res := evaluate(t, `{"motherboard": {"id": "mb-am4"}, "case": {"id": "case-itx"}}`, rule)
	if res.Valid || len(res.Errors) != 1 || res.Errors[0].Slot != "case" {
		t.Fatalf("result = %+v, want one error on case slot", res)
	}

	res = evaluate(t, `{"motherboard": {"id": "mb-am4"}, "case": {"id": "case-atx"}}`, rule)
	if !res.Valid {
		t.Fatalf("ATX board in ATX case must pass, got %+v", res)
	}
}

func TestMaxQuantity(t *testing.T) {
	rule := testRule(types.RuleKindMaxQuantity, "RAM slots", "too many memory modules",
		`{"slot": "ram", "max": 2}`)

	res := evaluate(t, `{"ram": [{"id": "ram-ddr4"}, {"id": "ram-ddr4"}, {"id": "ram-ddr4"}]}`, rule)
	if res.Valid || len(res.Errors) != 1 || res.Errors[0].Slot != "ram" {
		t.Fatalf("result = %+v, want one error on ram slot", res)
	}

	res = evaluate(t, `{"ram": [{"id": "ram-ddr4"}, {"id": "ram-ddr4"}]}`, rule)
	if !res.Valid {
		t.Fatalf("two modules within max 2 must pass, got %+v", res)
	}

	// single ref counts as one
	res = evaluate(t, `{"ram": {"id": "ram-ddr4"}}`, rule)
	if !res.Valid {
		t.Fatalf("single ref must count as 1, got %+v", res)
	}
}

func TestPowerRequirement(t *testing.T) {
	rule := testRule(types.RuleKindPowerRequirement, "PSU wattage", "power supply is too weak",
		`{"psu_slot": "psu"}`)

	// draw 480, PSU 400: hard error, no warning
	res := evaluate(t, `{"gpu": {"id": "gpu-480"}, "psu": {"id": "psu-400"}}`, rule)
	if res.Valid || len(res.Errors) != 1 || len(res.Warnings) != 0 {
		t.Fatalf("result = %+v, want one error and no warning", res)
	}
	if res.Errors[0].Slot != "psu" {
		t.Fatalf("error slot = %q, want psu", res.Errors[0].Slot)
	}

	// draw 480, PSU 500: covers the draw but under the 20% margin
	res = evaluate(t, `{"gpu": {"id": "gpu-480"}, "psu": {"id": "psu-500"}}`, rule)
	if !res.Valid || len(res.Errors) != 0 {
		t.Fatalf("result = %+v, want no error", res)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %+v, want exactly one", res.Warnings)
	}
	msg := res.Warnings[0].Message
	if !strings.Contains(msg, "500") || !strings.Contains(msg, "576") {
		t.Fatalf("warning message %q must report installed 500W and required 576W", msg)
	}
}

func TestPowerSumsAllItemsInCountedSlots(t *testing.T) {
	rule := testRule(types.RuleKindPowerRequirement, "PSU wattage", "power supply is too weak",
		`{"psu_slot": "psu", "slots": ["gpu", "cpu", "ram"]}`)

	// 480 + 105 + 2x5 = 595 > 500: hard error
	res := evaluate(t, `{"gpu": {"id": "gpu-480"}, "cpu": {"id": "cpu-am4"}, "ram": [{"id": "ram-ddr4"}, {"id": "ram-ddr4"}], "psu": {"id": "psu-500"}}`, rule)
	if res.Valid || len(res.Errors) != 1 {
		t.Fatalf("result = %+v, want hard error", res)
	}
}

func TestMemoryTypePerItemViolations(t *testing.T) {
	rule := testRule(types.RuleKindMemoryType, "Memory type", "memory type not supported by motherboard",
		`{"ram_slot": "ram", "motherboard_slot": "motherboard"}`)

	// one DDR4 stick (supported) + one DDR5 stick (not): exactly one error
	res := evaluate(t, `{"motherboard": {"id": "mb-am4"}, "ram": [{"id": "ram-ddr4"}, {"id": "ram-ddr5"}]}`, rule)
	if res.Valid || len(res.Errors) != 1 {
		t.Fatalf("result = %+v, want exactly one error", res)
	}
	if res.Errors[0].Slot != "ram" {
		t.Fatalf("error slot = %q, want ram", res.Errors[0].Slot)
	}

	// two unsupported sticks: two separate violations
	res = evaluate(t, `{"motherboard": {"id": "mb-am4"}, "ram": [{"id": "ram-ddr5"}, {"id": "ram-ddr5"}]}`, rule)
	if len(res.Errors) != 2 {
		t.Fatalf("errors = %+v, want two", res.Errors)
	}
}

func TestStorageInterface(t *testing.T) {
	rule := testRule(types.RuleKindStorageInterface, "Storage interface", "storage interface not supported",
		`{"storage_slot": "storage", "motherboard_slot": "motherboard"}`)

	res := evaluate(t, `{"motherboard": {"id": "mb-am4"}, "storage": [{"id": "ssd-nvme"}, {"id": "hdd-ide"}]}`, rule)
	if res.Valid || len(res.Errors) != 1 || res.Errors[0].Slot != "storage" {
		t.Fatalf("result = %+v, want one error on storage slot", res)
	}
}

func TestEmptyConfigurationIsValid(t *testing.T) {
	rules := []*types.CompatibilityRule{
		testRule(types.RuleKindSocketCompatibility, "CPU socket", "mismatch",
			`{"cpu_slot": "cpu", "motherboard_slot": "motherboard"}`),
		testRule(types.RuleKindPowerRequirement, "PSU wattage", "too weak", `{"psu_slot": "psu"}`),
	}
	res := evaluate(t, `{}`, rules...)
	if !res.Valid || len(res.Errors) != 0 || len(res.Warnings) != 0 {
		t.Fatalf("empty configuration must pass cleanly, got %+v", res)
	}
}

func TestMalformedRuleConfigIsSkipped(t *testing.T) {
	cases := []struct {
		name string
		rule *types.CompatibilityRule
	}{
		{
			name: "socket_missing_slots",
			rule: testRule(types.RuleKindSocketCompatibility, "CPU socket", "mismatch", `{"field": "socket"}`),
		},
		{
			name: "max_quantity_missing_max",
			rule: testRule(types.RuleKindMaxQuantity, "RAM slots", "too many", `{"slot": "ram"}`),
		},
		{
			name: "empty_config",
			rule: testRule(types.RuleKindPowerRequirement, "PSU wattage", "too weak", ``),
		},
		{
			name: "not_json",
			rule: testRule(types.RuleKindFormFactor, "Fit", "no fit", `not json`),
		},
		{
			name: "unknown_kind",
			rule: testRule("teleport_check", "Odd", "odd", `{}`),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := evaluate(t, `{"cpu": {"id": "cpu-am4"}, "motherboard": {"id": "mb-lga"}, "ram": [{"id": "ram-ddr4"}, {"id": "ram-ddr4"}, {"id": "ram-ddr4"}]}`, tc.rule)
			if !res.Valid || len(res.Errors) != 0 || len(res.Warnings) != 0 {
				t.Fatalf("malformed rule must be skipped, got %+v", res)
			}
		})
	}
}

func TestInactiveRuleDoesNotRun(t *testing.T) {
	rule := testRule(types.RuleKindSocketCompatibility, "CPU socket", "mismatch",
		`{"cpu_slot": "cpu", "motherboard_slot": "motherboard"}`)
	rule.Active = false

	res := evaluate(t, `{"cpu": {"id": "cpu-am4"}, "motherboard": {"id": "mb-lga"}}`, rule)
	if !res.Valid {
		t.Fatalf("inactive rule must not fire, got %+v", res)
	}
}

func TestCustomRuleIsNoOp(t *testing.T) {
	rule := testRule(types.RuleKindCustom, "Future", "never fires", `{"anything": true}`)
	res := evaluate(t, `{"cpu": {"id": "cpu-am4"}}`, rule)
	if !res.Valid || len(res.Errors) != 0 || len(res.Warnings) != 0 {
		t.Fatalf("custom rule must be a no-op, got %+v", res)
	}
}

func TestViolationsPreserveRuleOrder(t *testing.T) {
	first := testRule(types.RuleKindSocketCompatibility, "A socket", "socket mismatch",
		`{"cpu_slot": "cpu", "motherboard_slot": "motherboard"}`)
	second := testRule(types.RuleKindMemoryType, "B memory", "memory mismatch",
		`{"ram_slot": "ram", "motherboard_slot": "motherboard"}`)

	res := evaluate(t, `{"cpu": {"id": "cpu-am4"}, "motherboard": {"id": "mb-lga"}, "ram": [{"id": "ram-ddr4"}]}`, first, second)
	if len(res.Errors) != 2 {
		t.Fatalf("errors = %+v, want two", res.Errors)
	}
	if res.Errors[0].RuleName != "A socket" || res.Errors[1].RuleName != "B memory" {
		t.Fatalf("errors out of rule order: %+v", res.Errors)
	}
}
