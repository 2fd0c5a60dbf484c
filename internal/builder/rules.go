package builder

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

// CompiledRule is an active compatibility rule with its config blob decoded
// into the typed form for its kind. Compilation happens once when the rule
// snapshot is loaded, not per evaluation.
type CompiledRule struct {
	ID      uuid.UUID
	Kind    string
	Name    string
	Message string
	check   checkFunc
}

// checkFunc inspects a configuration against a catalog snapshot and appends
// any violations. A nil check means the rule participates in no evaluation
// (the custom kind, reserved as an extension point).
type checkFunc func(cfg *Configuration, catalog Catalog, out *ValidationResult, rule *CompiledRule)

// Per-kind configs. Pointer fields distinguish "absent" from zero values;
// a blob missing a required field compiles to a skipped rule.

type maxQuantityConfig struct {
	Slot string `json:"slot"`
	Max  *int   `json:"max"`
}

type socketConfig struct {
	CPUSlot         string `json:"cpu_slot"`
	MotherboardSlot string `json:"motherboard_slot"`
	Field           string `json:"field"`
}

type formFactorConfig struct {
	MotherboardSlot string `json:"motherboard_slot"`
	CaseSlot        string `json:"case_slot"`
	Field           string `json:"field"`
}

type powerConfig struct {
	PSUSlot string   `json:"psu_slot"`
	Field   string   `json:"field"`
	Slots   []string `json:"slots"`
}

type memoryTypeConfig struct {
	RAMSlot         string `json:"ram_slot"`
	MotherboardSlot string `json:"motherboard_slot"`
	Field           string `json:"field"`
}

type storageInterfaceConfig struct {
	StorageSlot     string `json:"storage_slot"`
	MotherboardSlot string `json:"motherboard_slot"`
	Field           string `json:"field"`
}

// CompileRules decodes every active rule into its typed form, preserving
// store order. Rules whose config blob is missing required fields are
// dropped from the compiled set: admin data problems must never surface as
// user-facing failures, but they are logged so they stay discoverable.
func CompileRules(rules []*types.CompatibilityRule, log *logger.Logger) []CompiledRule {
	compiled := make([]CompiledRule, 0, len(rules))
	for _, rule := range rules {
		if rule == nil || !rule.Active {
			continue
		}
		cr, ok := compileRule(rule)
		if !ok {
			if log != nil {
				log.Debug("Skipping rule with incomplete config", "rule_id", rule.ID, "kind", rule.Kind)
			}
			continue
		}
		compiled = append(compiled, cr)
	}
	return compiled
}

func compileRule(rule *types.CompatibilityRule) (CompiledRule, bool) {
	cr := CompiledRule{
		ID:      rule.ID,
		Kind:    rule.Kind,
		Name:    rule.Name,
		Message: rule.Message,
	}

	switch rule.Kind {
	case types.RuleKindMaxQuantity:
		var cfg maxQuantityConfig
		if !decodeConfig(rule.Config, &cfg) || cfg.Slot == "" || cfg.Max == nil {
			return cr, false
		}
		cr.check = cfg.check
	case types.RuleKindSocketCompatibility:
		var cfg socketConfig
		if !decodeConfig(rule.Config, &cfg) || cfg.CPUSlot == "" || cfg.MotherboardSlot == "" {
			return cr, false
		}
		cr.check = cfg.check
	case types.RuleKindFormFactor:
		var cfg formFactorConfig
		if !decodeConfig(rule.Config, &cfg) || cfg.MotherboardSlot == "" || cfg.CaseSlot == "" {
			return cr, false
		}
		cr.check = cfg.check
	case types.RuleKindPowerRequirement:
		var cfg powerConfig
		if !decodeConfig(rule.Config, &cfg) || cfg.PSUSlot == "" {
			return cr, false
		}
		cr.check = cfg.check
	case types.RuleKindMemoryType:
		var cfg memoryTypeConfig
		if !decodeConfig(rule.Config, &cfg) || cfg.RAMSlot == "" || cfg.MotherboardSlot == "" {
			return cr, false
		}
		cr.check = cfg.check
	case types.RuleKindStorageInterface:
		var cfg storageInterfaceConfig
		if !decodeConfig(rule.Config, &cfg) || cfg.StorageSlot == "" || cfg.MotherboardSlot == "" {
			return cr, false
		}
		cr.check = cfg.check
	case types.RuleKindCustom:
		// Reserved extension point: compiles, checks nothing.
		cr.check = nil
	default:
		return cr, false
	}
	return cr, true
}

func decodeConfig(blob []byte, into interface{}) bool {
	if len(blob) == 0 {
		return false
	}
	return json.Unmarshal(blob, into) == nil
}
