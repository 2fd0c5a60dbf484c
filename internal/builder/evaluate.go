package builder

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/velinpetkov/techlane-backend/internal/logger"
)

// PSU headroom factor: total draw above wattage/1.20 earns a warning even
// when the supply technically covers it.
const powerHeadroom = 1.20

// Violation is a single rule hit. Slot points at the offending component
// selector so the client can highlight it.
type Violation struct {
	RuleID   uuid.UUID `json:"rule_id"`
	RuleName string    `json:"rule_name"`
	Message  string    `json:"message"`
	Slot     string    `json:"slot"`
}

// ValidationResult is the full outcome of evaluating a configuration.
// Violations are expected output, not errors: callers must look at Valid
// and the lists, never at a transport status.
type ValidationResult struct {
	Valid    bool        `json:"valid"`
	Errors   []Violation `json:"errors"`
	Warnings []Violation `json:"warnings"`
}

func (r *ValidationResult) addError(rule *CompiledRule, slot, message string) {
	r.Errors = append(r.Errors, Violation{RuleID: rule.ID, RuleName: rule.Name, Message: message, Slot: slot})
}

func (r *ValidationResult) addWarning(rule *CompiledRule, slot, message string) {
	r.Warnings = append(r.Warnings, Violation{RuleID: rule.ID, RuleName: rule.Name, Message: message, Slot: slot})
}

type Evaluator struct {
	log *logger.Logger
}

func NewEvaluator(baseLog *logger.Logger) *Evaluator {
	var evalLog *logger.Logger
	if baseLog != nil {
		evalLog = baseLog.With("component", "Evaluator")
	}
	return &Evaluator{log: evalLog}
}

// Evaluate runs every compiled rule against the configuration and the
// resolved catalog snapshot. Rules never short-circuit each other; errors
// and warnings accumulate in rule order. Unresolvable components cause the
// affected check to skip rather than fail.
func (e *Evaluator) Evaluate(cfg *Configuration, catalog Catalog, rules []CompiledRule) ValidationResult {
	result := ValidationResult{
		Errors:   []Violation{},
		Warnings: []Violation{},
	}
	if cfg == nil {
		result.Valid = true
		return result
	}
	for i := range rules {
		rule := &rules[i]
		if rule.check == nil {
			continue
		}
		rule.check(cfg, catalog, &result, rule)
	}
	result.Valid = len(result.Errors) == 0
	return result
}

// fieldKeys builds the lookup chain for a configurable field name: the
// admin-provided name first, then the conventional fallbacks.
func fieldKeys(field string, fallbacks ...string) []string {
	if field == "" {
		return fallbacks
	}
	return append([]string{field}, fallbacks...)
}

// firstResolved resolves the leading ref of a slot, the component a
// pairwise rule compares.
func firstResolved(cfg *Configuration, catalog Catalog, slot string) (ComponentRecord, bool) {
	sel, ok := cfg.Selection(slot)
	if !ok || len(sel.Refs) == 0 {
		return ComponentRecord{}, false
	}
	return catalog.resolve(sel.Refs[0])
}

func (c maxQuantityConfig) check(cfg *Configuration, _ Catalog, out *ValidationResult, rule *CompiledRule) {
	sel, ok := cfg.Selection(c.Slot)
	if !ok {
		return
	}
	if sel.Count() > *c.Max {
		out.addError(rule, c.Slot, rule.Message)
	}
}

func (c socketConfig) check(cfg *Configuration, catalog Catalog, out *ValidationResult, rule *CompiledRule) {
	cpu, ok := firstResolved(cfg, catalog, c.CPUSlot)
	if !ok {
		return
	}
	board, ok := firstResolved(cfg, catalog, c.MotherboardSlot)
	if !ok {
		return
	}
	keys := fieldKeys(c.Field, "socket")
	cpuSocket, ok := cpu.Specs.String(keys...)
	if !ok {
		return
	}
	boardSocket, ok := board.Specs.String(keys...)
	if !ok {
		return
	}
	// Exact string comparison; case or whitespace differences are real
	// mismatches by contract.
	if cpuSocket != boardSocket {
		out.addError(rule, c.MotherboardSlot, rule.Message)
	}
}

func (c formFactorConfig) check(cfg *Configuration, catalog Catalog, out *ValidationResult, rule *CompiledRule) {
	board, ok := firstResolved(cfg, catalog, c.MotherboardSlot)
	if !ok {
		return
	}
	chassis, ok := firstResolved(cfg, catalog, c.CaseSlot)
	if !ok {
		return
	}
	boardFormFactor, ok := board.Specs.String(fieldKeys(c.Field, "form_factor")...)
	if !ok {
		return
	}
	supported, ok := chassis.Specs.StringList(fieldKeys(c.Field, "form_factors")...)
	if !ok {
		return
	}
	for _, ff := range supported {
		if ff == boardFormFactor {
			return
		}
	}
	out.addError(rule, c.CaseSlot, rule.Message)
}

func (c powerConfig) check(cfg *Configuration, catalog Catalog, out *ValidationResult, rule *CompiledRule) {
	psu, ok := firstResolved(cfg, catalog, c.PSUSlot)
	if !ok {
		return
	}
	wattage, ok := psu.Specs.Float(fieldKeys(c.Field, "wattage")...)
	if !ok {
		return
	}

	counted := c.Slots
	if len(counted) == 0 {
		for _, slot := range cfg.Slots() {
			if slot != c.PSUSlot {
				counted = append(counted, slot)
			}
		}
	}

	drawKeys := fieldKeys(c.Field, "tdp", "power_consumption")
	var totalDraw float64
	for _, slot := range counted {
		sel, ok := cfg.Selection(slot)
		if !ok {
			continue
		}
		for _, ref := range sel.Refs {
			rec, ok := catalog.resolve(ref)
			if !ok {
				continue
			}
			if draw, ok := rec.Specs.Float(drawKeys...); ok {
				totalDraw += draw
			}
		}
	}

	switch {
	case wattage < totalDraw:
		out.addError(rule, c.PSUSlot, rule.Message)
	case wattage < totalDraw*powerHeadroom:
		required := int(math.Ceil(totalDraw * powerHeadroom))
		out.addWarning(rule, c.PSUSlot, fmt.Sprintf("power supply headroom is low: %.0fW installed, %dW recommended", wattage, required))
	}
}

func (c memoryTypeConfig) check(cfg *Configuration, catalog Catalog, out *ValidationResult, rule *CompiledRule) {
	checkPerItem(cfg, catalog, out, rule, perItemParams{
		itemSlot:  c.RAMSlot,
		boardSlot: c.MotherboardSlot,
		itemKeys:  fieldKeys(c.Field, "memory_type", "type"),
		boardKeys: fieldKeys(c.Field, "memory_types"),
	})
}

func (c storageInterfaceConfig) check(cfg *Configuration, catalog Catalog, out *ValidationResult, rule *CompiledRule) {
	checkPerItem(cfg, catalog, out, rule, perItemParams{
		itemSlot:  c.StorageSlot,
		boardSlot: c.MotherboardSlot,
		itemKeys:  fieldKeys(c.Field, "interface", "connection"),
		boardKeys: fieldKeys(c.Field, "storage_interfaces"),
	})
}

type perItemParams struct {
	itemSlot  string
	boardSlot string
	itemKeys  []string
	boardKeys []string
}

// checkPerItem covers the memory-type and storage-interface rules: the
// motherboard exposes a supported-values list, and every item in the target
// slot is checked individually, each mismatch its own violation.
func checkPerItem(cfg *Configuration, catalog Catalog, out *ValidationResult, rule *CompiledRule, p perItemParams) {
	board, ok := firstResolved(cfg, catalog, p.boardSlot)
	if !ok {
		return
	}
	supported, ok := board.Specs.StringList(p.boardKeys...)
	if !ok {
		return
	}
	sel, ok := cfg.Selection(p.itemSlot)
	if !ok {
		return
	}
	for _, ref := range sel.Refs {
		rec, ok := catalog.resolve(ref)
		if !ok {
			continue
		}
		value, ok := rec.Specs.String(p.itemKeys...)
		if !ok {
			continue
		}
		match := false
		for _, s := range supported {
			if s == value {
				match = true
				break
			}
		}
		if !match {
			out.addError(rule, p.itemSlot, rule.Message)
		}
	}
}
