package service

import (
	"math"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
	"github.com/usman-wf/warzish-sub000/internal/model"
)

type unitKind string

const (
	unitKindMass   unitKind = "mass"
	unitKindVolume unitKind = "volume"
	unitKindCount  unitKind = "count"
)

type unitDef struct {
	kind       unitKind
	toBaseUnit float64
}

var unitTable = map[model.ServingUnit]unitDef{
	// mass (base = g)
	model.UnitGram:  {kind: unitKindMass, toBaseUnit: 1},
	model.UnitOunce: {kind: unitKindMass, toBaseUnit: 28.349523125},

	// volume (base = ml)
	model.UnitMilliliter: {kind: unitKindVolume, toBaseUnit: 1},
	model.UnitTeaspoon:   {kind: unitKindVolume, toBaseUnit: 4.92892159375},
	model.UnitTablespoon: {kind: unitKindVolume, toBaseUnit: 14.78676478125},
	model.UnitCup:        {kind: unitKindVolume, toBaseUnit: 236.5882365},

	model.UnitPiece: {kind: unitKindCount, toBaseUnit: 1},
}

// ConvertQuantity converts value between two serving units of the same kind.
// Mass and volume do not mix; pieces only convert to pieces.
func ConvertQuantity(value float64, from, to model.ServingUnit) (float64, error) {
	if value <= 0 || math.IsNaN(value) {
		return 0, apperr.Validation("quantity", "value", "must be > 0")
	}
	if from == to {
		return value, nil
	}
	f, ok := unitTable[from]
	if !ok {
		return 0, apperr.Validation("quantity", "unit", "unsupported unit %q", from)
	}
	t, ok := unitTable[to]
	if !ok {
		return 0, apperr.Validation("quantity", "unit", "unsupported unit %q", to)
	}
	if f.kind != t.kind {
		return 0, apperr.Validation("quantity", "unit", "cannot convert %s (%s) to %s (%s)", from, f.kind, to, t.kind)
	}
	return value * f.toBaseUnit / t.toBaseUnit, nil
}

// quantityInUnit resolves a user-supplied unit (empty means target) and
// returns value expressed in target.
func quantityInUnit(value float64, rawUnit string, target model.ServingUnit) (float64, error) {
	if rawUnit == "" {
		return value, nil
	}
	from, ok := model.ParseServingUnit(rawUnit)
	if !ok {
		return 0, apperr.Validation("quantity", "unit", "unsupported unit %q", rawUnit)
	}
	return ConvertQuantity(value, from, target)
}
