package service

import (
	"math"
	"strings"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
)

const kgPerLb = 0.45359237

// ToKg converts a weight in unit (kg or lb, empty means kg) to kilograms.
func ToKg(value float64, unit string) (float64, error) {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, apperr.Validation("weight", "value", "must be > 0")
	}
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "kg", "kgs":
		return value, nil
	case "lb", "lbs":
		return value * kgPerLb, nil
	default:
		return 0, apperr.Validation("weight", "unit", "invalid unit %q (use kg or lb)", unit)
	}
}

func WeightFromKg(weightKg float64, unit string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "kg", "kgs":
		return weightKg, nil
	case "lb", "lbs":
		return weightKg / kgPerLb, nil
	default:
		return 0, apperr.Validation("weight", "unit", "invalid unit %q (use kg or lb)", unit)
	}
}

// optionalKg converts a weight that may be absent.
func optionalKg(value *float64, unit string) (*float64, error) {
	if value == nil {
		return nil, nil
	}
	kg, err := ToKg(*value, unit)
	if err != nil {
		return nil, err
	}
	return &kg, nil
}
