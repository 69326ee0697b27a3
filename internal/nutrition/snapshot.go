package nutrition

import (
	"math"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
	"github.com/usman-wf/warzish-sub000/internal/model"
)

// MinQuantity is the smallest quantity a log entry or plan item may carry.
const MinQuantity = 0.01

// Mode names how a summary's nutrient figures were obtained.
type Mode string

const (
	// FrozenSnapshot figures were stored when the entry was written and do
	// not follow later edits to the food.
	FrozenSnapshot Mode = "frozen-snapshot"
	// LiveJoin figures are recomputed from current food data on every read.
	LiveJoin Mode = "live-join"
)

// FoodLookup resolves a food reference to its current nutrient profile.
type FoodLookup func(ref string) (model.NutrientProfile, bool)

// ComputeSnapshot returns the absolute macros for quantity units of p.
// Values are not rounded.
func ComputeSnapshot(p model.NutrientProfile, quantity float64) (model.Macros, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return model.Macros{}, err
	}
	if err := ValidateProfile(p); err != nil {
		return model.Macros{}, err
	}
	return model.Macros{
		Calories: p.CaloriesPerUnit * quantity,
		ProteinG: p.ProteinPerUnit * quantity,
		CarbsG:   p.CarbsPerUnit * quantity,
		FatG:     p.FatPerUnit * quantity,
	}, nil
}

func ValidateQuantity(quantity float64) error {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return apperr.Validation("entry", "quantity", "must be a finite number")
	}
	if quantity < MinQuantity {
		return apperr.Validation("entry", "quantity", "must be >= %.2f, got %g", MinQuantity, quantity)
	}
	return nil
}

func ValidateProfile(p model.NutrientProfile) error {
	required := []struct {
		field string
		value float64
	}{
		{"calories_per_unit", p.CaloriesPerUnit},
		{"protein_per_unit", p.ProteinPerUnit},
		{"carbs_per_unit", p.CarbsPerUnit},
		{"fat_per_unit", p.FatPerUnit},
	}
	for _, r := range required {
		if r.value < 0 || math.IsNaN(r.value) {
			return apperr.Validation("nutrient profile", r.field, "must be >= 0")
		}
	}
	optional := []struct {
		field string
		value *float64
	}{
		{"fiber_per_unit", p.FiberPerUnit},
		{"sugar_per_unit", p.SugarPerUnit},
		{"sodium_per_unit", p.SodiumPerUnit},
	}
	for _, o := range optional {
		if o.value != nil && (*o.value < 0 || math.IsNaN(*o.value)) {
			return apperr.Validation("nutrient profile", o.field, "must be >= 0")
		}
	}
	if !p.ServingUnit.Valid() {
		return apperr.Validation("nutrient profile", "serving_unit", "unrecognized unit %q", p.ServingUnit)
	}
	return nil
}

// SnapshotStale reports whether next needs a fresh snapshot given the
// previously stored prev. A nil prev means next has never been written.
// Edits to category, time or notes keep the stored values.
func SnapshotStale(prev *model.Entry, next model.Entry) bool {
	if prev == nil {
		return true
	}
	return prev.FoodRef != next.FoodRef || prev.Quantity != next.Quantity
}

// RefreshSnapshot is the pre-write hook for log entries. When the snapshot is
// stale it resolves the food through lookup and overwrites next.Consumed; a
// missing food aborts the write with a NotFoundError and leaves next as is.
func RefreshSnapshot(prev *model.Entry, next *model.Entry, lookup FoodLookup) (bool, error) {
	if !SnapshotStale(prev, *next) {
		return false, nil
	}
	profile, ok := lookup(next.FoodRef)
	if !ok {
		return false, apperr.NotFound("food", next.FoodRef)
	}
	consumed, err := ComputeSnapshot(profile, next.Quantity)
	if err != nil {
		return false, err
	}
	next.Consumed = consumed
	return true, nil
}
