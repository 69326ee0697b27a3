package nutrition_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/nutrition"
)

func oats() model.NutrientProfile {
	return model.NutrientProfile{
		CaloriesPerUnit: 3.89,
		ProteinPerUnit:  0.169,
		CarbsPerUnit:    0.663,
		FatPerUnit:      0.069,
		ServingUnit:     model.UnitGram,
	}
}

func TestComputeSnapshotMultipliesEachField(t *testing.T) {
	p := oats()
	for _, qty := range []float64{0.01, 1, 37.5, 80, 1234.56} {
		got, err := nutrition.ComputeSnapshot(p, qty)
		require.NoError(t, err)
		assert.Equal(t, p.CaloriesPerUnit*qty, got.Calories)
		assert.Equal(t, p.ProteinPerUnit*qty, got.ProteinG)
		assert.Equal(t, p.CarbsPerUnit*qty, got.CarbsG)
		assert.Equal(t, p.FatPerUnit*qty, got.FatG)
	}
}

func TestComputeSnapshotRejectsQuantityBelowFloor(t *testing.T) {
	for _, qty := range []float64{0, -1, 0.009, math.NaN(), math.Inf(1)} {
		_, err := nutrition.ComputeSnapshot(oats(), qty)
		require.Error(t, err, "quantity %v", qty)
		var verr *apperr.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "quantity", verr.Field)
	}
}

func TestComputeSnapshotRejectsBadProfile(t *testing.T) {
	p := oats()
	p.FatPerUnit = -0.1
	_, err := nutrition.ComputeSnapshot(p, 10)
	assert.True(t, apperr.IsValidation(err))

	p = oats()
	p.ServingUnit = "handful"
	_, err = nutrition.ComputeSnapshot(p, 10)
	assert.True(t, apperr.IsValidation(err))
}

func lookupOf(foods map[string]model.NutrientProfile) nutrition.FoodLookup {
	return func(ref string) (model.NutrientProfile, bool) {
		p, ok := foods[ref]
		return p, ok
	}
}

func TestRefreshSnapshotOnlyWhenFoodOrQuantityChanges(t *testing.T) {
	foods := map[string]model.NutrientProfile{"oats": oats()}
	lookup := lookupOf(foods)

	entry := model.Entry{FoodRef: "oats", Quantity: 50, Category: model.Breakfast}
	changed, err := nutrition.RefreshSnapshot(nil, &entry, lookup)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.InDelta(t, 194.5, entry.Consumed.Calories, 1e-9)

	// The food definition changes after logging.
	edited := oats()
	edited.CaloriesPerUnit = 10
	foods["oats"] = edited

	prev := entry
	recategorized := entry
	recategorized.Category = model.Snack
	changed, err = nutrition.RefreshSnapshot(&prev, &recategorized, lookup)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.InDelta(t, 194.5, recategorized.Consumed.Calories, 1e-9)

	requantified := entry
	requantified.Quantity = 20
	changed, err = nutrition.RefreshSnapshot(&prev, &requantified, lookup)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.InDelta(t, 200, requantified.Consumed.Calories, 1e-9)
}

func TestRefreshSnapshotMissingFoodLeavesEntryUntouched(t *testing.T) {
	entry := model.Entry{FoodRef: "ghost", Quantity: 1, Consumed: model.Macros{Calories: 42}}
	_, err := nutrition.RefreshSnapshot(nil, &entry, lookupOf(nil))
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, 42.0, entry.Consumed.Calories)
}
