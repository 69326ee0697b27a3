package nutrition

import (
	"math"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
	"github.com/usman-wf/warzish-sub000/internal/model"
)

// activityMultipliers maps activity levels to their TDEE multiplier.
// Levels not listed use defaultActivityMultiplier.
var activityMultipliers = map[model.ActivityLevel]float64{
	model.Sedentary:  1.2,
	model.Light:      1.375,
	model.Moderate:   1.55,
	model.Active:     1.725,
	model.VeryActive: 1.9,
}

const (
	defaultActivityMultiplier = 1.2

	goalDeficitKcal = 500

	proteinShare = 0.30
	carbsShare   = 0.40
	fatShare     = 0.30

	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// Recommendation carries the intermediate figures alongside the target.
type Recommendation struct {
	BMR        float64               `json:"bmr"`
	Multiplier float64               `json:"activity_multiplier"`
	TDEE       float64               `json:"tdee"`
	Adjustment float64               `json:"goal_adjustment"`
	Target     model.NutritionTarget `json:"target"`
}

// BMR estimates basal metabolic rate with the revised Harris-Benedict
// equations. Every gender other than male uses the second equation.
func BMR(gender model.Gender, weightKg, heightCm float64, ageYears int) float64 {
	age := float64(ageYears)
	switch gender {
	case model.Male:
		return 88.362 + 13.397*weightKg + 4.799*heightCm - 5.677*age
	default:
		return 447.593 + 9.247*weightKg + 3.098*heightCm - 4.330*age
	}
}

func ActivityMultiplier(level model.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return defaultActivityMultiplier
}

func GoalAdjustment(goal model.GoalType) float64 {
	switch goal {
	case model.LoseWeight:
		return -goalDeficitKcal
	case model.GainWeight:
		return goalDeficitKcal
	default:
		return 0
	}
}

// RecommendTargets derives a daily calorie and macro target from p.
func RecommendTargets(p model.BiometricProfile) (model.NutritionTarget, error) {
	rec, err := Recommend(p)
	if err != nil {
		return model.NutritionTarget{}, err
	}
	return rec.Target, nil
}

func Recommend(p model.BiometricProfile) (Recommendation, error) {
	if err := ValidateBiometrics(p); err != nil {
		return Recommendation{}, err
	}
	rec := Recommendation{
		BMR:        BMR(p.Gender, p.WeightKg, p.HeightCm, p.AgeYears),
		Multiplier: ActivityMultiplier(p.ActivityLevel),
		Adjustment: GoalAdjustment(p.Goal),
	}
	rec.TDEE = rec.BMR * rec.Multiplier
	calories := math.Round(rec.TDEE + rec.Adjustment)
	rec.Target = model.NutritionTarget{
		Calories: int(calories),
		ProteinG: math.Round(calories * proteinShare / kcalPerGramProtein),
		CarbsG:   math.Round(calories * carbsShare / kcalPerGramCarbs),
		FatG:     math.Round(calories * fatShare / kcalPerGramFat),
		Source:   model.TargetRecommended,
	}
	return rec, nil
}

// ValidateBiometrics requires every field RecommendTargets reads.
func ValidateBiometrics(p model.BiometricProfile) error {
	switch {
	case p.Gender == "":
		return apperr.Validation("profile", "gender", "is required")
	case p.WeightKg <= 0 || math.IsNaN(p.WeightKg):
		return apperr.Validation("profile", "weight_kg", "is required and must be > 0")
	case p.HeightCm <= 0 || math.IsNaN(p.HeightCm):
		return apperr.Validation("profile", "height_cm", "is required and must be > 0")
	case p.AgeYears <= 0:
		return apperr.Validation("profile", "age_years", "is required and must be > 0")
	case p.ActivityLevel == "":
		return apperr.Validation("profile", "activity_level", "is required")
	case p.Goal == "":
		return apperr.Validation("profile", "goal", "is required")
	}
	return nil
}
