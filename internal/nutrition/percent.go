package nutrition

import "github.com/usman-wf/warzish-sub000/internal/model"

// Percentages are shares of a target, unrounded and uncapped.
type Percentages struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// PercentOfTarget divides consumed by target; a zero target field yields 0.
func PercentOfTarget(consumed model.Macros, target model.NutritionTarget) Percentages {
	return Percentages{
		Calories: percent(consumed.Calories, float64(target.Calories)),
		ProteinG: percent(consumed.ProteinG, target.ProteinG),
		CarbsG:   percent(consumed.CarbsG, target.CarbsG),
		FatG:     percent(consumed.FatG, target.FatG),
	}
}

// Remaining is target minus consumed; negative values mean over target.
func Remaining(consumed model.Macros, target model.NutritionTarget) model.Macros {
	return model.Macros{
		Calories: float64(target.Calories) - consumed.Calories,
		ProteinG: target.ProteinG - consumed.ProteinG,
		CarbsG:   target.CarbsG - consumed.CarbsG,
		FatG:     target.FatG - consumed.FatG,
	}
}

func percent(actual, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return actual / target * 100
}
