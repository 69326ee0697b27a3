package nutrition

import (
	"github.com/usman-wf/warzish-sub000/internal/model"
)

// SkippedItem records a plan item left out of a plan summary.
type SkippedItem struct {
	Index   int    `json:"index"`
	ItemID  int64  `json:"item_id,omitempty"`
	FoodRef string `json:"food_ref"`
	Reason  string `json:"reason"`
}

type PlanItemNutrition struct {
	Item     model.MealPlanItem `json:"item"`
	Nutrient model.Macros       `json:"nutrients"`
}

type PlanCategorySummary struct {
	Totals model.Macros        `json:"totals"`
	Items  []PlanItemNutrition `json:"items"`
}

type PlanSummary struct {
	Mode       Mode                                        `json:"mode"`
	Items      []PlanItemNutrition                         `json:"items"`
	Categories map[model.MealCategory]*PlanCategorySummary `json:"categories"`
	Total      model.Macros                                `json:"total"`
	Skipped    []SkippedItem                               `json:"skipped"`
}

// SummarizePlan totals a meal plan against current food data. Items whose
// food does not resolve, or whose quantity is invalid, are reported in
// Skipped and left out of every total; the rest keep their declared order.
func SummarizePlan(items []model.MealPlanItem, lookup FoodLookup) PlanSummary {
	out := PlanSummary{
		Mode:       LiveJoin,
		Items:      make([]PlanItemNutrition, 0, len(items)),
		Categories: map[model.MealCategory]*PlanCategorySummary{},
		Skipped:    make([]SkippedItem, 0),
	}
	for i, item := range items {
		profile, ok := lookup(item.FoodRef)
		if !ok {
			out.Skipped = append(out.Skipped, SkippedItem{Index: i, ItemID: item.ID, FoodRef: item.FoodRef, Reason: "food not found"})
			continue
		}
		nutrients, err := ComputeSnapshot(profile, item.Quantity)
		if err != nil {
			out.Skipped = append(out.Skipped, SkippedItem{Index: i, ItemID: item.ID, FoodRef: item.FoodRef, Reason: err.Error()})
			continue
		}
		row := PlanItemNutrition{Item: item, Nutrient: nutrients}
		out.Items = append(out.Items, row)

		cs, ok := out.Categories[item.Category]
		if !ok {
			cs = &PlanCategorySummary{}
			out.Categories[item.Category] = cs
		}
		cs.Totals = cs.Totals.Add(nutrients)
		cs.Items = append(cs.Items, row)
	}
	for _, c := range out.OrderedCategories() {
		out.Total = out.Total.Add(out.Categories[c].Totals)
	}
	return out
}

func (s PlanSummary) OrderedCategories() []model.MealCategory {
	return orderedKeys(s.Categories)
}
