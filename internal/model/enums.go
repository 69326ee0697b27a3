package model

import "strings"

type ServingUnit string

const (
	UnitGram       ServingUnit = "gram"
	UnitMilliliter ServingUnit = "milliliter"
	UnitOunce      ServingUnit = "ounce"
	UnitCup        ServingUnit = "cup"
	UnitTablespoon ServingUnit = "tablespoon"
	UnitTeaspoon   ServingUnit = "teaspoon"
	UnitPiece      ServingUnit = "piece"
)

var servingUnitAliases = map[string]ServingUnit{
	"g": UnitGram, "gram": UnitGram, "grams": UnitGram,
	"ml": UnitMilliliter, "milliliter": UnitMilliliter, "milliliters": UnitMilliliter,
	"oz": UnitOunce, "ounce": UnitOunce, "ounces": UnitOunce,
	"cup": UnitCup, "cups": UnitCup,
	"tbsp": UnitTablespoon, "tablespoon": UnitTablespoon, "tablespoons": UnitTablespoon,
	"tsp": UnitTeaspoon, "teaspoon": UnitTeaspoon, "teaspoons": UnitTeaspoon,
	"piece": UnitPiece, "pieces": UnitPiece, "pc": UnitPiece,
}

func ParseServingUnit(s string) (ServingUnit, bool) {
	u, ok := servingUnitAliases[normalize(s)]
	return u, ok
}

func (u ServingUnit) Valid() bool {
	switch u {
	case UnitGram, UnitMilliliter, UnitOunce, UnitCup, UnitTablespoon, UnitTeaspoon, UnitPiece:
		return true
	}
	return false
}

type MealCategory string

const (
	Breakfast MealCategory = "breakfast"
	Lunch     MealCategory = "lunch"
	Dinner    MealCategory = "dinner"
	Snack     MealCategory = "snack"
)

// MealCategories lists the categories in display order.
var MealCategories = []MealCategory{Breakfast, Lunch, Dinner, Snack}

func ParseMealCategory(s string) (MealCategory, bool) {
	switch normalize(s) {
	case "breakfast":
		return Breakfast, true
	case "lunch":
		return Lunch, true
	case "dinner", "supper":
		return Dinner, true
	case "snack", "snacks":
		return Snack, true
	default:
		return "", false
	}
}

type GoalType string

const (
	LoseWeight     GoalType = "lose_weight"
	GainWeight     GoalType = "gain_weight"
	MaintainWeight GoalType = "maintain_weight"
)

func ParseGoalType(s string) (GoalType, bool) {
	switch normalize(s) {
	case "lose_weight", "lose":
		return LoseWeight, true
	case "gain_weight", "gain":
		return GainWeight, true
	case "maintain_weight", "maintain":
		return MaintainWeight, true
	default:
		return "", false
	}
}

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

// ParseGender maps any non-empty value outside male/female to Other.
func ParseGender(s string) (Gender, bool) {
	switch normalize(s) {
	case "":
		return "", false
	case "male", "m":
		return Male, true
	case "female", "f":
		return Female, true
	default:
		return Other, true
	}
}

type ActivityLevel string

const (
	Sedentary  ActivityLevel = "sedentary"
	Light      ActivityLevel = "light"
	Moderate   ActivityLevel = "moderate"
	Active     ActivityLevel = "active"
	VeryActive ActivityLevel = "very_active"
)

func ParseActivityLevel(s string) ActivityLevel {
	return ActivityLevel(normalize(s))
}

type TargetSource string

const (
	TargetUser        TargetSource = "user"
	TargetRecommended TargetSource = "recommended"
)

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}
