package model

import "time"

// NutrientProfile holds per-unit nutrient data for a food.
type NutrientProfile struct {
	CaloriesPerUnit float64     `json:"calories_per_unit"`
	ProteinPerUnit  float64     `json:"protein_per_unit"`
	CarbsPerUnit    float64     `json:"carbs_per_unit"`
	FatPerUnit      float64     `json:"fat_per_unit"`
	FiberPerUnit    *float64    `json:"fiber_per_unit,omitempty"`
	SugarPerUnit    *float64    `json:"sugar_per_unit,omitempty"`
	SodiumPerUnit   *float64    `json:"sodium_per_unit,omitempty"`
	ServingUnit     ServingUnit `json:"serving_unit"`
}

type Food struct {
	ID        int64           `json:"id"`
	Ref       string          `json:"ref"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand,omitempty"`
	Profile   NutrientProfile `json:"profile"`
	IsDefault bool            `json:"is_default"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Macros is an absolute amount of energy and macronutrients.
type Macros struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		ProteinG: m.ProteinG + o.ProteinG,
		CarbsG:   m.CarbsG + o.CarbsG,
		FatG:     m.FatG + o.FatG,
	}
}

// Entry is a meal-log record. Consumed is the snapshot taken when the
// entry's food or quantity was last written.
type Entry struct {
	ID         int64        `json:"id"`
	FoodRef    string       `json:"food_ref"`
	FoodName   string       `json:"food_name"`
	Quantity   float64      `json:"quantity"`
	Category   MealCategory `json:"meal_category"`
	ConsumedAt time.Time    `json:"consumed_at"`
	Notes      string       `json:"notes,omitempty"`
	Consumed   Macros       `json:"consumed"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

type MealPlan struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Notes     string         `json:"notes,omitempty"`
	Items     []MealPlanItem `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type MealPlanItem struct {
	ID       int64        `json:"id"`
	PlanID   int64        `json:"plan_id"`
	Position int          `json:"position"`
	FoodRef  string       `json:"food_ref"`
	Quantity float64      `json:"quantity"`
	Category MealCategory `json:"meal_category"`
	Notes    string       `json:"notes,omitempty"`
}

type NutritionTarget struct {
	ID            int64        `json:"id,omitempty"`
	Calories      int          `json:"calories"`
	ProteinG      float64      `json:"protein_g"`
	CarbsG        float64      `json:"carbs_g"`
	FatG          float64      `json:"fat_g"`
	Source        TargetSource `json:"source"`
	EffectiveDate string       `json:"effective_date,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

type BiometricProfile struct {
	Gender        Gender        `json:"gender"`
	WeightKg      float64       `json:"weight_kg"`
	HeightCm      float64       `json:"height_cm"`
	AgeYears      int           `json:"age_years"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	Goal          GoalType      `json:"goal"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type Goal struct {
	ID               int64           `json:"id"`
	Type             GoalType        `json:"goal_type"`
	StartWeightKg    *float64        `json:"start_weight_kg,omitempty"`
	TargetWeightKg   *float64        `json:"target_weight_kg,omitempty"`
	TargetBodyFatPct *float64        `json:"target_body_fat_pct,omitempty"`
	StartDate        time.Time       `json:"start_date"`
	TimeframeMonths  int             `json:"timeframe_months"`
	TargetDate       time.Time       `json:"target_date"`
	IsActive         bool            `json:"is_active"`
	Notes            string          `json:"notes,omitempty"`
	Progress         []ProgressEntry `json:"progress"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type ProgressEntry struct {
	ID         int64     `json:"id"`
	GoalID     int64     `json:"goal_id"`
	RecordedAt time.Time `json:"recorded_at"`
	WeightKg   *float64  `json:"weight_kg,omitempty"`
	BodyFatPct *float64  `json:"body_fat_pct,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}
