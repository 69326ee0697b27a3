package service

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/usman-wf/warzish-sub000/internal/model"
)

// foodNamespace scopes the name-derived refs of the built-in foods, so the
// same default food always gets the same ref.
var foodNamespace = uuid.MustParse("6f1c2b1e-4a0d-5b8e-9c57-2d7f3e9a1c40")

type DefaultFood struct {
	Name    string
	Profile model.NutrientProfile
}

func per(cal, protein, carbs, fat float64, unit model.ServingUnit) model.NutrientProfile {
	return model.NutrientProfile{
		CaloriesPerUnit: cal,
		ProteinPerUnit:  protein,
		CarbsPerUnit:    carbs,
		FatPerUnit:      fat,
		ServingUnit:     unit,
	}
}

// DefaultFoods is the starter catalogue written into an empty database.
var DefaultFoods = []DefaultFood{
	{"Rolled oats", per(3.89, 0.169, 0.663, 0.069, model.UnitGram)},
	{"Cooked white rice", per(1.30, 0.027, 0.28, 0.003, model.UnitGram)},
	{"Chicken breast, cooked", per(1.65, 0.31, 0, 0.036, model.UnitGram)},
	{"Whole milk", per(0.61, 0.032, 0.048, 0.033, model.UnitMilliliter)},
	{"Large egg", per(72, 6.3, 0.4, 4.8, model.UnitPiece)},
	{"Banana", per(105, 1.3, 27, 0.4, model.UnitPiece)},
	{"Apple", per(95, 0.5, 25, 0.3, model.UnitPiece)},
	{"Olive oil", per(119, 0, 0, 13.5, model.UnitTablespoon)},
	{"Peanut butter", per(94, 4, 3, 8, model.UnitTablespoon)},
	{"Whole wheat bread", per(81, 4, 13.8, 1.1, model.UnitPiece)},
	{"Greek yogurt, plain", per(0.59, 0.10, 0.036, 0.004, model.UnitGram)},
	{"Almonds", per(164, 6, 6.1, 14.2, model.UnitOunce)},
}

func DefaultFoodRef(name string) string {
	return uuid.NewSHA1(foodNamespace, []byte(normalizeName(name))).String()
}

// FoodsEmpty reports whether the foods table has no rows.
func FoodsEmpty(db *sql.DB) (bool, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(1) FROM foods`).Scan(&n); err != nil {
		return false, fmt.Errorf("count foods: %w", err)
	}
	return n == 0, nil
}

// SeedDefaultFoods writes DefaultFoods when isEmpty reports true and returns
// how many were inserted. Running it again inserts nothing.
func SeedDefaultFoods(db *sql.DB, isEmpty func() (bool, error)) (int, error) {
	empty, err := isEmpty()
	if err != nil {
		return 0, err
	}
	if !empty {
		return 0, nil
	}
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, f := range DefaultFoods {
		p := f.Profile
		res, err := tx.Exec(`
INSERT OR IGNORE INTO foods(ref, name, name_norm, brand, calories_per_unit, protein_per_unit, carbs_per_unit, fat_per_unit, serving_unit, is_default)
VALUES(?, ?, ?, '', ?, ?, ?, ?, ?, 1)
`, DefaultFoodRef(f.Name), f.Name, normalizeName(f.Name), p.CaloriesPerUnit, p.ProteinPerUnit, p.CarbsPerUnit, p.FatPerUnit, string(p.ServingUnit))
		if err != nil {
			return 0, fmt.Errorf("seed food %q: %w", f.Name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("seed food %q: %w", f.Name, err)
		}
		inserted += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed tx: %w", err)
	}
	logrus.WithField("count", inserted).Info("seeded default foods")
	return inserted, nil
}
