package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/nutrition"
)

type FoodInput struct {
	Name        string
	Brand       string
	CaloriesPer float64
	ProteinPer  float64
	CarbsPer    float64
	FatPer      float64
	FiberPer    *float64
	SugarPer    *float64
	SodiumPer   *float64
	ServingUnit string
}

type ListFoodsFilter struct {
	Query string
	Limit int
}

func (in FoodInput) profile() (model.NutrientProfile, error) {
	unit, ok := model.ParseServingUnit(in.ServingUnit)
	if !ok {
		return model.NutrientProfile{}, apperr.Validation("food", "serving_unit", "unrecognized unit %q", in.ServingUnit)
	}
	p := model.NutrientProfile{
		CaloriesPerUnit: in.CaloriesPer,
		ProteinPerUnit:  in.ProteinPer,
		CarbsPerUnit:    in.CarbsPer,
		FatPerUnit:      in.FatPer,
		FiberPerUnit:    in.FiberPer,
		SugarPerUnit:    in.SugarPer,
		SodiumPerUnit:   in.SodiumPer,
		ServingUnit:     unit,
	}
	if err := nutrition.ValidateProfile(p); err != nil {
		return model.NutrientProfile{}, err
	}
	return p, nil
}

func CreateFood(db *sql.DB, in FoodInput) (*model.Food, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("food", "name", "is required")
	}
	p, err := in.profile()
	if err != nil {
		return nil, err
	}
	ref := uuid.NewString()
	if err := insertFood(db, ref, name, strings.TrimSpace(in.Brand), p, false); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"food_ref": ref, "name": name}).Debug("created food")
	return ResolveFood(db, ref)
}

func insertFood(db *sql.DB, ref, name, brand string, p model.NutrientProfile, isDefault bool) error {
	_, err := db.Exec(`
INSERT INTO foods(ref, name, name_norm, brand, calories_per_unit, protein_per_unit, carbs_per_unit, fat_per_unit, fiber_per_unit, sugar_per_unit, sodium_per_unit, serving_unit, is_default)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(ref) DO NOTHING
`, ref, name, normalizeName(name), brand, p.CaloriesPerUnit, p.ProteinPerUnit, p.CarbsPerUnit, p.FatPerUnit, p.FiberPerUnit, p.SugarPerUnit, p.SodiumPerUnit, string(p.ServingUnit), boolInt(isDefault))
	if err != nil {
		return fmt.Errorf("insert food %q: %w", name, err)
	}
	return nil
}

// UpdateFood replaces a food's name and nutrient profile. Entries already
// logged against it keep their stored snapshots; plans see the new values.
// Changing the serving unit restates the quantities of every entry and plan
// item using the food in the new unit, in the same transaction; a unit of
// another kind is rejected while anything still uses the food.
func UpdateFood(db *sql.DB, identifier string, in FoodInput) (*model.Food, error) {
	food, err := ResolveFood(db, identifier)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = food.Name
	}
	p, err := in.profile()
	if err != nil {
		return nil, err
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin food update tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if p.ServingUnit != food.Profile.ServingUnit {
		if err := restateQuantities(tx, food, p.ServingUnit); err != nil {
			return nil, err
		}
	}
	_, err = tx.Exec(`
UPDATE foods
SET name = ?, name_norm = ?, brand = ?, calories_per_unit = ?, protein_per_unit = ?, carbs_per_unit = ?, fat_per_unit = ?,
    fiber_per_unit = ?, sugar_per_unit = ?, sodium_per_unit = ?, serving_unit = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, name, normalizeName(name), strings.TrimSpace(in.Brand), p.CaloriesPerUnit, p.ProteinPerUnit, p.CarbsPerUnit, p.FatPerUnit, p.FiberPerUnit, p.SugarPerUnit, p.SodiumPerUnit, string(p.ServingUnit), food.ID)
	if err != nil {
		return nil, fmt.Errorf("update food %q: %w", identifier, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit food update: %w", err)
	}
	logrus.WithField("food_ref", food.Ref).Debug("updated food")
	return ResolveFood(db, food.Ref)
}

// restateQuantities converts stored entry and plan item quantities for food
// from its current serving unit to unit.
func restateQuantities(tx *sql.Tx, food *model.Food, unit model.ServingUnit) error {
	var uses int
	var smallest sql.NullFloat64
	err := tx.QueryRow(`
SELECT COUNT(1), MIN(quantity) FROM (
  SELECT quantity FROM entries WHERE food_ref = ?
  UNION ALL
  SELECT quantity FROM meal_plan_items WHERE food_ref = ?
)`, food.Ref, food.Ref).Scan(&uses, &smallest)
	if err != nil {
		return fmt.Errorf("count uses of food %q: %w", food.Ref, err)
	}
	if uses == 0 {
		return nil
	}
	from := food.Profile.ServingUnit
	factor, err := ConvertQuantity(1, from, unit)
	if err != nil {
		return apperr.Validation("food", "serving_unit", "cannot change %s to %s while %d entries or plan items use this food", from, unit, uses)
	}
	if smallest.Valid && smallest.Float64*factor < nutrition.MinQuantity {
		return apperr.Validation("food", "serving_unit", "a quantity of %g %s would fall below %.2f %s", smallest.Float64, from, nutrition.MinQuantity, unit)
	}
	for _, table := range []string{"entries", "meal_plan_items"} {
		if _, err := tx.Exec(`UPDATE `+table+` SET quantity = quantity * ? WHERE food_ref = ?`, factor, food.Ref); err != nil {
			return fmt.Errorf("restate %s quantities for food %q: %w", table, food.Ref, err)
		}
	}
	logrus.WithFields(logrus.Fields{"food_ref": food.Ref, "from": from, "to": unit, "rows": uses}).Info("restated quantities in new serving unit")
	return nil
}

// DeleteFood removes a food. Logged entries keep their snapshot and name;
// plan items referencing it are skipped by plan summaries from then on.
func DeleteFood(db *sql.DB, identifier string) error {
	food, err := ResolveFood(db, identifier)
	if err != nil {
		return err
	}
	res, err := db.Exec(`DELETE FROM foods WHERE id = ?`, food.ID)
	if err != nil {
		return fmt.Errorf("delete food %q: %w", identifier, err)
	}
	if err := rowsAffected(res, "food", identifier); err != nil {
		return err
	}
	logrus.WithField("food_ref", food.Ref).Debug("deleted food")
	return nil
}

const foodSelectBase = `
SELECT id, ref, name, brand, calories_per_unit, protein_per_unit, carbs_per_unit, fat_per_unit,
       fiber_per_unit, sugar_per_unit, sodium_per_unit, serving_unit, is_default, created_at, updated_at
FROM foods`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(row rowScanner) (*model.Food, error) {
	var f model.Food
	var fiber, sugar, sodium sql.NullFloat64
	var unit, createdRaw, updatedRaw string
	var isDefault int
	if err := row.Scan(&f.ID, &f.Ref, &f.Name, &f.Brand, &f.Profile.CaloriesPerUnit, &f.Profile.ProteinPerUnit, &f.Profile.CarbsPerUnit, &f.Profile.FatPerUnit,
		&fiber, &sugar, &sodium, &unit, &isDefault, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	var err error
	if f.CreatedAt, err = parseTime(createdRaw); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = parseTime(updatedRaw); err != nil {
		return nil, err
	}
	f.Profile.FiberPerUnit = nullFloat(fiber)
	f.Profile.SugarPerUnit = nullFloat(sugar)
	f.Profile.SodiumPerUnit = nullFloat(sodium)
	f.Profile.ServingUnit = model.ServingUnit(unit)
	f.IsDefault = isDefault == 1
	return &f, nil
}

// ResolveFood finds a food by ref, numeric id, or case-insensitive name.
func ResolveFood(db *sql.DB, identifier string) (*model.Food, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperr.Validation("food", "identifier", "is required")
	}
	var row *sql.Row
	switch {
	case isUUID(identifier):
		row = db.QueryRow(foodSelectBase+` WHERE ref = ?`, strings.ToLower(identifier))
	default:
		if id, err := parseIDLoose(identifier); err == nil {
			row = db.QueryRow(foodSelectBase+` WHERE id = ?`, id)
		} else {
			row = db.QueryRow(foodSelectBase+` WHERE name_norm = ? ORDER BY is_default ASC, id ASC LIMIT 1`, normalizeName(identifier))
		}
	}
	food, err := scanFood(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("food", identifier)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve food %q: %w", identifier, err)
	}
	return food, nil
}

func ListFoods(db *sql.DB, f ListFoodsFilter) ([]model.Food, error) {
	query := foodSelectBase + ` WHERE 1=1`
	args := make([]any, 0, 2)
	if strings.TrimSpace(f.Query) != "" {
		query += ` AND name_norm LIKE ?`
		args = append(args, "%"+normalizeName(f.Query)+"%")
	}
	query += ` ORDER BY name_norm ASC`
	// A negative limit lists everything.
	if f.Limit == 0 {
		f.Limit = 100
	}
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()
	out := make([]model.Food, 0)
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		out = append(out, *food)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foods: %w", err)
	}
	return out, nil
}

// FoodLookup loads the current profiles of refs in one query and returns a
// lookup over them. Refs with no food simply miss.
func FoodLookup(db *sql.DB, refs []string) (nutrition.FoodLookup, error) {
	profiles := map[string]model.NutrientProfile{}
	if len(refs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(refs)), ",")
		args := make([]any, len(refs))
		for i, r := range refs {
			args[i] = r
		}
		rows, err := db.Query(foodSelectBase+` WHERE ref IN (`+placeholders+`)`, args...)
		if err != nil {
			return nil, fmt.Errorf("load foods for lookup: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			food, err := scanFood(rows)
			if err != nil {
				return nil, fmt.Errorf("scan food: %w", err)
			}
			profiles[food.Ref] = food.Profile
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate foods: %w", err)
		}
	}
	return func(ref string) (model.NutrientProfile, bool) {
		p, ok := profiles[ref]
		return p, ok
	}, nil
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
