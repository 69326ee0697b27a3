package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/nutrition"
)

type CreatePlanInput struct {
	Name  string
	Notes string
}

type PlanItemInput struct {
	Plan     string
	Food     string
	Quantity float64
	Unit     string
	Category string
	Notes    string
}

type LogPlanInput struct {
	Plan       string
	ConsumedAt time.Time
}

func CreatePlan(db *sql.DB, in CreatePlanInput) (int64, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return 0, apperr.Validation("meal plan", "name", "is required")
	}
	res, err := db.Exec(`INSERT INTO meal_plans(name, name_norm, notes) VALUES(?, ?, ?)`, name, normalizeName(name), strings.TrimSpace(in.Notes))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return 0, apperr.Validation("meal plan", "name", "%q already exists", name)
		}
		return 0, fmt.Errorf("create meal plan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve meal plan id: %w", err)
	}
	logrus.WithFields(logrus.Fields{"plan_id": id, "name": name}).Debug("created meal plan")
	return id, nil
}

// ResolvePlan finds a plan by id or name and loads its items in position
// order.
func ResolvePlan(db *sql.DB, idOrName string) (*model.MealPlan, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return nil, apperr.Validation("meal plan", "identifier", "is required")
	}
	const base = `SELECT id, name, notes, created_at, updated_at FROM meal_plans`
	var row *sql.Row
	if id, err := parseIDLoose(idOrName); err == nil {
		row = db.QueryRow(base+` WHERE id = ?`, id)
	} else {
		row = db.QueryRow(base+` WHERE name_norm = ?`, normalizeName(idOrName))
	}
	plan, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("meal plan", idOrName)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve meal plan %q: %w", idOrName, err)
	}
	items, err := planItems(db, plan.ID)
	if err != nil {
		return nil, err
	}
	plan.Items = items
	return plan, nil
}

func scanPlan(row rowScanner) (*model.MealPlan, error) {
	var p model.MealPlan
	var createdRaw, updatedRaw string
	if err := row.Scan(&p.ID, &p.Name, &p.Notes, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	var err error
	if p.CreatedAt, err = parseTime(createdRaw); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedRaw); err != nil {
		return nil, err
	}
	return &p, nil
}

func planItems(db *sql.DB, planID int64) ([]model.MealPlanItem, error) {
	rows, err := db.Query(`
SELECT id, plan_id, position, food_ref, quantity, meal_category, notes
FROM meal_plan_items
WHERE plan_id = ?
ORDER BY position ASC, id ASC
`, planID)
	if err != nil {
		return nil, fmt.Errorf("list meal plan items: %w", err)
	}
	defer rows.Close()
	items := make([]model.MealPlanItem, 0)
	for rows.Next() {
		var it model.MealPlanItem
		var category string
		if err := rows.Scan(&it.ID, &it.PlanID, &it.Position, &it.FoodRef, &it.Quantity, &category, &it.Notes); err != nil {
			return nil, fmt.Errorf("scan meal plan item: %w", err)
		}
		it.Category = model.MealCategory(category)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal plan items: %w", err)
	}
	return items, nil
}

func ListPlans(db *sql.DB) ([]model.MealPlan, error) {
	rows, err := db.Query(`SELECT id, name, notes, created_at, updated_at FROM meal_plans ORDER BY name_norm ASC`)
	if err != nil {
		return nil, fmt.Errorf("list meal plans: %w", err)
	}
	defer rows.Close()
	plans := make([]model.MealPlan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal plan: %w", err)
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal plans: %w", err)
	}
	return plans, nil
}

// AddPlanItem appends an item to the end of a plan. The food must exist
// when the item is added; the quantity is stored in the food's unit.
func AddPlanItem(db *sql.DB, in PlanItemInput) (int64, error) {
	plan, err := ResolvePlan(db, in.Plan)
	if err != nil {
		return 0, err
	}
	category, err := parseCategory(in.Category)
	if err != nil {
		return 0, err
	}
	food, err := ResolveFood(db, in.Food)
	if err != nil {
		return 0, err
	}
	qty, err := quantityInUnit(in.Quantity, in.Unit, food.Profile.ServingUnit)
	if err != nil {
		return 0, err
	}
	if err := nutrition.ValidateQuantity(qty); err != nil {
		return 0, err
	}
	res, err := db.Exec(`
INSERT INTO meal_plan_items(plan_id, position, food_ref, quantity, meal_category, notes)
VALUES(?, (SELECT IFNULL(MAX(position), 0) + 1 FROM meal_plan_items WHERE plan_id = ?), ?, ?, ?, ?)
`, plan.ID, plan.ID, food.Ref, qty, string(category), strings.TrimSpace(in.Notes))
	if err != nil {
		return 0, fmt.Errorf("add meal plan item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve meal plan item id: %w", err)
	}
	if _, err := db.Exec(`UPDATE meal_plans SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, plan.ID); err != nil {
		return 0, fmt.Errorf("touch meal plan %d: %w", plan.ID, err)
	}
	logrus.WithFields(logrus.Fields{"plan_id": plan.ID, "item_id": id, "food_ref": food.Ref}).Debug("added meal plan item")
	return id, nil
}

func RemovePlanItem(db *sql.DB, planIdentifier string, itemID int64) error {
	plan, err := ResolvePlan(db, planIdentifier)
	if err != nil {
		return err
	}
	res, err := db.Exec(`DELETE FROM meal_plan_items WHERE id = ? AND plan_id = ?`, itemID, plan.ID)
	if err != nil {
		return fmt.Errorf("remove meal plan item %d: %w", itemID, err)
	}
	if err := rowsAffected(res, "meal plan item", itemID); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"plan_id": plan.ID, "item_id": itemID}).Debug("removed meal plan item")
	return nil
}

func DeletePlan(db *sql.DB, identifier string) error {
	plan, err := ResolvePlan(db, identifier)
	if err != nil {
		return err
	}
	res, err := db.Exec(`DELETE FROM meal_plans WHERE id = ?`, plan.ID)
	if err != nil {
		return fmt.Errorf("delete meal plan %d: %w", plan.ID, err)
	}
	if err := rowsAffected(res, "meal plan", identifier); err != nil {
		return err
	}
	logrus.WithField("plan_id", plan.ID).Debug("deleted meal plan")
	return nil
}

// PlanNutrition joins a plan's items with current food data. Items whose
// food is gone are skipped and logged.
func PlanNutrition(db *sql.DB, identifier string) (*model.MealPlan, nutrition.PlanSummary, error) {
	plan, err := ResolvePlan(db, identifier)
	if err != nil {
		return nil, nutrition.PlanSummary{}, err
	}
	refs := make([]string, 0, len(plan.Items))
	for _, it := range plan.Items {
		refs = append(refs, it.FoodRef)
	}
	lookup, err := FoodLookup(db, refs)
	if err != nil {
		return nil, nutrition.PlanSummary{}, err
	}
	summary := nutrition.SummarizePlan(plan.Items, lookup)
	for _, s := range summary.Skipped {
		logrus.WithFields(logrus.Fields{
			"plan_id":  plan.ID,
			"item_id":  s.ItemID,
			"index":    s.Index,
			"food_ref": s.FoodRef,
		}).Warn("skipped meal plan item: " + s.Reason)
	}
	return plan, summary, nil
}

// LogPlan writes one entry per resolvable plan item at consumedAt and
// returns the new entry ids with the items that were skipped. Either every
// resolvable item is logged or none is.
func LogPlan(db *sql.DB, in LogPlanInput) ([]int64, []nutrition.SkippedItem, error) {
	plan, summary, err := PlanNutrition(db, in.Plan)
	if err != nil {
		return nil, nil, err
	}
	if in.ConsumedAt.IsZero() {
		in.ConsumedAt = time.Now()
	}

	// Foods are resolved before the transaction takes the only connection.
	foods := map[string]*model.Food{}
	pending := make([]model.Entry, 0, len(summary.Items))
	for _, row := range summary.Items {
		food, ok := foods[row.Item.FoodRef]
		if !ok {
			if food, err = ResolveFood(db, row.Item.FoodRef); err != nil {
				return nil, summary.Skipped, fmt.Errorf("log item %d of plan %q: %w", row.Item.ID, plan.Name, err)
			}
			foods[row.Item.FoodRef] = food
		}
		e, err := newEntry(food, row.Item.Quantity, row.Item.Category, in.ConsumedAt, row.Item.Notes)
		if err != nil {
			return nil, summary.Skipped, fmt.Errorf("log item %d of plan %q: %w", row.Item.ID, plan.Name, err)
		}
		pending = append(pending, e)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, summary.Skipped, fmt.Errorf("begin plan log tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	ids := make([]int64, 0, len(pending))
	for i, e := range pending {
		id, err := insertEntry(tx, e)
		if err != nil {
			return nil, summary.Skipped, fmt.Errorf("log item %d of plan %q: %w", summary.Items[i].Item.ID, plan.Name, err)
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, summary.Skipped, fmt.Errorf("commit plan log: %w", err)
	}
	logrus.WithFields(logrus.Fields{"plan_id": plan.ID, "entries": len(ids)}).Debug("logged meal plan")
	return ids, summary.Skipped, nil
}
