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

type CreateEntryInput struct {
	Food     string
	Quantity float64
	Unit     string
	Category string
	Consumed time.Time
	Notes    string
}

type ListEntriesFilter struct {
	Date     string
	FromDate string
	ToDate   string
	Category string
	Limit    int
	// Location is the zone the dates are calendar days in; nil means
	// time.Local.
	Location *time.Location
}

// UpdateEntryInput carries only the fields to change; nil leaves a field as
// stored.
type UpdateEntryInput struct {
	ID       int64
	Food     *string
	Quantity *float64
	Unit     string
	Category *string
	Consumed *time.Time
	Notes    *string
}

func parseCategory(raw string) (model.MealCategory, error) {
	c, ok := model.ParseMealCategory(raw)
	if !ok {
		return "", apperr.Validation("entry", "meal_category", "unknown category %q (expected breakfast, lunch, dinner or snack)", raw)
	}
	return c, nil
}

// lookupFor returns a lookup that knows only food.
func lookupFor(food *model.Food) nutrition.FoodLookup {
	return func(ref string) (model.NutrientProfile, bool) {
		if food == nil || ref != food.Ref {
			return model.NutrientProfile{}, false
		}
		return food.Profile, true
	}
}

func CreateEntry(db *sql.DB, in CreateEntryInput) (int64, error) {
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
	if in.Consumed.IsZero() {
		in.Consumed = time.Now()
	}
	next, err := newEntry(food, qty, category, in.Consumed, in.Notes)
	if err != nil {
		return 0, err
	}
	return insertEntry(db, next)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// newEntry builds an unsaved entry for qty units of food with a fresh
// snapshot.
func newEntry(food *model.Food, qty float64, category model.MealCategory, at time.Time, notes string) (model.Entry, error) {
	next := model.Entry{
		FoodRef:    food.Ref,
		FoodName:   food.Name,
		Quantity:   qty,
		Category:   category,
		ConsumedAt: at,
		Notes:      strings.TrimSpace(notes),
	}
	if _, err := nutrition.RefreshSnapshot(nil, &next, lookupFor(food)); err != nil {
		return model.Entry{}, err
	}
	return next, nil
}

func insertEntry(ex execer, next model.Entry) (int64, error) {
	res, err := ex.Exec(`
INSERT INTO entries(food_ref, food_name, quantity, meal_category, consumed_at, notes, calories_consumed, protein_consumed, carbs_consumed, fat_consumed)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, next.FoodRef, next.FoodName, next.Quantity, string(next.Category), formatTime(next.ConsumedAt), next.Notes,
		next.Consumed.Calories, next.Consumed.ProteinG, next.Consumed.CarbsG, next.Consumed.FatG)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve inserted entry id: %w", err)
	}
	logrus.WithFields(logrus.Fields{"entry_id": id, "food_ref": next.FoodRef, "quantity": next.Quantity}).Debug("logged entry")
	return id, nil
}

const entrySelectBase = `
SELECT id, food_ref, food_name, quantity, meal_category, consumed_at, notes,
       calories_consumed, protein_consumed, carbs_consumed, fat_consumed, created_at, updated_at
FROM entries`

func scanEntry(row rowScanner) (*model.Entry, error) {
	var e model.Entry
	var category, consumedRaw, createdRaw, updatedRaw string
	if err := row.Scan(&e.ID, &e.FoodRef, &e.FoodName, &e.Quantity, &category, &consumedRaw, &e.Notes,
		&e.Consumed.Calories, &e.Consumed.ProteinG, &e.Consumed.CarbsG, &e.Consumed.FatG, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	e.Category = model.MealCategory(category)
	var err error
	if e.ConsumedAt, err = parseTime(consumedRaw); err != nil {
		return nil, fmt.Errorf("entry %d consumed_at: %w", e.ID, err)
	}
	if e.CreatedAt, err = parseTime(createdRaw); err != nil {
		return nil, fmt.Errorf("entry %d created_at: %w", e.ID, err)
	}
	if e.UpdatedAt, err = parseTime(updatedRaw); err != nil {
		return nil, fmt.Errorf("entry %d updated_at: %w", e.ID, err)
	}
	return &e, nil
}

func EntryByID(db *sql.DB, id int64) (*model.Entry, error) {
	if id <= 0 {
		return nil, apperr.Validation("entry", "id", "must be > 0")
	}
	e, err := scanEntry(db.QueryRow(entrySelectBase+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("entry", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	return e, nil
}

func ListEntries(db *sql.DB, f ListEntriesFilter) ([]model.Entry, error) {
	if strings.TrimSpace(f.Date) != "" && (strings.TrimSpace(f.FromDate) != "" || strings.TrimSpace(f.ToDate) != "") {
		return nil, apperr.Validation("entry filter", "date", "--date cannot be combined with --from or --to")
	}
	query := entrySelectBase + ` WHERE 1=1`
	args := make([]any, 0)

	if strings.TrimSpace(f.Date) != "" {
		day, err := parseDate("entry filter", f.Date, f.Location)
		if err != nil {
			return nil, err
		}
		start, end := nutrition.DayBounds(day, f.Location)
		query += ` AND consumed_at >= ? AND consumed_at <= ?`
		args = append(args, formatTime(start), formatTime(end))
	}
	if strings.TrimSpace(f.FromDate) != "" {
		from, err := parseDate("entry filter", f.FromDate, f.Location)
		if err != nil {
			return nil, err
		}
		query += ` AND consumed_at >= ?`
		args = append(args, formatTime(from))
	}
	if strings.TrimSpace(f.ToDate) != "" {
		to, err := parseDate("entry filter", f.ToDate, f.Location)
		if err != nil {
			return nil, err
		}
		_, end := nutrition.DayBounds(to, f.Location)
		query += ` AND consumed_at <= ?`
		args = append(args, formatTime(end))
	}
	if strings.TrimSpace(f.Category) != "" {
		c, err := parseCategory(f.Category)
		if err != nil {
			return nil, err
		}
		query += ` AND meal_category = ?`
		args = append(args, string(c))
	}
	query += ` ORDER BY consumed_at DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// UpdateEntry applies a partial edit. The stored snapshot is recomputed
// only when the food or quantity changes.
func UpdateEntry(db *sql.DB, in UpdateEntryInput) (*model.Entry, error) {
	prev, err := EntryByID(db, in.ID)
	if err != nil {
		return nil, err
	}
	next := *prev

	var food *model.Food
	if in.Food != nil {
		food, err = ResolveFood(db, *in.Food)
		if err != nil {
			return nil, err
		}
		if in.Quantity == nil && food.Ref != prev.FoodRef {
			if next.Quantity, err = carryQuantity(db, prev, food); err != nil {
				return nil, err
			}
		}
		next.FoodRef = food.Ref
		next.FoodName = food.Name
	}
	if in.Quantity != nil {
		if food == nil {
			food, err = ResolveFood(db, next.FoodRef)
			if err != nil {
				return nil, err
			}
		}
		qty, err := quantityInUnit(*in.Quantity, in.Unit, food.Profile.ServingUnit)
		if err != nil {
			return nil, err
		}
		next.Quantity = qty
	}
	if in.Category != nil {
		if next.Category, err = parseCategory(*in.Category); err != nil {
			return nil, err
		}
	}
	if in.Consumed != nil {
		if in.Consumed.IsZero() {
			return nil, apperr.Validation("entry", "consumed_at", "is required")
		}
		next.ConsumedAt = *in.Consumed
	}
	if in.Notes != nil {
		next.Notes = strings.TrimSpace(*in.Notes)
	}

	refreshed, err := nutrition.RefreshSnapshot(prev, &next, lookupFor(food))
	if err != nil {
		return nil, err
	}

	res, err := db.Exec(`
UPDATE entries
SET food_ref = ?, food_name = ?, quantity = ?, meal_category = ?, consumed_at = ?, notes = ?,
    calories_consumed = ?, protein_consumed = ?, carbs_consumed = ?, fat_consumed = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, next.FoodRef, next.FoodName, next.Quantity, string(next.Category), formatTime(next.ConsumedAt), next.Notes,
		next.Consumed.Calories, next.Consumed.ProteinG, next.Consumed.CarbsG, next.Consumed.FatG, in.ID)
	if err != nil {
		return nil, fmt.Errorf("update entry %d: %w", in.ID, err)
	}
	if err := rowsAffected(res, "entry", in.ID); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"entry_id": in.ID, "snapshot_refreshed": refreshed}).Debug("updated entry")
	return EntryByID(db, in.ID)
}

// carryQuantity restates prev's quantity in food's serving unit so a food
// swap without a new quantity keeps the same amount eaten.
func carryQuantity(db *sql.DB, prev *model.Entry, food *model.Food) (float64, error) {
	old, err := ResolveFood(db, prev.FoodRef)
	if apperr.IsNotFound(err) {
		return 0, apperr.Validation("entry", "quantity", "is required when replacing a deleted food")
	}
	if err != nil {
		return 0, err
	}
	qty, err := ConvertQuantity(prev.Quantity, old.Profile.ServingUnit, food.Profile.ServingUnit)
	if err != nil {
		return 0, apperr.Validation("entry", "quantity", "is required: %s is measured in %s, %s in %s",
			old.Name, old.Profile.ServingUnit, food.Name, food.Profile.ServingUnit)
	}
	return qty, nil
}

func DeleteEntry(db *sql.DB, id int64) error {
	if id <= 0 {
		return apperr.Validation("entry", "id", "must be > 0")
	}
	res, err := db.Exec(`DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	if err := rowsAffected(res, "entry", id); err != nil {
		return err
	}
	logrus.WithField("entry_id", id).Debug("deleted entry")
	return nil
}
