package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
	"github.com/usman-wf/warzish-sub000/internal/model"
)

// ExportVersion is bumped whenever ExportData changes shape.
const ExportVersion = 1

type ExportPlan struct {
	Name  string               `json:"name"`
	Notes string               `json:"notes"`
	Items []model.MealPlanItem `json:"items"`
}

// ExportData is a full copy of user data. Entries carry their stored
// snapshots, which import writes back unchanged.
type ExportData struct {
	Version    int                     `json:"version"`
	ExportedAt time.Time               `json:"exported_at"`
	Foods      []model.Food            `json:"foods"`
	Entries    []model.Entry           `json:"entries"`
	Plans      []ExportPlan            `json:"plans"`
	Targets    []model.NutritionTarget `json:"targets"`
	Profile    *model.BiometricProfile `json:"profile,omitempty"`
	Goals      []model.Goal            `json:"goals"`
}

type ImportMode string

const (
	ImportModeMerge   ImportMode = "merge"
	ImportModeReplace ImportMode = "replace"
)

type ImportOptions struct {
	Mode   ImportMode
	DryRun bool
}

type ImportReport struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

func ExportDataSnapshot(db *sql.DB) (*ExportData, error) {
	out := &ExportData{Version: ExportVersion, ExportedAt: time.Now().UTC()}
	var err error
	if out.Foods, err = ListFoods(db, ListFoodsFilter{Limit: -1}); err != nil {
		return nil, err
	}
	if out.Entries, err = ListEntries(db, ListEntriesFilter{}); err != nil {
		return nil, err
	}
	plans, err := ListPlans(db)
	if err != nil {
		return nil, err
	}
	out.Plans = make([]ExportPlan, 0, len(plans))
	for _, p := range plans {
		items, err := planItems(db, p.ID)
		if err != nil {
			return nil, err
		}
		out.Plans = append(out.Plans, ExportPlan{Name: p.Name, Notes: p.Notes, Items: items})
	}
	if out.Targets, err = TargetHistory(db); err != nil {
		return nil, err
	}
	if out.Profile, err = GetProfile(db); err != nil {
		return nil, err
	}
	goals, err := ListGoals(db, true)
	if err != nil {
		return nil, err
	}
	out.Goals = make([]model.Goal, 0, len(goals))
	for _, g := range goals {
		if g.Progress, err = progressEntries(db, g.ID); err != nil {
			return nil, err
		}
		out.Goals = append(out.Goals, g)
	}
	return out, nil
}

// ImportDataSnapshot writes data in a single transaction. Merge keeps
// existing rows that share a natural key; replace clears user data first.
func ImportDataSnapshot(db *sql.DB, data *ExportData, opts ImportOptions) (ImportReport, error) {
	report := ImportReport{}
	if data.Version > ExportVersion {
		return report, apperr.Validation("import", "version", "unsupported export version %d", data.Version)
	}
	if opts.Mode == "" {
		opts.Mode = ImportModeMerge
	}
	if opts.Mode != ImportModeMerge && opts.Mode != ImportModeReplace {
		return report, apperr.Validation("import", "mode", "unknown mode %q (use merge or replace)", opts.Mode)
	}

	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if opts.Mode == ImportModeReplace {
		if err := clearUserData(tx); err != nil {
			return report, err
		}
	}
	count := func(res sql.Result) error {
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			report.Skipped++
		} else {
			report.Inserted++
		}
		return nil
	}

	for _, f := range data.Foods {
		p := f.Profile
		res, err := tx.Exec(`
INSERT OR IGNORE INTO foods(ref, name, name_norm, brand, calories_per_unit, protein_per_unit, carbs_per_unit, fat_per_unit, fiber_per_unit, sugar_per_unit, sodium_per_unit, serving_unit, is_default)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, f.Ref, f.Name, normalizeName(f.Name), f.Brand, p.CaloriesPerUnit, p.ProteinPerUnit, p.CarbsPerUnit, p.FatPerUnit, p.FiberPerUnit, p.SugarPerUnit, p.SodiumPerUnit, string(p.ServingUnit), boolInt(f.IsDefault))
		if err != nil {
			return report, fmt.Errorf("import food %q: %w", f.Name, err)
		}
		if err := count(res); err != nil {
			return report, err
		}
	}

	for _, e := range data.Entries {
		var exists int
		err := tx.QueryRow(`SELECT 1 FROM entries WHERE food_ref = ? AND consumed_at = ? AND meal_category = ? LIMIT 1`,
			e.FoodRef, formatTime(e.ConsumedAt), string(e.Category)).Scan(&exists)
		if err == nil {
			report.Skipped++
			continue
		}
		if err != sql.ErrNoRows {
			return report, fmt.Errorf("check existing entry: %w", err)
		}
		if _, err := tx.Exec(`
INSERT INTO entries(food_ref, food_name, quantity, meal_category, consumed_at, notes, calories_consumed, protein_consumed, carbs_consumed, fat_consumed)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, e.FoodRef, e.FoodName, e.Quantity, string(e.Category), formatTime(e.ConsumedAt), e.Notes,
			e.Consumed.Calories, e.Consumed.ProteinG, e.Consumed.CarbsG, e.Consumed.FatG); err != nil {
			return report, fmt.Errorf("import entry for %q: %w", e.FoodName, err)
		}
		report.Inserted++
	}

	for _, p := range data.Plans {
		res, err := tx.Exec(`INSERT OR IGNORE INTO meal_plans(name, name_norm, notes) VALUES(?, ?, ?)`, p.Name, normalizeName(p.Name), p.Notes)
		if err != nil {
			return report, fmt.Errorf("import meal plan %q: %w", p.Name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return report, err
		}
		if n == 0 {
			report.Skipped++
			continue
		}
		report.Inserted++
		planID, err := res.LastInsertId()
		if err != nil {
			return report, fmt.Errorf("resolve imported plan id: %w", err)
		}
		for _, it := range p.Items {
			if _, err := tx.Exec(`
INSERT INTO meal_plan_items(plan_id, position, food_ref, quantity, meal_category, notes)
VALUES(?, ?, ?, ?, ?, ?)
`, planID, it.Position, it.FoodRef, it.Quantity, string(it.Category), it.Notes); err != nil {
				return report, fmt.Errorf("import item of plan %q: %w", p.Name, err)
			}
		}
	}

	for _, t := range data.Targets {
		res, err := tx.Exec(`INSERT OR IGNORE INTO nutrition_targets(calories, protein_g, carbs_g, fat_g, source, effective_date) VALUES(?, ?, ?, ?, ?, ?)`,
			t.Calories, t.ProteinG, t.CarbsG, t.FatG, string(t.Source), t.EffectiveDate)
		if err != nil {
			return report, fmt.Errorf("import target %q: %w", t.EffectiveDate, err)
		}
		if err := count(res); err != nil {
			return report, err
		}
	}

	if p := data.Profile; p != nil {
		res, err := tx.Exec(`INSERT OR IGNORE INTO biometric_profile(id, gender, weight_kg, height_cm, age_years, activity_level, goal) VALUES(1, ?, ?, ?, ?, ?, ?)`,
			string(p.Gender), p.WeightKg, p.HeightCm, p.AgeYears, string(p.ActivityLevel), string(p.Goal))
		if err != nil {
			return report, fmt.Errorf("import profile: %w", err)
		}
		if err := count(res); err != nil {
			return report, err
		}
	}

	for _, g := range data.Goals {
		var exists int
		err := tx.QueryRow(`SELECT 1 FROM goals WHERE goal_type = ? AND start_date = ? LIMIT 1`, string(g.Type), formatTime(g.StartDate)).Scan(&exists)
		if err == nil {
			report.Skipped++
			continue
		}
		if err != sql.ErrNoRows {
			return report, fmt.Errorf("check existing goal: %w", err)
		}
		if g.IsActive {
			if _, err := tx.Exec(`UPDATE goals SET is_active = 0 WHERE is_active = 1`); err != nil {
				return report, fmt.Errorf("deactivate goals for import: %w", err)
			}
		}
		res, err := tx.Exec(`
INSERT INTO goals(goal_type, start_weight_kg, target_weight_kg, target_body_fat_pct, start_date, timeframe_months, target_date, is_active, notes)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`, string(g.Type), g.StartWeightKg, g.TargetWeightKg, g.TargetBodyFatPct, formatTime(g.StartDate), g.TimeframeMonths, formatTime(g.TargetDate), boolInt(g.IsActive), g.Notes)
		if err != nil {
			return report, fmt.Errorf("import goal: %w", err)
		}
		report.Inserted++
		goalID, err := res.LastInsertId()
		if err != nil {
			return report, fmt.Errorf("resolve imported goal id: %w", err)
		}
		for _, pe := range g.Progress {
			if _, err := tx.Exec(`INSERT INTO goal_progress(goal_id, recorded_at, weight_kg, body_fat_pct, notes) VALUES(?, ?, ?, ?, ?)`,
				goalID, formatTime(pe.RecordedAt), pe.WeightKg, pe.BodyFatPct, pe.Notes); err != nil {
				return report, fmt.Errorf("import progress entry: %w", err)
			}
		}
	}

	if opts.DryRun {
		return report, nil
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit import tx: %w", err)
	}
	logrus.WithFields(logrus.Fields{"inserted": report.Inserted, "skipped": report.Skipped, "mode": opts.Mode}).Info("imported data")
	return report, nil
}

func clearUserData(tx *sql.Tx) error {
	stmts := []string{
		`DELETE FROM goal_progress`,
		`DELETE FROM goals`,
		`DELETE FROM meal_plan_items`,
		`DELETE FROM meal_plans`,
		`DELETE FROM entries`,
		`DELETE FROM nutrition_targets`,
		`DELETE FROM biometric_profile`,
		`DELETE FROM foods`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return fmt.Errorf("clear data for replace mode: %w", err)
		}
	}
	return nil
}
