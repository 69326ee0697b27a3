package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
	"github.com/usman-wf/warzish-sub000/internal/model"
)

type SetTargetInput struct {
	Calories      int
	ProteinG      float64
	CarbsG        float64
	FatG          float64
	EffectiveDate string
	// Location resolves an empty EffectiveDate to today; nil means
	// time.Local.
	Location *time.Location
}

// SetTarget stores a user target effective from the given date (today when
// empty). A second target on the same date replaces the first.
func SetTarget(db *sql.DB, in SetTargetInput) error {
	return upsertTarget(db, in, model.TargetUser)
}

func upsertTarget(db *sql.DB, in SetTargetInput, source model.TargetSource) error {
	if in.Calories < 0 {
		return apperr.Validation("target", "calories", "must be >= 0")
	}
	if err := validateNonNegativeFloat("target", "protein_g", in.ProteinG); err != nil {
		return err
	}
	if err := validateNonNegativeFloat("target", "carbs_g", in.CarbsG); err != nil {
		return err
	}
	if err := validateNonNegativeFloat("target", "fat_g", in.FatG); err != nil {
		return err
	}
	date, err := dateOrToday("target", in.EffectiveDate, in.Location)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
INSERT INTO nutrition_targets(calories, protein_g, carbs_g, fat_g, source, effective_date)
VALUES(?, ?, ?, ?, ?, ?)
ON CONFLICT(effective_date) DO UPDATE SET
  calories=excluded.calories,
  protein_g=excluded.protein_g,
  carbs_g=excluded.carbs_g,
  fat_g=excluded.fat_g,
  source=excluded.source
`, in.Calories, in.ProteinG, in.CarbsG, in.FatG, string(source), date)
	if err != nil {
		return fmt.Errorf("set target: %w", err)
	}
	logrus.WithFields(logrus.Fields{"effective_date": date, "calories": in.Calories, "source": source}).Debug("set nutrition target")
	return nil
}

const targetSelectBase = `
SELECT id, calories, protein_g, carbs_g, fat_g, source, effective_date, created_at
FROM nutrition_targets`

func scanTarget(row rowScanner) (*model.NutritionTarget, error) {
	var t model.NutritionTarget
	var source, createdRaw string
	if err := row.Scan(&t.ID, &t.Calories, &t.ProteinG, &t.CarbsG, &t.FatG, &source, &t.EffectiveDate, &createdRaw); err != nil {
		return nil, err
	}
	t.Source = model.TargetSource(source)
	created, err := parseTime(createdRaw)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = created
	return &t, nil
}

// CurrentTarget returns the latest target effective on date, or nil when
// none has been set.
func CurrentTarget(db *sql.DB, date string, loc *time.Location) (*model.NutritionTarget, error) {
	date, err := dateOrToday("target", date, loc)
	if err != nil {
		return nil, err
	}
	t, err := scanTarget(db.QueryRow(targetSelectBase+`
WHERE effective_date <= ?
ORDER BY effective_date DESC
LIMIT 1
`, date))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("current target for %s: %w", date, err)
	}
	return t, nil
}

func TargetHistory(db *sql.DB) ([]model.NutritionTarget, error) {
	rows, err := db.Query(targetSelectBase + ` ORDER BY effective_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list target history: %w", err)
	}
	defer rows.Close()

	targets := make([]model.NutritionTarget, 0)
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan target history: %w", err)
		}
		targets = append(targets, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate target history: %w", err)
	}
	return targets, nil
}

// ApplyRecommendedTarget computes a target from the stored biometric
// profile and saves it effective from date.
func ApplyRecommendedTarget(db *sql.DB, effectiveDate string, loc *time.Location) (*model.NutritionTarget, error) {
	rec, err := RecommendedTarget(db)
	if err != nil {
		return nil, err
	}
	in := SetTargetInput{
		Calories:      rec.Calories,
		ProteinG:      rec.ProteinG,
		CarbsG:        rec.CarbsG,
		FatG:          rec.FatG,
		EffectiveDate: effectiveDate,
		Location:      loc,
	}
	if err := upsertTarget(db, in, model.TargetRecommended); err != nil {
		return nil, err
	}
	date, err := dateOrToday("target", effectiveDate, loc)
	if err != nil {
		return nil, err
	}
	return CurrentTarget(db, date, loc)
}

// AdherenceWithin reports whether actual is within tolerance (a fraction)
// of target.
func AdherenceWithin(actual float64, target float64, tolerance float64) bool {
	if target == 0 {
		return actual == 0
	}
	lower := target * (1 - tolerance)
	upper := target * (1 + tolerance)
	return actual >= lower && actual <= upper
}
