package service

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// DoctorReport counts rows that reference data which no longer exists or
// break the single-active-goal rule.
type DoctorReport struct {
	OrphanEntries    int `json:"orphan_entries"`
	OrphanPlanItems  int `json:"orphan_plan_items"`
	ExtraActiveGoals int `json:"extra_active_goals"`
	FixedGoals       int `json:"fixed_goals,omitempty"`
}

// RunDoctor inspects the store. Orphaned entries keep their snapshots and
// orphaned plan items are skipped at read time, so only extra active goals
// are repaired when fix is set: all but the newest are deactivated.
func RunDoctor(db *sql.DB, fix bool) (DoctorReport, error) {
	report := DoctorReport{}
	if err := db.QueryRow(`SELECT COUNT(1) FROM entries e LEFT JOIN foods f ON f.ref = e.food_ref WHERE f.id IS NULL`).Scan(&report.OrphanEntries); err != nil {
		return report, fmt.Errorf("doctor orphan entry check: %w", err)
	}
	if err := db.QueryRow(`SELECT COUNT(1) FROM meal_plan_items i LEFT JOIN foods f ON f.ref = i.food_ref WHERE f.id IS NULL`).Scan(&report.OrphanPlanItems); err != nil {
		return report, fmt.Errorf("doctor orphan plan item check: %w", err)
	}
	var active int
	if err := db.QueryRow(`SELECT COUNT(1) FROM goals WHERE is_active = 1`).Scan(&active); err != nil {
		return report, fmt.Errorf("doctor active goal check: %w", err)
	}
	if active > 1 {
		report.ExtraActiveGoals = active - 1
	}

	if fix && report.ExtraActiveGoals > 0 {
		res, err := db.Exec(`
UPDATE goals SET is_active = 0, updated_at = CURRENT_TIMESTAMP
WHERE is_active = 1 AND id <> (SELECT MAX(id) FROM goals WHERE is_active = 1)
`)
		if err != nil {
			return report, fmt.Errorf("doctor fix active goals: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return report, fmt.Errorf("doctor fix rows affected: %w", err)
		}
		report.FixedGoals = int(n)
		logrus.WithField("deactivated", n).Info("doctor deactivated extra active goals")
	}
	return report, nil
}
