package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/nutrition"
)

// adherenceTolerance is how far calories may stray from target and still
// count as on target.
const adherenceTolerance = 0.10

type DayReport struct {
	Summary      nutrition.DailySummary `json:"summary"`
	Target       *model.NutritionTarget `json:"target,omitempty"`
	Percent      *nutrition.Percentages `json:"percent_of_target,omitempty"`
	Remaining    *model.Macros          `json:"remaining,omitempty"`
	WithinTarget bool                   `json:"within_target"`
}

// DaySummary totals the entries consumed on date in loc and compares them
// with the target in effect that day. Without a user target it falls back
// to the recommended one when a profile exists.
func DaySummary(db *sql.DB, date time.Time, loc *time.Location) (*DayReport, error) {
	if loc == nil {
		loc = time.Local
	}
	start, end := nutrition.DayBounds(date, loc)
	entries, err := entriesBetween(db, start, end)
	if err != nil {
		return nil, err
	}
	report := &DayReport{Summary: nutrition.SummarizeDay(entries, date, loc)}

	target, err := CurrentTarget(db, report.Summary.Date, loc)
	if err != nil {
		return nil, err
	}
	if target == nil {
		p, err := GetProfile(db)
		if err != nil {
			return nil, err
		}
		if p != nil {
			if rec, err := nutrition.RecommendTargets(*p); err == nil {
				target = &rec
			}
		}
	}
	if target != nil {
		report.Target = target
		pct := nutrition.PercentOfTarget(report.Summary.Total, *target)
		rem := nutrition.Remaining(report.Summary.Total, *target)
		report.Percent = &pct
		report.Remaining = &rem
		report.WithinTarget = AdherenceWithin(report.Summary.Total.Calories, float64(target.Calories), adherenceTolerance)
	}
	return report, nil
}

func entriesBetween(db *sql.DB, start, end time.Time) ([]model.Entry, error) {
	rows, err := db.Query(entrySelectBase+`
WHERE consumed_at >= ? AND consumed_at <= ?
ORDER BY consumed_at ASC, id ASC
`, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("load entries for day: %w", err)
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
