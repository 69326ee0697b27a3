package service

import (
	"database/sql"
	"sort"
	"time"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/nutrition"
)

type DayTotal struct {
	Date  string       `json:"date"`
	Total model.Macros `json:"total"`
}

type AdherenceSummary struct {
	EvaluatedDays     int     `json:"evaluated_days"`
	WithinTargetDays  int     `json:"within_target_days"`
	PercentWithin     float64 `json:"percent_within_target"`
	DaysWithoutTarget int     `json:"days_without_target"`
}

type RangeReport struct {
	FromDate        string                              `json:"from_date"`
	ToDate          string                              `json:"to_date"`
	Total           model.Macros                        `json:"total"`
	DaysWithEntries int                                 `json:"days_with_entries"`
	AveragePerDay   model.Macros                        `json:"average_per_day"`
	HighestDay      *DayTotal                           `json:"highest_day,omitempty"`
	LowestDay       *DayTotal                           `json:"lowest_day,omitempty"`
	ByCategory      map[model.MealCategory]model.Macros `json:"by_category"`
	Adherence       AdherenceSummary                    `json:"adherence"`
	Days            []DayTotal                          `json:"days"`
}

// AnalyticsRange summarizes every calendar day in [from, to] in loc. Days
// with no entries are left out of the averages and extremes.
func AnalyticsRange(db *sql.DB, from, to time.Time, loc *time.Location, tolerance float64) (*RangeReport, error) {
	if loc == nil {
		loc = time.Local
	}
	start, _ := nutrition.DayBounds(from, loc)
	last, end := nutrition.DayBounds(to, loc)
	if start.After(last) {
		return nil, apperr.Validation("range", "from", "must be on or before to")
	}
	report := &RangeReport{
		FromDate:   start.Format(dateLayout),
		ToDate:     last.Format(dateLayout),
		ByCategory: map[model.MealCategory]model.Macros{},
		Days:       make([]DayTotal, 0),
	}
	entries, err := entriesBetween(db, start, end)
	if err != nil {
		return nil, err
	}

	for day := start; !day.After(last); day = day.AddDate(0, 0, 1) {
		summary := nutrition.SummarizeDay(entries, day, loc)
		if len(summary.Categories) == 0 {
			continue
		}
		report.Days = append(report.Days, DayTotal{Date: summary.Date, Total: summary.Total})
		report.Total = report.Total.Add(summary.Total)
		for _, c := range summary.OrderedCategories() {
			report.ByCategory[c] = report.ByCategory[c].Add(summary.Categories[c].Totals)
		}
		if err := tallyAdherence(db, &report.Adherence, summary, tolerance); err != nil {
			return nil, err
		}
	}
	report.DaysWithEntries = len(report.Days)
	if report.DaysWithEntries > 0 {
		div := float64(report.DaysWithEntries)
		report.AveragePerDay = model.Macros{
			Calories: report.Total.Calories / div,
			ProteinG: report.Total.ProteinG / div,
			CarbsG:   report.Total.CarbsG / div,
			FatG:     report.Total.FatG / div,
		}
		report.HighestDay, report.LowestDay = extremeDays(report.Days)
	}
	if report.Adherence.EvaluatedDays > 0 {
		report.Adherence.PercentWithin = float64(report.Adherence.WithinTargetDays) / float64(report.Adherence.EvaluatedDays) * 100
	}
	return report, nil
}

func tallyAdherence(db *sql.DB, out *AdherenceSummary, day nutrition.DailySummary, tolerance float64) error {
	target, err := CurrentTarget(db, day.Date, nil)
	if err != nil {
		return err
	}
	if target == nil {
		out.DaysWithoutTarget++
		return nil
	}
	out.EvaluatedDays++
	if AdherenceWithin(day.Total.Calories, float64(target.Calories), tolerance) {
		out.WithinTargetDays++
	}
	return nil
}

func extremeDays(days []DayTotal) (*DayTotal, *DayTotal) {
	if len(days) == 0 {
		return nil, nil
	}
	sorted := make([]DayTotal, len(days))
	copy(sorted, days)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Total.Calories < sorted[j].Total.Calories
	})
	low := sorted[0]
	high := sorted[len(sorted)-1]
	return &high, &low
}
