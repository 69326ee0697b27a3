package service_test

import (
	"testing"
	"time"

	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/service"
)

func TestAnalyticsRange(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	food := createOats(t, db)
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local)
	logs := []struct {
		day      int
		quantity float64
		category string
	}{
		{0, 500, "breakfast"},
		{0, 100, "dinner"},
		{2, 250, "lunch"},
	}
	for _, l := range logs {
		if _, err := service.CreateEntry(db, service.CreateEntryInput{
			Food:     food.Ref,
			Quantity: l.quantity,
			Category: l.category,
			Consumed: from.AddDate(0, 0, l.day).Add(12 * time.Hour),
		}); err != nil {
			t.Fatalf("create entry: %v", err)
		}
	}
	if err := service.SetTarget(db, service.SetTargetInput{Calories: 2400, EffectiveDate: "2026-02-01"}); err != nil {
		t.Fatalf("set target: %v", err)
	}

	report, err := service.AnalyticsRange(db, from, from.AddDate(0, 0, 2), time.Local, 0.10)
	if err != nil {
		t.Fatalf("analytics range: %v", err)
	}
	if report.DaysWithEntries != 2 {
		t.Fatalf("expected 2 days with entries, got %d", report.DaysWithEntries)
	}
	if report.Total.Calories != 3400 || report.AveragePerDay.Calories != 1700 {
		t.Fatalf("unexpected totals: %+v avg %+v", report.Total, report.AveragePerDay)
	}
	if report.HighestDay == nil || report.HighestDay.Date != "2026-02-01" || report.LowestDay.Date != "2026-02-03" {
		t.Fatalf("unexpected extremes: %+v %+v", report.HighestDay, report.LowestDay)
	}
	if report.ByCategory[model.Breakfast].Calories != 2000 || report.ByCategory[model.Lunch].Calories != 1000 {
		t.Fatalf("unexpected category breakdown: %+v", report.ByCategory)
	}
	if report.Adherence.EvaluatedDays != 2 || report.Adherence.WithinTargetDays != 1 || report.Adherence.PercentWithin != 50 {
		t.Fatalf("unexpected adherence: %+v", report.Adherence)
	}

	if _, err := service.AnalyticsRange(db, from.AddDate(0, 0, 1), from, time.Local, 0.10); err == nil {
		t.Fatalf("expected error for reversed range")
	}
}
