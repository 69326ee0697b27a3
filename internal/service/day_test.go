package service_test

import (
	"testing"
	"time"

	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/service"
)

func TestDaySummaryAgainstUserTarget(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	food := createOats(t, db)
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.Local)
	for _, in := range []service.CreateEntryInput{
		{Food: food.Ref, Quantity: 100, Category: "breakfast", Consumed: day.Add(8 * time.Hour)},
		{Food: food.Ref, Quantity: 150, Category: "lunch", Consumed: day.Add(13 * time.Hour)},
		{Food: food.Ref, Quantity: 250, Category: "lunch", Consumed: day.Add(-time.Hour)},
	} {
		if _, err := service.CreateEntry(db, in); err != nil {
			t.Fatalf("create entry: %v", err)
		}
	}
	if err := service.SetTarget(db, service.SetTargetInput{Calories: 2000, ProteinG: 100, CarbsG: 200, FatG: 50, EffectiveDate: "2026-04-01"}); err != nil {
		t.Fatalf("set target: %v", err)
	}

	report, err := service.DaySummary(db, day, time.Local)
	if err != nil {
		t.Fatalf("day summary: %v", err)
	}
	if report.Summary.Total.Calories != 1000 {
		t.Fatalf("expected 1000 kcal, got %v", report.Summary.Total.Calories)
	}
	if len(report.Summary.Categories) != 2 || report.Summary.Categories[model.Lunch].Totals.Calories != 600 {
		t.Fatalf("unexpected categories: %+v", report.Summary.Categories)
	}
	if report.Target == nil || report.Target.Source != model.TargetUser {
		t.Fatalf("expected user target, got %+v", report.Target)
	}
	if report.Percent.Calories != 50 || report.Remaining.Calories != 1000 {
		t.Fatalf("unexpected percent/remaining: %+v %+v", report.Percent, report.Remaining)
	}
	if report.WithinTarget {
		t.Fatalf("expected day to be outside target tolerance")
	}
}

func TestDaySummaryFallsBackToRecommendedTarget(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	day := time.Date(2026, 4, 11, 0, 0, 0, 0, time.Local)
	report, err := service.DaySummary(db, day, time.Local)
	if err != nil {
		t.Fatalf("day summary without target: %v", err)
	}
	if report.Target != nil || report.Percent != nil || len(report.Summary.Categories) != 0 {
		t.Fatalf("expected bare summary, got %+v", report)
	}

	if _, err := service.SetProfile(db, service.SetProfileInput{
		Gender: "male", Weight: 70, HeightCm: 175, AgeYears: 30, ActivityLevel: "sedentary", Goal: "maintain",
	}); err != nil {
		t.Fatalf("set profile: %v", err)
	}
	report, err = service.DaySummary(db, day, time.Local)
	if err != nil {
		t.Fatalf("day summary: %v", err)
	}
	if report.Target == nil || report.Target.Calories != 2035 || report.Target.Source != model.TargetRecommended {
		t.Fatalf("expected recommended 2035 kcal target, got %+v", report.Target)
	}
}

func TestAdherenceWithin(t *testing.T) {
	t.Parallel()
	if !service.AdherenceWithin(1900, 2000, 0.10) {
		t.Fatalf("1900 should be within 10%% of 2000")
	}
	if service.AdherenceWithin(1700, 2000, 0.10) {
		t.Fatalf("1700 should not be within 10%% of 2000")
	}
	if !service.AdherenceWithin(0, 0, 0.10) {
		t.Fatalf("zero against zero target should adhere")
	}
}
