package service_test

import (
	"testing"

	"github.com/usman-wf/warzish-sub000/internal/service"
)

func TestDoctorReportsOrphansAndFixesActiveGoals(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	food := createOats(t, db)
	if _, err := service.CreateEntry(db, service.CreateEntryInput{Food: food.Ref, Quantity: 10, Category: "snack"}); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := service.CreatePlan(db, service.CreatePlanInput{Name: "p"}); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if _, err := service.AddPlanItem(db, service.PlanItemInput{Plan: "p", Food: food.Ref, Quantity: 10, Category: "snack"}); err != nil {
		t.Fatalf("add plan item: %v", err)
	}
	if err := service.DeleteFood(db, food.Ref); err != nil {
		t.Fatalf("delete food: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := db.Exec(`INSERT INTO goals(goal_type, start_date, timeframe_months, target_date, is_active) VALUES('maintain_weight', '2026-01-01T00:00:00.000Z', 1, '2026-02-01T00:00:00.000Z', 1)`); err != nil {
			t.Fatalf("insert goal: %v", err)
		}
	}

	report, err := service.RunDoctor(db, false)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if report.OrphanEntries != 1 || report.OrphanPlanItems != 1 || report.ExtraActiveGoals != 1 || report.FixedGoals != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	report, err = service.RunDoctor(db, true)
	if err != nil {
		t.Fatalf("doctor fix: %v", err)
	}
	if report.FixedGoals != 1 {
		t.Fatalf("expected one goal fixed, got %+v", report)
	}
	report, err = service.RunDoctor(db, false)
	if err != nil {
		t.Fatalf("doctor after fix: %v", err)
	}
	if report.ExtraActiveGoals != 0 {
		t.Fatalf("expected no extra active goals, got %+v", report)
	}
}
