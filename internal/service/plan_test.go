package service_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/nutrition"
	"github.com/usman-wf/warzish-sub000/internal/service"
)

func TestPlanLifecycleAndNutrition(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	oats := createOats(t, db)
	milk, err := service.CreateFood(db, service.FoodInput{Name: "Milk", CaloriesPer: 0.5, ProteinPer: 0.25, ServingUnit: "ml"})
	if err != nil {
		t.Fatalf("create milk: %v", err)
	}
	planID, err := service.CreatePlan(db, service.CreatePlanInput{Name: "Cut Day"})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if _, err := service.CreatePlan(db, service.CreatePlanInput{Name: "cut day"}); !apperr.IsValidation(err) {
		t.Fatalf("expected duplicate name to be rejected, got %v", err)
	}

	for _, in := range []service.PlanItemInput{
		{Plan: "cut day", Food: oats.Ref, Quantity: 50, Category: "breakfast"},
		{Plan: "cut day", Food: milk.Ref, Quantity: 200, Category: "breakfast"},
		{Plan: "cut day", Food: oats.Ref, Quantity: 25, Category: "dinner"},
	} {
		if _, err := service.AddPlanItem(db, in); err != nil {
			t.Fatalf("add plan item: %v", err)
		}
	}

	plan, summary, err := service.PlanNutrition(db, "Cut Day")
	if err != nil {
		t.Fatalf("plan nutrition: %v", err)
	}
	if plan.ID != planID || len(plan.Items) != 3 || plan.Items[2].Position != 3 {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	if summary.Mode != nutrition.LiveJoin {
		t.Fatalf("expected live-join mode, got %s", summary.Mode)
	}
	if summary.Total.Calories != 400 || summary.Categories[model.Breakfast].Totals.Calories != 300 {
		t.Fatalf("unexpected totals: %+v", summary)
	}

	// Plans follow food edits.
	if _, err := service.UpdateFood(db, milk.Ref, service.FoodInput{CaloriesPer: 1, ServingUnit: "ml"}); err != nil {
		t.Fatalf("update milk: %v", err)
	}
	_, summary, err = service.PlanNutrition(db, strconv.FormatInt(planID, 10))
	if err != nil {
		t.Fatalf("plan nutrition after edit: %v", err)
	}
	if summary.Total.Calories != 500 {
		t.Fatalf("expected 500 kcal after milk edit, got %v", summary.Total.Calories)
	}

	// A deleted food is skipped, not fatal.
	if err := service.DeleteFood(db, milk.Ref); err != nil {
		t.Fatalf("delete milk: %v", err)
	}
	_, summary, err = service.PlanNutrition(db, "cut day")
	if err != nil {
		t.Fatalf("plan nutrition with orphan: %v", err)
	}
	if len(summary.Skipped) != 1 || summary.Skipped[0].Index != 1 || summary.Total.Calories != 300 {
		t.Fatalf("expected one skipped item and 300 kcal, got %+v", summary)
	}

	if err := service.RemovePlanItem(db, "cut day", plan.Items[1].ID); err != nil {
		t.Fatalf("remove plan item: %v", err)
	}
	if err := service.RemovePlanItem(db, "cut day", plan.Items[1].ID); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found removing twice, got %v", err)
	}
	if err := service.DeletePlan(db, "cut day"); err != nil {
		t.Fatalf("delete plan: %v", err)
	}
	plans, err := service.ListPlans(db)
	if err != nil {
		t.Fatalf("list plans: %v", err)
	}
	if len(plans) != 0 {
		t.Fatalf("expected no plans, got %d", len(plans))
	}
}

func TestAddPlanItemRequiresExistingFood(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if _, err := service.CreatePlan(db, service.CreatePlanInput{Name: "Bulk"}); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	_, err := service.AddPlanItem(db, service.PlanItemInput{Plan: "bulk", Food: "missing", Quantity: 1, Category: "lunch"})
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLogPlanWritesEntries(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	oats := createOats(t, db)
	if _, err := service.CreatePlan(db, service.CreatePlanInput{Name: "Morning"}); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if _, err := service.AddPlanItem(db, service.PlanItemInput{Plan: "morning", Food: oats.Ref, Quantity: 30, Category: "breakfast"}); err != nil {
		t.Fatalf("add plan item: %v", err)
	}
	at := time.Date(2026, 5, 1, 7, 30, 0, 0, time.Local)
	ids, skipped, err := service.LogPlan(db, service.LogPlanInput{Plan: "morning", ConsumedAt: at})
	if err != nil {
		t.Fatalf("log plan: %v", err)
	}
	if len(ids) != 1 || len(skipped) != 0 {
		t.Fatalf("expected one entry and no skips, got %v %v", ids, skipped)
	}
	e, err := service.EntryByID(db, ids[0])
	if err != nil {
		t.Fatalf("entry by id: %v", err)
	}
	if e.Consumed.Calories != 120 || !e.ConsumedAt.Equal(at) {
		t.Fatalf("unexpected logged entry: %+v", e)
	}
}

func TestLogPlanWritesNothingWhenAnInsertFails(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	oats := createOats(t, db)
	milk, err := service.CreateFood(db, service.FoodInput{Name: "Milk", CaloriesPer: 0.5, ProteinPer: 0.25, ServingUnit: "ml"})
	if err != nil {
		t.Fatalf("create milk: %v", err)
	}
	if _, err := service.CreatePlan(db, service.CreatePlanInput{Name: "Breakfast"}); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	for _, it := range []service.PlanItemInput{
		{Plan: "breakfast", Food: oats.Ref, Quantity: 40, Category: "breakfast"},
		{Plan: "breakfast", Food: milk.Ref, Quantity: 200, Category: "breakfast"},
	} {
		if _, err := service.AddPlanItem(db, it); err != nil {
			t.Fatalf("add plan item: %v", err)
		}
	}
	// The second insert of the plan fails after the first has gone through.
	if _, err := db.Exec(`
CREATE TRIGGER reject_milk BEFORE INSERT ON entries WHEN NEW.food_name = 'Milk'
BEGIN SELECT RAISE(ABORT, 'milk rejected'); END;`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	if _, _, err := service.LogPlan(db, service.LogPlanInput{Plan: "breakfast"}); err == nil {
		t.Fatalf("expected log plan to fail")
	}
	entries, err := service.ListEntries(db, service.ListEntriesFilter{})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries from a failed plan log, got %d", len(entries))
	}
}
