package service_test

import (
	"math"
	"testing"
	"time"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/service"
)

func TestCreateEntryStoresSnapshot(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	food := createOats(t, db)
	id, err := service.CreateEntry(db, service.CreateEntryInput{
		Food:     food.Ref,
		Quantity: 40,
		Category: "breakfast",
		Consumed: time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local),
	})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	e, err := service.EntryByID(db, id)
	if err != nil {
		t.Fatalf("entry by id: %v", err)
	}
	want := model.Macros{Calories: 160, ProteinG: 20, CarbsG: 10, FatG: 5}
	if e.Consumed != want {
		t.Fatalf("expected snapshot %+v, got %+v", want, e.Consumed)
	}
	if e.FoodName != "Oats" || e.Category != model.Breakfast {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestCreateEntryConvertsUnits(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	food := createOats(t, db)
	id, err := service.CreateEntry(db, service.CreateEntryInput{Food: food.Ref, Quantity: 1, Unit: "oz", Category: "snack"})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	e, err := service.EntryByID(db, id)
	if err != nil {
		t.Fatalf("entry by id: %v", err)
	}
	if math.Abs(e.Quantity-28.349523125) > 1e-9 {
		t.Fatalf("expected quantity in grams, got %v", e.Quantity)
	}

	if _, err := service.CreateEntry(db, service.CreateEntryInput{Food: food.Ref, Quantity: 1, Unit: "cup", Category: "snack"}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error converting cup to gram, got %v", err)
	}
}

func TestCreateEntryRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	food := createOats(t, db)
	if _, err := service.CreateEntry(db, service.CreateEntryInput{Food: food.Ref, Quantity: 0.001, Category: "lunch"}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for tiny quantity, got %v", err)
	}
	if _, err := service.CreateEntry(db, service.CreateEntryInput{Food: "no such food", Quantity: 1, Category: "lunch"}); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found for unknown food, got %v", err)
	}
	if _, err := service.CreateEntry(db, service.CreateEntryInput{Food: food.Ref, Quantity: 1, Category: "brunch"}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for unknown category, got %v", err)
	}
	entries, err := service.ListEntries(db, service.ListEntriesFilter{})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected rejected writes to store nothing, got %d entries", len(entries))
	}
}

func TestUpdateEntryRecomputesOnlyOnFoodOrQuantity(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	food := createOats(t, db)
	id, err := service.CreateEntry(db, service.CreateEntryInput{Food: food.Ref, Quantity: 10, Category: "breakfast"})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	// The food changes after logging; the stored snapshot must not follow.
	if _, err := service.UpdateFood(db, food.Ref, service.FoodInput{CaloriesPer: 10, ProteinPer: 1, CarbsPer: 1, FatPer: 1, ServingUnit: "g"}); err != nil {
		t.Fatalf("update food: %v", err)
	}

	e, err := service.UpdateEntry(db, service.UpdateEntryInput{ID: id, Category: strPtr("lunch"), Notes: strPtr("moved")})
	if err != nil {
		t.Fatalf("update category: %v", err)
	}
	if e.Consumed.Calories != 40 || e.Category != model.Lunch || e.Notes != "moved" {
		t.Fatalf("expected frozen snapshot after category edit, got %+v", e)
	}

	e, err = service.UpdateEntry(db, service.UpdateEntryInput{ID: id, Quantity: floatPtr(20)})
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if e.Consumed.Calories != 200 {
		t.Fatalf("expected recomputed calories 200, got %v", e.Consumed.Calories)
	}
}

func TestUpdateEntryWithDeletedFoodRejectsQuantityChange(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	food := createOats(t, db)
	id, err := service.CreateEntry(db, service.CreateEntryInput{Food: food.Ref, Quantity: 10, Category: "dinner"})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if err := service.DeleteFood(db, food.Ref); err != nil {
		t.Fatalf("delete food: %v", err)
	}
	if _, err := service.UpdateEntry(db, service.UpdateEntryInput{ID: id, Quantity: floatPtr(20)}); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	e, err := service.UpdateEntry(db, service.UpdateEntryInput{ID: id, Notes: strPtr("still here")})
	if err != nil {
		t.Fatalf("notes edit on orphaned entry: %v", err)
	}
	if e.Quantity != 10 || e.Consumed.Calories != 40 || e.FoodName != "Oats" {
		t.Fatalf("expected untouched entry, got %+v", e)
	}
}

func TestListAndDeleteEntries(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	food := createOats(t, db)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	times := []time.Time{day, day.Add(12 * time.Hour), day.Add(24*time.Hour - time.Millisecond), day.Add(24 * time.Hour)}
	var lastID int64
	for _, at := range times {
		id, err := service.CreateEntry(db, service.CreateEntryInput{Food: food.Ref, Quantity: 1, Category: "snack", Consumed: at})
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		lastID = id
	}
	entries, err := service.ListEntries(db, service.ListEntriesFilter{Date: "2026-03-02"})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries within the day, got %d", len(entries))
	}
	if _, err := service.ListEntries(db, service.ListEntriesFilter{Date: "2026-03-02", FromDate: "2026-03-01"}); err == nil {
		t.Fatalf("expected error combining date and from")
	}

	if err := service.DeleteEntry(db, lastID); err != nil {
		t.Fatalf("delete entry: %v", err)
	}
	if err := service.DeleteEntry(db, lastID); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestListEntriesUsesGivenZoneLikeDaySummary(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	tokyo := time.FixedZone("JST", 9*60*60)
	food := createOats(t, db)
	// 05:00 on the 11th in Tokyo is still the 10th in UTC.
	at := time.Date(2026, 3, 11, 5, 0, 0, 0, tokyo)
	if _, err := service.CreateEntry(db, service.CreateEntryInput{Food: food.Ref, Quantity: 100, Category: "breakfast", Consumed: at}); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	for _, tc := range []struct {
		date string
		want int
	}{
		{"2026-03-10", 0},
		{"2026-03-11", 1},
	} {
		entries, err := service.ListEntries(db, service.ListEntriesFilter{Date: tc.date, Location: tokyo})
		if err != nil {
			t.Fatalf("list entries %s: %v", tc.date, err)
		}
		if len(entries) != tc.want {
			t.Fatalf("expected %d entries on %s in JST, got %d", tc.want, tc.date, len(entries))
		}
		day, err := time.ParseInLocation("2006-01-02", tc.date, tokyo)
		if err != nil {
			t.Fatalf("parse day: %v", err)
		}
		report, err := service.DaySummary(db, day, tokyo)
		if err != nil {
			t.Fatalf("day summary %s: %v", tc.date, err)
		}
		got := 0
		for _, cs := range report.Summary.Categories {
			got += len(cs.Entries)
		}
		if got != len(entries) {
			t.Fatalf("list and day summary disagree on %s: %d vs %d", tc.date, len(entries), got)
		}
	}

	ranged, err := service.ListEntries(db, service.ListEntriesFilter{FromDate: "2026-03-11", ToDate: "2026-03-11", Location: tokyo})
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(ranged) != 1 {
		t.Fatalf("expected 1 entry in JST range, got %d", len(ranged))
	}
}

func TestUpdateEntryFoodSwapCarriesQuantityAcrossUnits(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	oats := createOats(t, db)
	granola, err := service.CreateFood(db, service.FoodInput{Name: "Granola", CaloriesPer: 130, ServingUnit: "oz"})
	if err != nil {
		t.Fatalf("create granola: %v", err)
	}
	milk, err := service.CreateFood(db, service.FoodInput{Name: "Milk", CaloriesPer: 0.5, ServingUnit: "ml"})
	if err != nil {
		t.Fatalf("create milk: %v", err)
	}
	id, err := service.CreateEntry(db, service.CreateEntryInput{Food: oats.Ref, Quantity: 56.69904625, Category: "breakfast"})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}

	updated, err := service.UpdateEntry(db, service.UpdateEntryInput{ID: id, Food: &granola.Ref})
	if err != nil {
		t.Fatalf("swap to granola: %v", err)
	}
	if math.Abs(updated.Quantity-2) > 1e-9 {
		t.Fatalf("expected 56.7 g carried over as 2 oz, got %v", updated.Quantity)
	}
	if math.Abs(updated.Consumed.Calories-260) > 1e-6 {
		t.Fatalf("expected 260 kcal for 2 oz of granola, got %v", updated.Consumed.Calories)
	}

	if _, err := service.UpdateEntry(db, service.UpdateEntryInput{ID: id, Food: &milk.Ref}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error swapping ounces for millilitres without a quantity, got %v", err)
	}
	kept, err := service.EntryByID(db, id)
	if err != nil {
		t.Fatalf("entry by id: %v", err)
	}
	if kept.FoodRef != granola.Ref {
		t.Fatalf("expected rejected swap to leave entry on granola, got %s", kept.FoodRef)
	}
}
