package service_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/usman-wf/warzish-sub000/internal/db"
	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "warzish.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// createOats adds a gram-based food with round per-gram values.
func createOats(t *testing.T, sqldb *sql.DB) *model.Food {
	t.Helper()
	food, err := service.CreateFood(sqldb, service.FoodInput{
		Name:        "Oats",
		CaloriesPer: 4,
		ProteinPer:  0.5,
		CarbsPer:    0.25,
		FatPer:      0.125,
		ServingUnit: "g",
	})
	if err != nil {
		t.Fatalf("create oats: %v", err)
	}
	return food
}
