package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usman-wf/warzish-sub000/internal/db"
	"github.com/usman-wf/warzish-sub000/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHandler(t *testing.T) (*Handler, *sql.DB) {
	t.Helper()
	sqldb, err := db.Open(filepath.Join(t.TempDir(), "warzish.db"))
	require.NoError(t, err)
	require.NoError(t, db.ApplyMigrations(sqldb))
	t.Cleanup(func() { _ = sqldb.Close() })

	h := NewHandler(sqldb, time.UTC)
	h.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	return h, sqldb
}

func get(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	h.Router().ServeHTTP(rec, req)
	var body map[string]any
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)
	rec, body := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestDaySummaryRoute(t *testing.T) {
	h, sqldb := newTestHandler(t)
	food, err := service.CreateFood(sqldb, service.FoodInput{Name: "Rice", CaloriesPer: 1.3, ProteinPer: 0.03, CarbsPer: 0.28, ServingUnit: "g"})
	require.NoError(t, err)
	_, err = service.CreateEntry(sqldb, service.CreateEntryInput{
		Food:     food.Ref,
		Quantity: 200,
		Category: "lunch",
		Consumed: time.Date(2026, 6, 1, 13, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	rec, body := get(t, h, "/days/2026-06-01")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, "frozen-snapshot", summary["mode"])
	total := summary["total"].(map[string]any)
	assert.InDelta(t, 260, total["calories"], 1e-9)
	assert.Nil(t, body["target"])

	rec, _ = get(t, h, "/days/today")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = get(t, h, "/days/June-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "YYYY-MM-DD")
}

func TestErrorMapping(t *testing.T) {
	h, _ := newTestHandler(t)

	rec, _ := get(t, h, "/plans/nope/nutrition")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = get(t, h, "/targets/recommended")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = get(t, h, "/goals/abc/status")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = get(t, h, "/goals/active")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = get(t, h, "/range?from=2026-06-02&to=2026-06-01")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoalStatusAndRecommendedTarget(t *testing.T) {
	h, sqldb := newTestHandler(t)
	_, err := service.SetProfile(sqldb, service.SetProfileInput{
		Gender: "male", Weight: 70, HeightCm: 175, AgeYears: 30, ActivityLevel: "sedentary", Goal: "maintain",
	})
	require.NoError(t, err)

	rec, body := get(t, h, "/targets/recommended")
	require.Equal(t, http.StatusOK, rec.Code)
	target := body["target"].(map[string]any)
	assert.EqualValues(t, 2035, target["calories"])

	g, err := service.CreateGoal(sqldb, service.CreateGoalInput{
		Type:            "lose",
		CurrentWeight:   floatPtr(80),
		TargetWeight:    floatPtr(70),
		TimeframeMonths: 6,
		StartDate:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = service.AddProgress(sqldb, service.ProgressInput{GoalID: g.ID, Weight: floatPtr(75), RecordedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	rec, body = get(t, h, "/goals/active")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 50, body["percent"])
	assert.Equal(t, "in-progress", body["state"])
	assert.Equal(t, "3 months left", body["summary"])
}

func floatPtr(v float64) *float64 { return &v }
