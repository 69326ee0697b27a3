package service

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
)

// timeLayout is fixed width and always written in UTC so stored timestamps
// compare correctly as strings.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

const dateLayout = "2006-01-02"

func validateNonNegativeFloat(entity, name string, value float64) error {
	if value < 0 || math.IsNaN(value) {
		return apperr.Validation(entity, name, "must be >= 0")
	}
	return nil
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime reads a stored timestamp. Values written by this package are
// RFC 3339; column defaults from SQLite use the space-separated form.
func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return t, nil
	}
	if t, err2 := time.Parse("2006-01-02 15:04:05", raw); err2 == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("parse stored time %q: %w", raw, err)
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

// parseDate reads YYYY-MM-DD as midnight in loc; nil means time.Local.
func parseDate(entity, value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), orLocal(loc))
	if err != nil {
		return time.Time{}, apperr.Validation(entity, "date", "invalid date %q (expected YYYY-MM-DD)", value)
	}
	return t, nil
}

// dateOrToday validates value, or returns today's date in loc when empty.
func dateOrToday(entity, value string, loc *time.Location) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now().In(orLocal(loc)).Format(dateLayout), nil
	}
	if _, err := parseDate(entity, value, loc); err != nil {
		return "", err
	}
	return value, nil
}

func parseIDLoose(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be > 0")
	}
	return id, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func rowsAffected(res sql.Result, entity string, ref any) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for %s %v: %w", entity, ref, err)
	}
	if affected == 0 {
		return apperr.NotFound(entity, ref)
	}
	return nil
}
