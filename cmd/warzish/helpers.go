package warzish

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/usman-wf/warzish-sub000/internal/app"
	"github.com/usman-wf/warzish-sub000/internal/db"
	"github.com/usman-wf/warzish-sub000/internal/service"
)

// openDB opens and migrates the database. Default foods are seeded into a
// store this call creates, or into an empty foods table when seedWhenEmpty
// is set; otherwise deleted defaults stay deleted. It returns the resolved
// path and the number of foods seeded.
func openDB(seedWhenEmpty bool) (*sql.DB, string, int, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, "", 0, err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return nil, "", 0, err
	}
	_, statErr := os.Stat(path)
	fresh := errors.Is(statErr, fs.ErrNotExist)
	sqldb, err := db.Open(path)
	if err != nil {
		return nil, "", 0, err
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		sqldb.Close()
		return nil, "", 0, err
	}
	if !fresh && !seedWhenEmpty {
		return sqldb, path, 0, nil
	}
	seeded, err := service.SeedDefaultFoods(sqldb, func() (bool, error) { return service.FoodsEmpty(sqldb) })
	if err != nil {
		sqldb.Close()
		return nil, "", 0, err
	}
	return sqldb, path, seeded, nil
}

func withDB(run func(*sql.DB) error) error {
	sqldb, _, _, err := openDB(false)
	if err != nil {
		return err
	}
	defer sqldb.Close()
	return run(sqldb)
}

// resolveDBPath prefers --db, then db.path from config, then the default
// location in the user config dir.
func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	return app.DefaultDBPath()
}

func location() (*time.Location, error) {
	if cfg == nil {
		return time.Local, nil
	}
	return cfg.Location()
}

// weightUnit returns flagValue, or the configured unit when it is empty.
func weightUnit(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if cfg != nil && cfg.WeightUnit != "" {
		return cfg.WeightUnit
	}
	return "kg"
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func parseDateTimeOrNow(date, timeStr string) (time.Time, error) {
	date = strings.TrimSpace(date)
	timeStr = strings.TrimSpace(timeStr)
	if date == "" && timeStr == "" {
		return time.Now(), nil
	}
	return parseDateTime(date, timeStr)
}

// parseDateTime reads a date with an optional HH:MM time in the configured
// timezone. A date alone means noon, which keeps it inside the day
// regardless of DST shifts.
func parseDateTime(date, timeStr string) (time.Time, error) {
	loc, err := location()
	if err != nil {
		return time.Time{}, err
	}
	date = strings.TrimSpace(date)
	timeStr = strings.TrimSpace(timeStr)
	if date == "" {
		return time.Time{}, fmt.Errorf("--date is required when --time is set")
	}
	if timeStr == "" {
		t, err := time.ParseInLocation("2006-01-02", date, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
		}
		return t.Add(12 * time.Hour), nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeStr, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date/--time (expected YYYY-MM-DD and HH:MM)")
	}
	return t, nil
}

// parseDay reads YYYY-MM-DD or "today" in the configured timezone.
func parseDay(value string) (time.Time, error) {
	loc, err := location()
	if err != nil {
		return time.Time{}, err
	}
	value = strings.TrimSpace(value)
	if value == "" || value == "today" {
		return time.Now().In(loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return t, nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func optionalFloat(set bool, v float64) *float64 {
	if !set {
		return nil
	}
	return &v
}
