package db

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "foods_and_entries",
		sql: `
CREATE TABLE IF NOT EXISTS foods (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ref TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  name_norm TEXT NOT NULL,
  brand TEXT NOT NULL DEFAULT '',
  calories_per_unit REAL NOT NULL CHECK(calories_per_unit >= 0),
  protein_per_unit REAL NOT NULL CHECK(protein_per_unit >= 0),
  carbs_per_unit REAL NOT NULL CHECK(carbs_per_unit >= 0),
  fat_per_unit REAL NOT NULL CHECK(fat_per_unit >= 0),
  fiber_per_unit REAL CHECK(fiber_per_unit >= 0),
  sugar_per_unit REAL CHECK(sugar_per_unit >= 0),
  sodium_per_unit REAL CHECK(sodium_per_unit >= 0),
  serving_unit TEXT NOT NULL CHECK(serving_unit IN ('gram', 'milliliter', 'ounce', 'cup', 'tablespoon', 'teaspoon', 'piece')),
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_foods_name_norm ON foods(name_norm);

CREATE TABLE IF NOT EXISTS entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  food_ref TEXT NOT NULL,
  food_name TEXT NOT NULL,
  quantity REAL NOT NULL CHECK(quantity >= 0.01),
  meal_category TEXT NOT NULL CHECK(meal_category IN ('breakfast', 'lunch', 'dinner', 'snack')),
  consumed_at DATETIME NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  calories_consumed REAL NOT NULL CHECK(calories_consumed >= 0),
  protein_consumed REAL NOT NULL CHECK(protein_consumed >= 0),
  carbs_consumed REAL NOT NULL CHECK(carbs_consumed >= 0),
  fat_consumed REAL NOT NULL CHECK(fat_consumed >= 0),
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_entries_consumed_at ON entries(consumed_at);
`,
	},
	{
		version: 2,
		name:    "targets_and_profile",
		sql: `
CREATE TABLE IF NOT EXISTS nutrition_targets (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  calories INTEGER NOT NULL CHECK(calories >= 0),
  protein_g REAL NOT NULL CHECK(protein_g >= 0),
  carbs_g REAL NOT NULL CHECK(carbs_g >= 0),
  fat_g REAL NOT NULL CHECK(fat_g >= 0),
  source TEXT NOT NULL DEFAULT 'user' CHECK(source IN ('user', 'recommended')),
  effective_date TEXT NOT NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(effective_date)
);

CREATE TABLE IF NOT EXISTS biometric_profile (
  id INTEGER PRIMARY KEY CHECK(id = 1),
  gender TEXT NOT NULL,
  weight_kg REAL NOT NULL CHECK(weight_kg > 0),
  height_cm REAL NOT NULL CHECK(height_cm > 0),
  age_years INTEGER NOT NULL CHECK(age_years > 0),
  activity_level TEXT NOT NULL,
  goal TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 3,
		name:    "meal_plans",
		sql: `
CREATE TABLE IF NOT EXISTS meal_plans (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  name_norm TEXT NOT NULL UNIQUE,
  notes TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- food_ref has no foreign key: deleting a food leaves plan items orphaned.
CREATE TABLE IF NOT EXISTS meal_plan_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  plan_id INTEGER NOT NULL,
  position INTEGER NOT NULL,
  food_ref TEXT NOT NULL,
  quantity REAL NOT NULL CHECK(quantity >= 0.01),
  meal_category TEXT NOT NULL CHECK(meal_category IN ('breakfast', 'lunch', 'dinner', 'snack')),
  notes TEXT NOT NULL DEFAULT '',
  FOREIGN KEY(plan_id) REFERENCES meal_plans(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_meal_plan_items_plan_id ON meal_plan_items(plan_id, position);
`,
	},
	{
		version: 4,
		name:    "goals",
		sql: `
CREATE TABLE IF NOT EXISTS goals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  goal_type TEXT NOT NULL CHECK(goal_type IN ('lose_weight', 'gain_weight', 'maintain_weight')),
  start_weight_kg REAL CHECK(start_weight_kg > 0),
  target_weight_kg REAL CHECK(target_weight_kg > 0),
  target_body_fat_pct REAL CHECK(target_body_fat_pct >= 1 AND target_body_fat_pct <= 40),
  start_date DATETIME NOT NULL,
  timeframe_months INTEGER NOT NULL CHECK(timeframe_months >= 1 AND timeframe_months <= 36),
  target_date DATETIME NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  notes TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS goal_progress (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  goal_id INTEGER NOT NULL,
  recorded_at DATETIME NOT NULL,
  weight_kg REAL CHECK(weight_kg > 0),
  body_fat_pct REAL CHECK(body_fat_pct >= 0 AND body_fat_pct <= 100),
  notes TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(goal_id) REFERENCES goals(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_goal_progress_goal_id ON goal_progress(goal_id, recorded_at);
`,
	},
}

// ApplyMigrations brings the schema up to date. It does not seed data; see
// service.SeedDefaultFoods.
func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
		logrus.WithFields(logrus.Fields{"version": m.version, "name": m.name}).Info("applied migration")
	}
	return nil
}

// SchemaVersion returns the highest applied migration version, 0 when none.
func SchemaVersion(db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}

func LatestVersion() int {
	return migrations[len(migrations)-1].version
}
