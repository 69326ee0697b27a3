package service

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/progress"
)

type CreateGoalInput struct {
	Type            string
	CurrentWeight   *float64
	TargetWeight    *float64
	TargetBodyFat   *float64
	WeightUnit      string
	TimeframeMonths int
	StartDate       time.Time
	Notes           string
}

type UpdateGoalInput struct {
	ID              int64
	TargetWeight    *float64
	TargetBodyFat   *float64
	WeightUnit      string
	TimeframeMonths *int
	Notes           *string
}

type ProgressInput struct {
	GoalID     int64
	Weight     *float64
	WeightUnit string
	BodyFatPct *float64
	RecordedAt time.Time
	Notes      string
}

type GoalStatus struct {
	Goal     *model.Goal          `json:"goal"`
	Percent  float64              `json:"percent"`
	State    progress.State       `json:"state"`
	TimeLeft progress.TimeLeft    `json:"time_left"`
	Summary  string               `json:"summary"`
	Latest   *model.ProgressEntry `json:"latest,omitempty"`
}

// CreateGoal starts a goal and makes it the only active one. The start
// weight is the given current weight, else the profile weight, else the
// most recently recorded progress weight.
func CreateGoal(db *sql.DB, in CreateGoalInput) (*model.Goal, error) {
	goalType, ok := model.ParseGoalType(in.Type)
	if !ok {
		return nil, apperr.Validation("goal", "goal_type", "unknown goal type %q (expected lose_weight, gain_weight or maintain_weight)", in.Type)
	}
	if err := progress.ValidateTimeframe(in.TimeframeMonths); err != nil {
		return nil, err
	}
	if err := progress.ValidateTargetBodyFat(in.TargetBodyFat); err != nil {
		return nil, err
	}
	targetKg, err := optionalKg(in.TargetWeight, in.WeightUnit)
	if err != nil {
		return nil, err
	}
	startKg, err := optionalKg(in.CurrentWeight, in.WeightUnit)
	if err != nil {
		return nil, err
	}
	if startKg == nil {
		if startKg, err = lastKnownWeight(db); err != nil {
			return nil, err
		}
	}
	switch goalType {
	case model.MaintainWeight:
		if targetKg == nil {
			targetKg = startKg
		}
	default:
		if targetKg == nil && in.TargetBodyFat == nil {
			return nil, apperr.Validation("goal", "target_weight_kg", "a target weight or target body fat is required")
		}
		if targetKg != nil && startKg == nil {
			return nil, apperr.Validation("goal", "start_weight_kg", "no current weight given and none recorded")
		}
	}
	if in.StartDate.IsZero() {
		in.StartDate = time.Now()
	}
	targetDate := progress.TargetDate(in.StartDate, in.TimeframeMonths)

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin goal tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE goals SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE is_active = 1`); err != nil {
		return nil, fmt.Errorf("deactivate previous goals: %w", err)
	}
	res, err := tx.Exec(`
INSERT INTO goals(goal_type, start_weight_kg, target_weight_kg, target_body_fat_pct, start_date, timeframe_months, target_date, is_active, notes)
VALUES(?, ?, ?, ?, ?, ?, ?, 1, ?)
`, string(goalType), startKg, targetKg, in.TargetBodyFat, formatTime(in.StartDate), in.TimeframeMonths, formatTime(targetDate), strings.TrimSpace(in.Notes))
	if err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("resolve goal id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit goal: %w", err)
	}
	logrus.WithFields(logrus.Fields{"goal_id": id, "goal_type": goalType, "timeframe_months": in.TimeframeMonths}).Debug("created goal")
	return GoalByID(db, id)
}

func lastKnownWeight(db *sql.DB) (*float64, error) {
	p, err := GetProfile(db)
	if err != nil {
		return nil, err
	}
	if p != nil && p.WeightKg > 0 {
		w := p.WeightKg
		return &w, nil
	}
	var w sql.NullFloat64
	err = db.QueryRow(`
SELECT weight_kg FROM goal_progress
WHERE weight_kg IS NOT NULL
ORDER BY recorded_at DESC, id DESC
LIMIT 1
`).Scan(&w)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("read last recorded weight: %w", err)
	}
	return nullFloat(w), nil
}

const goalSelectBase = `
SELECT id, goal_type, start_weight_kg, target_weight_kg, target_body_fat_pct, start_date, timeframe_months, target_date, is_active, notes, created_at, updated_at
FROM goals`

func scanGoal(row rowScanner) (*model.Goal, error) {
	var g model.Goal
	var goalType, startRaw, targetRaw, createdRaw, updatedRaw string
	var startW, targetW, bodyFat sql.NullFloat64
	var active int
	if err := row.Scan(&g.ID, &goalType, &startW, &targetW, &bodyFat, &startRaw, &g.TimeframeMonths, &targetRaw, &active, &g.Notes, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	g.Type = model.GoalType(goalType)
	g.StartWeightKg = nullFloat(startW)
	g.TargetWeightKg = nullFloat(targetW)
	g.TargetBodyFatPct = nullFloat(bodyFat)
	g.IsActive = active == 1
	for _, f := range []struct {
		dst *time.Time
		raw string
	}{{&g.StartDate, startRaw}, {&g.TargetDate, targetRaw}, {&g.CreatedAt, createdRaw}, {&g.UpdatedAt, updatedRaw}} {
		t, err := parseTime(f.raw)
		if err != nil {
			return nil, fmt.Errorf("goal %d: %w", g.ID, err)
		}
		*f.dst = t
	}
	return &g, nil
}

// GoalByID loads a goal with its progress entries in recorded order.
func GoalByID(db *sql.DB, id int64) (*model.Goal, error) {
	if id <= 0 {
		return nil, apperr.Validation("goal", "id", "must be > 0")
	}
	g, err := scanGoal(db.QueryRow(goalSelectBase+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("goal", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get goal %d: %w", id, err)
	}
	if g.Progress, err = progressEntries(db, id); err != nil {
		return nil, err
	}
	return g, nil
}

// ActiveGoal returns the active goal, or nil when there is none.
func ActiveGoal(db *sql.DB) (*model.Goal, error) {
	var id int64
	err := db.QueryRow(`SELECT id FROM goals WHERE is_active = 1 ORDER BY id DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active goal: %w", err)
	}
	return GoalByID(db, id)
}

func ListGoals(db *sql.DB, includeInactive bool) ([]model.Goal, error) {
	query := goalSelectBase
	if !includeInactive {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY start_date DESC, id DESC`
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()
	goals := make([]model.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return goals, nil
}

// UpdateGoal edits targets, timeframe and notes. A new timeframe moves the
// target date relative to the original start date.
func UpdateGoal(db *sql.DB, in UpdateGoalInput) (*model.Goal, error) {
	g, err := GoalByID(db, in.ID)
	if err != nil {
		return nil, err
	}
	if in.TargetWeight != nil {
		if g.TargetWeightKg, err = optionalKg(in.TargetWeight, in.WeightUnit); err != nil {
			return nil, err
		}
	}
	if in.TargetBodyFat != nil {
		if err := progress.ValidateTargetBodyFat(in.TargetBodyFat); err != nil {
			return nil, err
		}
		g.TargetBodyFatPct = in.TargetBodyFat
	}
	if in.TimeframeMonths != nil {
		if err := progress.ValidateTimeframe(*in.TimeframeMonths); err != nil {
			return nil, err
		}
		g.TimeframeMonths = *in.TimeframeMonths
		g.TargetDate = progress.TargetDate(g.StartDate, g.TimeframeMonths)
	}
	if in.Notes != nil {
		g.Notes = strings.TrimSpace(*in.Notes)
	}
	res, err := db.Exec(`
UPDATE goals
SET target_weight_kg = ?, target_body_fat_pct = ?, timeframe_months = ?, target_date = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, g.TargetWeightKg, g.TargetBodyFatPct, g.TimeframeMonths, formatTime(g.TargetDate), g.Notes, g.ID)
	if err != nil {
		return nil, fmt.Errorf("update goal %d: %w", g.ID, err)
	}
	if err := rowsAffected(res, "goal", g.ID); err != nil {
		return nil, err
	}
	logrus.WithField("goal_id", g.ID).Debug("updated goal")
	return GoalByID(db, g.ID)
}

func DeactivateGoal(db *sql.DB, id int64) error {
	res, err := db.Exec(`UPDATE goals SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate goal %d: %w", id, err)
	}
	if err := rowsAffected(res, "goal", id); err != nil {
		return err
	}
	logrus.WithField("goal_id", id).Debug("deactivated goal")
	return nil
}

// DeleteGoal removes a goal and its progress entries.
func DeleteGoal(db *sql.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal %d: %w", id, err)
	}
	if err := rowsAffected(res, "goal", id); err != nil {
		return err
	}
	logrus.WithField("goal_id", id).Debug("deleted goal")
	return nil
}

// AddProgress appends a measurement to a goal. Entries are never edited.
func AddProgress(db *sql.DB, in ProgressInput) (int64, error) {
	if _, err := GoalByID(db, in.GoalID); err != nil {
		return 0, err
	}
	if in.Weight == nil && in.BodyFatPct == nil {
		return 0, apperr.Validation("progress entry", "weight_kg", "a weight or body fat value is required")
	}
	weightKg, err := optionalKg(in.Weight, in.WeightUnit)
	if err != nil {
		return 0, err
	}
	if in.BodyFatPct != nil && (*in.BodyFatPct < 0 || *in.BodyFatPct > 100 || math.IsNaN(*in.BodyFatPct)) {
		return 0, apperr.Validation("progress entry", "body_fat_pct", "must be between 0 and 100")
	}
	if in.RecordedAt.IsZero() {
		in.RecordedAt = time.Now()
	}
	res, err := db.Exec(`
INSERT INTO goal_progress(goal_id, recorded_at, weight_kg, body_fat_pct, notes)
VALUES(?, ?, ?, ?, ?)
`, in.GoalID, formatTime(in.RecordedAt), weightKg, in.BodyFatPct, strings.TrimSpace(in.Notes))
	if err != nil {
		return 0, fmt.Errorf("add progress entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve progress entry id: %w", err)
	}
	logrus.WithFields(logrus.Fields{"goal_id": in.GoalID, "progress_id": id}).Debug("recorded goal progress")
	return id, nil
}

func progressEntries(db *sql.DB, goalID int64) ([]model.ProgressEntry, error) {
	rows, err := db.Query(`
SELECT id, goal_id, recorded_at, weight_kg, body_fat_pct, notes
FROM goal_progress
WHERE goal_id = ?
ORDER BY recorded_at ASC, id ASC
`, goalID)
	if err != nil {
		return nil, fmt.Errorf("list progress for goal %d: %w", goalID, err)
	}
	defer rows.Close()
	out := make([]model.ProgressEntry, 0)
	for rows.Next() {
		var p model.ProgressEntry
		var recordedRaw string
		var weight, bodyFat sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.GoalID, &recordedRaw, &weight, &bodyFat, &p.Notes); err != nil {
			return nil, fmt.Errorf("scan progress entry: %w", err)
		}
		if p.RecordedAt, err = parseTime(recordedRaw); err != nil {
			return nil, err
		}
		p.WeightKg = nullFloat(weight)
		p.BodyFatPct = nullFloat(bodyFat)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress entries: %w", err)
	}
	return out, nil
}

// Status reports completion, state and time left for a goal at now.
func Status(db *sql.DB, id int64, now time.Time) (*GoalStatus, error) {
	g, err := GoalByID(db, id)
	if err != nil {
		return nil, err
	}
	st := &GoalStatus{
		Goal:     g,
		Percent:  progress.CalculateProgress(*g),
		State:    progress.CurrentState(*g),
		TimeLeft: progress.GetTimeLeft(*g, now),
	}
	st.Summary = st.TimeLeft.String()
	if latest, ok := progress.Latest(g.Progress); ok {
		st.Latest = &latest
	}
	return st, nil
}
