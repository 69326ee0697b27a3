package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
	"github.com/usman-wf/warzish-sub000/internal/model"
	"github.com/usman-wf/warzish-sub000/internal/nutrition"
)

type SetProfileInput struct {
	Gender        string
	Weight        float64
	WeightUnit    string
	HeightCm      float64
	AgeYears      int
	ActivityLevel string
	Goal          string
}

// SetProfile validates and stores the single biometric profile, replacing
// any previous one.
func SetProfile(db *sql.DB, in SetProfileInput) (*model.BiometricProfile, error) {
	p := model.BiometricProfile{
		HeightCm:      in.HeightCm,
		AgeYears:      in.AgeYears,
		ActivityLevel: model.ParseActivityLevel(in.ActivityLevel),
	}
	if g, ok := model.ParseGender(in.Gender); ok {
		p.Gender = g
	}
	if in.Weight != 0 {
		kg, err := ToKg(in.Weight, in.WeightUnit)
		if err != nil {
			return nil, err
		}
		p.WeightKg = kg
	}
	if strings.TrimSpace(in.Goal) != "" {
		g, ok := model.ParseGoalType(in.Goal)
		if !ok {
			return nil, apperr.Validation("profile", "goal", "unknown goal %q (expected lose, gain or maintain)", in.Goal)
		}
		p.Goal = g
	}
	if err := nutrition.ValidateBiometrics(p); err != nil {
		return nil, err
	}

	_, err := db.Exec(`
INSERT INTO biometric_profile(id, gender, weight_kg, height_cm, age_years, activity_level, goal)
VALUES(1, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  gender=excluded.gender,
  weight_kg=excluded.weight_kg,
  height_cm=excluded.height_cm,
  age_years=excluded.age_years,
  activity_level=excluded.activity_level,
  goal=excluded.goal,
  updated_at=CURRENT_TIMESTAMP
`, string(p.Gender), p.WeightKg, p.HeightCm, p.AgeYears, string(p.ActivityLevel), string(p.Goal))
	if err != nil {
		return nil, fmt.Errorf("set profile: %w", err)
	}
	logrus.WithFields(logrus.Fields{"gender": p.Gender, "activity_level": p.ActivityLevel, "goal": p.Goal}).Debug("saved biometric profile")
	return GetProfile(db)
}

// GetProfile returns the stored profile, or nil when none exists.
func GetProfile(db *sql.DB) (*model.BiometricProfile, error) {
	var p model.BiometricProfile
	var gender, activity, goal, updatedRaw string
	err := db.QueryRow(`
SELECT gender, weight_kg, height_cm, age_years, activity_level, goal, updated_at
FROM biometric_profile
WHERE id = 1
`).Scan(&gender, &p.WeightKg, &p.HeightCm, &p.AgeYears, &activity, &goal, &updatedRaw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.Gender = model.Gender(gender)
	p.ActivityLevel = model.ActivityLevel(activity)
	p.Goal = model.GoalType(goal)
	if p.UpdatedAt, err = parseTime(updatedRaw); err != nil {
		return nil, err
	}
	return &p, nil
}

// Recommendation returns the full recommendation chain for the stored
// profile.
func Recommendation(db *sql.DB) (nutrition.Recommendation, error) {
	p, err := GetProfile(db)
	if err != nil {
		return nutrition.Recommendation{}, err
	}
	if p == nil {
		return nutrition.Recommendation{}, apperr.NotFound("profile", "biometric profile")
	}
	return nutrition.Recommend(*p)
}

func RecommendedTarget(db *sql.DB) (model.NutritionTarget, error) {
	rec, err := Recommendation(db)
	if err != nil {
		return model.NutritionTarget{}, err
	}
	return rec.Target, nil
}
