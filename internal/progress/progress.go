// Package progress tracks completion of weight goals from their recorded
// progress entries.
package progress

import (
	"fmt"
	"math"
	"time"

	"github.com/usman-wf/warzish-sub000/internal/apperr"
	"github.com/usman-wf/warzish-sub000/internal/model"
)

const (
	MinTimeframeMonths = 1
	MaxTimeframeMonths = 36
	MinTargetBodyFat   = 1.0
	MaxTargetBodyFat   = 40.0
)

type State string

const (
	NoData         State = "no-data"
	InProgress     State = "in-progress"
	AtOrPastTarget State = "at-or-past-target"
)

// Latest returns the most recent progress entry carrying a weight. Entries
// are compared by RecordedAt; on equal times the later one in the slice wins.
func Latest(entries []model.ProgressEntry) (model.ProgressEntry, bool) {
	var latest model.ProgressEntry
	found := false
	for _, e := range entries {
		if e.WeightKg == nil {
			continue
		}
		if !found || !e.RecordedAt.Before(latest.RecordedAt) {
			latest = e
			found = true
		}
	}
	return latest, found
}

// CalculateProgress returns goal completion in [0, 100].
func CalculateProgress(g model.Goal) float64 {
	latest, ok := Latest(g.Progress)
	if !ok || g.StartWeightKg == nil || g.TargetWeightKg == nil {
		return 0
	}
	start, target, current := *g.StartWeightKg, *g.TargetWeightKg, *latest.WeightKg

	var total, done float64
	switch g.Type {
	case model.LoseWeight:
		total = start - target
		done = start - current
	case model.GainWeight:
		total = target - start
		done = current - start
	default:
		return 0
	}
	if total <= 0 {
		return 0
	}
	return clamp(done/total*100, 0, 100)
}

// CurrentState places g in one of the three progress states.
func CurrentState(g model.Goal) State {
	if _, ok := Latest(g.Progress); !ok {
		return NoData
	}
	if CalculateProgress(g) >= 100 {
		return AtOrPastTarget
	}
	return InProgress
}

// TimeLeft is the time remaining until a goal's target date.
type TimeLeft struct {
	Expired bool `json:"expired"`
	Days    int  `json:"days"`
	Months  int  `json:"months"`
}

func (t TimeLeft) String() string {
	switch {
	case t.Expired:
		return "expired"
	case t.Months > 0:
		return fmt.Sprintf("%d %s left", t.Months, plural(t.Months, "month"))
	default:
		return fmt.Sprintf("%d %s left", t.Days, plural(t.Days, "day"))
	}
}

// GetTimeLeft reports days left, counting a started day as a whole one,
// when under 30, otherwise whole 30-day months rounded down.
func GetTimeLeft(g model.Goal, now time.Time) TimeLeft {
	if g.TargetDate.Before(now) {
		return TimeLeft{Expired: true}
	}
	days := int(math.Ceil(g.TargetDate.Sub(now).Hours() / 24))
	if days < 30 {
		return TimeLeft{Days: days}
	}
	return TimeLeft{Days: days, Months: days / 30}
}

// TargetDate is start shifted by months calendar months.
func TargetDate(start time.Time, months int) time.Time {
	return start.AddDate(0, months, 0)
}

func ValidateTimeframe(months int) error {
	if months < MinTimeframeMonths || months > MaxTimeframeMonths {
		return apperr.Validation("goal", "timeframe_months", "must be between %d and %d, got %d", MinTimeframeMonths, MaxTimeframeMonths, months)
	}
	return nil
}

func ValidateTargetBodyFat(pct *float64) error {
	if pct == nil {
		return nil
	}
	if *pct < MinTargetBodyFat || *pct > MaxTargetBodyFat || math.IsNaN(*pct) {
		return apperr.Validation("goal", "target_body_fat_pct", "must be between %.0f and %.0f", MinTargetBodyFat, MaxTargetBodyFat)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
