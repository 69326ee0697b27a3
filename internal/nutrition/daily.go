package nutrition

import (
	"sort"
	"time"

	"github.com/usman-wf/warzish-sub000/internal/model"
)

type CategorySummary struct {
	Totals  model.Macros  `json:"totals"`
	Entries []model.Entry `json:"entries"`
}

type DailySummary struct {
	Date       string                                  `json:"date"`
	Mode       Mode                                    `json:"mode"`
	Categories map[model.MealCategory]*CategorySummary `json:"categories"`
	Total      model.Macros                            `json:"total"`
}

// DayBounds returns the first and last millisecond of date's calendar day in loc.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

// SummarizeDay groups the entries consumed on date by meal category and sums
// their stored snapshots. Both window ends are inclusive.
func SummarizeDay(entries []model.Entry, date time.Time, loc *time.Location) DailySummary {
	start, end := DayBounds(date, loc)
	out := DailySummary{
		Date:       start.Format("2006-01-02"),
		Mode:       FrozenSnapshot,
		Categories: map[model.MealCategory]*CategorySummary{},
	}
	for _, e := range entries {
		if e.ConsumedAt.Before(start) || e.ConsumedAt.After(end) {
			continue
		}
		cs, ok := out.Categories[e.Category]
		if !ok {
			cs = &CategorySummary{}
			out.Categories[e.Category] = cs
		}
		cs.Totals = cs.Totals.Add(e.Consumed)
		cs.Entries = append(cs.Entries, e)
	}
	for _, c := range out.OrderedCategories() {
		out.Total = out.Total.Add(out.Categories[c].Totals)
	}
	return out
}

// OrderedCategories returns the categories present in s in display order.
func (s DailySummary) OrderedCategories() []model.MealCategory {
	return orderedKeys(s.Categories)
}

// orderedKeys lists known categories first in display order, then any
// unknown category values in the order they sort.
func orderedKeys[T any](m map[model.MealCategory]T) []model.MealCategory {
	out := make([]model.MealCategory, 0, len(m))
	seen := map[model.MealCategory]bool{}
	for _, c := range model.MealCategories {
		if _, ok := m[c]; ok {
			out = append(out, c)
			seen[c] = true
		}
	}
	extra := make([]model.MealCategory, 0)
	for c := range m {
		if !seen[c] {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}
