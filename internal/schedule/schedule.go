// Package schedule holds the pure date arithmetic behind plant-care
// reminders: next-trigger computation for recurring todos, batch action
// series generation, and the upcoming-reminder bucketing view. Nothing
// here touches storage; callers inject "now" so everything is
// deterministic under test.
package schedule

import (
	"time"

	"github.com/zxxx98/small-garden/internal/model"
)

// NextTrigger returns the next occurrence of a recurring reminder after
// from. Month arithmetic is calendar-based via time.AddDate, which
// normalizes overflow (2024-01-31 plus one month is 2024-03-02). An
// unknown unit returns from unchanged so a misconfigured todo surfaces
// as "never advances" instead of failing.
func NextTrigger(unit string, interval int, from time.Time) time.Time {
	switch unit {
	case model.UnitDay:
		return from.AddDate(0, 0, interval)
	case model.UnitWeek:
		return from.AddDate(0, 0, 7*interval)
	case model.UnitMonth:
		return from.AddDate(0, interval, 0)
	default:
		return from
	}
}

// GenerateSeries expands a base action into ceil(periodDays/intervalDays)
// occurrences (at least one), starting at the base action's time and
// stepping by intervalDays. The first entry is the base action itself,
// keeping its id; every later entry gets a fresh id from newID and links
// back to the origin via ParentRecurringID. The series is one level deep,
// never a tree.
func GenerateSeries(base model.Action, intervalDays, periodDays int, newID func() string) []model.Action {
	series := []model.Action{base}
	if intervalDays < 1 || periodDays < 1 {
		return series
	}

	count := (periodDays + intervalDays - 1) / intervalDays
	start := time.UnixMilli(base.Time)
	for i := 1; i < count; i++ {
		next := base
		next.ID = newID()
		next.ParentRecurringID = base.ID
		next.Time = start.AddDate(0, 0, i*intervalDays).UnixMilli()
		series = append(series, next)
	}
	return series
}
