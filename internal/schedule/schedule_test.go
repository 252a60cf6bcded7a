package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/zxxx98/small-garden/internal/model"
)

func TestNextTrigger(t *testing.T) {
	from := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		unit     string
		interval int
		want     time.Time
	}{
		{model.UnitDay, 1, time.Date(2024, 3, 11, 15, 30, 0, 0, time.UTC)},
		{model.UnitDay, 14, time.Date(2024, 3, 24, 15, 30, 0, 0, time.UTC)},
		{model.UnitWeek, 1, time.Date(2024, 3, 17, 15, 30, 0, 0, time.UTC)},
		{model.UnitWeek, 3, time.Date(2024, 3, 31, 15, 30, 0, 0, time.UTC)},
		{model.UnitMonth, 1, time.Date(2024, 4, 10, 15, 30, 0, 0, time.UTC)},
		{model.UnitMonth, 12, time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)},
		// Unknown unit is a defensive no-op.
		{"fortnight", 2, from},
		{"", 1, from},
	}

	for _, tt := range tests {
		got := NextTrigger(tt.unit, tt.interval, from)
		if !got.Equal(tt.want) {
			t.Errorf("NextTrigger(%q, %d) = %v, want %v", tt.unit, tt.interval, got, tt.want)
		}
	}
}

func TestNextTriggerMonthEndNormalization(t *testing.T) {
	// Calendar-month addition normalizes overflow: Jan 31 + 1 month is
	// Mar 2 in a leap year (Feb 29 + 2 days), not Feb 29.
	from := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	got := NextTrigger(model.UnitMonth, 1, from)
	want := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextTrigger(month, 1, 2024-01-31) = %v, want %v", got, want)
	}
}

func TestNextTriggerAlwaysAdvances(t *testing.T) {
	from := time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)
	for _, unit := range []string{model.UnitDay, model.UnitWeek, model.UnitMonth} {
		for interval := 1; interval <= 36; interval++ {
			got := NextTrigger(unit, interval, from)
			if !got.After(from) {
				t.Errorf("NextTrigger(%q, %d) = %v, not after %v", unit, interval, got, from)
			}
		}
	}
}

func newTestIDGen() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("generated-%d", n)
	}
}

func TestGenerateSeries(t *testing.T) {
	base := model.Action{
		ID:      "base-id",
		Name:    "Water",
		PlantID: "plant-1",
		Time:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC).UnixMilli(),
	}

	series := GenerateSeries(base, 3, 10, newTestIDGen())

	if len(series) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(series))
	}
	if series[0].ID != "base-id" {
		t.Errorf("first entry must keep the base id, got %q", series[0].ID)
	}
	if series[0].ParentRecurringID != "" {
		t.Errorf("base entry must not link to itself, got %q", series[0].ParentRecurringID)
	}

	for i, a := range series[1:] {
		if a.ID == "base-id" || a.ID == "" {
			t.Errorf("entry %d: expected fresh id, got %q", i+1, a.ID)
		}
		if a.ParentRecurringID != "base-id" {
			t.Errorf("entry %d: expected parent 'base-id', got %q", i+1, a.ParentRecurringID)
		}
	}

	start := time.UnixMilli(base.Time)
	for i, a := range series {
		want := start.AddDate(0, 0, i*3).UnixMilli()
		if a.Time != want {
			t.Errorf("entry %d: time = %d, want %d", i, a.Time, want)
		}
	}
}

func TestGenerateSeriesShortPeriod(t *testing.T) {
	base := model.Action{ID: "base", Name: "Repot", PlantID: "p", Time: time.Now().UnixMilli()}

	// Period shorter than the interval produces only the base entry.
	series := GenerateSeries(base, 7, 3, newTestIDGen())
	if len(series) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(series))
	}
	if series[0].ID != "base" {
		t.Errorf("expected base entry, got id %q", series[0].ID)
	}
}

func TestGenerateSeriesCounts(t *testing.T) {
	base := model.Action{ID: "base", Name: "Water", PlantID: "p",
		Time: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).UnixMilli()}

	tests := []struct {
		interval, period, want int
	}{
		{1, 1, 1},
		{1, 5, 5},
		{2, 10, 5},
		{3, 9, 3},
		{3, 10, 4},
		{30, 365, 13},
	}

	for _, tt := range tests {
		series := GenerateSeries(base, tt.interval, tt.period, newTestIDGen())
		if len(series) != tt.want {
			t.Errorf("GenerateSeries(interval=%d, period=%d): %d entries, want %d",
				tt.interval, tt.period, len(series), tt.want)
		}
		last := time.UnixMilli(series[len(series)-1].Time)
		limit := time.UnixMilli(base.Time).AddDate(0, 0, tt.period)
		if last.After(limit) {
			t.Errorf("GenerateSeries(interval=%d, period=%d): last entry %v beyond limit %v",
				tt.interval, tt.period, last, limit)
		}
	}
}
