package schedule

import (
	"sort"
	"time"

	"github.com/zxxx98/small-garden/internal/model"
)

// Entry is one outstanding reminder paired with its owning plant.
type Entry struct {
	PlantID   string     `json:"plant_id"`
	PlantName string     `json:"plant_name"`
	Todo      model.Todo `json:"todo"`
}

// Buckets groups outstanding reminders by due day for display. Todos due
// beyond the day after tomorrow appear in no bucket until they roll into
// range on a later read.
type Buckets struct {
	Today    []Entry `json:"today"` // overdue or due before end of today
	Tomorrow []Entry `json:"tomorrow"`
	DayAfter []Entry `json:"day_after"`
}

// Partition assigns every todo of every living plant to the first
// end-of-day boundary its next-remind time falls strictly before.
// Boundaries are midnight-based in now's location, not rolling 24-hour
// windows. Dead plants are skipped. The result is a pure view, recomputed
// on every call, with deterministic ordering inside each bucket.
func Partition(plants []model.Plant, now time.Time) Buckets {
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	endToday := midnight.AddDate(0, 0, 1).UnixMilli()
	endTomorrow := midnight.AddDate(0, 0, 2).UnixMilli()
	endDayAfter := midnight.AddDate(0, 0, 3).UnixMilli()

	var b Buckets
	for _, p := range plants {
		if p.IsDead {
			continue
		}
		for _, t := range p.Todos {
			e := Entry{PlantID: p.ID, PlantName: p.Name, Todo: t}
			switch {
			case t.NextRemindTime < endToday:
				b.Today = append(b.Today, e)
			case t.NextRemindTime < endTomorrow:
				b.Tomorrow = append(b.Tomorrow, e)
			case t.NextRemindTime < endDayAfter:
				b.DayAfter = append(b.DayAfter, e)
			}
		}
	}

	sortEntries(b.Today)
	sortEntries(b.Tomorrow)
	sortEntries(b.DayAfter)
	return b
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Todo.NextRemindTime != b.Todo.NextRemindTime {
			return a.Todo.NextRemindTime < b.Todo.NextRemindTime
		}
		if a.PlantID != b.PlantID {
			return a.PlantID < b.PlantID
		}
		return a.Todo.ActionName < b.Todo.ActionName
	})
}
