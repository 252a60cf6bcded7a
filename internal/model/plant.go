package model

import "time"

// Recurrence units for todos.
const (
	UnitDay   = "day"
	UnitWeek  = "week"
	UnitMonth = "month"
)

// Todo is a reminder definition for one action type on one plant.
// Todos are embedded in the owning plant's record (JSON column in the
// plants table), never persisted on their own. A plant holds at most
// one todo per action name.
type Todo struct {
	PlantID           string `json:"plant_id"`
	ActionName        string `json:"action_name"`
	IsRecurring       bool   `json:"is_recurring"`
	RecurringUnit     string `json:"recurring_unit,omitempty"`
	RecurringInterval int    `json:"recurring_interval,omitempty"`
	NextRemindTime    int64  `json:"next_remind_time"` // epoch millis
	Remark            string `json:"remark,omitempty"`
}

// Plant is a tracked living object with care history and reminders.
type Plant struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	ScientificName string    `json:"scientific_name,omitempty"`
	Description    string    `json:"description,omitempty"`
	Img            string    `json:"img,omitempty"` // local path or remote URL
	PhotoMime      string    `json:"photo_mime,omitempty"`
	IsDead         bool      `json:"is_dead"`
	AreaID         string    `json:"area_id,omitempty"`
	Todos          []Todo    `json:"todos"`
	CreatedAt      time.Time `json:"created_at"`
}

// FindTodo returns the index of the todo with the given action name, or -1.
func (p *Plant) FindTodo(actionName string) int {
	for i := range p.Todos {
		if p.Todos[i].ActionName == actionName {
			return i
		}
	}
	return -1
}

// NextTodo returns the todo with the earliest next-remind time, or nil if
// the plant has no reminders. Derived on read, never stored.
func (p *Plant) NextTodo() *Todo {
	var next *Todo
	for i := range p.Todos {
		if next == nil || p.Todos[i].NextRemindTime < next.NextRemindTime {
			next = &p.Todos[i]
		}
	}
	return next
}
