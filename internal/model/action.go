package model

// Action is a logged, completed care event against a plant. Actions are
// append-only in spirit; edit and delete exist but nothing else mutates
// them. Deleting a plant does not delete its actions.
type Action struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"` // action type name
	PlantID string   `json:"plant_id"`
	Time    int64    `json:"time"` // completion time, epoch millis
	Remark  string   `json:"remark,omitempty"`
	Imgs    []string `json:"imgs"`

	// Series metadata for batch-generated future actions. Generated
	// entries point back at the series origin via ParentRecurringID.
	// Independent from todo recurrence.
	IsRecurring       bool   `json:"is_recurring,omitempty"`
	RecurringInterval int    `json:"recurring_interval,omitempty"` // days
	ParentRecurringID string `json:"parent_recurring_id,omitempty"`
}
