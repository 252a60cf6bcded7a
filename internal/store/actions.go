package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zxxx98/small-garden/internal/model"
	"github.com/zxxx98/small-garden/internal/schedule"
)

// CreateAction appends an action to the care log.
func CreateAction(ctx context.Context, db *sql.DB, a *model.Action) (*model.Action, error) {
	imgs, err := marshalImgs(a.Imgs)
	if err != nil {
		return nil, err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO actions (id, name, plant_id, time, remark, imgs, is_recurring, recurring_interval, parent_recurring_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.PlantID, a.Time, a.Remark, imgs, a.IsRecurring, a.RecurringInterval, a.ParentRecurringID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating action: %w", err)
	}

	return GetAction(ctx, db, a.ID)
}

// GetAction returns an action by ID.
func GetAction(ctx context.Context, db *sql.DB, id string) (*model.Action, error) {
	a := &model.Action{}
	var imgs string
	err := db.QueryRowContext(ctx,
		`SELECT id, name, plant_id, time, remark, imgs, is_recurring, recurring_interval, parent_recurring_id
		 FROM actions WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &a.PlantID, &a.Time, &a.Remark, &imgs, &a.IsRecurring, &a.RecurringInterval, &a.ParentRecurringID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting action: %w", err)
	}
	if a.Imgs, err = unmarshalImgs(imgs); err != nil {
		return nil, err
	}
	return a, nil
}

// ListActions returns all actions, newest first, optionally filtered by
// plant id.
func ListActions(ctx context.Context, db *sql.DB, plantID string) ([]model.Action, error) {
	query := `SELECT id, name, plant_id, time, remark, imgs, is_recurring, recurring_interval, parent_recurring_id
	          FROM actions`
	var args []any
	if plantID != "" {
		query += ` WHERE plant_id = ?`
		args = append(args, plantID)
	}
	query += ` ORDER BY time DESC, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing actions: %w", err)
	}
	defer rows.Close()

	var actions []model.Action
	for rows.Next() {
		var a model.Action
		var imgs string
		if err := rows.Scan(&a.ID, &a.Name, &a.PlantID, &a.Time, &a.Remark, &imgs,
			&a.IsRecurring, &a.RecurringInterval, &a.ParentRecurringID); err != nil {
			return nil, fmt.Errorf("scanning action: %w", err)
		}
		if a.Imgs, err = unmarshalImgs(imgs); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// LatestAction returns a plant's most recent logged action, or nil.
// Derived on read, never stored on the plant.
func LatestAction(ctx context.Context, db *sql.DB, plantID string) (*model.Action, error) {
	a := &model.Action{}
	var imgs string
	err := db.QueryRowContext(ctx,
		`SELECT id, name, plant_id, time, remark, imgs, is_recurring, recurring_interval, parent_recurring_id
		 FROM actions WHERE plant_id = ? ORDER BY time DESC, id LIMIT 1`, plantID,
	).Scan(&a.ID, &a.Name, &a.PlantID, &a.Time, &a.Remark, &imgs, &a.IsRecurring, &a.RecurringInterval, &a.ParentRecurringID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest action: %w", err)
	}
	if a.Imgs, err = unmarshalImgs(imgs); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAction rewrites an action's editable fields.
func UpdateAction(ctx context.Context, db *sql.DB, a *model.Action) error {
	imgs, err := marshalImgs(a.Imgs)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`UPDATE actions SET name = ?, time = ?, remark = ?, imgs = ? WHERE id = ?`,
		a.Name, a.Time, a.Remark, imgs, a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating action: %w", err)
	}
	return nil
}

// DeleteAction removes an action from the log.
func DeleteAction(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM actions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting action: %w", err)
	}
	return nil
}

// CompleteAction logs an action and settles the plant's matching reminder
// in a single transaction: a non-recurring todo is consumed, a recurring
// one has its next-remind time recomputed from the action's completion
// time (not from the todo's previous due time, so a late watering does
// not compound drift). Returns the todo's new state (nil if none matched
// or it was consumed) and whether one was consumed.
func CompleteAction(ctx context.Context, db *sql.DB, a *model.Action) (*model.Todo, bool, error) {
	imgs, err := marshalImgs(a.Imgs)
	if err != nil {
		return nil, false, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO actions (id, name, plant_id, time, remark, imgs, is_recurring, recurring_interval, parent_recurring_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.PlantID, a.Time, a.Remark, imgs, a.IsRecurring, a.RecurringInterval, a.ParentRecurringID,
	)
	if err != nil {
		return nil, false, fmt.Errorf("logging action: %w", err)
	}

	var todosData string
	err = tx.QueryRowContext(ctx,
		`SELECT todos FROM plants WHERE id = ?`, a.PlantID,
	).Scan(&todosData)
	if err != nil {
		return nil, false, fmt.Errorf("reading plant todos: %w", err)
	}

	todos, err := unmarshalTodos(todosData)
	if err != nil {
		return nil, false, err
	}

	matched := -1
	for i := range todos {
		if todos[i].ActionName == a.Name {
			matched = i
			break
		}
	}

	// Logging an action never creates a reminder.
	if matched == -1 {
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("committing action: %w", err)
		}
		return nil, false, nil
	}

	var updated *model.Todo
	consumed := false
	if todos[matched].IsRecurring {
		t := todos[matched]
		next := schedule.NextTrigger(t.RecurringUnit, t.RecurringInterval, time.UnixMilli(a.Time))
		t.NextRemindTime = next.UnixMilli()
		todos[matched] = t
		updated = &t
	} else {
		todos = append(todos[:matched], todos[matched+1:]...)
		consumed = true
	}

	data, err := marshalTodos(todos)
	if err != nil {
		return nil, false, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE plants SET todos = ? WHERE id = ?`, data, a.PlantID,
	); err != nil {
		return nil, false, fmt.Errorf("writing plant todos: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("committing action: %w", err)
	}
	return updated, consumed, nil
}

// CreateActionSeries inserts a batch of generated actions atomically.
func CreateActionSeries(ctx context.Context, db *sql.DB, series []model.Action) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range series {
		a := &series[i]
		imgs, err := marshalImgs(a.Imgs)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO actions (id, name, plant_id, time, remark, imgs, is_recurring, recurring_interval, parent_recurring_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Name, a.PlantID, a.Time, a.Remark, imgs, a.IsRecurring, a.RecurringInterval, a.ParentRecurringID,
		); err != nil {
			return fmt.Errorf("inserting series action %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing action series: %w", err)
	}
	return nil
}

func marshalImgs(imgs []string) (string, error) {
	if imgs == nil {
		imgs = []string{}
	}
	data, err := json.Marshal(imgs)
	if err != nil {
		return "", fmt.Errorf("marshaling imgs: %w", err)
	}
	return string(data), nil
}

func unmarshalImgs(data string) ([]string, error) {
	var imgs []string
	if err := json.Unmarshal([]byte(data), &imgs); err != nil {
		return nil, fmt.Errorf("unmarshaling imgs: %w", err)
	}
	return imgs, nil
}
