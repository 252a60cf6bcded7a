// Package garden implements the plant aggregate: reminder (todo) mutation
// operations, the action-completion workflow, and action series
// scheduling. All mutation of a plant's todo list goes through a Service
// so the one-todo-per-action-name invariant holds and read-modify-write
// cycles on the same plant never interleave.
package garden

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zxxx98/small-garden/internal/model"
	"github.com/zxxx98/small-garden/internal/schedule"
	"github.com/zxxx98/small-garden/internal/store"
)

// Sentinel errors for logical (non-storage) failures.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidTodo   = errors.New("invalid todo")
	ErrInvalidAction = errors.New("invalid action")
)

// Service is the plant aggregate. It serializes todo mutations per plant,
// runs the action-completion workflow, and publishes change events after
// each committed mutation.
type Service struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
	locks plantLocks
	hub   hub
}

// New creates a Service backed by the given database.
func New(db *sql.DB) *Service {
	return &Service{
		db:    db,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Subscribe registers a callback invoked after every committed mutation.
// The returned function unsubscribes.
func (s *Service) Subscribe(fn func(Event)) func() {
	return s.hub.subscribe(fn)
}

// CreatePlant registers a new plant. An empty ID gets a generated one.
// Initial todos are validated and deduplicated by action name (last one
// wins), preserving the aggregate invariant from the start.
func (s *Service) CreatePlant(ctx context.Context, p model.Plant) (*model.Plant, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("%w: plant name required", ErrInvalidTodo)
	}
	if p.ID == "" {
		p.ID = s.newID()
	}

	todos := p.Todos
	p.Todos = nil
	for _, t := range todos {
		t.PlantID = p.ID
		if err := validateTodo(&t); err != nil {
			return nil, err
		}
		if i := p.FindTodo(t.ActionName); i >= 0 {
			p.Todos[i] = t
		} else {
			p.Todos = append(p.Todos, t)
		}
	}

	created, err := store.CreatePlant(ctx, s.db, &p)
	if err != nil {
		return nil, err
	}
	s.hub.publish(Event{Kind: EventPlantChanged, PlantID: p.ID})
	return created, nil
}

// UpdatePlant rewrites a plant's record. The todo list is replaced as
// given, subject to validation and the uniqueness invariant.
func (s *Service) UpdatePlant(ctx context.Context, p model.Plant) error {
	unlock := s.locks.lock(p.ID)
	defer unlock()

	existing, err := store.GetPlant(ctx, s.db, p.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("plant %s: %w", p.ID, ErrNotFound)
	}

	seen := make(map[string]bool, len(p.Todos))
	for i := range p.Todos {
		p.Todos[i].PlantID = p.ID
		if err := validateTodo(&p.Todos[i]); err != nil {
			return err
		}
		if seen[p.Todos[i].ActionName] {
			return fmt.Errorf("%w: duplicate todo for action %q", ErrInvalidTodo, p.Todos[i].ActionName)
		}
		seen[p.Todos[i].ActionName] = true
	}

	if err := store.UpdatePlant(ctx, s.db, &p); err != nil {
		return err
	}
	s.hub.publish(Event{Kind: EventPlantChanged, PlantID: p.ID})
	return nil
}

// MoveToCemetery soft-deletes a plant by flagging it dead. Its reminders
// stop appearing in the upcoming view but remain stored.
func (s *Service) MoveToCemetery(ctx context.Context, plantID string, dead bool) error {
	unlock := s.locks.lock(plantID)
	defer unlock()

	p, err := store.GetPlant(ctx, s.db, plantID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("plant %s: %w", plantID, ErrNotFound)
	}

	if err := store.MarkPlantDead(ctx, s.db, plantID, dead); err != nil {
		return err
	}
	s.hub.publish(Event{Kind: EventPlantChanged, PlantID: plantID})
	return nil
}

// DeletePlant hard-deletes a plant and its embedded todos. Logged actions
// are kept as history.
func (s *Service) DeletePlant(ctx context.Context, plantID string) error {
	unlock := s.locks.lock(plantID)
	defer unlock()

	p, err := store.GetPlant(ctx, s.db, plantID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("plant %s: %w", plantID, ErrNotFound)
	}

	if err := store.DeletePlant(ctx, s.db, plantID); err != nil {
		return err
	}
	s.hub.publish(Event{Kind: EventPlantChanged, PlantID: plantID})
	return nil
}

// DeletePlants hard-deletes multiple plants at once.
func (s *Service) DeletePlants(ctx context.Context, ids []string) error {
	if err := store.DeletePlants(ctx, s.db, ids); err != nil {
		return err
	}
	for _, id := range ids {
		s.hub.publish(Event{Kind: EventPlantChanged, PlantID: id})
	}
	return nil
}

// AddTodo adds a reminder to a plant, or replaces the existing one for
// the same action name. The upsert keeps the one-todo-per-action-name
// invariant without relying on callers to pick add versus update.
func (s *Service) AddTodo(ctx context.Context, plantID string, todo model.Todo) error {
	todo.PlantID = plantID
	if err := validateTodo(&todo); err != nil {
		return err
	}

	unlock := s.locks.lock(plantID)
	defer unlock()

	p, err := store.GetPlant(ctx, s.db, plantID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("plant %s: %w", plantID, ErrNotFound)
	}

	if i := p.FindTodo(todo.ActionName); i >= 0 {
		p.Todos[i] = todo
	} else {
		p.Todos = append(p.Todos, todo)
	}

	if err := store.ReplacePlantTodos(ctx, s.db, plantID, p.Todos); err != nil {
		return err
	}
	s.hub.publish(Event{Kind: EventTodoChanged, PlantID: plantID, ActionName: todo.ActionName})
	return nil
}

// UpdateTodo replaces an existing reminder in place, located by action
// name. Unlike AddTodo it never creates one: updating a reminder that is
// not there returns ErrNotFound.
func (s *Service) UpdateTodo(ctx context.Context, plantID string, todo model.Todo) error {
	todo.PlantID = plantID
	if err := validateTodo(&todo); err != nil {
		return err
	}

	unlock := s.locks.lock(plantID)
	defer unlock()

	p, err := store.GetPlant(ctx, s.db, plantID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("plant %s: %w", plantID, ErrNotFound)
	}

	i := p.FindTodo(todo.ActionName)
	if i < 0 {
		return fmt.Errorf("todo %q on plant %s: %w", todo.ActionName, plantID, ErrNotFound)
	}
	p.Todos[i] = todo

	if err := store.ReplacePlantTodos(ctx, s.db, plantID, p.Todos); err != nil {
		return err
	}
	s.hub.publish(Event{Kind: EventTodoChanged, PlantID: plantID, ActionName: todo.ActionName})
	return nil
}

// DeleteTodo removes a reminder by action name. Returns ErrNotFound if
// the plant has no reminder for that action.
func (s *Service) DeleteTodo(ctx context.Context, plantID, actionName string) error {
	unlock := s.locks.lock(plantID)
	defer unlock()

	p, err := store.GetPlant(ctx, s.db, plantID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("plant %s: %w", plantID, ErrNotFound)
	}

	i := p.FindTodo(actionName)
	if i < 0 {
		return fmt.Errorf("todo %q on plant %s: %w", actionName, plantID, ErrNotFound)
	}
	p.Todos = append(p.Todos[:i], p.Todos[i+1:]...)

	if err := store.ReplacePlantTodos(ctx, s.db, plantID, p.Todos); err != nil {
		return err
	}
	s.hub.publish(Event{Kind: EventTodoChanged, PlantID: plantID, ActionName: actionName})
	return nil
}

// CompleteAction logs a care action and settles the plant's matching
// reminder in one transaction: a one-shot todo is consumed, a recurring
// one advances by its own unit/interval anchored to the action's
// completion time. An action with no matching reminder is just logged.
func (s *Service) CompleteAction(ctx context.Context, action model.Action) (*model.Action, error) {
	if action.Name == "" {
		return nil, fmt.Errorf("%w: action name required", ErrInvalidAction)
	}
	if action.PlantID == "" {
		return nil, fmt.Errorf("%w: plant id required", ErrInvalidAction)
	}
	if action.ID == "" {
		action.ID = s.newID()
	}
	if action.Time == 0 {
		action.Time = s.now().UnixMilli()
	}

	unlock := s.locks.lock(action.PlantID)
	defer unlock()

	p, err := store.GetPlant(ctx, s.db, action.PlantID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("plant %s: %w", action.PlantID, ErrNotFound)
	}

	updated, consumed, err := store.CompleteAction(ctx, s.db, &action)
	if err != nil {
		return nil, err
	}

	s.hub.publish(Event{Kind: EventActionLogged, PlantID: action.PlantID, ActionName: action.Name})
	if updated != nil || consumed {
		s.hub.publish(Event{Kind: EventTodoChanged, PlantID: action.PlantID, ActionName: action.Name})
	}
	return &action, nil
}

// ScheduleSeries expands a base action into a batch of pre-logged future
// occurrences over periodDays, one every intervalDays, and persists them
// atomically. Distinct from todo recurrence: this generates action rows,
// not reminders.
func (s *Service) ScheduleSeries(ctx context.Context, base model.Action, intervalDays, periodDays int) ([]model.Action, error) {
	if base.Name == "" {
		return nil, fmt.Errorf("%w: action name required", ErrInvalidAction)
	}
	if base.PlantID == "" {
		return nil, fmt.Errorf("%w: plant id required", ErrInvalidAction)
	}
	if intervalDays < 1 {
		return nil, fmt.Errorf("%w: interval must be at least 1 day", ErrInvalidAction)
	}
	if periodDays < 1 {
		return nil, fmt.Errorf("%w: period must be at least 1 day", ErrInvalidAction)
	}
	if base.ID == "" {
		base.ID = s.newID()
	}
	if base.Time == 0 {
		base.Time = s.now().UnixMilli()
	}
	base.IsRecurring = true
	base.RecurringInterval = intervalDays

	p, err := store.GetPlant(ctx, s.db, base.PlantID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("plant %s: %w", base.PlantID, ErrNotFound)
	}

	series := schedule.GenerateSeries(base, intervalDays, periodDays, s.newID)
	if err := store.CreateActionSeries(ctx, s.db, series); err != nil {
		return nil, err
	}

	s.hub.publish(Event{Kind: EventActionLogged, PlantID: base.PlantID, ActionName: base.Name})
	return series, nil
}

// UpdateAction rewrites an action's editable fields.
func (s *Service) UpdateAction(ctx context.Context, action model.Action) error {
	existing, err := store.GetAction(ctx, s.db, action.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("action %s: %w", action.ID, ErrNotFound)
	}

	if err := store.UpdateAction(ctx, s.db, &action); err != nil {
		return err
	}
	s.hub.publish(Event{Kind: EventActionLogged, PlantID: existing.PlantID, ActionName: action.Name})
	return nil
}

// DeleteAction removes an action from the care log. Reminders are not
// touched: deleting a logged action does not resurrect a consumed todo.
func (s *Service) DeleteAction(ctx context.Context, id string) error {
	existing, err := store.GetAction(ctx, s.db, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("action %s: %w", id, ErrNotFound)
	}

	if err := store.DeleteAction(ctx, s.db, id); err != nil {
		return err
	}
	s.hub.publish(Event{Kind: EventActionLogged, PlantID: existing.PlantID, ActionName: existing.Name})
	return nil
}

// Plant fetches a single plant, ErrNotFound if it does not exist.
func (s *Service) Plant(ctx context.Context, id string) (*model.Plant, error) {
	p, err := store.GetPlant(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("plant %s: %w", id, ErrNotFound)
	}
	return p, nil
}

// Actions lists the care log, newest first, optionally filtered by plant.
func (s *Service) Actions(ctx context.Context, plantID string) ([]model.Action, error) {
	return store.ListActions(ctx, s.db, plantID)
}

// UpcomingTodos partitions every living plant's reminders into the
// today / tomorrow / day-after buckets. Recomputed from storage on every
// call; subscribers can use the event hub to know when to re-read.
func (s *Service) UpcomingTodos(ctx context.Context) (schedule.Buckets, error) {
	plants, err := store.ListPlants(ctx, s.db, nil)
	if err != nil {
		return schedule.Buckets{}, err
	}
	return schedule.Partition(plants, s.now()), nil
}

func validateTodo(t *model.Todo) error {
	if t.ActionName == "" {
		return fmt.Errorf("%w: action name required", ErrInvalidTodo)
	}
	if t.IsRecurring {
		switch t.RecurringUnit {
		case model.UnitDay, model.UnitWeek, model.UnitMonth:
		default:
			return fmt.Errorf("%w: unknown recurrence unit %q", ErrInvalidTodo, t.RecurringUnit)
		}
		if t.RecurringInterval < 1 {
			return fmt.Errorf("%w: recurrence interval must be at least 1", ErrInvalidTodo)
		}
	}
	return nil
}
