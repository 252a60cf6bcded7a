package store

import (
	"context"
	"testing"
	"time"

	"github.com/zxxx98/small-garden/internal/db"
	"github.com/zxxx98/small-garden/internal/model"
)

func TestCreateAndListActions(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreatePlant(ctx, database, &model.Plant{ID: "p1", Name: "Rose"})

	CreateAction(ctx, database, &model.Action{ID: "a1", Name: "Water", PlantID: "p1", Time: 100, Imgs: []string{"img1.jpg"}})
	CreateAction(ctx, database, &model.Action{ID: "a2", Name: "Prune", PlantID: "p1", Time: 300})
	CreateAction(ctx, database, &model.Action{ID: "a3", Name: "Water", PlantID: "other", Time: 200})

	actions, err := ListActions(ctx, database, "p1")
	if err != nil {
		t.Fatalf("ListActions: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions for p1, got %d", len(actions))
	}
	// Newest first.
	if actions[0].ID != "a2" || actions[1].ID != "a1" {
		t.Errorf("expected order [a2 a1], got [%s %s]", actions[0].ID, actions[1].ID)
	}
	if len(actions[1].Imgs) != 1 || actions[1].Imgs[0] != "img1.jpg" {
		t.Errorf("imgs did not round-trip: %+v", actions[1].Imgs)
	}

	all, _ := ListActions(ctx, database, "")
	if len(all) != 3 {
		t.Errorf("expected 3 actions total, got %d", len(all))
	}
}

func TestLatestAction(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	latest, err := LatestAction(ctx, database, "p1")
	if err != nil {
		t.Fatalf("LatestAction: %v", err)
	}
	if latest != nil {
		t.Errorf("expected nil for no actions, got %+v", latest)
	}

	CreateAction(ctx, database, &model.Action{ID: "a1", Name: "Water", PlantID: "p1", Time: 100})
	CreateAction(ctx, database, &model.Action{ID: "a2", Name: "Prune", PlantID: "p1", Time: 300})

	latest, _ = LatestAction(ctx, database, "p1")
	if latest == nil || latest.ID != "a2" {
		t.Errorf("expected a2 as latest, got %+v", latest)
	}
}

func TestCompleteActionConsumesOneShotTodo(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreatePlant(ctx, database, &model.Plant{ID: "cactus", Name: "Cactus", Todos: []model.Todo{
		{PlantID: "cactus", ActionName: "Repot", NextRemindTime: 500},
	}})

	action := &model.Action{ID: "a1", Name: "Repot", PlantID: "cactus", Time: time.Now().UnixMilli()}
	updated, consumed, err := CompleteAction(ctx, database, action)
	if err != nil {
		t.Fatalf("CompleteAction: %v", err)
	}
	if updated != nil {
		t.Errorf("expected no updated todo, got %+v", updated)
	}
	if !consumed {
		t.Error("expected one-shot todo to be consumed")
	}

	plant, _ := GetPlant(ctx, database, "cactus")
	if len(plant.Todos) != 0 {
		t.Errorf("expected todo gone after completion, got %+v", plant.Todos)
	}

	logged, _ := GetAction(ctx, database, "a1")
	if logged == nil {
		t.Error("expected the action to be logged")
	}
}

func TestCompleteActionAdvancesRecurringTodo(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	due := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	CreatePlant(ctx, database, &model.Plant{ID: "rose", Name: "Rose", Todos: []model.Todo{
		{PlantID: "rose", ActionName: "Water", IsRecurring: true,
			RecurringUnit: model.UnitDay, RecurringInterval: 2, NextRemindTime: due.UnixMilli()},
	}})

	// Completed an hour late: the next due time anchors to the
	// completion, not the old due time.
	completedAt := due.Add(time.Hour)
	action := &model.Action{ID: "a1", Name: "Water", PlantID: "rose", Time: completedAt.UnixMilli()}
	updated, consumed, err := CompleteAction(ctx, database, action)
	if err != nil {
		t.Fatalf("CompleteAction: %v", err)
	}
	if consumed {
		t.Error("recurring todo must not be consumed")
	}
	if updated == nil {
		t.Fatal("expected updated todo")
	}

	want := completedAt.AddDate(0, 0, 2).UnixMilli()
	if updated.NextRemindTime != want {
		t.Errorf("next remind time = %d, want %d", updated.NextRemindTime, want)
	}

	plant, _ := GetPlant(ctx, database, "rose")
	if len(plant.Todos) != 1 || plant.Todos[0].NextRemindTime != want {
		t.Errorf("persisted todo = %+v, want next remind %d", plant.Todos, want)
	}
}

func TestCompleteActionWithoutMatchingTodo(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreatePlant(ctx, database, &model.Plant{ID: "p1", Name: "Basil", Todos: []model.Todo{
		{PlantID: "p1", ActionName: "Water", NextRemindTime: 100},
	}})

	// Logging an action never creates or touches unrelated reminders.
	action := &model.Action{ID: "a1", Name: "Prune", PlantID: "p1", Time: 200}
	updated, consumed, err := CompleteAction(ctx, database, action)
	if err != nil {
		t.Fatalf("CompleteAction: %v", err)
	}
	if updated != nil || consumed {
		t.Errorf("expected no todo change, got updated=%+v consumed=%v", updated, consumed)
	}

	plant, _ := GetPlant(ctx, database, "p1")
	if len(plant.Todos) != 1 || plant.Todos[0].ActionName != "Water" {
		t.Errorf("unrelated todo must survive: %+v", plant.Todos)
	}
}

func TestCreateActionSeries(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreatePlant(ctx, database, &model.Plant{ID: "p1", Name: "Fern"})

	series := []model.Action{
		{ID: "base", Name: "Water", PlantID: "p1", Time: 100, IsRecurring: true, RecurringInterval: 3},
		{ID: "s1", Name: "Water", PlantID: "p1", Time: 200, IsRecurring: true, RecurringInterval: 3, ParentRecurringID: "base"},
		{ID: "s2", Name: "Water", PlantID: "p1", Time: 300, IsRecurring: true, RecurringInterval: 3, ParentRecurringID: "base"},
	}
	if err := CreateActionSeries(ctx, database, series); err != nil {
		t.Fatalf("CreateActionSeries: %v", err)
	}

	actions, _ := ListActions(ctx, database, "p1")
	if len(actions) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(actions))
	}
	got, _ := GetAction(ctx, database, "s2")
	if got.ParentRecurringID != "base" {
		t.Errorf("expected parent 'base', got %q", got.ParentRecurringID)
	}
}

func TestUpdateAndDeleteAction(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateAction(ctx, database, &model.Action{ID: "a1", Name: "Water", PlantID: "p1", Time: 100})

	if err := UpdateAction(ctx, database, &model.Action{ID: "a1", Name: "Water", Time: 150, Remark: "deep soak"}); err != nil {
		t.Fatalf("UpdateAction: %v", err)
	}
	got, _ := GetAction(ctx, database, "a1")
	if got.Time != 150 || got.Remark != "deep soak" {
		t.Errorf("update not applied: %+v", got)
	}

	if err := DeleteAction(ctx, database, "a1"); err != nil {
		t.Fatalf("DeleteAction: %v", err)
	}
	got, _ = GetAction(ctx, database, "a1")
	if got != nil {
		t.Errorf("expected action gone, got %+v", got)
	}
}
