package store

import (
	"context"
	"errors"
	"testing"

	"github.com/zxxx98/small-garden/internal/db"
	"github.com/zxxx98/small-garden/internal/model"
)

func TestSeededActionTypes(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	types, err := ListActionTypes(ctx, database)
	if err != nil {
		t.Fatalf("ListActionTypes: %v", err)
	}
	if len(types) < 5 {
		t.Fatalf("expected at least 5 seeded types, got %d", len(types))
	}

	water, _ := GetActionType(ctx, database, "Water")
	if water == nil {
		t.Fatal("expected seeded 'Water' type")
	}
	if water.UseCustomImage {
		t.Error("seeded types are system types (no custom image)")
	}
}

func TestCreateActionTypeDuplicate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateActionType(ctx, database, &model.ActionType{Name: "Mist", Color: "#AABBCC", UseCustomImage: true})
	if err != nil {
		t.Fatalf("CreateActionType: %v", err)
	}

	_, err = CreateActionType(ctx, database, &model.ActionType{Name: "Mist", Color: "#DDEEFF", UseCustomImage: true})
	if !errors.Is(err, ErrActionTypeExists) {
		t.Errorf("expected ErrActionTypeExists, got %v", err)
	}

	// The seeded names are taken too.
	_, err = CreateActionType(ctx, database, &model.ActionType{Name: "Water", UseCustomImage: true})
	if !errors.Is(err, ErrActionTypeExists) {
		t.Errorf("expected ErrActionTypeExists for seeded name, got %v", err)
	}
}

func TestUpdateAndDeleteActionType(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateActionType(ctx, database, &model.ActionType{Name: "Mist", Color: "#AABBCC", UseCustomImage: true})

	if err := UpdateActionType(ctx, database, &model.ActionType{Name: "Mist", Color: "#112233", UseCustomImage: true}); err != nil {
		t.Fatalf("UpdateActionType: %v", err)
	}
	got, _ := GetActionType(ctx, database, "Mist")
	if got.Color != "#112233" {
		t.Errorf("expected updated color, got %q", got.Color)
	}

	if err := DeleteActionType(ctx, database, "Mist"); err != nil {
		t.Fatalf("DeleteActionType: %v", err)
	}
	got, _ = GetActionType(ctx, database, "Mist")
	if got != nil {
		t.Errorf("expected type gone, got %+v", got)
	}
}
