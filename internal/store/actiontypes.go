package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zxxx98/small-garden/internal/model"
)

// ErrActionTypeExists is returned when creating an action type whose name
// is already taken.
var ErrActionTypeExists = errors.New("action type already exists")

// CreateActionType creates a new user-defined action type. Names are
// unique; duplicates are rejected before any write.
func CreateActionType(ctx context.Context, db *sql.DB, at *model.ActionType) (*model.ActionType, error) {
	existing, err := GetActionType(ctx, db, at.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%q: %w", at.Name, ErrActionTypeExists)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO action_types (name, icon_name, icon_pack, color, use_custom_image)
		 VALUES (?, ?, ?, ?, ?)`,
		at.Name, at.IconName, at.IconPack, at.Color, at.UseCustomImage,
	)
	if err != nil {
		return nil, fmt.Errorf("creating action type: %w", err)
	}

	return GetActionType(ctx, db, at.Name)
}

// GetActionType returns an action type by name.
func GetActionType(ctx context.Context, db *sql.DB, name string) (*model.ActionType, error) {
	at := &model.ActionType{}
	err := db.QueryRowContext(ctx,
		`SELECT name, icon_name, icon_pack, color, use_custom_image
		 FROM action_types WHERE name = ?`, name,
	).Scan(&at.Name, &at.IconName, &at.IconPack, &at.Color, &at.UseCustomImage)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting action type: %w", err)
	}
	return at, nil
}

// ListActionTypes returns all action types ordered by name.
func ListActionTypes(ctx context.Context, db *sql.DB) ([]model.ActionType, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name, icon_name, icon_pack, color, use_custom_image
		 FROM action_types ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing action types: %w", err)
	}
	defer rows.Close()

	var types []model.ActionType
	for rows.Next() {
		var at model.ActionType
		if err := rows.Scan(&at.Name, &at.IconName, &at.IconPack, &at.Color, &at.UseCustomImage); err != nil {
			return nil, fmt.Errorf("scanning action type: %w", err)
		}
		types = append(types, at)
	}
	return types, rows.Err()
}

// UpdateActionType updates an action type's display attributes. The name
// is the key and cannot change.
func UpdateActionType(ctx context.Context, db *sql.DB, at *model.ActionType) error {
	_, err := db.ExecContext(ctx,
		`UPDATE action_types SET icon_name = ?, icon_pack = ?, color = ?, use_custom_image = ?
		 WHERE name = ?`,
		at.IconName, at.IconPack, at.Color, at.UseCustomImage, at.Name,
	)
	if err != nil {
		return fmt.Errorf("updating action type: %w", err)
	}
	return nil
}

// DeleteActionType removes an action type. Whether a type may be deleted
// (system types may not) is the caller's policy.
func DeleteActionType(ctx context.Context, db *sql.DB, name string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM action_types WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting action type: %w", err)
	}
	return nil
}
