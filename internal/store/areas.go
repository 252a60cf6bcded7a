package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zxxx98/small-garden/internal/model"
)

// CreateArea creates a new area.
func CreateArea(ctx context.Context, db *sql.DB, id, name string) (*model.Area, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO areas (id, name) VALUES (?, ?)`, id, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating area: %w", err)
	}

	return GetArea(ctx, db, id)
}

// GetArea returns an area by ID.
func GetArea(ctx context.Context, db *sql.DB, id string) (*model.Area, error) {
	a := &model.Area{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM areas WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting area: %w", err)
	}
	return a, nil
}

// ListAreas returns all areas ordered by name.
func ListAreas(ctx context.Context, db *sql.DB) ([]model.Area, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, created_at FROM areas ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing areas: %w", err)
	}
	defer rows.Close()

	var areas []model.Area
	for rows.Next() {
		var a model.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning area: %w", err)
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

// UpdateArea renames an area.
func UpdateArea(ctx context.Context, db *sql.DB, id, name string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE areas SET name = ? WHERE id = ?`, name, id,
	)
	if err != nil {
		return fmt.Errorf("updating area: %w", err)
	}
	return nil
}

// DeleteArea removes an area. Plants assigned to it keep existing with
// their area reference cleared by the foreign key.
func DeleteArea(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM areas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting area: %w", err)
	}
	return nil
}
