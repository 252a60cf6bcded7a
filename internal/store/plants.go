package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zxxx98/small-garden/internal/model"
)

// CreatePlant inserts a new plant record with its embedded todo list.
func CreatePlant(ctx context.Context, db *sql.DB, p *model.Plant) (*model.Plant, error) {
	todos, err := marshalTodos(p.Todos)
	if err != nil {
		return nil, err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO plants (id, name, type, scientific_name, description, img, is_dead, area_id, todos)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Type, p.ScientificName, p.Description, p.Img, p.IsDead, nullable(p.AreaID), todos,
	)
	if err != nil {
		return nil, fmt.Errorf("creating plant: %w", err)
	}

	return GetPlant(ctx, db, p.ID)
}

// GetPlant returns a plant by ID, with its todos unmarshaled.
func GetPlant(ctx context.Context, db *sql.DB, id string) (*model.Plant, error) {
	p := &model.Plant{}
	var areaID, photoMime sql.NullString
	var todos string
	err := db.QueryRowContext(ctx,
		`SELECT id, name, type, scientific_name, description, img, photo_mime, is_dead, area_id, todos, created_at
		 FROM plants WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Type, &p.ScientificName, &p.Description, &p.Img, &photoMime,
		&p.IsDead, &areaID, &todos, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting plant: %w", err)
	}
	p.AreaID = areaID.String
	p.PhotoMime = photoMime.String
	if p.Todos, err = unmarshalTodos(todos); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPlants returns all plants ordered by name. Pass dead=nil for all
// plants, or a pointer to filter by the cemetery flag.
func ListPlants(ctx context.Context, db *sql.DB, dead *bool) ([]model.Plant, error) {
	query := `SELECT id, name, type, scientific_name, description, img, photo_mime, is_dead, area_id, todos, created_at
	          FROM plants`
	var args []any
	if dead != nil {
		query += ` WHERE is_dead = ?`
		args = append(args, *dead)
	}
	query += ` ORDER BY name, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing plants: %w", err)
	}
	defer rows.Close()

	var plants []model.Plant
	for rows.Next() {
		var p model.Plant
		var areaID, photoMime sql.NullString
		var todos string
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.ScientificName, &p.Description, &p.Img, &photoMime,
			&p.IsDead, &areaID, &todos, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning plant: %w", err)
		}
		p.AreaID = areaID.String
		p.PhotoMime = photoMime.String
		if p.Todos, err = unmarshalTodos(todos); err != nil {
			return nil, err
		}
		plants = append(plants, p)
	}
	return plants, rows.Err()
}

// UpdatePlant rewrites a plant's full record, todos included. This is a
// whole-record write, not a partial patch.
func UpdatePlant(ctx context.Context, db *sql.DB, p *model.Plant) error {
	todos, err := marshalTodos(p.Todos)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`UPDATE plants SET name = ?, type = ?, scientific_name = ?, description = ?,
		        img = ?, is_dead = ?, area_id = ?, todos = ?
		 WHERE id = ?`,
		p.Name, p.Type, p.ScientificName, p.Description, p.Img, p.IsDead, nullable(p.AreaID), todos, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating plant: %w", err)
	}
	return nil
}

// ReplacePlantTodos rewrites only a plant's embedded todo list.
func ReplacePlantTodos(ctx context.Context, db *sql.DB, plantID string, todos []model.Todo) error {
	data, err := marshalTodos(todos)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`UPDATE plants SET todos = ? WHERE id = ?`, data, plantID,
	)
	if err != nil {
		return fmt.Errorf("replacing plant todos: %w", err)
	}
	return nil
}

// MarkPlantDead sets or clears the cemetery flag.
func MarkPlantDead(ctx context.Context, db *sql.DB, id string, dead bool) error {
	_, err := db.ExecContext(ctx,
		`UPDATE plants SET is_dead = ? WHERE id = ?`, dead, id,
	)
	if err != nil {
		return fmt.Errorf("marking plant dead: %w", err)
	}
	return nil
}

// DeletePlant hard-deletes a plant. The embedded todos go with the row;
// logged actions are kept (see schema notes).
func DeletePlant(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM plants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plant: %w", err)
	}
	return nil
}

// DeletePlants hard-deletes multiple plants in one statement.
func DeletePlants(ctx context.Context, db *sql.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err := db.ExecContext(ctx,
		`DELETE FROM plants WHERE id IN (`+placeholders+`)`, args...,
	)
	if err != nil {
		return fmt.Errorf("deleting plants: %w", err)
	}
	return nil
}

// SetPlantPhoto stores a plant's processed photo.
func SetPlantPhoto(ctx context.Context, db *sql.DB, id string, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE plants SET photo = ?, photo_mime = ? WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting plant photo: %w", err)
	}
	return nil
}

// GetPlantPhoto returns a plant's photo data and MIME type.
func GetPlantPhoto(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM plants WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting plant photo: %w", err)
	}
	return photo, mime.String, nil
}

func marshalTodos(todos []model.Todo) (string, error) {
	if todos == nil {
		todos = []model.Todo{}
	}
	data, err := json.Marshal(todos)
	if err != nil {
		return "", fmt.Errorf("marshaling todos: %w", err)
	}
	return string(data), nil
}

func unmarshalTodos(data string) ([]model.Todo, error) {
	var todos []model.Todo
	if err := json.Unmarshal([]byte(data), &todos); err != nil {
		return nil, fmt.Errorf("unmarshaling todos: %w", err)
	}
	return todos, nil
}

// nullable maps an empty string to NULL for optional foreign keys.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
