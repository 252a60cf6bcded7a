package model

import "time"

// Area is a named location plants can be assigned to (e.g. "Balcony").
type Area struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
