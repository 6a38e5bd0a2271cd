package db

import (
	"fmt"
	"time"
)

type SessionRecord struct {
	ID        string
	Code      string
	Shape     string
	CreatedAt time.Time
}

func (d *DB) CreateSession(id, code, shape string) error {
	_, err := d.conn.Exec(`
		INSERT INTO sessions (id, code, shape)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, id, code, shape)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

func (d *DB) GetSession(id string) (*SessionRecord, error) {
	var s SessionRecord
	err := d.conn.QueryRow(`
		SELECT id, code, shape, created_at FROM sessions WHERE id = $1
	`, id).Scan(&s.ID, &s.Code, &s.Shape, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return &s, nil
}
