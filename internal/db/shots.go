package db

import (
	"database/sql"
	"fmt"
	"time"
)

// ShotEvent is one counted click. Target fields are null when no target was live.
type ShotEvent struct {
	SessionID    string
	Hit          bool
	ClickX       float64
	ClickY       float64
	TargetID     sql.NullInt64
	TargetX      sql.NullFloat64
	TargetY      sql.NullFloat64
	TargetRadius sql.NullFloat64
	TargetWidth  sql.NullFloat64
	TargetHeight sql.NullFloat64
	SizeTier     sql.NullString
	AppearedAt   sql.NullTime
	ClickedAt    time.Time
	ReactionMs   sql.NullInt64
}

const insertShot = `
	INSERT INTO shots (session_id, hit, click_x, click_y, target_id, target_x, target_y,
		target_radius, target_width, target_height, size_tier, appeared_at, clicked_at, reaction_ms)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`

func (ev ShotEvent) args() []any {
	return []any{ev.SessionID, ev.Hit, ev.ClickX, ev.ClickY, ev.TargetID, ev.TargetX, ev.TargetY,
		ev.TargetRadius, ev.TargetWidth, ev.TargetHeight, ev.SizeTier, ev.AppearedAt, ev.ClickedAt, ev.ReactionMs}
}

func (d *DB) BatchRecordShots(events []ShotEvent) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertShot)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.args()...); err != nil {
			return fmt.Errorf("recording shot in batch: %w", err)
		}
	}

	return tx.Commit()
}

// CountShots reports how many shots, and how many hits, the log holds for a session.
func (d *DB) CountShots(sessionID string) (shots, hits int, err error) {
	err = d.conn.QueryRow(`
		SELECT COUNT(*), COUNT(*) FILTER (WHERE hit)
		FROM shots WHERE session_id = $1
	`, sessionID).Scan(&shots, &hits)
	if err != nil {
		return 0, 0, fmt.Errorf("counting shots: %w", err)
	}
	return shots, hits, nil
}
