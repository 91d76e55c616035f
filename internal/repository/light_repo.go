package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"smartlight"
)

type LightSQLite struct {
	db *sql.DB
}

func NewLightSQLite(db *sql.DB) *LightSQLite {
	return &LightSQLite{db: db}
}

const (
	lightStateRowID = 1

	insertOrUpdateLightSQL = `
		INSERT INTO light_state (id, is_on, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			is_on=excluded.is_on,
			updated_at=excluded.updated_at
	`

	selectLightSQL = `
		SELECT id, is_on, updated_at
		FROM light_state WHERE id=?
	`
)

// Save updates or inserts the light_state row (id always 1).
func (r *LightSQLite) Save(ctx context.Context, state smartlight.LightState) error {
	tsUTC := state.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertOrUpdateLightSQL,
		lightStateRowID,
		state.IsOn,
		tsUTC,
	)
	return err
}

// Load fetches the single light_state row (id=1).
// Returns a zero state (ID=0) when nothing has been persisted yet.
func (r *LightSQLite) Load(ctx context.Context) (smartlight.LightState, error) {
	row := r.db.QueryRowContext(ctx, selectLightSQL, lightStateRowID)

	var s smartlight.LightState
	if err := row.Scan(&s.ID, &s.IsOn, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return smartlight.LightState{}, nil // no state yet
		}
		return smartlight.LightState{}, err
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
