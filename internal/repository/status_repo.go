package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"smartlight"
)

type StatusSQLite struct {
	db *sql.DB
}

func NewStatusSQLite(db *sql.DB) *StatusSQLite {
	return &StatusSQLite{db: db}
}

var _ StatusRepo = (*StatusSQLite)(nil)

const (
	upsertStatusSQL = `
		INSERT INTO node_status (device_id, brightness, lux, current_a, gateway, reported_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(device_id) DO UPDATE SET
			brightness=excluded.brightness,
			lux=excluded.lux,
			current_a=excluded.current_a,
			gateway=excluded.gateway,
			reported_at=excluded.reported_at
	`

	listStatusSQL = `
		SELECT device_id, brightness, lux, current_a, gateway, reported_at
		FROM node_status ORDER BY device_id ASC
	`
)

// Upsert stores the latest telemetry for one node, replacing any prior report.
func (r *StatusSQLite) Upsert(ctx context.Context, s smartlight.NodeStatus) error {
	reportedAt := s.ReportedAt
	if reportedAt.IsZero() {
		reportedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, upsertStatusSQL,
		s.DeviceID, s.Brightness, s.Lux, s.Current, s.Gateway, reportedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert node status %q: %w", s.DeviceID, err)
	}
	return nil
}

func (r *StatusSQLite) List(ctx context.Context) ([]smartlight.NodeStatus, error) {
	rows, err := r.db.QueryContext(ctx, listStatusSQL)
	if err != nil {
		return nil, fmt.Errorf("list node status: %w", err)
	}
	defer rows.Close()

	out := make([]smartlight.NodeStatus, 0, 16)
	for rows.Next() {
		var s smartlight.NodeStatus
		if err := rows.Scan(&s.DeviceID, &s.Brightness, &s.Lux, &s.Current, &s.Gateway, &s.ReportedAt); err != nil {
			return nil, err
		}
		s.ReportedAt = s.ReportedAt.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}
