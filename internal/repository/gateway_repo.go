package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"smartlight"
)

type GatewaySQLite struct {
	db *sql.DB
}

func NewGatewaySQLite(db *sql.DB) *GatewaySQLite {
	return &GatewaySQLite{db: db}
}

var _ GatewayRepo = (*GatewaySQLite)(nil)

const (
	upsertGatewaySQL = `
		INSERT INTO gateways (mac, registered_at, last_seen, online)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(mac) DO UPDATE SET
			last_seen=excluded.last_seen,
			online=excluded.online
	`

	touchGatewaySQL     = `UPDATE gateways SET last_seen=?, online=1 WHERE mac=?`
	setOnlineGatewaySQL = `UPDATE gateways SET online=? WHERE mac=?`
	listGatewaysSQL     = `SELECT mac, registered_at, last_seen, online FROM gateways ORDER BY mac ASC`
)

// Upsert registers a gateway. Re-registering an existing MAC refreshes
// last_seen and brings it back online but keeps the original registered_at.
func (r *GatewaySQLite) Upsert(ctx context.Context, g smartlight.Gateway) error {
	registeredAt := g.RegisteredAt
	if registeredAt.IsZero() {
		registeredAt = time.Now().UTC()
	}
	lastSeen := g.LastSeen
	if lastSeen.IsZero() {
		lastSeen = registeredAt
	}
	_, err := r.db.ExecContext(ctx, upsertGatewaySQL,
		g.MAC, registeredAt.UTC(), lastSeen.UTC(), true)
	if err != nil {
		return fmt.Errorf("upsert gateway %q: %w", g.MAC, err)
	}
	return nil
}

// Touch refreshes last_seen for a gateway that just phoned home.
func (r *GatewaySQLite) Touch(ctx context.Context, mac string, seen time.Time) error {
	if seen.IsZero() {
		seen = time.Now()
	}
	if _, err := r.db.ExecContext(ctx, touchGatewaySQL, seen.UTC(), mac); err != nil {
		return fmt.Errorf("touch gateway %q: %w", mac, err)
	}
	return nil
}

func (r *GatewaySQLite) SetOnline(ctx context.Context, mac string, online bool) error {
	if _, err := r.db.ExecContext(ctx, setOnlineGatewaySQL, online, mac); err != nil {
		return fmt.Errorf("set gateway %q online=%v: %w", mac, online, err)
	}
	return nil
}

func (r *GatewaySQLite) List(ctx context.Context) ([]smartlight.Gateway, error) {
	rows, err := r.db.QueryContext(ctx, listGatewaysSQL)
	if err != nil {
		return nil, fmt.Errorf("list gateways: %w", err)
	}
	defer rows.Close()

	out := make([]smartlight.Gateway, 0, 8)
	for rows.Next() {
		var g smartlight.Gateway
		if err := rows.Scan(&g.MAC, &g.RegisteredAt, &g.LastSeen, &g.Online); err != nil {
			return nil, err
		}
		g.RegisteredAt = g.RegisteredAt.UTC()
		g.LastSeen = g.LastSeen.UTC()
		out = append(out, g)
	}
	return out, rows.Err()
}
