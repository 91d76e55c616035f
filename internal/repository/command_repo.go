package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"smartlight"
)

type CommandSQLite struct {
	db *sql.DB
}

func NewCommandSQLite(db *sql.DB) *CommandSQLite {
	return &CommandSQLite{db: db}
}

var _ CommandRepo = (*CommandSQLite)(nil)

const (
	insertCommandSQL = `
		INSERT INTO device_commands (gateway_mac, device_id, brightness, enqueued_at)
		VALUES (?, ?, ?, ?)
	`

	selectCommandsSQL = `
		SELECT device_id, brightness FROM device_commands
		WHERE gateway_mac=? ORDER BY id ASC
	`

	deleteCommandsSQL = `DELETE FROM device_commands WHERE gateway_mac=?`

	queueDepthsSQL = `
		SELECT gateway_mac, COUNT(*) FROM device_commands GROUP BY gateway_mac
	`
)

// Enqueue appends commands to a gateway's queue in arrival order.
func (r *CommandSQLite) Enqueue(ctx context.Context, mac string, cmds []smartlight.DeviceCommand) error {
	if len(cmds) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enqueue for %q: %w", mac, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, cmd := range cmds {
		if _, err := tx.ExecContext(ctx, insertCommandSQL, mac, cmd.DeviceID, cmd.Brightness, now); err != nil {
			return fmt.Errorf("enqueue command for %q: %w", mac, err)
		}
	}
	return tx.Commit()
}

// Drain removes and returns everything queued for a gateway, oldest first.
// A gateway with an empty queue gets an empty (non-nil) slice.
func (r *CommandSQLite) Drain(ctx context.Context, mac string) ([]smartlight.DeviceCommand, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin drain for %q: %w", mac, err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, selectCommandsSQL, mac)
	if err != nil {
		return nil, fmt.Errorf("select commands for %q: %w", mac, err)
	}

	out := make([]smartlight.DeviceCommand, 0, 4)
	for rows.Next() {
		var cmd smartlight.DeviceCommand
		if err := rows.Scan(&cmd.DeviceID, &cmd.Brightness); err != nil {
			_ = rows.Close()
			return nil, err
		}
		out = append(out, cmd)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	if len(out) > 0 {
		if _, err := tx.ExecContext(ctx, deleteCommandsSQL, mac); err != nil {
			return nil, fmt.Errorf("clear queue for %q: %w", mac, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// QueueDepths returns pending command counts keyed by gateway MAC.
func (r *CommandSQLite) QueueDepths(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, queueDepthsSQL)
	if err != nil {
		return nil, fmt.Errorf("queue depths: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			mac   string
			depth int
		)
		if err := rows.Scan(&mac, &depth); err != nil {
			return nil, err
		}
		out[mac] = depth
	}
	return out, rows.Err()
}
