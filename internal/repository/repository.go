package repository

import (
	"context"
	"database/sql"
	"time"

	"smartlight"
	"smartlight/internal/repository/db"
)

// LightRepo persists the single light_state row.
type LightRepo interface {
	Save(ctx context.Context, s smartlight.LightState) error
	Load(ctx context.Context) (smartlight.LightState, error)
}

// GatewayRepo tracks registered gateways and their liveness.
type GatewayRepo interface {
	Upsert(ctx context.Context, g smartlight.Gateway) error
	Touch(ctx context.Context, mac string, seen time.Time) error
	SetOnline(ctx context.Context, mac string, online bool) error
	List(ctx context.Context) ([]smartlight.Gateway, error)
}

// StatusRepo keeps the latest telemetry per node.
type StatusRepo interface {
	Upsert(ctx context.Context, s smartlight.NodeStatus) error
	List(ctx context.Context) ([]smartlight.NodeStatus, error)
}

// CommandRepo is the per-gateway command queue. Drain removes and returns
// everything queued for a gateway in one transaction.
type CommandRepo interface {
	Enqueue(ctx context.Context, mac string, cmds []smartlight.DeviceCommand) error
	Drain(ctx context.Context, mac string) ([]smartlight.DeviceCommand, error)
	QueueDepths(ctx context.Context) (map[string]int, error)
}

// EventRepo is the append-only event log.
type EventRepo interface {
	Append(ctx context.Context, e smartlight.Event) error
	List(ctx context.Context, from, to time.Time, typ string) ([]smartlight.Event, error)
}

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*smartlight.User, error)
}

type Repository struct {
	Light    LightRepo
	Gateways GatewayRepo
	Status   StatusRepo
	Commands CommandRepo
	Events   EventRepo
	Auth     Authorization
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		Light:    NewLightSQLite(conn),
		Gateways: NewGatewaySQLite(conn),
		Status:   NewStatusSQLite(conn),
		Commands: NewCommandSQLite(conn),
		Events:   NewEventSQLite(conn),
		Auth:     NewUserRepository(conn),
	}
}

// InitDB opens the SQLite file and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
