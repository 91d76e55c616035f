package service

import (
	"context"
	"time"

	"smartlight"
	"smartlight/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Light exposes control of the light: absolute set and toggle.
type Light interface {
	Set(ctx context.Context, on bool) (smartlight.LightState, error)
	Toggle(ctx context.Context) (smartlight.LightState, error)
}

// Devices handles the gateway-facing surface: registration and telemetry.
type Devices interface {
	Register(ctx context.Context, mac string) (string, error)
	Report(ctx context.Context, gwID string, statuses []smartlight.NodeStatus) error
}

// Commands manages the per-gateway command queue.
type Commands interface {
	Enqueue(ctx context.Context, mac string, cmds []smartlight.DeviceCommand) (int, error)
	Next(ctx context.Context, mac string) ([]smartlight.DeviceCommand, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]smartlight.Event, error)
}

// Monitor exposes the read-only system overview (light, gateways, nodes, queues).
type Monitor interface {
	Overview(ctx context.Context) (smartlight.Overview, error)
}

// Sweeper runs the background loop that marks silent gateways offline.
// Stop via context cancellation in main() for graceful shutdown.
type Sweeper interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Light
	Devices
	Commands
	EventLog
	Monitor
	Sweeper
	Authorization
}

// Config carries the tunables main reads from the config file. Zero values
// fall back to the per-service defaults.
type Config struct {
	OfflineAfter   time.Duration // gateway liveness window for the sweeper
	AuthSigningKey string        // JWT HMAC key
	AuthTokenTTL   time.Duration // access token lifetime
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg Config) *Service {
	return &Service{
		Light:         NewLightService(repos.Light, repos.Status, repos.Commands, repos.Events),
		Devices:       NewDevicesService(repos.Gateways, repos.Status, repos.Events),
		Commands:      NewCommandService(repos.Commands, repos.Events),
		EventLog:      NewEventLogService(repos.Events),
		Monitor:       NewMonitorService(repos.Light, repos.Gateways, repos.Status, repos.Commands),
		Sweeper:       NewSweeperService(repos.Gateways, repos.Events, cfg.OfflineAfter),
		Authorization: NewAuthService(repos.Auth, cfg.AuthSigningKey, cfg.AuthTokenTTL),
	}
}
