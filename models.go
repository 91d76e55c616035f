package smartlight

import "time"

// LightState is the current snapshot of the controlled light.
// Stored as a single row (id=1); the dashboard toggle mirrors IsOn.
type LightState struct {
	ID        int       `json:"id"`
	IsOn      bool      `json:"is_on"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Gateway is an ESP32 gateway registered with the control plane.
type Gateway struct {
	MAC          string    `json:"mac"`
	RegisteredAt time.Time `json:"registered_at"`
	LastSeen     time.Time `json:"last_seen"`
	Online       bool      `json:"online"`
}

// NodeStatus is the latest telemetry reported for a single light node.
type NodeStatus struct {
	DeviceID   string    `json:"deviceId"`
	Brightness int       `json:"brightness"` // percent, 0..100
	Lux        float64   `json:"lux"`
	Current    float64   `json:"current"` // amps
	Gateway    string    `json:"gateway"`
	ReportedAt time.Time `json:"reported_at"`
}

// DeviceCommand is a pending brightness command for one node,
// queued per gateway and drained by GET /devices/:mac/next-command.
type DeviceCommand struct {
	DeviceID   string `json:"deviceId"`
	Brightness int    `json:"brightness"`
}

// Event is a single log entry.
type Event struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // LIGHT_ON | LIGHT_OFF | REGISTER | REPORT | COMMAND | GATEWAY_OFFLINE | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

// Overview aggregates everything the dashboard and /ws stream display.
type Overview struct {
	Light         LightState     `json:"light"`
	Gateways      []Gateway      `json:"gateways"`
	Nodes         []NodeStatus   `json:"nodes"`
	CommandQueues map[string]int `json:"command_queues"` // gateway MAC → pending commands
}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don't expose hash
}
