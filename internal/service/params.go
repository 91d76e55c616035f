package service

import "time"

// Event types written to the log.
const (
	EventLightOn        = "LIGHT_ON"
	EventLightOff       = "LIGHT_OFF"
	EventRegister       = "REGISTER"
	EventReport         = "REPORT"
	EventCommand        = "COMMAND"
	EventGatewayOffline = "GATEWAY_OFFLINE"
)

// Brightness levels fanned out when the light is switched globally.
const (
	BrightnessOn  = 100
	BrightnessOff = 0
)

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", or one of the Event* constants
}
