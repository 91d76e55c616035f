package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartlight"
	"smartlight/internal/repository"

	"github.com/google/uuid"
)

var (
	errNoCommands      = errors.New("no commands given")
	errEmptyDeviceID   = errors.New("command deviceId is required")
	errBadBrightness   = errors.New("brightness must be between 0 and 100")
	errEmptyGatewayMAC = errors.New("gateway_mac is required")
)

// CommandService queues brightness commands for gateways to poll.
type CommandService struct {
	commandRepo repository.CommandRepo
	eventRepo   repository.EventRepo
}

func NewCommandService(commandRepo repository.CommandRepo, eventRepo repository.EventRepo) *CommandService {
	return &CommandService{commandRepo: commandRepo, eventRepo: eventRepo}
}

// Enqueue validates and appends commands to a gateway's queue.
// Returns the number of commands queued.
func (s *CommandService) Enqueue(ctx context.Context, mac string, cmds []smartlight.DeviceCommand) (int, error) {
	mac = strings.TrimSpace(mac)
	if mac == "" {
		return 0, errEmptyGatewayMAC
	}
	if len(cmds) == 0 {
		return 0, errNoCommands
	}
	for i, cmd := range cmds {
		if strings.TrimSpace(cmd.DeviceID) == "" {
			return 0, fmt.Errorf("command %d: %w", i, errEmptyDeviceID)
		}
		if cmd.Brightness < 0 || cmd.Brightness > 100 {
			return 0, fmt.Errorf("command %d (%s): %w", i, cmd.DeviceID, errBadBrightness)
		}
	}

	if err := s.commandRepo.Enqueue(ctx, mac, cmds); err != nil {
		return 0, err
	}

	if err := s.eventRepo.Append(ctx, smartlight.Event{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        EventCommand,
		Description: fmt.Sprintf("Queued %d command(s) for %s", len(cmds), mac),
	}); err != nil {
		return 0, err
	}
	return len(cmds), nil
}

// Next drains and returns the gateway's queued commands, oldest first.
// An empty queue yields an empty slice, not an error.
func (s *CommandService) Next(ctx context.Context, mac string) ([]smartlight.DeviceCommand, error) {
	mac = strings.TrimSpace(mac)
	if mac == "" {
		return nil, errEmptyGatewayMAC
	}
	return s.commandRepo.Drain(ctx, mac)
}
