package service

import (
	"context"
	"time"

	"smartlight"
	"smartlight/internal/repository"

	"github.com/google/uuid"
)

// LightService owns the global on/off state and fans brightness commands
// out to every known node when it changes.
type LightService struct {
	lightRepo   repository.LightRepo
	statusRepo  repository.StatusRepo
	commandRepo repository.CommandRepo
	eventRepo   repository.EventRepo
}

func NewLightService(
	lightRepo repository.LightRepo,
	statusRepo repository.StatusRepo,
	commandRepo repository.CommandRepo,
	eventRepo repository.EventRepo,
) *LightService {
	return &LightService{
		lightRepo:   lightRepo,
		statusRepo:  statusRepo,
		commandRepo: commandRepo,
		eventRepo:   eventRepo,
	}
}

// Set writes the desired state, enqueues brightness commands for all nodes,
// and logs the transition. Setting the already-current state is not an error;
// the command fan-out still happens so a missed gateway can catch up.
func (s *LightService) Set(ctx context.Context, on bool) (smartlight.LightState, error) {
	now := time.Now().UTC()

	st, err := s.lightRepo.Load(ctx)
	if err != nil {
		return smartlight.LightState{}, err
	}
	if st.ID == 0 {
		st.ID = 1 // first write
	}
	st.IsOn = on
	st.UpdatedAt = now

	if err := s.lightRepo.Save(ctx, st); err != nil {
		return smartlight.LightState{}, err
	}

	queued, err := s.fanOut(ctx, on)
	if err != nil {
		return smartlight.LightState{}, err
	}

	evType := EventLightOff
	desc := "Light switched off"
	if on {
		evType = EventLightOn
		desc = "Light switched on"
	}
	if err := s.eventRepo.Append(ctx, smartlight.Event{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        evType,
		Description: desc,
		Metadata:    map[string]any{"commands_queued": queued},
	}); err != nil {
		return smartlight.LightState{}, err
	}
	return st, nil
}

// Toggle flips the stored state and returns the new snapshot.
func (s *LightService) Toggle(ctx context.Context) (smartlight.LightState, error) {
	st, err := s.lightRepo.Load(ctx)
	if err != nil {
		return smartlight.LightState{}, err
	}
	return s.Set(ctx, !st.IsOn)
}

// fanOut enqueues a brightness command for every node that has reported,
// grouped under its owning gateway. Returns the number of commands queued.
func (s *LightService) fanOut(ctx context.Context, on bool) (int, error) {
	nodes, err := s.statusRepo.List(ctx)
	if err != nil {
		return 0, err
	}

	brightness := BrightnessOff
	if on {
		brightness = BrightnessOn
	}

	byGateway := make(map[string][]smartlight.DeviceCommand)
	for _, n := range nodes {
		byGateway[n.Gateway] = append(byGateway[n.Gateway], smartlight.DeviceCommand{
			DeviceID:   n.DeviceID,
			Brightness: brightness,
		})
	}

	total := 0
	for mac, cmds := range byGateway {
		if err := s.commandRepo.Enqueue(ctx, mac, cmds); err != nil {
			return total, err
		}
		total += len(cmds)
	}
	return total, nil
}
