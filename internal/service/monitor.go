package service

import (
	"context"
	"time"

	"smartlight"
	"smartlight/internal/repository"
)

type MonitorService struct {
	lightRepo   repository.LightRepo
	gatewayRepo repository.GatewayRepo
	statusRepo  repository.StatusRepo
	commandRepo repository.CommandRepo
}

func NewMonitorService(
	lightRepo repository.LightRepo,
	gatewayRepo repository.GatewayRepo,
	statusRepo repository.StatusRepo,
	commandRepo repository.CommandRepo,
) *MonitorService {
	return &MonitorService{
		lightRepo:   lightRepo,
		gatewayRepo: gatewayRepo,
		statusRepo:  statusRepo,
		commandRepo: commandRepo,
	}
}

// Overview assembles the full system snapshot for the dashboard, the /ws
// stream, and /test/status. A never-written light state comes back as a
// baseline off snapshot.
func (s *MonitorService) Overview(ctx context.Context) (smartlight.Overview, error) {
	light, err := s.lightRepo.Load(ctx)
	if err != nil {
		return smartlight.Overview{}, err
	}
	if light.ID == 0 {
		light = baselineLight()
	}

	gateways, err := s.gatewayRepo.List(ctx)
	if err != nil {
		return smartlight.Overview{}, err
	}
	nodes, err := s.statusRepo.List(ctx)
	if err != nil {
		return smartlight.Overview{}, err
	}
	depths, err := s.commandRepo.QueueDepths(ctx)
	if err != nil {
		return smartlight.Overview{}, err
	}

	return smartlight.Overview{
		Light:         light,
		Gateways:      gateways,
		Nodes:         nodes,
		CommandQueues: depths,
	}, nil
}

// baselineLight is the snapshot reported before anyone has toggled anything.
func baselineLight() smartlight.LightState {
	return smartlight.LightState{
		ID:        1, // DB schema enforces single-row state with id=1
		IsOn:      false,
		UpdatedAt: time.Now().UTC(),
	}
}
