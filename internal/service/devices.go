package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"smartlight"
	"smartlight/internal/repository"

	"github.com/google/uuid"
)

var (
	errEmptyMAC  = errors.New("gateway mac is required")
	errEmptyGwID = errors.New("gw_id is required")
)

// DevicesService handles gateway registration and node telemetry reports.
type DevicesService struct {
	gatewayRepo repository.GatewayRepo
	statusRepo  repository.StatusRepo
	eventRepo   repository.EventRepo
}

func NewDevicesService(
	gatewayRepo repository.GatewayRepo,
	statusRepo repository.StatusRepo,
	eventRepo repository.EventRepo,
) *DevicesService {
	return &DevicesService{
		gatewayRepo: gatewayRepo,
		statusRepo:  statusRepo,
		eventRepo:   eventRepo,
	}
}

// Register records the gateway (idempotently) and returns its device ID,
// which is the MAC itself.
func (s *DevicesService) Register(ctx context.Context, mac string) (string, error) {
	mac = strings.TrimSpace(mac)
	if mac == "" {
		return "", errEmptyMAC
	}
	now := time.Now().UTC()

	if err := s.gatewayRepo.Upsert(ctx, smartlight.Gateway{
		MAC:          mac,
		RegisteredAt: now,
		LastSeen:     now,
		Online:       true,
	}); err != nil {
		return "", err
	}

	if err := s.eventRepo.Append(ctx, smartlight.Event{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        EventRegister,
		Description: "Gateway registered: " + mac,
	}); err != nil {
		return "", err
	}
	return mac, nil
}

// Report stores the latest status of each node and refreshes the reporting
// gateway's liveness. An unknown gw_id is still accepted; registration is
// not required before reporting.
func (s *DevicesService) Report(ctx context.Context, gwID string, statuses []smartlight.NodeStatus) error {
	gwID = strings.TrimSpace(gwID)
	if gwID == "" {
		return errEmptyGwID
	}
	now := time.Now().UTC()

	for _, st := range statuses {
		st.Gateway = gwID
		st.ReportedAt = now
		if err := s.statusRepo.Upsert(ctx, st); err != nil {
			return err
		}
	}

	if err := s.gatewayRepo.Touch(ctx, gwID, now); err != nil {
		return err
	}

	return s.eventRepo.Append(ctx, smartlight.Event{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        EventReport,
		Description: "Status report from " + gwID,
		Metadata:    map[string]any{"devices": len(statuses)},
	})
}
