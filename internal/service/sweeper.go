package service

import (
	"context"
	"time"

	"smartlight"
	"smartlight/internal/repository"

	"github.com/google/uuid"
)

// DefaultOfflineAfter is how long a gateway may stay silent before the
// sweeper marks it offline.
const DefaultOfflineAfter = 90 * time.Second

// SweeperService watches gateway liveness in the background.
type SweeperService struct {
	gatewayRepo  repository.GatewayRepo
	eventRepo    repository.EventRepo
	offlineAfter time.Duration
}

func NewSweeperService(gatewayRepo repository.GatewayRepo, eventRepo repository.EventRepo, offlineAfter time.Duration) *SweeperService {
	if offlineAfter <= 0 {
		offlineAfter = DefaultOfflineAfter
	}
	return &SweeperService{
		gatewayRepo:  gatewayRepo,
		eventRepo:    eventRepo,
		offlineAfter: offlineAfter,
	}
}

// Run ticks at the given interval until ctx is canceled. Each tick marks
// gateways whose last_seen is older than the liveness window as offline and
// logs the transition once.
func (s *SweeperService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.sweep(ctx, now.UTC())
		}
	}
}

// sweep performs a single liveness pass. Errors are swallowed so one bad
// tick never kills the loop; the next tick retries.
func (s *SweeperService) sweep(ctx context.Context, now time.Time) {
	gateways, err := s.gatewayRepo.List(ctx)
	if err != nil {
		return
	}
	cutoff := now.Add(-s.offlineAfter)

	for _, gw := range gateways {
		if !gw.Online || gw.LastSeen.After(cutoff) {
			continue
		}
		if err := s.gatewayRepo.SetOnline(ctx, gw.MAC, false); err != nil {
			continue
		}
		_ = s.eventRepo.Append(ctx, smartlight.Event{
			EventID:     uuid.NewString(),
			OccurredAt:  now,
			Type:        EventGatewayOffline,
			Description: "Gateway went offline: " + gw.MAC,
			Metadata: map[string]any{
				"last_seen":     gw.LastSeen,
				"offline_after": s.offlineAfter.String(),
			},
		})
	}
}
