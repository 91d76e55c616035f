package service

import (
	"context"
	"testing"

	"smartlight"
)

func TestCommandService_Enqueue_Validation(t *testing.T) {
	cs := NewCommandService(&fakeCommandRepo{}, &fakeEventRepo{})
	ctx := context.Background()

	cases := []struct {
		name string
		mac  string
		cmds []smartlight.DeviceCommand
	}{
		{"empty_mac", "", []smartlight.DeviceCommand{{DeviceID: "ND_01", Brightness: 50}}},
		{"no_commands", "GW_01", nil},
		{"empty_device_id", "GW_01", []smartlight.DeviceCommand{{DeviceID: " ", Brightness: 50}}},
		{"brightness_too_high", "GW_01", []smartlight.DeviceCommand{{DeviceID: "ND_01", Brightness: 101}}},
		{"brightness_negative", "GW_01", []smartlight.DeviceCommand{{DeviceID: "ND_01", Brightness: -1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := cs.Enqueue(ctx, tc.mac, tc.cmds); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestCommandService_Enqueue_QueuesAndLogs(t *testing.T) {
	crepo := &fakeCommandRepo{}
	erepo := &fakeEventRepo{}
	cs := NewCommandService(crepo, erepo)

	n, err := cs.Enqueue(context.Background(), "GW_01", []smartlight.DeviceCommand{
		{DeviceID: "ND_01", Brightness: 80},
		{DeviceID: "ND_02", Brightness: 60},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("queued %d, want 2", n)
	}
	if got := crepo.enqueued["GW_01"]; len(got) != 2 {
		t.Fatalf("repo has %d commands, want 2", len(got))
	}
	if len(erepo.events) != 1 || erepo.events[0].Type != EventCommand {
		t.Fatalf("unexpected events: %+v", erepo.events)
	}
}

func TestCommandService_Next_DrainsQueue(t *testing.T) {
	crepo := &fakeCommandRepo{drainResp: []smartlight.DeviceCommand{
		{DeviceID: "ND_01", Brightness: 70},
	}}
	cs := NewCommandService(crepo, &fakeEventRepo{})

	cmds, err := cs.Next(context.Background(), "GW_01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmds) != 1 || cmds[0].DeviceID != "ND_01" || cmds[0].Brightness != 70 {
		t.Fatalf("unexpected commands: %+v", cmds)
	}
}

func TestCommandService_Next_EmptyMAC(t *testing.T) {
	cs := NewCommandService(&fakeCommandRepo{}, &fakeEventRepo{})
	if _, err := cs.Next(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty mac")
	}
}
