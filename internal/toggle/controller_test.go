package toggle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeDisplay records every UI side effect the controller emits.
// Mutex-guarded so tests may run deliveries concurrently.
type fakeDisplay struct {
	mu          sync.Mutex
	status      string
	buttonLabel string
	statusSets  int
	buttonSets  int
	alerts      []string
}

func (d *fakeDisplay) SetStatus(markup string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = markup
	d.statusSets++
}

func (d *fakeDisplay) SetButtonLabel(label string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buttonLabel = label
	d.buttonSets++
}

func (d *fakeDisplay) Alert(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts = append(d.alerts, msg)
}

// newBackend returns an httptest server answering /api/light with the given
// status code, recording each received state parameter.
func newBackend(t *testing.T, code int, states *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/light" {
			t.Errorf("path = %s, want /api/light", r.URL.Path)
		}
		if r.ContentLength > 0 {
			t.Errorf("unexpected request body (%d bytes)", r.ContentLength)
		}
		if states != nil {
			*states = append(*states, r.URL.Query().Get("state"))
		}
		w.WriteHeader(code)
	}))
}

func TestController_InitialRendering(t *testing.T) {
	d := &fakeDisplay{}
	c := NewController("http://unused.invalid", d, nil)

	if c.IsOn() {
		t.Fatalf("initial IsOn() = true, want false")
	}
	c.Render()
	if d.status != StatusOff {
		t.Fatalf("initial status = %q, want %q", d.status, StatusOff)
	}
	if d.buttonLabel != LabelTurnOn {
		t.Fatalf("initial button = %q, want %q", d.buttonLabel, LabelTurnOn)
	}
}

func TestController_SingleClickOn(t *testing.T) {
	var states []string
	srv := newBackend(t, http.StatusOK, &states)
	defer srv.Close()

	d := &fakeDisplay{}
	c := NewController(srv.URL, d, srv.Client())

	c.Toggle(context.Background())

	if !c.IsOn() {
		t.Fatalf("IsOn() = false after one click, want true")
	}
	if len(states) != 1 || states[0] != "on" {
		t.Fatalf("sent states = %v, want [on]", states)
	}
	if d.status != StatusOn {
		t.Fatalf("status = %q, want %q", d.status, StatusOn)
	}
	if d.buttonLabel != LabelTurnOff {
		t.Fatalf("button = %q, want %q", d.buttonLabel, LabelTurnOff)
	}
	if len(d.alerts) != 0 {
		t.Fatalf("unexpected alerts: %v", d.alerts)
	}
}

func TestController_DoubleClickBackOff(t *testing.T) {
	var states []string
	srv := newBackend(t, http.StatusOK, &states)
	defer srv.Close()

	d := &fakeDisplay{}
	c := NewController(srv.URL, d, srv.Client())

	c.Toggle(context.Background())
	c.Toggle(context.Background())

	if c.IsOn() {
		t.Fatalf("IsOn() = true after two clicks, want false")
	}
	if len(states) != 2 || states[0] != "on" || states[1] != "off" {
		t.Fatalf("sent states = %v, want [on off]", states)
	}
	if d.status != StatusOff {
		t.Fatalf("status = %q, want %q", d.status, StatusOff)
	}
	if d.buttonLabel != LabelTurnOn {
		t.Fatalf("button = %q, want %q", d.buttonLabel, LabelTurnOn)
	}
	// No click silently dropped: two renderings happened after the
	// initial state, one per successful click.
	if d.statusSets != 2 {
		t.Fatalf("status was set %d times, want 2", d.statusSets)
	}
}

func TestController_ClickParity(t *testing.T) {
	srv := newBackend(t, http.StatusOK, nil)
	defer srv.Close()

	d := &fakeDisplay{}
	c := NewController(srv.URL, d, srv.Client())

	for n := 1; n <= 7; n++ {
		c.Toggle(context.Background())
		want := n%2 == 1
		if c.IsOn() != want {
			t.Fatalf("after click %d: IsOn() = %v, want %v", n, c.IsOn(), want)
		}
		wantStatus, wantLabel := StatusOff, LabelTurnOn
		if want {
			wantStatus, wantLabel = StatusOn, LabelTurnOff
		}
		if d.status != wantStatus || d.buttonLabel != wantLabel {
			t.Fatalf("after click %d: status=%q button=%q", n, d.status, d.buttonLabel)
		}
	}
}

func TestController_ServerErrorAlertsAndKeepsDisplay(t *testing.T) {
	srv := newBackend(t, http.StatusServiceUnavailable, nil)
	defer srv.Close()

	d := &fakeDisplay{}
	c := NewController(srv.URL, d, srv.Client())
	c.Render()

	c.Toggle(context.Background())

	// Exactly one alert with the fixed message.
	if len(d.alerts) != 1 || d.alerts[0] != AlertSendFailed {
		t.Fatalf("alerts = %v, want one %q", d.alerts, AlertSendFailed)
	}
	// Display untouched since the initial rendering.
	if d.status != StatusOff || d.buttonLabel != LabelTurnOn {
		t.Fatalf("display changed on failure: status=%q button=%q", d.status, d.buttonLabel)
	}
	// The flag was flipped anyway and never rolled back.
	if !c.IsOn() {
		t.Fatalf("IsOn() = false after failed click, want true (optimistic flip)")
	}
}

func TestController_TransportErrorAlerts(t *testing.T) {
	srv := newBackend(t, http.StatusOK, nil)
	srv.Close() // connection refused from here on

	d := &fakeDisplay{}
	c := NewController(srv.URL, d, nil)
	c.Render()

	c.Toggle(context.Background())

	if len(d.alerts) != 1 || d.alerts[0] != AlertSendFailed {
		t.Fatalf("alerts = %v, want one %q", d.alerts, AlertSendFailed)
	}
	if d.status != StatusOff || d.buttonLabel != LabelTurnOn {
		t.Fatalf("display changed on transport failure: status=%q button=%q", d.status, d.buttonLabel)
	}
	if !c.IsOn() {
		t.Fatalf("IsOn() = false, want true: flag flips before the request")
	}
}

func TestController_OverlappingDeliveriesKeepEveryFlip(t *testing.T) {
	var (
		mu     sync.Mutex
		states []string
	)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		states = append(states, r.URL.Query().Get("state"))
		mu.Unlock()
		<-release // hold both requests in flight
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := &fakeDisplay{}
	c := NewController(srv.URL, d, srv.Client())

	// Two rapid clicks: both flips land on the event loop before either
	// request completes, so neither click is lost.
	cmd1 := c.Flip()
	cmd2 := c.Flip()
	if cmd1 != "on" || cmd2 != "off" {
		t.Fatalf("commands = %q, %q, want on, off", cmd1, cmd2)
	}
	if c.IsOn() {
		t.Fatalf("IsOn() = true after two flips, want false")
	}

	var wg sync.WaitGroup
	for _, cmd := range []string{cmd1, cmd2} {
		wg.Add(1)
		go func(cmd string) {
			defer wg.Done()
			c.Deliver(context.Background(), cmd)
		}(cmd)
	}
	close(release)
	wg.Wait()

	mu.Lock()
	got := append([]string(nil), states...)
	mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("requests = %v, want two", got)
	}
	seen := map[string]bool{}
	for _, s := range got {
		seen[s] = true
	}
	if !seen["on"] || !seen["off"] {
		t.Fatalf("requests = %v, want one on and one off", got)
	}
	if len(d.alerts) != 0 {
		t.Fatalf("unexpected alerts: %v", d.alerts)
	}
}

func TestController_RecoverAfterFailure(t *testing.T) {
	code := http.StatusServiceUnavailable
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}))
	defer srv.Close()

	d := &fakeDisplay{}
	c := NewController(srv.URL, d, srv.Client())
	c.Render()

	// Failed click: flag on, display off.
	c.Toggle(context.Background())
	if !c.IsOn() || d.status != StatusOff {
		t.Fatalf("after failed click: IsOn=%v status=%q", c.IsOn(), d.status)
	}

	// Next click succeeds and sends "off"; the flag kept counting.
	code = http.StatusOK
	c.Toggle(context.Background())
	if c.IsOn() {
		t.Fatalf("IsOn() = true after second click, want false")
	}
	if d.status != StatusOff || d.buttonLabel != LabelTurnOn {
		t.Fatalf("after recovery: status=%q button=%q", d.status, d.buttonLabel)
	}
	if len(d.alerts) != 1 {
		t.Fatalf("alerts = %v, want exactly one from the failed click", d.alerts)
	}
}
