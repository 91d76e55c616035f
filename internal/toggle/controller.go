// Package toggle implements the dashboard light toggle: one boolean,
// one button, one POST per click.
package toggle

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Localized UI strings, matching the dashboard page.
const (
	LabelTurnOn  = "Bật đèn"
	LabelTurnOff = "Tắt đèn"

	StatusOn  = "Trạng thái: <b>Đang bật</b>"
	StatusOff = "Trạng thái: <b>Đang tắt</b>"

	AlertSendFailed = "Không thể gửi lệnh"
)

// Commands sent to the backend as the state query parameter.
const (
	cmdOn  = "on"
	cmdOff = "off"
)

const defaultRequestTimeout = 10 * time.Second

// Display receives the controller's UI side effects: the status region,
// the button label, and the blocking alert on delivery failure.
type Display interface {
	SetStatus(markup string)
	SetButtonLabel(label string)
	Alert(msg string)
}

// Controller owns the on/off flag and its network/UI side effects.
//
// The flag is flipped before the request is sent and is NOT rolled back on
// failure; on failure the display is simply left untouched. That mirrors the
// dashboard script exactly, divergence between flag and display included.
//
// The flag lives on a single event loop: Flip, Render, IsOn and Toggle must
// all be called from the same goroutine. Deliver never touches the flag, so
// deliveries may overlap in flight while the loop keeps flipping; as on the
// page, responses apply in arrival order and the last one wins the display.
type Controller struct {
	client  *http.Client
	baseURL string
	display Display
	isOn    bool
}

// NewController builds a controller talking to the backend at baseURL
// (e.g. "http://localhost:8080"). A nil client gets a default with a
// 10s timeout.
func NewController(baseURL string, display Display, client *http.Client) *Controller {
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Controller{
		client:  client,
		baseURL: baseURL,
		display: display,
	}
}

// IsOn reports the internal flag. After a failed Toggle this can disagree
// with what the display shows.
func (c *Controller) IsOn() bool {
	return c.isOn
}

// Render pushes the rendering for the current flag to the display.
// Call once before the first click so the button and status agree
// with the initial off state.
func (c *Controller) Render() {
	c.renderState(c.isOn)
}

// Toggle handles one click: flip the flag, send the command, and either
// render the new state or alert. Delivery failures (non-2xx and transport
// errors alike) surface only through Display.Alert, never as a return.
func (c *Controller) Toggle(ctx context.Context) {
	c.Deliver(ctx, c.Flip())
}

// Flip flips the flag and returns the command for the new state. Callers
// that run deliveries asynchronously flip on their event loop first, so
// every click counts even while requests are still in flight.
func (c *Controller) Flip() string {
	c.isOn = !c.isOn
	if c.isOn {
		return cmdOn
	}
	return cmdOff
}

// Deliver sends one command and applies its UI effects: on 2xx the display
// renders the state the command names, on any failure it gets one alert.
// Safe to call from any goroutine as long as the Display is.
func (c *Controller) Deliver(ctx context.Context, cmd string) {
	if !c.send(ctx, cmd) {
		c.display.Alert(AlertSendFailed)
		return
	}
	c.renderState(cmd == cmdOn)
}

func (c *Controller) renderState(on bool) {
	if on {
		c.display.SetStatus(StatusOn)
		c.display.SetButtonLabel(LabelTurnOff)
	} else {
		c.display.SetStatus(StatusOff)
		c.display.SetButtonLabel(LabelTurnOn)
	}
}

// send issues POST {base}/api/light?state={cmd} with no body and reports
// whether the response status was 2xx.
func (c *Controller) send(ctx context.Context, cmd string) bool {
	q := url.Values{"state": {cmd}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/light?"+q.Encode(), nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
