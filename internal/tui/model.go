// Package tui renders the light toggle as a terminal UI. It is the
// terminal counterpart of the dashboard page: one button, a status line,
// and an alert line when a command cannot be delivered.
package tui

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"smartlight/internal/toggle"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const alertVisibleFor = 3 * time.Second

// recorder is the Display handed to the controller. Deliveries run inside
// tea.Cmd goroutines; the recorder collects the UI effects and the snapshot
// comes back into Update as a toggleDoneMsg.
type recorder struct {
	mu sync.Mutex
	fx effects
}

// effects is one batch of display mutations.
type effects struct {
	status    string
	hasStatus bool
	button    string
	hasButton bool
	alert     string
	hasAlert  bool
}

func (r *recorder) SetStatus(markup string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fx.status = markup
	r.fx.hasStatus = true
}

func (r *recorder) SetButtonLabel(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fx.button = label
	r.fx.hasButton = true
}

func (r *recorder) Alert(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fx.alert = msg
	r.fx.hasAlert = true
}

// take returns the pending effects and resets the buffer.
func (r *recorder) take() effects {
	r.mu.Lock()
	defer r.mu.Unlock()
	fx := r.fx
	r.fx = effects{}
	return fx
}

type toggleDoneMsg struct{ fx effects }
type clearAlertMsg struct{}

type keymap struct {
	Toggle key.Binding
	Quit   key.Binding
}

var keys = keymap{
	Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space/enter", "toggle")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the Bubble Tea model owning one toggle controller.
type Model struct {
	ctrl *toggle.Controller
	rec  *recorder

	status string
	button string
	alert  string
}

// NewModel wires a controller against the given server base URL and primes
// the initial off rendering. A nil client gets the controller's default.
func NewModel(serverURL string, client *http.Client) Model {
	rec := &recorder{}
	ctrl := toggle.NewController(serverURL, rec, client)
	ctrl.Render()
	fx := rec.take()
	return Model{
		ctrl:   ctrl,
		rec:    rec,
		status: fx.status,
		button: fx.button,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Toggle):
			// The flip happens here, on the event loop; the command
			// goroutine only delivers. No in-flight guard: every press
			// fires its own request, exactly like clicking the dashboard
			// button repeatedly.
			return m, m.deliverCmd(m.ctrl.Flip())
		}
	case toggleDoneMsg:
		if msg.fx.hasStatus {
			m.status = msg.fx.status
		}
		if msg.fx.hasButton {
			m.button = msg.fx.button
		}
		if msg.fx.hasAlert {
			m.alert = msg.fx.alert
			return m, tea.Tick(alertVisibleFor, func(time.Time) tea.Msg {
				return clearAlertMsg{}
			})
		}
	case clearAlertMsg:
		m.alert = ""
	}
	return m, nil
}

func (m Model) deliverCmd(cmd string) tea.Cmd {
	return func() tea.Msg {
		m.ctrl.Deliver(context.Background(), cmd)
		return toggleDoneMsg{fx: m.rec.take()}
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Điều khiển đèn"))
	b.WriteString("\n\n")
	b.WriteString(buttonStyle.Render(m.button))
	b.WriteString("\n\n")
	b.WriteString(renderMarkup(m.status))
	b.WriteString("\n")
	if m.alert != "" {
		b.WriteString(errorStyle.Render("! " + m.alert))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space/enter: toggle • q: quit"))
	return panelStyle.Render(b.String())
}

// renderMarkup turns the status markup's single <b>…</b> span into a bold
// terminal rendering. Anything unexpected is passed through as-is.
func renderMarkup(s string) string {
	open := strings.Index(s, "<b>")
	end := strings.Index(s, "</b>")
	if open < 0 || end < open {
		return s
	}
	return s[:open] + boldStyle.Render(s[open+len("<b>"):end]) + s[end+len("</b>"):]
}
