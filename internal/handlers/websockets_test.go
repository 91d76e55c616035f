package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smartlight"
	"smartlight/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name  string
		query string
		want  time.Duration
	}{
		{"default", "", defaultInterval},
		{"duration", "?interval=2s", 2 * time.Second},
		{"millis", "?interval_ms=250", 250 * time.Millisecond},
		{"duration wins over millis", "?interval=3s&interval_ms=250", 3 * time.Second},
		{"zero falls back", "?interval=0s", defaultInterval},
		{"too large falls back", "?interval=1h", defaultInterval},
		{"garbage falls back", "?interval=soon", defaultInterval},
		{"negative millis falls back", "?interval_ms=-5", defaultInterval},
	}

	gin.SetMode(gin.TestMode)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/ws"+tc.query, nil)
			if got := h.parseInterval(c); got != tc.want {
				t.Fatalf("interval=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestWSConnect_StreamsOverview(t *testing.T) {
	mon := &mockMonitor{overview: smartlight.Overview{
		Light:    smartlight.LightState{ID: 1, IsOn: true},
		Gateways: []smartlight.Gateway{{MAC: "GW_01"}},
	}}
	r := newTestRouter(&service.Service{Monitor: mon})

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?interval_ms=50"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = resp.Body.Close() }()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	// The first envelope arrives immediately; a second follows on the ticker.
	for i := 0; i < 2; i++ {
		var env struct {
			Type string              `json:"type"`
			Data smartlight.Overview `json:"data"`
		}
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if env.Type != "overview" {
			t.Fatalf("type=%q, want overview", env.Type)
		}
		if !env.Data.Light.IsOn || len(env.Data.Gateways) != 1 {
			t.Fatalf("unexpected overview: %+v", env.Data)
		}
	}
}
