package handlers

import (
	"context"
	"net/http"
	"time"

	"smartlight"
	"smartlight/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockLight struct {
	setErr    error
	toggleErr error
	state     smartlight.LightState

	setCalls    int
	toggleCalls int
	lastSetOn   bool
}

func (m *mockLight) Set(ctx context.Context, on bool) (smartlight.LightState, error) {
	m.setCalls++
	m.lastSetOn = on
	if m.setErr != nil {
		return smartlight.LightState{}, m.setErr
	}
	st := m.state
	st.IsOn = on
	return st, nil
}
func (m *mockLight) Toggle(ctx context.Context) (smartlight.LightState, error) {
	m.toggleCalls++
	if m.toggleErr != nil {
		return smartlight.LightState{}, m.toggleErr
	}
	m.state.IsOn = !m.state.IsOn
	return m.state, nil
}

type mockDevices struct {
	registerErr error
	reportErr   error

	lastMAC      string
	lastGwID     string
	lastStatuses []smartlight.NodeStatus
}

func (m *mockDevices) Register(ctx context.Context, mac string) (string, error) {
	m.lastMAC = mac
	if m.registerErr != nil {
		return "", m.registerErr
	}
	return mac, nil
}
func (m *mockDevices) Report(ctx context.Context, gwID string, statuses []smartlight.NodeStatus) error {
	m.lastGwID = gwID
	m.lastStatuses = statuses
	return m.reportErr
}

type mockCommands struct {
	enqueueErr error
	nextResp   []smartlight.DeviceCommand
	nextErr    error

	lastEnqueueMAC  string
	lastEnqueueCmds []smartlight.DeviceCommand
	lastNextMAC     string
}

func (m *mockCommands) Enqueue(ctx context.Context, mac string, cmds []smartlight.DeviceCommand) (int, error) {
	m.lastEnqueueMAC = mac
	m.lastEnqueueCmds = cmds
	if m.enqueueErr != nil {
		return 0, m.enqueueErr
	}
	return len(cmds), nil
}
func (m *mockCommands) Next(ctx context.Context, mac string) ([]smartlight.DeviceCommand, error) {
	m.lastNextMAC = mac
	return m.nextResp, m.nextErr
}

type mockEventLog struct {
	resp     []smartlight.Event
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]smartlight.Event, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

type mockMonitor struct {
	overview smartlight.Overview
	err      error
}

func (m *mockMonitor) Overview(ctx context.Context) (smartlight.Overview, error) {
	return m.overview, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
