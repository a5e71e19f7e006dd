package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermal/model"
	"thermal/tour"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil skips pushed frames until match accepts a message.
func readUntil(t *testing.T, conn *websocket.Conn, match func(model.Msg) bool) model.Msg {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg model.Msg
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func frameAt(step tour.Step) func(model.Msg) bool {
	return func(msg model.Msg) bool {
		if msg.Type != model.TypeFrame {
			return false
		}
		var f model.Frame
		if err := json.Unmarshal([]byte(msg.Content), &f); err != nil {
			return false
		}
		return f.View.Step == step
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := NewServer(DefaultConfig(), websocket.Upgrader{})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestServeWsRoundTrip(t *testing.T) {
	conn := dial(t, newTestServer(t))

	require.NoError(t, conn.WriteJSON(model.Msg{Type: model.TypeStep, Content: "POWER_GENERATION"}))
	readUntil(t, conn, frameAt(tour.PowerGeneration))

	require.NoError(t, conn.WriteJSON(model.Msg{Type: "warp"}))
	msg := readUntil(t, conn, func(m model.Msg) bool { return m.Type == model.TypeError })
	assert.Contains(t, msg.Content, "warp")
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	a := dial(t, srv)
	b := dial(t, srv)

	require.NoError(t, a.WriteJSON(model.Msg{Type: model.TypeStep, Content: "TRANSMISSION"}))
	readUntil(t, a, frameAt(tour.Transmission))

	require.NoError(t, b.WriteJSON(model.Msg{Type: model.TypeNext}))
	msg := readUntil(t, b, frameAt(tour.CoalHandling))

	var f model.Frame
	require.NoError(t, json.Unmarshal([]byte(msg.Content), &f))
	assert.False(t, f.Plant.IsRunning)
}
