package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/noirparfum/noir-backend/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastReachesClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	upgrader := NewUpgrader([]string{"*"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, Serve(hub, upgrader, w, r, 1))
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(events.TypeOrderPlaced, map[string]string{"order_number": "ORD-000001"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(message, &envelope))
	assert.Equal(t, events.TypeOrderPlaced, envelope.Type)
	assert.Equal(t, "ORD-000001", envelope.Data["order_number"])
}

func TestUpgraderOriginCheck(t *testing.T) {
	upgrader := NewUpgrader([]string{"https://admin.noirparfum.com"})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://admin.noirparfum.com")
	assert.True(t, upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, upgrader.CheckOrigin(req))
}

func TestHubUnregisterAfterStop(t *testing.T) {
	hub := NewHub()
	hub.Stop()

	done := make(chan struct{})
	go func() {
		// more than the unregister buffer holds, with no Run loop draining it
		for i := 0; i < 2*cap(hub.unregister); i++ {
			hub.Unregister(NewClient(hub, nil, uint(i)))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Unregister blocked after Stop")
	}
}
