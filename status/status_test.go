package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusReachesClient(t *testing.T) {
	Quiet = true
	defer func() { Quiet = false }()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(conn)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return ClientsCount() > 0 }, time.Second, 10*time.Millisecond)

	Progress(0.5, "patching %s", "rooms")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var s status
		require.NoError(t, json.Unmarshal(msg, &s))
		if s.Message == "patching rooms" {
			assert.Equal(t, PROGRESS, s.Type)
			assert.InDelta(t, 0.5, s.Progress, 0.001)
			return
		}
	}
}
