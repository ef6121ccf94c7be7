package discord

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newGatewayServer starts a WS test server whose session is driven by serve.
// The returned URL is ready for NewGateway.
func newGatewayServer(t *testing.T, serve func(conn *websocket.Conn)) (*httptest.Server, string) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		serve(conn)
	}))
	return ts, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func sendHello(conn *websocket.Conn) error {
	return conn.WriteJSON(map[string]any{
		"op": opHello,
		"d":  map[string]any{"heartbeat_interval": 45000},
	})
}

func TestGatewayHandshakeAndDispatch(t *testing.T) {
	identifyCh := make(chan gatewayPayload, 1)
	heartbeatCh := make(chan gatewayPayload, 1)
	testDone := make(chan struct{})
	defer close(testDone)

	ts, wsURL := newGatewayServer(t, func(conn *websocket.Conn) {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))

		if err := sendHello(conn); err != nil {
			return
		}

		var identify gatewayPayload
		if err := conn.ReadJSON(&identify); err != nil {
			return
		}
		identifyCh <- identify

		dispatch := `{"op":0,"t":"MESSAGE_CREATE","s":7,"d":{"id":"1","channel_id":"42","content":"!insider","author":{"id":"9","username":"u","bot":false}}}`
		if err := conn.WriteMessage(websocket.TextMessage, []byte(dispatch)); err != nil {
			return
		}

		// Request an immediate heartbeat; it must echo the dispatch sequence.
		if err := conn.WriteJSON(map[string]any{"op": opHeartbeat}); err != nil {
			return
		}
		var beat gatewayPayload
		if err := conn.ReadJSON(&beat); err != nil {
			return
		}
		heartbeatCh <- beat

		<-testDone
	})
	defer ts.Close()

	g := NewGateway(wsURL, "test-token", discardLogger())
	msgCh := make(chan Message, 1)
	g.OnMessage(func(m Message) { msgCh <- m })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- g.Run(ctx) }()

	select {
	case identify := <-identifyCh:
		assert.Equal(t, opIdentify, identify.Op)
		var body identifyData
		require.NoError(t, json.Unmarshal(identify.D, &body))
		assert.Equal(t, "test-token", body.Token)
		assert.Equal(t, gatewayIntents, body.Intents)
	case <-time.After(3 * time.Second):
		t.Fatal("identify frame never arrived")
	}

	select {
	case msg := <-msgCh:
		assert.Equal(t, "42", msg.ChannelID)
		assert.Equal(t, "!insider", msg.Content)
		assert.Equal(t, "9", msg.Author.ID)
	case <-time.After(3 * time.Second):
		t.Fatal("dispatch never reached the handler")
	}

	select {
	case beat := <-heartbeatCh:
		assert.Equal(t, opHeartbeat, beat.Op)
		assert.Equal(t, "7", string(beat.D))
	case <-time.After(3 * time.Second):
		t.Fatal("heartbeat never arrived")
	}

	cancel()
	select {
	case err := <-runErr:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}

func TestConnectAndServeServerControlOps(t *testing.T) {
	tests := []struct {
		name    string
		op      int
		wantErr string
	}{
		{"reconnect request", opReconnect, "requested reconnect"},
		{"invalid session", opInvalidSession, "invalid session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, wsURL := newGatewayServer(t, func(conn *websocket.Conn) {
				conn.SetReadDeadline(time.Now().Add(5 * time.Second))
				if err := sendHello(conn); err != nil {
					return
				}
				var identify gatewayPayload
				if err := conn.ReadJSON(&identify); err != nil {
					return
				}
				conn.WriteJSON(map[string]any{"op": tt.op})

				// Hold the connection open so the client side decides.
				var next gatewayPayload
				conn.ReadJSON(&next)
			})
			defer ts.Close()

			g := NewGateway(wsURL, "test-token", discardLogger())

			err := g.connectAndServe(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunUnblocksOnCancelDuringHandshake(t *testing.T) {
	// A server that upgrades and then goes silent must not pin the gateway:
	// cancellation has to close the connection and unwind Run.
	testDone := make(chan struct{})
	defer close(testDone)

	ts, wsURL := newGatewayServer(t, func(conn *websocket.Conn) {
		<-testDone
	})
	defer ts.Close()

	g := NewGateway(wsURL, "test-token", discardLogger())

	ctx, cancel := context.WithCancel(context.Background())

	runErr := make(chan error, 1)
	go func() { runErr <- g.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-runErr:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("run still blocked after context cancellation")
	}
}
