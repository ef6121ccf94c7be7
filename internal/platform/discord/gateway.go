package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// gatewayWriteWait is the time allowed to write a frame to the peer.
	gatewayWriteWait = 10 * time.Second

	// gatewayReconnectDelay is the base delay before attempting to reconnect.
	gatewayReconnectDelay = 2 * time.Second

	// gatewayMaxReconnectDelay caps the exponential backoff.
	gatewayMaxReconnectDelay = 60 * time.Second

	// gatewayStableSession resets the backoff once a session has lasted this
	// long.
	gatewayStableSession = 30 * time.Second

	// gatewayHelloTimeout bounds the wait for the initial HELLO frame.
	gatewayHelloTimeout = 15 * time.Second
)

// MessageHandler is called for every channel message delivered by the
// gateway. Handlers must not block; long work belongs in a goroutine.
type MessageHandler func(Message)

// Gateway maintains the bot's gateway connection: identify, heartbeat, and
// dispatch of incoming messages, with automatic reconnect on connection
// loss.
type Gateway struct {
	url   string
	token string

	mu   sync.Mutex // guards conn writes
	conn *websocket.Conn

	seq atomic.Int64 // last dispatch sequence, sent with heartbeats

	handler MessageHandler
	logger  *slog.Logger
}

// NewGateway creates a gateway client for the given WS URL and bot token.
func NewGateway(url, token string, logger *slog.Logger) *Gateway {
	return &Gateway{
		url:    url,
		token:  token,
		logger: logger.With(slog.String("component", "gateway")),
	}
}

// OnMessage registers the handler invoked for each MESSAGE_CREATE dispatch.
// Must be called before Run.
func (g *Gateway) OnMessage(handler MessageHandler) {
	g.handler = handler
}

// Run connects to the gateway and serves dispatches until ctx is cancelled,
// reconnecting with capped exponential backoff on any connection loss.
func (g *Gateway) Run(ctx context.Context) error {
	delay := gatewayReconnectDelay

	for {
		started := time.Now()
		err := g.connectAndServe(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if time.Since(started) >= gatewayStableSession {
			delay = gatewayReconnectDelay
		}

		g.logger.WarnContext(ctx, "gateway disconnected, reconnecting",
			slog.String("error", err.Error()),
			slog.Duration("delay", delay),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > gatewayMaxReconnectDelay {
			delay = gatewayMaxReconnectDelay
		}
	}
}

// connectAndServe runs one gateway session: dial, hello/identify handshake,
// heartbeat loop, and the read loop. It returns when the connection drops or
// the server requests a reconnect.
func (g *Gateway) connectAndServe(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 15 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, g.url, nil)
	if err != nil {
		return fmt.Errorf("discord/gateway: connect: %w", err)
	}
	defer conn.Close()

	g.mu.Lock()
	g.conn = conn
	g.mu.Unlock()

	// Closed when this session ends; stops the heartbeat loop and the
	// context watcher below.
	sessionDone := make(chan struct{})
	defer close(sessionDone)

	// Closing the connection is the only way to unblock a pending read, so
	// cancellation must not wait for the next read deadline.
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-sessionDone:
		}
	}()

	// The first frame must be HELLO with the heartbeat interval.
	conn.SetReadDeadline(time.Now().Add(gatewayHelloTimeout))
	var hello gatewayPayload
	if err := conn.ReadJSON(&hello); err != nil {
		return fmt.Errorf("discord/gateway: read hello: %w", err)
	}
	if hello.Op != opHello {
		return fmt.Errorf("discord/gateway: expected hello, got op %d", hello.Op)
	}
	var helloBody helloData
	if err := json.Unmarshal(hello.D, &helloBody); err != nil {
		return fmt.Errorf("discord/gateway: decode hello: %w", err)
	}
	heartbeatInterval := time.Duration(helloBody.HeartbeatInterval) * time.Millisecond
	if heartbeatInterval <= 0 {
		return fmt.Errorf("discord/gateway: invalid heartbeat interval %v", heartbeatInterval)
	}

	if err := g.sendIdentify(); err != nil {
		return err
	}

	g.logger.InfoContext(ctx, "gateway session established",
		slog.Duration("heartbeat_interval", heartbeatInterval),
	)

	// Heartbeat loop; stops when the session ends.
	go g.heartbeatLoop(ctx, heartbeatInterval, sessionDone)

	// Missing two heartbeat ACKs in a row means the connection is dead.
	conn.SetReadDeadline(time.Now().Add(2 * heartbeatInterval))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var payload gatewayPayload
		if err := conn.ReadJSON(&payload); err != nil {
			return fmt.Errorf("discord/gateway: read: %w", err)
		}
		conn.SetReadDeadline(time.Now().Add(2 * heartbeatInterval))

		switch payload.Op {
		case opDispatch:
			if payload.S != nil {
				g.seq.Store(*payload.S)
			}
			if payload.T == "MESSAGE_CREATE" && g.handler != nil {
				var msg Message
				if err := json.Unmarshal(payload.D, &msg); err != nil {
					g.logger.WarnContext(ctx, "bad message dispatch",
						slog.String("error", err.Error()),
					)
					continue
				}
				g.handler(msg)
			}
		case opHeartbeat:
			// Server requested an immediate heartbeat.
			if err := g.sendHeartbeat(); err != nil {
				return err
			}
		case opHeartbeatACK:
			// Deadline already refreshed above.
		case opReconnect:
			return fmt.Errorf("discord/gateway: server requested reconnect")
		case opInvalidSession:
			return fmt.Errorf("discord/gateway: invalid session")
		}
	}
}

// heartbeatLoop sends heartbeats at the negotiated interval until the
// session or the context ends.
func (g *Gateway) heartbeatLoop(ctx context.Context, interval time.Duration, sessionDone <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sessionDone:
			return
		case <-ticker.C:
			if err := g.sendHeartbeat(); err != nil {
				g.logger.WarnContext(ctx, "heartbeat failed",
					slog.String("error", err.Error()),
				)
				return
			}
		}
	}
}

// sendIdentify sends the IDENTIFY frame for a fresh session.
func (g *Gateway) sendIdentify() error {
	data, err := json.Marshal(identifyData{
		Token:   g.token,
		Intents: gatewayIntents,
		Properties: identifyProperties{
			OS:      runtime.GOOS,
			Browser: "insiderbot",
			Device:  "insiderbot",
		},
	})
	if err != nil {
		return fmt.Errorf("discord/gateway: marshal identify: %w", err)
	}
	if err := g.writePayload(gatewayPayload{Op: opIdentify, D: data}); err != nil {
		return fmt.Errorf("discord/gateway: identify: %w", err)
	}
	return nil
}

// sendHeartbeat sends a heartbeat carrying the last seen sequence number.
func (g *Gateway) sendHeartbeat() error {
	var d json.RawMessage = []byte("null")
	if seq := g.seq.Load(); seq > 0 {
		d = []byte(fmt.Sprintf("%d", seq))
	}
	if err := g.writePayload(gatewayPayload{Op: opHeartbeat, D: d}); err != nil {
		return fmt.Errorf("discord/gateway: heartbeat: %w", err)
	}
	return nil
}

// writePayload serializes one frame to the connection under the write lock.
func (g *Gateway) writePayload(p gatewayPayload) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn == nil {
		return fmt.Errorf("not connected")
	}

	g.conn.SetWriteDeadline(time.Now().Add(gatewayWriteWait))
	return g.conn.WriteJSON(p)
}
