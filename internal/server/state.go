package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/harfgame/harf/internal/game"
)

// writeTimeout bounds a single outbound websocket write.
const writeTimeout = 10 * time.Second

// sendBuffer is the per-connection outbound queue depth. A client that
// cannot drain it loses messages rather than stalling the engine.
const sendBuffer = 64

// ServerState is the transport glue between websocket connections and the
// game engine. It implements game.Sender.
type ServerState struct {
	// Address the server ended up listening on. Set by Run before the
	// started channel fires; useful with auto-assigned ports.
	Address string

	Manager *game.Manager
	limiter *rateLimiter

	mu    sync.RWMutex
	conns map[string]*wsConn
}

// wsConn is one live websocket connection and its write pump queue.
type wsConn struct {
	id   string
	sock *websocket.Conn
	send chan game.Message
}

// NewServerState wires a fresh engine instance to an empty connection set.
func NewServerState(cfg game.Config) *ServerState {
	s := &ServerState{
		conns:   make(map[string]*wsConn),
		limiter: newRateLimiter(cfg.RateWindow, cfg.RateLimit),
	}
	s.Manager = game.NewManager(cfg, s)
	return s
}

// Send queues a message for one connection. Never blocks: if the client's
// queue is full the message is dropped, and the client is expected to
// resynchronize from subsequent broadcasts.
func (s *ServerState) Send(connID string, msg game.Message) {
	// The read lock is held across the queue attempt so that the connection
	// teardown (which takes the write lock before closing the channel) can
	// never race a send on a closed channel.
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.conns[connID]
	if c == nil {
		return
	}
	select {
	case c.send <- msg:
	default:
		klog.V(1).Infof("conn %s: send queue full, dropping %s", connID, msg.Type)
	}
}

// HandleWS upgrades an HTTP request and runs the connection's read loop
// until the client goes away.
func (s *ServerState) HandleWS(w http.ResponseWriter, r *http.Request) {
	sock, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		klog.Warningf("websocket accept failed: %v", err)
		return
	}

	c := &wsConn{
		id:   uuid.NewString(),
		sock: sock,
		send: make(chan game.Message, sendBuffer),
	}
	s.mu.Lock()
	s.conns[c.id] = c
	s.mu.Unlock()
	klog.V(1).Infof("conn %s: connected from %s", c.id, r.RemoteAddr)

	go s.writePump(c)
	s.readLoop(r.Context(), c)

	// Implicit disconnect: purge limiter state, unbind from the engine,
	// then tear the socket down.
	s.limiter.forget(c.id)
	s.Manager.Disconnect(c.id)

	s.mu.Lock()
	delete(s.conns, c.id)
	s.mu.Unlock()
	close(c.send)
	_ = sock.CloseNow()
	klog.V(1).Infof("conn %s: closed", c.id)
}

func (s *ServerState) readLoop(ctx context.Context, c *wsConn) {
	for {
		var msg game.Message
		if err := wsjson.Read(ctx, c.sock, &msg); err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				klog.V(1).Infof("conn %s: read error: %v", c.id, err)
			}
			return
		}
		if !s.limiter.allow(c.id) {
			klog.V(1).Infof("conn %s: rate limit exceeded, dropping %s", c.id, msg.Type)
			continue
		}
		s.Manager.Handle(c.id, msg)
	}
}

func (s *ServerState) writePump(c *wsConn) {
	for msg := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := wsjson.Write(ctx, c.sock, msg)
		cancel()
		if err != nil {
			// The read loop will observe the broken socket and clean up.
			klog.V(1).Infof("conn %s: write error: %v", c.id, err)
			return
		}
	}
}

// Close shuts down the engine and every live connection.
func (s *ServerState) Close() {
	s.Manager.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		_ = c.sock.Close(websocket.StatusGoingAway, "server shutting down")
	}
}
