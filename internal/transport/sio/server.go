package sio

import (
	"context"
	"net/http"

	socketio "github.com/googollee/go-socket.io"

	"github.com/sakshamg567/sketchy/backend/internal/relay"
	"github.com/sakshamg567/sketchy/backend/logger"
)

const namespace = "/"

// conn adapts a socket.io connection to relay.Conn. Ids are prefixed so they
// never collide with WebSocket connection ids in the shared registry.
type conn struct {
	s socketio.Conn
}

func (c conn) ID() string {
	return "sio-" + c.s.ID()
}

func (c conn) Send(event string, payload any) error {
	c.s.Emit(event, payload)
	return nil
}

// NewServer builds a socket.io server speaking the same events as the
// WebSocket endpoint, for clients written against a socket.io backend.
func NewServer(r *relay.Relay) *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect(namespace, func(s socketio.Conn) error {
		r.Connect(conn{s})
		return nil
	})

	server.OnEvent(namespace, relay.EventJoinRoom, func(s socketio.Conn, p relay.JoinPayload) {
		r.Join(conn{s}, p)
	})

	server.OnEvent(namespace, relay.EventDraw, func(s socketio.Conn, p relay.DrawPayload) {
		r.Draw(conn{s}, p)
	})

	server.OnEvent(namespace, relay.EventGuess, func(s socketio.Conn, p relay.GuessPayload) {
		r.Guess(context.Background(), conn{s}, p)
	})

	server.OnError(namespace, func(s socketio.Conn, err error) {
		if s == nil {
			logger.Error("socket.io: %v", err)
			return
		}
		logger.Error("socket.io: conn=%s: %v", s.ID(), err)
	})

	server.OnDisconnect(namespace, func(s socketio.Conn, reason string) {
		logger.Debug("socket.io: conn=%s disconnect: %s", s.ID(), reason)
		r.Disconnect(conn{s})
	})

	return server
}

// Handler mounts the socket.io server under /socket.io/.
func Handler(server *socketio.Server) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)
	return mux
}
