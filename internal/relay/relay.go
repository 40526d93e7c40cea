package relay

import (
	"context"
	"encoding/json"

	"github.com/sakshamg567/sketchy/backend/logger"
)

// GuessEvaluator checks a guess against a room's secret word.
type GuessEvaluator interface {
	EvaluateGuess(ctx context.Context, roomID, guess string) (bool, error)
}

// Relay fans real-time events out to the other connections of a room.
// Invalid or failed events are logged and dropped; the sender is never told.
type Relay struct {
	registry *Registry
	guesses  GuessEvaluator
}

func New(registry *Registry, guesses GuessEvaluator) *Relay {
	return &Relay{
		registry: registry,
		guesses:  guesses,
	}
}

func (r *Relay) Registry() *Registry {
	return r.registry
}

func (r *Relay) Connect(c Conn) {
	r.registry.Add(c)
	logger.Info("relay: conn=%s connected", c.ID())
}

func (r *Relay) Disconnect(c Conn) {
	r.registry.Remove(c.ID())
	logger.Info("relay: conn=%s disconnected", c.ID())
}

// Handle decodes a raw inbound event and dispatches it.
func (r *Relay) Handle(ctx context.Context, c Conn, event string, data json.RawMessage) {
	switch event {
	case EventJoinRoom:
		var p JoinPayload
		if err := json.Unmarshal(data, &p); err != nil {
			logger.Warn("relay: conn=%s invalid %s payload: %v", c.ID(), event, err)
			return
		}
		r.Join(c, p)

	case EventDraw:
		var p DrawPayload
		if err := json.Unmarshal(data, &p); err != nil {
			logger.Warn("relay: conn=%s invalid %s payload: %v", c.ID(), event, err)
			return
		}
		r.Draw(c, p)

	case EventGuess:
		var p GuessPayload
		if err := json.Unmarshal(data, &p); err != nil {
			logger.Warn("relay: conn=%s invalid %s payload: %v", c.ID(), event, err)
			return
		}
		r.Guess(ctx, c, p)

	case EventDisconnect:
		r.Disconnect(c)

	default:
		logger.Warn("relay: conn=%s unknown event %q dropped", c.ID(), event)
	}
}

// Join associates c with the room and tells everyone else there. The roster
// itself is owned by the control surface's JoinRoom.
func (r *Relay) Join(c Conn, p JoinPayload) {
	if p.RoomID == "" || p.PlayerName == "" {
		logger.Warn("relay: conn=%s joinRoom missing roomId or playerName", c.ID())
		return
	}
	if !r.registry.Associate(c.ID(), p.RoomID) {
		logger.Warn("relay: conn=%s joinRoom from unregistered connection", c.ID())
		return
	}

	logger.Info("relay: %s joined room %s (conn=%s)", p.PlayerName, p.RoomID, c.ID())
	r.broadcastExcept(p.RoomID, c, EventPlayerJoined, PlayerJoined{PlayerName: p.PlayerName})
}

// Draw forwards stroke data untouched to the rest of the room.
func (r *Relay) Draw(c Conn, p DrawPayload) {
	if p.RoomID == "" || len(p.Data) == 0 {
		logger.Warn("relay: conn=%s draw missing roomId or data", c.ID())
		return
	}
	r.broadcastExcept(p.RoomID, c, EventDraw, p.Data)
}

// Guess announces a correct guess to the whole room, sender included.
// Wrong guesses produce no message at all.
func (r *Relay) Guess(ctx context.Context, c Conn, p GuessPayload) {
	if p.RoomID == "" || p.PlayerName == "" || p.Guess == "" {
		logger.Warn("relay: conn=%s guess missing roomId, playerName or guess", c.ID())
		return
	}

	ok, err := r.guesses.EvaluateGuess(ctx, p.RoomID, p.Guess)
	if err != nil {
		logger.Error("relay: conn=%s room=%s guess evaluation failed: %v", c.ID(), p.RoomID, err)
		return
	}
	if !ok {
		return
	}

	logger.Info("relay: %s guessed the word in room %s", p.PlayerName, p.RoomID)
	r.broadcast(p.RoomID, EventCorrectGuess, CorrectGuess{PlayerName: p.PlayerName})
}

func (r *Relay) broadcast(roomID, event string, payload any) {
	r.broadcastExcept(roomID, nil, event, payload)
}

func (r *Relay) broadcastExcept(roomID string, sender Conn, event string, payload any) {
	for _, c := range r.registry.Members(roomID) {
		if sender != nil && c.ID() == sender.ID() {
			continue
		}
		if err := c.Send(event, payload); err != nil {
			logger.Error("relay: %s to conn=%s in room %s dropped: %v", event, c.ID(), roomID, err)
		}
	}
}
