package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sakshamg567/sketchy/backend/internal/room"
	"github.com/sakshamg567/sketchy/backend/logger"
)

// RoomService is the slice of the room state machine the HTTP layer calls.
type RoomService interface {
	CreateRoom(ctx context.Context) (string, error)
	JoinRoom(ctx context.Context, roomID, playerName string) (room.JoinResult, error)
	StartGame(ctx context.Context, roomID string) (room.Round, error)
	GetRoom(ctx context.Context, roomID string) (room.Record, error)
}

type Handler struct {
	rooms RoomService
}

func NewHandler(rooms RoomService) *Handler {
	return &Handler{rooms: rooms}
}

// Register mounts the control surface on app.
func (h *Handler) Register(app fiber.Router) {
	app.Get("/", h.Index)

	api := app.Group("/api")
	api.Post("/create-room", h.CreateRoom)
	api.Post("/join-room", h.JoinRoom)
	api.Post("/start-game", h.StartGame)
	api.Get("/room/:id", h.GetRoom)
}

func (h *Handler) Index(c *fiber.Ctx) error {
	return c.SendString("Sketchy game server is running")
}

func (h *Handler) CreateRoom(c *fiber.Ctx) error {
	roomID, err := h.rooms.CreateRoom(c.UserContext())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"roomId":  roomID,
	})
}

func (h *Handler) JoinRoom(c *fiber.Ctx) error {
	var body struct {
		RoomID     string `json:"roomId"`
		PlayerName string `json:"playerName"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	res, err := h.rooms.JoinRoom(c.UserContext(), body.RoomID, body.PlayerName)
	if err != nil {
		return fail(c, err)
	}

	message := "Joined room"
	if res.AlreadyJoined {
		message = "Player already in room"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"roomId":  res.RoomID,
		"players": res.Players,
	})
}

func (h *Handler) StartGame(c *fiber.Ctx) error {
	var body struct {
		RoomID string `json:"roomId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	round, err := h.rooms.StartGame(c.UserContext(), body.RoomID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "Game started",
		"word":          round.Word,
		"currentDrawer": round.CurrentDrawer,
	})
}

// GetRoom shows the public part of a room. The word is never included.
func (h *Handler) GetRoom(c *fiber.Ctx) error {
	rec, err := h.rooms.GetRoom(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"roomId":        rec.ID,
		"players":       rec.Players,
		"currentDrawer": rec.CurrentDrawer,
		"gameStatus":    rec.Status,
	})
}

func fail(c *fiber.Ctx, err error) error {
	status, message := fiber.StatusInternalServerError, "Server Error"

	switch {
	case errors.Is(err, room.ErrMissingField):
		status, message = fiber.StatusBadRequest, "Missing required field"
	case errors.Is(err, room.ErrRoomNotFound):
		status, message = fiber.StatusNotFound, "Room not found"
	case errors.Is(err, room.ErrInsufficientPlayers):
		status, message = fiber.StatusBadRequest, "At least 2 players required to start"
	default:
		logger.Error("%s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"reason":  reason(err),
	})
}

func reason(err error) string {
	for _, known := range []error{
		room.ErrMissingField,
		room.ErrRoomNotFound,
		room.ErrInsufficientPlayers,
		room.ErrStoreUnavailable,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "unknown-error"
}
