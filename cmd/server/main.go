package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sakshamg567/sketchy/backend/internal/api"
	"github.com/sakshamg567/sketchy/backend/internal/config"
	"github.com/sakshamg567/sketchy/backend/internal/relay"
	"github.com/sakshamg567/sketchy/backend/internal/room"
	"github.com/sakshamg567/sketchy/backend/internal/store"
	"github.com/sakshamg567/sketchy/backend/internal/transport/sio"
	"github.com/sakshamg567/sketchy/backend/internal/transport/ws"
	"github.com/sakshamg567/sketchy/backend/logger"
	"github.com/sakshamg567/sketchy/backend/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("config: %v", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	words := utils.DefaultWords
	if cfg.WordBankPath != "" {
		words, err = utils.LoadWords(cfg.WordBankPath)
		if err != nil {
			logger.Error("word bank %s: %v", cfg.WordBankPath, err)
			os.Exit(1)
		}
	}

	var roomStore room.Store
	switch cfg.Store {
	case config.StoreMemory:
		logger.Info("Using in-memory room store")
		roomStore = room.NewMemoryStore()
	default:
		rs := store.NewRedisStore(store.NewPool(store.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}), cfg.RoomTTL)
		defer rs.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rs.Ping(ctx); err != nil {
			// not fatal: requests fail with store-unavailable until Redis is back
			logger.Error("Redis at %s: %v", cfg.RedisAddr, err)
		}
		cancel()
		roomStore = rs
	}

	rooms := room.NewService(roomStore, words)
	rel := relay.New(relay.NewRegistry(), rooms)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST",
		AllowHeaders: "Content-Type",
	}))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		cl := ws.NewClient(c)
		rel.Connect(cl)
		go cl.ReadPump(rel)
		cl.WritePump()
	}))

	api.NewHandler(rooms).Register(app)

	var sioServer *http.Server
	if cfg.SocketIOAddr != "" {
		srv := sio.NewServer(rel)
		go func() {
			if err := srv.Serve(); err != nil {
				logger.Error("socket.io: %v", err)
			}
		}()
		defer srv.Close()

		sioServer = &http.Server{Addr: cfg.SocketIOAddr, Handler: sio.Handler(srv)}
		go func() {
			logger.Info("socket.io listening on %s", cfg.SocketIOAddr)
			if err := sioServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("socket.io listener: %v", err)
			}
		}()
	}

	go func() {
		logger.Info("Server running on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if sioServer != nil {
		sioServer.Shutdown(ctx)
	}
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("shutdown: %v", err)
	}
}
