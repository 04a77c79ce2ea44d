package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	DefaultMaxMessageSize = 4096
	DefaultSendBuffer     = 16
)

type Config struct {
	MaxMessageSize int64
	SendBuffer     int
}

type Server struct {
	logger   *slog.Logger
	hub      *Hub
	upgrader websocket.Upgrader
	config   Config
}

func New(logger *slog.Logger, lobby lobby, config Config) *Server {
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}

	if config.SendBuffer <= 0 {
		config.SendBuffer = DefaultSendBuffer
	}

	return &Server{
		logger: logger.With("component", "websocket"),
		hub:    NewHub(logger, lobby),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The web client is served from a different port.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		config: config,
	}
}

// Handler - upgrades any path to a websocket.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", that.upgradeToWebSocket)

	return mux
}

// Start - runs the hub and serves websocket upgrades until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	go that.hub.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection and hands it to the hub.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Debug("failed to upgrade connection", "remote", req.RemoteAddr, "error", err)
		return
	}

	conn := newConnection(that.logger, ws, that.config.SendBuffer)
	if !that.hub.join(conn) {
		_ = ws.Close()
		return
	}

	log.Debug("connection accepted", "connID", conn.id, "remote", req.RemoteAddr)

	go conn.writePump()
	go conn.readPump(that.hub, that.config.MaxMessageSize)
}
