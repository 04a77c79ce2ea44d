package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-duel/internal/config"
	"github.com/rocketscienceinc/tictactoe-duel/internal/events"
	"github.com/rocketscienceinc/tictactoe-duel/internal/registry"
	"github.com/rocketscienceinc/tictactoe-duel/internal/storage"
	"github.com/rocketscienceinc/tictactoe-duel/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-duel/transport/rest"
	"github.com/rocketscienceinc/tictactoe-duel/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	publisher, closePublisher, err := initPublisher(ctx, logger, conf.Redis)
	if err != nil {
		return err
	}
	defer closePublisher()

	clients := registry.New(logger)
	lobby := usecase.NewLobby(logger, clients, publisher, usecase.WithMoveErrorReply(conf.Game.MoveErrorReply))

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewHandlers(logger, conf.SocketPort)); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, lobby, websocket.Config{
			MaxMessageSize: conf.WebSocket.MaxMessageSize,
			SendBuffer:     conf.WebSocket.SendBuffer,
		})
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// initPublisher - connects to redis when enabled, otherwise events are discarded.
func initPublisher(ctx context.Context, logger *slog.Logger, conf config.Redis) (events.Publisher, func(), error) {
	log := logger.With("component", "app")

	if !conf.Enabled {
		return events.NopPublisher{}, func() {}, nil
	}

	redisAddrString := conf.GetRedisAddr()
	if conf.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	publisher := events.NewRedisPublisher(logger, redisStorage, conf.Channel, 0)

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		publisher.Run(runCtx)
	}()

	closeFn := func() {
		stop()
		<-done

		if closeErr := redisStorage.Close(); closeErr != nil {
			log.Error("could not close redis storage", "error", closeErr)
		}
	}

	log.Info("Publishing events to redis", "addr", redisAddrString, "channel", conf.Channel)

	return publisher, closeFn, nil
}
