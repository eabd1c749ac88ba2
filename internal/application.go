package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/merntchat/realtime-backend/internal/config"
	"github.com/merntchat/realtime-backend/internal/presence"
	"github.com/merntchat/realtime-backend/internal/repository"
	"github.com/merntchat/realtime-backend/internal/repository/storage"
	"github.com/merntchat/realtime-backend/internal/rooms"
	"github.com/merntchat/realtime-backend/internal/usecase"
	"github.com/merntchat/realtime-backend/transport/rest"
	"github.com/merntchat/realtime-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

const shutdownTimeout = 5 * time.Second

// RunApp - wires the realtime server and runs it until a signal arrives.
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

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	playerRepo := repository.NewPlayerRepository(redisStorage)
	gameRepo := repository.NewGameRepository(redisStorage)
	gameManager := usecase.NewGameManager(logger, playerRepo, gameRepo)

	registry := presence.NewRegistry()
	router := rooms.NewRouter(logger)
	wsServer := websocket.New(logger, registry, router, gameManager, conf.AllowedOrigins)

	// one port serves both the REST surface and the socket upgrade
	mux := http.NewServeMux()
	rest.Routes(mux)
	mux.HandleFunc("/ws", wsServer.HandleWS)

	srv := &http.Server{
		Addr:    ":" + conf.Port,
		Handler: mux,
		// ReadTimeout would kill long-lived socket connections; only the
		// header read is bounded here.
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", "port", conf.Port)
		if srvErr := srv.ListenAndServe(); srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
			errCh <- srvErr
		}
	}()

	select {
	case err = <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err = srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}

		return nil
	}
}
