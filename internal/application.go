package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/chess-backend/internal/config"
	"github.com/rocketscienceinc/chess-backend/internal/repository"
	"github.com/rocketscienceinc/chess-backend/internal/repository/storage"
	"github.com/rocketscienceinc/chess-backend/internal/usecase"
	"github.com/rocketscienceinc/chess-backend/transport/rest"
	"github.com/rocketscienceinc/chess-backend/transport/websocket"
)

var (
	ErrAddrNotFound         = errors.New("redis address string is empty")
	ErrUnknownArchiveDriver = errors.New("unknown archive driver")
)

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

	archive, closer, err := openArchive(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closer.Close(); err != nil {
			log.Error("could not close archive storage", "error", err)
		}
	}()

	matchManager := usecase.NewMatchManager(logger, usecase.NewRegistry(), archive)
	defer matchManager.Wait()

	go matchManager.RunReaper(ctx, conf.IdleMatchTTL)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, matchManager).Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, matchManager, websocket.Options{
			LobbyReturnDelay: conf.LobbyReturnDelay,
			OutboundBuffer:   conf.OutboundBuffer,
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

// openArchive connects the storage selected by archive.driver.
func openArchive(ctx context.Context, conf *config.Config) (repository.ArchiveRepository, io.Closer, error) {
	switch conf.Archive.Driver {
	case config.ArchivePostgres:
		pgStorage, err := storage.NewPostgresStorage(ctx, conf.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to postgres storage: %w", err)
		}

		if err = pgStorage.Migrate(ctx); err != nil {
			_ = pgStorage.Close()
			return nil, nil, fmt.Errorf("could not migrate postgres storage: %w", err)
		}

		return repository.NewPostgresArchive(pgStorage.Connection), pgStorage, nil
	case config.ArchiveRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewRedisArchive(redisStorage.Connection), redisStorage, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownArchiveDriver, conf.Archive.Driver)
	}
}
