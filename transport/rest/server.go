package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type matchManager interface {
	CreateMatch() string
	Snapshot(matchID string) (entity.GameState, error)
	History(ctx context.Context, userID string) ([]entity.MatchRecord, error)
}

type Server struct {
	logger  *slog.Logger
	manager matchManager
}

func New(logger *slog.Logger, manager matchManager) *Server {
	return &Server{
		logger:  logger.With("component", "rest"),
		manager: manager,
	}
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", that.handlePing)
	mux.HandleFunc("POST /matches", that.handleCreateMatch)
	mux.HandleFunc("GET /matches/{id}", that.handleGetMatch)
	mux.HandleFunc("GET /players/{id}/matches", that.handlePlayerHistory)

	return mux
}

// Start - serves the HTTP API until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	log := that.logger.With("method", "Start")

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shutdown http server", "error", err)
		}
	}()

	log.Info("http server is listening", "port", port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
