package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/chess-backend/internal/apperror"
	"github.com/rocketscienceinc/chess-backend/internal/chess"
	"github.com/rocketscienceinc/chess-backend/internal/entity"
	"github.com/rocketscienceinc/chess-backend/internal/pkg"
	"github.com/rocketscienceinc/chess-backend/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type matchManager interface {
	Join(ctx context.Context, matchID, connectionID string, asSpectator bool, userID string) (usecase.JoinResult, error)
	Move(ctx context.Context, matchID, connectionID string, from, to chess.Square) (usecase.MoveResult, error)
	ReportEnded(ctx context.Context, matchID, connectionID string, reason entity.EndReason, winner *chess.Color) (usecase.EndResult, error)
	Leave(ctx context.Context, matchID, connectionID string) (usecase.LeaveResult, error)
	LegalMoves(matchID string, from chess.Square) ([]chess.Square, error)
	Seats(matchID string) (string, string, error)
}

type eventKind int

const (
	eventConnect eventKind = iota
	eventMessage
	eventDisconnect
)

type event struct {
	kind      eventKind
	conn      *connection
	msg       Message
	malformed bool
}

type Options struct {
	LobbyReturnDelay time.Duration
	OutboundBuffer   int
}

// Server is the realtime session gateway. All match and room state is
// touched only from Run, so events are handled one at a time in arrival order.
type Server struct {
	logger  *slog.Logger
	manager matchManager
	options Options

	events chan event
	done   chan struct{}

	handlers map[string]func(ctx context.Context, conn *connection, msg *Message) error

	conns map[string]*connection
	rooms map[string]map[string]*connection
}

func New(logger *slog.Logger, manager matchManager, options Options) *Server {
	if options.OutboundBuffer <= 0 {
		options.OutboundBuffer = 32
	}

	server := &Server{
		logger:  logger.With("component", "gateway"),
		manager: manager,
		options: options,

		events: make(chan event, 256),
		done:   make(chan struct{}),

		handlers: make(map[string]func(context.Context, *connection, *Message) error),

		conns: make(map[string]*connection),
		rooms: make(map[string]map[string]*connection),
	}

	server.handlers[actionJoinMatch] = server.handleJoinMatch
	server.handlers[actionAttemptMove] = server.handleAttemptMove
	server.handlers[actionReportMatchEnded] = server.handleReportMatchEnded
	server.handlers[actionLegalMoves] = server.handleLegalMoves

	return server
}

// Start - runs the dispatch loop and serves WebSocket connections until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	log := that.logger.With("method", "Start")

	go that.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shutdown websocket server", "error", err)
		}
	}()

	log.Info("websocket server is listening", "port", port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Run is the single dispatch loop. It must be called exactly once.
func (that *Server) Run(ctx context.Context) {
	defer close(that.done)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-that.events:
			that.dispatch(ctx, ev)
		}
	}
}

func (that *Server) push(ev event) bool {
	select {
	case that.events <- ev:
		return true
	case <-that.done:
		return false
	}
}

func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	ws, err := websocket.Accept(writer, req, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}
	defer ws.CloseNow()

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	conn := newConnection(pkg.GenerateConnectionID(), that.options.OutboundBuffer, cancel)

	if !that.push(event{kind: eventConnect, conn: conn}) {
		return
	}

	go that.writeLoop(ctx, ws, conn)

	that.readLoop(ctx, ws, conn)

	that.push(event{kind: eventDisconnect, conn: conn})
}

func (that *Server) dispatch(ctx context.Context, ev event) {
	log := that.logger.With("method", "dispatch", "connection_id", ev.conn.id)

	switch ev.kind {
	case eventConnect:
		that.conns[ev.conn.id] = ev.conn
		that.enqueue(ev.conn, actionConnected, ConnectedPayload{ConnectionID: ev.conn.id})

		log.Info("client connected")
	case eventDisconnect:
		that.handleDisconnect(ctx, ev.conn)
	case eventMessage:
		if ev.malformed {
			that.reject(ev.conn, "", apperror.ErrMalformedPayload)
			return
		}

		handler, ok := that.handlers[ev.msg.Action]
		if !ok {
			that.reject(ev.conn, ev.msg.Action, apperror.ErrUnknownAction)
			return
		}

		if err := handler(ctx, ev.conn, &ev.msg); err != nil {
			log.Info("operation rejected", "action", ev.msg.Action, "error", err)
			that.reject(ev.conn, ev.msg.Action, err)
		}
	}
}
