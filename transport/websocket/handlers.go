package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/chess-backend/internal/apperror"
	"github.com/rocketscienceinc/chess-backend/internal/chess"
	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

// rejections are reported to clients verbatim; anything else is hidden.
var rejections = []error{
	apperror.ErrMatchNotFound,
	apperror.ErrAlreadyInMatch,
	apperror.ErrNotInMatch,
	apperror.ErrMalformedPayload,
	apperror.ErrUnknownAction,
	apperror.ErrMatchFinished,
	apperror.ErrMatchIsNotStarted,
	apperror.ErrNotYourTurn,
	apperror.ErrEmptySquare,
	apperror.ErrNotYourPiece,
	apperror.ErrIllegalMove,
	apperror.ErrNotSeated,
	apperror.ErrOutcomeMismatch,
	apperror.ErrUnknownEndReason,
}

func (that *Server) handleJoinMatch(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleJoinMatch", "connection_id", conn.id)

	var req JoinMatchRequest
	if err := decodePayload(msg, &req); err != nil {
		return err
	}

	if conn.matchID != "" && conn.matchID != req.MatchID {
		return apperror.ErrAlreadyInMatch
	}

	result, err := that.manager.Join(ctx, req.MatchID, conn.id, req.AsSpectator, req.ExternalUserID)
	if err != nil {
		return fmt.Errorf("failed to join match: %w", err)
	}

	that.bind(conn, req.MatchID)
	that.broadcast(req.MatchID, actionStateUpdated, StateUpdatedPayload{State: result.State})

	log.Info("joined match", "match_id", req.MatchID, "role", result.Role)

	if !result.Started {
		return nil
	}

	white, black, err := that.manager.Seats(req.MatchID)
	if err != nil {
		return fmt.Errorf("failed to get seats: %w", err)
	}

	that.broadcast(req.MatchID, actionMatchStarted, MatchStartedPayload{
		MatchID:           req.MatchID,
		WhiteConnectionID: white,
		BlackConnectionID: black,
	})

	return nil
}

func (that *Server) handleAttemptMove(ctx context.Context, conn *connection, msg *Message) error {
	var req AttemptMoveRequest
	if err := decodePayload(msg, &req); err != nil {
		return err
	}

	from, err := parseSquare(req.From)
	if err != nil {
		return err
	}

	to, err := parseSquare(req.To)
	if err != nil {
		return err
	}

	result, err := that.manager.Move(ctx, req.MatchID, conn.id, from, to)
	if err != nil {
		return err
	}

	that.broadcast(req.MatchID, actionStateUpdated, StateUpdatedPayload{State: result.State})

	if result.Ended {
		that.announceEnd(result.State)
	}

	return nil
}

func (that *Server) handleReportMatchEnded(ctx context.Context, conn *connection, msg *Message) error {
	var req ReportMatchEndedRequest
	if err := decodePayload(msg, &req); err != nil {
		return err
	}

	reason, err := entity.ParseEndReason(req.Reason)
	if err != nil {
		return err
	}

	var winner *chess.Color
	if req.Winner != "" {
		color, err := chess.ParseColor(req.Winner)
		if err != nil {
			return fmt.Errorf("%w: %w", apperror.ErrMalformedPayload, err)
		}
		winner = &color
	}

	result, err := that.manager.ReportEnded(ctx, req.MatchID, conn.id, reason, winner)
	if err != nil {
		return fmt.Errorf("failed to end match: %w", err)
	}

	if !result.Ended {
		return nil
	}

	that.broadcast(req.MatchID, actionStateUpdated, StateUpdatedPayload{State: result.State})
	that.announceEnd(result.State)

	return nil
}

func (that *Server) handleLegalMoves(_ context.Context, conn *connection, msg *Message) error {
	var req LegalMovesRequest
	if err := decodePayload(msg, &req); err != nil {
		return err
	}

	from, err := parseSquare(req.From)
	if err != nil {
		return err
	}

	moves, err := that.manager.LegalMoves(req.MatchID, from)
	if err != nil {
		return err
	}

	if moves == nil {
		moves = []chess.Square{}
	}

	that.enqueue(conn, actionLegalMoves, LegalMovesPayload{MatchID: req.MatchID, From: from, To: moves})

	return nil
}

func (that *Server) handleDisconnect(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "handleDisconnect", "connection_id", conn.id)

	delete(that.conns, conn.id)

	if conn.matchID == "" {
		log.Info("client disconnected")
		return
	}

	matchID := conn.matchID
	that.unbind(conn)
	conn.matchID = ""

	result, err := that.manager.Leave(ctx, matchID, conn.id)
	if err != nil {
		log.Warn("failed to leave match", "match_id", matchID, "error", err)
		return
	}

	log.Info("client left match", "match_id", matchID, "role", result.Player.Role)

	if result.Removed {
		delete(that.rooms, matchID)
		return
	}

	that.broadcast(matchID, actionStateUpdated, StateUpdatedPayload{State: result.State})

	if result.Ended {
		that.announceEnd(result.State)
	}
}

func (that *Server) announceEnd(state entity.GameState) {
	that.broadcast(state.ID, actionMatchEnded, MatchEndedPayload{
		MatchID:           state.ID,
		Reason:            state.EndReason,
		Winner:            state.Winner,
		LobbyDelaySeconds: int(that.options.LobbyReturnDelay.Seconds()),
	})
}

// reject - sends an operationRejected message to the originating connection only.
func (that *Server) reject(conn *connection, action string, err error) {
	that.enqueue(conn, actionOperationRejected, OperationRejectedPayload{
		Action:  action,
		Message: rejectionMessage(err),
	})
}

func rejectionMessage(err error) string {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return target.Error()
		}
	}

	return "internal error"
}

func decodePayload(msg *Message, dst any) error {
	if len(msg.Payload) == 0 {
		return apperror.ErrMalformedPayload
	}

	if err := json.Unmarshal(msg.Payload, dst); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrMalformedPayload, err)
	}

	return nil
}

func parseSquare(raw string) (chess.Square, error) {
	sq, err := chess.ParseSquare(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperror.ErrMalformedPayload, err)
	}

	return sq, nil
}
