package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/chess-backend/internal/chess"
	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

// inbound actions
const (
	actionJoinMatch        = "joinMatch"
	actionAttemptMove      = "attemptMove"
	actionReportMatchEnded = "reportMatchEnded"
	actionLegalMoves       = "legalMoves"
)

// outbound actions
const (
	actionConnected         = "connected"
	actionStateUpdated      = "stateUpdated"
	actionMatchStarted      = "matchStarted"
	actionOperationRejected = "operationRejected"
	actionMatchEnded        = "matchEnded"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type JoinMatchRequest struct {
	MatchID        string `json:"matchId"`
	AsSpectator    bool   `json:"asSpectator"`
	ExternalUserID string `json:"externalUserId,omitempty"`
}

type AttemptMoveRequest struct {
	MatchID string `json:"matchId"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type ReportMatchEndedRequest struct {
	MatchID string `json:"matchId"`
	Reason  string `json:"reason"`
	Winner  string `json:"winner,omitempty"`
}

type LegalMovesRequest struct {
	MatchID string `json:"matchId"`
	From    string `json:"from"`
}

type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

type StateUpdatedPayload struct {
	State entity.GameState `json:"state"`
}

type MatchStartedPayload struct {
	MatchID           string `json:"matchId"`
	WhiteConnectionID string `json:"whiteConnectionId"`
	BlackConnectionID string `json:"blackConnectionId"`
}

type OperationRejectedPayload struct {
	Action  string `json:"action,omitempty"`
	Message string `json:"message"`
}

type MatchEndedPayload struct {
	MatchID           string           `json:"matchId"`
	Reason            entity.EndReason `json:"reason"`
	Winner            *chess.Color     `json:"winner"`
	LobbyDelaySeconds int              `json:"lobbyDelaySeconds"`
}

type LegalMovesPayload struct {
	MatchID string         `json:"matchId"`
	From    chess.Square   `json:"from"`
	To      []chess.Square `json:"to"`
}
