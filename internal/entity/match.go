package entity

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/chess-backend/internal/apperror"
	"github.com/rocketscienceinc/chess-backend/internal/chess"
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

var ErrUnknownMatchStatus = errors.New("unknown match status")

// GameState is the read-only projection of a match sent to clients.
type GameState struct {
	ID              string               `json:"id"`
	Status          string               `json:"status"`
	Turn            chess.Color          `json:"turn"`
	Players         []Player             `json:"players"`
	MoveLog         []string             `json:"moves"`
	Board           chess.Board          `json:"board"`
	Castling        chess.CastlingRights `json:"castling"`
	Check           bool                 `json:"check"`
	Winner          *chess.Color         `json:"winner"`
	EndReason       EndReason            `json:"endReason,omitempty"`
	WhiteExternalID string               `json:"whiteExternalId,omitempty"`
	BlackExternalID string               `json:"blackExternalId,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func (that *GameState) IsFinished() bool { return that.Status == StatusFinished }

// MoveOutcome describes an accepted move.
type MoveOutcome struct {
	Record string
	Effect chess.Effect
	Ended  bool
}

// Match is one game from first join to terminal outcome. All methods are safe for concurrent use.
type Match struct {
	mu sync.Mutex

	id      string
	board   chess.Board
	rights  chess.CastlingRights
	players []Player
	moveLog []string
	turn    chess.Color
	status  string
	winner  *chess.Color
	reason  EndReason

	whiteExternalID string
	blackExternalID string

	played         bool
	persistClaimed bool

	createdAt time.Time
	updatedAt time.Time
}

func NewMatch(id string) *Match {
	now := time.Now().UTC()

	return &Match{
		id:        id,
		board:     chess.StartingBoard(),
		turn:      chess.White,
		status:    StatusWaiting,
		createdAt: now,
		updatedAt: now,
	}
}

func (that *Match) ID() string { return that.id }

func (that *Match) Status() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.status
}

func (that *Match) IsFinished() bool { return that.Status() == StatusFinished }

// Join seats the connection or makes it a spectator. started reports that this join filled the second seat.
func (that *Match) Join(connectionID string, asSpectator bool, externalUserID string) (role Role, started bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if p, ok := that.playerLocked(connectionID); ok {
		return p.Role, false
	}

	role = RoleSpectator
	if !asSpectator && that.status != StatusFinished {
		switch {
		case !that.seatTakenLocked(RoleWhite):
			role = RoleWhite
			that.whiteExternalID = externalUserID
		case !that.seatTakenLocked(RoleBlack):
			role = RoleBlack
			that.blackExternalID = externalUserID
		}
	}

	that.players = append(that.players, Player{ConnectionID: connectionID, Role: role})
	that.touchLocked()

	if role.IsSeated() && that.status == StatusWaiting && that.seatTakenLocked(RoleWhite) && that.seatTakenLocked(RoleBlack) {
		that.status = StatusPlaying
		that.played = true
		started = true
	}

	return role, started
}

// Leave removes the connection. A seated player leaving an unfinished match ends it with
// ReasonOpponentLeft; the remaining seated player, if any, wins.
func (that *Match) Leave(connectionID string) (left Player, ended bool, ok bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	idx := -1
	for i, p := range that.players {
		if p.ConnectionID == connectionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Player{}, false, false
	}

	left = that.players[idx]
	that.players = append(that.players[:idx], that.players[idx+1:]...)
	that.touchLocked()

	if !left.Role.IsSeated() || that.status == StatusFinished {
		return left, false, true
	}

	var winner *chess.Color
	leftColor, _ := left.Role.Color()
	if that.seatTakenLocked(RoleOf(leftColor.Opposite())) {
		w := leftColor.Opposite()
		winner = &w
	}

	return left, that.finishLocked(ReasonOpponentLeft, winner), true
}

// IsIdleSince - true for an empty waiting match left untouched since before cutoff.
func (that *Match) IsIdleSince(cutoff time.Time) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.players) == 0 && that.status == StatusWaiting && that.updatedAt.Before(cutoff)
}

func (that *Match) IsEmpty() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.players) == 0
}

func (that *Match) RoleOf(connectionID string) (Role, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	p, ok := that.playerLocked(connectionID)
	return p.Role, ok
}

// Seats - connection ids of the white and black occupants, empty when vacant.
func (that *Match) Seats() (white, black string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, p := range that.players {
		switch p.Role {
		case RoleWhite:
			white = p.ConnectionID
		case RoleBlack:
			black = p.ConnectionID
		}
	}

	return white, black
}

func (that *Match) IsTurn(connectionID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.isTurnLocked(connectionID)
}

func (that *Match) ConfirmPlayingState() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.confirmPlayingLocked()
}

// Move validates the request against the authoritative board, applies it and evaluates
// the side to move for checkmate, stalemate and insufficient material.
func (that *Match) Move(connectionID string, from, to chess.Square) (MoveOutcome, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.confirmPlayingLocked(); err != nil {
		return MoveOutcome{}, err
	}

	player, ok := that.playerLocked(connectionID)
	if !ok {
		return MoveOutcome{}, apperror.ErrNotInMatch
	}
	if !that.isTurnLocked(connectionID) {
		return MoveOutcome{}, apperror.ErrNotYourTurn
	}

	if !from.Valid() || !to.Valid() {
		return MoveOutcome{}, fmt.Errorf("%w: %s-%s", apperror.ErrIllegalMove, from, to)
	}

	piece := that.board.At(from)
	switch {
	case piece.IsZero():
		return MoveOutcome{}, fmt.Errorf("%w: %s", apperror.ErrEmptySquare, from)
	case piece.Color != that.turn:
		return MoveOutcome{}, fmt.Errorf("%w: %s", apperror.ErrNotYourPiece, from)
	case !chess.LegalMoves(that.board, from, that.rights).Has(to):
		return MoveOutcome{}, fmt.Errorf("%w: %s-%s", apperror.ErrIllegalMove, from, to)
	}

	var effect chess.Effect
	that.board, that.rights, effect = chess.ApplyMove(that.board, that.rights, chess.Move{From: from, To: to})

	record := fmt.Sprintf("%s player moved from %s to %s", player.Role, from, to)
	that.moveLog = append(that.moveLog, record)
	that.turn = that.turn.Opposite()
	that.touchLocked()

	outcome := MoveOutcome{Record: record, Effect: effect}

	mover := that.turn.Opposite()
	switch {
	case chess.IsCheckmate(that.turn, that.board, that.rights):
		outcome.Ended = that.finishLocked(ReasonCheckmate, &mover)
	case chess.IsStalemate(that.turn, that.board, that.rights):
		outcome.Ended = that.finishLocked(ReasonStalemate, nil)
	case chess.IsInsufficientMaterial(that.board):
		outcome.Ended = that.finishLocked(ReasonInsufficientMaterial, nil)
	}

	return outcome, nil
}

// EndGame finishes the match. It returns false when the match was already finished.
func (that *Match) EndGame(reason EndReason, winner *chess.Color) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.finishLocked(reason, winner)
}

// Resign concedes on behalf of a seated player.
func (that *Match) Resign(connectionID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.confirmPlayingLocked(); err != nil {
		return err
	}

	p, ok := that.playerLocked(connectionID)
	if !ok {
		return apperror.ErrNotInMatch
	}

	color, seated := p.Role.Color()
	if !seated {
		return apperror.ErrNotSeated
	}

	winner := color.Opposite()
	that.finishLocked(ReasonResignation, &winner)

	return nil
}

// ConfirmOutcome checks a client-declared end against the board. The side to move is the
// one that must be mated or stalemated; a declared checkmate winner must be the other side.
func (that *Match) ConfirmOutcome(reason EndReason, winner *chess.Color) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.confirmPlayingLocked(); err != nil {
		return err
	}

	var confirmed bool
	switch reason {
	case ReasonCheckmate:
		confirmed = chess.IsCheckmate(that.turn, that.board, that.rights) &&
			(winner == nil || *winner == that.turn.Opposite())
	case ReasonStalemate:
		confirmed = chess.IsStalemate(that.turn, that.board, that.rights)
	case ReasonInsufficientMaterial:
		confirmed = chess.IsInsufficientMaterial(that.board)
	default:
		return fmt.Errorf("%w: %q cannot be derived from the board", apperror.ErrUnknownEndReason, reason)
	}

	if !confirmed {
		return fmt.Errorf("%w: %s", apperror.ErrOutcomeMismatch, reason)
	}

	return nil
}

// LegalMoves - destinations for the piece on from, for move highlighting.
func (that *Match) LegalMoves(from chess.Square) []chess.Square {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status == StatusFinished {
		return nil
	}

	return chess.LegalMoves(that.board, from, that.rights).Squares()
}

func (that *Match) Snapshot() GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	state := GameState{
		ID:              that.id,
		Status:          that.status,
		Turn:            that.turn,
		Players:         append([]Player{}, that.players...),
		MoveLog:         append([]string{}, that.moveLog...),
		Board:           that.board,
		Castling:        that.rights,
		Check:           that.status == StatusPlaying && chess.IsKingInCheck(that.board, that.turn),
		EndReason:       that.reason,
		WhiteExternalID: that.whiteExternalID,
		BlackExternalID: that.blackExternalID,
		CreatedAt:       that.createdAt,
		UpdatedAt:       that.updatedAt,
	}
	if that.winner != nil {
		w := *that.winner
		state.Winner = &w
	}

	return state
}

// Persistable - false for matches that never reached playing, and for self-play,
// when both seats resolve to the same external identity.
func (that *Match) Persistable() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.played && that.whiteExternalID != that.blackExternalID
}

// ClaimPersistence returns true exactly once, and only for a finished match.
func (that *Match) ClaimPersistence() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status != StatusFinished || that.persistClaimed {
		return false
	}

	that.persistClaimed = true
	return true
}

func (that *Match) Record(playedAt time.Time) MatchRecord {
	that.mu.Lock()
	defer that.mu.Unlock()

	outcome := string(that.reason)
	if that.winner != nil {
		outcome = that.winner.String()
	}

	return MatchRecord{
		MatchID:         that.id,
		WhiteExternalID: that.whiteExternalID,
		BlackExternalID: that.blackExternalID,
		Result:          that.reason,
		OutcomeState:    outcome,
		MoveLog:         append([]string{}, that.moveLog...),
		PlayedAt:        playedAt,
	}
}

func (that *Match) finishLocked(reason EndReason, winner *chess.Color) bool {
	if that.status == StatusFinished {
		return false
	}

	that.status = StatusFinished
	that.reason = reason
	that.winner = nil
	if winner != nil && !reason.IsDraw() {
		w := *winner
		that.winner = &w
	}
	that.touchLocked()

	return true
}

func (that *Match) confirmPlayingLocked() error {
	switch that.status {
	case StatusWaiting:
		return apperror.ErrMatchIsNotStarted
	case StatusFinished:
		return apperror.ErrMatchFinished
	case StatusPlaying:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownMatchStatus, that.status)
	}
}

func (that *Match) isTurnLocked(connectionID string) bool {
	if that.status != StatusPlaying {
		return false
	}

	p, ok := that.playerLocked(connectionID)
	if !ok {
		return false
	}

	color, seated := p.Role.Color()
	return seated && color == that.turn
}

func (that *Match) playerLocked(connectionID string) (Player, bool) {
	for _, p := range that.players {
		if p.ConnectionID == connectionID {
			return p, true
		}
	}
	return Player{}, false
}

func (that *Match) seatTakenLocked(role Role) bool {
	for _, p := range that.players {
		if p.Role == role {
			return true
		}
	}
	return false
}

func (that *Match) touchLocked() { that.updatedAt = time.Now().UTC() }
