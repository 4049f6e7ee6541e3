package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/chess-backend/internal/apperror"
)

type EndReason string

const (
	ReasonCheckmate            EndReason = "checkmate"
	ReasonStalemate            EndReason = "stalemate"
	ReasonInsufficientMaterial EndReason = "insufficient_material"
	ReasonOpponentLeft         EndReason = "opponent_left"
	ReasonResignation          EndReason = "resignation"
)

func ParseEndReason(s string) (EndReason, error) {
	switch r := EndReason(s); r {
	case ReasonCheckmate, ReasonStalemate, ReasonInsufficientMaterial, ReasonOpponentLeft, ReasonResignation:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownEndReason, s)
	}
}

// IsDraw - stalemate and insufficient material have no winner.
func (that EndReason) IsDraw() bool {
	return that == ReasonStalemate || that == ReasonInsufficientMaterial
}

// IsBoardDerived - the reason can be verified against the position alone.
func (that EndReason) IsBoardDerived() bool {
	return that == ReasonCheckmate || that.IsDraw()
}

// MatchRecord is the durable form of a finished match.
// OutcomeState holds the winner color for decisive results and the reason for draws.
type MatchRecord struct {
	MatchID         string    `json:"matchId"`
	WhiteExternalID string    `json:"whiteExternalId"`
	BlackExternalID string    `json:"blackExternalId"`
	Result          EndReason `json:"result"`
	OutcomeState    string    `json:"outcomeState"`
	MoveLog         []string  `json:"moves"`
	PlayedAt        time.Time `json:"playedAt"`
}
