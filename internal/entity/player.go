package entity

import "github.com/rocketscienceinc/chess-backend/internal/chess"

type Role string

const (
	RoleWhite     Role = "white"
	RoleBlack     Role = "black"
	RoleSpectator Role = "spectator"
)

func RoleOf(color chess.Color) Role {
	if color == chess.White {
		return RoleWhite
	}
	return RoleBlack
}

// Color - returns the seat color; spectators have none.
func (that Role) Color() (chess.Color, bool) {
	switch that {
	case RoleWhite:
		return chess.White, true
	case RoleBlack:
		return chess.Black, true
	default:
		return chess.White, false
	}
}

func (that Role) IsSeated() bool {
	_, ok := that.Color()
	return ok
}

type Player struct {
	ConnectionID string `json:"id"`
	Role         Role   `json:"role"`
}
