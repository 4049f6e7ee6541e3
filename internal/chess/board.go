package chess

import (
	"encoding/json"
	"fmt"
)

// Board holds one piece per square, indexed by Square.
type Board [boardSize * boardSize]Piece

var backRank = [boardSize]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StartingBoard - returns the standard initial position.
func StartingBoard() Board {
	var board Board
	for file := 0; file < boardSize; file++ {
		board[mustSquare(file, 0)] = Piece{Color: White, Kind: backRank[file]}
		board[mustSquare(file, 1)] = Piece{Color: White, Kind: Pawn}
		board[mustSquare(file, 6)] = Piece{Color: Black, Kind: Pawn}
		board[mustSquare(file, 7)] = Piece{Color: Black, Kind: backRank[file]}
	}

	return board
}

func (that *Board) At(sq Square) Piece {
	if !sq.Valid() {
		return Piece{}
	}
	return that[sq]
}

func (that *Board) Set(sq Square, p Piece) {
	if sq.Valid() {
		that[sq] = p
	}
}

func (that *Board) Clear(sq Square) { that.Set(sq, Piece{}) }

func (that *Board) IsEmpty(sq Square) bool { return that.At(sq).IsZero() }

// KingSquare - locates the king of the given color.
func (that *Board) KingSquare(color Color) (Square, bool) {
	for i, p := range that {
		if p.Kind == King && p.Color == color {
			return Square(i), true
		}
	}

	return 0, false
}

// Occupied - returns the squares holding pieces of the given color.
func (that *Board) Occupied(color Color) SquareSet {
	var set SquareSet
	for i, p := range that {
		if !p.IsZero() && p.Color == color {
			set.Add(Square(i))
		}
	}

	return set
}

func (that Board) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, 32)
	for i, p := range that {
		if !p.IsZero() {
			out[Square(i).String()] = p.Code()
		}
	}

	return json.Marshal(out)
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var in map[string]string
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to decode board: %w", err)
	}

	var board Board
	for name, code := range in {
		sq, err := ParseSquare(name)
		if err != nil {
			return err
		}

		p, err := ParsePiece(code)
		if err != nil {
			return err
		}

		board[sq] = p
	}

	*that = board
	return nil
}

// SideRights tracks which castling pieces of one color have left home.
type SideRights struct {
	KingMoved  bool `json:"kingMoved"`
	RookAMoved bool `json:"rookAMoved"`
	RookHMoved bool `json:"rookHMoved"`
}

type CastlingRights struct {
	White SideRights `json:"white"`
	Black SideRights `json:"black"`
}

func (that CastlingRights) For(color Color) SideRights {
	if color == White {
		return that.White
	}
	return that.Black
}

func (that *CastlingRights) side(color Color) *SideRights {
	if color == White {
		return &that.White
	}
	return &that.Black
}

// Move is a requested relocation. Promotion is filled in by ApplyMove.
type Move struct {
	From      Square
	To        Square
	Promotion Kind
}

func (that Move) String() string { return that.From.String() + that.To.String() }
