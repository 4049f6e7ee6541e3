package chess

import "strings"

type Castle uint8

const (
	NoCastle Castle = iota
	CastleKingside
	CastleQueenside
)

// Effect describes what a move did besides relocating the mover.
type Effect struct {
	Captured  Piece
	Castle    Castle
	Promotion Kind
}

func (that Effect) String() string {
	var parts []string
	switch that.Castle {
	case CastleKingside:
		parts = append(parts, "castled kingside")
	case CastleQueenside:
		parts = append(parts, "castled queenside")
	}
	if that.Promotion != NoKind {
		parts = append(parts, "promoted to "+that.Promotion.String())
	}
	if !that.Captured.IsZero() {
		parts = append(parts, "captured "+that.Captured.String())
	}

	return strings.Join(parts, ", ")
}

// LegalMoves - pseudo-legal destinations that leave the mover's king safe, plus castling.
func LegalMoves(board Board, sq Square, rights CastlingRights) SquareSet {
	p := board.At(sq)
	if p.IsZero() {
		return 0
	}

	var legal SquareSet
	for _, to := range PseudoLegalMoves(board, sq, p.Color).Squares() {
		next, _, _ := ApplyMove(board, rights, Move{From: sq, To: to})
		if !IsKingInCheck(next, p.Color) {
			legal.Add(to)
		}
	}

	if p.Kind == King {
		legal |= castlingMoves(board, sq, p.Color, rights)
	}

	return legal
}

func castlingMoves(board Board, king Square, color Color, rights CastlingRights) SquareSet {
	rank := homeRank(color)
	side := rights.For(color)
	if king != mustSquare(4, rank) || side.KingMoved {
		return 0
	}
	if IsSquareAttacked(board, king, color) {
		return 0
	}

	rook := Piece{Color: color, Kind: Rook}
	vacant := func(files ...int) bool {
		for _, file := range files {
			if !board.IsEmpty(mustSquare(file, rank)) {
				return false
			}
		}
		return true
	}
	unattacked := func(files ...int) bool {
		for _, file := range files {
			if IsSquareAttacked(board, mustSquare(file, rank), color) {
				return false
			}
		}
		return true
	}

	var set SquareSet
	if !side.RookHMoved && board.At(mustSquare(7, rank)) == rook && vacant(5, 6) && unattacked(5, 6) {
		set.Add(mustSquare(6, rank))
	}
	if !side.RookAMoved && board.At(mustSquare(0, rank)) == rook && vacant(1, 2, 3) && unattacked(3, 2) {
		set.Add(mustSquare(2, rank))
	}

	return set
}

// castlingRook maps a two-file king step on its home square to the rook's relocation.
func castlingRook(king Piece, from, to Square) (Square, Square, Castle) {
	rank := homeRank(king.Color)
	if king.Kind != King || from != mustSquare(4, rank) || to.Rank() != rank {
		return 0, 0, NoCastle
	}

	switch to.File() {
	case 6:
		return mustSquare(7, rank), mustSquare(5, rank), CastleKingside
	case 2:
		return mustSquare(0, rank), mustSquare(3, rank), CastleQueenside
	default:
		return 0, 0, NoCastle
	}
}

// ApplyMove - returns the position after m. Inputs are passed by value and never mutated.
// Legality is the caller's concern; an empty origin yields the inputs unchanged.
func ApplyMove(board Board, rights CastlingRights, m Move) (Board, CastlingRights, Effect) {
	p := board.At(m.From)
	if p.IsZero() {
		return board, rights, Effect{}
	}

	effect := Effect{Captured: board.At(m.To)}

	switch p.Kind {
	case King:
		rights.side(p.Color).KingMoved = true
		if rookFrom, rookTo, castle := castlingRook(p, m.From, m.To); castle != NoCastle {
			board.Set(rookTo, board.At(rookFrom))
			board.Clear(rookFrom)
			effect.Castle = castle
		}
	case Rook:
		rank := homeRank(p.Color)
		switch m.From {
		case mustSquare(0, rank):
			rights.side(p.Color).RookAMoved = true
		case mustSquare(7, rank):
			rights.side(p.Color).RookHMoved = true
		}
	case Pawn:
		if m.To.Rank() == lastRank(p.Color) {
			p.Kind = Queen
			effect.Promotion = Queen
		}
	}

	board.Clear(m.From)
	board.Set(m.To, p)

	return board, rights, effect
}

// HasLegalMove - reports whether color has at least one legal move.
func HasLegalMove(color Color, board Board, rights CastlingRights) bool {
	for _, sq := range board.Occupied(color).Squares() {
		if !LegalMoves(board, sq, rights).Empty() {
			return true
		}
	}

	return false
}

func IsCheckmate(color Color, board Board, rights CastlingRights) bool {
	return IsKingInCheck(board, color) && !HasLegalMove(color, board, rights)
}

func IsStalemate(color Color, board Board, rights CastlingRights) bool {
	return !IsKingInCheck(board, color) && !HasLegalMove(color, board, rights)
}

// IsInsufficientMaterial - true for bare kings, or kings plus a single knight or bishop.
func IsInsufficientMaterial(board Board) bool {
	var kings, minors, others int
	for _, p := range board {
		switch {
		case p.IsZero():
		case p.Kind == King:
			kings++
		case p.Kind.IsMinor():
			minors++
		default:
			others++
		}
	}

	if kings != 2 || others != 0 {
		return false
	}

	return minors <= 1
}
