package chess

type direction struct{ df, dr int }

var (
	orthogonal = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonal   = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	allAround  = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightHops = []direction{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
)

func forward(color Color) int {
	if color == White {
		return 1
	}
	return -1
}

func homeRank(color Color) int {
	if color == White {
		return 0
	}
	return boardSize - 1
}

func pawnRank(color Color) int { return homeRank(color) + forward(color) }

func lastRank(color Color) int { return homeRank(color.Opposite()) }

// PseudoLegalMoves - destinations reachable by the piece's movement pattern, ignoring king safety and castling.
// The set is empty when sq does not hold a piece of the given color.
func PseudoLegalMoves(board Board, sq Square, color Color) SquareSet {
	p := board.At(sq)
	if p.IsZero() || p.Color != color {
		return 0
	}

	switch p.Kind {
	case Pawn:
		return pawnPushes(&board, sq, color) | pawnCaptures(&board, sq, color)
	case Knight:
		return steps(&board, sq, color, knightHops)
	case Bishop:
		return slides(&board, sq, color, diagonal)
	case Rook:
		return slides(&board, sq, color, orthogonal)
	case Queen:
		return slides(&board, sq, color, allAround)
	case King:
		return steps(&board, sq, color, allAround)
	default:
		return 0
	}
}

func pawnPushes(board *Board, sq Square, color Color) SquareSet {
	var set SquareSet
	dir := forward(color)

	one, ok := sq.Offset(0, dir)
	if !ok || !board.IsEmpty(one) {
		return set
	}
	set.Add(one)

	if sq.Rank() == pawnRank(color) {
		if two, ok := sq.Offset(0, 2*dir); ok && board.IsEmpty(two) {
			set.Add(two)
		}
	}

	return set
}

func pawnCaptures(board *Board, sq Square, color Color) SquareSet {
	var set SquareSet
	for _, target := range pawnDiagonals(sq, color).Squares() {
		p := board.At(target)
		if !p.IsZero() && p.Color != color {
			set.Add(target)
		}
	}

	return set
}

func pawnDiagonals(sq Square, color Color) SquareSet {
	var set SquareSet
	for _, df := range []int{-1, 1} {
		if target, ok := sq.Offset(df, forward(color)); ok {
			set.Add(target)
		}
	}

	return set
}

func steps(board *Board, sq Square, color Color, dirs []direction) SquareSet {
	var set SquareSet
	for _, d := range dirs {
		target, ok := sq.Offset(d.df, d.dr)
		if !ok {
			continue
		}
		if p := board.At(target); p.IsZero() || p.Color != color {
			set.Add(target)
		}
	}

	return set
}

func slides(board *Board, sq Square, color Color, dirs []direction) SquareSet {
	var set SquareSet
	for _, d := range dirs {
		for target, ok := sq.Offset(d.df, d.dr); ok; target, ok = target.Offset(d.df, d.dr) {
			p := board.At(target)
			if p.IsZero() {
				set.Add(target)
				continue
			}
			if p.Color != color {
				set.Add(target)
			}
			break
		}
	}

	return set
}

// attacks lists every square the piece on sq strikes, friendly-occupied ones included.
// Pawns strike both forward diagonals whether or not anything stands there.
func attacks(board *Board, sq Square) SquareSet {
	p := board.At(sq)

	var set SquareSet
	switch p.Kind {
	case Pawn:
		return pawnDiagonals(sq, p.Color)
	case Knight, King:
		dirs := allAround
		if p.Kind == Knight {
			dirs = knightHops
		}
		for _, d := range dirs {
			if target, ok := sq.Offset(d.df, d.dr); ok {
				set.Add(target)
			}
		}
	case Bishop, Rook, Queen:
		dirs := allAround
		switch p.Kind {
		case Bishop:
			dirs = diagonal
		case Rook:
			dirs = orthogonal
		}
		for _, d := range dirs {
			for target, ok := sq.Offset(d.df, d.dr); ok; target, ok = target.Offset(d.df, d.dr) {
				set.Add(target)
				if !board.IsEmpty(target) {
					break
				}
			}
		}
	}

	return set
}

// IsSquareAttacked - reports whether any piece of the color opposite to color attacks sq.
func IsSquareAttacked(board Board, sq Square, color Color) bool {
	for _, from := range board.Occupied(color.Opposite()).Squares() {
		if attacks(&board, from).Has(sq) {
			return true
		}
	}

	return false
}

// IsKingInCheck - a missing king is never in check.
func IsKingInCheck(board Board, color Color) bool {
	king, ok := board.KingSquare(color)
	if !ok {
		return false
	}

	return IsSquareAttacked(board, king, color)
}
