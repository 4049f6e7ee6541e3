package chess

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

var ErrInvalidSquare = errors.New("invalid square")

// Square is a board coordinate stored as index 0..63, a1 = 0, h8 = 63.
type Square uint8

const boardSize = 8

// NewSquare - builds a square from zero-based file and rank, reporting false when off the board.
func NewSquare(file, rank int) (Square, bool) {
	if file < 0 || file >= boardSize || rank < 0 || rank >= boardSize {
		return 0, false
	}

	return Square(rank*boardSize + file), true
}

// ParseSquare - parses lower-case algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	sq, ok := NewSquare(int(s[0])-'a', int(s[1])-'1')
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	return sq, nil
}

func mustSquare(file, rank int) Square {
	sq, ok := NewSquare(file, rank)
	if !ok {
		panic(fmt.Sprintf("square out of range: file %d rank %d", file, rank))
	}

	return sq
}

func (that Square) File() int { return int(that) % boardSize }
func (that Square) Rank() int { return int(that) / boardSize }

func (that Square) Valid() bool { return that < boardSize*boardSize }

func (that Square) String() string {
	if !that.Valid() {
		return "-"
	}

	return string([]byte{byte('a' + that.File()), byte('1' + that.Rank())})
}

// Offset - returns the square shifted by df files and dr ranks; never wraps around the edges.
func (that Square) Offset(df, dr int) (Square, bool) {
	return NewSquare(that.File()+df, that.Rank()+dr)
}

func (that Square) MarshalText() ([]byte, error) {
	if !that.Valid() {
		return nil, fmt.Errorf("%w: index %d", ErrInvalidSquare, that)
	}

	return []byte(that.String()), nil
}

func (that *Square) UnmarshalText(text []byte) error {
	sq, err := ParseSquare(string(text))
	if err != nil {
		return err
	}

	*that = sq
	return nil
}

// SquareSet is a bitset of squares.
type SquareSet uint64

func (that SquareSet) Has(sq Square) bool { return sq.Valid() && that&(1<<sq) != 0 }

func (that *SquareSet) Add(sq Square) {
	if sq.Valid() {
		*that |= 1 << sq
	}
}

func (that SquareSet) Len() int { return bits.OnesCount64(uint64(that)) }

func (that SquareSet) Empty() bool { return that == 0 }

// Squares - lists members in ascending index order.
func (that SquareSet) Squares() []Square {
	out := make([]Square, 0, that.Len())
	for rest := uint64(that); rest != 0; rest &= rest - 1 {
		out = append(out, Square(bits.TrailingZeros64(rest)))
	}

	return out
}

func (that SquareSet) String() string {
	names := make([]string, 0, that.Len())
	for _, sq := range that.Squares() {
		names = append(names, sq.String())
	}

	return "[" + strings.Join(names, " ") + "]"
}
