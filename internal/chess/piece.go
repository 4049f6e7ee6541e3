package chess

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidColor = errors.New("invalid color")
	ErrInvalidPiece = errors.New("invalid piece")
)

type Color uint8

const (
	White Color = iota
	Black
)

func (that Color) Opposite() Color {
	if that == White {
		return Black
	}
	return White
}

func (that Color) String() string {
	if that == White {
		return "white"
	}
	return "black"
}

func (that Color) letter() byte {
	if that == White {
		return 'w'
	}
	return 'b'
}

// ParseColor accepts "white"/"black" and the short "w"/"b" forms browsers send.
func ParseColor(s string) (Color, error) {
	switch s {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	default:
		return White, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
}

func (that Color) MarshalText() ([]byte, error) { return []byte(that.String()), nil }

func (that *Color) UnmarshalText(text []byte) error {
	c, err := ParseColor(string(text))
	if err != nil {
		return err
	}

	*that = c
	return nil
}

type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindLetters = [...]byte{NoKind: '-', Pawn: 'p', Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q', King: 'k'}

var kindNames = [...]string{NoKind: "none", Pawn: "pawn", Knight: "knight", Bishop: "bishop", Rook: "rook", Queen: "queen", King: "king"}

func (that Kind) String() string {
	if int(that) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[that]
}

func (that Kind) IsMinor() bool { return that == Knight || that == Bishop }

// Piece is a colored chess man. The zero value is an empty square.
type Piece struct {
	Color Color
	Kind  Kind
}

func (that Piece) IsZero() bool { return that.Kind == NoKind }

// Code - returns the two-letter wire form, e.g. "wp" or "bk".
func (that Piece) Code() string {
	if that.IsZero() || int(that.Kind) >= len(kindLetters) {
		return ""
	}
	return string([]byte{that.Color.letter(), kindLetters[that.Kind]})
}

func (that Piece) String() string {
	if that.IsZero() {
		return "empty"
	}
	return that.Color.String() + " " + that.Kind.String()
}

func ParsePiece(code string) (Piece, error) {
	if len(code) != 2 {
		return Piece{}, fmt.Errorf("%w: %q", ErrInvalidPiece, code)
	}

	color, err := ParseColor(code[:1])
	if err != nil {
		return Piece{}, fmt.Errorf("%w: %q", ErrInvalidPiece, code)
	}

	for kind := Pawn; kind <= King; kind++ {
		if kindLetters[kind] == code[1] {
			return Piece{Color: color, Kind: kind}, nil
		}
	}

	return Piece{}, fmt.Errorf("%w: %q", ErrInvalidPiece, code)
}
