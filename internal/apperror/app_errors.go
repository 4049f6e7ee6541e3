package apperror

import "errors"

var (
	ErrMatchFinished     = errors.New("match is already finished")
	ErrMatchIsNotStarted = errors.New("match is not started")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrEmptySquare       = errors.New("there is no piece on that square")
	ErrNotYourPiece      = errors.New("that piece is not yours")
	ErrIllegalMove       = errors.New("illegal move")
	ErrNotSeated         = errors.New("only seated players can do that")
	ErrOutcomeMismatch   = errors.New("reported outcome does not match the board")
	ErrUnknownEndReason  = errors.New("unknown end reason")

	ErrMatchNotFound    = errors.New("match not found")
	ErrAlreadyInMatch   = errors.New("connection already joined another match")
	ErrNotInMatch       = errors.New("connection has not joined this match")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrUnknownAction    = errors.New("unknown action")

	ErrRecordNotFound     = errors.New("match record not found")
	ErrRecordAlreadySaved = errors.New("match record already saved")
)
