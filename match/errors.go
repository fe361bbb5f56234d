package match

import "errors"

var (
	ErrNotConnected     = errors.New("not connected to an opponent")
	ErrAlreadyConnected = errors.New("already connected or hosting")
	ErrWrongPhase       = errors.New("not allowed in this phase")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrShotPending      = errors.New("waiting for the result of the previous shot")
	ErrCellResolved     = errors.New("cell already fired at")
	ErrFleetIncomplete  = errors.New("fleet is not complete")
	ErrFleetComplete    = errors.New("all ships are already placed")
	ErrClosed           = errors.New("match closed")
)
