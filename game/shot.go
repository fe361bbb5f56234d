package game

import (
	"errors"
	"fmt"
)

// Outcome is the result of resolving a shot. The zero value is Invalid.
type Outcome int

const (
	OutcomeInvalid Outcome = iota
	OutcomeMiss
	OutcomeHit
	OutcomeSunk
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMiss:
		return "miss"
	case OutcomeHit:
		return "hit"
	case OutcomeSunk:
		return "sunk"
	default:
		return "invalid"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "invalid", "":
		*o = OutcomeInvalid
	case "miss":
		*o = OutcomeMiss
	case "hit":
		*o = OutcomeHit
	case "sunk":
		*o = OutcomeSunk
	default:
		return fmt.Errorf("unknown shot outcome: %q", b)
	}
	return nil
}

// Continues reports whether the shooter keeps the turn after this outcome.
func (o Outcome) Continues() bool {
	return o == OutcomeHit || o == OutcomeSunk
}

// ResolveShot fires at (x, y) on an authoritative board. Water becomes Miss;
// a ship cell becomes Hit and the ship's hit counter is incremented. When
// that sinks the ship the outcome is Sunk and the ship is returned.
//
// A coordinate off the board or a cell already Hit or Miss resolves to
// Invalid and leaves the board untouched.
func ResolveShot(b *Board, x, y int) (Outcome, *Ship) {
	cell, ok := b.Cell(x, y)
	if !ok || !cell.Shootable() {
		return OutcomeInvalid, nil
	}

	if cell.State == BoardCellStateShip && cell.Ship != nil {
		cell.State = BoardCellStateHit
		if cell.Ship.Hits < cell.Ship.Type.Size() {
			cell.Ship.Hits++
		}
		if cell.Ship.IsSunk() {
			return OutcomeSunk, cell.Ship
		}
		return OutcomeHit, nil
	}

	cell.State = BoardCellStateMiss
	return OutcomeMiss, nil
}

// IsGameOver reports whether every ship on the board is sunk. A board
// without ships is never over.
func IsGameOver(b *Board) bool {
	ships := b.Ships()
	if len(ships) == 0 {
		return false
	}
	for _, s := range ships {
		if !s.IsSunk() {
			return false
		}
	}
	return true
}

var (
	ErrCellResolved  = errors.New("cell already resolved")
	ErrInvalidResult = errors.New("invalid shot result")
)

// ApplyShotResult records an outcome reported by the opponent on a shadow
// board: Hit and Sunk mark the cell Hit, Miss marks it Miss.
func ApplyShotResult(shadow *Board, x, y int, o Outcome) error {
	cell, ok := shadow.Cell(x, y)
	if !ok {
		return fmt.Errorf("%w: (%d, %d) out of bounds", ErrInvalidResult, x, y)
	}
	if !cell.Shootable() {
		return fmt.Errorf("%w: %s", ErrCellResolved, CoordinateName(x, y))
	}
	switch o {
	case OutcomeHit, OutcomeSunk:
		cell.State = BoardCellStateHit
	case OutcomeMiss:
		cell.State = BoardCellStateMiss
	default:
		return fmt.Errorf("%w: %s", ErrInvalidResult, o)
	}
	return nil
}
