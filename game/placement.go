package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidShipType = errors.New("invalid ship type")
	ErrOutOfBounds     = errors.New("out of bounds")
	ErrShipsTouching   = errors.New("ships may not touch, not even diagonally")
)

// Fleet is the ordered list of ship types each player has to place.
type Fleet []ShipType

// StandardFleet is one Carrier, one Battleship, two Cruisers and one
// Destroyer, placed in that order.
var StandardFleet = Fleet{
	ShipTypeCarrier,
	ShipTypeBattleship,
	ShipTypeCruiser,
	ShipTypeCruiser,
	ShipTypeDestroyer,
}

func (f Fleet) Len() int {
	return len(f)
}

// Cells returns the total number of cells covered by the fleet.
func (f Fleet) Cells() int {
	n := 0
	for _, t := range f {
		n += t.Size()
	}
	return n
}

// Next returns the next ship type to place on the board. It is derived from
// the ships already on the board rather than from a consumed queue: the
// fleet is walked in order and the first entry not yet matched by a placed
// ship is returned. The second return is false once the fleet is complete.
func (f Fleet) Next(b *Board) (ShipType, bool) {
	placed := placedByType(b)
	for _, t := range f {
		if placed[t] > 0 {
			placed[t]--
			continue
		}
		return t, true
	}
	return ShipUndefined, false
}

// Complete reports whether every ship of the fleet has been placed.
func (f Fleet) Complete(b *Board) bool {
	required := make(map[ShipType]int)
	for _, t := range f {
		required[t]++
	}
	placed := placedByType(b)
	for t, n := range required {
		if placed[t] < n {
			return false
		}
	}
	return true
}

func placedByType(b *Board) map[ShipType]int {
	placed := make(map[ShipType]int)
	for _, s := range b.Ships() {
		placed[s.Type]++
	}
	return placed
}

// ValidatePlacement checks a candidate ship against the board bounds and the
// exclusion zones of the ships already placed. It never mutates the board.
func ValidatePlacement(b *Board, s *Ship) error {
	if !s.Type.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidShipType, s.Type)
	}
	cells := s.Cells()
	for _, c := range cells {
		if !InBounds(c[0], c[1]) {
			return fmt.Errorf("%w: %s", ErrOutOfBounds, s)
		}
	}

	blocked := blockedCells(b)
	for _, c := range cells {
		if blocked[c] {
			return fmt.Errorf("%w: %s", ErrShipsTouching, CoordinateName(c[0], c[1]))
		}
	}
	return nil
}

// IsValidPlacement reports whether the ship can be placed on the board.
func IsValidPlacement(b *Board, s *Ship) bool {
	return ValidatePlacement(b, s) == nil
}

// blockedCells is the union of the exclusion zones of all placed ships.
func blockedCells(b *Board) map[[2]int]bool {
	blocked := make(map[[2]int]bool)
	for _, s := range b.Ships() {
		for _, c := range s.ExclusionZone() {
			blocked[c] = true
		}
	}
	return blocked
}

// AllFleetPlaced reports whether the standard fleet is on the board.
func AllFleetPlaced(b *Board) bool {
	return StandardFleet.Complete(b)
}

// PreviewPlacement returns the cells a ship of type t at (x, y) would cover
// and whether that placement is valid. Cells off the board are included so a
// UI can show the overhang.
func PreviewPlacement(b *Board, t ShipType, x, y int, dir ShipDirection) ([][2]int, bool) {
	s := NewShip(t, x, y, dir)
	return s.Cells(), IsValidPlacement(b, s)
}
