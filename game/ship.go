package game

import "fmt"

// ShipType identifies a kind of ship. The value of a ShipType is its length.
type ShipType int

const (
	ShipUndefined      ShipType = 0
	ShipTypeDestroyer  ShipType = 2
	ShipTypeCruiser    ShipType = 3
	ShipTypeBattleship ShipType = 4
	ShipTypeCarrier    ShipType = 5
)

func (s ShipType) String() string {
	switch s {
	case ShipTypeCarrier:
		return "Carrier"
	case ShipTypeBattleship:
		return "Battleship"
	case ShipTypeCruiser:
		return "Cruiser"
	case ShipTypeDestroyer:
		return "Destroyer"
	default:
		return "Unknown"
	}
}

// ParseShipType is the reverse of ShipType.String.
func ParseShipType(s string) (ShipType, error) {
	for _, t := range []ShipType{ShipTypeCarrier, ShipTypeBattleship, ShipTypeCruiser, ShipTypeDestroyer} {
		if t.String() == s {
			return t, nil
		}
	}
	return ShipUndefined, fmt.Errorf("unknown ship type: %q", s)
}

func (s ShipType) IsValid() bool {
	return s >= ShipTypeDestroyer && s <= ShipTypeCarrier
}

// Size returns the number of cells a ship of this type occupies.
func (s ShipType) Size() int {
	if !s.IsValid() {
		return 0
	}
	return int(s)
}

type ShipDirection int

const (
	ShipDirectionToRight ShipDirection = iota
	ShipDirectionToDown
)

func (d ShipDirection) String() string {
	switch d {
	case ShipDirectionToRight:
		return "Right"
	case ShipDirectionToDown:
		return "Down"
	default:
		return "Unknown"
	}
}

// Horizontal reports whether the ship extends along the x axis.
func (d ShipDirection) Horizontal() bool {
	return d == ShipDirectionToRight
}

// Rotate returns the other orientation.
func (d ShipDirection) Rotate() ShipDirection {
	if d == ShipDirectionToRight {
		return ShipDirectionToDown
	}
	return ShipDirectionToRight
}

// Ship is a placed (or candidate) ship. Its geometry never changes after
// placement; only Hits is mutated, and only by ResolveShot.
type Ship struct {
	Type      ShipType
	Origin    [2]int
	Direction ShipDirection
	Hits      int
}

// NewShip creates an unplaced ship with its origin at (x, y).
func NewShip(t ShipType, x, y int, dir ShipDirection) *Ship {
	return &Ship{
		Type:      t,
		Origin:    [2]int{x, y},
		Direction: dir,
	}
}

func (s Ship) String() string {
	return fmt.Sprintf("%s at %s %s", s.Type, CoordinateName(s.Origin[0], s.Origin[1]), s.Direction)
}

// Cells returns the cells the ship occupies, starting at its origin. Cells
// may lie outside the board for a candidate ship.
func (s Ship) Cells() [][2]int {
	cords := make([][2]int, s.Type.Size())
	for i := range cords {
		if s.Direction.Horizontal() {
			cords[i] = [2]int{s.Origin[0] + i, s.Origin[1]}
		} else {
			cords[i] = [2]int{s.Origin[0], s.Origin[1] + i}
		}
	}
	return cords
}

// ExclusionZone returns the occupied cells plus all of their eight
// neighbours, clipped to the board and without duplicates.
func (s Ship) ExclusionZone() [][2]int {
	seen := make(map[[2]int]bool)
	zone := make([][2]int, 0, (s.Type.Size()+2)*3)
	for _, c := range s.Cells() {
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				n := [2]int{c[0] + dx, c[1] + dy}
				if !InBounds(n[0], n[1]) || seen[n] {
					continue
				}
				seen[n] = true
				zone = append(zone, n)
			}
		}
	}
	return zone
}

// Occupies reports whether the ship covers (x, y).
func (s Ship) Occupies(x, y int) bool {
	for _, c := range s.Cells() {
		if c[0] == x && c[1] == y {
			return true
		}
	}
	return false
}

func (s Ship) IsSunk() bool {
	return s.Type.IsValid() && s.Hits >= s.Type.Size()
}
