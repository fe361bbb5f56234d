package game

import (
	"bytes"
	"fmt"
	"text/tabwriter"
)

const (
	BoardSize = 10
)

type BoardCellState int

const (
	BoardCellStateUnknown BoardCellState = iota
	BoardCellStateWater
	BoardCellStateShip
	BoardCellStateHit
	BoardCellStateMiss
)

func (s BoardCellState) String() string {
	switch s {
	case BoardCellStateUnknown:
		return "Unknown"
	case BoardCellStateWater:
		return "Water"
	case BoardCellStateShip:
		return "Ship"
	case BoardCellStateHit:
		return "Hit"
	case BoardCellStateMiss:
		return "Miss"
	default:
		return "Unknown"
	}
}

// InBounds reports whether (x, y) lies on a board.
func InBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// CoordinateName formats (x, y) the way players call shots: column letter
// followed by the 1-based row, e.g. (2, 4) is "C5".
func CoordinateName(x, y int) string {
	if !InBounds(x, y) {
		return fmt.Sprintf("(%d, %d)", x, y)
	}
	return fmt.Sprintf("%c%d", 'A'+x, y+1)
}

// Cell is a single square of a board. Ship is a non-owning reference to the
// ship covering the cell, if any.
type Cell struct {
	X     int
	Y     int
	State BoardCellState
	Ship  *Ship
}

// Shootable reports whether the cell may still be targeted.
func (c Cell) Shootable() bool {
	switch c.State {
	case BoardCellStateUnknown, BoardCellStateWater, BoardCellStateShip:
		return true
	default:
		return false
	}
}

// Board is a 10x10 grid of cells plus the ships placed on it. An
// authoritative board starts with every cell Water; a shadow board (the local
// view of the opponent's board) starts with every cell Unknown.
type Board struct {
	cells [BoardSize][BoardSize]Cell
	ships []*Ship
	blank BoardCellState
}

// NewBoard creates an empty authoritative board.
func NewBoard() *Board {
	return newBoard(BoardCellStateWater)
}

// NewShadowBoard creates an empty view of the opponent's board.
func NewShadowBoard() *Board {
	return newBoard(BoardCellStateUnknown)
}

func newBoard(blank BoardCellState) *Board {
	b := &Board{blank: blank}
	b.Reset()
	return b
}

// Reset clears every cell back to the board's blank state and drops all
// ships.
func (b *Board) Reset() {
	b.ships = nil
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			b.cells[x][y] = Cell{X: x, Y: y, State: b.blank}
		}
	}
}

// Cell returns the cell at (x, y). The second return is false when the
// coordinate is off the board.
func (b *Board) Cell(x, y int) (*Cell, bool) {
	if !InBounds(x, y) {
		return nil, false
	}
	return &b.cells[x][y], true
}

// State returns the state of (x, y), or Unknown when off the board.
func (b *Board) State(x, y int) BoardCellState {
	c, ok := b.Cell(x, y)
	if !ok {
		return BoardCellStateUnknown
	}
	return c.State
}

// Ships returns the ships placed on the board, in placement order.
func (b *Board) Ships() []*Ship {
	return b.ships
}

// ShipsRemaining counts the placed ships that are not sunk.
func (b *Board) ShipsRemaining() int {
	n := 0
	for _, s := range b.ships {
		if !s.IsSunk() {
			n++
		}
	}
	return n
}

// CountState counts the cells in the given state.
func (b *Board) CountState(state BoardCellState) int {
	n := 0
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			if b.cells[x][y].State == state {
				n++
			}
		}
	}
	return n
}

// PlaceShip validates the ship against the board and commits it.
func (b *Board) PlaceShip(s *Ship) error {
	if err := ValidatePlacement(b, s); err != nil {
		return err
	}
	b.ships = append(b.ships, s)
	for _, c := range s.Cells() {
		cell := &b.cells[c[0]][c[1]]
		cell.State = BoardCellStateShip
		cell.Ship = s
	}
	return nil
}

// Mark sets the state of a single cell. It is used on shadow boards, which
// hold no ships.
func (b *Board) Mark(x, y int, state BoardCellState) error {
	c, ok := b.Cell(x, y)
	if !ok {
		return fmt.Errorf("coordinate out of bounds: (%d, %d)", x, y)
	}
	c.State = state
	return nil
}

// Clone returns a deep copy of the board. Ships are copied and the cells of
// the copy reference the copied ships.
func (b *Board) Clone() *Board {
	c := &Board{
		cells: b.cells,
		blank: b.blank,
	}
	remap := make(map[*Ship]*Ship, len(b.ships))
	if len(b.ships) > 0 {
		c.ships = make([]*Ship, len(b.ships))
	}
	for i, s := range b.ships {
		cp := *s
		c.ships[i] = &cp
		remap[s] = &cp
	}
	for x := 0; x < BoardSize; x++ {
		for y := 0; y < BoardSize; y++ {
			c.cells[x][y].Ship = remap[b.cells[x][y].Ship]
		}
	}
	return c
}

// String renders the board with column letters and row numbers.
func (b *Board) String() string {
	var buffer bytes.Buffer
	tw := tabwriter.NewWriter(&buffer, 2, 0, 1, ' ', 0)

	fmt.Fprint(tw, "\t")
	for x := 0; x < BoardSize; x++ {
		fmt.Fprintf(tw, "%c\t", 'A'+x)
	}
	fmt.Fprint(tw, "\n")

	for y := 0; y < BoardSize; y++ {
		fmt.Fprintf(tw, "%d\t", y+1)
		for x := 0; x < BoardSize; x++ {
			fmt.Fprintf(tw, "%c\t", b.cells[x][y].State.Symbol())
		}
		fmt.Fprint(tw, "\n")
	}
	tw.Flush()
	return buffer.String()
}

// Symbol is the single character used when printing a cell.
func (s BoardCellState) Symbol() rune {
	switch s {
	case BoardCellStateWater:
		return '~'
	case BoardCellStateShip:
		return 'S'
	case BoardCellStateHit:
		return 'X'
	case BoardCellStateMiss:
		return 'o'
	default:
		return '.'
	}
}
