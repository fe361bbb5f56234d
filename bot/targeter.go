package bot

import (
	"math/rand"

	"github.com/yookoala/seabattle/game"
)

// Targeter picks shots against a shadow board. It hunts at random until
// something is hit, then works along the hit until the ship sinks.
type Targeter struct {
	rng *rand.Rand
}

func NewTargeter(rng *rand.Rand) *Targeter {
	return &Targeter{rng: rng}
}

// Next returns the next cell to fire at. sunk lists the ships known to be
// sunk. ok is false when nothing is left to shoot.
func (t *Targeter) Next(shadow *game.Board, sunk []game.Ship) (x, y int, ok bool) {
	// Cells that cannot hold a ship: around sunk ships, and diagonal to any
	// hit, since ships never touch.
	water := make(map[[2]int]bool)
	onSunk := make(map[[2]int]bool)
	for _, s := range sunk {
		for _, c := range s.ExclusionZone() {
			water[c] = true
		}
		for _, c := range s.Cells() {
			onSunk[c] = true
		}
	}

	var open [][2]int
	for x := 0; x < game.BoardSize; x++ {
		for y := 0; y < game.BoardSize; y++ {
			if shadow.State(x, y) != game.BoardCellStateHit {
				continue
			}
			for _, d := range [][2]int{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
				water[[2]int{x + d[0], y + d[1]}] = true
			}
			if !onSunk[[2]int{x, y}] {
				open = append(open, [2]int{x, y})
			}
		}
	}

	candidate := func(c [2]int) bool {
		cell, ok := shadow.Cell(c[0], c[1])
		return ok && cell.Shootable() && !water[c]
	}

	// Target: extend the open hits.
	var targets [][2]int
	for _, h := range open {
		horizontal := shadow.State(h[0]-1, h[1]) == game.BoardCellStateHit ||
			shadow.State(h[0]+1, h[1]) == game.BoardCellStateHit
		vertical := shadow.State(h[0], h[1]-1) == game.BoardCellStateHit ||
			shadow.State(h[0], h[1]+1) == game.BoardCellStateHit

		var dirs [][2]int
		switch {
		case horizontal:
			dirs = [][2]int{{-1, 0}, {1, 0}}
		case vertical:
			dirs = [][2]int{{0, -1}, {0, 1}}
		default:
			dirs = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
		}
		for _, d := range dirs {
			if c := [2]int{h[0] + d[0], h[1] + d[1]}; candidate(c) {
				targets = append(targets, c)
			}
		}
	}
	if len(targets) > 0 {
		c := targets[t.rng.Intn(len(targets))]
		return c[0], c[1], true
	}

	// Hunt: every ship covers a cell of the checkerboard, so try those
	// first.
	var even, rest [][2]int
	for x := 0; x < game.BoardSize; x++ {
		for y := 0; y < game.BoardSize; y++ {
			c := [2]int{x, y}
			if !candidate(c) {
				continue
			}
			if (x+y)%2 == 0 {
				even = append(even, c)
			} else {
				rest = append(rest, c)
			}
		}
	}
	for _, pool := range [][][2]int{even, rest} {
		if len(pool) > 0 {
			c := pool[t.rng.Intn(len(pool))]
			return c[0], c[1], true
		}
	}

	// Everything left is known water; shoot it anyway.
	for x := 0; x < game.BoardSize; x++ {
		for y := 0; y < game.BoardSize; y++ {
			if cell, _ := shadow.Cell(x, y); cell.Shootable() {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}
