// Package bot plays a game without a human: it places a random fleet and
// picks targets.
package bot

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/yookoala/seabattle/game"
	"github.com/yookoala/seabattle/match"
)

// ErrNoPlacement is returned when no valid fleet layout was found.
var ErrNoPlacement = errors.New("could not find a valid fleet layout")

const (
	attemptsPerShip = 500
	maxLayouts      = 50
)

// RandomFleet places fleet at random positions on a new board. Ships are
// placed in fleet order.
func RandomFleet(rng *rand.Rand, fleet game.Fleet) (*game.Board, error) {
	for layout := 0; layout < maxLayouts; layout++ {
		b := game.NewBoard()
		if fill(rng, b, fleet) {
			return b, nil
		}
	}
	return nil, ErrNoPlacement
}

func fill(rng *rand.Rand, b *game.Board, fleet game.Fleet) bool {
	for _, t := range fleet {
		placed := false
		for i := 0; i < attemptsPerShip && !placed; i++ {
			s := game.NewShip(
				t,
				rng.Intn(game.BoardSize),
				rng.Intn(game.BoardSize),
				game.ShipDirection(rng.Intn(2)),
			)
			placed = b.PlaceShip(s) == nil
		}
		if !placed {
			return false
		}
	}
	return true
}

// Deploy places the ships of layout on m, in order, rotating where needed.
func Deploy(m *match.Match, layout *game.Board) error {
	for _, s := range layout.Ships() {
		if m.Snapshot().Direction != s.Direction {
			if err := m.RotateCurrentShip(); err != nil {
				return err
			}
		}
		if err := m.PlaceShip(s.Origin[0], s.Origin[1]); err != nil {
			return fmt.Errorf("deploy %s: %w", s, err)
		}
	}
	return nil
}
