package match

import "github.com/yookoala/seabattle/game"

// View is a read-only copy of the match state. Boards are private clones;
// changing them has no effect on the match.
type View struct {
	ID        string
	Phase     game.Phase
	Host      bool
	Hosting   bool
	Connected bool

	Name         string
	OpponentName string

	Own    *game.Board
	Shadow *game.Board

	// Placement progress.
	NextShip      game.ShipType
	FleetComplete bool
	Direction     game.ShipDirection
	Preview       [][2]int
	PreviewValid  bool

	Ready         bool
	OpponentReady bool
	ShotPending   bool

	ShipsRemaining         int
	OpponentShipsRemaining int

	// SunkShips are the opponent's ships sunk so far, as reconstructed
	// from the shadow board.
	SunkShips []game.Ship

	Wins   int
	Losses int

	Status string
}

// CanFire reports whether a shot may be fired right now.
func (v View) CanFire() bool {
	return v.Phase == game.PhaseMyTurn && !v.ShotPending
}
