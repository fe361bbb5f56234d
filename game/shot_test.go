package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yookoala/seabattle/game"
)

func TestResolveShot_SinkCruiser(t *testing.T) {
	b := game.NewBoard()
	cruiser := game.NewShip(game.ShipTypeCruiser, 2, 2, game.ShipDirectionToDown)
	require.NoError(t, b.PlaceShip(cruiser))

	outcome, sunk := game.ResolveShot(b, 2, 2)
	assert.Equal(t, game.OutcomeHit, outcome)
	assert.Nil(t, sunk)
	assert.Equal(t, 1, cruiser.Hits)
	assert.False(t, game.IsGameOver(b))

	outcome, _ = game.ResolveShot(b, 2, 3)
	assert.Equal(t, game.OutcomeHit, outcome)
	assert.Equal(t, 2, cruiser.Hits)

	outcome, sunk = game.ResolveShot(b, 2, 4)
	assert.Equal(t, game.OutcomeSunk, outcome)
	assert.Same(t, cruiser, sunk)
	assert.Equal(t, 3, cruiser.Hits)
	assert.True(t, cruiser.IsSunk())
	assert.True(t, game.IsGameOver(b), "last ship sunk")
	assert.Equal(t, 0, b.ShipsRemaining())
}

func TestResolveShot_Miss(t *testing.T) {
	b := game.NewBoard()
	require.NoError(t, b.PlaceShip(game.NewShip(game.ShipTypeDestroyer, 0, 0, game.ShipDirectionToRight)))

	outcome, sunk := game.ResolveShot(b, 5, 5)
	assert.Equal(t, game.OutcomeMiss, outcome)
	assert.Nil(t, sunk)
	assert.Equal(t, game.BoardCellStateMiss, b.State(5, 5))
}

func TestResolveShot_Idempotent(t *testing.T) {
	b := game.NewBoard()
	ship := game.NewShip(game.ShipTypeBattleship, 3, 3, game.ShipDirectionToRight)
	require.NoError(t, b.PlaceShip(ship))

	for _, target := range [][2]int{{3, 3}, {0, 0}} {
		first, _ := game.ResolveShot(b, target[0], target[1])
		require.NotEqual(t, game.OutcomeInvalid, first)

		before := b.String()
		hits := ship.Hits
		second, sunk := game.ResolveShot(b, target[0], target[1])
		assert.Equal(t, game.OutcomeInvalid, second)
		assert.Nil(t, sunk)
		assert.Equal(t, before, b.String())
		assert.Equal(t, hits, ship.Hits)
	}
}

func TestResolveShot_OutOfRange(t *testing.T) {
	b := game.NewBoard()
	for _, target := range [][2]int{{-1, 0}, {0, -1}, {10, 0}, {0, 10}} {
		outcome, _ := game.ResolveShot(b, target[0], target[1])
		assert.Equal(t, game.OutcomeInvalid, outcome, "target %v", target)
	}
}

func TestIsGameOver(t *testing.T) {
	b := game.NewBoard()
	assert.False(t, game.IsGameOver(b), "empty board is never won")

	placeStandardFleet(t, b)
	assert.False(t, game.IsGameOver(b))

	ships := b.Ships()
	for i, s := range ships {
		for _, c := range s.Cells() {
			game.ResolveShot(b, c[0], c[1])
		}
		assert.Equal(t, i == len(ships)-1, game.IsGameOver(b), "after sinking %s", s)
	}
	for _, s := range ships {
		assert.Equal(t, s.Type.Size(), s.Hits)
	}
}

func TestApplyShotResult(t *testing.T) {
	shadow := game.NewShadowBoard()
	assert.Equal(t, game.BoardCellStateUnknown, shadow.State(4, 4))

	require.NoError(t, game.ApplyShotResult(shadow, 4, 4, game.OutcomeHit))
	require.NoError(t, game.ApplyShotResult(shadow, 4, 5, game.OutcomeSunk))
	require.NoError(t, game.ApplyShotResult(shadow, 0, 0, game.OutcomeMiss))
	assert.Equal(t, game.BoardCellStateHit, shadow.State(4, 4))
	assert.Equal(t, game.BoardCellStateHit, shadow.State(4, 5))
	assert.Equal(t, game.BoardCellStateMiss, shadow.State(0, 0))

	assert.ErrorIs(t, game.ApplyShotResult(shadow, 4, 4, game.OutcomeMiss), game.ErrCellResolved)
	assert.ErrorIs(t, game.ApplyShotResult(shadow, 1, 1, game.OutcomeInvalid), game.ErrInvalidResult)
	assert.ErrorIs(t, game.ApplyShotResult(shadow, 10, 1, game.OutcomeHit), game.ErrInvalidResult)
	assert.Equal(t, 2, shadow.CountState(game.BoardCellStateHit))
}

func TestOutcome_Text(t *testing.T) {
	for _, o := range []game.Outcome{game.OutcomeInvalid, game.OutcomeMiss, game.OutcomeHit, game.OutcomeSunk} {
		b, err := o.MarshalText()
		require.NoError(t, err)
		var have game.Outcome
		require.NoError(t, have.UnmarshalText(b))
		assert.Equal(t, o, have)
	}
	var o game.Outcome
	assert.Error(t, o.UnmarshalText([]byte("splash")))
}
