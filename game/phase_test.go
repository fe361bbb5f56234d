package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yookoala/seabattle/game"
)

func TestNextPhase_Table(t *testing.T) {
	testCases := []struct {
		name  string
		phase game.Phase
		event game.Event
		want  game.Phase
	}{
		{"ready sent", game.PhasePlacement, game.ReadySent(), game.PhaseWaitingForOpponent},
		{"host starts", game.PhaseWaitingForOpponent, game.OpponentReady(true), game.PhaseMyTurn},
		{"joiner waits", game.PhaseWaitingForOpponent, game.OpponentReady(false), game.PhaseOpponentTurn},
		{"opponent ready during placement", game.PhasePlacement, game.OpponentReady(true), game.PhasePlacement},
		{"own miss", game.PhaseMyTurn, game.LocalShot(game.OutcomeMiss), game.PhaseOpponentTurn},
		{"own hit", game.PhaseMyTurn, game.LocalShot(game.OutcomeHit), game.PhaseMyTurn},
		{"own sunk", game.PhaseMyTurn, game.LocalShot(game.OutcomeSunk), game.PhaseMyTurn},
		{"own invalid", game.PhaseMyTurn, game.LocalShot(game.OutcomeInvalid), game.PhaseMyTurn},
		{"remote miss", game.PhaseOpponentTurn, game.RemoteShot(game.OutcomeMiss), game.PhaseMyTurn},
		{"remote hit", game.PhaseOpponentTurn, game.RemoteShot(game.OutcomeHit), game.PhaseOpponentTurn},
		{"remote sunk", game.PhaseOpponentTurn, game.RemoteShot(game.OutcomeSunk), game.PhaseOpponentTurn},
		{"remote invalid", game.PhaseOpponentTurn, game.RemoteShot(game.OutcomeInvalid), game.PhaseOpponentTurn},
		{"remote shot out of turn", game.PhaseMyTurn, game.RemoteShot(game.OutcomeMiss), game.PhaseMyTurn},
		{"fleet destroyed", game.PhaseOpponentTurn, game.FleetDestroyed(), game.PhaseEnded},
		{"disconnect in placement", game.PhasePlacement, game.Disconnected(), game.PhaseEnded},
		{"disconnect while waiting", game.PhaseWaitingForOpponent, game.Disconnected(), game.PhaseEnded},
		{"ended is terminal", game.PhaseEnded, game.OpponentReady(true), game.PhaseEnded},
		{"ended ignores shots", game.PhaseEnded, game.RemoteShot(game.OutcomeMiss), game.PhaseEnded},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, game.NextPhase(tc.phase, tc.event))
		})
	}
}

// Two boards, two observers: every miss hands the turn over, every hit or
// sink keeps it.
func TestNextPhase_Alternation(t *testing.T) {
	host, joiner := game.PhaseMyTurn, game.PhaseOpponentTurn

	outcomes := []game.Outcome{
		game.OutcomeMiss, game.OutcomeMiss, game.OutcomeMiss, game.OutcomeMiss,
	}
	shooterIsHost := true
	for _, o := range outcomes {
		if shooterIsHost {
			host = game.NextPhase(host, game.LocalShot(o))
			joiner = game.NextPhase(joiner, game.RemoteShot(o))
		} else {
			joiner = game.NextPhase(joiner, game.LocalShot(o))
			host = game.NextPhase(host, game.RemoteShot(o))
		}
		shooterIsHost = !shooterIsHost
		if shooterIsHost {
			assert.Equal(t, game.PhaseMyTurn, host)
			assert.Equal(t, game.PhaseOpponentTurn, joiner)
		} else {
			assert.Equal(t, game.PhaseOpponentTurn, host)
			assert.Equal(t, game.PhaseMyTurn, joiner)
		}
	}

	for _, o := range []game.Outcome{game.OutcomeHit, game.OutcomeSunk, game.OutcomeHit} {
		host = game.NextPhase(host, game.LocalShot(o))
		joiner = game.NextPhase(joiner, game.RemoteShot(o))
		assert.Equal(t, game.PhaseMyTurn, host)
		assert.Equal(t, game.PhaseOpponentTurn, joiner)
	}
	assert.True(t, host.Playing())
	assert.False(t, game.PhaseEnded.Playing())
}
