package match

import (
	"errors"
	"fmt"
	"time"

	"github.com/yookoala/seabattle/comms"
	"github.com/yookoala/seabattle/game"
)

// receive handles a message from the opponent on the match goroutine.
func (m *Match) receive(c *comms.Connection, msg *comms.Message) {
	if c != m.conn {
		m.logger.Debug("ignoring message from stale connection", "kind", msg.Kind)
		return
	}

	switch msg.Kind {
	case comms.KindConnect:
		m.opponentName = msg.Name
		if m.host {
			c.Send(comms.NewConnectAck(m.cfg.Name))
		}
		m.setStatus(fmt.Sprintf("%s joined! Place your ships.", m.opponent()))
		m.changed()

	case comms.KindConnectAck:
		m.opponentName = msg.Name
		m.setStatus(fmt.Sprintf("Playing against %s. Place your ships.", m.opponent()))
		m.changed()

	case comms.KindReady:
		m.onReady()

	case comms.KindShot:
		m.onShot(c, msg.X, msg.Y)

	case comms.KindShotResult:
		m.onShotResult(c, msg.X, msg.Y, msg.Outcome)

	case comms.KindShipSunk:
		if m.phase == game.PhaseEnded {
			return
		}
		m.opponentSunk++
		m.recordSunk(msg)
		m.setStatus(fmt.Sprintf("You sunk their %s at %s! (%d left)",
			msg.Data, game.CoordinateName(msg.X, msg.Y), m.cfg.Fleet.Len()-m.opponentSunk))
		m.changed()

	case comms.KindGameOver:
		m.onGameOver(msg.Data)

	case comms.KindChat:
		m.setStatus(fmt.Sprintf("%s: %s", m.opponent(), msg.Data))

	case comms.KindPing:
		c.Send(comms.NewPong(msg.Data))

	case comms.KindPong:
		sent, ok := m.pings[msg.Data]
		if !ok {
			return
		}
		delete(m.pings, msg.Data)
		m.setStatus(fmt.Sprintf("Ping: %s", time.Since(sent).Round(time.Microsecond)))
	}
}

// recordSunk rebuilds the sunk ship from its announced origin and the hits
// on the shadow board. Ships never touch, so a hit right of the origin
// belongs to the same ship.
func (m *Match) recordSunk(msg *comms.Message) {
	t, err := game.ParseShipType(msg.Data)
	if err != nil || !game.InBounds(msg.X, msg.Y) {
		m.logger.Warn("bad ship sunk message", "data", msg.Data, "x", msg.X, "y", msg.Y)
		return
	}
	dir := game.ShipDirectionToDown
	if m.shadow.State(msg.X+1, msg.Y) == game.BoardCellStateHit {
		dir = game.ShipDirectionToRight
	}
	m.sunk = append(m.sunk, *game.NewShip(t, msg.X, msg.Y, dir))
}

func (m *Match) onReady() {
	m.opponentReady = true
	switch m.phase {
	case game.PhaseEnded:
		// The opponent already reset and is waiting for our next game.
		m.setStatus(fmt.Sprintf("%s is ready for a new game.", m.opponent()))
	case game.PhaseWaitingForOpponent:
		m.transition(game.OpponentReady(m.host))
		m.turnStatus()
	case game.PhasePlacement:
		m.setStatus(fmt.Sprintf("%s is ready! Place your ships.", m.opponent()))
	default:
		m.logger.Debug("duplicate ready", "phase", m.phase)
		return
	}
	m.changed()
}

// gameOver ends the current game. Readiness belongs to the game, so a Ready
// arriving from here on is for the next one.
func (m *Match) gameOver() {
	m.transition(game.FleetDestroyed())
	m.pending = nil
	m.ready = false
	m.opponentReady = false
}

// onShot resolves the opponent's shot against the own board and answers.
func (m *Match) onShot(c *comms.Connection, x, y int) {
	name := game.CoordinateName(x, y)
	if m.phase == game.PhaseEnded {
		m.logger.Debug("ignoring shot after the game ended", "target", name)
		return
	}
	if m.phase != game.PhaseOpponentTurn {
		m.logger.Warn("shot out of turn", "target", name, "phase", m.phase)
		c.Send(comms.NewShotResult(x, y, game.OutcomeInvalid))
		return
	}

	outcome, sunk := game.ResolveShot(m.own, x, y)
	c.Send(comms.NewShotResult(x, y, outcome))
	switch outcome {
	case game.OutcomeInvalid:
		m.logger.Warn("invalid shot", "target", name)
		return
	case game.OutcomeSunk:
		c.Send(comms.NewShipSunk(sunk))
	}

	if game.IsGameOver(m.own) {
		c.Send(comms.NewGameOver(comms.ResultLost))
		m.gameOver()
		m.losses++
		m.setStatus("All your ships were sunk. You lost.")
		m.changed()
		m.ui.OnGameEnded(false)
		return
	}

	m.transition(game.RemoteShot(outcome))
	switch outcome {
	case game.OutcomeMiss:
		m.setStatus(fmt.Sprintf("%s missed at %s. Your turn!", m.opponent(), name))
	case game.OutcomeHit:
		m.setStatus(fmt.Sprintf("%s hit your ship at %s!", m.opponent(), name))
	case game.OutcomeSunk:
		m.setStatus(fmt.Sprintf("%s sunk your %s! (%d left)", m.opponent(), sunk.Type, m.own.ShipsRemaining()))
	}
	m.changed()
}

// onShotResult applies the opponent's answer to the pending shot.
func (m *Match) onShotResult(c *comms.Connection, x, y int, outcome game.Outcome) {
	name := game.CoordinateName(x, y)
	if m.pending == nil || m.pending[0] != x || m.pending[1] != y {
		m.logger.Warn("unexpected shot result", "target", name, "outcome", outcome)
		return
	}
	m.pending = nil
	if m.phase != game.PhaseMyTurn {
		return
	}

	if outcome == game.OutcomeInvalid {
		m.setStatus(fmt.Sprintf("Shot at %s was rejected. Fire again.", name))
		m.changed()
		return
	}
	if err := game.ApplyShotResult(m.shadow, x, y, outcome); err != nil {
		m.logger.Warn("cannot apply shot result", "target", name, "error", err)
		m.changed()
		return
	}

	// Every reported hit lands on a distinct cell, so a peer claiming more
	// hits than the fleet has cells is lying.
	if hits := m.shadow.CountState(game.BoardCellStateHit); hits > m.cfg.Fleet.Cells() {
		m.logger.Error("protocol violation: too many hits", "hits", hits, "fleet", m.cfg.Fleet.Cells())
		m.setStatus("Opponent reported more hits than a fleet has. Disconnecting.")
		c.Disconnect()
		return
	}

	m.transition(game.LocalShot(outcome))
	switch outcome {
	case game.OutcomeMiss:
		m.setStatus(fmt.Sprintf("Miss at %s. %s's turn.", name, m.opponent()))
	case game.OutcomeHit:
		m.setStatus(fmt.Sprintf("Hit at %s! Fire again!", name))
	case game.OutcomeSunk:
		m.setStatus(fmt.Sprintf("Sunk at %s! Fire again!", name))
	}
	m.changed()
}

// onGameOver handles the opponent's game over. The tag is from the
// opponent's point of view.
func (m *Match) onGameOver(tag string) {
	if m.phase == game.PhaseEnded {
		return
	}
	var won bool
	switch tag {
	case comms.ResultLost:
		won = true
	case comms.ResultWon:
		won = false
	default:
		m.logger.Warn("unknown game over tag", "tag", tag)
		return
	}

	m.gameOver()
	if won {
		m.wins++
		m.setStatus("Congratulations! You won!")
	} else {
		m.losses++
		m.setStatus("You lost.")
	}
	m.changed()
	m.ui.OnGameEnded(won)
}

// lost handles the end of connection c.
func (m *Match) lost(c *comms.Connection, err error) {
	if c != m.conn {
		return
	}
	m.conn = nil
	m.pending = nil
	m.opponentReady = false
	clear(m.pings)
	m.transition(game.Disconnected())

	if errors.Is(err, comms.ErrConnectionClosed) {
		m.setStatus("Disconnected.")
	} else {
		m.setStatus(fmt.Sprintf("Connection to %s lost.", m.opponent()))
	}
	m.changed()
}
