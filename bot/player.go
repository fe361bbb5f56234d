package bot

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/yookoala/seabattle/game"
	"github.com/yookoala/seabattle/match"
)

// ErrDisconnected is returned by Play when the opponent is gone before the
// game was decided.
var ErrDisconnected = errors.New("opponent disconnected")

// Player plays a Match on its own. It is the Match's UI: callbacks only
// wake the Play loop, which reads the match state and acts.
type Player struct {
	rng      *rand.Rand
	targeter *Targeter
	logger   *slog.Logger
	fleet    game.Fleet

	// Delay between shots, so a human can follow.
	Delay time.Duration

	wake  chan struct{}
	ended chan bool
}

// NewPlayer creates a Player. rng drives both placement and targeting.
func NewPlayer(rng *rand.Rand, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		rng:      rng,
		targeter: NewTargeter(rng),
		logger:   logger,
		fleet:    game.StandardFleet,
		wake:     make(chan struct{}, 1),
		ended:    make(chan bool, 1),
	}
}

func (p *Player) poke() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Player) OnBoardChanged() {
	p.poke()
}

func (p *Player) OnStatusMessage(text string) {
	p.logger.Info(text)
	p.poke()
}

func (p *Player) OnGameEnded(won bool) {
	select {
	case p.ended <- won:
	default:
	}
	p.poke()
}

// Play drives m until the game is decided and reports whether it was won.
// It stops early when the connection drops, m is closed or ctx is done.
func (p *Player) Play(ctx context.Context, m *match.Match) (won bool, err error) {
	p.poke()
	for {
		select {
		case won := <-p.ended:
			return won, nil
		case <-ctx.Done():
			return false, ctx.Err()
		case <-m.Done():
			return false, match.ErrClosed
		case <-p.wake:
		}

		// A decided game wins over anything else that woke us.
		select {
		case won := <-p.ended:
			return won, nil
		default:
		}

		if err := p.act(ctx, m, m.Snapshot()); err != nil {
			return false, err
		}
	}
}

func (p *Player) act(ctx context.Context, m *match.Match, v match.View) error {
	switch {
	case v.Phase == game.PhaseEnded && !v.Connected:
		return ErrDisconnected

	case !v.Connected:
		// Still waiting for an opponent.

	case v.Phase == game.PhasePlacement && !v.FleetComplete:
		layout, err := RandomFleet(p.rng, p.fleet)
		if err != nil {
			return err
		}
		if err := m.ResetPlacement(); err != nil {
			return err
		}
		if err := Deploy(m, layout); err != nil {
			return err
		}
		p.logger.Debug("fleet deployed", "board", "\n"+layout.String())

	case v.Phase == game.PhasePlacement:
		if err := m.ConfirmReady(); err != nil {
			p.logger.Debug("not ready yet", "error", err)
		}

	case v.CanFire():
		if p.Delay > 0 {
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		x, y, ok := p.targeter.Next(v.Shadow, v.SunkShips)
		if !ok {
			return nil
		}
		if err := m.FireShot(x, y); err != nil {
			p.logger.Debug("shot refused", "target", game.CoordinateName(x, y), "error", err)
		}
	}
	return nil
}
