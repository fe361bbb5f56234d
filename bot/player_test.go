package bot_test

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yookoala/seabattle/bot"
	"github.com/yookoala/seabattle/game"
	"github.com/yookoala/seabattle/match"
)

type result struct {
	won bool
	err error
}

func TestPlayer_PlaysToTheEnd(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hp := bot.NewPlayer(rand.New(rand.NewSource(1)), logger)
	jp := bot.NewPlayer(rand.New(rand.NewSource(2)), logger)
	host := match.New(match.Config{Name: "host", Logger: logger}, hp)
	defer host.Close()
	joiner := match.New(match.Config{Name: "joiner", Logger: logger}, jp)
	defer joiner.Close()

	results := make(chan result, 2)
	play := func(p *bot.Player, m *match.Match) {
		won, err := p.Play(ctx, m)
		results <- result{won, err}
	}
	go play(hp, host)
	go play(jp, joiner)

	addr, err := host.StartHosting(ctx, 0)
	require.NoError(t, err)
	require.NoError(t, joiner.JoinGame(ctx, "127.0.0.1", addr.(*net.TCPAddr).Port))

	wins := 0
	for i := 0; i < 2; i++ {
		select {
		case r := <-results:
			require.NoError(t, r.err)
			if r.won {
				wins++
			}
		case <-ctx.Done():
			t.Fatal("game did not finish")
		}
	}
	assert.Equal(t, 1, wins, "exactly one side wins")

	hv, jv := host.Snapshot(), joiner.Snapshot()
	assert.Equal(t, game.PhaseEnded, hv.Phase)
	assert.Equal(t, game.PhaseEnded, jv.Phase)
	assert.Equal(t, 1, hv.Wins+jv.Wins)
	assert.Equal(t, 1, hv.Losses+jv.Losses)
	assert.True(t, hv.ShipsRemaining == 0 || jv.ShipsRemaining == 0)
}

func TestPlayer_StopsWhenClosed(t *testing.T) {
	p := bot.NewPlayer(rand.New(rand.NewSource(1)), nil)
	m := match.New(match.Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}, p)

	done := make(chan error, 1)
	go func() {
		_, err := p.Play(context.Background(), m)
		done <- err
	}()
	m.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, match.ErrClosed)
	case <-time.After(3 * time.Second):
		t.Fatal("Play did not return")
	}
}

func TestPlayer_OpponentLeaves(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p := bot.NewPlayer(rand.New(rand.NewSource(1)), logger)
	host := match.New(match.Config{Logger: logger}, p)
	defer host.Close()
	other := match.New(match.Config{Logger: logger}, match.UIFuncs{})
	defer other.Close()

	done := make(chan error, 1)
	go func() {
		_, err := p.Play(ctx, host)
		done <- err
	}()

	addr, err := host.StartHosting(ctx, 0)
	require.NoError(t, err)
	require.NoError(t, other.JoinGame(ctx, "127.0.0.1", addr.(*net.TCPAddr).Port))
	require.Eventually(t, func() bool { return host.Snapshot().FleetComplete }, 3*time.Second, 5*time.Millisecond)
	require.NoError(t, other.Disconnect())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, bot.ErrDisconnected)
	case <-ctx.Done():
		t.Fatal("Play did not return")
	}
}
