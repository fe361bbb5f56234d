// Command seabattle-bot plays a game without a human: it hosts or joins,
// places a random fleet and fires until the game is decided.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"syscall"
	"time"

	"github.com/yookoala/seabattle/bot"
	"github.com/yookoala/seabattle/comms"
	"github.com/yookoala/seabattle/internal/cli"
	"github.com/yookoala/seabattle/match"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	seed := fs.Int64("seed", time.Now().UnixNano(), "random seed for placement and targeting")
	delay := fs.Duration("delay", 0, "pause before every shot")

	opts, err := cli.Parse(fs, os.Args[1:], "Bot")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	w, closeLog, err := opts.OpenLog(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()
	logger := opts.Logger(w)
	slog.SetDefault(logger)

	if err := run(opts, *seed, *delay, logger); err != nil {
		logger.Error("bot stopped", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(opts cli.Options, seed int64, delay time.Duration, logger *slog.Logger) error {
	transport, err := opts.MatchTransport()
	if err != nil {
		return err
	}

	player := bot.NewPlayer(rand.New(rand.NewSource(seed)), logger)
	player.Delay = delay

	m := match.New(match.Config{
		Name:      opts.Name,
		Transport: transport,
		Logger:    logger,
	}, player)
	defer m.Close()
	stop := comms.CloseOnSignal(m, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "name", opts.Name, "seed", seed, "transport", opts.Transport)

	ctx := context.Background()
	if opts.Join == "" {
		addr, err := m.StartHosting(ctx, opts.Port)
		if err != nil {
			return err
		}
		logger.Info("hosting", "addr", addr.String())
	} else {
		dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := m.JoinGame(dialCtx, opts.Join, opts.Port)
		cancel()
		if err != nil {
			return err
		}
	}

	won, err := player.Play(ctx, m)
	if errors.Is(err, match.ErrClosed) {
		logger.Info("interrupted")
		return nil
	}
	if err != nil {
		return err
	}

	v := m.Snapshot()
	fmt.Printf("Own board:\n%s\nOpponent board:\n%s\n", v.Own, v.Shadow)
	if won {
		fmt.Println("Won!")
	} else {
		fmt.Println("Lost.")
	}
	return nil
}
