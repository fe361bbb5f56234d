// Command seabattle is the terminal client: it hosts or joins a game and
// lets a human place ships and fire with the keyboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nsf/termbox-go"

	"github.com/yookoala/seabattle/internal/cli"
	"github.com/yookoala/seabattle/match"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts, err := cli.Parse(fs, os.Args[1:], match.DefaultName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if opts.LogFile == "" {
		// The terminal belongs to termbox.
		opts.LogFile = "seabattle.log"
	}

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts cli.Options) error {
	w, closeLog, err := opts.OpenLog(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := opts.Logger(w)

	transport, err := opts.MatchTransport()
	if err != nil {
		return err
	}

	if err := termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc)

	ui := newTermUI()
	go ui.forward()

	m := match.New(match.Config{
		Name:      opts.Name,
		Transport: transport,
		Logger:    logger,
	}, ui)
	defer m.Close()

	if opts.Join == "" {
		if _, err := m.StartHosting(context.Background(), opts.Port); err != nil {
			logger.Error("could not host", "error", err)
		}
	} else {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := m.JoinGame(ctx, opts.Join, opts.Port); err != nil {
				logger.Error("could not join", "error", err)
			}
		}()
	}

	a := &app{m: m, ui: ui}
	_ = m.Preview(0, 0)
	return a.loop()
}
