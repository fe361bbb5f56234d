// Package cli holds the flag and environment handling shared by the
// commands.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/yookoala/seabattle/comms"
	"github.com/yookoala/seabattle/match"
)

// Options common to every command.
type Options struct {
	Name      string
	Join      string
	Port      int
	Transport string
	WSPath    string
	LogFile   string
	Verbose   bool
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Parse registers the common flags on fs and parses args. Flags fall back
// to SEABATTLE_* environment variables, then to built-in defaults.
func Parse(fs *flag.FlagSet, args []string, defaultName string) (Options, error) {
	var o Options

	port, err := strconv.Atoi(getenv("SEABATTLE_PORT", strconv.Itoa(match.DefaultPort)))
	if err != nil {
		return o, fmt.Errorf("SEABATTLE_PORT: %w", err)
	}

	fs.StringVar(&o.Name, "name", getenv("SEABATTLE_NAME", defaultName), "player name shown to the opponent")
	fs.StringVar(&o.Join, "join", getenv("SEABATTLE_JOIN", ""), "host to join; host a game when empty")
	fs.IntVar(&o.Port, "port", port, "port to host on or join")
	fs.StringVar(&o.Transport, "transport", getenv("SEABATTLE_TRANSPORT", "tcp"), "transport: tcp or ws")
	fs.StringVar(&o.WSPath, "ws-path", getenv("SEABATTLE_WS_PATH", comms.DefaultWebSocketPath), "websocket endpoint path")
	fs.StringVar(&o.LogFile, "log", getenv("SEABATTLE_LOG", ""), "log file")
	fs.BoolVar(&o.Verbose, "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.Port < 0 || o.Port > 65535 {
		return o, fmt.Errorf("invalid port: %d", o.Port)
	}
	if _, err := o.MatchTransport(); err != nil {
		return o, err
	}
	return o, nil
}

// MatchTransport returns the transport selected by -transport.
func (o Options) MatchTransport() (comms.Transport, error) {
	switch o.Transport {
	case "tcp", "":
		return comms.TCP(), nil
	case "ws", "websocket":
		return comms.WebSocket(o.WSPath), nil
	default:
		return nil, fmt.Errorf("unknown transport: %q", o.Transport)
	}
}

// Logger creates a text logger writing to w.
func (o Options) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// OpenLog opens the -log file for appending, or returns fallback when no
// file was given. The returned close function is never nil.
func (o Options) OpenLog(fallback io.Writer) (io.Writer, func() error, error) {
	if o.LogFile == "" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return f, f.Close, nil
}
