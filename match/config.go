package match

import (
	"log/slog"

	"github.com/yookoala/seabattle/comms"
	"github.com/yookoala/seabattle/game"
)

// DefaultPort is the well-known port a host listens on.
const DefaultPort = 5000

// DefaultName is used when the player does not give one.
const DefaultName = "Player"

// Config configures a Match. The zero value is usable.
type Config struct {
	// Name is shown to the opponent.
	Name string

	// Transport used to host and join. Defaults to comms.TCP().
	Transport comms.Transport

	Logger *slog.Logger

	// SendQueue is the outbound message buffer of the connection.
	SendQueue int

	// Fleet each player places. Defaults to game.StandardFleet.
	Fleet game.Fleet
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Transport == nil {
		c.Transport = comms.TCP()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.SendQueue <= 0 {
		c.SendQueue = comms.DefaultSendQueue
	}
	if len(c.Fleet) == 0 {
		c.Fleet = game.StandardFleet
	}
	return c
}
