package comms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// DefaultSendQueue is the number of outbound messages a Connection buffers
// before it considers the peer stuck.
const DefaultSendQueue = 64

var (
	// ErrConnectionClosed is the disconnect reason for a local Disconnect,
	// and is returned by WriteMessage once the connection is down.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrSendQueueFull is the disconnect reason when the peer stops
	// draining messages.
	ErrSendQueueFull = errors.New("send queue full")
)

// Connection drives one Session: a receive loop hands every decoded
// message to the MessageHandler in arrival order, and a writer loop sends
// queued messages in the order they were queued.
//
// The first failure (read error, peer EOF, write error, overflowing queue,
// cancelled context or a local Disconnect) closes the socket and invokes
// the disconnect callback exactly once.
type Connection struct {
	sess    *Session
	handler MessageHandler
	out     chan *Message

	done         chan struct{}
	once         sync.Once
	err          error
	onDisconnect func(*Connection, error)

	logger *slog.Logger
}

// NewConnection wraps conn. Nothing is read or written until Start.
func NewConnection(conn io.ReadWriteCloser, h MessageHandler, queueSize int) *Connection {
	if queueSize <= 0 {
		queueSize = DefaultSendQueue
	}
	return &Connection{
		sess:    NewSession(conn),
		handler: h,
		out:     make(chan *Message, queueSize),
		done:    make(chan struct{}),
		logger:  slog.Default(),
	}
}

// OnDisconnect sets the callback invoked when the connection goes down.
// It must be set before Start. The callback runs on whichever goroutine
// noticed the failure and must not block on the connection.
func (c *Connection) OnDisconnect(f func(*Connection, error)) *Connection {
	c.onDisconnect = f
	return c
}

// ID returns the ID of the underlying session.
func (c *Connection) ID() string {
	return c.sess.ID()
}

// Start launches the receive and writer loops. Cancelling ctx disconnects.
func (c *Connection) Start(ctx context.Context) {
	ctx = WithSessionID(ctx, c.sess.ID())
	c.logger = GetLogger(ctx).With("session", c.sess.ID())
	ctx = WithLogger(ctx, c.logger)

	go c.readLoop(ctx)
	go c.writeLoop()
	go func() {
		select {
		case <-ctx.Done():
			c.shutdown(ctx.Err())
		case <-c.done:
		}
	}()
}

func (c *Connection) readLoop(ctx context.Context) {
	for {
		m, err := c.sess.ReadMessage()
		if err != nil {
			var de *DecodeError
			if errors.As(err, &de) {
				c.logger.Warn("dropping malformed record", "error", de.Err, "record", string(de.Record))
				continue
			}
			if errors.Is(err, io.EOF) {
				c.logger.Info("peer closed the connection")
			}
			c.shutdown(err)
			return
		}

		select {
		case <-c.done:
			return
		default:
		}

		c.logger.Debug("received", "message", m)
		if err := c.handler.HandleMessage(ctx, m, c); err != nil {
			c.logger.Warn("error handling message", "kind", m.Kind, "error", err)
		}
	}
}

func (c *Connection) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case m := <-c.out:
			if err := c.sess.WriteMessage(m); err != nil {
				c.shutdown(fmt.Errorf("write %s: %w", m.Kind, err))
				return
			}
			c.logger.Debug("sent", "message", m)
		}
	}
}

// Send queues m for delivery and returns immediately. Messages sent on a
// closed connection are dropped; a full queue disconnects.
func (c *Connection) Send(m *Message) {
	select {
	case <-c.done:
		c.logger.Debug("dropping message on closed connection", "kind", m.Kind)
		return
	default:
	}

	select {
	case c.out <- m:
	case <-c.done:
	default:
		c.shutdown(ErrSendQueueFull)
	}
}

// WriteMessage queues m like Send. It implements MessageWriter so a
// Connection can be handed to a MessageHandler.
func (c *Connection) WriteMessage(m *Message) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}
	c.Send(m)
	return nil
}

// Disconnect closes the connection. It is safe to call more than once.
func (c *Connection) Disconnect() {
	c.shutdown(ErrConnectionClosed)
}

// Done is closed once the connection is down.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Err returns the reason the connection went down, or nil while it is up.
func (c *Connection) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

func (c *Connection) shutdown(reason error) {
	c.once.Do(func() {
		c.err = reason
		close(c.done)
		if err := c.sess.Close(); err != nil {
			c.logger.Debug("error closing session", "error", err)
		}
		c.logger.Info("connection closed", "reason", reason)
		if c.onDisconnect != nil {
			c.onDisconnect(c, reason)
		}
	})
}
