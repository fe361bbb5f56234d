package comms

import (
	"context"
	"fmt"
	"io"
	"net"
)

// MessageHandler handles a message received on a connection. Replies are
// written to out.
type MessageHandler interface {
	HandleMessage(ctx context.Context, m *Message, out MessageWriter) error
}

// MessageHandlerFunc is an adapter to allow the use of ordinary functions
// as MessageHandlers.
type MessageHandlerFunc func(ctx context.Context, m *Message, out MessageWriter) error

// HandleMessage calls the underlying function.
// Implements MessageHandler interface.
func (f MessageHandlerFunc) HandleMessage(ctx context.Context, m *Message, out MessageWriter) error {
	return f(ctx, m, out)
}

// Transport creates byte streams between the two peers.
type Transport interface {
	// Listen binds address and returns an Acceptor for the host side.
	Listen(ctx context.Context, address string) (Acceptor, error)

	// Dial connects to a host.
	Dial(ctx context.Context, address string) (io.ReadWriteCloser, error)
}

// Acceptor waits for the single peer of a hosted game.
type Acceptor interface {
	// Addr is the bound address. Useful when listening on port 0.
	Addr() net.Addr

	// AcceptOne blocks until a peer connects, the acceptor is closed or ctx
	// is done. The caller closes the Acceptor once it has its peer.
	AcceptOne(ctx context.Context) (io.ReadWriteCloser, error)

	Close() error
}

type tcpTransport struct{}

// TCP returns the raw socket transport.
func TCP() Transport {
	return tcpTransport{}
}

// Listen implements Transport.
func (tcpTransport) Listen(ctx context.Context, address string) (Acceptor, error) {
	l, err := (&net.ListenConfig{}).Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", address, err)
	}
	GetLogger(ctx).Info("start listening", "address", l.Addr().String())
	return &tcpAcceptor{l: l}, nil
}

type tcpAcceptor struct {
	l net.Listener
}

func (a *tcpAcceptor) Addr() net.Addr {
	return a.l.Addr()
}

func (a *tcpAcceptor) AcceptOne(ctx context.Context) (io.ReadWriteCloser, error) {
	stop := context.AfterFunc(ctx, func() {
		a.l.Close()
	})
	defer stop()

	conn, err := a.l.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("accept: %w", err)
	}
	GetLogger(ctx).Info("peer connected", "remote", conn.RemoteAddr().String())
	return conn, nil
}

func (a *tcpAcceptor) Close() error {
	return a.l.Close()
}
