package comms_test

import (
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yookoala/seabattle/comms"
)

// recorder is a MessageHandler collecting everything it receives.
type recorder struct {
	lock     sync.Mutex
	messages []*comms.Message
}

func (r *recorder) HandleMessage(ctx context.Context, m *comms.Message, out comms.MessageWriter) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.messages = append(r.messages, m)
	return nil
}

func (r *recorder) received() []*comms.Message {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]*comms.Message(nil), r.messages...)
}

func TestConnection_HandlerReplies(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	echo := comms.MessageHandlerFunc(func(ctx context.Context, m *comms.Message, out comms.MessageWriter) error {
		assert.NotEmpty(t, comms.GetSessionID(ctx))
		if m.Kind == comms.KindPing {
			return out.WriteMessage(comms.NewPong(m.Data))
		}
		return nil
	})
	conn := comms.NewConnection(local, echo, 0)
	conn.Start(context.Background())
	defer conn.Disconnect()

	peer := comms.NewSession(remote)
	require.NoError(t, peer.WriteMessage(comms.NewPing("abc")))
	m, err := peer.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, comms.NewPong("abc"), m)
}

func TestConnection_SendOrder(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	conn := comms.NewConnection(local, &recorder{}, 128)
	conn.Start(context.Background())
	defer conn.Disconnect()

	for i := 0; i < 100; i++ {
		conn.Send(comms.NewShot(i%10, i/10))
	}

	peer := comms.NewSession(remote)
	for i := 0; i < 100; i++ {
		m, err := peer.ReadMessage()
		require.NoError(t, err)
		require.Equal(t, comms.NewShot(i%10, i/10), m)
	}
}

func TestConnection_SkipsMalformed(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	rec := &recorder{}
	conn := comms.NewConnection(local, rec, 0)
	conn.Start(context.Background())
	defer conn.Disconnect()

	_, err := io.WriteString(remote, "garbage\n{\"kind\":\"nope\"}\n{\"kind\":\"ready\"}\n")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(rec.received()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, comms.KindReady, rec.received()[0].Kind)
	assert.NoError(t, conn.Err(), "connection survives bad records")
}

func TestConnection_PeerCloseCallsBackOnce(t *testing.T) {
	local, remote := net.Pipe()

	var calls atomic.Int32
	var reason atomic.Value
	conn := comms.NewConnection(local, &recorder{}, 0).OnDisconnect(func(c *comms.Connection, err error) {
		calls.Add(1)
		reason.Store(err)
	})
	conn.Start(context.Background())

	require.NoError(t, remote.Close())

	select {
	case <-conn.Done():
	case <-time.After(time.Second):
		t.Fatal("connection did not notice the peer going away")
	}
	conn.Disconnect()
	conn.Disconnect()
	conn.Send(comms.NewReady())

	assert.Equal(t, int32(1), calls.Load())
	assert.ErrorIs(t, reason.Load().(error), io.EOF)
	assert.ErrorIs(t, conn.WriteMessage(comms.NewReady()), comms.ErrConnectionClosed)
}

func TestConnection_LocalDisconnect(t *testing.T) {
	local, remote := net.Pipe()

	var calls atomic.Int32
	conn := comms.NewConnection(local, &recorder{}, 0).OnDisconnect(func(c *comms.Connection, err error) {
		calls.Add(1)
		assert.ErrorIs(t, err, comms.ErrConnectionClosed)
	})
	conn.Start(context.Background())

	conn.Disconnect()
	conn.Disconnect()
	assert.Equal(t, int32(1), calls.Load())
	assert.ErrorIs(t, conn.Err(), comms.ErrConnectionClosed)

	// The peer sees the socket close.
	_, err := comms.NewSession(remote).ReadMessage()
	assert.ErrorIs(t, err, io.EOF)
}

func TestConnection_ContextCancel(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	ctx, cancel := context.WithCancel(context.Background())
	conn := comms.NewConnection(local, &recorder{}, 0)
	conn.Start(ctx)
	cancel()

	require.Eventually(t, func() bool { return conn.Err() != nil }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, conn.Err(), context.Canceled)
}

// A peer that never reads eventually overflows the queue.
func TestConnection_QueueOverflow(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()

	conn := comms.NewConnection(local, &recorder{}, 1)
	conn.Start(context.Background())

	for i := 0; i < 10; i++ {
		conn.Send(comms.NewChat("are you there?"))
	}
	require.Eventually(t, func() bool { return conn.Err() != nil }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, conn.Err(), comms.ErrSendQueueFull)
}
