package comms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// DefaultWebSocketPath is the endpoint a WebSocket host serves the game on.
const DefaultWebSocketPath = "/play"

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type wsTransport struct {
	path string
}

// WebSocket returns a transport that carries the same line records inside
// WebSocket text frames, served at path.
func WebSocket(path string) Transport {
	if path == "" {
		path = DefaultWebSocketPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return wsTransport{path: path}
}

// Listen implements Transport.
func (t wsTransport) Listen(ctx context.Context, address string) (Acceptor, error) {
	l, err := (&net.ListenConfig{}).Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", address, err)
	}

	logger := GetLogger(ctx)
	a := &wsAcceptor{
		l:        l,
		accepted: make(chan *websocket.Conn, 1),
		closed:   make(chan struct{}),
	}

	router := mux.NewRouter()
	router.HandleFunc(t.path, a.handleUpgrade).Methods(http.MethodGet)
	a.srv = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := a.srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("websocket server stopped", "error", err)
		}
	}()

	logger.Info("start listening", "address", l.Addr().String(), "path", t.path)
	return a, nil
}

// Dial implements Transport. address is host:port, or a full ws:// URL.
func (t wsTransport) Dial(ctx context.Context, address string) (io.ReadWriteCloser, error) {
	url := address
	if !strings.HasPrefix(url, "ws://") && !strings.HasPrefix(url, "wss://") {
		url = "ws://" + address + t.path
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %s)", url, err, resp.Status)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	GetLogger(ctx).Info("connected", "remote", url)
	return newWSConn(conn), nil
}

type wsAcceptor struct {
	l   net.Listener
	srv *http.Server

	lock     sync.Mutex
	taken    bool
	accepted chan *websocket.Conn

	closeOnce sync.Once
	closed    chan struct{}
}

// handleUpgrade upgrades the first request; everyone after that is told
// the game is taken.
func (a *wsAcceptor) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	a.lock.Lock()
	if a.taken {
		a.lock.Unlock()
		http.Error(w, "game already has a challenger", http.StatusConflict)
		return
	}
	a.taken = true
	a.lock.Unlock()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		a.lock.Lock()
		a.taken = false
		a.lock.Unlock()
		return
	}
	a.accepted <- conn
}

func (a *wsAcceptor) Addr() net.Addr {
	return a.l.Addr()
}

func (a *wsAcceptor) AcceptOne(ctx context.Context) (io.ReadWriteCloser, error) {
	select {
	case conn := <-a.accepted:
		GetLogger(ctx).Info("peer connected", "remote", conn.RemoteAddr().String())
		return newWSConn(conn), nil
	case <-a.closed:
		return nil, fmt.Errorf("accept: %w", net.ErrClosed)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the HTTP server. A peer already handed out by AcceptOne is
// not affected.
func (a *wsAcceptor) Close() (err error) {
	a.closeOnce.Do(func() {
		close(a.closed)
		err = a.srv.Close()
		select {
		case conn := <-a.accepted:
			conn.Close()
		default:
		}
	})
	return
}

// wsConn presents a websocket connection as a byte stream. Each Write is
// sent as one text frame; reads run across frame boundaries.
type wsConn struct {
	conn *websocket.Conn
	r    io.Reader

	wlock sync.Mutex
}

func newWSConn(conn *websocket.Conn) *wsConn {
	return &wsConn{conn: conn}
}

func (c *wsConn) Read(p []byte) (int, error) {
	for {
		if c.r == nil {
			_, r, err := c.conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, err
			}
			c.r = r
		}
		n, err := c.r.Read(p)
		if errors.Is(err, io.EOF) {
			c.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (c *wsConn) Write(p []byte) (int, error) {
	c.wlock.Lock()
	defer c.wlock.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.conn.Close()
}
