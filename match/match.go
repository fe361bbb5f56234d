// Package match runs one side of a two-player game: it owns both boards
// and the turn state, talks to the opponent through a comms.Connection and
// reports to a UI.
package match

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/yookoala/seabattle/comms"
	"github.com/yookoala/seabattle/game"
)

// Match is one side of a game. It is safe for concurrent use; every
// operation is serialised onto a single goroutine.
type Match struct {
	cfg    Config
	ui     UI
	id     string
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	events    chan func()
	done      chan struct{}
	closeOnce sync.Once
	view      atomic.Pointer[View]

	// Everything below is owned by the match goroutine.
	conn     *comms.Connection
	acceptor comms.Acceptor
	host     bool

	opponentName string
	phase        game.Phase
	own          *game.Board
	shadow       *game.Board
	direction    game.ShipDirection
	hover        *[2]int

	ready         bool
	opponentReady bool
	pending       *[2]int
	opponentSunk  int
	sunk          []game.Ship

	wins   int
	losses int
	status string
	pings  map[string]time.Time
}

// New creates a Match in the Placement phase and starts its goroutine.
// Call Close to release it.
func New(cfg Config, ui UI) *Match {
	cfg = cfg.withDefaults()
	id := uuid.NewString()
	m := &Match{
		cfg:    cfg,
		ui:     ui,
		id:     id,
		logger: cfg.Logger.With("match", id),
		events: make(chan func(), 16),
		done:   make(chan struct{}),
		own:    game.NewBoard(),
		shadow: game.NewShadowBoard(),
		pings:  make(map[string]time.Time),
	}
	m.ctx, m.cancel = context.WithCancel(comms.WithLogger(context.Background(), m.logger))
	m.status = fmt.Sprintf("Welcome, %s! Host or join a game.", cfg.Name)
	m.publish()
	go m.run()
	return m
}

// ID identifies the match in logs.
func (m *Match) ID() string {
	return m.id
}

func (m *Match) run() {
	for {
		select {
		case fn := <-m.events:
			fn()
		case <-m.done:
			return
		}
	}
}

// enqueue posts fn to the match goroutine without waiting for it to run.
func (m *Match) enqueue(fn func()) error {
	select {
	case m.events <- fn:
		return nil
	case <-m.done:
		return ErrClosed
	}
}

// do runs fn on the match goroutine and returns its error.
func (m *Match) do(fn func() error) error {
	result := make(chan error, 1)
	if err := m.enqueue(func() { result <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-m.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrClosed
		}
	}
}

// Close disconnects, stops hosting and stops the match goroutine. UI
// callbacks are not invoked for the disconnect.
func (m *Match) Close() error {
	m.closeOnce.Do(func() {
		_ = m.do(func() error {
			m.stopHosting()
			if c := m.conn; c != nil {
				m.conn = nil
				c.Disconnect()
			}
			return nil
		})
		m.cancel()
		close(m.done)
	})
	return nil
}

// Done is closed once the match is closed.
func (m *Match) Done() <-chan struct{} {
	return m.done
}

// Snapshot returns the latest published state. It never blocks on the
// match goroutine.
func (m *Match) Snapshot() View {
	return *m.view.Load()
}

// StartHosting listens on port and returns the bound address. The first
// opponent to connect is accepted in the background; the listener is
// closed afterwards. Port 0 picks a free port. ctx only bounds the bind.
func (m *Match) StartHosting(ctx context.Context, port int) (addr net.Addr, err error) {
	err = m.do(func() error {
		if m.conn != nil || m.acceptor != nil {
			return m.reject(ErrAlreadyConnected)
		}
		a, err := m.cfg.Transport.Listen(comms.WithLogger(ctx, m.logger), net.JoinHostPort("", strconv.Itoa(port)))
		if err != nil {
			m.setStatus(fmt.Sprintf("Could not host: %s", err))
			return err
		}
		m.acceptor = a
		addr = a.Addr()
		go m.accept(a)
		m.setStatus(fmt.Sprintf("Waiting for an opponent on %s...", addr))
		return nil
	})
	return
}

func (m *Match) accept(a comms.Acceptor) {
	rwc, err := a.AcceptOne(m.ctx)
	a.Close()

	posted := m.enqueue(func() {
		if m.acceptor != a {
			// Hosting was cancelled in the meantime.
			if rwc != nil {
				rwc.Close()
			}
			return
		}
		m.acceptor = nil
		if err != nil {
			m.logger.Warn("stopped hosting", "error", err)
			m.setStatus(fmt.Sprintf("Stopped hosting: %s", err))
			m.changed()
			return
		}
		m.attach(rwc, true)
	})
	if posted != nil && rwc != nil {
		rwc.Close()
	}
}

// StopHosting stops waiting for an opponent.
func (m *Match) StopHosting() error {
	return m.do(func() error {
		if m.acceptor == nil {
			return m.reject(ErrNotConnected)
		}
		m.stopHosting()
		m.setStatus("Stopped hosting.")
		m.changed()
		return nil
	})
}

func (m *Match) stopHosting() {
	if m.acceptor != nil {
		m.acceptor.Close()
		m.acceptor = nil
	}
}

// JoinGame connects to a host and introduces the local player. It returns
// once the connection is up.
func (m *Match) JoinGame(ctx context.Context, address string, port int) error {
	if err := m.do(func() error {
		if m.conn != nil || m.acceptor != nil {
			return m.reject(ErrAlreadyConnected)
		}
		m.setStatus(fmt.Sprintf("Connecting to %s...", address))
		return nil
	}); err != nil {
		return err
	}

	target := net.JoinHostPort(address, strconv.Itoa(port))
	rwc, err := m.cfg.Transport.Dial(comms.WithLogger(ctx, m.logger), target)
	if err != nil {
		_ = m.do(func() error {
			m.setStatus(fmt.Sprintf("Connection failed: %s", err))
			return nil
		})
		return fmt.Errorf("join %s: %w", target, err)
	}

	return m.do(func() error {
		if m.conn != nil {
			rwc.Close()
			return ErrAlreadyConnected
		}
		m.attach(rwc, false)
		return nil
	})
}

// attach wraps rwc in a Connection and makes it the current one.
func (m *Match) attach(rwc io.ReadWriteCloser, host bool) {
	var conn *comms.Connection
	conn = comms.NewConnection(rwc, comms.MessageHandlerFunc(
		func(ctx context.Context, msg *comms.Message, out comms.MessageWriter) error {
			return m.enqueue(func() { m.receive(conn, msg) })
		}), m.cfg.SendQueue)
	conn.OnDisconnect(func(c *comms.Connection, err error) {
		// May be called from the match goroutine itself.
		go m.enqueue(func() { m.lost(c, err) })
	})

	m.conn = conn
	m.host = host
	m.opponentName = ""
	conn.Start(m.ctx)
	m.logger.Info("connected", "host", host, "session", conn.ID())

	if host {
		m.setStatus("Opponent connected! Place your ships.")
	} else {
		conn.Send(comms.NewConnect(m.cfg.Name))
		m.setStatus("Connected! Place your ships.")
	}
	m.changed()
}

// Disconnect closes the connection to the opponent. The game ends.
func (m *Match) Disconnect() error {
	return m.do(func() error {
		if m.conn == nil {
			return m.reject(ErrNotConnected)
		}
		m.conn.Disconnect()
		return nil
	})
}

// PlaceShip places the next ship of the fleet with its origin at (x, y) in
// the current orientation.
func (m *Match) PlaceShip(x, y int) error {
	return m.do(func() error {
		if m.phase != game.PhasePlacement {
			return m.reject(ErrWrongPhase)
		}
		t, ok := m.cfg.Fleet.Next(m.own)
		if !ok {
			return m.reject(ErrFleetComplete)
		}
		s := game.NewShip(t, x, y, m.direction)
		if err := m.own.PlaceShip(s); err != nil {
			return m.reject(fmt.Errorf("cannot place %s: %w", s, err))
		}
		m.logger.Debug("ship placed", "ship", s.String())
		m.placementStatus()
		m.changed()
		return nil
	})
}

// RotateCurrentShip toggles the orientation of the next ship.
func (m *Match) RotateCurrentShip() error {
	return m.do(func() error {
		if m.phase != game.PhasePlacement {
			return m.reject(ErrWrongPhase)
		}
		m.direction = m.direction.Rotate()
		m.changed()
		return nil
	})
}

// Preview shows where the next ship would go with its origin at (x, y).
// A coordinate off the board clears the preview.
func (m *Match) Preview(x, y int) error {
	return m.do(func() error {
		if game.InBounds(x, y) {
			m.hover = &[2]int{x, y}
		} else {
			m.hover = nil
		}
		m.changed()
		return nil
	})
}

// ResetPlacement removes every ship placed so far.
func (m *Match) ResetPlacement() error {
	return m.do(func() error {
		if m.phase != game.PhasePlacement {
			return m.reject(ErrWrongPhase)
		}
		m.own.Reset()
		m.placementStatus()
		m.changed()
		return nil
	})
}

func (m *Match) placementStatus() {
	next, ok := m.cfg.Fleet.Next(m.own)
	switch {
	case ok:
		m.setStatus(fmt.Sprintf("Place: %s (%d)", next, next.Size()))
	case m.conn != nil:
		m.setStatus("All ships placed! Confirm ready to start.")
	default:
		m.setStatus("All ships placed! Waiting for a connection.")
	}
}

// ConfirmReady tells the opponent the fleet is in place.
func (m *Match) ConfirmReady() error {
	return m.do(func() error {
		if m.conn == nil {
			return m.reject(ErrNotConnected)
		}
		if m.phase != game.PhasePlacement {
			return m.reject(ErrWrongPhase)
		}
		if !m.cfg.Fleet.Complete(m.own) {
			return m.reject(ErrFleetIncomplete)
		}

		m.conn.Send(comms.NewReady())
		m.ready = true
		m.hover = nil
		m.transition(game.ReadySent())
		if m.opponentReady {
			m.transition(game.OpponentReady(m.host))
			m.turnStatus()
		} else {
			m.setStatus("Waiting for the opponent...")
		}
		m.changed()
		return nil
	})
}

// FireShot fires at (x, y) on the opponent's board. The result is applied
// when the opponent answers.
func (m *Match) FireShot(x, y int) error {
	return m.do(func() error {
		switch {
		case m.phase == game.PhaseOpponentTurn:
			return m.reject(ErrNotYourTurn)
		case m.phase != game.PhaseMyTurn:
			return m.reject(ErrWrongPhase)
		case m.pending != nil:
			return m.reject(ErrShotPending)
		case m.conn == nil:
			return m.reject(ErrNotConnected)
		}

		cell, ok := m.shadow.Cell(x, y)
		if !ok {
			return m.reject(fmt.Errorf("%w: %s", game.ErrOutOfBounds, game.CoordinateName(x, y)))
		}
		if !cell.Shootable() {
			return m.reject(fmt.Errorf("%w: %s", ErrCellResolved, game.CoordinateName(x, y)))
		}

		m.pending = &[2]int{x, y}
		m.conn.Send(comms.NewShot(x, y))
		m.setStatus(fmt.Sprintf("Firing at %s...", game.CoordinateName(x, y)))
		m.changed()
		return nil
	})
}

// Reset starts a new game on the same connection.
func (m *Match) Reset() error {
	return m.do(func() error {
		m.own.Reset()
		m.shadow.Reset()
		m.direction = game.ShipDirectionToRight
		m.hover = nil
		if m.phase.Playing() {
			// Abandoning a game in progress.
			m.opponentReady = false
		}
		m.phase = game.PhasePlacement
		m.ready = false
		m.pending = nil
		m.opponentSunk = 0
		m.sunk = nil
		clear(m.pings)
		next, _ := m.cfg.Fleet.Next(m.own)
		status := fmt.Sprintf("New game! Place: %s (%d)", next, next.Size())
		if m.opponentReady {
			status += fmt.Sprintf(" %s is already waiting.", m.opponent())
		}
		m.setStatus(status)
		m.changed()
		return nil
	})
}

// SendChat sends a line of text to the opponent.
func (m *Match) SendChat(text string) error {
	return m.do(func() error {
		if m.conn == nil {
			return m.reject(ErrNotConnected)
		}
		m.conn.Send(comms.NewChat(text))
		m.setStatus(fmt.Sprintf("%s: %s", m.cfg.Name, text))
		return nil
	})
}

// pingTimeout is how long an unanswered ping is remembered.
const pingTimeout = 30 * time.Second

// Ping measures the round trip to the opponent. The result is reported as
// a status message.
func (m *Match) Ping() error {
	return m.do(func() error {
		if m.conn == nil {
			return m.reject(ErrNotConnected)
		}
		now := time.Now()
		for token, sent := range m.pings {
			if now.Sub(sent) > pingTimeout {
				delete(m.pings, token)
			}
		}
		token := strconv.FormatInt(now.UnixNano(), 36)
		m.pings[token] = now
		m.conn.Send(comms.NewPing(token))
		return nil
	})
}

func (m *Match) transition(e game.Event) {
	from := m.phase
	m.phase = game.NextPhase(m.phase, e)
	if from != m.phase {
		m.logger.Debug("phase changed", "from", from, "to", m.phase, "event", e.Kind)
	}
}

func (m *Match) turnStatus() {
	switch m.phase {
	case game.PhaseMyTurn:
		m.setStatus("Your turn! Fire at the opponent's board.")
	case game.PhaseOpponentTurn:
		m.setStatus(fmt.Sprintf("%s's turn...", m.opponent()))
	}
}

func (m *Match) opponent() string {
	if m.opponentName == "" {
		return "Opponent"
	}
	return m.opponentName
}

// reject reports a local validation error and returns it.
func (m *Match) reject(err error) error {
	m.logger.Debug("rejected", "error", err)
	m.setStatus(err.Error())
	return err
}

func (m *Match) setStatus(text string) {
	m.status = text
	m.publish()
	m.ui.OnStatusMessage(text)
}

func (m *Match) changed() {
	m.publish()
	m.ui.OnBoardChanged()
}

func (m *Match) publish() {
	next, _ := m.cfg.Fleet.Next(m.own)
	v := &View{
		ID:                     m.id,
		Phase:                  m.phase,
		Host:                   m.host,
		Hosting:                m.acceptor != nil,
		Connected:              m.conn != nil,
		Name:                   m.cfg.Name,
		OpponentName:           m.opponentName,
		Own:                    m.own.Clone(),
		Shadow:                 m.shadow.Clone(),
		NextShip:               next,
		FleetComplete:          m.cfg.Fleet.Complete(m.own),
		Direction:              m.direction,
		Ready:                  m.ready,
		OpponentReady:          m.opponentReady,
		ShotPending:            m.pending != nil,
		ShipsRemaining:         m.own.ShipsRemaining(),
		OpponentShipsRemaining: m.cfg.Fleet.Len() - m.opponentSunk,
		SunkShips:              append([]game.Ship(nil), m.sunk...),
		Wins:                   m.wins,
		Losses:                 m.losses,
		Status:                 m.status,
	}
	if m.hover != nil && m.phase == game.PhasePlacement && next != game.ShipUndefined {
		v.Preview, v.PreviewValid = game.PreviewPlacement(m.own, next, m.hover[0], m.hover[1], m.direction)
	}
	m.view.Store(v)
}
