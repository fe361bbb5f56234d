package comms

import (
	"encoding/json"
	"fmt"

	"github.com/yookoala/seabattle/game"
)

// Kind is the type of a message on the wire.
type Kind string

const (
	KindConnect    Kind = "connect"
	KindConnectAck Kind = "connect_ack"
	KindReady      Kind = "ready"
	KindShot       Kind = "shot"
	KindShotResult Kind = "shot_result"
	KindShipSunk   Kind = "ship_sunk"
	KindGameOver   Kind = "game_over"
	KindChat       Kind = "chat"
	KindPing       Kind = "ping"
	KindPong       Kind = "pong"
)

// IsValid reports whether k is a kind this protocol understands.
func (k Kind) IsValid() bool {
	switch k {
	case KindConnect, KindConnectAck, KindReady, KindShot, KindShotResult,
		KindShipSunk, KindGameOver, KindChat, KindPing, KindPong:
		return true
	}
	return false
}

// Result tags carried by a game_over message, from the sender's point of
// view.
const (
	ResultLost = "lost"
	ResultWon  = "won"
)

// Message is a single protocol record exchanged between the two peers.
// Fields a kind does not use are left at their zero value.
type Message struct {
	Kind    Kind
	X       int
	Y       int
	Outcome game.Outcome

	// Name is the sender's display name (connect, connect_ack).
	Name string

	// Data is free text: chat body, sunk ship type, game over tag or ping
	// token.
	Data string
}

// jsonMessage is the JSON representation of the message struct
// for read-write to and from JSON
type jsonMessage struct {
	Kind    Kind          `json:"kind"`
	X       int           `json:"x"`
	Y       int           `json:"y"`
	Outcome *game.Outcome `json:"outcome,omitempty"`
	Name    string        `json:"name,omitempty"`
	Data    string        `json:"data,omitempty"`
}

// String returns the string representation of the message
func (m *Message) String() string {
	b, err := m.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%s: %s>", m.Kind, err)
	}
	return string(b)
}

// MarshalJSON marshals the message into JSON data
func (m *Message) MarshalJSON() ([]byte, error) {
	v := jsonMessage{
		Kind: m.Kind,
		X:    m.X,
		Y:    m.Y,
		Name: m.Name,
		Data: m.Data,
	}
	if m.Kind == KindShotResult {
		o := m.Outcome
		v.Outcome = &o
	}
	return json.Marshal(&v)
}

// UnmarshalJSON unmarshals the JSON data into the message
func (m *Message) UnmarshalJSON(b []byte) (err error) {
	v := jsonMessage{}
	if err = json.Unmarshal(b, &v); err != nil {
		return
	}
	if !v.Kind.IsValid() {
		return fmt.Errorf("unknown message kind: %q", v.Kind)
	}

	*m = Message{
		Kind: v.Kind,
		X:    v.X,
		Y:    v.Y,
		Name: v.Name,
		Data: v.Data,
	}
	if v.Outcome != nil {
		m.Outcome = *v.Outcome
	}
	return
}

// DecodeError is returned for a record that could not be decoded. The
// stream itself is still usable.
type DecodeError struct {
	Record []byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error decoding record: %s, JSON: %s", e.Err, e.Record)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode parses one record, without its line terminator.
func Decode(b []byte) (*Message, error) {
	m := &Message{}
	if err := m.UnmarshalJSON(b); err != nil {
		return nil, &DecodeError{Record: b, Err: err}
	}
	return m, nil
}

// MustDecode is like Decode but panics on error. For tests and fixtures.
func MustDecode(s string) *Message {
	m, err := Decode([]byte(s))
	if err != nil {
		panic(err)
	}
	return m
}

// NewConnect creates the joiner's opening message.
func NewConnect(name string) *Message {
	return &Message{Kind: KindConnect, Name: name}
}

// NewConnectAck creates the host's reply to connect.
func NewConnectAck(name string) *Message {
	return &Message{Kind: KindConnectAck, Name: name}
}

func NewReady() *Message {
	return &Message{Kind: KindReady}
}

func NewShot(x, y int) *Message {
	return &Message{Kind: KindShot, X: x, Y: y}
}

func NewShotResult(x, y int, o game.Outcome) *Message {
	return &Message{Kind: KindShotResult, X: x, Y: y, Outcome: o}
}

// NewShipSunk announces a sunk ship by type and origin.
func NewShipSunk(s *game.Ship) *Message {
	return &Message{
		Kind: KindShipSunk,
		X:    s.Origin[0],
		Y:    s.Origin[1],
		Data: s.Type.String(),
	}
}

// NewGameOver creates a game over message. The tag is ResultLost or
// ResultWon.
func NewGameOver(tag string) *Message {
	return &Message{Kind: KindGameOver, Data: tag}
}

func NewChat(text string) *Message {
	return &Message{Kind: KindChat, Data: text}
}

// NewPing creates a ping carrying an opaque token that the peer echoes back.
func NewPing(token string) *Message {
	return &Message{Kind: KindPing, Data: token}
}

func NewPong(token string) *Message {
	return &Message{Kind: KindPong, Data: token}
}
