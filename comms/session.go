package comms

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"sync"

	"github.com/google/uuid"
)

// MessageReader reads a message from an io.Reader
type MessageReader interface {
	ReadMessage() (*Message, error)
}

// messageReader is the default implementation of MessageReader
type messageReader struct {
	r *bufio.Reader
}

// NewMessageReader creates a new MessageReader.
//
// Records are terminated by '\n'. A record may arrive split over several
// reads, and several records may arrive in one read. A record that fails to
// decode is reported as a *DecodeError and the reader stays usable.
func NewMessageReader(r io.Reader) MessageReader {
	return &messageReader{r: bufio.NewReader(r)}
}

// ReadMessage reads a message from the reader
func (mr *messageReader) ReadMessage() (*Message, error) {
	for {
		b, err := mr.r.ReadBytes('\n')
		if err != nil {
			// An unterminated trailing record is discarded.
			return nil, err
		}
		b = bytes.TrimRight(b, "\r\n")
		if len(bytes.TrimSpace(b)) == 0 {
			continue
		}
		return Decode(b)
	}
}

// MessageWriter writes a message to an io.Writer
type MessageWriter interface {
	WriteMessage(*Message) error
}

// messageWriter is the default implementation of MessageWriter
type messageWriter struct {
	lock    sync.Mutex
	encoder *json.Encoder
}

// NewMessageWriter creates a new MessageWriter. Each message is written as
// a single record; concurrent writers never interleave.
func NewMessageWriter(w io.Writer) MessageWriter {
	return &messageWriter{encoder: json.NewEncoder(w)}
}

// WriteMessage writes a message to the writer
func (mw *messageWriter) WriteMessage(m *Message) error {
	mw.lock.Lock()
	defer mw.lock.Unlock()
	return mw.encoder.Encode(m)
}

// Session represents a connection session
type Session struct {
	id   string
	conn io.ReadWriteCloser

	mr MessageReader
	mw MessageWriter

	closeOnce sync.Once
	closeErr  error
}

// NewSession creates a new Session with a fresh ID.
func NewSession(conn io.ReadWriteCloser) *Session {
	return &Session{
		id:   uuid.NewString(),
		conn: conn,
		mr:   NewMessageReader(conn),
		mw:   NewMessageWriter(conn),
	}
}

// ID returns the session ID
func (s *Session) ID() string {
	return s.id
}

// ReadMessage reads a message from the session
func (s *Session) ReadMessage() (*Message, error) {
	return s.mr.ReadMessage()
}

// WriteMessage writes a message to the session
func (s *Session) WriteMessage(m *Message) error {
	return s.mw.WriteMessage(m)
}

// Close closes the underlying connection. Only the first call has any
// effect; later calls return the same result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
