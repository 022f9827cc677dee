// If you are AI: This file implements one publisher session.
// Connect handshake, frame loop, conflict close and protocol-error tolerance.

package ingest

import (
	"errors"
	"fmt"
	"net"

	log "github.com/sirupsen/logrus"

	"github.com/sgasse/infercam/internal/core/bus"
	"github.com/sgasse/infercam/internal/core/meter"
	"github.com/sgasse/infercam/internal/core/protocol/wire"
)

// Session handles one publisher connection.
//
// The first message must be a ConnectRequest naming the channel. Every
// FrameMessage after that is published to the router. Malformed payloads and
// mismatched frame ids are dropped and counted; only transport errors and a
// publisher conflict end the session.
type Session struct {
	conn   net.Conn
	router *bus.Router
	meter  *meter.Meter
}

// NewSession creates a session over an accepted connection.
func NewSession(conn net.Conn, router *bus.Router, m *meter.Meter) *Session {
	return &Session{conn: conn, router: router, meter: m}
}

// Run drives the session to completion. The connection is closed on return.
//
// The session holds no locks while reading from the socket; the router takes
// its own short locks during publish.
func (s *Session) Run() error {
	defer s.conn.Close()

	reader := wire.NewReader(s.conn)

	msg, err := reader.ReadMessage()
	if err != nil {
		return fmt.Errorf("read connect message: %w", err)
	}
	connect, ok := msg.(*wire.ConnectRequest)
	if !ok {
		if s.meter != nil {
			s.meter.TickProtocolError()
		}
		return errors.New("first message is not a connect request")
	}

	guard, err := s.router.RegisterPublisher(connect.Name)
	if err != nil {
		// The peer learns about the conflict by the close right after its
		// connect message.
		return fmt.Errorf("register publisher for %q: %w", connect.Name, err)
	}
	defer guard.Release()

	log.Infof("Publisher connected for channel %q from %s", connect.Name, s.conn.RemoteAddr())
	defer log.Infof("Publisher for channel %q gone", connect.Name)

	for {
		msg, err := reader.ReadMessage()
		switch {
		case err == nil:
		case errors.Is(err, wire.ErrMalformedPayload):
			// Recoverable: the frame boundary is intact, read on.
			if s.meter != nil {
				s.meter.TickProtocolError()
			}
			continue
		default:
			// Transport error or peer disconnect.
			return err
		}

		frame, ok := msg.(*wire.FrameMessage)
		if !ok {
			if s.meter != nil {
				s.meter.TickProtocolError()
			}
			continue
		}
		if frame.ID != connect.Name {
			if s.meter != nil {
				s.meter.TickProtocolError()
			}
			continue
		}

		s.router.Publish(connect.Name, frame.Data)
	}
}

// Close terminates the session by closing its connection.
func (s *Session) Close() {
	s.conn.Close()
}
