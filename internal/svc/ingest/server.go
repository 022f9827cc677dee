// If you are AI: This file implements the TCP listener for frame publishers.
// One session goroutine per accepted connection.

package ingest

import (
	"net"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/sgasse/infercam/internal/core/bus"
	"github.com/sgasse/infercam/internal/core/meter"
)

// Server accepts publisher connections and runs a session per connection.
type Server struct {
	router *bus.Router
	meter  *meter.Meter

	mu       sync.Mutex
	listener net.Listener
	sessions map[*Session]struct{}
	closed   bool
	wg       sync.WaitGroup
}

// NewServer creates a publisher ingest server.
func NewServer(router *bus.Router, m *meter.Meter) *Server {
	return &Server{
		router:   router,
		meter:    m,
		sessions: make(map[*Session]struct{}),
	}
}

// Listen starts listening on the specified address.
func (s *Server) Listen(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	return nil
}

// Addr returns the bound listener address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Accept runs the accept loop until the listener is closed.
func (s *Server) Accept() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return nil
			}
			return err
		}
		s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	session := NewSession(conn, s.router, s.meter)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.sessions[session] = struct{}{}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := session.Run(); err != nil {
			log.Debugf("Publisher session ended: %v", err)
		}
		s.mu.Lock()
		delete(s.sessions, session)
		s.mu.Unlock()
	}()
}

// Close stops accepting, closes all live sessions and waits for them.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for session := range s.sessions {
		session.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

// SessionCount returns the number of live publisher sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
