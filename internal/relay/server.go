package relay

import (
	"encoding/binary"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/codec"
	"main/pkg/uds"
)

// Handler consumes events read off a relay connection.
type Handler func(bus.Event)

// Server accepts relay connections and feeds decoded events to a handler.
// Events from one connection arrive in write order; ordering across
// connections is unspecified.
type Server struct {
	srv     *uds.Server
	handler Handler

	running atomic.Bool
	wg      sync.WaitGroup

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// NewServer creates a relay server for the given socket path.
func NewServer(path string) (*Server, error) {
	srv, err := uds.NewServer(path)
	if err != nil {
		return nil, err
	}
	return &Server{
		srv:   srv,
		conns: make(map[net.Conn]struct{}),
	}, nil
}

// Path returns the socket path.
func (s *Server) Path() string {
	return s.srv.Path()
}

// Start binds the socket and spawns the accept loop. Returns false when
// already running and an error when the bind fails.
func (s *Server) Start(handler Handler) (bool, error) {
	if !s.running.CompareAndSwap(false, true) {
		return false, nil
	}
	s.handler = handler

	if err := s.srv.Listen(); err != nil {
		s.running.Store(false)
		return false, err
	}

	s.wg.Add(1)
	go s.acceptLoop()
	return true, nil
}

// Stop closes the listener and every live connection, then waits for the
// readers to exit. Idempotent.
func (s *Server) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	_ = s.srv.Close()

	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.srv.Accept()
		if err != nil {
			if !s.running.Load() {
				return
			}
			logs.Errorf("relay accept, err: %+v", err)
			continue
		}

		s.mu.Lock()
		if !s.running.Load() {
			s.mu.Unlock()
			_ = conn.Close()
			return
		}
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
		s.wg.Done()
	}()

	header := make([]byte, frameHeaderSize)
	payload := make([]byte, 0, codec.TickPayloadSize)
	for {
		if _, err := io.ReadFull(conn, header[:4]); err != nil {
			if s.running.Load() && err != io.EOF {
				logs.Errorf("relay read length, err: %+v", err)
			}
			return
		}
		length := binary.LittleEndian.Uint32(header[:4])
		if length < 2 || length > maxFrameSize {
			logs.Errorf("relay dropped malformed frame, length=%d", length)
			return
		}
		if _, err := io.ReadFull(conn, header[4:6]); err != nil {
			return
		}

		payloadLen := int(length) - 2
		if cap(payload) < payloadLen {
			payload = make([]byte, payloadLen)
		}
		payload = payload[:payloadLen]
		if _, err := io.ReadFull(conn, payload); err != nil {
			return
		}

		e := bus.Event{
			Kind:    codec.Kind(binary.LittleEndian.Uint16(header[4:6])),
			Payload: append([]byte(nil), payload...),
		}
		s.handler(e)
	}
}
