package relay

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/yanun0323/errors"

	"main/internal/bus"
	"main/pkg/uds"
)

// Publisher writes events to a downstream service's socket. It dials lazily
// and drops events while the peer is unreachable.
type Publisher struct {
	path string

	mu   sync.Mutex
	conn *net.UnixConn
	buf  []byte

	dropped atomic.Uint64
}

// NewPublisher creates a publisher for the given socket path.
func NewPublisher(path string) *Publisher {
	return &Publisher{path: path}
}

// Publish sends one event. A failed dial or write drops the event; the
// returned error is informational.
func (p *Publisher) Publish(e bus.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		conn, err := uds.Dial(p.path)
		if err != nil {
			p.dropped.Add(1)
			return errors.Wrap(err, "dial relay peer")
		}
		p.conn = conn
	}

	frame, err := encodeFrame(p.buf, e)
	if err != nil {
		p.dropped.Add(1)
		return err
	}
	p.buf = frame

	if _, err := p.conn.Write(frame); err != nil {
		_ = p.conn.Close()
		p.conn = nil
		p.dropped.Add(1)
		return errors.Wrap(err, "write relay frame")
	}
	return nil
}

// Dropped reports how many events were lost to dial or write failures.
func (p *Publisher) Dropped() uint64 {
	return p.dropped.Load()
}

// Close releases the connection.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
