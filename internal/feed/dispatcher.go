package feed

import (
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/codec"
	"main/internal/model"
	"main/internal/model/enum"
)

// Normalizer decodes one exchange's raw frame into a canonical tick.
// A false return means the frame is not decodable by this normalizer and the
// dispatcher tries the next one.
type Normalizer interface {
	Normalize(raw []byte) (model.Tick, bool)
}

// TickCallback receives every canonical tick the dispatcher publishes. Each
// callback gets its own copy.
type TickCallback func(model.Tick)

// Token identifies a registered normalizer for later deregistration.
type Token uint64

type normalizerEntry struct {
	token    Token
	exchange enum.Exchange // advisory, used for logging only
	norm     Normalizer
	active   bool
}

// Dispatcher owns a UDP multicast receive loop, applies normalizers in
// registration order (first success wins) and fans canonical ticks out to
// registered callbacks.
type Dispatcher struct {
	group string
	port  int

	mu          sync.Mutex
	normalizers []normalizerEntry
	callbacks   []TickCallback
	nextToken   Token

	running atomic.Bool
	conn    *net.UDPConn
	wg      sync.WaitGroup

	packetsReceived  atomic.Uint64
	packetsProcessed atomic.Uint64
}

// NewDispatcher creates a dispatcher for the given multicast group and port.
func NewDispatcher(group string, port int) *Dispatcher {
	return &Dispatcher{group: group, port: port}
}

// RegisterNormalizer appends a normalizer and returns a token that can
// deregister it. The exchange tag is advisory metadata.
func (d *Dispatcher) RegisterNormalizer(exchange enum.Exchange, n Normalizer) Token {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextToken++
	d.normalizers = append(d.normalizers, normalizerEntry{
		token:    d.nextToken,
		exchange: exchange,
		norm:     n,
		active:   true,
	})
	logs.Infof("registered %s normalizer", exchange)
	return d.nextToken
}

// DeregisterNormalizer deactivates a previously registered normalizer. The
// dispatcher skips inactive entries silently.
func (d *Dispatcher) DeregisterNormalizer(token Token) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.normalizers {
		if d.normalizers[i].token == token {
			d.normalizers[i].active = false
			return
		}
	}
}

// RegisterCallback appends a tick consumer. Callbacks are owned by the
// dispatcher for its lifetime.
func (d *Dispatcher) RegisterCallback(fn TickCallback) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callbacks = append(d.callbacks, fn)
}

// Start binds the multicast socket and spawns the receive loop. It returns
// (false, nil) when already running and (false, err) when the bind fails.
func (d *Dispatcher) Start() (bool, error) {
	if !d.running.CompareAndSwap(false, true) {
		return false, nil
	}

	addr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(d.group, strconv.Itoa(d.port)))
	if err != nil {
		d.running.Store(false)
		return false, errors.Wrap(err, "resolve multicast addr")
	}

	conn, err := net.ListenMulticastUDP("udp4", nil, addr)
	if err != nil {
		d.running.Store(false)
		return false, errors.Wrap(err, "join multicast group")
	}
	_ = conn.SetReadBuffer(codec.MaxPacketSize)
	d.conn = conn

	d.wg.Add(1)
	go d.receiveLoop()

	return true, nil
}

// Stop shuts the receive loop down and waits for it to exit. Idempotent.
func (d *Dispatcher) Stop() {
	if !d.running.CompareAndSwap(true, false) {
		return
	}
	_ = d.conn.Close()
	d.wg.Wait()
}

// Stats returns the receive/process counters.
func (d *Dispatcher) Stats() (packetsReceived, packetsProcessed uint64) {
	return d.packetsReceived.Load(), d.packetsProcessed.Load()
}

// LocalPort reports the bound port, useful when the dispatcher was started
// with port 0.
func (d *Dispatcher) LocalPort() int {
	if d.conn == nil {
		return 0
	}
	if addr, ok := d.conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.Port
	}
	return 0
}

func (d *Dispatcher) receiveLoop() {
	defer d.wg.Done()

	buf := make([]byte, codec.MaxPacketSize)
	for {
		n, _, err := d.conn.ReadFromUDP(buf)
		if err != nil {
			if !d.running.Load() {
				return
			}
			logs.Errorf("multicast read, err: %+v", err)
			continue
		}
		if n <= 0 {
			continue
		}
		d.packetsReceived.Add(1)
		d.processPacket(buf[:n])
	}
}

// processPacket tries each active normalizer in registration order and
// publishes the first decoded tick. Malformed packets are dropped silently.
func (d *Dispatcher) processPacket(raw []byte) {
	d.mu.Lock()
	normalizers := make([]normalizerEntry, len(d.normalizers))
	copy(normalizers, d.normalizers)
	callbacks := make([]TickCallback, len(d.callbacks))
	copy(callbacks, d.callbacks)
	d.mu.Unlock()

	for _, entry := range normalizers {
		if !entry.active {
			continue
		}
		tick, ok := entry.norm.Normalize(raw)
		if !ok {
			continue
		}
		d.packetsProcessed.Add(1)
		// Callbacks run outside the dispatcher lock; each receives a copy.
		for _, fn := range callbacks {
			fn(tick)
		}
		return
	}
}
