// Package relay carries pipeline events between services over Unix domain
// sockets. Delivery is ordered within a connection and best-effort: a
// publisher that cannot write drops the event and counts the loss.
package relay

import (
	"encoding/binary"

	"github.com/yanun0323/errors"

	"main/internal/bus"
	"main/internal/codec"
)

const (
	frameHeaderSize = 6 // u32 length + u16 kind
	maxFrameSize    = codec.MaxPacketSize
)

var ErrFrameTooLarge = errors.New("relay: frame too large")

func encodeFrame(dst []byte, e bus.Event) ([]byte, error) {
	if len(e.Payload) > maxFrameSize-frameHeaderSize {
		return nil, ErrFrameTooLarge
	}

	total := frameHeaderSize + len(e.Payload)
	if cap(dst) < total {
		dst = make([]byte, total)
	} else {
		dst = dst[:total]
	}
	binary.LittleEndian.PutUint32(dst[0:4], uint32(2+len(e.Payload)))
	binary.LittleEndian.PutUint16(dst[4:6], uint16(e.Kind))
	copy(dst[frameHeaderSize:], e.Payload)
	return dst, nil
}
