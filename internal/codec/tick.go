package codec

import (
	"main/internal/model"
	"main/internal/model/enum"
)

// TickPayloadSize is the fixed canonical tick payload length.
const TickPayloadSize = 80

// EncodeTick serializes a canonical tick into the relay payload layout.
func EncodeTick(dst []byte, tick model.Tick) []byte {
	if cap(dst) < TickPayloadSize {
		dst = make([]byte, TickPayloadSize)
	} else {
		dst = dst[:TickPayloadSize]
	}

	putFloat64(dst, 0, tick.Bid)
	putFloat64(dst, 8, tick.Ask)
	putFloat64(dst, 16, tick.Last)
	putInt64(dst, 24, tick.BidSize)
	putInt64(dst, 32, tick.AskSize)
	putInt64(dst, 40, tick.Volume)
	putInt64(dst, 48, tick.TimestampNs)
	dst[56] = byte(tick.AssetType)
	dst[57] = byte(tick.Exchange)
	for i := 58; i < 64; i++ {
		dst[i] = 0
	}
	putSymbol(dst, 64, 16, tick.Symbol)

	return dst
}

// DecodeTick parses a canonical tick payload.
func DecodeTick(src []byte) (model.Tick, bool) {
	if len(src) < TickPayloadSize {
		return model.Tick{}, false
	}
	return model.Tick{
		Bid:         readFloat64(src, 0),
		Ask:         readFloat64(src, 8),
		Last:        readFloat64(src, 16),
		BidSize:     readInt64(src, 24),
		AskSize:     readInt64(src, 32),
		Volume:      readInt64(src, 40),
		TimestampNs: readInt64(src, 48),
		AssetType:   enum.AssetType(src[56]),
		Exchange:    enum.Exchange(src[57]),
		Symbol:      symbolAt(src, 64),
	}, true
}
