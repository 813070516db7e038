package codec

import (
	"main/internal/model"
	"main/internal/model/enum"
)

// NYSE frame layout, little-endian:
//
//	0  bid (f64)      24 bidSize (i64)   48 timestampNs (i64)
//	8  ask (f64)      32 askSize (i64)   56 symbol (NUL-terminated)
//	16 last (f64)     40 volume (i64)
type NYSENormalizer struct{}

func NewNYSENormalizer() *NYSENormalizer {
	return &NYSENormalizer{}
}

func (n *NYSENormalizer) Exchange() enum.Exchange {
	return enum.ExchangeNYSE
}

// Normalize decodes a raw NYSE frame. Malformed frames return ok=false and
// are dropped by the caller.
func (n *NYSENormalizer) Normalize(raw []byte) (model.Tick, bool) {
	if len(raw) < MinFrameLen {
		return model.Tick{}, false
	}

	tick := model.Tick{
		Symbol:      symbolAt(raw, symbolOffset),
		Bid:         readFloat64(raw, 0),
		Ask:         readFloat64(raw, 8),
		Last:        readFloat64(raw, 16),
		BidSize:     readInt64(raw, 24),
		AskSize:     readInt64(raw, 32),
		Volume:      readInt64(raw, 40),
		TimestampNs: readInt64(raw, 48),
		AssetType:   enum.AssetTypeEquity,
		Exchange:    enum.ExchangeNYSE,
	}

	if !tick.Valid() {
		return model.Tick{}, false
	}
	// A spread above 10% of mid is a corrupt or crossed frame.
	if tick.Spread() > tick.Mid()*0.1 {
		return model.Tick{}, false
	}

	return tick, true
}

// EncodeNYSE serializes a tick into the NYSE frame layout.
func EncodeNYSE(dst []byte, tick model.Tick) []byte {
	if cap(dst) < MinFrameLen+symbolMaxLen+1 {
		dst = make([]byte, MinFrameLen+symbolMaxLen+1)
	} else {
		dst = dst[:MinFrameLen+symbolMaxLen+1]
	}

	putFloat64(dst, 0, tick.Bid)
	putFloat64(dst, 8, tick.Ask)
	putFloat64(dst, 16, tick.Last)
	putInt64(dst, 24, tick.BidSize)
	putInt64(dst, 32, tick.AskSize)
	putInt64(dst, 40, tick.Volume)
	putInt64(dst, 48, tick.TimestampNs)
	putSymbol(dst, symbolOffset, symbolMaxLen+1, tick.Symbol)

	return dst
}
