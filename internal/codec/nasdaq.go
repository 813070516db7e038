package codec

import (
	"main/internal/model"
	"main/internal/model/enum"
)

// NASDAQ frame layout, little-endian:
//
//	0  last (f64)     24 volume (i64)    48 timestampNs (i64)
//	8  bid (f64)      32 bidSize (i64)   56 symbol (NUL-terminated)
//	16 ask (f64)      40 askSize (i64)
type NASDAQNormalizer struct{}

func NewNASDAQNormalizer() *NASDAQNormalizer {
	return &NASDAQNormalizer{}
}

func (n *NASDAQNormalizer) Exchange() enum.Exchange {
	return enum.ExchangeNASDAQ
}

// Normalize decodes a raw NASDAQ frame.
func (n *NASDAQNormalizer) Normalize(raw []byte) (model.Tick, bool) {
	if len(raw) < MinFrameLen {
		return model.Tick{}, false
	}

	tick := model.Tick{
		Symbol:      symbolAt(raw, symbolOffset),
		Last:        readFloat64(raw, 0),
		Bid:         readFloat64(raw, 8),
		Ask:         readFloat64(raw, 16),
		Volume:      readInt64(raw, 24),
		BidSize:     readInt64(raw, 32),
		AskSize:     readInt64(raw, 40),
		TimestampNs: readInt64(raw, 48),
		AssetType:   enum.AssetTypeEquity,
		Exchange:    enum.ExchangeNASDAQ,
	}

	if !tick.Valid() {
		return model.Tick{}, false
	}

	return tick, true
}

// EncodeNASDAQ serializes a tick into the NASDAQ frame layout.
func EncodeNASDAQ(dst []byte, tick model.Tick) []byte {
	if cap(dst) < MinFrameLen+symbolMaxLen+1 {
		dst = make([]byte, MinFrameLen+symbolMaxLen+1)
	} else {
		dst = dst[:MinFrameLen+symbolMaxLen+1]
	}

	putFloat64(dst, 0, tick.Last)
	putFloat64(dst, 8, tick.Bid)
	putFloat64(dst, 16, tick.Ask)
	putInt64(dst, 24, tick.Volume)
	putInt64(dst, 32, tick.BidSize)
	putInt64(dst, 40, tick.AskSize)
	putInt64(dst, 48, tick.TimestampNs)
	putSymbol(dst, symbolOffset, symbolMaxLen+1, tick.Symbol)

	return dst
}
