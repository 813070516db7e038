package codec

import "main/internal/model"

// SignalPayloadSize is the fixed alpha signal payload length.
const SignalPayloadSize = 72

const alphaIDWidth = 32

// EncodeSignal serializes an alpha signal into the relay payload layout.
func EncodeSignal(dst []byte, sig model.Signal) []byte {
	if cap(dst) < SignalPayloadSize {
		dst = make([]byte, SignalPayloadSize)
	} else {
		dst = dst[:SignalPayloadSize]
	}

	putSymbol(dst, 0, alphaIDWidth, sig.AlphaID)
	putSymbol(dst, 32, 16, sig.Symbol)
	putFloat64(dst, 48, sig.Signal)
	putFloat64(dst, 56, sig.Confidence)
	putInt64(dst, 64, sig.TimestampNs)

	return dst
}

// DecodeSignal parses an alpha signal payload.
func DecodeSignal(src []byte) (model.Signal, bool) {
	if len(src) < SignalPayloadSize {
		return model.Signal{}, false
	}
	return model.Signal{
		AlphaID:     nulTerminatedAt(src, 0, alphaIDWidth),
		Symbol:      symbolAt(src, 32),
		Signal:      readFloat64(src, 48),
		Confidence:  readFloat64(src, 56),
		TimestampNs: readInt64(src, 64),
	}, true
}

func nulTerminatedAt(src []byte, offset, width int) string {
	end := offset + width
	for i := offset; i < end; i++ {
		if src[i] == 0 {
			end = i
			break
		}
	}
	return string(src[offset:end])
}
