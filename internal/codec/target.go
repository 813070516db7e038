package codec

import "main/internal/model"

// TargetPayloadSize is the fixed target position payload length.
const TargetPayloadSize = 40

// EncodeTarget serializes a target position into the relay payload layout.
func EncodeTarget(dst []byte, target model.TargetPosition) []byte {
	if cap(dst) < TargetPayloadSize {
		dst = make([]byte, TargetPayloadSize)
	} else {
		dst = dst[:TargetPayloadSize]
	}

	putSymbol(dst, 0, 16, target.Symbol)
	putFloat64(dst, 16, target.TargetQuantity)
	putFloat64(dst, 24, target.CurrentQuantity)
	putInt64(dst, 32, target.TimestampNs)

	return dst
}

// DecodeTarget parses a target position payload.
func DecodeTarget(src []byte) (model.TargetPosition, bool) {
	if len(src) < TargetPayloadSize {
		return model.TargetPosition{}, false
	}
	return model.TargetPosition{
		Symbol:          symbolAt(src, 0),
		TargetQuantity:  readFloat64(src, 16),
		CurrentQuantity: readFloat64(src, 24),
		TimestampNs:     readInt64(src, 32),
	}, true
}
