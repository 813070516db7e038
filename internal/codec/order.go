package codec

import (
	"main/internal/model"
	"main/internal/model/enum"
)

// OrderPayloadSize is the fixed order payload length.
const OrderPayloadSize = 80

const orderIDWidth = 24

// EncodeOrder serializes an order into the relay payload layout.
func EncodeOrder(dst []byte, order model.Order) []byte {
	if cap(dst) < OrderPayloadSize {
		dst = make([]byte, OrderPayloadSize)
	} else {
		dst = dst[:OrderPayloadSize]
	}

	putSymbol(dst, 0, orderIDWidth, order.OrderID)
	putSymbol(dst, 24, 16, order.Symbol)
	putFloat64(dst, 40, order.Quantity)
	putFloat64(dst, 48, order.Price)
	putInt64(dst, 56, order.TimestampNs)
	dst[64] = byte(order.Side)
	for i := 65; i < OrderPayloadSize; i++ {
		dst[i] = 0
	}

	return dst
}

// DecodeOrder parses an order payload.
func DecodeOrder(src []byte) (model.Order, bool) {
	if len(src) < OrderPayloadSize {
		return model.Order{}, false
	}
	return model.Order{
		OrderID:     nulTerminatedAt(src, 0, orderIDWidth),
		Symbol:      symbolAt(src, 24),
		Quantity:    readFloat64(src, 40),
		Price:       readFloat64(src, 48),
		TimestampNs: readInt64(src, 56),
		Side:        enum.OrderSide(src[64]),
	}, true
}
