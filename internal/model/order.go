package model

import "main/internal/model/enum"

// Order is a candidate order presented to the risk guardian. It is transient:
// validated, then either discarded or forwarded to the router.
type Order struct {
	OrderID     string
	Symbol      string
	Quantity    float64
	Side        enum.OrderSide
	Price       float64
	TimestampNs int64
}

// SignedQuantity applies the side to the quantity.
func (o Order) SignedQuantity() float64 {
	if o.Side == enum.OrderSideSell {
		return -o.Quantity
	}
	return o.Quantity
}

// Notional returns the absolute order value.
func (o Order) Notional() float64 {
	n := o.Quantity * o.Price
	if n < 0 {
		return -n
	}
	return n
}
