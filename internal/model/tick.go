package model

import "main/internal/model/enum"

// Tick is the canonical market update, independent of exchange wire format.
// It is constructed by a normalizer, published by the dispatcher, and copied
// per consumer from there on.
type Tick struct {
	Symbol      string
	Bid         float64
	Ask         float64
	Last        float64
	BidSize     int64
	AskSize     int64
	Volume      int64
	TimestampNs int64
	AssetType   enum.AssetType
	Exchange    enum.Exchange
}

// Mid returns the bid/ask midpoint.
func (t Tick) Mid() float64 {
	return (t.Bid + t.Ask) / 2
}

// Spread returns the quoted spread.
func (t Tick) Spread() float64 {
	return t.Ask - t.Bid
}

// Valid reports whether the tick satisfies the base sanity invariants shared
// by every exchange layout.
func (t Tick) Valid() bool {
	return t.Bid > 0 && t.Ask > 0 && t.Ask >= t.Bid
}
