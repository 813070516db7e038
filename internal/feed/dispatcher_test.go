package feed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"main/internal/codec"
	"main/internal/model"
	"main/internal/model/enum"
)

func nyseFrame(symbol string, bid, ask, last float64) []byte {
	return codec.EncodeNYSE(nil, model.Tick{
		Symbol:      symbol,
		Bid:         bid,
		Ask:         ask,
		Last:        last,
		BidSize:     100,
		AskSize:     100,
		Volume:      1000,
		TimestampNs: 1,
	})
}

func TestProcessPacketFirstSuccessWins(t *testing.T) {
	d := NewDispatcher("239.255.0.1", 12345)
	d.RegisterNormalizer(enum.ExchangeNYSE, codec.NewNYSENormalizer())
	d.RegisterNormalizer(enum.ExchangeNASDAQ, codec.NewNASDAQNormalizer())

	var got []model.Tick
	d.RegisterCallback(func(tick model.Tick) {
		got = append(got, tick)
	})

	d.processPacket(nyseFrame("AAPL", 149.9, 150.1, 150.0))

	require.Len(t, got, 1)
	require.Equal(t, "AAPL", got[0].Symbol)
	require.Equal(t, enum.ExchangeNYSE, got[0].Exchange)

	_, processed := d.Stats()
	require.EqualValues(t, 1, processed)
}

func TestProcessPacketDropsMalformed(t *testing.T) {
	d := NewDispatcher("239.255.0.1", 12345)
	d.RegisterNormalizer(enum.ExchangeNYSE, codec.NewNYSENormalizer())

	calls := 0
	d.RegisterCallback(func(model.Tick) { calls++ })

	d.processPacket([]byte{1, 2, 3})
	d.processPacket(nyseFrame("AAPL", 150.1, 149.9, 150.0)) // crossed quote

	require.Zero(t, calls)
	_, processed := d.Stats()
	require.Zero(t, processed)
}

func TestDeregisteredNormalizerIsSkipped(t *testing.T) {
	d := NewDispatcher("239.255.0.1", 12345)
	token := d.RegisterNormalizer(enum.ExchangeNYSE, codec.NewNYSENormalizer())

	calls := 0
	d.RegisterCallback(func(model.Tick) { calls++ })

	frame := nyseFrame("AAPL", 149.9, 150.1, 150.0)
	d.processPacket(frame)
	require.Equal(t, 1, calls)

	d.DeregisterNormalizer(token)
	d.processPacket(frame)
	require.Equal(t, 1, calls)
}

func TestCallbackFanOut(t *testing.T) {
	d := NewDispatcher("239.255.0.1", 12345)
	d.RegisterNormalizer(enum.ExchangeNASDAQ, codec.NewNASDAQNormalizer())

	const consumers = 3
	counts := make([]int, consumers)
	for i := 0; i < consumers; i++ {
		i := i
		d.RegisterCallback(func(model.Tick) { counts[i]++ })
	}

	d.processPacket(codec.EncodeNASDAQ(nil, model.Tick{
		Symbol: "MSFT", Bid: 299.9, Ask: 300.1, Last: 300, TimestampNs: 1,
	}))

	for i, c := range counts {
		require.Equalf(t, 1, c, "consumer %d", i)
	}
}

func TestStartStopIdempotent(t *testing.T) {
	d := NewDispatcher("239.255.0.1", 0)

	started, err := d.Start()
	require.NoError(t, err)
	require.True(t, started)

	started, err = d.Start()
	require.NoError(t, err)
	require.False(t, started)

	d.Stop()
	d.Stop()
}

func TestStartFailsOnBadGroup(t *testing.T) {
	d := NewDispatcher("not-a-group", 12345)
	started, err := d.Start()
	require.Error(t, err)
	require.False(t, started)

	// A failed start leaves the dispatcher restartable.
	d2 := NewDispatcher("239.255.0.1", 0)
	started, err = d2.Start()
	require.NoError(t, err)
	require.True(t, started)
	d2.Stop()
}
