package recorder

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"main/internal/model"
	"main/internal/model/enum"
)

func journalTick(i int) model.Tick {
	return model.Tick{
		Symbol:      "AAPL",
		Bid:         149.9 + float64(i)/100,
		Ask:         150.1 + float64(i)/100,
		Last:        150.0 + float64(i)/100,
		BidSize:     100,
		AskSize:     200,
		Volume:      int64(1000 * i),
		TimestampNs: int64(i),
		AssetType:   enum.AssetTypeEquity,
		Exchange:    enum.ExchangeNYSE,
	}
}

func TestJournalRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticks.journal")

	w, err := NewWriter(path)
	require.NoError(t, err)
	const count = 25
	for i := 1; i <= count; i++ {
		require.NoError(t, w.Append(journalTick(i)))
	}
	require.NoError(t, w.Close())
	require.NoError(t, w.Close()) // idempotent

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	for i := 1; i <= count; i++ {
		tick, err := r.Next()
		require.NoError(t, err)
		require.Equal(t, journalTick(i), tick)
	}
	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestJournalDetectsTornTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticks.journal")

	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Append(journalTick(1)))
	require.NoError(t, w.Append(journalTick(2)))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-5], 0o644))

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	require.ErrorIs(t, err, ErrTruncatedRecord)
}

func TestJournalDetectsCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticks.journal")

	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Append(journalTick(1)))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[recordHeaderSize+3] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	require.ErrorIs(t, err, ErrChecksumMismatch)
}
