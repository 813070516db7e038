package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFirstFillSetsQuantityAndCost(t *testing.T) {
	m := NewManager()

	pos := m.UpdatePosition("AAPL", 100, 150.0)
	require.Equal(t, 100.0, pos.Quantity)
	require.Equal(t, 150.0, pos.AvgCost)
	require.Zero(t, pos.RealizedPnL)
}

func TestAverageCostBlends(t *testing.T) {
	m := NewManager()
	m.UpdatePosition("AAPL", 100, 150.0)
	pos := m.UpdatePosition("AAPL", 100, 160.0)

	require.Equal(t, 200.0, pos.Quantity)
	require.InDelta(t, 155.0, pos.AvgCost, 1e-9)
}

func TestFlatPositionResetsCost(t *testing.T) {
	m := NewManager()
	m.UpdatePosition("AAPL", 100, 150.0)
	pos := m.UpdatePosition("AAPL", -100, 160.0)

	require.Zero(t, pos.Quantity)
	require.Zero(t, pos.AvgCost)
	require.InDelta(t, 1000.0, pos.RealizedPnL, 1e-9)
}

func TestRealizedPnLOnPartialClose(t *testing.T) {
	m := NewManager()
	m.UpdatePosition("AAPL", 200, 150.0)
	pos := m.UpdatePosition("AAPL", -50, 140.0)

	require.Equal(t, 150.0, pos.Quantity)
	require.InDelta(t, -500.0, pos.RealizedPnL, 1e-9)
}

func TestShortPositionRealizes(t *testing.T) {
	m := NewManager()
	m.UpdatePosition("TSLA", -100, 700.0)
	pos := m.UpdatePosition("TSLA", 100, 650.0)

	require.Zero(t, pos.Quantity)
	require.InDelta(t, 5000.0, pos.RealizedPnL, 1e-9)
}

func TestMarkUpdatesUnrealized(t *testing.T) {
	m := NewManager()
	m.UpdatePosition("AAPL", 100, 150.0)
	m.Mark("AAPL", 153.0)

	pos := m.GetPosition("AAPL")
	require.InDelta(t, 300.0, pos.UnrealizedPnL, 1e-9)

	// Marking an unknown symbol must not create a position.
	m.Mark("MSFT", 300.0)
	positions := m.AllPositions()
	require.Len(t, positions, 1)
}

func TestGetPositionLazilyCreates(t *testing.T) {
	m := NewManager()
	pos := m.GetPosition("GOOGL")
	require.Equal(t, "GOOGL", pos.Symbol)
	require.Zero(t, pos.Quantity)

	num, exposure := m.Stats()
	require.Equal(t, 1, num)
	require.Zero(t, exposure)
}

func TestTotalExposure(t *testing.T) {
	m := NewManager()
	m.UpdatePosition("AAPL", 100, 150.0)
	m.UpdatePosition("TSLA", -10, 700.0)

	require.InDelta(t, 100*150.0+10*700.0, m.TotalExposure(), 1e-9)
}
