package stock

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLatestRatePrefersNewestEntry(t *testing.T) {
	older := RateCandidate{
		Rate:    decimal.NewFromInt(40),
		AddedAt: time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC),
	}
	newer := RateCandidate{
		Rate:    decimal.NewFromInt(45),
		AddedAt: time.Date(2025, time.June, 3, 9, 0, 0, 0, time.UTC),
	}

	// The newest row must win regardless of the order rows arrive in.
	for _, candidates := range [][]RateCandidate{
		{older, newer},
		{newer, older},
	} {
		rate, ok := LatestRate(candidates)
		require.True(t, ok)
		require.Equal(t, "45", rate.String())
	}
}

func TestLatestRateSingleEntry(t *testing.T) {
	rate, ok := LatestRate([]RateCandidate{{
		Rate:    decimal.NewFromInt(38),
		AddedAt: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC),
	}})
	require.True(t, ok)
	require.Equal(t, "38", rate.String())
}

func TestLatestRateNoEntries(t *testing.T) {
	_, ok := LatestRate(nil)
	require.False(t, ok)
}
