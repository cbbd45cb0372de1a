package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	totals                               Totals
	daySales, dayPurchases, dayExpenses  Series
	monSales, monPurchases, monExpenses  Series
	recent                               []Expense
	gotWeekStart, gotWeekEnd             time.Time
	gotYear                              int
}

func (f *fakeRepo) Totals(_ context.Context, _ int64, weekStart, weekEnd time.Time) (*Totals, error) {
	f.gotWeekStart, f.gotWeekEnd = weekStart, weekEnd
	t := f.totals
	return &t, nil
}

func (f *fakeRepo) DailySeries(context.Context, int64, time.Time, time.Time) (Series, Series, Series, error) {
	return f.daySales, f.dayPurchases, f.dayExpenses, nil
}

func (f *fakeRepo) MonthlySeries(_ context.Context, _ int64, year int) (Series, Series, Series, error) {
	f.gotYear = year
	return f.monSales, f.monPurchases, f.monExpenses, nil
}

func (f *fakeRepo) RecentExpenses(context.Context, int64, int) ([]Expense, error) {
	return f.recent, nil
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func thursday() time.Time {
	return time.Date(2025, time.June, 5, 10, 0, 0, 0, time.UTC)
}

func TestOverviewZeroFillsChartSeries(t *testing.T) {
	repo := &fakeRepo{
		daySales:     Series{2: dec(3000)}, // Monday only
		dayPurchases: Series{2: dec(1800)},
		monSales:     Series{6: dec(90000)}, // June only
	}
	svc := NewService(repo, thursday)

	overview, err := svc.Overview(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, overview.DailyChart, 7)
	require.Equal(t, "Sunday", overview.DailyChart[0].Day)
	require.Equal(t, "Saturday", overview.DailyChart[6].Day)
	require.True(t, overview.DailyChart[0].Sales.IsZero())
	require.Equal(t, "3000", overview.DailyChart[1].Sales.String())
	require.Equal(t, "1200", overview.DailyChart[1].Profit.String())

	require.Len(t, overview.MonthlyChart, 12)
	require.Equal(t, "Jan", overview.MonthlyChart[0].Month)
	require.Equal(t, "Dec", overview.MonthlyChart[11].Month)
	require.Equal(t, "90000", overview.MonthlyChart[5].Sales.String())
	require.True(t, overview.MonthlyChart[0].Sales.IsZero())
}

func TestOverviewProfitLossAndWindow(t *testing.T) {
	repo := &fakeRepo{totals: Totals{
		Sales:     dec(10000),
		Purchases: dec(6000),
		Expenses:  dec(1500),
		Products:  3,
		Suppliers: 12,
	}}
	svc := NewService(repo, thursday)

	overview, err := svc.Overview(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "2500", overview.ProfitLoss.String())
	require.Equal(t, 12, overview.TotalSuppliers)
	require.NotNil(t, overview.RecentExpenses)

	// totals cover the Sunday-anchored week containing the clock
	require.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), repo.gotWeekStart)
	require.Equal(t, time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC), repo.gotWeekEnd)
	require.Equal(t, 2025, repo.gotYear)
}
