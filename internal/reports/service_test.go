package reports

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

func newCacheClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestServeFromCacheSkipsRepository(t *testing.T) {
	repo := &fakeRepo{stock: []StockRow{{ID: 1, Product: "Milk", Quantity: dec(10), SellingPrice: dec(55)}}}
	svc := NewService(ServiceConfig{
		Builder: NewBuilder(repo, fixedNow),
		Cache:   newCacheClient(t),
	})

	first, err := svc.Build(context.Background(), 1, TypeStock, FilterNone)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	second, err := svc.Build(context.Background(), 1, TypeStock, FilterNone)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls, "second build must come from cache")
	require.Equal(t, first.Rows, second.Rows)
	require.Equal(t, first.Summary, second.Summary)
}

func TestCacheKeyIsScopedByCompanyTypeAndFilter(t *testing.T) {
	repo := &fakeRepo{
		stock: []StockRow{{ID: 1, Product: "Milk", Quantity: dec(10), SellingPrice: dec(55)}},
		sales: []SalesRow{{ID: 1, Customer: "Local", Product: "Milk", Quantity: dec(5), TotalPrice: dec(300), SaleDate: fixedNow()}},
	}
	svc := NewService(ServiceConfig{
		Builder: NewBuilder(repo, fixedNow),
		Cache:   newCacheClient(t),
	})
	ctx := context.Background()

	_, err := svc.Build(ctx, 1, TypeStock, FilterNone)
	require.NoError(t, err)
	_, err = svc.Build(ctx, 2, TypeStock, FilterNone)
	require.NoError(t, err)
	_, err = svc.Build(ctx, 1, TypeSales, FilterWeek)
	require.NoError(t, err)
	require.Equal(t, 3, repo.calls)
}

func TestEmptyRowSetIsNoData(t *testing.T) {
	svc := NewService(ServiceConfig{
		Builder: NewBuilder(&fakeRepo{}, fixedNow),
		Cache:   newCacheClient(t),
	})

	_, err := svc.Build(context.Background(), 1, TypeStock, FilterNone)
	require.ErrorIs(t, err, httpx.ErrNoData)
}

func TestBuildWorksWithoutCache(t *testing.T) {
	repo := &fakeRepo{stock: []StockRow{{ID: 1, Product: "Milk", Quantity: dec(10), SellingPrice: dec(55)}}}
	svc := NewService(ServiceConfig{Builder: NewBuilder(repo, fixedNow)})

	_, err := svc.Build(context.Background(), 1, TypeStock, FilterNone)
	require.NoError(t, err)

	_, err = svc.Build(context.Background(), 1, TypeStock, FilterNone)
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
}
