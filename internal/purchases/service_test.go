package purchases

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

type fakeRepo struct {
	rates   map[string]decimal.Decimal
	created []Purchase
}

func (f *fakeRepo) List(context.Context, int64) ([]Purchase, error) { return nil, nil }

func (f *fakeRepo) Get(context.Context, int64, int64) (Purchase, error) { return Purchase{}, nil }

func (f *fakeRepo) LatestRate(_ context.Context, _ int64, product string) (decimal.Decimal, error) {
	rate, ok := f.rates[product]
	if !ok {
		return decimal.Zero, ErrNoStockEntry
	}
	return rate, nil
}

func (f *fakeRepo) CreateWithStock(_ context.Context, p Purchase) (Purchase, error) {
	p.ID = int64(len(f.created) + 1)
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakeRepo) MarkPaid(context.Context, int64, int64) error { return nil }

func (f *fakeRepo) Return(context.Context, int64, int64, decimal.Decimal) (Purchase, error) {
	return Purchase{}, nil
}

func (f *fakeRepo) Delete(context.Context, int64, int64) error { return nil }

func TestCreatePricesFromStockRate(t *testing.T) {
	repo := &fakeRepo{rates: map[string]decimal.Decimal{"Milk": decimal.NewFromInt(45)}}
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), 1, Input{
		ProductName: "Milk",
		SupplierID:  7,
		Quantity:    decimal.RequireFromString("12.5"),
	})
	require.NoError(t, err)
	require.Equal(t, "45", created.PurchasePrice.String())
	require.Equal(t, "562.5", created.Total.String())
	require.Equal(t, StatusNotPaid, created.Status)
}

func TestCreateRejectsUnknownProduct(t *testing.T) {
	svc := NewService(&fakeRepo{rates: map[string]decimal.Decimal{}})

	_, err := svc.Create(context.Background(), 1, Input{
		ProductName: "Ghee",
		SupplierID:  7,
		Quantity:    decimal.NewFromInt(5),
	})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestCreateRejectsUnsetRate(t *testing.T) {
	svc := NewService(&fakeRepo{rates: map[string]decimal.Decimal{"Milk": decimal.Zero}})

	_, err := svc.Create(context.Background(), 1, Input{
		ProductName: "Milk",
		SupplierID:  7,
		Quantity:    decimal.NewFromInt(5),
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	svc := NewService(&fakeRepo{rates: map[string]decimal.Decimal{"Milk": decimal.NewFromInt(45)}})

	_, err := svc.Create(context.Background(), 1, Input{
		ProductName: "Milk",
		SupplierID:  7,
		Quantity:    decimal.Zero,
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestReturnRejectsNonPositiveQuantity(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.Return(context.Background(), 1, 3, decimal.NewFromInt(-2))
	require.ErrorIs(t, err, httpx.ErrValidation)
}
