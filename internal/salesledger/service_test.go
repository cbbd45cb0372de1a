package salesledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

type stockEntry struct {
	price  decimal.Decimal
	onHand decimal.Decimal
}

type fakeRepo struct {
	stock   map[string]stockEntry
	created []Sale
}

func (f *fakeRepo) List(context.Context, int64) ([]Sale, error) { return nil, nil }

func (f *fakeRepo) Get(context.Context, int64, int64) (Sale, error) { return Sale{}, nil }

func (f *fakeRepo) CreateWithStock(_ context.Context, companyID int64, in Input) (Sale, error) {
	entry, ok := f.stock[in.ProductName]
	if !ok {
		return Sale{}, ErrNoStockEntry
	}
	if in.Quantity.GreaterThan(entry.onHand) {
		return Sale{}, ErrInsufficientStock
	}
	sale := Sale{
		ID:          int64(len(f.created) + 1),
		CompanyID:   companyID,
		Customer:    in.Customer,
		ProductName: in.ProductName,
		Quantity:    in.Quantity,
		TotalPrice:  entry.price.Mul(in.Quantity),
	}
	f.created = append(f.created, sale)
	return sale, nil
}

func (f *fakeRepo) DeleteWithStock(context.Context, int64, int64) error { return nil }

func TestCreatePricesFromSellingRate(t *testing.T) {
	repo := &fakeRepo{stock: map[string]stockEntry{
		"Milk": {price: decimal.NewFromInt(60), onHand: decimal.NewFromInt(200)},
	}}
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), 1, Input{
		Customer:    "Brookside",
		ProductName: "Milk",
		Quantity:    decimal.RequireFromString("12.5"),
	})
	require.NoError(t, err)
	require.Equal(t, "750", created.TotalPrice.String())
	require.Equal(t, "Brookside", created.Customer)
}

func TestCreateRejectsUnknownProduct(t *testing.T) {
	svc := NewService(&fakeRepo{stock: map[string]stockEntry{}})

	_, err := svc.Create(context.Background(), 1, Input{
		Customer:    "Local",
		ProductName: "Ghee",
		Quantity:    decimal.NewFromInt(5),
	})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestCreateRejectsOversell(t *testing.T) {
	repo := &fakeRepo{stock: map[string]stockEntry{
		"Milk": {price: decimal.NewFromInt(60), onHand: decimal.NewFromInt(10)},
	}}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), 1, Input{
		Customer:    "Local",
		ProductName: "Milk",
		Quantity:    decimal.NewFromInt(11),
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Empty(t, repo.created)
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	repo := &fakeRepo{stock: map[string]stockEntry{
		"Milk": {price: decimal.NewFromInt(60), onHand: decimal.NewFromInt(10)},
	}}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), 1, Input{
		Customer:    "Local",
		ProductName: "Milk",
		Quantity:    decimal.Zero,
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateRejectsMissingCustomer(t *testing.T) {
	svc := NewService(&fakeRepo{stock: map[string]stockEntry{}})

	_, err := svc.Create(context.Background(), 1, Input{
		ProductName: "Milk",
		Quantity:    decimal.NewFromInt(5),
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}
