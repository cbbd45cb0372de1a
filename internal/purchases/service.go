package purchases

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

// Service applies intake business rules. The unit price always comes from the
// current stock rate; the client only names product, supplier and litres.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs the service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, companyID int64) ([]Purchase, error) {
	return s.repo.List(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, companyID, id int64) (Purchase, error) {
	return s.repo.Get(ctx, companyID, id)
}

// Create records an intake delivery priced at the current stock rate.
func (s *Service) Create(ctx context.Context, companyID int64, in Input) (Purchase, error) {
	if err := s.validate.Struct(in); err != nil {
		return Purchase{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if !in.Quantity.IsPositive() {
		return Purchase{}, fmt.Errorf("%w: quantity must be positive", httpx.ErrValidation)
	}

	rate, err := s.repo.LatestRate(ctx, companyID, in.ProductName)
	if err != nil {
		if errors.Is(err, ErrNoStockEntry) {
			return Purchase{}, fmt.Errorf("%w: product %q not found in stock", httpx.ErrNotFound, in.ProductName)
		}
		return Purchase{}, err
	}
	if !rate.IsPositive() {
		return Purchase{}, fmt.Errorf("%w: purchase price for %q is not set, update the stock price first",
			httpx.ErrValidation, in.ProductName)
	}

	return s.repo.CreateWithStock(ctx, Purchase{
		CompanyID:     companyID,
		SupplierID:    in.SupplierID,
		ProductName:   in.ProductName,
		Quantity:      in.Quantity,
		PurchasePrice: rate,
		Total:         rate.Mul(in.Quantity),
		Status:        StatusNotPaid,
	})
}

func (s *Service) MarkPaid(ctx context.Context, companyID, id int64) error {
	return s.repo.MarkPaid(ctx, companyID, id)
}

func (s *Service) Return(ctx context.Context, companyID, id int64, quantity decimal.Decimal) (Purchase, error) {
	if !quantity.IsPositive() {
		return Purchase{}, fmt.Errorf("%w: return quantity must be positive", httpx.ErrValidation)
	}
	return s.repo.Return(ctx, companyID, id, quantity)
}

func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	return s.repo.Delete(ctx, companyID, id)
}
