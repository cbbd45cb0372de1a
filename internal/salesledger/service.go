package salesledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

// Service applies sale business rules. The unit price always comes from the
// current stock selling rate; the client only names customer, product and
// litres.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs the service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, companyID int64) ([]Sale, error) {
	return s.repo.List(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, companyID, id int64) (Sale, error) {
	return s.repo.Get(ctx, companyID, id)
}

// Create records a sale priced at the current stock selling rate and draws
// the litres out of stock.
func (s *Service) Create(ctx context.Context, companyID int64, in Input) (Sale, error) {
	if err := s.validate.Struct(in); err != nil {
		return Sale{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if !in.Quantity.IsPositive() {
		return Sale{}, fmt.Errorf("%w: quantity must be positive", httpx.ErrValidation)
	}

	sale, err := s.repo.CreateWithStock(ctx, companyID, in)
	switch {
	case errors.Is(err, ErrNoStockEntry):
		return Sale{}, fmt.Errorf("%w: product %q not found in stock", httpx.ErrNotFound, in.ProductName)
	case errors.Is(err, ErrInsufficientStock):
		return Sale{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	case err != nil:
		return Sale{}, err
	}
	return sale, nil
}

// Delete voids a sale and returns its litres to stock.
func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	return s.repo.DeleteWithStock(ctx, companyID, id)
}
