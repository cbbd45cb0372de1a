package stock

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

// Service applies stock business rules: a new row becomes the current rate, so
// prices must be sane before it lands.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs the service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) check(in Input) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if !in.PurchasePrice.IsPositive() {
		return fmt.Errorf("%w: purchase price must be positive", httpx.ErrValidation)
	}
	if !in.SellingPrice.IsPositive() {
		return fmt.Errorf("%w: selling price must be positive", httpx.ErrValidation)
	}
	if in.Quantity.IsNegative() {
		return fmt.Errorf("%w: quantity cannot be negative", httpx.ErrValidation)
	}
	return nil
}

func (s *Service) List(ctx context.Context, companyID int64) ([]Row, error) {
	return s.repo.List(ctx, companyID)
}

func (s *Service) Latest(ctx context.Context, companyID int64) ([]Row, error) {
	return s.repo.Latest(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, companyID, id int64) (Row, error) {
	return s.repo.Get(ctx, companyID, id)
}

func (s *Service) Create(ctx context.Context, companyID int64, in Input) (Row, error) {
	if err := s.check(in); err != nil {
		return Row{}, err
	}
	return s.repo.Create(ctx, Row{
		CompanyID:     companyID,
		ProductName:   in.ProductName,
		PurchasePrice: in.PurchasePrice,
		SellingPrice:  in.SellingPrice,
		Quantity:      in.Quantity,
	})
}

func (s *Service) Update(ctx context.Context, companyID, id int64, in Input) error {
	if err := s.check(in); err != nil {
		return err
	}
	return s.repo.Update(ctx, companyID, id, in)
}

func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	return s.repo.Delete(ctx, companyID, id)
}
