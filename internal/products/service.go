package products

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

// Service applies product business rules.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs the service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, companyID int64) ([]Product, error) {
	return s.repo.List(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, companyID, id int64) (Product, error) {
	return s.repo.Get(ctx, companyID, id)
}

func (s *Service) Create(ctx context.Context, companyID int64, in Input) (Product, error) {
	if err := s.validate.Struct(in); err != nil {
		return Product{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	return s.repo.Create(ctx, Product{CompanyID: companyID, Name: in.Name})
}

func (s *Service) Update(ctx context.Context, companyID, id int64, in Input) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	return s.repo.Update(ctx, companyID, id, in)
}

func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	return s.repo.Delete(ctx, companyID, id)
}
