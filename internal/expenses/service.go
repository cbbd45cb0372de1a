package expenses

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

// Service applies expense business rules.
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
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", httpx.ErrValidation)
	}
	return nil
}

func (s *Service) List(ctx context.Context, companyID int64) ([]Expense, error) {
	return s.repo.List(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, companyID, id int64) (Expense, error) {
	return s.repo.Get(ctx, companyID, id)
}

func (s *Service) Create(ctx context.Context, companyID int64, in Input) (Expense, error) {
	if err := s.check(in); err != nil {
		return Expense{}, err
	}
	return s.repo.Create(ctx, Expense{
		CompanyID: companyID,
		Category:  in.Category,
		Amount:    in.Amount,
	})
}

func (s *Service) Update(ctx context.Context, companyID, id int64, in Input) error {
	if err := s.check(in); err != nil {
		return err
	}
	return s.repo.Update(ctx, Expense{
		ID:        id,
		CompanyID: companyID,
		Category:  in.Category,
		Amount:    in.Amount,
	})
}

func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	return s.repo.Delete(ctx, companyID, id)
}
