package suppliers

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
	"github.com/kevtech-systems/maziwa/internal/sms"
)

// Service applies supplier business rules on top of the repository.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs the service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) check(in *Input) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	normalized := sms.NormalizeMSISDN(in.Contact)
	if !sms.ValidMSISDN(normalized) {
		return fmt.Errorf("%w: contact must be a valid %s number", httpx.ErrValidation, sms.CountryPrefix)
	}
	in.Contact = normalized
	return nil
}

func (s *Service) List(ctx context.Context, companyID int64, search string) ([]Supplier, error) {
	return s.repo.List(ctx, companyID, search)
}

func (s *Service) Get(ctx context.Context, companyID, id int64) (Supplier, error) {
	return s.repo.Get(ctx, companyID, id)
}

func (s *Service) Create(ctx context.Context, companyID int64, in Input) (Supplier, error) {
	if err := s.check(&in); err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, Supplier{
		CompanyID: companyID,
		Name:      in.Name,
		Contact:   in.Contact,
		Address:   in.Address,
	})
}

func (s *Service) Update(ctx context.Context, companyID, id int64, in Input) error {
	if err := s.check(&in); err != nil {
		return err
	}
	return s.repo.Update(ctx, companyID, id, in)
}

func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	return s.repo.Delete(ctx, companyID, id)
}
