package users

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/kevtech-systems/maziwa/internal/auth"
	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

var allowedRoles = map[string]struct{}{
	auth.RoleSuperAdmin: {},
	auth.RoleAdmin:      {},
	auth.RoleManager:    {},
	auth.RoleCashier:    {},
}

// Service applies account business rules and hashes passwords.
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
	if _, ok := allowedRoles[in.Role]; !ok {
		return fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, in.Role)
	}
	return nil
}

func hash(password string) (string, error) {
	if len(password) < 6 {
		return "", fmt.Errorf("%w: password must be at least 6 characters", httpx.ErrValidation)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("users: hash password: %w", err)
	}
	return string(h), nil
}

func (s *Service) List(ctx context.Context, companyID int64) ([]User, error) {
	return s.repo.List(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, companyID, id int64) (User, error) {
	return s.repo.Get(ctx, companyID, id)
}

func (s *Service) Create(ctx context.Context, companyID int64, in Input) (User, error) {
	if err := s.check(in); err != nil {
		return User{}, err
	}
	passwordHash, err := hash(in.Password)
	if err != nil {
		return User{}, err
	}
	return s.repo.Create(ctx, User{
		CompanyID: companyID,
		Username:  in.Username,
		Role:      in.Role,
	}, passwordHash)
}

// Update changes an account. An empty password keeps the current one.
func (s *Service) Update(ctx context.Context, companyID, id int64, in Input) error {
	if err := s.check(in); err != nil {
		return err
	}
	var passwordHash string
	if in.Password != "" {
		h, err := hash(in.Password)
		if err != nil {
			return err
		}
		passwordHash = h
	}
	return s.repo.Update(ctx, User{
		ID:        id,
		CompanyID: companyID,
		Username:  in.Username,
		Role:      in.Role,
	}, passwordHash)
}

func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	return s.repo.Delete(ctx, companyID, id)
}
