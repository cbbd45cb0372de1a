package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kevtech-systems/maziwa/internal/auth"
	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

type fakeRepo struct {
	created     []User
	lastHash    string
	updatedHash *string
}

func (f *fakeRepo) FindCredential(context.Context, string) (*auth.Credential, error) {
	return nil, auth.ErrUnknownUser
}

func (f *fakeRepo) List(context.Context, int64) ([]User, error) { return nil, nil }

func (f *fakeRepo) Get(context.Context, int64, int64) (User, error) { return User{}, nil }

func (f *fakeRepo) Create(_ context.Context, u User, passwordHash string) (User, error) {
	u.ID = int64(len(f.created) + 1)
	f.created = append(f.created, u)
	f.lastHash = passwordHash
	return u, nil
}

func (f *fakeRepo) Update(_ context.Context, _ User, passwordHash string) error {
	f.updatedHash = &passwordHash
	return nil
}

func (f *fakeRepo) Delete(context.Context, int64, int64) error { return nil }

func TestCreateHashesPassword(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), 1, Input{
		Username: "cashier1",
		Password: "s3cret99",
		Role:     auth.RoleCashier,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.CompanyID)
	require.NotEqual(t, "s3cret99", repo.lastHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.lastHash), []byte("s3cret99")))
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.Create(context.Background(), 1, Input{
		Username: "intern",
		Password: "s3cret99",
		Role:     "Intern",
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateRejectsShortPassword(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.Create(context.Background(), 1, Input{
		Username: "cashier1",
		Password: "abc",
		Role:     auth.RoleCashier,
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateKeepsPasswordWhenEmpty(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	err := svc.Update(context.Background(), 1, 7, Input{
		Username: "cashier1",
		Role:     auth.RoleManager,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.updatedHash)
	require.Empty(t, *repo.updatedHash)
}
