package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

// Credential is the stored identity a login attempt is checked against.
type Credential struct {
	UserID       int64
	Role         string
	CompanyID    int64
	PasswordHash string
}

// CredentialStore looks up login credentials by username.
type CredentialStore interface {
	FindCredential(ctx context.Context, username string) (*Credential, error)
}

// ErrUnknownUser indicates the username does not exist.
var ErrUnknownUser = errors.New("auth: unknown user")

// Handler serves the login endpoint.
type Handler struct {
	logger *slog.Logger
	tokens *TokenService
	store  CredentialStore
}

// NewHandler constructs the auth handler.
func NewHandler(logger *slog.Logger, tokens *TokenService, store CredentialStore) *Handler {
	return &Handler{logger: logger, tokens: tokens, store: store}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
	CompanyID int64     `json:"company_id"`
}

// Login verifies credentials and issues a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Username == "" || req.Password == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "username and password required")
		return
	}
	cred, err := h.store.FindCredential(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
			return
		}
		h.logger.Error("lookup credential", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)) != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
		return
	}
	token, expiresAt, err := h.tokens.Issue(cred.UserID, cred.Role, cred.CompanyID)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Role:      cred.Role,
		CompanyID: cred.CompanyID,
	})
}

// MountRoutes registers the public auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}
