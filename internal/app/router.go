package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kevtech-systems/maziwa/internal/auth"
	"github.com/kevtech-systems/maziwa/internal/dashboard"
	"github.com/kevtech-systems/maziwa/internal/dnd"
	"github.com/kevtech-systems/maziwa/internal/expenses"
	"github.com/kevtech-systems/maziwa/internal/observability"
	"github.com/kevtech-systems/maziwa/internal/products"
	"github.com/kevtech-systems/maziwa/internal/purchases"
	"github.com/kevtech-systems/maziwa/internal/reports"
	"github.com/kevtech-systems/maziwa/internal/salesledger"
	"github.com/kevtech-systems/maziwa/internal/settlement"
	"github.com/kevtech-systems/maziwa/internal/stock"
	"github.com/kevtech-systems/maziwa/internal/suppliers"
	"github.com/kevtech-systems/maziwa/internal/users"
	"github.com/kevtech-systems/maziwa/jobs"
)

// RouterConfig collects every handler mounted on the API.
type RouterConfig struct {
	Config  *Config
	Metrics *observability.Metrics

	AuthMiddleware *auth.Middleware
	Auth           *auth.Handler
	Dashboard      *dashboard.Handler
	Suppliers      *suppliers.Handler
	Products       *products.Handler
	Stock          *stock.Handler
	Purchases      *purchases.Handler
	Sales          *salesledger.Handler
	Expenses       *expenses.Handler
	Users          *users.Handler
	Reports        *reports.Handler
	Settlement     *settlement.Handler
	DND            *dnd.Handler
	Jobs           *jobs.Handler
}

// NewRouter assembles the HTTP API. Everything except login, health and
// metrics sits behind bearer auth; writes to master data and the manual
// settlement trigger are additionally role-gated.
func NewRouter(cfg RouterConfig, middleware MiddlewareConfig) *chi.Mux {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(middleware) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	cfg.Auth.MountRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthMiddleware.Authenticate)

		cfg.Dashboard.MountRoutes(r)
		cfg.Suppliers.MountRoutes(r)
		cfg.Products.MountRoutes(r)
		cfg.Stock.MountRoutes(r)
		cfg.Purchases.MountRoutes(r)
		cfg.Sales.MountRoutes(r)
		cfg.Expenses.MountRoutes(r)
		cfg.Reports.MountRoutes(r)
		cfg.DND.MountRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthMiddleware.RequireRole(auth.RoleSuperAdmin, auth.RoleAdmin))
			cfg.Users.MountRoutes(r)
			cfg.Settlement.MountRoutes(r)
			r.Route("/jobs", cfg.Jobs.MountRoutes)
		})
	})

	return r
}
