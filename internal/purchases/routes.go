package purchases

import "github.com/go-chi/chi/v5"

// MountRoutes registers the purchase routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/purchases", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Post("/{id}/pay", h.Pay)
		r.Post("/{id}/return", h.Return)
		r.Delete("/{id}", h.Delete)
	})
}
