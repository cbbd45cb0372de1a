package suppliers

import "github.com/go-chi/chi/v5"

// MountRoutes registers the supplier routes. Authentication and role checks
// are applied by the parent router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
