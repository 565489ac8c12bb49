package products

import "github.com/go-chi/chi/v5"

// MountRoutes registers the product catalog endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Deactivate)
	r.Post("/{id}/stock", h.AdjustStock)
}
