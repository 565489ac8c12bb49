package employees

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/available", h.Available)
	r.Get("/recommended", h.Recommended)
	r.Get("/{id}", h.Get)
	r.Put("/{id}/availability", h.SetAvailability)
	r.Post("/{id}/queue-lock", h.LockQueue)
	r.Delete("/{id}/queue-lock", h.UnlockQueue)
	r.Post("/{id}/workload", h.AdjustWorkload)
}
