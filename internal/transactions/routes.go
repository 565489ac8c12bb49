package transactions

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/tempo-due", h.ListTempoDue)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/payments", h.ListPayments)
	r.Post("/{id}/payments", h.AddPayment)
}
