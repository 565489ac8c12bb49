package pos

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/drafts", h.CreateDraft)
	r.Get("/drafts/{id}", h.GetDraft)
	r.Patch("/drafts/{id}", h.UpdateDraft)
	r.Delete("/drafts/{id}", h.DiscardDraft)
	r.Put("/drafts/{id}/customer", h.SetCustomer)
	r.Get("/drafts/{id}/summary", h.GetSummary)
	r.Post("/drafts/{id}/submit", h.Submit)

	r.Post("/drafts/{id}/locations", h.AddLocation)
	r.Delete("/drafts/{id}/locations/{locationID}", h.RemoveLocation)

	r.Post("/drafts/{id}/items", h.AddItem)
	r.Patch("/drafts/{id}/locations/{locationID}/items/{itemID}", h.UpdateItem)
	r.Delete("/drafts/{id}/locations/{locationID}/items/{itemID}", h.RemoveItem)

	r.Post("/drafts/{id}/services", h.AddService)
	r.Delete("/drafts/{id}/locations/{locationID}/services/{serviceID}", h.RemoveService)
}
