package serviceorders

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)

	r.Route("/items/{itemID}", func(r chi.Router) {
		r.Get("/", h.GetItem)
		r.Patch("/status", h.UpdateItemStatus)
		r.Post("/assignments", h.AssignTechnician)
		r.Post("/parts", h.AddPart)
	})

	r.Route("/assignments/{assignmentID}", func(r chi.Router) {
		r.Post("/approve", h.ApproveAssignment)
		r.Post("/reject", h.RejectAssignment)
	})
}
