package pos

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/elektra-pos/elektra-pos/internal/platform/httpx"
	"github.com/elektra-pos/elektra-pos/internal/products"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.CreateDraft(r.Context())
	if err != nil {
		h.respondError(w, "create draft", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, DraftResponse{Draft: draft, Summary: Summary(draft)})
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.GetDraft(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "get draft", err)
		return
	}
	httpx.JSON(w, http.StatusOK, DraftResponse{Draft: draft, Summary: Summary(draft)})
}

func (h *Handler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DiscardDraft(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, "discard draft", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req UpdateDraftRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	draft, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), UpdateDraftParams{
		Type:          req.Type,
		Notes:         req.Notes,
		ProjectName:   req.ProjectName,
		PaymentMethod: req.PaymentMethod,
		PaidAmount:    req.PaidAmount,
		IsTempo:       req.IsTempo,
		TempoDueDate:  req.TempoDueDate,
	})
	if err != nil {
		h.respondError(w, "update draft", err)
		return
	}
	httpx.JSON(w, http.StatusOK, DraftResponse{Draft: draft, Summary: Summary(draft)})
}

func (h *Handler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	var req SetCustomerRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	draft, err := h.service.SetCustomer(r.Context(), chi.URLParam(r, "id"), req.CustomerID)
	if err != nil {
		h.respondError(w, "set customer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, DraftResponse{Draft: draft, Summary: Summary(draft)})
}

func (h *Handler) AddLocation(w http.ResponseWriter, r *http.Request) {
	var req AddLocationRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	draft, err := h.service.AddLocation(r.Context(), chi.URLParam(r, "id"), req.Name, req.Description)
	if err != nil {
		h.respondError(w, "add location", err)
		return
	}
	httpx.JSON(w, http.StatusOK, DraftResponse{Draft: draft, Summary: Summary(draft)})
}

func (h *Handler) RemoveLocation(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.RemoveLocation(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "locationID"))
	if err != nil {
		h.respondError(w, "remove location", err)
		return
	}
	httpx.JSON(w, http.StatusOK, DraftResponse{Draft: draft, Summary: Summary(draft)})
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	draft, err := h.service.AddItem(r.Context(), chi.URLParam(r, "id"), req.LocationID, req.ProductID, req.Quantity)
	if err != nil {
		h.respondError(w, "add item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, DraftResponse{Draft: draft, Summary: Summary(draft)})
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	draft, err := h.service.UpdateItemQuantity(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "locationID"), chi.URLParam(r, "itemID"), req.Quantity)
	if err != nil {
		h.respondError(w, "update item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, DraftResponse{Draft: draft, Summary: Summary(draft)})
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "locationID"), chi.URLParam(r, "itemID"))
	if err != nil {
		h.respondError(w, "remove item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, DraftResponse{Draft: draft, Summary: Summary(draft)})
}

func (h *Handler) AddService(w http.ResponseWriter, r *http.Request) {
	var req AddServiceRequest
	if err := h.decode(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	parts := make([]ServicePartParams, 0, len(req.Parts))
	for _, p := range req.Parts {
		parts = append(parts, ServicePartParams{ProductID: p.ProductID, Quantity: p.Quantity})
	}
	draft, err := h.service.AddService(r.Context(), chi.URLParam(r, "id"), req.LocationID, AddServiceParams{
		DeviceName:     req.DeviceName,
		DeviceSerial:   req.DeviceSerial,
		Description:    req.Description,
		TechnicianID:   req.TechnicianID,
		TechnicianName: req.TechnicianName,
		LaborCost:      req.LaborCost,
		SLACategory:    req.SLACategory,
		Parts:          parts,
	})
	if err != nil {
		h.respondError(w, "add service", err)
		return
	}
	httpx.JSON(w, http.StatusOK, DraftResponse{Draft: draft, Summary: Summary(draft)})
}

func (h *Handler) RemoveService(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.RemoveService(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "locationID"), chi.URLParam(r, "serviceID"))
	if err != nil {
		h.respondError(w, "remove service", err)
		return
	}
	httpx.JSON(w, http.StatusOK, DraftResponse{Draft: draft, Summary: Summary(draft)})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "get summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	txID, err := h.service.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "submit draft", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, SubmitResponse{TransactionID: txID})
}

func (h *Handler) decode(r *http.Request, target any) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		return err
	}
	return h.validate.Struct(target)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrDraftNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case isDraftValidationError(err):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, products.ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Insufficient Stock", err.Error())
	default:
		h.logger.Error(op+" failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func isDraftValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidQuantity, ErrNegativePrice, ErrLocationNotFound, ErrItemNotFound,
		ErrServiceNotFound, ErrLastLocation, ErrTempoNotEligible, ErrNegativePaidAmount,
		ErrDeviceNameRequired, ErrEmptyDraft, ErrTempoDueDateRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
