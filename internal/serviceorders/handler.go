package serviceorders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

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
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrDeviceNameRequired),
		errors.Is(err, ErrItemTerminal),
		errors.Is(err, ErrAssignmentNotPending),
		errors.Is(err, ErrTechnicianUnavailable),
		errors.Is(err, ErrTechnicianAlreadyOnItem):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, products.ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Insufficient Stock", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ListFilters{
		Status:     ServiceStatus(q.Get("status")),
		CustomerID: q.Get("customer_id"),
		Limit:      50,
	}
	if v := q.Get("technician_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.TechnicianID = &id
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			filters.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filters.Offset = n
		}
	}

	orders, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list service orders failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ListResponse{Orders: orders, Total: total})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	params := CreateParams{
		CustomerID:  req.CustomerID,
		Description: req.Description,
		Items:       make([]CreateItemParams, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		params.Items = append(params.Items, CreateItemParams{
			DeviceName:   item.DeviceName,
			DeviceSerial: item.DeviceSerial,
			Description:  item.Description,
			LaborCost:    item.LaborCost,
			SLACategory:  item.SLACategory,
			TechnicianID: item.TechnicianID,
		})
	}

	orderID, err := h.service.Create(r.Context(), params)
	if err != nil {
		h.logger.Error("create service order failed", slog.Any("error", err))
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, CreateResponse{OrderID: orderID})
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	item, err := h.service.UpdateItemStatus(r.Context(), chi.URLParam(r, "itemID"), UpdateItemStatusParams{
		Status:    ServiceStatus(req.Status),
		Diagnosis: req.Diagnosis,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) AssignTechnician(w http.ResponseWriter, r *http.Request) {
	var req AssignTechnicianRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	assignmentID, err := h.service.AssignTechnician(r.Context(), chi.URLParam(r, "itemID"), req.TechnicianID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, AssignResponse{AssignmentID: assignmentID})
}

func (h *Handler) ApproveAssignment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ApproveAssignment(r.Context(), chi.URLParam(r, "assignmentID")); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) RejectAssignment(w http.ResponseWriter, r *http.Request) {
	var req RejectAssignmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.RejectAssignment(r.Context(), chi.URLParam(r, "assignmentID"), req.Reason); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) AddPart(w http.ResponseWriter, r *http.Request) {
	var req AddPartRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	part, err := h.service.AddPart(r.Context(), chi.URLParam(r, "itemID"), req.ProductID, req.Quantity)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, part)
}
