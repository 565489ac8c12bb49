package employees

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/elektra-pos/elektra-pos/internal/platform/httpx"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func employeeID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list employees failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ListResponse{Employees: items})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid employee id")
		return
	}
	employee, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, employee)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	employee, err := h.service.Create(r.Context(), Employee{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		IsAvailable: true,
		MaxWorkload: req.MaxWorkload,
	})
	if err != nil {
		h.logger.Error("create employee failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, employee)
}

func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid employee id")
		return
	}
	var req SetAvailabilityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.SetAvailability(r.Context(), id, req.IsAvailable); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) LockQueue(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid employee id")
		return
	}
	var req LockQueueRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.LockQueue(r.Context(), id, req.Reason); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) UnlockQueue(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid employee id")
		return
	}
	if err := h.service.UnlockQueue(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) AdjustWorkload(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid employee id")
		return
	}
	var req AdjustWorkloadRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.AdjustWorkload(r.Context(), id, req.Delta); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Available(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ListResponse{Employees: items})
}

func (h *Handler) Recommended(w http.ResponseWriter, r *http.Request) {
	picked, err := h.service.Recommended(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if picked == nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no technician can take new work")
		return
	}
	httpx.JSON(w, http.StatusOK, picked)
}
