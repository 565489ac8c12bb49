package customers

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ListFilters{
		Search:   q.Get("search"),
		Category: Category(q.Get("category")),
		Limit:    50,
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

	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list customers failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ListResponse{Customers: items, Total: total})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) decode(r *http.Request) (UpsertCustomerRequest, error) {
	var req UpsertCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return req, err
	}
	return req, h.validate.Struct(req)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	customer, err := h.service.Create(r.Context(), Customer{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		Email:    req.Email,
		Category: Category(req.Category),
	})
	if err != nil {
		h.logger.Error("create customer failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, err := h.decode(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	c := Customer{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		Email:    req.Email,
		Category: Category(req.Category),
	}
	if c.Category == "" {
		c.Category = CategoryRetail
	}
	if err := h.service.Update(r.Context(), id, c); err != nil {
		h.logger.Error("update customer failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	updated, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
