package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/elektra-pos/elektra-pos/internal/customers"
	"github.com/elektra-pos/elektra-pos/internal/dashboard"
	"github.com/elektra-pos/elektra-pos/internal/employees"
	"github.com/elektra-pos/elektra-pos/internal/observability"
	"github.com/elektra-pos/elektra-pos/internal/pos"
	"github.com/elektra-pos/elektra-pos/internal/products"
	"github.com/elektra-pos/elektra-pos/internal/serviceorders"
	"github.com/elektra-pos/elektra-pos/internal/transactions"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	POSHandler           *pos.Handler
	TransactionsHandler  *transactions.Handler
	ServiceOrdersHandler *serviceorders.Handler
	EmployeesHandler     *employees.Handler
	CustomersHandler     *customers.Handler
	ProductsHandler      *products.Handler
	DashboardHandler     *dashboard.Handler
	Metrics              *observability.Metrics
}

// NewRouter constructs the chi.Router with Elektra defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/pos", params.POSHandler.MountRoutes)
	r.Route("/transactions", params.TransactionsHandler.MountRoutes)
	r.Route("/services", params.ServiceOrdersHandler.MountRoutes)
	r.Route("/employees", params.EmployeesHandler.MountRoutes)
	r.Route("/customers", params.CustomersHandler.MountRoutes)
	r.Route("/products", params.ProductsHandler.MountRoutes)
	r.Route("/dashboard", params.DashboardHandler.MountRoutes)

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
