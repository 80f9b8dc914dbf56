package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"wardrobe-rental-backend/internal/config"
	"wardrobe-rental-backend/internal/security"
	"wardrobe-rental-backend/internal/service"
)

// Handler serves the JSON API on top of the services.
type Handler struct {
	bookings  service.BookingService
	items     service.ItemService
	customers service.CustomerService
	stats     service.CustomerStatsService
	partners  service.PartnerService
	tokens    security.TokenManager
	operators map[string]string
	settings  config.SettingsConfig
}

type Dependencies struct {
	Bookings  service.BookingService
	Items     service.ItemService
	Customers service.CustomerService
	Stats     service.CustomerStatsService
	Partners  service.PartnerService
	Tokens    security.TokenManager
	Operators []config.Operator
	Settings  config.SettingsConfig
}

func NewHandler(deps Dependencies) *Handler {
	operators := make(map[string]string, len(deps.Operators))
	for _, op := range deps.Operators {
		operators[op.Username] = op.PasswordHash
	}
	return &Handler{
		bookings:  deps.Bookings,
		items:     deps.Items,
		customers: deps.Customers,
		stats:     deps.Stats,
		partners:  deps.Partners,
		tokens:    deps.Tokens,
		operators: operators,
		settings:  deps.Settings,
	}
}

// RouterOptions wires the optional observability endpoints.
type RouterOptions struct {
	Observer       HTTPObserver
	MetricsPath    string
	MetricsHandler http.Handler
}

// NewRouter registers every API route under /api/v1 plus /healthz and the metrics endpoint.
func NewRouter(h *Handler, opts RouterOptions) *mux.Router {
	r := mux.NewRouter()
	r.Use(RecoveryMiddleware)
	r.Use(ObserveMiddleware(opts.Observer))

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	if opts.MetricsHandler != nil && opts.MetricsPath != "" {
		r.Handle(opts.MetricsPath, opts.MetricsHandler).Methods(http.MethodGet)
	}

	api := r.PathPrefix(apiPrefix).Subrouter()
	api.Use(NewAuthMiddleware(h.tokens).Handler)

	// Auth
	api.HandleFunc("/auth/token", h.IssueToken).Methods(http.MethodPost)

	// Settings
	api.HandleFunc("/settings", h.GetSettings).Methods(http.MethodGet)

	// Bookings
	api.HandleFunc("/bookings", h.ListBookings).Methods(http.MethodGet)
	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/quote", h.QuoteBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}", h.UpdateBooking).Methods(http.MethodPut)
	api.HandleFunc("/bookings/{id}", h.DeleteBooking).Methods(http.MethodDelete)
	api.HandleFunc("/bookings/{id}/status", h.SetBookingStatus).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{id}/advances", h.AddAdvance).Methods(http.MethodPost)

	// Items
	api.HandleFunc("/items", h.ListItems).Methods(http.MethodGet)
	api.HandleFunc("/items", h.CreateItem).Methods(http.MethodPost)
	api.HandleFunc("/items/{id}", h.GetItem).Methods(http.MethodGet)
	api.HandleFunc("/items/{id}", h.DeleteItem).Methods(http.MethodDelete)
	api.HandleFunc("/items/{id}/availability", h.ItemAvailability).Methods(http.MethodGet)

	// Customers
	api.HandleFunc("/customers", h.ListCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers", h.CreateCustomer).Methods(http.MethodPost)
	api.HandleFunc("/customers/{id}", h.GetCustomer).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}/stats", h.GetCustomerStats).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}/stats/recompute", h.RecomputeCustomerStats).Methods(http.MethodPost)

	// Partners
	api.HandleFunc("/partners/{id}/payout", h.GetPartnerPayout).Methods(http.MethodGet)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
