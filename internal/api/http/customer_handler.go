package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"wardrobe-rental-backend/internal/domain"
)

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.ListCustomers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, err)
		return
	}
	c.ID = ""

	if err := h.customers.CreateCustomer(r.Context(), &c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.customers.GetCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GetCustomerStats returns the cached counters as stored.
func (h *Handler) GetCustomerStats(w http.ResponseWriter, r *http.Request) {
	c, err := h.customers.GetCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Stats)
}

func (h *Handler) RecomputeCustomerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Recompute(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetPartnerPayout(w http.ResponseWriter, r *http.Request) {
	payout, err := h.partners.GetPayout(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payout)
}
