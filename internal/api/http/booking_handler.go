package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/service"
	"wardrobe-rental-backend/internal/utils"
)

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.BookingFilter{
		CustomerID: q.Get("customer_id"),
		Status:     domain.BookingStatus(q.Get("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeError(w, domain.ValidationErrors{"status": "unknown status"})
		return
	}

	bookings, err := h.bookings.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, newBookingResponse(&bookings[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	b, err := h.bookings.Create(r.Context(), service.CreateBookingRequest{
		BookingInput:          in,
		AsDraft:               req.AsDraft,
		SkipAvailabilityCheck: req.SkipAvailabilityCheck,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	logger.Info("Booking created", "bookingID", b.ID, "operator", OperatorFromContext(r.Context()))
	writeJSON(w, http.StatusCreated, newBookingResponse(b))
}

func (h *Handler) QuoteBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	quote, err := h.bookings.Quote(r.Context(), service.QuoteRequest{BookingInput: in, ExcludeBookingID: req.ExcludeBookingID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newBookingResponse(b))
}

// UpdateBooking replaces the booking's editable fields. Omitting "advances"
// keeps the recorded payments; sending an empty list clears them.
func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	id := mux.Vars(r)["id"]
	b, err := h.bookings.Update(r.Context(), id, service.UpdateBookingRequest{
		BookingInput:          in,
		SkipAvailabilityCheck: req.SkipAvailabilityCheck,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	logger.Info("Booking updated", "bookingID", id, "operator", OperatorFromContext(r.Context()))
	writeJSON(w, http.StatusOK, newBookingResponse(b))
}

func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.bookings.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	logger.Info("Booking deleted", "bookingID", id, "operator", OperatorFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Status == "" {
		writeError(w, domain.ValidationErrors{"status": "status is required"})
		return
	}

	id := mux.Vars(r)["id"]
	b, err := h.bookings.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	logger.Info("Booking status changed", "bookingID", id, "status", b.Status, "operator", OperatorFromContext(r.Context()))
	writeJSON(w, http.StatusOK, newBookingResponse(b))
}

func (h *Handler) AddAdvance(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	date, err := utils.ParseOptionalDate(req.Date)
	if err != nil {
		writeError(w, domain.ValidationErrors{"date": err.Error()})
		return
	}
	var when time.Time
	if date != nil {
		when = *date
	}

	b, err := h.bookings.AddAdvance(r.Context(), mux.Vars(r)["id"], req.Amount.Float(), when, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newBookingResponse(b))
}
