package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/utils"
)

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.ListItems(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var item domain.Item
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, err)
		return
	}
	item.ID = ""

	if err := h.items.CreateItem(r.Context(), &item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.items.GetItem(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.items.DeleteItem(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ItemAvailability answers ?start=yyyy-mm-dd&end=yyyy-mm-dd[&exclude_booking_id=].
func (h *Handler) ItemAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	errs := domain.ValidationErrors{}
	start, err := utils.ParseDate(q.Get("start"))
	if err != nil {
		errs.Add("start", err.Error())
	}
	end, err := utils.ParseDate(q.Get("end"))
	if err != nil {
		errs.Add("end", err.Error())
	}
	if err := errs.Err(); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.bookings.CheckAvailability(r.Context(), mux.Vars(r)["id"], start, end, q.Get("exclude_booking_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
