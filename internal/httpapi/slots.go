package httpapi

import (
	"net/http"

	"myfood-be/internal/slot"
)

type CreateSlotRequest struct {
	Time      string `json:"time" validate:"required,datetime=15:04"`
	LimitSlot int    `json:"limitSlot" validate:"gte=0"`
}

func (a *API) availableSlotsHandler(w http.ResponseWriter, r *http.Request) {
	slots, err := a.slots.AvailableForBooking(r.Context())
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, slots)
}

func (a *API) listSlotsHandler(w http.ResponseWriter, r *http.Request) {
	slots, err := a.slots.List(r.Context())
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, slots)
}

func (a *API) getSlotHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}

	s, err := a.slots.Get(r.Context(), id)
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, s)
}

func (a *API) createSlotHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		a.errorResponse(w, r, err)
		return
	}

	s, err := a.slots.Create(r.Context(), slot.NewSlotInput{Time: req.Time, LimitSlot: req.LimitSlot})
	if err != nil {
		a.errorResponse(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, s)
}

func (a *API) resetSlotsHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.resetter.RunReset(r.Context()); err != nil {
		a.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
