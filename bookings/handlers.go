package bookings

import (
	"encoding/json"
	"math"
	"net/http"

	"roamio/apperr"
	"roamio/middleware"
	"roamio/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Book(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := middleware.RequirePrincipal(w, r)
	if !ok {
		return
	}

	// Seats decodes as a float so a fractional value is reported as a
	// seats validation error rather than a generic decode failure.
	var input struct {
		Seats *float64 `json:"seats"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, apperr.New(apperr.CodeValidation, "invalid input"))
		return
	}
	// Missing and fractional values collapse to an invalid count; the
	// service orders the role check ahead of the seats check, so the
	// error a host sees is the role denial, not a seats complaint.
	seats := 0
	if input.Seats != nil && *input.Seats == math.Trunc(*input.Seats) {
		seats = int(*input.Seats)
	}

	booking, err := h.svc.Book(r.Context(), principal, ps.ByName("id"), seats)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, booking)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := middleware.RequirePrincipal(w, r)
	if !ok {
		return
	}
	bookings, err := h.svc.ListByUser(r.Context(), principal.UserID)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"bookings": bookings})
}
