package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"rezerveo/internal/slots/service"
	apperrors "rezerveo/pkg/errors"
	httputil "rezerveo/pkg/http"
	"rezerveo/pkg/logger"
	"rezerveo/pkg/middleware"
	"rezerveo/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// BookingCanceller lets the mechanic-facing surface cancel a client's
// booking on one of the mechanic's slots.
type BookingCanceller interface {
	CancelByMechanic(ctx context.Context, actor *model.Actor, slotUUID, bookingUUID string) error
}

type SlotHandler struct {
	service  service.SlotService
	bookings BookingCanceller
	log      *logger.Logger
}

func NewSlotHandler(service service.SlotService, bookings BookingCanceller, log *logger.Logger) *SlotHandler {
	return &SlotHandler{
		service:  service,
		bookings: bookings,
		log:      log,
	}
}

func (h *SlotHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/slots", h.Create)
	router.GET("/slots", h.GetMechanicSlots)
	router.DELETE("/slots/:slotId", h.Cancel)
	router.DELETE("/slots/:slotId/bookings/:bookingId", h.CancelBooking)
}

func (h *SlotHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor := middleware.ActorFrom(r.Context())
	if actor == nil {
		h.writeError(w, "Create", apperrors.Unauthorized("Missing caller identity"))
		return
	}

	var req model.CreateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	slot, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, slot); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *SlotHandler) GetMechanicSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor := middleware.ActorFrom(r.Context())
	if actor == nil {
		h.writeError(w, "GetMechanicSlots", apperrors.Unauthorized("Missing caller identity"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetMechanicSlots", err)
		return
	}

	slots, total, err := h.service.GetMechanicSlots(r.Context(), actor, limit, offset)
	if err != nil {
		h.writeError(w, "GetMechanicSlots", err)
		return
	}

	if err := httputil.WritePaginated(w, slots, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetMechanicSlots", "error", err)
	}
}

func (h *SlotHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := middleware.ActorFrom(r.Context())
	if actor == nil {
		h.writeError(w, "Cancel", apperrors.Unauthorized("Missing caller identity"))
		return
	}

	changed, err := h.service.Cancel(r.Context(), actor, ps.ByName("slotId"))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if !changed {
		if err := httputil.WriteMessage(w, "Slot is already cancelled"); err != nil {
			h.log.Error("failed to write response", "handler", "Cancel", "error", err)
		}
		return
	}
	httputil.WriteNoContent(w)
}

func (h *SlotHandler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := middleware.ActorFrom(r.Context())
	if actor == nil {
		h.writeError(w, "CancelBooking", apperrors.Unauthorized("Missing caller identity"))
		return
	}

	if err := h.bookings.CancelByMechanic(r.Context(), actor, ps.ByName("slotId"), ps.ByName("bookingId")); err != nil {
		h.writeError(w, "CancelBooking", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *SlotHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, h.log, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}
