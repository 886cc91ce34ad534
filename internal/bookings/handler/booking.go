package handler

import (
	"context"
	"net/http"
	"time"

	"rezerveo/internal/bookings/service"
	slotsrepo "rezerveo/internal/slots/repository"
	apperrors "rezerveo/pkg/errors"
	httputil "rezerveo/pkg/http"
	"rezerveo/pkg/logger"
	"rezerveo/pkg/middleware"
	"rezerveo/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/bookings/available", h.GetAvailableSlots)
	router.GET("/bookings/history", h.GetHistory)
	router.GET("/bookings", h.GetClientBookings)
	router.POST("/bookings/:slotId", h.Book)
	router.DELETE("/bookings/:bookingId", h.Cancel)
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := middleware.ActorFrom(r.Context())
	if actor == nil {
		h.writeError(w, "Book", apperrors.Unauthorized("Missing caller identity"))
		return
	}

	booking, err := h.service.Book(r.Context(), actor, ps.ByName("slotId"))
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Book", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor := middleware.ActorFrom(r.Context())
	if actor == nil {
		h.writeError(w, "Cancel", apperrors.Unauthorized("Missing caller identity"))
		return
	}

	if err := h.service.CancelByClient(r.Context(), actor, ps.ByName("bookingId")); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *BookingHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor := middleware.ActorFrom(r.Context())
	if actor == nil {
		h.writeError(w, "GetAvailableSlots", apperrors.Unauthorized("Missing caller identity"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAvailableSlots", err)
		return
	}

	query := r.URL.Query()
	filter := slotsrepo.AvailableFilter{
		Date:        query.Get("date"),
		ServiceType: query.Get("service_type"),
		MechanicID:  query.Get("mechanic_id"),
	}
	if filter.Date != "" {
		if _, parseErr := time.Parse(model.DateLayout, filter.Date); parseErr != nil {
			h.writeError(w, "GetAvailableSlots", apperrors.InvalidInput("invalid date parameter: "+filter.Date))
			return
		}
	}

	slots, total, err := h.service.GetAvailableSlots(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAvailableSlots", err)
		return
	}

	if err := httputil.WritePaginated(w, slots, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAvailableSlots", "error", err)
	}
}

func (h *BookingHandler) GetClientBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.listBookings(w, r, "GetClientBookings", h.service.GetClientBookings)
}

// GetHistory serves the mechanic-side view: every booking taken on the
// caller's slots, regardless of status.
func (h *BookingHandler) GetHistory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.listBookings(w, r, "GetHistory", h.service.GetMechanicHistory)
}

func (h *BookingHandler) listBookings(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	list func(ctx context.Context, actor *model.Actor, limit int, offset int64) ([]*model.Booking, int64, error),
) {
	actor := middleware.ActorFrom(r.Context())
	if actor == nil {
		h.writeError(w, name, apperrors.Unauthorized("Missing caller identity"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, name, err)
		return
	}

	bookings, total, err := list(r.Context(), actor, limit, offset)
	if err != nil {
		h.writeError(w, name, err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", name, "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, h.log, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}
