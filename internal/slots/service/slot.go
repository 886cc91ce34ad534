package service

import (
	"context"
	"errors"

	slotserrors "rezerveo/internal/slots/errors"
	"rezerveo/internal/slots/repository"
	"rezerveo/internal/slots/validator"
	"rezerveo/pkg/config"
	apperrors "rezerveo/pkg/errors"
	"rezerveo/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookingStore is the slice of booking storage the slot engine needs:
// cancelling a slot cascades to its confirmed booking.
type BookingStore interface {
	FindConfirmedBySlot(ctx context.Context, slotUUID string) (*model.Booking, error)
	UpdateStatus(ctx context.Context, bookingUUID, status string) (*mongo.UpdateResult, error)
}

// Notifier is the outbound side of slot cancellation.
type Notifier interface {
	SlotCancelled(slot *model.Slot, booking *model.Booking)
}

type SlotService interface {
	Create(ctx context.Context, actor *model.Actor, req *model.CreateSlotRequest) (*model.Slot, error)
	GetMechanicSlots(ctx context.Context, actor *model.Actor, limit int, offset int64) ([]*model.Slot, int64, error)
	Cancel(ctx context.Context, actor *model.Actor, slotUUID string) (bool, error)
}

type slotService struct {
	repo      repository.SlotRepository
	bookings  BookingStore
	validator *validator.SlotValidator
	notifier  Notifier
	cfg       *config.Config
}

func NewSlotService(
	repo repository.SlotRepository,
	bookings BookingStore,
	validator *validator.SlotValidator,
	notifier Notifier,
	cfg *config.Config,
) SlotService {
	return &slotService{
		repo:      repo,
		bookings:  bookings,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// Create publishes a new available slot for the calling mechanic. The
// window must not touch any of the mechanic's other live slots;
// back-to-back windows sharing a boundary minute count as touching.
func (s *slotService) Create(ctx context.Context, actor *model.Actor, req *model.CreateSlotRequest) (*model.Slot, error) {
	if err := s.validator.ValidateCreate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make(map[string]any, len(verrs))
			for _, ve := range verrs {
				details[ve.Field] = ve.Message
			}
			return nil, apperrors.Validation("Slot request is invalid", details)
		}
		return nil, apperrors.InvalidInput(err.Error())
	}

	conflict, err := s.repo.FindOverlapping(ctx, actor.UUID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		s.cfg.Log.Error("Failed to check slot overlap", "error", err)
		return nil, apperrors.Internal("Failed to check slot overlap", err)
	}
	if conflict != nil {
		return nil, apperrors.SlotOverlap("Slot overlaps an existing slot").WithDetails(map[string]any{
			"conflicting_slot_id": conflict.UUID,
		})
	}

	slot := &model.Slot{
		UUID:          uuid.NewString(),
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		ServiceType:   req.ServiceType,
		Status:        model.SlotStatusAvailable,
		MechanicUUID:  actor.UUID,
		MechanicName:  actor.Name,
		MechanicEmail: actor.Email,
	}

	if err := s.repo.Insert(ctx, slot); err != nil {
		s.cfg.Log.Error("Failed to create slot", "error", err)
		return nil, apperrors.Internal("Failed to create slot", err)
	}

	s.cfg.Log.Info("Slot created",
		"slot_id", slot.UUID,
		"mechanic_id", slot.MechanicUUID,
		"date", slot.Date,
		"start_time", slot.StartTime,
	)
	return slot, nil
}

func (s *slotService) GetMechanicSlots(ctx context.Context, actor *model.Actor, limit int, offset int64) ([]*model.Slot, int64, error) {
	count, err := s.repo.CountByMechanic(ctx, actor.UUID)
	if err != nil {
		s.cfg.Log.Error("Failed to count mechanic slots", "error", err)
		return nil, 0, apperrors.Internal("Failed to count slots", err)
	}

	slots, err := s.repo.FindByMechanic(ctx, actor.UUID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list mechanic slots", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve slots", err)
	}
	return slots, count, nil
}

// Cancel withdraws a slot and cascades to its confirmed booking, if
// any. Cancelling an already cancelled slot is a no-op: the second
// return value reports whether this call changed anything.
func (s *slotService) Cancel(ctx context.Context, actor *model.Actor, slotUUID string) (bool, error) {
	if _, err := uuid.Parse(slotUUID); err != nil {
		return false, apperrors.InvalidInput("Invalid slot ID format")
	}

	var (
		cancelled       bool
		cancelledSlot   *model.Slot
		cascadedBooking *model.Booking
	)

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		slot, err := s.repo.FindByUUID(sessCtx, slotUUID)
		if err != nil {
			if errors.Is(err, slotserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Slot", slotUUID)
			}
			return apperrors.Internal("Failed to retrieve slot", err)
		}
		if slot.MechanicUUID != actor.UUID {
			return apperrors.Forbidden("Slot belongs to another mechanic")
		}
		if slot.Status == model.SlotStatusCancelled {
			return nil
		}

		if _, err := s.repo.UpdateStatus(sessCtx, slot.UUID, model.SlotStatusCancelled); err != nil {
			return apperrors.Internal("Failed to cancel slot", err)
		}

		booking, err := s.bookings.FindConfirmedBySlot(sessCtx, slot.UUID)
		if err != nil {
			return apperrors.Internal("Failed to look up slot booking", err)
		}
		if booking != nil {
			if _, err := s.bookings.UpdateStatus(sessCtx, booking.UUID, model.BookingStatusCancelled); err != nil {
				return apperrors.Internal("Failed to cancel slot booking", err)
			}
			booking.Status = model.BookingStatusCancelled
		}

		cancelled = true
		cancelledSlot = slot
		cascadedBooking = booking
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel slot", "slot_id", slotUUID, "error", err)
		return false, err
	}

	if !cancelled {
		s.cfg.Log.Info("Slot already cancelled", "slot_id", slotUUID)
		return false, nil
	}

	s.cfg.Log.Info("Slot cancelled",
		"slot_id", slotUUID,
		"mechanic_id", actor.UUID,
		"cascaded_booking", cascadedBooking != nil,
	)
	s.notifier.SlotCancelled(cancelledSlot, cascadedBooking)
	return true, nil
}
