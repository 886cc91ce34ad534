package service

import (
	"context"
	"errors"
	"sync"

	bookingserrors "rezerveo/internal/bookings/errors"
	"rezerveo/internal/bookings/repository"
	slotserrors "rezerveo/internal/slots/errors"
	slotsrepo "rezerveo/internal/slots/repository"
	"rezerveo/pkg/config"
	apperrors "rezerveo/pkg/errors"
	"rezerveo/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// Notifier is the outbound side of booking lifecycle changes. All
// methods are fire-and-forget.
type Notifier interface {
	BookingConfirmed(booking *model.Booking)
	BookingCancelledByClient(booking *model.Booking)
	BookingCancelledByMechanic(booking *model.Booking)
}

type BookingService interface {
	Book(ctx context.Context, actor *model.Actor, slotUUID string) (*model.Booking, error)
	CancelByClient(ctx context.Context, actor *model.Actor, bookingUUID string) error
	CancelByMechanic(ctx context.Context, actor *model.Actor, slotUUID, bookingUUID string) error
	GetAvailableSlots(ctx context.Context, filter slotsrepo.AvailableFilter, limit int, offset int64) ([]*model.Slot, int64, error)
	GetClientBookings(ctx context.Context, actor *model.Actor, limit int, offset int64) ([]*model.Booking, int64, error)
	GetMechanicHistory(ctx context.Context, actor *model.Actor, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo     repository.BookingRepository
	claims   repository.SlotClaimRepository
	slots    slotsrepo.SlotRepository
	notifier Notifier
	cfg      *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	claims repository.SlotClaimRepository,
	slots slotsrepo.SlotRepository,
	notifier Notifier,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:     repo,
		claims:   claims,
		slots:    slots,
		notifier: notifier,
		cfg:      cfg,
	}
}

// Book reserves a slot for the calling client. Three layers keep the
// slot single-occupancy under contention: the advisory claim serializes
// attempts, the slot state is re-read inside the transaction, and the
// partial unique index on confirmed bookings rejects anything that
// still slips through.
func (s *bookingService) Book(ctx context.Context, actor *model.Actor, slotUUID string) (*model.Booking, error) {
	if _, err := uuid.Parse(slotUUID); err != nil {
		return nil, apperrors.InvalidInput("Invalid slot ID format")
	}

	if err := s.claims.Acquire(ctx, slotUUID, s.cfg.SlotClaimTTL); err != nil {
		if errors.Is(err, bookingserrors.ErrClaimHeld) {
			return nil, apperrors.Conflict("Slot is being booked by another client")
		}
		s.cfg.Log.Error("Failed to acquire slot claim", "slot_id", slotUUID, "error", err)
		return nil, apperrors.Internal("Failed to reserve slot", err)
	}
	defer func() {
		if err := s.claims.Release(ctx, slotUUID); err != nil {
			s.cfg.Log.Warn("Failed to release slot claim", "slot_id", slotUUID, "error", err)
		}
	}()

	var booking *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		slot, err := s.slots.FindByUUID(sessCtx, slotUUID)
		if err != nil {
			if errors.Is(err, slotserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Slot", slotUUID)
			}
			return apperrors.Internal("Failed to retrieve slot", err)
		}

		existing, err := s.repo.FindConfirmedBySlot(sessCtx, slotUUID)
		if err != nil {
			return apperrors.Internal("Failed to check slot booking", err)
		}
		if existing != nil {
			return apperrors.Conflict("Slot is already booked")
		}

		if slot.Status != model.SlotStatusAvailable {
			return apperrors.InvalidState("Slot is not available for booking")
		}
		if slot.MechanicUUID == actor.UUID {
			return apperrors.SelfBooking("Mechanics cannot book their own slots")
		}

		booking = &model.Booking{
			UUID:          uuid.NewString(),
			Status:        model.BookingStatusConfirmed,
			ClientUUID:    actor.UUID,
			ClientName:    actor.Name,
			ClientEmail:   actor.Email,
			SlotUUID:      slot.UUID,
			SlotDate:      slot.Date,
			SlotStartTime: slot.StartTime,
			SlotEndTime:   slot.EndTime,
			ServiceType:   slot.ServiceType,
			MechanicUUID:  slot.MechanicUUID,
			MechanicName:  slot.MechanicName,
			MechanicEmail: slot.MechanicEmail,
		}
		if err := s.repo.Insert(sessCtx, booking); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return apperrors.Conflict("Slot is already booked")
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		if _, err := s.slots.UpdateStatus(sessCtx, slot.UUID, model.SlotStatusBooked); err != nil {
			return apperrors.Internal("Failed to mark slot as booked", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to book slot", "slot_id", slotUUID, "client_id", actor.UUID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Slot booked",
		"booking_id", booking.UUID,
		"slot_id", slotUUID,
		"client_id", actor.UUID,
	)
	s.notifier.BookingConfirmed(booking)
	return booking, nil
}

// CancelByClient cancels the caller's confirmed booking and reopens
// the slot, unless the slot itself was cancelled in the meantime.
func (s *bookingService) CancelByClient(ctx context.Context, actor *model.Actor, bookingUUID string) error {
	if _, err := uuid.Parse(bookingUUID); err != nil {
		return apperrors.InvalidInput("Invalid booking ID format")
	}

	booking, err := s.cancelBooking(ctx, bookingUUID, func(sessCtx mongo.SessionContext) (*model.Booking, error) {
		b, err := s.findBooking(sessCtx, bookingUUID)
		if err != nil {
			return nil, err
		}
		if b.ClientUUID != actor.UUID {
			return nil, apperrors.Forbidden("Booking belongs to another client")
		}
		return b, nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Booking cancelled by client",
		"booking_id", booking.UUID,
		"slot_id", booking.SlotUUID,
		"client_id", actor.UUID,
	)
	s.notifier.BookingCancelledByClient(booking)
	return nil
}

// CancelByMechanic cancels a client's booking on the caller's slot.
// The slot stays live and reopens for other clients. Preconditions are
// checked in ownership order: the slot must exist, belong to the
// caller, and hold the named booking.
func (s *bookingService) CancelByMechanic(ctx context.Context, actor *model.Actor, slotUUID, bookingUUID string) error {
	if _, err := uuid.Parse(slotUUID); err != nil {
		return apperrors.InvalidInput("Invalid slot ID format")
	}
	if _, err := uuid.Parse(bookingUUID); err != nil {
		return apperrors.InvalidInput("Invalid booking ID format")
	}

	booking, err := s.cancelBooking(ctx, bookingUUID, func(sessCtx mongo.SessionContext) (*model.Booking, error) {
		slot, err := s.slots.FindByUUID(sessCtx, slotUUID)
		if err != nil {
			if errors.Is(err, slotserrors.ErrNotFound) {
				return nil, apperrors.NotFoundWithID("Slot", slotUUID)
			}
			return nil, apperrors.Internal("Failed to retrieve slot", err)
		}
		if slot.MechanicUUID != actor.UUID {
			return nil, apperrors.Forbidden("Slot belongs to another mechanic")
		}

		b, err := s.findBooking(sessCtx, bookingUUID)
		if err != nil {
			return nil, err
		}
		if b.SlotUUID != slotUUID {
			return nil, apperrors.NotFoundWithID("Booking", bookingUUID)
		}
		return b, nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Booking cancelled by mechanic",
		"booking_id", booking.UUID,
		"slot_id", booking.SlotUUID,
		"mechanic_id", actor.UUID,
	)
	s.notifier.BookingCancelledByMechanic(booking)
	return nil
}

func (s *bookingService) findBooking(sessCtx mongo.SessionContext, bookingUUID string) (*model.Booking, error) {
	booking, err := s.repo.FindByUUID(sessCtx, bookingUUID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingUUID)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

// cancelBooking runs the shared cancellation transaction: resolve the
// authorized booking, flip it to cancelled, and reopen the slot when
// nothing else holds it and the slot was not itself cancelled.
func (s *bookingService) cancelBooking(ctx context.Context, bookingUUID string, resolve func(mongo.SessionContext) (*model.Booking, error)) (*model.Booking, error) {
	var cancelled *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := resolve(sessCtx)
		if err != nil {
			return err
		}
		if booking.Status != model.BookingStatusConfirmed {
			return apperrors.InvalidState("Only confirmed bookings can be cancelled")
		}

		if _, err := s.repo.UpdateStatus(sessCtx, booking.UUID, model.BookingStatusCancelled); err != nil {
			return apperrors.Internal("Failed to cancel booking", err)
		}
		booking.Status = model.BookingStatusCancelled

		slot, err := s.slots.FindByUUID(sessCtx, booking.SlotUUID)
		if err != nil {
			if errors.Is(err, slotserrors.ErrNotFound) {
				// Booking outlived its slot; nothing to reopen.
				cancelled = booking
				return nil
			}
			return apperrors.Internal("Failed to retrieve slot", err)
		}

		remaining, err := s.repo.FindConfirmedBySlot(sessCtx, booking.SlotUUID)
		if err != nil {
			return apperrors.Internal("Failed to check slot booking", err)
		}
		if slot.Status != model.SlotStatusCancelled && remaining == nil {
			if _, err := s.slots.UpdateStatus(sessCtx, slot.UUID, model.SlotStatusAvailable); err != nil {
				return apperrors.Internal("Failed to reopen slot", err)
			}
		}

		cancelled = booking
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "booking_id", bookingUUID, "error", err)
		return nil, err
	}
	return cancelled, nil
}

func (s *bookingService) GetAvailableSlots(ctx context.Context, filter slotsrepo.AvailableFilter, limit int, offset int64) ([]*model.Slot, int64, error) {
	var (
		count    int64
		slots    []*model.Slot
		errCount error
		errFind  error
		wg       sync.WaitGroup
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.slots.CountAvailable(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count available slots", "error", errCount)
			errCount = apperrors.Internal("Failed to count available slots", errCount)
		}
	}()
	go func() {
		defer wg.Done()
		slots, errFind = s.slots.FindAvailable(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list available slots", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve available slots", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return slots, count, nil
}

// GetClientBookings lists all of the caller's bookings, whatever their
// status.
func (s *bookingService) GetClientBookings(ctx context.Context, actor *model.Actor, limit int, offset int64) ([]*model.Booking, int64, error) {
	return s.listBookings(
		func() (int64, error) { return s.repo.CountByClient(ctx, actor.UUID) },
		func() ([]*model.Booking, error) { return s.repo.FindByClient(ctx, actor.UUID, limit, offset) },
	)
}

// GetMechanicHistory lists every booking ever taken on the caller's
// slots, across all statuses.
func (s *bookingService) GetMechanicHistory(ctx context.Context, actor *model.Actor, limit int, offset int64) ([]*model.Booking, int64, error) {
	return s.listBookings(
		func() (int64, error) { return s.repo.CountByMechanic(ctx, actor.UUID) },
		func() ([]*model.Booking, error) { return s.repo.FindByMechanic(ctx, actor.UUID, limit, offset) },
	)
}

func (s *bookingService) listBookings(count func() (int64, error), find func() ([]*model.Booking, error)) ([]*model.Booking, int64, error) {
	total, err := count()
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings", "error", err)
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	bookings, err := find()
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, total, nil
}
