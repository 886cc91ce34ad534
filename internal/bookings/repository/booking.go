package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "rezerveo/internal/bookings/errors"
	"rezerveo/pkg/config"
	mongotx "rezerveo/pkg/db/mongo"
	"rezerveo/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	Insert(ctx context.Context, booking *model.Booking) error
	FindByUUID(ctx context.Context, uuid string) (*model.Booking, error)
	FindConfirmedBySlot(ctx context.Context, slotUUID string) (*model.Booking, error)
	UpdateStatus(ctx context.Context, uuid, status string) (*mongo.UpdateResult, error)
	FindByClient(ctx context.Context, clientUUID string, limit int, offset int64) ([]*model.Booking, error)
	CountByClient(ctx context.Context, clientUUID string) (int64, error)
	FindByMechanic(ctx context.Context, mechanicUUID string, limit int, offset int64) ([]*model.Booking, error)
	CountByMechanic(ctx context.Context, mechanicUUID string) (int64, error)
	CompleteElapsed(ctx context.Context, today, now string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// Insert writes a new booking. The partial unique index on slot_uuid
// for confirmed bookings turns a lost race into a duplicate key error.
func (r *mongoBookingRepository) Insert(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid
	}
	return nil
}

func (r *mongoBookingRepository) FindByUUID(ctx context.Context, uuid string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"uuid": uuid}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

// FindConfirmedBySlot returns the confirmed booking holding slotUUID,
// or nil when the slot has none. At most one can exist.
func (r *mongoBookingRepository) FindConfirmedBySlot(ctx context.Context, slotUUID string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"slot_uuid": slotUUID,
		"status":    model.BookingStatusConfirmed,
	}

	var booking model.Booking
	err := r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find slot booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, uuid, status string) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"uuid": uuid}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	return result, nil
}

// FindByClient lists a client's bookings across all statuses, oldest
// slot first.
func (r *mongoBookingRepository) FindByClient(ctx context.Context, clientUUID string, limit int, offset int64) ([]*model.Booking, error) {
	return r.findPage(ctx, bson.M{"client_uuid": clientUUID}, limit, offset)
}

func (r *mongoBookingRepository) CountByClient(ctx context.Context, clientUUID string) (int64, error) {
	return r.countBy(ctx, bson.M{"client_uuid": clientUUID})
}

// FindByMechanic lists every booking ever taken on the mechanic's
// slots, regardless of status. Mechanic identity is denormalized onto
// bookings, so no slot join is needed.
func (r *mongoBookingRepository) FindByMechanic(ctx context.Context, mechanicUUID string, limit int, offset int64) ([]*model.Booking, error) {
	return r.findPage(ctx, bson.M{"mechanic_uuid": mechanicUUID}, limit, offset)
}

func (r *mongoBookingRepository) CountByMechanic(ctx context.Context, mechanicUUID string) (int64, error) {
	return r.countBy(ctx, bson.M{"mechanic_uuid": mechanicUUID})
}

func (r *mongoBookingRepository) findPage(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "slot_date", Value: 1}, {Key: "slot_start_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) countBy(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// CompleteElapsed marks every confirmed booking whose slot window has
// passed as completed. today is a calendar date and now a time of day,
// both in storage layout; a booking is elapsed when its slot date is
// before today, or is today with an end time at or before now.
func (r *mongoBookingRepository) CompleteElapsed(ctx context.Context, today, now string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"status": model.BookingStatusConfirmed,
		"$or": bson.A{
			bson.M{"slot_date": bson.M{"$lt": today}},
			bson.M{"slot_date": today, "slot_end_time": bson.M{"$lte": now}},
		},
	}
	update := bson.M{"$set": bson.M{
		"status":     model.BookingStatusCompleted,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to complete elapsed bookings: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
