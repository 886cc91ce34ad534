package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	slotserrors "rezerveo/internal/slots/errors"
	"rezerveo/pkg/config"
	mongotx "rezerveo/pkg/db/mongo"
	"rezerveo/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Slots"
)

// AvailableFilter narrows the public available-slot listing. Empty
// fields match everything.
type AvailableFilter struct {
	Date        string
	ServiceType string
	MechanicID  string
}

type SlotRepository interface {
	Insert(ctx context.Context, slot *model.Slot) error
	FindByUUID(ctx context.Context, uuid string) (*model.Slot, error)
	FindOverlapping(ctx context.Context, mechanicUUID, date, startTime, endTime string) (*model.Slot, error)
	FindByMechanic(ctx context.Context, mechanicUUID string, limit int, offset int64) ([]*model.Slot, error)
	CountByMechanic(ctx context.Context, mechanicUUID string) (int64, error)
	FindAvailable(ctx context.Context, filter AvailableFilter, limit int, offset int64) ([]*model.Slot, error)
	CountAvailable(ctx context.Context, filter AvailableFilter) (int64, error)
	UpdateStatus(ctx context.Context, uuid, status string) (*mongo.UpdateResult, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoSlotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoSlotRepository(cfg *config.Config) SlotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless it is a session
// context; wrapping one would break transaction semantics.
func (r *mongoSlotRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSlotRepository) Insert(ctx context.Context, slot *model.Slot) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	slot.CreatedAt = now
	slot.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, slot)
	if err != nil {
		return fmt.Errorf("failed to insert slot: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		slot.ID = oid
	}
	return nil
}

func (r *mongoSlotRepository) FindByUUID(ctx context.Context, uuid string) (*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var slot model.Slot
	err := r.collection.FindOne(ctx, bson.M{"uuid": uuid}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, slotserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}
	return &slot, nil
}

// FindOverlapping returns a non-cancelled slot of the mechanic whose
// window touches [startTime, endTime] on the given date, or nil.
// Boundaries are inclusive: a slot ending exactly at startTime overlaps.
// Times are zero-padded HH:MM strings, so range comparison is plain
// lexicographic ordering.
func (r *mongoSlotRepository) FindOverlapping(ctx context.Context, mechanicUUID, date, startTime, endTime string) (*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"mechanic_uuid": mechanicUUID,
		"date":          date,
		"status":        bson.M{"$ne": model.SlotStatusCancelled},
		"start_time":    bson.M{"$lte": endTime},
		"end_time":      bson.M{"$gte": startTime},
	}

	var slot model.Slot
	err := r.collection.FindOne(ctx, filter).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check slot overlap: %w", err)
	}
	return &slot, nil
}

func (r *mongoSlotRepository) FindByMechanic(ctx context.Context, mechanicUUID string, limit int, offset int64) ([]*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"mechanic_uuid": mechanicUUID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list mechanic slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode mechanic slots: %w", err)
	}
	return slots, nil
}

func (r *mongoSlotRepository) CountByMechanic(ctx context.Context, mechanicUUID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"mechanic_uuid": mechanicUUID})
	if err != nil {
		return 0, fmt.Errorf("failed to count mechanic slots: %w", err)
	}
	return count, nil
}

func availableFilterQuery(filter AvailableFilter) bson.M {
	query := bson.M{"status": model.SlotStatusAvailable}
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	if filter.ServiceType != "" {
		query["service_type"] = filter.ServiceType
	}
	if filter.MechanicID != "" {
		query["mechanic_uuid"] = filter.MechanicID
	}
	return query
}

func (r *mongoSlotRepository) FindAvailable(ctx context.Context, filter AvailableFilter, limit int, offset int64) ([]*model.Slot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, availableFilterQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list available slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode available slots: %w", err)
	}
	return slots, nil
}

func (r *mongoSlotRepository) CountAvailable(ctx context.Context, filter AvailableFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, availableFilterQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count available slots: %w", err)
	}
	return count, nil
}

func (r *mongoSlotRepository) UpdateStatus(ctx context.Context, uuid, status string) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"uuid": uuid}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update slot status: %w", err)
	}
	return result, nil
}

func (r *mongoSlotRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
