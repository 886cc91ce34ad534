package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "rezerveo/internal/bookings/errors"
	"rezerveo/pkg/config"
	"rezerveo/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SlotClaimRepository manages advisory claims over slots. A claim is a
// document whose _id is the slot UUID, so inserting it is an atomic
// test-and-set: exactly one concurrent booking attempt gets in. The TTL
// index on expires_at clears claims orphaned by a crash.
type SlotClaimRepository interface {
	Acquire(ctx context.Context, slotUUID string, ttl time.Duration) error
	Release(ctx context.Context, slotUUID string) error
}

type mongoSlotClaimRepository struct {
	collection *mongo.Collection
}

func NewSlotClaimRepository(cfg *config.Config) SlotClaimRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotClaimRepository{
		collection: db.Collection("Slot_claims"),
	}
}

func (r *mongoSlotClaimRepository) Acquire(ctx context.Context, slotUUID string, ttl time.Duration) error {
	now := time.Now().UTC()
	claim := model.SlotClaim{
		ID:        slotUUID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, claim)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrClaimHeld
		}
		return fmt.Errorf("failed to acquire slot claim: %w", err)
	}
	return nil
}

func (r *mongoSlotClaimRepository) Release(ctx context.Context, slotUUID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": slotUUID})
	if err != nil {
		return fmt.Errorf("failed to release slot claim: %w", err)
	}
	return nil
}
