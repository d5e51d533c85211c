package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	reserrors "yoyaku/internal/reservations/errors"
	"yoyaku/pkg/config"
	"yoyaku/pkg/model"
)

const LockCollectionName = "Reservation_locks"

// ReservationLockRepository is a per-plan advisory lock backed by a
// single-document unique insert. The unique _id makes acquisition
// atomic; the TTL keeps a crashed holder from wedging the plan forever.
type ReservationLockRepository interface {
	Acquire(ctx context.Context, planID primitive.ObjectID) error
	Release(ctx context.Context, planID primitive.ObjectID) error
}

type mongoReservationLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReservationLockRepository(cfg *config.Config) ReservationLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func lockID(planID primitive.ObjectID) string {
	return fmt.Sprintf("plan_%s", planID.Hex())
}

// Acquire inserts the lock document, claiming the plan. When the insert
// collides with a live lock it reports ErrLockHeld; an expired lock is
// reaped so the caller's next attempt can win.
func (r *mongoReservationLockRepository) Acquire(ctx context.Context, planID primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock := model.ReservationLock{
		ID:        lockID(planID),
		ExpiresAt: now.Add(r.cfg.PlanLockTTL),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to acquire plan lock: %w", err)
	}

	_, delErr := r.collection.DeleteOne(ctx, bson.M{
		"_id":        lock.ID,
		"expires_at": bson.M{"$lt": now},
	})
	if delErr != nil {
		return fmt.Errorf("failed to reap expired plan lock: %w", delErr)
	}
	return reserrors.ErrLockHeld
}

func (r *mongoReservationLockRepository) Release(ctx context.Context, planID primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID(planID)})
	if err != nil {
		return fmt.Errorf("failed to release plan lock: %w", err)
	}
	return nil
}
