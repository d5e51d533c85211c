package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	spotserrors "yoyaku/internal/spots/errors"
	"yoyaku/pkg/config"
	mongotx "yoyaku/pkg/db/mongo"
	"yoyaku/pkg/model"
)

const CollectionName = "Booking_spots"

type BookingSpotRepository interface {
	Create(ctx context.Context, spot *model.BookingSpot) error
	FindByID(ctx context.Context, id string) (*model.BookingSpot, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.BookingSpot, error)
	FindAll(ctx context.Context) ([]*model.BookingSpot, error)
	Delete(ctx context.Context, id string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingSpotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingSpotRepository(cfg *config.Config) BookingSpotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingSpotRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingSpotRepository) Create(ctx context.Context, spot *model.BookingSpot) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	spot.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, spot)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return spotserrors.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create booking spot: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		spot.ID = oid
	}
	return nil
}

func (r *mongoBookingSpotRepository) FindByID(ctx context.Context, id string) (*model.BookingSpot, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", spotserrors.ErrInvalidID, id)
	}

	var spot model.BookingSpot
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&spot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, spotserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking spot: %w", err)
	}
	return &spot, nil
}

func (r *mongoBookingSpotRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.BookingSpot, error) {
	spots := make(map[primitive.ObjectID]*model.BookingSpot, len(ids))
	if len(ids) == 0 {
		return spots, nil
	}

	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find booking spots: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var spot model.BookingSpot
		if err := cursor.Decode(&spot); err != nil {
			return nil, fmt.Errorf("failed to decode booking spot: %w", err)
		}
		spots[spot.ID] = &spot
	}
	return spots, cursor.Err()
}

func (r *mongoBookingSpotRepository) FindAll(ctx context.Context) ([]*model.BookingSpot, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find booking spots: %w", err)
	}
	defer cursor.Close(ctx)

	var spots []*model.BookingSpot
	if err = cursor.All(ctx, &spots); err != nil {
		return nil, fmt.Errorf("failed to decode booking spots: %w", err)
	}
	return spots, nil
}

func (r *mongoBookingSpotRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", spotserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete booking spot: %w", err)
	}
	if result.DeletedCount == 0 {
		return spotserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingSpotRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
