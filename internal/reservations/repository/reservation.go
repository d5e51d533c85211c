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

	reserrors "yoyaku/internal/reservations/errors"
	"yoyaku/pkg/config"
	mongotx "yoyaku/pkg/db/mongo"
	"yoyaku/pkg/model"
)

const CollectionName = "Reservations"

// Query is the parsed form of the list filters. A nil field means no
// constraint; Start/End select every reservation whose half-open window
// intersects [Start, End), so a row spanning a boundary still shows up.
type Query struct {
	UserID  *primitive.ObjectID
	PlanIDs []primitive.ObjectID
	Start   *time.Time
	End     *time.Time
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	Find(ctx context.Context, query Query) ([]*model.Reservation, error)
	AnyOverlapping(ctx context.Context, planID primitive.ObjectID, start, end time.Time, exclude *primitive.ObjectID) (bool, error)
	Update(ctx context.Context, reservation *model.Reservation) error
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error)
	DeleteByPlanIDs(ctx context.Context, planIDs []primitive.ObjectID) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
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

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	reservation.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	var reservation model.Reservation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&reservation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return &reservation, nil
}

func (r *mongoReservationRepository) Find(ctx context.Context, query Query) ([]*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if query.UserID != nil {
		filter["user_id"] = *query.UserID
	}
	if query.PlanIDs != nil {
		filter["plan_id"] = bson.M{"$in": query.PlanIDs}
	}
	if query.End != nil {
		filter["start_datetime"] = bson.M{"$lt": *query.End}
	}
	if query.Start != nil {
		filter["end_datetime"] = bson.M{"$gt": *query.Start}
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_datetime", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return reservations, nil
}

// AnyOverlapping reports whether any reservation on the plan intersects
// [start, end). Two half-open intervals intersect exactly when each one
// starts before the other ends.
func (r *mongoReservationRepository) AnyOverlapping(ctx context.Context, planID primitive.ObjectID, start, end time.Time, exclude *primitive.ObjectID) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"plan_id":        planID,
		"start_datetime": bson.M{"$lt": end},
		"end_datetime":   bson.M{"$gt": start},
	}
	if exclude != nil {
		filter["_id"] = bson.M{"$ne": *exclude}
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check reservation overlap: %w", err)
	}
	return count > 0, nil
}

func (r *mongoReservationRepository) Update(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"user_id":        reservation.UserID,
		"plan_id":        reservation.PlanID,
		"start_datetime": reservation.StartDatetime,
		"end_datetime":   reservation.EndDatetime,
		"note":           reservation.Note,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": reservation.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	if result.MatchedCount == 0 {
		return reserrors.ErrNotFound
	}
	return nil
}

func (r *mongoReservationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	if result.DeletedCount == 0 {
		return reserrors.ErrNotFound
	}
	return nil
}

func (r *mongoReservationRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete reservations: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoReservationRepository) DeleteByPlanIDs(ctx context.Context, planIDs []primitive.ObjectID) (int64, error) {
	if len(planIDs) == 0 {
		return 0, nil
	}

	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"plan_id": bson.M{"$in": planIDs}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete reservations: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
