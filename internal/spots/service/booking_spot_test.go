package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	spotserrors "yoyaku/internal/spots/errors"
	"yoyaku/internal/spots/validator"
	"yoyaku/pkg/config"
	mongotx "yoyaku/pkg/db/mongo"
	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/logger"
	"yoyaku/pkg/model"
)

type memSpotRepo struct {
	spots map[primitive.ObjectID]*model.BookingSpot
}

func newMemSpotRepo() *memSpotRepo {
	return &memSpotRepo{spots: make(map[primitive.ObjectID]*model.BookingSpot)}
}

func (r *memSpotRepo) Create(_ context.Context, spot *model.BookingSpot) error {
	spot.ID = primitive.NewObjectID()
	copied := *spot
	r.spots[spot.ID] = &copied
	return nil
}

func (r *memSpotRepo) FindByID(_ context.Context, id string) (*model.BookingSpot, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, spotserrors.ErrInvalidID
	}
	spot, ok := r.spots[oid]
	if !ok {
		return nil, spotserrors.ErrNotFound
	}
	return spot, nil
}

func (r *memSpotRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.BookingSpot, error) {
	out := make(map[primitive.ObjectID]*model.BookingSpot)
	for _, id := range ids {
		if spot, ok := r.spots[id]; ok {
			out[id] = spot
		}
	}
	return out, nil
}

func (r *memSpotRepo) FindAll(_ context.Context) ([]*model.BookingSpot, error) {
	var out []*model.BookingSpot
	for _, spot := range r.spots {
		out = append(out, spot)
	}
	return out, nil
}

func (r *memSpotRepo) Delete(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return spotserrors.ErrInvalidID
	}
	if _, ok := r.spots[oid]; !ok {
		return spotserrors.ErrNotFound
	}
	delete(r.spots, oid)
	return nil
}

func (r *memSpotRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type stubPlanPurger struct {
	planIDs      []primitive.ObjectID
	deletedSpots []primitive.ObjectID
}

func (p *stubPlanPurger) FindIDsBySpot(_ context.Context, _ primitive.ObjectID) ([]primitive.ObjectID, error) {
	return p.planIDs, nil
}

func (p *stubPlanPurger) DeleteBySpotID(_ context.Context, spotID primitive.ObjectID) (int64, error) {
	p.deletedSpots = append(p.deletedSpots, spotID)
	return int64(len(p.planIDs)), nil
}

type stubReservationPurger struct {
	purged [][]primitive.ObjectID
}

func (p *stubReservationPurger) DeleteByPlanIDs(_ context.Context, planIDs []primitive.ObjectID) (int64, error) {
	p.purged = append(p.purged, planIDs)
	return int64(len(planIDs)), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:  logger.ERROR,
			Format: logger.TEXT,
			Output: io.Discard,
		}),
	}
}

func newService(repo *memSpotRepo, plans *stubPlanPurger, reservations *stubReservationPurger) BookingSpotService {
	cfg := testConfig()
	return NewBookingSpotService(repo, plans, reservations, validator.NewBookingSpotValidator(cfg.Log), cfg)
}

func TestCreateBookingSpotSanitizesInput(t *testing.T) {
	repo := newMemSpotRepo()
	svc := newService(repo, &stubPlanPurger{}, &stubReservationPurger{})

	view, err := svc.Create(context.Background(), &model.BookingSpotCreate{
		Name:  "  Shibuya   Studio ",
		URL:   "HTTP://Example.COM/studio",
		Email: " INFO@Example.com ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Name != "Shibuya Studio" {
		t.Errorf("name = %q, want collapsed whitespace", view.Name)
	}
	if view.URL != "https://example.com/studio" {
		t.Errorf("url = %q, want https with lowercase host", view.URL)
	}
	if view.Email != "info@example.com" {
		t.Errorf("email = %q, want lowercased", view.Email)
	}
}

func TestCreateBookingSpotRequiresName(t *testing.T) {
	svc := newService(newMemSpotRepo(), &stubPlanPurger{}, &stubReservationPurger{})

	_, err := svc.Create(context.Background(), &model.BookingSpotCreate{Name: "  "})
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteBookingSpotCascades(t *testing.T) {
	repo := newMemSpotRepo()
	planIDs := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	plans := &stubPlanPurger{planIDs: planIDs}
	reservations := &stubReservationPurger{}
	svc := newService(repo, plans, reservations)

	view, err := svc.Create(context.Background(), &model.BookingSpotCreate{Name: "studio"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), view.BookingSpotID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if len(reservations.purged) != 1 || len(reservations.purged[0]) != 2 {
		t.Fatalf("reservation purges = %v, want one call with both plan ids", reservations.purged)
	}
	if len(plans.deletedSpots) != 1 {
		t.Fatalf("plan purges = %d, want 1", len(plans.deletedSpots))
	}
	if len(repo.spots) != 0 {
		t.Errorf("spot still present after delete")
	}
}

func TestDeleteBookingSpotNotFound(t *testing.T) {
	svc := newService(newMemSpotRepo(), &stubPlanPurger{}, &stubReservationPurger{})

	err := svc.Delete(context.Background(), primitive.NewObjectID().Hex())
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
