package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	planserrors "yoyaku/internal/plans/errors"
	spotserrors "yoyaku/internal/spots/errors"
	"yoyaku/internal/plans/validator"
	"yoyaku/pkg/config"
	mongotx "yoyaku/pkg/db/mongo"
	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/logger"
	"yoyaku/pkg/model"
)

type memPlanRepo struct {
	plans map[primitive.ObjectID]*model.Plan
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: make(map[primitive.ObjectID]*model.Plan)}
}

func (r *memPlanRepo) Create(_ context.Context, plan *model.Plan) error {
	for _, existing := range r.plans {
		if existing.BookingSpotID == plan.BookingSpotID && existing.Name == plan.Name {
			return planserrors.ErrDuplicateName
		}
	}
	plan.ID = primitive.NewObjectID()
	copied := *plan
	r.plans[plan.ID] = &copied
	return nil
}

func (r *memPlanRepo) FindByID(_ context.Context, id string) (*model.Plan, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, planserrors.ErrInvalidID
	}
	plan, ok := r.plans[oid]
	if !ok {
		return nil, planserrors.ErrNotFound
	}
	return plan, nil
}

func (r *memPlanRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Plan, error) {
	out := make(map[primitive.ObjectID]*model.Plan)
	for _, id := range ids {
		if plan, ok := r.plans[id]; ok {
			out[id] = plan
		}
	}
	return out, nil
}

func (r *memPlanRepo) FindBySpot(_ context.Context, spotID primitive.ObjectID) ([]*model.Plan, error) {
	var out []*model.Plan
	for _, plan := range r.plans {
		if plan.BookingSpotID == spotID {
			out = append(out, plan)
		}
	}
	return out, nil
}

func (r *memPlanRepo) FindIDsBySpot(_ context.Context, spotID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for id, plan := range r.plans {
		if plan.BookingSpotID == spotID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *memPlanRepo) Delete(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return planserrors.ErrInvalidID
	}
	if _, ok := r.plans[oid]; !ok {
		return planserrors.ErrNotFound
	}
	delete(r.plans, oid)
	return nil
}

func (r *memPlanRepo) DeleteBySpotID(_ context.Context, spotID primitive.ObjectID) (int64, error) {
	var n int64
	for id, plan := range r.plans {
		if plan.BookingSpotID == spotID {
			delete(r.plans, id)
			n++
		}
	}
	return n, nil
}

func (r *memPlanRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type stubSpotRepo struct {
	spots map[primitive.ObjectID]*model.BookingSpot
}

func newStubSpotRepo() *stubSpotRepo {
	return &stubSpotRepo{spots: make(map[primitive.ObjectID]*model.BookingSpot)}
}

func (r *stubSpotRepo) add(name string) primitive.ObjectID {
	id := primitive.NewObjectID()
	r.spots[id] = &model.BookingSpot{ID: id, Name: name}
	return id
}

func (r *stubSpotRepo) Create(_ context.Context, _ *model.BookingSpot) error { return nil }

func (r *stubSpotRepo) FindByID(_ context.Context, id string) (*model.BookingSpot, error) {
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

func (r *stubSpotRepo) FindByIDs(_ context.Context, _ []primitive.ObjectID) (map[primitive.ObjectID]*model.BookingSpot, error) {
	return nil, nil
}

func (r *stubSpotRepo) FindAll(_ context.Context) ([]*model.BookingSpot, error) { return nil, nil }

func (r *stubSpotRepo) Delete(_ context.Context, _ string) error { return nil }

func (r *stubSpotRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type stubReservationPurger struct {
	purgedPlans [][]primitive.ObjectID
	count       int64
}

func (p *stubReservationPurger) DeleteByPlanIDs(_ context.Context, planIDs []primitive.ObjectID) (int64, error) {
	p.purgedPlans = append(p.purgedPlans, planIDs)
	return p.count, nil
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultPlanDurationMin: 60,
		Log: logger.New(logger.Config{
			Level:  logger.ERROR,
			Format: logger.TEXT,
			Output: io.Discard,
		}),
	}
}

func newService(repo *memPlanRepo, spots *stubSpotRepo, purger *stubReservationPurger) PlanService {
	cfg := testConfig()
	return NewPlanService(repo, spots, purger, validator.NewPlanValidator(cfg.Log), cfg)
}

func intPtr(v int) *int { return &v }

func TestCreatePlanAppliesDefaults(t *testing.T) {
	repo := newMemPlanRepo()
	spots := newStubSpotRepo()
	spotID := spots.add("studio")
	svc := newService(repo, spots, &stubReservationPurger{})

	view, err := svc.Create(context.Background(), spotID.Hex(), &model.PlanCreate{Name: "basic"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Price != 0 {
		t.Errorf("price = %d, want default 0", view.Price)
	}
	if view.DefaultDurationMin != 60 {
		t.Errorf("default_duration_min = %d, want config default 60", view.DefaultDurationMin)
	}
	if view.BookingSpotID != spotID.Hex() {
		t.Errorf("booking_spot_id = %s, want %s", view.BookingSpotID, spotID.Hex())
	}
}

func TestCreatePlanExplicitZeroPrice(t *testing.T) {
	repo := newMemPlanRepo()
	spots := newStubSpotRepo()
	spotID := spots.add("studio")
	svc := newService(repo, spots, &stubReservationPurger{})

	view, err := svc.Create(context.Background(), spotID.Hex(), &model.PlanCreate{
		Name:               "premium",
		Price:              intPtr(0),
		DefaultDurationMin: intPtr(90),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Price != 0 || view.DefaultDurationMin != 90 {
		t.Errorf("got price=%d duration=%d, want 0 and 90", view.Price, view.DefaultDurationMin)
	}
}

func TestCreatePlanDuplicateNameInSpot(t *testing.T) {
	repo := newMemPlanRepo()
	spots := newStubSpotRepo()
	spotID := spots.add("studio")
	otherSpot := spots.add("annex")
	svc := newService(repo, spots, &stubReservationPurger{})

	if _, err := svc.Create(context.Background(), spotID.Hex(), &model.PlanCreate{Name: "basic"}); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	_, err := svc.Create(context.Background(), spotID.Hex(), &model.PlanCreate{Name: "basic"})
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeDuplicate {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if appErr.StatusCode() != 409 {
		t.Errorf("status = %d, want 409", appErr.StatusCode())
	}

	// The same name is fine under a different spot.
	if _, err := svc.Create(context.Background(), otherSpot.Hex(), &model.PlanCreate{Name: "basic"}); err != nil {
		t.Fatalf("same name in different spot rejected: %v", err)
	}
}

func TestCreatePlanRejectsNegativePrice(t *testing.T) {
	repo := newMemPlanRepo()
	spots := newStubSpotRepo()
	spotID := spots.add("studio")
	svc := newService(repo, spots, &stubReservationPurger{})

	_, err := svc.Create(context.Background(), spotID.Hex(), &model.PlanCreate{
		Name:  "bad",
		Price: intPtr(-100),
	})
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePlanSpotNotFound(t *testing.T) {
	svc := newService(newMemPlanRepo(), newStubSpotRepo(), &stubReservationPurger{})

	_, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), &model.PlanCreate{Name: "basic"})
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeletePlanCascadesReservations(t *testing.T) {
	repo := newMemPlanRepo()
	spots := newStubSpotRepo()
	spotID := spots.add("studio")
	purger := &stubReservationPurger{count: 2}
	svc := newService(repo, spots, purger)

	view, err := svc.Create(context.Background(), spotID.Hex(), &model.PlanCreate{Name: "basic"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), view.PlanID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(purger.purgedPlans) != 1 || len(purger.purgedPlans[0]) != 1 {
		t.Fatalf("purger calls = %v, want one call with one plan", purger.purgedPlans)
	}
	if purger.purgedPlans[0][0].Hex() != view.PlanID {
		t.Errorf("purged plan = %s, want %s", purger.purgedPlans[0][0].Hex(), view.PlanID)
	}
	if len(repo.plans) != 0 {
		t.Errorf("plan still present after delete")
	}
}
