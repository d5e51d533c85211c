package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	planserrors "yoyaku/internal/plans/errors"
	"yoyaku/internal/plans/repository"
	"yoyaku/internal/plans/validator"
	spotserrors "yoyaku/internal/spots/errors"
	spotsrepo "yoyaku/internal/spots/repository"
	"yoyaku/pkg/config"
	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/model"
	"yoyaku/pkg/sanitizer"
	"yoyaku/pkg/timeparse"
	"yoyaku/pkg/validate"
)

type PlanService interface {
	Create(ctx context.Context, spotID string, req *model.PlanCreate) (*model.PlanView, error)
	GetByID(ctx context.Context, id string) (*model.PlanView, error)
	GetBySpot(ctx context.Context, spotID string) ([]*model.PlanView, error)
	Delete(ctx context.Context, id string) error
}

// ReservationPurger removes the reservations held against a set of plans.
type ReservationPurger interface {
	DeleteByPlanIDs(ctx context.Context, planIDs []primitive.ObjectID) (int64, error)
}

type planService struct {
	repo      repository.PlanRepository
	spots     spotsrepo.BookingSpotRepository
	purger    ReservationPurger
	validator *validator.PlanValidator
	cfg       *config.Config
}

func NewPlanService(
	repo repository.PlanRepository,
	spots spotsrepo.BookingSpotRepository,
	purger ReservationPurger,
	planValidator *validator.PlanValidator,
	cfg *config.Config,
) PlanService {
	return &planService{
		repo:      repo,
		spots:     spots,
		purger:    purger,
		validator: planValidator,
		cfg:       cfg,
	}
}

func (s *planService) Create(ctx context.Context, spotID string, req *model.PlanCreate) (*model.PlanView, error) {
	spot, err := s.findSpot(ctx, spotID)
	if err != nil {
		return nil, err
	}

	req.Name = sanitizer.NormalizeName(req.Name)
	req.Description = sanitizer.NormalizeNote(req.Description)

	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Plan validation failed", "error", err)
		return nil, validationError(err)
	}

	plan := &model.Plan{
		BookingSpotID:      spot.ID,
		Name:               req.Name,
		Description:        req.Description,
		Price:              0,
		DefaultDurationMin: s.cfg.DefaultPlanDurationMin,
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.DefaultDurationMin != nil {
		plan.DefaultDurationMin = *req.DefaultDurationMin
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		if errors.Is(err, planserrors.ErrDuplicateName) {
			return nil, apperrors.Duplicate("plan name already used in this spot")
		}
		s.cfg.Log.Error("Failed to create plan", "spot_id", spotID, "error", err)
		return nil, apperrors.Internal("Failed to create plan", err)
	}

	s.cfg.Log.Info("Plan created successfully", "id", plan.ID.Hex(), "spot_id", spotID)
	return planView(plan, true), nil
}

func (s *planService) GetByID(ctx context.Context, id string) (*model.PlanView, error) {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	return planView(plan, false), nil
}

func (s *planService) GetBySpot(ctx context.Context, spotID string) ([]*model.PlanView, error) {
	spot, err := s.findSpot(ctx, spotID)
	if err != nil {
		return nil, err
	}

	plans, err := s.repo.FindBySpot(ctx, spot.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to list plans", "spot_id", spotID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve plans", err)
	}

	views := make([]*model.PlanView, 0, len(plans))
	for _, plan := range plans {
		views = append(views, planView(plan, false))
	}
	return views, nil
}

// Delete removes the plan together with its reservations in one
// transaction.
func (s *planService) Delete(ctx context.Context, id string) error {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return err
	}

	var purged int64
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		purged, err = s.purger.DeleteByPlanIDs(sessCtx, []primitive.ObjectID{plan.ID})
		if err != nil {
			return apperrors.Internal("Failed to delete plan reservations", err)
		}
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, planserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("plan", id)
			}
			return apperrors.Internal("Failed to delete plan", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete plan", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Plan deleted successfully", "id", id, "reservations_removed", purged)
	return nil
}

func (s *planService) findPlan(ctx context.Context, id string) (*model.Plan, error) {
	if id == "" {
		return nil, apperrors.Validation("Plan ID cannot be empty", nil)
	}

	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, planserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("plan", id)
		}
		if errors.Is(err, planserrors.ErrInvalidID) {
			return nil, apperrors.Validation("Invalid plan ID format", nil)
		}
		return nil, apperrors.Internal("Failed to retrieve plan", err)
	}
	return plan, nil
}

func (s *planService) findSpot(ctx context.Context, spotID string) (*model.BookingSpot, error) {
	if spotID == "" {
		return nil, apperrors.Validation("Booking spot ID cannot be empty", nil)
	}

	spot, err := s.spots.FindByID(ctx, spotID)
	if err != nil {
		if errors.Is(err, spotserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("booking spot", spotID)
		}
		if errors.Is(err, spotserrors.ErrInvalidID) {
			return nil, apperrors.Validation("Invalid booking spot ID format", nil)
		}
		return nil, apperrors.Internal("Failed to retrieve booking spot", err)
	}
	return spot, nil
}

func planView(plan *model.Plan, withCreatedAt bool) *model.PlanView {
	view := &model.PlanView{
		PlanID:             plan.ID.Hex(),
		BookingSpotID:      plan.BookingSpotID.Hex(),
		Name:               plan.Name,
		Description:        plan.Description,
		Price:              plan.Price,
		DefaultDurationMin: plan.DefaultDurationMin,
	}
	if withCreatedAt {
		view.CreatedAt = timeparse.Format(plan.CreatedAt)
	}
	return view
}

func validationError(err error) error {
	var fieldErrs validate.FieldErrors
	if errors.As(err, &fieldErrs) {
		return apperrors.Validation("Invalid input", fieldErrs.Details())
	}
	return apperrors.Validation(err.Error(), nil)
}
