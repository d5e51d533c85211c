package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	spotserrors "yoyaku/internal/spots/errors"
	"yoyaku/internal/spots/repository"
	"yoyaku/internal/spots/validator"
	"yoyaku/pkg/config"
	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/model"
	"yoyaku/pkg/sanitizer"
	"yoyaku/pkg/timeparse"
	"yoyaku/pkg/validate"
)

type BookingSpotService interface {
	Create(ctx context.Context, req *model.BookingSpotCreate) (*model.BookingSpotView, error)
	GetByID(ctx context.Context, id string) (*model.BookingSpotView, error)
	GetAll(ctx context.Context) ([]*model.BookingSpotView, error)
	Delete(ctx context.Context, id string) error
}

// PlanPurger removes the plans owned by a deleted spot inside the same
// transaction that removes the spot itself.
type PlanPurger interface {
	FindIDsBySpot(ctx context.Context, spotID primitive.ObjectID) ([]primitive.ObjectID, error)
	DeleteBySpotID(ctx context.Context, spotID primitive.ObjectID) (int64, error)
}

// ReservationPurger removes the reservations held against a set of plans.
type ReservationPurger interface {
	DeleteByPlanIDs(ctx context.Context, planIDs []primitive.ObjectID) (int64, error)
}

type bookingSpotService struct {
	repo             repository.BookingSpotRepository
	planPurger       PlanPurger
	reservationPurge ReservationPurger
	validator        *validator.BookingSpotValidator
	cfg              *config.Config
}

func NewBookingSpotService(
	repo repository.BookingSpotRepository,
	planPurger PlanPurger,
	reservationPurge ReservationPurger,
	spotValidator *validator.BookingSpotValidator,
	cfg *config.Config,
) BookingSpotService {
	return &bookingSpotService{
		repo:             repo,
		planPurger:       planPurger,
		reservationPurge: reservationPurge,
		validator:        spotValidator,
		cfg:              cfg,
	}
}

func (s *bookingSpotService) Create(ctx context.Context, req *model.BookingSpotCreate) (*model.BookingSpotView, error) {
	sanitizeSpotCreate(req)

	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking spot validation failed", "error", err)
		return nil, validationError(err)
	}

	spot := &model.BookingSpot{
		Name:    req.Name,
		Address: req.Address,
		URL:     req.URL,
		Email:   req.Email,
		Tel:     req.Tel,
	}
	if err := s.repo.Create(ctx, spot); err != nil {
		if errors.Is(err, spotserrors.ErrDuplicateEmail) {
			return nil, apperrors.Duplicate("booking spot email already registered")
		}
		s.cfg.Log.Error("Failed to create booking spot", "error", err)
		return nil, apperrors.Internal("Failed to create booking spot", err)
	}

	s.cfg.Log.Info("Booking spot created successfully", "id", spot.ID.Hex())
	return spotView(spot, true), nil
}

func (s *bookingSpotService) GetByID(ctx context.Context, id string) (*model.BookingSpotView, error) {
	spot, err := s.findSpot(ctx, id)
	if err != nil {
		return nil, err
	}
	return spotView(spot, false), nil
}

func (s *bookingSpotService) GetAll(ctx context.Context) ([]*model.BookingSpotView, error) {
	spots, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list booking spots", "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking spots", err)
	}

	views := make([]*model.BookingSpotView, 0, len(spots))
	for _, spot := range spots {
		views = append(views, spotView(spot, false))
	}
	return views, nil
}

// Delete removes the spot, its plans and every reservation against those
// plans in one transaction so no orphan can survive a partial failure.
func (s *bookingSpotService) Delete(ctx context.Context, id string) error {
	spot, err := s.findSpot(ctx, id)
	if err != nil {
		return err
	}

	var plansRemoved, reservationsRemoved int64
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		planIDs, err := s.planPurger.FindIDsBySpot(sessCtx, spot.ID)
		if err != nil {
			return apperrors.Internal("Failed to resolve spot plans", err)
		}
		reservationsRemoved, err = s.reservationPurge.DeleteByPlanIDs(sessCtx, planIDs)
		if err != nil {
			return apperrors.Internal("Failed to delete spot reservations", err)
		}
		plansRemoved, err = s.planPurger.DeleteBySpotID(sessCtx, spot.ID)
		if err != nil {
			return apperrors.Internal("Failed to delete spot plans", err)
		}
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, spotserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("booking spot", id)
			}
			return apperrors.Internal("Failed to delete booking spot", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete booking spot", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking spot deleted successfully",
		"id", id,
		"plans_removed", plansRemoved,
		"reservations_removed", reservationsRemoved,
	)
	return nil
}

func (s *bookingSpotService) findSpot(ctx context.Context, id string) (*model.BookingSpot, error) {
	if id == "" {
		return nil, apperrors.Validation("Booking spot ID cannot be empty", nil)
	}

	spot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, spotserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("booking spot", id)
		}
		if errors.Is(err, spotserrors.ErrInvalidID) {
			return nil, apperrors.Validation("Invalid booking spot ID format", nil)
		}
		return nil, apperrors.Internal("Failed to retrieve booking spot", err)
	}
	return spot, nil
}

func sanitizeSpotCreate(req *model.BookingSpotCreate) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Address = sanitizer.TrimAndNormalize(req.Address)
	req.URL = sanitizer.NormalizeURL(req.URL)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if tel := sanitizer.NormalizePhone(req.Tel); tel != "" {
		req.Tel = tel
	} else {
		req.Tel = sanitizer.TrimAndNormalize(req.Tel)
	}
}

func spotView(spot *model.BookingSpot, withCreatedAt bool) *model.BookingSpotView {
	view := &model.BookingSpotView{
		BookingSpotID: spot.ID.Hex(),
		Name:          spot.Name,
		Address:       spot.Address,
		URL:           spot.URL,
		Email:         spot.Email,
		Tel:           spot.Tel,
	}
	if withCreatedAt {
		view.CreatedAt = timeparse.Format(spot.CreatedAt)
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
