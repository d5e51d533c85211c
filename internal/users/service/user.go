package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	userserrors "yoyaku/internal/users/errors"
	"yoyaku/internal/users/repository"
	"yoyaku/internal/users/validator"
	"yoyaku/pkg/config"
	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/model"
	"yoyaku/pkg/sanitizer"
	"yoyaku/pkg/timeparse"
	"yoyaku/pkg/validate"
)

type UserService interface {
	Create(ctx context.Context, req *model.UserCreate) (*model.UserView, error)
	GetByID(ctx context.Context, id string) (*model.UserView, error)
	GetAll(ctx context.Context) ([]*model.UserView, error)
	Delete(ctx context.Context, id string) error
}

// ReservationPurger removes the reservations owned by a deleted user so
// the cascade and the user removal commit together.
type ReservationPurger interface {
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type userService struct {
	repo      repository.UserRepository
	purger    ReservationPurger
	validator *validator.UserValidator
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	purger ReservationPurger,
	userValidator *validator.UserValidator,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		purger:    purger,
		validator: userValidator,
		cfg:       cfg,
	}
}

func (s *userService) Create(ctx context.Context, req *model.UserCreate) (*model.UserView, error) {
	sanitizeUserCreate(req)

	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("User validation failed", "error", err)
		return nil, validationError(err)
	}

	user := &model.User{
		Name:  req.Name,
		Email: req.Email,
		Tel:   req.Tel,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Duplicate("email already registered")
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User created successfully", "id", user.ID.Hex())
	return userView(user, true), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.UserView, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return userView(user, false), nil
}

func (s *userService) GetAll(ctx context.Context) ([]*model.UserView, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, apperrors.Internal("Failed to retrieve users", err)
	}

	views := make([]*model.UserView, 0, len(users))
	for _, user := range users {
		views = append(views, userView(user, false))
	}
	return views, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	var purged int64
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		purged, err = s.purger.DeleteByUserID(sessCtx, user.ID)
		if err != nil {
			return apperrors.Internal("Failed to delete user reservations", err)
		}
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, userserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("user", id)
			}
			return apperrors.Internal("Failed to delete user", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete user", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("User deleted successfully", "id", id, "reservations_removed", purged)
	return nil
}

func (s *userService) findUser(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.Validation("User ID cannot be empty", nil)
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("user", id)
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.Validation("Invalid user ID format", nil)
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return user, nil
}

func sanitizeUserCreate(req *model.UserCreate) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if tel := sanitizer.NormalizePhone(req.Tel); tel != "" {
		req.Tel = tel
	} else {
		req.Tel = sanitizer.TrimAndNormalize(req.Tel)
	}
}

func userView(user *model.User, withCreatedAt bool) *model.UserView {
	view := &model.UserView{
		UserID: user.ID.Hex(),
		Name:   user.Name,
		Email:  user.Email,
		Tel:    user.Tel,
	}
	if withCreatedAt {
		view.CreatedAt = timeparse.Format(user.CreatedAt)
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
