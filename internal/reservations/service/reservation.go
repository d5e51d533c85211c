package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	planserrors "yoyaku/internal/plans/errors"
	reserrors "yoyaku/internal/reservations/errors"
	"yoyaku/internal/reservations/repository"
	"yoyaku/internal/reservations/validator"
	userserrors "yoyaku/internal/users/errors"
	"yoyaku/pkg/config"
	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/model"
	"yoyaku/pkg/sanitizer"
	"yoyaku/pkg/timeparse"
	"yoyaku/pkg/validate"
)

type ReservationService interface {
	Create(ctx context.Context, req *model.ReservationCreate) (string, error)
	GetByID(ctx context.Context, id string) (*model.ReservationView, error)
	List(ctx context.Context, filter model.ReservationFilter) ([]*model.ReservationView, error)
	Update(ctx context.Context, id string, req *model.ReservationUpdate) error
	Delete(ctx context.Context, id string) error
}

// UserStore is the slice of the users repository the booking flow needs:
// resolving a booker by id, creating one inline, and id-joining for
// list views.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.User, error)
}

// PlanStore is the slice of the plans repository the booking flow needs.
type PlanStore interface {
	FindByID(ctx context.Context, id string) (*model.Plan, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Plan, error)
	FindIDsBySpot(ctx context.Context, spotID primitive.ObjectID) ([]primitive.ObjectID, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	locks     repository.ReservationLockRepository
	users     UserStore
	plans     PlanStore
	events    EventPublisher
	validator *validator.ReservationValidator
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	locks repository.ReservationLockRepository,
	users UserStore,
	plans PlanStore,
	events EventPublisher,
	reservationValidator *validator.ReservationValidator,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		locks:     locks,
		users:     users,
		plans:     plans,
		events:    events,
		validator: reservationValidator,
		cfg:       cfg,
	}
}

// Create books a plan for a half-open window. The overlap check and the
// insert run inside one transaction, under the plan's advisory lock, so
// two concurrent requests for the same window produce exactly one
// reservation and one overlap rejection.
func (s *reservationService) Create(ctx context.Context, req *model.ReservationCreate) (string, error) {
	req.Note = sanitizer.NormalizeNote(req.Note)

	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return "", validationError(err)
	}

	// Referenced entities are resolved before the window is inspected so
	// a missing plan or user reads as not-found, not as a bad window.
	plan, err := s.findPlan(ctx, req.PlanID)
	if err != nil {
		return "", err
	}

	user, err := s.resolveUser(ctx, req)
	if err != nil {
		return "", err
	}

	start, end, err := parseWindow(req.StartDatetime, req.EndDatetime)
	if err != nil {
		return "", err
	}

	if err := s.acquirePlanLock(ctx, plan.ID); err != nil {
		return "", err
	}
	defer s.releasePlanLock(ctx, plan.ID)

	reservation := &model.Reservation{
		UserID:        user.ID,
		PlanID:        plan.ID,
		StartDatetime: start,
		EndDatetime:   end,
		Note:          req.Note,
	}
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		overlaps, err := s.repo.AnyOverlapping(sessCtx, plan.ID, start, end, nil)
		if err != nil {
			return apperrors.Internal("Failed to check reservation overlap", err)
		}
		if overlaps {
			return overlapError(plan.ID, start, end)
		}
		if err := s.repo.Create(sessCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID.Hex(),
		"plan_id", plan.ID.Hex(),
		"user_id", user.ID.Hex(),
	)
	s.publishEvent(ctx, EventReservationCreated, reservation)
	return reservation.ID.Hex(), nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.ReservationView, error) {
	reservation, err := s.findReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := s.buildViews(ctx, []*model.Reservation{reservation})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *reservationService) List(ctx context.Context, filter model.ReservationFilter) ([]*model.ReservationView, error) {
	query, empty, err := s.buildQuery(ctx, filter)
	if err != nil {
		return nil, err
	}
	if empty {
		return []*model.ReservationView{}, nil
	}

	reservations, err := s.repo.Find(ctx, query)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations", "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}
	return s.buildViews(ctx, reservations)
}

// Update applies a partial update and re-runs the overlap check against
// the merged result, excluding the reservation itself so an unchanged
// window never conflicts with its own row.
func (s *reservationService) Update(ctx context.Context, id string, req *model.ReservationUpdate) error {
	if err := s.validator.ValidateUpdate(req); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return validationError(err)
	}

	reservation, err := s.findReservation(ctx, id)
	if err != nil {
		return err
	}

	startRaw := timeparse.Format(reservation.StartDatetime)
	if req.StartDatetime != nil {
		startRaw = *req.StartDatetime
	}
	endRaw := timeparse.Format(reservation.EndDatetime)
	if req.EndDatetime != nil {
		endRaw = *req.EndDatetime
	}
	start, end, err := parseWindow(startRaw, endRaw)
	if err != nil {
		return err
	}

	planID := reservation.PlanID
	if req.PlanID != nil {
		plan, err := s.findPlan(ctx, *req.PlanID)
		if err != nil {
			return err
		}
		planID = plan.ID
	}

	userID := reservation.UserID
	if req.UserID != nil {
		user, err := s.findUser(ctx, *req.UserID)
		if err != nil {
			return err
		}
		userID = user.ID
	}

	note := reservation.Note
	if req.Note != nil {
		note = sanitizer.NormalizeNote(*req.Note)
	}

	if err := s.acquirePlanLock(ctx, planID); err != nil {
		return err
	}
	defer s.releasePlanLock(ctx, planID)

	reservation.UserID = userID
	reservation.PlanID = planID
	reservation.StartDatetime = start
	reservation.EndDatetime = end
	reservation.Note = note

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		overlaps, err := s.repo.AnyOverlapping(sessCtx, planID, start, end, &reservation.ID)
		if err != nil {
			return apperrors.Internal("Failed to check reservation overlap", err)
		}
		if overlaps {
			return overlapError(planID, start, end)
		}
		if err := s.repo.Update(sessCtx, reservation); err != nil {
			if errors.Is(err, reserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("reservation", id)
			}
			return apperrors.Internal("Failed to update reservation", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Reservation updated successfully", "id", id, "plan_id", planID.Hex())
	s.publishEvent(ctx, EventReservationUpdated, reservation)
	return nil
}

func (s *reservationService) Delete(ctx context.Context, id string) error {
	reservation, err := s.findReservation(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("reservation", id)
		}
		s.cfg.Log.Error("Failed to delete reservation", "id", id, "error", err)
		return apperrors.Internal("Failed to delete reservation", err)
	}

	s.cfg.Log.Info("Reservation deleted successfully", "id", id)
	s.publishEvent(ctx, EventReservationDeleted, reservation)
	return nil
}

// acquirePlanLock claims the plan's advisory lock, retrying while it is
// held elsewhere. Exhausting the wait budget is reported as a transient
// timeout rather than a business rejection.
func (s *reservationService) acquirePlanLock(ctx context.Context, planID primitive.ObjectID) error {
	deadline := time.Now().Add(s.cfg.PlanLockWaitTimeout)
	for {
		err := s.locks.Acquire(ctx, planID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, reserrors.ErrLockHeld) {
			return apperrors.Internal("Failed to acquire plan lock", err)
		}
		if time.Now().After(deadline) {
			s.cfg.Log.Warn("Timed out waiting for plan lock", "plan_id", planID.Hex())
			return apperrors.Timeout("Plan is busy, retry the request")
		}
		select {
		case <-ctx.Done():
			return apperrors.Timeout("Request cancelled while waiting for plan lock")
		case <-time.After(s.cfg.PlanLockRetryInterval):
		}
	}
}

func (s *reservationService) releasePlanLock(ctx context.Context, planID primitive.ObjectID) {
	// The request context may already be cancelled; release must still
	// run or the plan stays locked until the TTL reaps it.
	if err := s.locks.Release(context.WithoutCancel(ctx), planID); err != nil {
		s.cfg.Log.Warn("Failed to release plan lock", "plan_id", planID.Hex(), "error", err)
	}
}

// resolveUser returns the booker: an existing user when user_id is set,
// otherwise a user created inline. The inline insert commits on its own
// so the user survives even if the reservation is later rejected.
func (s *reservationService) resolveUser(ctx context.Context, req *model.ReservationCreate) (*model.User, error) {
	if req.UserID != "" {
		return s.findUser(ctx, req.UserID)
	}

	inline := req.User
	user := &model.User{
		Name:  sanitizer.NormalizeName(inline.Name),
		Email: sanitizer.NormalizeEmail(inline.Email),
	}
	if tel := sanitizer.NormalizePhone(inline.Tel); tel != "" {
		user.Tel = tel
	} else {
		user.Tel = sanitizer.TrimAndNormalize(inline.Tel)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Duplicate("email already registered")
		}
		s.cfg.Log.Error("Failed to create inline user", "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}
	return user, nil
}

func (s *reservationService) buildQuery(ctx context.Context, filter model.ReservationFilter) (repository.Query, bool, error) {
	var query repository.Query

	switch {
	case filter.Date != "":
		if filter.Start != "" || filter.End != "" {
			return query, false, apperrors.Validation("date cannot be combined with start/end", nil)
		}
		dayStart, dayEnd, err := timeparse.DayRangeUTC(filter.Date)
		if err != nil {
			return query, false, apperrors.Validation("Invalid date", map[string]any{"field": "date"})
		}
		query.Start, query.End = &dayStart, &dayEnd
	case filter.Start != "" || filter.End != "":
		if filter.Start == "" || filter.End == "" {
			return query, false, apperrors.Validation("start and end must be provided together", nil)
		}
		start, err := timeparse.Parse(filter.Start)
		if err != nil {
			return query, false, apperrors.Validation("Invalid start", map[string]any{"field": "start"})
		}
		end, err := timeparse.Parse(filter.End)
		if err != nil {
			return query, false, apperrors.Validation("Invalid end", map[string]any{"field": "end"})
		}
		if !end.After(start) {
			return query, false, apperrors.Validation("end must be after start", nil)
		}
		query.Start, query.End = &start, &end
	}

	if filter.UserID != "" {
		userID, err := primitive.ObjectIDFromHex(filter.UserID)
		if err != nil {
			return query, false, apperrors.Validation("Invalid user_id format", nil)
		}
		query.UserID = &userID
	}

	var planIDs []primitive.ObjectID
	if filter.PlanID != "" {
		planID, err := primitive.ObjectIDFromHex(filter.PlanID)
		if err != nil {
			return query, false, apperrors.Validation("Invalid plan_id format", nil)
		}
		planIDs = []primitive.ObjectID{planID}
	}
	if filter.BookingSpotID != "" {
		spotID, err := primitive.ObjectIDFromHex(filter.BookingSpotID)
		if err != nil {
			return query, false, apperrors.Validation("Invalid booking_spot_id format", nil)
		}
		spotPlanIDs, err := s.plans.FindIDsBySpot(ctx, spotID)
		if err != nil {
			return query, false, apperrors.Internal("Failed to resolve spot plans", err)
		}
		if len(spotPlanIDs) == 0 {
			return query, true, nil
		}
		if planIDs == nil {
			planIDs = spotPlanIDs
		} else {
			planIDs = intersect(planIDs, spotPlanIDs)
			if len(planIDs) == 0 {
				return query, true, nil
			}
		}
	}
	query.PlanIDs = planIDs

	return query, false, nil
}

// buildViews id-joins users and plans in two batch lookups and renders
// the outbound shape. A missing join row leaves a nil ref rather than
// failing the whole listing.
func (s *reservationService) buildViews(ctx context.Context, reservations []*model.Reservation) ([]*model.ReservationView, error) {
	userIDs := make([]primitive.ObjectID, 0, len(reservations))
	planIDs := make([]primitive.ObjectID, 0, len(reservations))
	seenUsers := make(map[primitive.ObjectID]bool)
	seenPlans := make(map[primitive.ObjectID]bool)
	for _, reservation := range reservations {
		if !seenUsers[reservation.UserID] {
			seenUsers[reservation.UserID] = true
			userIDs = append(userIDs, reservation.UserID)
		}
		if !seenPlans[reservation.PlanID] {
			seenPlans[reservation.PlanID] = true
			planIDs = append(planIDs, reservation.PlanID)
		}
	}

	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve reservation users", err)
	}
	plans, err := s.plans.FindByIDs(ctx, planIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve reservation plans", err)
	}

	views := make([]*model.ReservationView, 0, len(reservations))
	for _, reservation := range reservations {
		view := &model.ReservationView{
			ReservationID: reservation.ID.Hex(),
			StartDatetime: timeparse.Format(reservation.StartDatetime),
			EndDatetime:   timeparse.Format(reservation.EndDatetime),
			Note:          reservation.Note,
			CreatedAt:     timeparse.Format(reservation.CreatedAt),
		}
		if user, ok := users[reservation.UserID]; ok {
			view.User = &model.ReservationUserRef{
				UserID: user.ID.Hex(),
				Name:   user.Name,
				Email:  user.Email,
			}
		}
		if plan, ok := plans[reservation.PlanID]; ok {
			view.Plan = &model.ReservationPlanRef{
				PlanID:        plan.ID.Hex(),
				Name:          plan.Name,
				BookingSpotID: plan.BookingSpotID.Hex(),
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *reservationService) findReservation(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.Validation("Reservation ID cannot be empty", nil)
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("reservation", id)
		}
		if errors.Is(err, reserrors.ErrInvalidID) {
			return nil, apperrors.Validation("Invalid reservation ID format", nil)
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}
	return reservation, nil
}

func (s *reservationService) findPlan(ctx context.Context, id string) (*model.Plan, error) {
	plan, err := s.plans.FindByID(ctx, id)
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

func (s *reservationService) findUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
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

// parseWindow normalizes both instants to UTC and enforces a non-empty
// half-open window.
func parseWindow(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := timeparse.Parse(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("Invalid start_datetime", map[string]any{"field": "start_datetime"})
	}
	end, err := timeparse.Parse(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("Invalid end_datetime", map[string]any{"field": "end_datetime"})
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, apperrors.Unprocessable("end_datetime must be after start_datetime", nil)
	}
	return start, end, nil
}

func overlapError(planID primitive.ObjectID, start, end time.Time) error {
	return apperrors.Overlap("reservation overlaps an existing reservation for this plan", map[string]any{
		"plan_id":        planID.Hex(),
		"start_datetime": timeparse.Format(start),
		"end_datetime":   timeparse.Format(end),
	})
}

func intersect(a, b []primitive.ObjectID) []primitive.ObjectID {
	set := make(map[primitive.ObjectID]bool, len(b))
	for _, id := range b {
		set[id] = true
	}
	var out []primitive.ObjectID
	for _, id := range a {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}

func validationError(err error) error {
	var fieldErrs validate.FieldErrors
	if errors.As(err, &fieldErrs) {
		return apperrors.Validation("Invalid input", fieldErrs.Details())
	}
	return apperrors.Validation(err.Error(), nil)
}
