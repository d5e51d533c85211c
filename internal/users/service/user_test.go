package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	userserrors "yoyaku/internal/users/errors"
	"yoyaku/internal/users/validator"
	"yoyaku/pkg/config"
	mongotx "yoyaku/pkg/db/mongo"
	apperrors "yoyaku/pkg/errors"
	"yoyaku/pkg/logger"
	"yoyaku/pkg/model"
)

type memUserRepo struct {
	users     map[primitive.ObjectID]*model.User
	createErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]*model.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, userserrors.ErrInvalidID
	}
	user, ok := r.users[oid]
	if !ok {
		return nil, userserrors.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.User, error) {
	out := make(map[primitive.ObjectID]*model.User)
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out[id] = user
		}
	}
	return out, nil
}

func (r *memUserRepo) FindAll(_ context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return userserrors.ErrInvalidID
	}
	if _, ok := r.users[oid]; !ok {
		return userserrors.ErrNotFound
	}
	delete(r.users, oid)
	return nil
}

func (r *memUserRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type stubPurger struct {
	deleted []primitive.ObjectID
	count   int64
}

func (p *stubPurger) DeleteByUserID(_ context.Context, userID primitive.ObjectID) (int64, error) {
	p.deleted = append(p.deleted, userID)
	return p.count, nil
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

func newService(repo *memUserRepo, purger *stubPurger) UserService {
	cfg := testConfig()
	return NewUserService(repo, purger, validator.NewUserValidator(cfg.Log), cfg)
}

func TestCreateUserSanitizesInput(t *testing.T) {
	repo := newMemUserRepo()
	svc := newService(repo, &stubPurger{})

	view, err := svc.Create(context.Background(), &model.UserCreate{
		Name:  "  Tanaka   Taro ",
		Email: " TARO@Example.COM ",
		Tel:   "090-1234-5678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Name != "Tanaka Taro" {
		t.Errorf("name = %q, want collapsed whitespace", view.Name)
	}
	if view.Email != "taro@example.com" {
		t.Errorf("email = %q, want lowercased", view.Email)
	}
	if view.Tel != "+819012345678" {
		t.Errorf("tel = %q, want E.164", view.Tel)
	}
	if view.CreatedAt == "" {
		t.Error("created_at missing from create response")
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc := newService(newMemUserRepo(), &stubPurger{})

	cases := []struct {
		name string
		req  model.UserCreate
	}{
		{"empty name", model.UserCreate{Name: "   "}},
		{"bad email", model.UserCreate{Name: "Taro", Email: "not-an-email"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tc.req)
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	repo.createErr = userserrors.ErrDuplicateEmail
	svc := newService(repo, &stubPurger{})

	_, err := svc.Create(context.Background(), &model.UserCreate{Name: "Taro", Email: "taro@example.com"})
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeDuplicate {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if appErr.StatusCode() != 409 {
		t.Errorf("status = %d, want 409", appErr.StatusCode())
	}
}

func TestDeleteUserCascadesReservations(t *testing.T) {
	repo := newMemUserRepo()
	purger := &stubPurger{count: 3}
	svc := newService(repo, purger)

	view, err := svc.Create(context.Background(), &model.UserCreate{Name: "Taro"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), view.UserID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(purger.deleted) != 1 {
		t.Fatalf("purger called %d times, want 1", len(purger.deleted))
	}
	if purger.deleted[0].Hex() != view.UserID {
		t.Errorf("purged user = %s, want %s", purger.deleted[0].Hex(), view.UserID)
	}
	if len(repo.users) != 0 {
		t.Errorf("user still present after delete")
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc := newService(newMemUserRepo(), &stubPurger{})

	_, err := svc.GetByID(context.Background(), primitive.NewObjectID().Hex())
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetUserInvalidID(t *testing.T) {
	svc := newService(newMemUserRepo(), &stubPurger{})

	_, err := svc.GetByID(context.Background(), "short")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
