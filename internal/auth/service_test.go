package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/cabinet-medical/cabinet/internal/auth"
	"github.com/cabinet-medical/cabinet/internal/shared"
	_ "github.com/cabinet-medical/cabinet/testing"
)

// stubRepo is an in-memory Repository with optional failure injection.
type stubRepo struct {
	byID    map[uuid.UUID]*auth.User
	byEmail map[string]*auth.User
	findErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		byID:    make(map[uuid.UUID]*auth.User),
		byEmail: make(map[string]*auth.User),
	}
}

func (s *stubRepo) add(u *auth.User) *auth.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.byID[u.ID] = u
	s.byEmail[u.Email] = u
	return u
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindActiveByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if u, ok := s.byEmail[email]; ok && u.IsActive {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if u, ok := s.byID[id]; ok && u.IsActive {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) Insert(ctx context.Context, u *auth.User) (uuid.UUID, error) {
	if _, ok := s.byEmail[u.Email]; ok {
		return uuid.Nil, shared.ErrDuplicateEmail
	}
	stored := *u
	added := s.add(&stored)
	return added.ID, nil
}

var _ auth.Repository = (*stubRepo)(nil)

func TestHashPasswordVerifies(t *testing.T) {
	hash, err := auth.HashPassword("secret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret-pass" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !auth.VerifyPassword("secret-pass", hash) {
		t.Fatalf("expected hash to verify against original plaintext")
	}
	if auth.VerifyPassword("other-pass", hash) {
		t.Fatalf("expected different plaintext to fail verification")
	}
}

func TestHashPasswordSaltedPerCall(t *testing.T) {
	first, err := auth.HashPassword("secret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := auth.HashPassword("secret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same plaintext must differ")
	}
	if !auth.VerifyPassword("secret-pass", first) || !auth.VerifyPassword("secret-pass", second) {
		t.Fatalf("both salted hashes must verify against the plaintext")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := auth.NewService(newStubRepo())
	ctx := context.Background()

	id, err := svc.CreateUser(ctx, "a@x.com", "pw", auth.RolePatient, "", "")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a store-assigned identifier")
	}

	if _, err := svc.CreateUser(ctx, "a@x.com", "pw2", auth.RolePatient, "", ""); !errors.Is(err, shared.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestCreateUserDuplicateIncludesInactive(t *testing.T) {
	repo := newStubRepo()
	hash, _ := auth.HashPassword("pw")
	repo.add(&auth.User{Email: "gone@x.com", PasswordHash: hash, Role: auth.RolePatient, IsActive: false})

	svc := auth.NewService(repo)
	if _, err := svc.CreateUser(context.Background(), "gone@x.com", "pw", auth.RolePatient, "", ""); !errors.Is(err, shared.ErrDuplicateEmail) {
		t.Fatalf("deactivated account must still block its email, got %v", err)
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := newStubRepo()
	svc := auth.NewService(repo)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "b@x.com", "secret", auth.RoleAdmin, "Dupont", "Claire"); err != nil {
		t.Fatalf("create: %v", err)
	}

	user, err := svc.Authenticate(ctx, "b@x.com", "secret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Role != auth.RoleAdmin {
		t.Fatalf("expected role admin, got %q", user.Role)
	}
	if user.Email != "b@x.com" || user.Nom != "Dupont" || user.Prenom != "Claire" {
		t.Fatalf("unexpected descriptor: %+v", user)
	}
	if user.ID == "" {
		t.Fatalf("descriptor must carry the identifier")
	}

	if _, err := svc.Authenticate(ctx, "b@x.com", "wrong"); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateFailuresIndistinguishable(t *testing.T) {
	repo := newStubRepo()
	svc := auth.NewService(repo)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "real@x.com", "rightpw", auth.RolePatient, "", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, unknownErr := svc.Authenticate(ctx, "nobody@x.com", "anything")
	_, wrongErr := svc.Authenticate(ctx, "real@x.com", "wrongpw")

	if !errors.Is(unknownErr, shared.ErrInvalidCredentials) || !errors.Is(wrongErr, shared.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", unknownErr, wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("unknown-email and wrong-password failures must be indistinguishable")
	}
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	repo := newStubRepo()
	hash, _ := auth.HashPassword("correct")
	repo.add(&auth.User{Email: "off@x.com", PasswordHash: hash, Role: auth.RoleMedecin, IsActive: false})

	svc := auth.NewService(repo)
	if _, err := svc.Authenticate(context.Background(), "off@x.com", "correct"); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("deactivated account must never authenticate, got %v", err)
	}
}

func TestGetUserByID(t *testing.T) {
	repo := newStubRepo()
	hash, _ := auth.HashPassword("pw")
	stored := repo.add(&auth.User{Email: "c@x.com", PasswordHash: hash, Role: auth.RolePatient, IsActive: true})

	svc := auth.NewService(repo)
	ctx := context.Background()

	user, err := svc.GetUserByID(ctx, stored.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.Email != "c@x.com" {
		t.Fatalf("unexpected descriptor: %+v", user)
	}
}

func TestGetUserByIDMasksAllFailures(t *testing.T) {
	repo := newStubRepo()
	svc := auth.NewService(repo)
	ctx := context.Background()

	// Malformed identifier.
	if _, err := svc.GetUserByID(ctx, "not-a-uuid"); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("malformed id: expected ErrNotFound, got %v", err)
	}

	// Missing record.
	if _, err := svc.GetUserByID(ctx, uuid.NewString()); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("missing record: expected ErrNotFound, got %v", err)
	}

	// Underlying store failure collapses to not-found as well.
	repo.findErr = errors.New("connection reset")
	if _, err := svc.GetUserByID(ctx, uuid.NewString()); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("store failure: expected ErrNotFound, got %v", err)
	}
}

func TestGetUserByIDIgnoresInactive(t *testing.T) {
	repo := newStubRepo()
	hash, _ := auth.HashPassword("pw")
	stored := repo.add(&auth.User{Email: "d@x.com", PasswordHash: hash, Role: auth.RolePatient, IsActive: false})

	svc := auth.NewService(repo)
	if _, err := svc.GetUserByID(context.Background(), stored.ID.String()); !errors.Is(err, shared.ErrNotFound) {
		t.Fatalf("inactive record must resolve as not found, got %v", err)
	}
}
