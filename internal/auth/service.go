package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cabinet-medical/cabinet/internal/shared"
)

// HashPassword produces a salted bcrypt hash of the plaintext. The salt is
// random per call, so hashing the same plaintext twice yields different
// outputs that both verify.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext reproduces the stored hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateUser registers a new account and returns its identifier.
//
// The duplicate check runs against every stored record, active or not; an
// email held by a deactivated account still blocks creation.
func (s *Service) CreateUser(ctx context.Context, email, password, role, nom, prenom string) (string, error) {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return "", shared.ErrDuplicateEmail
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return "", fmt.Errorf("create user: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	user := &User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Nom:          nom,
		Prenom:       prenom,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	id, err := s.repo.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateEmail) {
			return "", shared.ErrDuplicateEmail
		}
		return "", fmt.Errorf("create user: %w", err)
	}
	return id.String(), nil
}

// Authenticate validates email/password credentials against the active
// records. A missing account and a wrong password are indistinguishable: both
// return shared.ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*UserDescriptor, error) {
	user, err := s.repo.FindActiveByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, shared.ErrInvalidCredentials
	}
	return user.Descriptor(), nil
}

// GetUserByID resolves an active user by its string identifier. A malformed
// id, a missing row and any store failure all collapse to shared.ErrNotFound;
// lookup errors never surface as a distinct kind.
func (s *Service) GetUserByID(ctx context.Context, id string) (*UserDescriptor, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	user, err := s.repo.FindActiveByID(ctx, uid)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return user.Descriptor(), nil
}
