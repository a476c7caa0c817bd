package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cabinet-medical/cabinet/internal/shared"
)

// Repository defines persistence operations for user credential records.
//
// FindByEmail deliberately ignores the active flag: the duplicate check on
// account creation must also reject emails held by deactivated accounts.
// The login and role-resolution paths use the active-only variants.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindActiveByEmail(ctx context.Context, email string) (*User, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*User, error)
	Insert(ctx context.Context, user *User) (uuid.UUID, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = "id, email, password_hash, role, nom, prenom, is_active, created_at"

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Nom, &u.Prenom, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByEmail fetches a user by email regardless of active state.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM utilisateurs WHERE email = $1", email)
	return scanUser(row)
}

// FindActiveByEmail fetches an active user by email.
func (r *PGRepository) FindActiveByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM utilisateurs WHERE email = $1 AND is_active", email)
	return scanUser(row)
}

// FindActiveByID fetches an active user by identifier.
func (r *PGRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM utilisateurs WHERE id = $1 AND is_active", id)
	return scanUser(row)
}

// Insert persists a new user record and returns its store-assigned id.
// A unique violation on email maps to shared.ErrDuplicateEmail.
func (r *PGRepository) Insert(ctx context.Context, user *User) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO utilisateurs (email, password_hash, role, nom, prenom, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		user.Email, user.PasswordHash, user.Role, user.Nom, user.Prenom, user.IsActive, user.CreatedAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, shared.ErrDuplicateEmail
		}
		return uuid.Nil, err
	}
	return id, nil
}

var _ Repository = (*PGRepository)(nil)
