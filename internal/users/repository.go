package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort defines data access methods for account listings.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListUsers returns all accounts, newest first, without password hashes.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, role, nom, prenom, is_active, created_at
		FROM utilisateurs
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var id uuid.UUID
		var u User
		if err := rows.Scan(&id, &u.Email, &u.Role, &u.Nom, &u.Prenom, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.ID = id.String()
		users = append(users, u)
	}
	return users, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)
