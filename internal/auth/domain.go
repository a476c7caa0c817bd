package auth

import (
	"time"

	"github.com/google/uuid"
)

// Roles recognised by the clinic. Accounts created without a role fall back
// to the generic dashboard.
const (
	RoleAdmin   = "admin"
	RoleMedecin = "medecin"
	RolePatient = "patient"
)

// User represents a stored credential record. It is the sole source of truth
// for role resolution and never leaves the auth package with its hash attached.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	Nom          string
	Prenom       string
	IsActive     bool
	CreatedAt    time.Time
}

// UserDescriptor is the sanitized view handed to callers after a successful
// authentication or lookup. It carries no password material.
type UserDescriptor struct {
	ID     string
	Email  string
	Role   string
	Nom    string
	Prenom string
}

// Descriptor strips the record down to its session-safe fields.
func (u *User) Descriptor() *UserDescriptor {
	return &UserDescriptor{
		ID:     u.ID.String(),
		Email:  u.Email,
		Role:   u.Role,
		Nom:    u.Nom,
		Prenom: u.Prenom,
	}
}

// DashboardPath maps a role to its landing page. Unknown or empty roles land
// on the generic dashboard.
func DashboardPath(role string) string {
	switch role {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleMedecin:
		return "/medecin/dashboard"
	case RolePatient:
		return "/patient/dashboard"
	default:
		return "/dashboard"
	}
}
