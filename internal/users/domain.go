package users

import "time"

// User is the listing view of an account; password material stays out.
type User struct {
	ID        string
	Email     string
	Role      string
	Nom       string
	Prenom    string
	IsActive  bool
	CreatedAt time.Time
}
