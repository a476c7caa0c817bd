package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cabinet-medical/cabinet/internal/shared"
)

// Guard wires the role-gate middleware placed in front of protected handlers.
//
// Role checks re-resolve the user through the store on every request; the
// role cached in the session is only trusted by the unguarded redirect-by-role
// convenience routes.
type Guard struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireLogin rejects requests whose session carries no user id.
func (g Guard) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || strings.TrimSpace(sess.User()) == "" {
			if sess != nil {
				sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Vous devez être connecté pour accéder à cette page"})
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles gates a handler behind a fixed set of permitted roles. The
// session user is re-resolved through the store; a vanished account or a role
// outside the set redirects to the generic dashboard.
func (g Guard) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || strings.TrimSpace(sess.User()) == "" {
				if sess != nil {
					sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Vous devez être connecté"})
				}
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			user, err := g.Service.GetUserByID(r.Context(), sess.User())
			if err != nil || !roleAllowed(user.Role, roles) {
				if err != nil && g.Logger != nil {
					g.Logger.Warn("role gate: user lookup failed", slog.String("user_id", sess.User()))
				}
				sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Vous n'avez pas les permissions nécessaires"})
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates a handler to administrators only.
func (g Guard) RequireAdmin() func(http.Handler) http.Handler {
	return g.RequireRoles(RoleAdmin)
}

// RequireMedecin gates a handler to physicians; admins pass too.
func (g Guard) RequireMedecin() func(http.Handler) http.Handler {
	return g.RequireRoles(RoleAdmin, RoleMedecin)
}

// RequirePatient gates a handler to patients; admins pass too.
func (g Guard) RequirePatient() func(http.Handler) http.Handler {
	return g.RequireRoles(RoleAdmin, RolePatient)
}

func roleAllowed(role string, permitted []string) bool {
	for _, p := range permitted {
		if role == p {
			return true
		}
	}
	return false
}
