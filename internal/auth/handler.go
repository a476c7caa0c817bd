package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cabinet-medical/cabinet/internal/shared"
	"github.com/cabinet-medical/cabinet/internal/view"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	guard          Guard
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager, guard Guard) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		templates:      templates,
		sessionManager: sessions,
		csrfManager:    csrf,
		guard:          guard,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.With(h.guard.RequireLogin).Get("/logout", h.handleLogout)
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// handleIndex sends visitors to the dashboard matching their session role, or
// to the login page when no one is signed in. This is the one place the
// session-cached role is trusted without a store round-trip.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil && sess.User() != "" {
		http.Redirect(w, r, DashboardPath(sess.Get(shared.SessionKeyUserRole)), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil && sess.User() != "" {
		http.Redirect(w, r, DashboardPath(sess.Get(shared.SessionKeyUserRole)), http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess != nil && sess.User() != "" {
		http.Redirect(w, r, DashboardPath(sess.Get(shared.SessionKeyUserRole)), http.StatusSeeOther)
		return
	}

	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if err := h.validator.Struct(form); err != nil {
		msg := "Veuillez remplir tous les champs"
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				if fe.Tag() == "email" {
					msg = "Adresse email invalide"
				}
			}
		}
		if sess != nil {
			sess.AddFlash(shared.FlashMessage{Kind: "error", Message: msg})
		}
		h.renderLogin(w, r, http.StatusBadRequest)
		return
	}

	user, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		if sess != nil {
			sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Email ou mot de passe incorrect"})
		}
		h.renderLogin(w, r, http.StatusUnauthorized)
		return
	}

	if sess == nil {
		h.logger.Error("session missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sess.SetPersistent()
	sess.SetUser(user.ID)
	sess.Set(shared.SessionKeyUserEmail, user.Email)
	sess.Set(shared.SessionKeyUserRole, user.Role)
	sess.Set(shared.SessionKeyUserNom, user.Nom)
	sess.Set(shared.SessionKeyUserPrenom, user.Prenom)

	nomComplet := strings.TrimSpace(user.Prenom + " " + user.Nom)
	if nomComplet != "" {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Bienvenue " + nomComplet + "!"})
	} else {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Bienvenue " + user.Email + "!"})
	}

	http.Redirect(w, r, DashboardPath(user.Role), http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	name := sess.Get(shared.SessionKeyUserPrenom)
	if name == "" {
		name = sess.Get(shared.SessionKeyUserEmail)
	}
	if name == "" {
		name = "Utilisateur"
	}

	sess.Clear()
	sess.AddFlash(shared.FlashMessage{Kind: "info", Message: "Au revoir " + name + "! Vous avez été déconnecté."})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Connexion",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/login.html", viewData); err != nil {
		h.logger.Error("render login", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
