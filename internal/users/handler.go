package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cabinet-medical/cabinet/internal/auth"
	"github.com/cabinet-medical/cabinet/internal/shared"
	"github.com/cabinet-medical/cabinet/internal/view"
)

// Handler manages the admin user-management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	engine    *auth.Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	guard     auth.Guard
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, engine *auth.Service, templates *view.Engine, csrf *shared.CSRFManager, guard auth.Guard) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		engine:    engine,
		templates: templates,
		csrf:      csrf,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers user management routes, admin only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAdmin())
		r.Get("/admin/users", h.listUsers)
		r.Post("/admin/users", h.createUser)
	})
}

type createForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Role     string `validate:"required,oneof=admin medecin patient"`
	Nom      string
	Prenom   string
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, map[string]any{"Users": accounts})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := createForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Role:     r.PostFormValue("role"),
		Nom:      strings.TrimSpace(r.PostFormValue("nom")),
		Prenom:   strings.TrimSpace(r.PostFormValue("prenom")),
	}
	if err := h.validator.Struct(form); err != nil {
		h.redirectWithFlash(w, r, "error", "Formulaire invalide: vérifiez l'email, le rôle et la longueur du mot de passe")
		return
	}

	_, err := h.engine.CreateUser(r.Context(), form.Email, form.Password, form.Role, form.Nom, form.Prenom)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateEmail) {
			h.redirectWithFlash(w, r, "error", "Cet email existe déjà")
			return
		}
		h.logger.Error("create user", slog.Any("error", err))
		h.redirectWithFlash(w, r, "error", "Erreur lors de la création: "+err.Error())
		return
	}
	h.redirectWithFlash(w, r, "success", "Utilisateur créé avec succès")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data map[string]any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Utilisateurs",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/users.html", viewData); err != nil {
		h.logger.Error("render users", slog.Any("error", err))
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}
