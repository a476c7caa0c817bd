package dashboard

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cabinet-medical/cabinet/internal/auth"
	"github.com/cabinet-medical/cabinet/internal/shared"
	"github.com/cabinet-medical/cabinet/internal/view"
)

// Handler serves the per-role landing pages.
type Handler struct {
	logger    *slog.Logger
	templates *view.Engine
	guard     auth.Guard
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, templates *view.Engine, guard auth.Guard) *Handler {
	return &Handler{logger: logger, templates: templates, guard: guard}
}

// MountRoutes registers the dashboard routes behind their role gates.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.RequireLogin).Get("/dashboard", h.page("Tableau de bord", "pages/dashboard.html"))
	r.With(h.guard.RequireAdmin()).Get("/admin/dashboard", h.page("Administration", "pages/admin_dashboard.html"))
	r.With(h.guard.RequireMedecin()).Get("/medecin/dashboard", h.page("Médecin", "pages/medecin_dashboard.html"))
	r.With(h.guard.RequirePatient()).Get("/patient/dashboard", h.page("Patient", "pages/patient_dashboard.html"))
}

type pageData struct {
	DisplayName string
	Role        string
}

func (h *Handler) page(title, template string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		var flash *shared.FlashMessage
		data := pageData{}
		if sess != nil {
			flash = sess.PopFlash()
			data.Role = sess.Get(shared.SessionKeyUserRole)
			data.DisplayName = displayName(sess)
		}
		viewData := view.TemplateData{
			Title:       title,
			Flash:       flash,
			CurrentPath: r.URL.Path,
			Data:        data,
		}
		if err := h.templates.Render(w, template, viewData); err != nil {
			h.logger.Error("render dashboard", slog.String("template", template), slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

func displayName(sess *shared.Session) string {
	full := strings.TrimSpace(sess.Get(shared.SessionKeyUserPrenom) + " " + sess.Get(shared.SessionKeyUserNom))
	if full != "" {
		return full
	}
	return sess.Get(shared.SessionKeyUserEmail)
}
