package view_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cabinet-medical/cabinet/internal/shared"
	"github.com/cabinet-medical/cabinet/internal/view"
)

func TestRenderLoginPage(t *testing.T) {
	engine, err := view.NewEngine()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	res := httptest.NewRecorder()
	data := view.TemplateData{
		Title:     "Connexion",
		CSRFToken: "token123",
		Flash:     &shared.FlashMessage{Kind: "error", Message: "Email ou mot de passe incorrect"},
	}
	if err := engine.Render(res, "pages/login.html", data); err != nil {
		t.Fatalf("render: %v", err)
	}

	body := res.Body.String()
	if !strings.Contains(body, `name="csrf_token" value="token123"`) {
		t.Fatalf("csrf token missing from form")
	}
	if !strings.Contains(body, "Email ou mot de passe incorrect") {
		t.Fatalf("flash message missing")
	}
	if !strings.Contains(body, "flash-error") {
		t.Fatalf("flash kind class missing")
	}
}

func TestRenderDashboards(t *testing.T) {
	engine, err := view.NewEngine()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	pages := []string{
		"pages/dashboard.html",
		"pages/admin_dashboard.html",
		"pages/medecin_dashboard.html",
		"pages/patient_dashboard.html",
	}
	for _, page := range pages {
		res := httptest.NewRecorder()
		data := view.TemplateData{Title: "Tableau de bord", Data: struct{ DisplayName string }{"Marie Bernard"}}
		if err := engine.Render(res, page, data); err != nil {
			t.Fatalf("render %s: %v", page, err)
		}
		if !strings.Contains(res.Body.String(), "Marie Bernard") {
			t.Fatalf("%s: display name missing", page)
		}
	}
}
