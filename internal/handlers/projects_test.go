package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"beatstitch/internal/config"
	"beatstitch/internal/engine"
	"beatstitch/internal/jobs"
	"beatstitch/internal/models"
	"beatstitch/internal/testutil"
)

func newProjectTestApp(t *testing.T, stub *testutil.EngineStub) *fiber.App {
	t.Helper()

	client := engine.NewClient(stub.URL, "svc-token", 5*time.Second)
	h := NewProjectHandler(client, jobs.NewRegistry(), nil, &config.Config{})

	app := fiber.New()
	app.Post("/projects", h.Create)
	app.Delete("/projects/:id", h.Delete)
	return app
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values, htmx bool) *http.Response {
	t.Helper()
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestProjectCreateRedirects(t *testing.T) {
	stub := testutil.NewEngineStub(t)
	created := testutil.Project("beach day")
	stub.Handle("POST /api/projects", func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateProjectRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Name != "beach day" {
			testutil.WriteErr(w, http.StatusBadRequest, "wrong name")
			return
		}
		testutil.WriteOK(w, created)
	})

	app := newProjectTestApp(t, stub)
	form := url.Values{"name": {"beach day"}, "beat_rule": {"every 4 beats"}}

	resp := postForm(t, app, "/projects", form, true)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	want := "/projects/" + created.ID.String()
	if got := resp.Header.Get("HX-Redirect"); got != want {
		t.Errorf("HX-Redirect = %q, want %q", got, want)
	}
}

func TestProjectCreateRejectsBadName(t *testing.T) {
	app := newProjectTestApp(t, testutil.NewEngineStub(t))

	tests := []struct {
		name string
		form url.Values
	}{
		{"empty name", url.Values{"name": {""}}},
		{"name too long", url.Values{"name": {strings.Repeat("x", 200)}}},
		{"rule too long", url.Values{"name": {"ok"}, "beat_rule": {strings.Repeat("y", 500)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postForm(t, app, "/projects", tt.form, true)
			// Validation errors render as an inline HTMX error div with 200.
			if resp.StatusCode != fiber.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), "text-red-700") {
				t.Errorf("expected error div, got %q", body)
			}
			if resp.Header.Get("HX-Redirect") != "" {
				t.Error("validation failure must not redirect")
			}
		})
	}
}

func TestProjectCreateDuplicateName(t *testing.T) {
	stub := testutil.NewEngineStub(t)
	stub.Handle("POST /api/projects", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteErr(w, http.StatusConflict, "project name already exists")
	})

	app := newProjectTestApp(t, stub)
	resp := postForm(t, app, "/projects", url.Values{"name": {"beach day"}}, true)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "already exists") {
		t.Errorf("expected duplicate-name message, got %q", body)
	}
}

func TestProjectDelete(t *testing.T) {
	stub := testutil.NewEngineStub(t)
	projectID := uuid.New()
	stub.Handle("DELETE /api/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != projectID.String() {
			testutil.WriteErr(w, http.StatusNotFound, "project not found")
			return
		}
		testutil.WriteOK(w, map[string]any{"deleted": projectID})
	})

	app := newProjectTestApp(t, stub)
	req, _ := http.NewRequest("DELETE", "/projects/"+projectID.String(), nil)
	req.Header.Set("HX-Request", "true")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("HX-Redirect"); got != "/" {
		t.Errorf("HX-Redirect = %q, want /", got)
	}
}
