package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"beatstitch/internal/engine"
	"beatstitch/internal/jobs"
	"beatstitch/internal/models"
	"beatstitch/internal/testutil"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func newAPIApp(t *testing.T, stub *testutil.EngineStub, registry *jobs.Registry) *fiber.App {
	t.Helper()

	client := engine.NewClient(stub.URL, "svc-token", 5*time.Second)
	projectsAPI := NewProjectsHandler(client)
	jobsAPI := NewJobsHandler(client, registry)
	ruleAPI := NewRuleHandler()

	app := fiber.New()
	app.Get("/api/projects", projectsAPI.List)
	app.Post("/api/projects", projectsAPI.Create)
	app.Get("/api/projects/:id", projectsAPI.Get)
	app.Delete("/api/projects/:id", projectsAPI.Delete)
	app.Get("/api/jobs/:id", jobsAPI.Get)
	app.Get("/api/rules/preview", ruleAPI.Preview)
	return app
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	return env
}

func TestProjectsList(t *testing.T) {
	stub := testutil.NewEngineStub(t)
	fixture := testutil.Project("summer cut")
	stub.Handle("GET /api/projects", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteOK(w, []models.Project{fixture})
	})

	app := newAPIApp(t, stub, jobs.NewRegistry())
	req, _ := http.NewRequest("GET", "/api/projects", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	if env.Status != "ok" {
		t.Fatalf("expected ok envelope, got %q (%s)", env.Status, env.Error)
	}
	var projects []models.Project
	if err := json.Unmarshal(env.Data, &projects); err != nil {
		t.Fatalf("decoding projects: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "summer cut" {
		t.Errorf("unexpected projects: %+v", projects)
	}
}

func TestProjectsGetNotFound(t *testing.T) {
	stub := testutil.NewEngineStub(t)
	stub.Handle("GET /api/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteErr(w, http.StatusNotFound, "project not found")
	})

	app := newAPIApp(t, stub, jobs.NewRegistry())
	req, _ := http.NewRequest("GET", "/api/projects/"+uuid.NewString(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if env := decodeEnvelope(t, resp); env.Status != "error" {
		t.Errorf("expected error envelope, got %q", env.Status)
	}
}

func TestProjectsGetInvalidID(t *testing.T) {
	app := newAPIApp(t, testutil.NewEngineStub(t), jobs.NewRegistry())
	req, _ := http.NewRequest("GET", "/api/projects/not-a-uuid", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestProjectsCreate(t *testing.T) {
	stub := testutil.NewEngineStub(t)
	stub.Handle("POST /api/projects", func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			testutil.WriteErr(w, http.StatusBadRequest, "bad body")
			return
		}
		p := testutil.Project(req.Name)
		p.BeatRule = req.BeatRule
		testutil.WriteOK(w, p)
	})

	app := newAPIApp(t, stub, jobs.NewRegistry())
	body := strings.NewReader(`{"name":"road trip","beat_rule":"every 2 beats"}`)
	req, _ := http.NewRequest("POST", "/api/projects", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	var project models.Project
	if err := json.Unmarshal(env.Data, &project); err != nil {
		t.Fatalf("decoding project: %v", err)
	}
	if project.Name != "road trip" || project.BeatRule != "every 2 beats" {
		t.Errorf("unexpected project: %+v", project)
	}
}

func TestProjectsCreateRejectsEmptyName(t *testing.T) {
	app := newAPIApp(t, testutil.NewEngineStub(t), jobs.NewRegistry())
	req, _ := http.NewRequest("POST", "/api/projects", strings.NewReader(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestJobsGetFromRegistry(t *testing.T) {
	registry := jobs.NewRegistry()
	job := testutil.RenderJob(uuid.New(), models.JobProcessing)
	registry.Track(&job, "summer cut", "alice@example.com", "")

	app := newAPIApp(t, testutil.NewEngineStub(t), registry)
	req, _ := http.NewRequest("GET", "/api/jobs/"+job.ID.String(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	var status models.JobStatusResponse
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if status.Job.ID != job.ID || status.Job.Status != models.JobProcessing {
		t.Errorf("unexpected job: %+v", status.Job)
	}
	if status.Stale {
		t.Error("freshly tracked job reported stale")
	}
}

func TestJobsGetFallsBackToEngine(t *testing.T) {
	stub := testutil.NewEngineStub(t)
	job := testutil.RenderJob(uuid.New(), models.JobCompleted)
	stub.Handle("GET /api/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteOK(w, job)
	})

	app := newAPIApp(t, stub, jobs.NewRegistry())
	req, _ := http.NewRequest("GET", "/api/jobs/"+job.ID.String(), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	var status models.JobStatusResponse
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if status.Job.Status != models.JobCompleted {
		t.Errorf("unexpected status %q", status.Job.Status)
	}
}

func TestRulePreview(t *testing.T) {
	app := newAPIApp(t, testutil.NewEngineStub(t), jobs.NewRegistry())

	tests := []struct {
		name        string
		query       string
		beatsPerCut int
		isDefault   bool
	}{
		{"explicit phrase", "rule=" + "every%204%20beats", 4, false},
		{"keyword", "rule=fast", 2, false},
		{"empty falls back", "rule=", 8, true},
		{"gibberish falls back", "rule=zzzz", 8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/api/rules/preview?"+tt.query, nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != fiber.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}

			env := decodeEnvelope(t, resp)
			var preview models.RulePreviewResponse
			if err := json.Unmarshal(env.Data, &preview); err != nil {
				t.Fatalf("decoding preview: %v", err)
			}
			if preview.BeatsPerCut != tt.beatsPerCut {
				t.Errorf("beats per cut = %d, want %d", preview.BeatsPerCut, tt.beatsPerCut)
			}
			if preview.IsDefault != tt.isDefault {
				t.Errorf("is default = %v, want %v", preview.IsDefault, tt.isDefault)
			}
		})
	}
}
