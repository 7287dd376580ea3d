package email

import (
	"net/smtp"
	"strings"
	"testing"

	"beatstitch/internal/config"
	"beatstitch/internal/models"

	"github.com/google/uuid"
)

func testConfig() *config.Config {
	return &config.Config{
		SMTPHost:     "smtp.example.com",
		SMTPPort:     587,
		SMTPFrom:     "noreply@example.com",
		SMTPFromName: "BeatStitch",
		SiteTitle:    "BeatStitch",
		BaseURL:      "http://localhost:3000",
	}
}

func TestSendEmailDisabled(t *testing.T) {
	s := NewService(&config.Config{})
	if s.IsEnabled() {
		t.Fatal("service should be disabled without SMTP config")
	}

	// Must be a no-op, not an error.
	if err := s.SendEmail([]string{"a@example.com"}, "subject", "<p>hi</p>", "hi"); err != nil {
		t.Errorf("SendEmail() on disabled service error: %v", err)
	}
}

func TestSendEmailMessageFormat(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg string

	s := NewService(testConfig())
	s.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
		return nil
	}

	err := s.SendEmail([]string{"user@example.com"}, "Your video is ready", "<p>done</p>", "done")
	if err != nil {
		t.Fatalf("SendEmail() error: %v", err)
	}

	if gotAddr != "smtp.example.com:587" {
		t.Errorf("addr = %q", gotAddr)
	}
	if gotFrom != "noreply@example.com" {
		t.Errorf("from = %q", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "user@example.com" {
		t.Errorf("to = %v", gotTo)
	}

	for _, want := range []string{
		"From: BeatStitch <noreply@example.com>",
		"Subject: Your video is ready",
		"Content-Type: multipart/alternative",
		"Content-Type: text/plain",
		"Content-Type: text/html",
		"<p>done</p>",
	} {
		if !strings.Contains(gotMsg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestRenderFinishedTemplate(t *testing.T) {
	tmpl := NewTemplates(testConfig())
	job := &models.RenderJob{ID: uuid.New(), ProjectID: uuid.New(), Status: models.JobCompleted}

	subject, htmlBody, textBody := tmpl.RenderFinished(job, "Summer Trip")

	if !strings.Contains(subject, "Summer Trip") {
		t.Errorf("subject = %q", subject)
	}
	wantURL := "http://localhost:3000/projects/" + job.ProjectID.String()
	if !strings.Contains(htmlBody, wantURL) {
		t.Errorf("html body missing project URL %q", wantURL)
	}
	if !strings.Contains(textBody, wantURL) {
		t.Errorf("text body missing project URL %q", wantURL)
	}
}

func TestRenderFailedTemplateEscapesError(t *testing.T) {
	tmpl := NewTemplates(testConfig())
	job := &models.RenderJob{
		ID:        uuid.New(),
		ProjectID: uuid.New(),
		Status:    models.JobFailed,
		Error:     `codec <script>alert(1)</script> unsupported`,
	}

	_, htmlBody, _ := tmpl.RenderFailed(job, "Trip")
	if strings.Contains(htmlBody, "<script>") {
		t.Error("html body must escape the engine error message")
	}
	if !strings.Contains(htmlBody, "&lt;script&gt;") {
		t.Error("html body should contain the escaped error text")
	}
}
