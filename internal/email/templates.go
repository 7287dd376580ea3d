package email

import (
	"fmt"
	"html"

	"beatstitch/internal/config"
	"beatstitch/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #7c3aed; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; }
        .button { display: inline-block; background: #7c3aed; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
        .error { color: #dc2626; }
    </style>
</head>
<body>
    <div class="header"><h1>%s</h1></div>
    <div class="content">%s</div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

// RenderFinished builds the notification for a successfully rendered video.
func (t *Templates) RenderFinished(job *models.RenderJob, projectName string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Your video \"%s\" is ready", projectName)

	projectURL := fmt.Sprintf("%s/projects/%s", t.cfg.BaseURL, job.ProjectID)
	content := fmt.Sprintf(`
        <p>Rendering of <strong>%s</strong> has finished.</p>
        <p><a class="button" href="%s">Watch and download</a></p>`,
		html.EscapeString(projectName), projectURL)
	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf("Rendering of %q has finished.\n\nWatch and download: %s\n", projectName, projectURL)
	return subject, htmlBody, textBody
}

// RenderFailed builds the notification for a failed render.
func (t *Templates) RenderFailed(job *models.RenderJob, projectName string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Rendering of \"%s\" failed", projectName)

	projectURL := fmt.Sprintf("%s/projects/%s", t.cfg.BaseURL, job.ProjectID)
	content := fmt.Sprintf(`
        <p>Rendering of <strong>%s</strong> did not finish.</p>
        <p class="error">%s</p>
        <p><a class="button" href="%s">Open the project</a></p>`,
		html.EscapeString(projectName), html.EscapeString(job.Error), projectURL)
	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf("Rendering of %q did not finish.\n\nError: %s\n\nOpen the project: %s\n", projectName, job.Error, projectURL)
	return subject, htmlBody, textBody
}
