package email

import (
	"beatstitch/internal/config"
	"beatstitch/internal/models"
)

// Notifier sends email notifications for render job events.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
	}
}

// NotifyRenderFinished emails the submitting user when their render job
// reaches a terminal state. recipient may be empty (user had no email claim).
func (n *Notifier) NotifyRenderFinished(job *models.RenderJob, projectName, recipient string) {
	if !n.service.IsEnabled() || recipient == "" {
		return
	}

	var subject, htmlBody, textBody string
	switch job.Status {
	case models.JobCompleted:
		subject, htmlBody, textBody = n.templates.RenderFinished(job, projectName)
	case models.JobFailed:
		subject, htmlBody, textBody = n.templates.RenderFailed(job, projectName)
	default:
		return // cancelled jobs are user-initiated, no mail
	}

	n.service.SendAsync([]string{recipient}, subject, htmlBody, textBody)
}
