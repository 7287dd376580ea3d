package jobs

import (
	"context"
	"errors"
	"log"
	"time"

	"beatstitch/internal/email"
	"beatstitch/internal/engine"
	"beatstitch/internal/models"
)

// terminalRetention is how long finished jobs stay in the registry so the UI
// can still show their final state.
const terminalRetention = time.Hour

// Watcher polls the engine for tracked render jobs until they finish.
type Watcher struct {
	registry *Registry
	client   *engine.Client
	notifier *email.Notifier
	interval time.Duration
}

// NewWatcher creates a render-job watcher.
func NewWatcher(registry *Registry, client *engine.Client, notifier *email.Notifier, interval time.Duration) *Watcher {
	return &Watcher{
		registry: registry,
		client:   client,
		notifier: notifier,
		interval: interval,
	}
}

// Start begins the polling loop. It blocks until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	log.Printf("Render job watcher started (interval: %v)", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Render job watcher stopped")
			return
		case <-ticker.C:
			w.pollAll(ctx)
		}
	}
}

// pollAll refreshes every non-terminal tracked job.
func (w *Watcher) pollAll(ctx context.Context) {
	active := w.registry.Active()
	for _, entry := range active {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.client.ForUser(entry.UserToken).JobStatus(ctx, entry.Job.ID)
		if err != nil {
			if errors.Is(err, engine.ErrJobNotFound) {
				// The engine forgot the job; mark it failed so the panel
				// stops spinning.
				gone := *entry.Job
				gone.Status = models.JobFailed
				gone.Error = "job no longer exists on the engine"
				w.registry.Update(&gone)
				continue
			}
			log.Printf("Job watcher: poll %s failed: %v", entry.Job.ID, err)
			continue
		}

		updated, justFinished := w.registry.Update(job)
		if justFinished && w.notifier != nil {
			w.notifier.NotifyRenderFinished(updated.Job, updated.ProjectName, updated.UserEmail)
		}
	}

	w.registry.Prune(terminalRetention)
}
