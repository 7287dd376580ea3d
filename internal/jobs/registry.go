package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"beatstitch/internal/models"
)

// TrackedJob is a render job submitted through this frontend, together with
// the context needed to poll it and notify its owner.
type TrackedJob struct {
	Job         *models.RenderJob
	ProjectName string
	UserEmail   string
	UserToken   string
	PolledAt    time.Time
}

// Registry is the in-process store of tracked render jobs. Status panels
// read from it instead of hitting the engine on every HTMX poll.
type Registry struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*TrackedJob
}

// NewRegistry creates an empty job registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[uuid.UUID]*TrackedJob)}
}

// Track registers a freshly submitted job for polling.
func (r *Registry) Track(job *models.RenderJob, projectName, userEmail, userToken string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = &TrackedJob{
		Job:         job,
		ProjectName: projectName,
		UserEmail:   userEmail,
		UserToken:   userToken,
		PolledAt:    time.Now(),
	}
}

// Get returns a snapshot of a tracked job.
func (r *Registry) Get(id uuid.UUID) (TrackedJob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.jobs[id]
	if !ok {
		return TrackedJob{}, false
	}
	return *entry, true
}

// Active returns snapshots of all jobs that have not reached a terminal state.
func (r *Registry) Active() []TrackedJob {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var active []TrackedJob
	for _, entry := range r.jobs {
		if !entry.Job.IsTerminal() {
			active = append(active, *entry)
		}
	}
	return active
}

// ForProject returns snapshots of all tracked jobs for a project, newest first
// being the caller's concern; order is unspecified.
func (r *Registry) ForProject(projectID uuid.UUID) []TrackedJob {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found []TrackedJob
	for _, entry := range r.jobs {
		if entry.Job.ProjectID == projectID {
			found = append(found, *entry)
		}
	}
	return found
}

// CountsByStatus returns the number of tracked jobs per status, for metrics.
func (r *Registry) CountsByStatus() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int)
	for _, entry := range r.jobs {
		counts[entry.Job.Status]++
	}
	return counts
}

// Update replaces a tracked job's state after a successful poll. Returns the
// updated snapshot and whether this poll moved the job into a terminal state.
func (r *Registry) Update(job *models.RenderJob) (TrackedJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.jobs[job.ID]
	if !ok {
		return TrackedJob{}, false
	}
	wasTerminal := entry.Job.IsTerminal()
	entry.Job = job
	entry.PolledAt = time.Now()
	return *entry, !wasTerminal && job.IsTerminal()
}

// Prune drops terminal jobs whose last poll is older than retention.
func (r *Registry) Prune(retention time.Duration) {
	cutoff := time.Now().Add(-retention)
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, entry := range r.jobs {
		if entry.Job.IsTerminal() && entry.PolledAt.Before(cutoff) {
			delete(r.jobs, id)
		}
	}
}
