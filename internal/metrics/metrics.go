package metrics

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	jobStatusDesc = prometheus.NewDesc(
		"beatstitch_render_jobs",
		"Tracked render jobs by status",
		[]string{"status"},
		nil,
	)

	ruleParses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beatstitch_rule_parses_total",
			Help: "Beat rule parse count by outcome",
		},
		[]string{"outcome"},
	)

	engineRequests = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "beatstitch_engine_request_seconds",
			Help:    "Engine API request durations by method and outcome",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "outcome"},
	)
)

// JobCounter reports tracked render job counts per status. Implemented by
// the jobs registry.
type JobCounter interface {
	CountsByStatus() map[string]int
}

// JobCollector is a custom Prometheus collector that reads render job
// counts from the registry on each scrape.
type JobCollector struct {
	jobs JobCounter
}

// Describe sends the metric descriptor to the channel.
func (c *JobCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- jobStatusDesc
}

// Collect emits one gauge per job status currently in the registry.
func (c *JobCollector) Collect(ch chan<- prometheus.Metric) {
	for status, count := range c.jobs.CountsByStatus() {
		metric, err := prometheus.NewConstMetric(
			jobStatusDesc,
			prometheus.GaugeValue,
			float64(count),
			status,
		)
		if err != nil {
			slog.Error("failed to collect render job metrics", "status", status, "error", err)
			continue
		}
		ch <- metric
	}
}

// initialized is atomic: the recorders may already be running on request
// goroutines while Init executes at startup.
var (
	initialized atomic.Bool
	initOnce    sync.Once
)

// Init registers all collectors. Must be called once at startup.
func Init(jobs JobCounter) {
	initOnce.Do(func() {
		prometheus.MustRegister(ruleParses, engineRequests)
		prometheus.MustRegister(&JobCollector{jobs: jobs})
		initialized.Store(true)
	})
}

// RecordRuleParse counts a beat rule parse outcome ("matched" or "default").
func RecordRuleParse(outcome string) {
	if !initialized.Load() {
		return
	}
	ruleParses.WithLabelValues(outcome).Inc()
}

// ObserveEngineRequest records the duration of one engine API call.
func ObserveEngineRequest(method string, d time.Duration, err error) {
	if !initialized.Load() {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	engineRequests.WithLabelValues(method, outcome).Observe(d.Seconds())
}
