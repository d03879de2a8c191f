package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"story_sync/internal/domain"
)

const namespace = "story_sync"

// Recorder turns sync pass statistics into Prometheus metrics.
type Recorder struct {
	registry *prometheus.Registry

	runs        *prometheus.CounterVec
	stories     *prometheus.CounterVec
	actions     *prometheus.CounterVec
	published   *prometheus.CounterVec
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
	lastFailed  prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Sync passes by outcome.",
		}, []string{"status"}),
		stories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stories_total",
			Help:      "Stories seen by sync passes, by result.",
		}, []string{"result"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cms_writes_total",
			Help:      "Successful CMS item writes by action.",
		}, []string{"action"}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Sync events by publish result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of sync passes.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last pass without record failures.",
		}),
		lastFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_failed_stories",
			Help:      "Stories that failed in the most recent pass.",
		}),
	}

	r.registry.MustRegister(
		r.runs,
		r.stories,
		r.actions,
		r.published,
		r.duration,
		r.lastSuccess,
		r.lastFailed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Registry exposes the registry backing the /metrics endpoint.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveRun(stats *domain.SyncStats) {
	status := "ok"
	if stats.Failed > 0 {
		status = "partial"
	}
	r.runs.WithLabelValues(status).Inc()

	r.stories.WithLabelValues("skipped").Add(float64(stats.Skipped))
	r.stories.WithLabelValues("synced").Add(float64(stats.Synced))
	r.stories.WithLabelValues("failed").Add(float64(stats.Failed))

	r.actions.WithLabelValues(string(domain.ActionCreate)).Add(float64(stats.Created))
	r.actions.WithLabelValues(string(domain.ActionUpdate)).Add(float64(stats.Updated))

	r.published.WithLabelValues("ok").Add(float64(stats.Published))
	r.published.WithLabelValues("error").Add(float64(stats.PublishErrors))

	r.duration.Observe(stats.Duration.Seconds())
	r.lastFailed.Set(float64(stats.Failed))
	if stats.Failed == 0 {
		r.lastSuccess.SetToCurrentTime()
	}
}

// ObserveAbort counts a pass that ended before any story was processed.
func (r *Recorder) ObserveAbort() {
	r.runs.WithLabelValues("error").Inc()
}
