package domain

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "testsmith"

// Metrics collects run, model and build measurements. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	RunsTotal        *prometheus.CounterVec
	Iterations       prometheus.Histogram
	ModelInvocations *prometheus.CounterVec
	BuildDuration    *prometheus.HistogramVec
	ActiveRuns       prometheus.Gauge
	QueuedRuns       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	mt := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Finished runs by terminal status",
		}, []string{"status"}),
		Iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "run_iterations",
			Help:      "Build iterations per finished run",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
		}),
		ModelInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "model_invocations_total",
			Help:      "Model invocations by stage and outcome",
		}, []string{"stage", "outcome"}),
		BuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "build_duration_seconds",
			Help:      "Build validation duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}, []string{"passed"}),
		ActiveRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_runs",
			Help:      "Runs currently holding a scheduler slot",
		}),
		QueuedRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "queued_runs",
			Help:      "Runs waiting for a scheduler slot",
		}),
	}

	if reg != nil {
		reg.MustRegister(mt.RunsTotal, mt.Iterations, mt.ModelInvocations, mt.BuildDuration, mt.ActiveRuns, mt.QueuedRuns)
	}

	return mt
}

func (mt *Metrics) runFinished(status string, iterations int) {
	if mt == nil {
		return
	}

	mt.RunsTotal.WithLabelValues(status).Inc()
	mt.Iterations.Observe(float64(iterations))
}

func (mt *Metrics) modelInvoked(stage, outcome string) {
	if mt == nil {
		return
	}

	mt.ModelInvocations.WithLabelValues(stage, outcome).Inc()
}

func (mt *Metrics) buildFinished(passed bool, d time.Duration) {
	if mt == nil {
		return
	}

	label := "false"
	if passed {
		label = "true"
	}

	mt.BuildDuration.WithLabelValues(label).Observe(d.Seconds())
}

func (mt *Metrics) runStarted() {
	if mt == nil {
		return
	}

	mt.QueuedRuns.Dec()
	mt.ActiveRuns.Inc()
}

func (mt *Metrics) runQueued() {
	if mt == nil {
		return
	}

	mt.QueuedRuns.Inc()
}

func (mt *Metrics) runReleased() {
	if mt == nil {
		return
	}

	mt.ActiveRuns.Dec()
}

func (mt *Metrics) runDequeued() {
	if mt == nil {
		return
	}

	mt.QueuedRuns.Dec()
}
