// Package metrics exposes session progress as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/crimson-sun/winnow/internal/model"
)

// Session holds the collectors for one labeling session.
type Session struct {
	retrains        *prometheus.CounterVec
	trainingLatency prometheus.Histogram
	commits         *prometheus.CounterVec
	flipRate        prometheus.Gauge
	iteration       prometheus.Gauge
	categories      *prometheus.GaugeVec
}

// NewSession creates the collectors and registers them on reg. A nil reg
// leaves them unregistered, which tests and embedders use to opt out.
func NewSession(reg prometheus.Registerer) *Session {
	s := &Session{
		retrains: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "winnow_retrains_total",
			Help: "Retrain requests by outcome",
		}, []string{"outcome"}),
		trainingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "winnow_training_duration_seconds",
			Help:    "Round trip time of scoring requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "winnow_commits_total",
			Help: "Commits recorded by type",
		}, []string{"type"}),
		flipRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "winnow_flip_rate",
			Help: "Prediction flip rate of the latest training iteration",
		}),
		iteration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "winnow_iteration",
			Help: "Number of completed training iterations",
		}),
		categories: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "winnow_items",
			Help: "Items per category in the active commit",
		}, []string{"category"}),
	}
	if reg != nil {
		reg.MustRegister(s.retrains, s.trainingLatency, s.commits, s.flipRate, s.iteration, s.categories)
	}
	return s
}

// Retrain counts a retrain outcome.
func (s *Session) Retrain(outcome string) {
	s.retrains.WithLabelValues(outcome).Inc()
}

// ObserveTraining records the latency of one scoring call.
func (s *Session) ObserveTraining(d time.Duration) {
	s.trainingLatency.Observe(d.Seconds())
}

// Iteration publishes the latest flip entry.
func (s *Session) Iteration(e model.FlipEntry) {
	s.iteration.Set(float64(e.Iteration))
	s.flipRate.Set(e.FlipRate)
}

// Commit counts a commit and publishes its category counts.
func (s *Session) Commit(c model.Commit) {
	s.commits.WithLabelValues(string(c.Type)).Inc()
	s.Counts(c.Counts)
}

// Counts publishes category counts.
func (s *Session) Counts(c model.Counts) {
	s.categories.WithLabelValues(string(model.CategoryConfirmed)).Set(float64(c.Selected))
	s.categories.WithLabelValues(string(model.CategoryAutoSelected)).Set(float64(c.SelectedAuto))
	s.categories.WithLabelValues(string(model.CategoryRejected)).Set(float64(c.Rejected))
	s.categories.WithLabelValues(string(model.CategoryAutoRejected)).Set(float64(c.RejectedAuto))
	s.categories.WithLabelValues(string(model.CategoryUnsure)).Set(float64(c.Unsure))
}
