package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Field keys read by the metrics observer.
const (
	fieldPointsDelta = "points_delta"
	fieldAwarded     = "awarded"
)

// MetricsObserver turns use-case events into Prometheus series.
type MetricsObserver struct {
	useCases         *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	pointsAwarded    *prometheus.CounterVec
	pointsRevoked    *prometheus.CounterVec
	timerCompletions prometheus.Counter
}

// NewMetricsObserver registers the taskmate series on reg. Passing a fresh
// registry keeps tests isolated from the global default.
func NewMetricsObserver(reg prometheus.Registerer) *MetricsObserver {
	f := promauto.With(reg)
	return &MetricsObserver{
		useCases: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskmate",
			Name:      "use_cases_total",
			Help:      "Service use cases executed, by outcome.",
		}, []string{"use_case", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "taskmate",
			Name:      "use_case_duration_seconds",
			Help:      "Service use case latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"use_case"}),
		pointsAwarded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskmate",
			Name:      "points_awarded_total",
			Help:      "Points added to user ledgers.",
		}, []string{"use_case"}),
		pointsRevoked: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskmate",
			Name:      "points_revoked_total",
			Help:      "Points removed from user ledgers by un-completing tasks.",
		}, []string{"use_case"}),
		timerCompletions: f.NewCounter(prometheus.CounterOpts{
			Namespace: "taskmate",
			Name:      "timer_completions_total",
			Help:      "Pomodoro cycles completed and awarded.",
		}),
	}
}

func (m *MetricsObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	m.useCases.WithLabelValues(event.Name, outcome(event.Err)).Inc()
	m.duration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
	if !event.Success {
		return
	}
	if delta, ok := event.Fields[fieldPointsDelta].(int); ok {
		switch {
		case delta > 0:
			m.pointsAwarded.WithLabelValues(event.Name).Add(float64(delta))
		case delta < 0:
			m.pointsRevoked.WithLabelValues(event.Name).Add(float64(-delta))
		}
	}
	if awarded, ok := event.Fields[fieldAwarded].(bool); ok && awarded {
		m.timerCompletions.Inc()
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
