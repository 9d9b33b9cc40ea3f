package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AnswersTotal    *prometheus.CounterVec
	AnkiRequests    *prometheus.CounterVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AnswersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "revijouer_answers_total",
				Help: "Answers submitted per game and outcome",
			},
			[]string{"game_type", "result"},
		),
		AnkiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "revijouer_anki_requests_total",
				Help: "AnkiConnect actions per outcome",
			},
			[]string{"action", "outcome"},
		),
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.AnswersTotal, m.AnkiRequests)
	return m
}

// ObserveAnswer counts one checked answer
func (m *Metrics) ObserveAnswer(gameType string, correct bool) {
	if m == nil {
		return
	}
	result := "wrong"
	if correct {
		result = "correct"
	}
	m.AnswersTotal.WithLabelValues(gameType, result).Inc()
}

// ObserveAnkiRequest counts one AnkiConnect call
func (m *Metrics) ObserveAnkiRequest(action string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.AnkiRequests.WithLabelValues(action, outcome).Inc()
}
