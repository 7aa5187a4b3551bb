// Package metrics exposes nemo's Prometheus metrics.
package metrics

import (
	"net/http"
	"strings"

	"github.com/Nati35/NEMO/internal/domain"
	"github.com/Nati35/NEMO/internal/sm2"
	"github.com/Nati35/NEMO/internal/study"
	"github.com/Nati35/NEMO/internal/sync"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for review sessions and source sync.
// It observes both the session engine and the syncer.
//
// Metrics:
//   - nemo_sessions_started_total{status}
//   - nemo_sessions_finished_total
//   - nemo_reviews_total{rating}
//   - nemo_review_commit_failures_total
//   - nemo_sync_cards_total{kind,change}
//   - nemo_sync_errors_total{kind}
type Metrics struct {
	registry *prometheus.Registry

	SessionsStarted  *prometheus.CounterVec
	SessionsFinished prometheus.Counter
	Reviews          *prometheus.CounterVec
	CommitFailures   prometheus.Counter
	SyncCards        *prometheus.CounterVec
	SyncErrors       *prometheus.CounterVec
}

var (
	_ study.Observer = (*Metrics)(nil)
	_ sync.Observer  = (*Metrics)(nil)
)

// New creates the collectors on a private registry that also carries the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SessionsStarted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nemo_sessions_started_total",
			Help: "Total number of review sessions started",
		}, []string{"status"}),
		SessionsFinished: f.NewCounter(prometheus.CounterOpts{
			Name: "nemo_sessions_finished_total",
			Help: "Total number of review sessions run to the end",
		}),
		Reviews: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nemo_reviews_total",
			Help: "Total number of committed reviews",
		}, []string{"rating"}),
		CommitFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "nemo_review_commit_failures_total",
			Help: "Total number of reviews whose commit was rolled back",
		}),
		SyncCards: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nemo_sync_cards_total",
			Help: "Total number of cards inserted or deleted by source sync",
		}, []string{"kind", "change"}),
		SyncErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nemo_sync_errors_total",
			Help: "Total number of per-file errors during source sync",
		}, []string{"kind"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) SessionStarted(status study.Status) {
	m.SessionsStarted.WithLabelValues(status.String()).Inc()
}

func (m *Metrics) CardRated(rating sm2.Rating) {
	m.Reviews.WithLabelValues(strings.ToLower(rating.String())).Inc()
}

func (m *Metrics) CommitFailed() {
	m.CommitFailures.Inc()
}

func (m *Metrics) SessionFinished() {
	m.SessionsFinished.Inc()
}

func (m *Metrics) SourceSynced(kind domain.SourceKind, r sync.Report) {
	m.SyncCards.WithLabelValues(string(kind), "inserted").Add(float64(r.Inserted))
	m.SyncCards.WithLabelValues(string(kind), "deleted").Add(float64(r.Deleted))
	if len(r.Errors) > 0 {
		m.SyncErrors.WithLabelValues(string(kind)).Add(float64(len(r.Errors)))
	}
}
