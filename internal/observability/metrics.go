package observability

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// Metrics holds the service's Prometheus series. A nil *Metrics is valid and records nothing.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	resolutions    *CounterVec
	catalogCalls   *CounterVec
	catalogLatency *HistogramVec
	planGenerated  *CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Current returns the process metrics, or nil when metrics are disabled.
func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics()
		log.Info("metrics enabled")
	})
	return instance
}

func newMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("studyplan_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"studyplan_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 120},
		),
		apiInflight: NewGauge("studyplan_api_inflight_requests", "In-flight API requests."),

		resolutions:  NewCounterVec("studyplan_video_resolutions_total", "Topic video resolutions by outcome.", []string{"outcome"}),
		catalogCalls: NewCounterVec("studyplan_catalog_calls_total", "Video catalog API calls by operation/status.", []string{"op", "status"}),
		catalogLatency: NewHistogramVec(
			"studyplan_catalog_call_duration_seconds",
			"Video catalog API latency in seconds by operation.",
			[]string{"op"},
			nil,
		),
		planGenerated: NewCounterVec("studyplan_plan_generations_total", "Learning plan generations by status.", []string{"status"}),
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflight(delta float64) {
	if m == nil {
		return
	}
	m.apiInflight.Add(delta)
}

// ObserveResolution counts one topic resolution. outcome is found, not_found,
// invalid_input, no_credentials, upstream_error or canceled.
func (m *Metrics) ObserveResolution(outcome string) {
	if m == nil {
		return
	}
	m.resolutions.Inc(outcome)
}

func (m *Metrics) ObserveCatalogCall(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.catalogCalls.Inc(op, status)
	m.catalogLatency.Observe(dur.Seconds(), op)
}

func (m *Metrics) ObservePlanGeneration(status string) {
	if m == nil {
		return
	}
	m.planGenerated.Inc(status)
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.resolutions,
		m.catalogCalls,
		m.catalogLatency,
		m.planGenerated,
	}
	for _, s := range writers {
		if err := s.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}
