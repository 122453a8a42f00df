package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := newMetrics()
	m.ObserveAPI("GET", "/api/subjects", "200", 20*time.Millisecond)
	m.ObserveAPI("GET", "/api/subjects", "200", 3*time.Second)
	m.ObserveResolution("found")
	m.ObserveResolution("found")
	m.ObserveResolution("upstream_error")
	m.ObserveCatalogCall("search.list", "ok", 40*time.Millisecond)

	if got := m.resolutions.Value("found"); got != 2 {
		t.Fatalf("found resolutions = %v", got)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`# TYPE studyplan_api_requests_total counter`,
		`studyplan_api_requests_total{method="GET",route="/api/subjects",status="200"} 2`,
		`studyplan_api_request_duration_seconds_bucket{method="GET",route="/api/subjects",le="0.05"} 1`,
		`studyplan_api_request_duration_seconds_bucket{method="GET",route="/api/subjects",le="+Inf"} 2`,
		`studyplan_api_request_duration_seconds_count{method="GET",route="/api/subjects"} 2`,
		`studyplan_video_resolutions_total{outcome="found"} 2`,
		`studyplan_video_resolutions_total{outcome="upstream_error"} 1`,
		`studyplan_catalog_calls_total{op="search.list",status="ok"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ObserveResolution("found")
	m.APIInflight(1)

	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"route", "op"}, []string{`a"b\c`})
	if got != `{route="a\"b\\c",op="unknown"}` {
		t.Fatalf("labelString = %s", got)
	}
}

func TestParseHeaders(t *testing.T) {
	h := ParseHeaders(" authorization = Bearer x ,bad, =v,k= ")
	if len(h) != 1 || h["authorization"] != "Bearer x" {
		t.Fatalf("ParseHeaders = %v", h)
	}
	if ParseHeaders("") != nil {
		t.Fatal("empty headers should be nil")
	}
}
