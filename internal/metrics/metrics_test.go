package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()

	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}

	if m.registry == nil {
		t.Error("Registry is nil")
	}

	if m.SessionsActive == nil {
		t.Error("SessionsActive is nil")
	}
	if m.SessionsTotal == nil {
		t.Error("SessionsTotal is nil")
	}
	if m.TurnsTotal == nil {
		t.Error("TurnsTotal is nil")
	}
	if m.UpstreamCallsTotal == nil {
		t.Error("UpstreamCallsTotal is nil")
	}
	if m.UpstreamCallDuration == nil {
		t.Error("UpstreamCallDuration is nil")
	}
	if m.UpstreamErrorsTotal == nil {
		t.Error("UpstreamErrorsTotal is nil")
	}
	if m.RequestsTotal == nil {
		t.Error("RequestsTotal is nil")
	}
	if m.RequestDuration == nil {
		t.Error("RequestDuration is nil")
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()

	m.SessionsTotal.Inc()
	m.SessionsActive.Set(3)
	m.TurnsTotal.WithLabelValues("user").Inc()
	m.RequestsTotal.WithLabelValues("/explain", "200").Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"sessions_total 1",
		"sessions_active 3",
		`turns_total{role="user"} 1`,
		`http_requests_total{endpoint="/explain",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestObserveUpstreamCall(t *testing.T) {
	m := NewMetrics()

	m.ObserveUpstreamCall("gemini", 2*time.Second, "")
	m.ObserveUpstreamCall("gemini", time.Second, "timeout")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		`upstream_calls_total{provider="gemini",status="ok"} 1`,
		`upstream_calls_total{provider="gemini",status="error"} 1`,
		`upstream_errors_total{kind="timeout",provider="gemini"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
