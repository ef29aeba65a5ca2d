package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue は指定名のカウンタの合計値を返す。見つからない場合は-1。
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() == name {
			total := 0.0
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			return total
		}
	}
	return -1
}

func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

func TestRecordLoginSuccess_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginSuccess()
	c.RecordLoginSuccess()

	if val := counterValue(t, reg, "menubook_login_success_total"); val != 2 {
		t.Errorf("login_success_total = %v, want 2", val)
	}
}

func TestRecordLoginFailure_IncrementsCounterWithCodeLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginFailure("INVALID_STATE")
	c.RecordLoginFailure("INVALID_STATE")
	c.RecordLoginFailure("EXCHANGE_FAILED")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() != "menubook_login_fail_total" {
			continue
		}
		found = true
		if len(mf.GetMetric()) != 2 {
			t.Fatalf("expected 2 labeled series, got %d", len(mf.GetMetric()))
		}
		for _, m := range mf.GetMetric() {
			code := m.GetLabel()[0].GetValue()
			val := m.GetCounter().GetValue()
			switch code {
			case "INVALID_STATE":
				if val != 2 {
					t.Errorf("login_fail_total{code=INVALID_STATE} = %v, want 2", val)
				}
			case "EXCHANGE_FAILED":
				if val != 1 {
					t.Errorf("login_fail_total{code=EXCHANGE_FAILED} = %v, want 1", val)
				}
			default:
				t.Errorf("unexpected code label %q", code)
			}
		}
	}
	if !found {
		t.Error("menubook_login_fail_total metric not found")
	}
}

func TestRecordWrite_IncrementsCounterWithLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordWrite("restaurant", "create")
	c.RecordWrite("restaurant", "create")
	c.RecordWrite("menu_item", "delete")

	if val := counterValue(t, reg, "menubook_record_writes_total"); val != 3 {
		t.Errorf("record_writes_total = %v, want 3", val)
	}
}

func TestRecordHTTPStatus_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	if val := counterValue(t, reg, "menubook_http_status_total"); val != 3 {
		t.Errorf("http_status_total = %v, want 3", val)
	}
}

func TestRecordRequestLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequestLatency(120 * time.Millisecond)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "menubook_request_latency_seconds" {
			found = true
			if count := mf.GetMetric()[0].GetHistogram().GetSampleCount(); count != 1 {
				t.Errorf("sample count = %d, want 1", count)
			}
		}
	}
	if !found {
		t.Error("menubook_request_latency_seconds metric not found")
	}
}

func TestRecordSessionsSwept_AddsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSessionsSwept(3)
	c.RecordSessionsSwept(4)

	if val := counterValue(t, reg, "menubook_sessions_swept_total"); val != 7 {
		t.Errorf("sessions_swept_total = %v, want 7", val)
	}
}

// /metricsエンドポイントがPrometheus形式で返すことを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginSuccess()
	c.RecordWrite("restaurant", "create")
	c.RecordHTTPStatus(200)
	c.RecordRequestLatency(50 * time.Millisecond)
	c.RecordSessionsSwept(1)

	handler := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	expectedMetrics := []string{
		"menubook_login_success_total",
		"menubook_record_writes_total",
		"menubook_http_status_total",
		"menubook_request_latency_seconds",
		"menubook_sessions_swept_total",
	}
	for _, metric := range expectedMetrics {
		if !strings.Contains(string(body), metric) {
			t.Errorf("expected metric %q in output", metric)
		}
	}
}

// CollectorがMetricsCollectorインターフェースを実装することを検証する。
func TestCollector_ImplementsMetricsCollectorInterface(t *testing.T) {
	reg := prometheus.NewRegistry()
	var _ MetricsCollector = NewCollector(reg)
}
