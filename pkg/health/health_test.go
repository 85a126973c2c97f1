package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func up(ctx context.Context) ComponentHealth {
	return ComponentHealth{Status: StatusUp}
}

func degraded(ctx context.Context) ComponentHealth {
	return ComponentHealth{Status: StatusDegraded, Message: "not configured"}
}

func down(ctx context.Context) ComponentHealth {
	return ComponentHealth{Status: StatusDown, Message: "unreachable"}
}

func readyStatus(t *testing.T, c *Checker) (int, Report) {
	t.Helper()
	rec := httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	var report Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	return rec.Code, report
}

func TestRunAggregatesWorstStatus(t *testing.T) {
	c := NewChecker()
	c.Register("graph", up)
	c.Register("cache", degraded)

	report := c.Run(context.Background())
	if report.Status != StatusDegraded {
		t.Errorf("Status = %s, want degraded", report.Status)
	}
	if len(report.Components) != 2 {
		t.Errorf("Components = %v, want 2 entries", report.Components)
	}

	c.Register("store", down)
	if report := c.Run(context.Background()); report.Status != StatusDown {
		t.Errorf("Status = %s, want down", report.Status)
	}
}

func TestReadyAllUp(t *testing.T) {
	c := NewChecker()
	c.Register("graph", up)

	code, report := readyStatus(t, c)
	if code != http.StatusOK {
		t.Errorf("status = %d, want 200", code)
	}
	if report.Status != StatusUp {
		t.Errorf("report status = %s, want up", report.Status)
	}
}

// A degraded optional dependency must not take a serving worker out of
// rotation; only a down component blocks readiness.
func TestReadyDegradedDependencyStillReady(t *testing.T) {
	c := NewChecker()
	c.Register("graph", up)
	c.Register("cache", degraded)

	code, report := readyStatus(t, c)
	if code != http.StatusOK {
		t.Errorf("status = %d, want 200 while only degraded", code)
	}
	if report.Status != StatusDegraded {
		t.Errorf("report status = %s, want degraded detail in the body", report.Status)
	}
}

func TestReadyDownComponentBlocks(t *testing.T) {
	c := NewChecker()
	c.Register("graph", down)

	code, _ := readyStatus(t, c)
	if code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when a component is down", code)
	}
}
