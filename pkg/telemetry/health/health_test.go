package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckLiveness(t *testing.T) {
	c := NewChecker()
	live := c.CheckLiveness(context.Background())
	if !live.OK {
		t.Error("OK = false, want true")
	}
	if live.TS.IsZero() {
		t.Error("TS is zero")
	}
}

func TestCheckReadiness(t *testing.T) {
	t.Run("no checks is ready", func(t *testing.T) {
		c := NewChecker()
		out := c.CheckReadiness(context.Background())
		if out.Status != "ready" {
			t.Errorf("Status = %q, want ready", out.Status)
		}
	})

	t.Run("all passing", func(t *testing.T) {
		c := NewChecker()
		c.RegisterCheck("policy", func(ctx context.Context) error { return nil })
		c.RegisterCheck("signals", func(ctx context.Context) error { return nil })

		out := c.CheckReadiness(context.Background())
		if out.Status != "ready" {
			t.Errorf("Status = %q, want ready", out.Status)
		}
		if len(out.Checks) != 2 {
			t.Errorf("len(Checks) = %d, want 2", len(out.Checks))
		}
	})

	t.Run("one failing marks not_ready", func(t *testing.T) {
		c := NewChecker()
		c.RegisterCheck("policy", func(ctx context.Context) error { return nil })
		c.RegisterCheck("signals", func(ctx context.Context) error { return fmt.Errorf("buffer unavailable") })

		out := c.CheckReadiness(context.Background())
		if out.Status != "not_ready" {
			t.Errorf("Status = %q, want not_ready", out.Status)
		}
		if out.Checks["signals"].Status != "unhealthy" {
			t.Errorf("signals check = %+v, want unhealthy", out.Checks["signals"])
		}
		if out.Checks["signals"].Message != "buffer unavailable" {
			t.Errorf("Message = %q, want check error text", out.Checks["signals"].Message)
		}
		if out.Checks["policy"].Status != "ok" {
			t.Errorf("policy check = %+v, want ok", out.Checks["policy"])
		}
	})
}

func TestLivenessHandler(t *testing.T) {
	c := NewChecker()
	handler := c.LivenessHandler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var live Liveness
	if err := json.NewDecoder(rec.Body).Decode(&live); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !live.OK {
		t.Error("ok = false, want true")
	}
}

func TestReadinessHandler_Unavailable(t *testing.T) {
	c := NewChecker()
	c.RegisterCheck("policy", func(ctx context.Context) error { return fmt.Errorf("no active policy") })

	rec := httptest.NewRecorder()
	c.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestProbeHandlers_MethodGuard(t *testing.T) {
	c := NewChecker()
	for name, handler := range map[string]http.HandlerFunc{
		"liveness":  c.LivenessHandler(),
		"readiness": c.ReadinessHandler(),
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want 405", rec.Code)
			}
		})
	}
}
