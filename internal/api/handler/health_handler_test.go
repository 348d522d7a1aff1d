package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestReadiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name   string
		checks map[string]DependencyCheck
		want   int
		status string
	}{
		{"all up", map[string]DependencyCheck{"mongodb": ok, "redis": ok}, http.StatusOK, "ok"},
		{"redis down", map[string]DependencyCheck{"mongodb": ok, "redis": down}, http.StatusServiceUnavailable, "degraded"},
		{"no redis configured", map[string]DependencyCheck{"mongodb": ok}, http.StatusOK, "ok"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho()
			c, rec := newJSONContext(e, http.MethodGet, "/health/ready", "")

			if err := NewReadinessHandler(tc.checks).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			resp := decodeEnvelope(t, rec)
			if resp["status"] != tc.status {
				t.Errorf("expected status %q, got %v", tc.status, resp["status"])
			}
			if deps := resp["dependencies"].(map[string]any); len(deps) != len(tc.checks) {
				t.Errorf("expected %d dependencies, got %d", len(tc.checks), len(deps))
			}
		})
	}
}
