package db

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestOverallStatus(t *testing.T) {
	cases := []struct {
		name       string
		reachable  bool
		components []ComponentStatus
		wantStatus string
		wantCode   int
	}{
		{"all ok", true, []ComponentStatus{{Name: "model", Status: "ok"}}, "ok", http.StatusOK},
		{"no components", true, nil, "ok", http.StatusOK},
		{"degraded component still serves", true, []ComponentStatus{
			{Name: "model", Status: "ok"},
			{Name: "redis", Status: "degraded", Detail: "connection refused"},
		}, "degraded", http.StatusOK},
		{"database down fails the probe", false, []ComponentStatus{{Name: "model", Status: "ok"}}, "unavailable", http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := overallStatus(tc.reachable, tc.components)
			if status != tc.wantStatus || code != tc.wantCode {
				t.Errorf("got (%s, %d), want (%s, %d)", status, code, tc.wantStatus, tc.wantCode)
			}
		})
	}
}

func TestComponentCheckReceivesContext(t *testing.T) {
	type ctxKey string
	ctx := context.WithValue(context.Background(), ctxKey("probe"), true)

	var seen bool
	check := ComponentCheck(func(ctx context.Context) ComponentStatus {
		seen = ctx.Value(ctxKey("probe")) == true
		return ComponentStatus{Name: "model", Status: "ok"}
	})

	if got := check(ctx); got.Name != "model" {
		t.Errorf("unexpected component name %q", got.Name)
	}
	if !seen {
		t.Error("check did not receive the probe context")
	}
}

func TestDatabaseStatusJSONShape(t *testing.T) {
	s := DatabaseStatus{
		Reachable:    true,
		OpenConns:    4,
		IdleConns:    2,
		BusyConns:    2,
		MaxConns:     10,
		WaitCount:    1,
		WaitDuration: "5ms",
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{"reachable", "open_conns", "idle_conns", "busy_conns", "max_conns", "wait_count", "wait_duration"} {
		if !strings.Contains(string(data), `"`+key+`"`) {
			t.Errorf("payload missing %q: %s", key, data)
		}
	}
	if strings.Contains(string(data), `"error"`) {
		t.Errorf("error field should be omitted when empty: %s", data)
	}
}
