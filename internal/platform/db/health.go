package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// ComponentStatus is one subsystem's entry in the health payload.
type ComponentStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// ComponentCheck reports the current status of one subsystem. Checks run
// on every probe and must return quickly.
type ComponentCheck func(ctx context.Context) ComponentStatus

// DatabaseStatus summarizes pool connectivity for the health payload.
type DatabaseStatus struct {
	Reachable    bool   `json:"reachable"`
	OpenConns    int32  `json:"open_conns"`
	IdleConns    int32  `json:"idle_conns"`
	BusyConns    int32  `json:"busy_conns"`
	MaxConns     int32  `json:"max_conns"`
	WaitCount    int64  `json:"wait_count"`
	WaitDuration string `json:"wait_duration"`
	Error        string `json:"error,omitempty"`
}

// ReadDatabaseStatus pings the pool and snapshots its counters.
func ReadDatabaseStatus(ctx context.Context, pool *pgxpool.Pool) DatabaseStatus {
	stat := pool.Stat()
	status := DatabaseStatus{
		Reachable:    true,
		OpenConns:    stat.TotalConns(),
		IdleConns:    stat.IdleConns(),
		BusyConns:    stat.AcquiredConns(),
		MaxConns:     stat.MaxConns(),
		WaitCount:    stat.EmptyAcquireCount(),
		WaitDuration: stat.AcquireDuration().String(),
	}
	if err := pool.Ping(ctx); err != nil {
		status.Reachable = false
		status.Error = err.Error()
	}
	return status
}

// overallStatus folds database reachability and component statuses into
// the top-level status and response code. Only an unreachable database
// fails the probe; degraded components are reported but still serve.
func overallStatus(reachable bool, components []ComponentStatus) (string, int) {
	if !reachable {
		return "unavailable", http.StatusServiceUnavailable
	}
	for _, cs := range components {
		if cs.Status != "ok" {
			return "degraded", http.StatusOK
		}
	}
	return "ok", http.StatusOK
}

// HealthHandler reports database connectivity plus any registered
// component checks.
func HealthHandler(pool *pgxpool.Pool, checks ...ComponentCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		dbStatus := ReadDatabaseStatus(ctx, pool)
		components := make([]ComponentStatus, 0, len(checks))
		for _, check := range checks {
			components = append(components, check(ctx))
		}

		status, code := overallStatus(dbStatus.Reachable, components)
		payload := map[string]interface{}{
			"status":   status,
			"database": dbStatus,
		}
		if len(components) > 0 {
			payload["components"] = components
		}
		return c.JSON(code, payload)
	}
}
