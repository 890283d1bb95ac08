package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/shandysiswandi/trimly/internal/pkg/router"
)

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

const (
	healthUp   = "up"
	healthDown = "down"
)

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: healthUp, Database: healthUp, Redis: healthUp}
	code := http.StatusOK

	if err := a.dbConn.Ping(ctx); err != nil {
		slog.WarnContext(ctx, "health check failed", "component", "database", "error", err)
		resp.Database, resp.Status, code = healthDown, healthDown, http.StatusServiceUnavailable
	}
	if err := a.cacheConn.Ping(ctx).Err(); err != nil {
		slog.WarnContext(ctx, "health check failed", "component", "redis", "error", err)
		resp.Redis, resp.Status, code = healthDown, healthDown, http.StatusServiceUnavailable
	}

	router.WriteJSON(w, resp, code)
}
