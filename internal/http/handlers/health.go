package handlers

import (
	"net/http"

	"bloodlink/internal/infra"
)

// Health reports liveness. When a database is wired it must answer a ping.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	if a.SQL == nil {
		a.json(w, http.StatusOK, map[string]string{"status": "ok", "db": "skipped"})
		return
	}
	if err := infra.Ping(r.Context(), a.SQL); err != nil {
		a.Logger.Error().Err(err).Msg("health ping failed")
		a.json(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "db": "unreachable"})
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok", "db": "ok"})
}
