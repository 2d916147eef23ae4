package handlers

import (
	"net/http"
	"time"

	"bloodlink/internal/infra"
)

type testDBResponse struct {
	Success    bool      `json:"success"`
	MaskedURL  string    `json:"maskedUrl"`
	Connection string    `json:"connection"`
	Time       time.Time `json:"time"`
	Database   string    `json:"database"`
	LatencyMS  int64     `json:"latencyMs"`
	Message    string    `json:"message"`
}

// TestDB reports the masked connection string and a live round trip.
func (a *App) TestDB(w http.ResponseWriter, r *http.Request) {
	if a.DatabaseURL == "" || a.SQL == nil {
		a.json(w, http.StatusInternalServerError, map[string]string{
			"error": "DATABASE_URL not set",
			"env":   a.AppEnv,
		})
		return
	}
	masked := infra.MaskDatabaseURL(a.DatabaseURL)
	res, err := infra.Probe(r.Context(), a.SQL)
	if err != nil {
		a.Logger.Error().Err(err).Msg("database probe failed")
		a.json(w, http.StatusInternalServerError, map[string]string{
			"error":     err.Error(),
			"code":      infra.PgErrorCode(err),
			"maskedUrl": masked,
			"details":   "Failed to connect to PostgreSQL",
		})
		return
	}
	a.json(w, http.StatusOK, testDBResponse{
		Success:    true,
		MaskedURL:  masked,
		Connection: "OK",
		Time:       res.Time,
		Database:   res.Database,
		LatencyMS:  res.Latency.Milliseconds(),
		Message:    "Database connection successful!",
	})
}
