package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bloodlink/internal/domain"
	"bloodlink/internal/export"
	"bloodlink/internal/filter"
	"bloodlink/internal/middleware"
)

type listResponse[T any] struct {
	Items []T `json:"items"`
}

type donorsQuery struct {
	Search    string `validate:"max=100"`
	BloodType string `validate:"omitempty,bloodtype"`
}

type searchLogsQuery struct {
	BloodType string `validate:"omitempty,bloodtype"`
	Limit     int    `validate:"gte=0,lte=100"`
}

// StatsJSON serves the dashboard summary.
func (a *App) StatsJSON(w http.ResponseWriter, r *http.Request) {
	summary, err := a.Admin.Summary(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("stats api failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, summary)
}

// DonorsJSON lists donors with search and blood_type applied by the data
// source.
func (a *App) DonorsJSON(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := donorsQuery{Search: strings.TrimSpace(q.Get("search")), BloodType: q.Get("blood_type")}
	if err := filter.Validator().Struct(params); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid donor filter")
		return
	}
	items, err := a.Admin.Donors(r.Context(), domain.DonorFilter{Search: params.Search, BloodType: params.BloodType})
	if err != nil {
		a.Logger.Error().Err(err).Msg("donors api failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load donors")
		return
	}
	a.json(w, http.StatusOK, listResponse[domain.Donor]{Items: items})
}

// SearchLogsJSON lists search activity. from and to accept RFC 3339 or
// YYYY-MM-DD (viewer zone); a bare "to" date includes the whole day.
func (a *App) SearchLogsJSON(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	viewer := middleware.ViewerFromContext(r.Context())
	params := searchLogsQuery{BloodType: q.Get("blood_type")}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "limit must be a number")
			return
		}
		params.Limit = n
	}
	if err := filter.Validator().Struct(params); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid search log filter")
		return
	}
	from, err := parseBound(q.Get("from"), viewer.Location, false)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid from")
		return
	}
	to, err := parseBound(q.Get("to"), viewer.Location, true)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid to")
		return
	}
	items, err := a.Admin.SearchLogs(r.Context(), domain.SearchLogFilter{
		BloodType: params.BloodType,
		From:      from,
		To:        to,
		Limit:     params.Limit,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("search logs api failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load search logs")
		return
	}
	a.json(w, http.StatusOK, listResponse[domain.SearchLogEntry]{Items: items})
}

// ExportDonors downloads every donor as donors.csv.
func (a *App) ExportDonors(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())
	writer := a.CSV
	writer.Location = viewer.Location

	var buf bytes.Buffer
	n, err := a.Admin.ExportDonors(r.Context(), &buf, writer, viewer.Locale)
	if err != nil {
		a.Logger.Error().Err(err).Msg("export donors failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to export donors")
		return
	}
	a.Logger.Info().Int("rows", n).Msg("donors exported")
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename()+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func parseBound(raw string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(filter.DateLayout, raw, loc)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}
