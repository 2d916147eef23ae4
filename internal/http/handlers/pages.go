package handlers

import (
	"net/http"
	"strings"

	"bloodlink/internal/domain"
	"bloodlink/internal/filter"
)

type dashboardData struct {
	Summary   domain.StatsSummary
	Histogram []domain.BloodTypeCount
}

type donorsData struct {
	State      filter.DonorState
	BloodTypes []domain.BloodType
	Donors     []domain.Donor
	Total      int
	Invalid    bool
}

type activityData struct {
	State      filter.SearchLogState
	BloodTypes []domain.BloodType
	Searches   []domain.SearchLogEntry
	Total      int
	Invalid    bool
}

// Dashboard renders the statistics page. A failing source fails the page.
func (a *App) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := a.Admin.Summary(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("load dashboard stats failed")
		http.Error(w, "Failed to load statistics", http.StatusInternalServerError)
		return
	}
	data := dashboardData{Summary: summary, Histogram: summary.BloodTypeHistogram()}
	a.render(w, r, http.StatusOK, "dashboard", a.newPage(r, "Dashboard", "dashboard", data))
}

// DonorsPage lists every donor and narrows the list in memory with the q and
// blood_type query parameters.
func (a *App) DonorsPage(w http.ResponseWriter, r *http.Request) {
	all, err := a.Admin.Donors(r.Context(), domain.DonorFilter{})
	if err != nil {
		a.Logger.Error().Err(err).Msg("load donors failed")
		http.Error(w, "Failed to load donors", http.StatusInternalServerError)
		return
	}
	q := r.URL.Query()
	state := filter.DonorState{
		Search:    q.Get("q"),
		BloodType: q.Get("blood_type"),
	}
	data := donorsData{
		State:      state,
		BloodTypes: domain.BloodTypes(),
		Donors:     filter.Donors(all, state),
		Total:      len(all),
		Invalid:    state.Validate() != nil,
	}
	a.render(w, r, http.StatusOK, "donors", a.newPage(r, "Donors", "donors", data))
}

// ActivityPage lists the latest search logs and narrows them in memory by
// blood_type and date (YYYY-MM-DD in the viewer's zone).
func (a *App) ActivityPage(w http.ResponseWriter, r *http.Request) {
	all, err := a.Admin.SearchLogs(r.Context(), domain.SearchLogFilter{})
	if err != nil {
		a.Logger.Error().Err(err).Msg("load search activity failed")
		http.Error(w, "Failed to load search activity", http.StatusInternalServerError)
		return
	}
	q := r.URL.Query()
	state := filter.SearchLogState{
		BloodType: q.Get("blood_type"),
		Date:      strings.TrimSpace(q.Get("date")),
	}
	p := a.newPage(r, "Search Activity", "activity", nil)
	p.Data = activityData{
		State:      state,
		BloodTypes: domain.BloodTypes(),
		Searches:   filter.SearchLogs(all, state, p.Viewer.Location),
		Total:      len(all),
		Invalid:    state.Validate() != nil,
	}
	a.render(w, r, http.StatusOK, "activity", p)
}
