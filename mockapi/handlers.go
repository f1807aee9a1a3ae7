package mockapi

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"sicksense-cli/model"
)

func (s *Server) handleLocations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Buildings())
}

func (s *Server) handleSymptoms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Symptoms())
}

// handleCreateReport trusts only the seat id; the stored location is taken
// from the catalog.
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())
	if id.Role != model.RoleStudent {
		writeError(w, http.StatusForbidden, "only students can submit reports")
		return
	}

	var req model.CreateHealthReport
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	seatID := req.SeatID
	if seatID == "" {
		seatID = req.Location.SeatID
	}
	location, ok := s.seats[seatID]
	if !ok {
		writeError(w, http.StatusBadRequest, "seat not found")
		return
	}
	if !req.Severity.Valid() {
		writeError(w, http.StatusBadRequest, "invalid severity")
		return
	}
	if len(req.Symptoms) == 0 {
		writeError(w, http.StatusBadRequest, "at least one symptom is required")
		return
	}
	for _, sym := range req.Symptoms {
		if _, ok := s.symptoms[sym]; !ok {
			writeError(w, http.StatusBadRequest, "unknown symptom "+sym)
			return
		}
	}
	if req.DateOfOnset != "" {
		now := s.clock.Now()
		onset, err := time.ParseInLocation(time.DateOnly, req.DateOfOnset, now.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "dateOfOnset must be YYYY-MM-DD")
			return
		}
		if onset.After(startOfDay(now)) {
			writeError(w, http.StatusBadRequest, "dateOfOnset is in the future")
			return
		}
	}

	report := model.HealthReport{
		ID:               uuid.NewString(),
		UserID:           id.UserID,
		StudentUserID:    id.UserID,
		UserGradeLevel:   req.UserGradeLevel,
		GradeLevel:       req.GradeLevel,
		Symptoms:         slices.Clone(req.Symptoms),
		Severity:         req.Severity,
		DateOfOnset:      req.DateOfOnset,
		ConfirmedDisease: req.ConfirmedDisease && req.DiseaseName != nil && strings.TrimSpace(*req.DiseaseName) != "",
		SeatID:           seatID,
		Location:         location,
		Timestamp:        s.clock.Now().UTC().Format(time.RFC3339),
		Status:           model.ReportPending,
	}
	if report.ConfirmedDisease {
		name := strings.TrimSpace(*req.DiseaseName)
		report.DiseaseName = &name
	}

	s.mu.Lock()
	if u, ok := s.users[id.Email]; ok && report.UserGradeLevel == "" {
		report.UserGradeLevel = u.GradeLevel
		report.GradeLevel = u.GradeLevel
	}
	s.reports = append(s.reports, report)
	s.mu.Unlock()

	s.logger.Info("report created", "id", report.ID, "seat", seatID, "severity", report.Severity)
	writeJSON(w, http.StatusCreated, report)
}

func (s *Server) handleMyReports(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	s.mu.Lock()
	mine := []model.HealthReport{}
	for _, report := range s.reports {
		if report.UserID == id.UserID {
			mine = append(mine, report)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, mine)
}

func (s *Server) handleAllReports(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	all := slices.Clone(s.reports)
	s.mu.Unlock()
	if all == nil {
		all = []model.HealthReport{}
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleReportStatus(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")
	var req struct {
		Status model.ReportStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil || !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reports {
		if s.reports[i].ID == reportID {
			s.reports[i].Status = req.Status
			writeJSON(w, http.StatusOK, s.reports[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "report not found")
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	now := s.clock.Now()
	today := now.Format(time.DateOnly)

	s.mu.Lock()
	stats := baseStats()
	for _, report := range s.reports {
		if sameDay(report.Timestamp, now.Location(), today) {
			stats.TotalReportsToday++
		}
		if report.ConfirmedDisease {
			stats.ConfirmedCases++
		} else {
			stats.SuspectedCases++
		}
	}
	actions := slices.Clone(s.actions)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, model.Dashboard{
		Stats:       stats,
		Hotspots:    hotspots(now),
		Predictions: predictions(now),
		Actions:     actions,
		Bayesian:    bayesian(),
	})
}

func (s *Server) handleActionStatus(w http.ResponseWriter, r *http.Request) {
	actionID := chi.URLParam(r, "id")
	var req struct {
		Status model.ActionStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil || !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.actions {
		if s.actions[i].ID == actionID {
			s.actions[i].Status = req.Status
			writeJSON(w, http.StatusOK, s.actions[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "action not found")
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// sameDay reports whether an RFC 3339 timestamp falls on day in loc.
func sameDay(timestamp string, loc *time.Location, day string) bool {
	ts, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return false
	}
	return ts.In(loc).Format(time.DateOnly) == day
}
