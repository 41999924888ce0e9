package editor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/a11yreport/eventlog"
	"github.com/hazyhaar/a11yreport/report"
	"github.com/hazyhaar/a11yreport/tracker"
)

// Routes returns the editor HTTP API.
func (s *Service) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/report", func(r chi.Router) {
		r.Get("/", s.handleGetReport)
		r.Post("/", s.handleNewReport)
		r.Delete("/", s.handleDeleteReport)
		r.Post("/import", s.handleImport)
		r.Post("/merge", s.handleMerge)
		r.Put("/tracker", s.handleSetTracker)
	})

	r.Route("/issues", func(r chi.Router) {
		r.Get("/", s.handleListIssues)
		r.Post("/", s.handleAddIssue)
		r.Patch("/{id}", s.handleUpdateIssue)
		r.Delete("/{id}", s.handleDeleteIssue)
		r.Post("/{id}/duplicate", s.handleDuplicateIssue)
		r.Post("/{id}/ticket", s.handleFileTicket)
	})

	r.Get("/preferences/sort", s.handleGetSortPreference)
	r.Put("/preferences/sort", s.handleSetSortPreference)

	r.Get("/export/json", s.handleExportJSON)
	r.Get("/export/html", s.handleExportHTML)
	r.Get("/digest", s.handleDigest)
	r.Get("/events", s.handleEvents)

	return r
}

func (s *Service) handleGetReport(w http.ResponseWriter, r *http.Request) {
	cur := s.Current()
	if cur == nil {
		writeError(w, http.StatusNotFound, report.ErrNoReport)
		return
	}
	writeJSON(w, http.StatusOK, cur)
}

func (s *Service) handleNewReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, errors.New("name required"))
		return
	}
	writeJSON(w, http.StatusCreated, s.NewReport(r.Context(), req.Name))
}

func (s *Service) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := s.DeleteReport(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleImport(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rep, err := s.ImportReport(r.Context(), raw)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Service) handleMerge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string          `json:"name"`
		Report json.RawMessage `json:"report"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" || len(req.Report) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("name and report required"))
		return
	}
	merged, err := s.Merge(r.Context(), req.Report, req.Name)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, merged)
}

func (s *Service) handleSetTracker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		report.TrackerConfig
		// Project accepts a pasted tracker URL or bare key in place of an
		// explicit projectKey.
		Project string `json:"project,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rep, err := s.SetTracker(r.Context(), req.TrackerConfig, req.Project)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Service) handleListIssues(w http.ResponseWriter, r *http.Request) {
	order := report.SortOrder(r.URL.Query().Get("order"))
	needsReview := r.URL.Query().Get("needsReview") == "true"
	issues, err := s.Issues(r.Context(), order, needsReview)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, issues)
}

func (s *Service) handleAddIssue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		report.Issue
		Tags []string `json:"tags,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	is, err := s.AddIssue(r.Context(), req.Issue, req.Tags)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, is)
}

func (s *Service) handleUpdateIssue(w http.ResponseWriter, r *http.Request) {
	var patch report.IssuePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	is, err := s.UpdateIssue(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, is)
}

func (s *Service) handleDeleteIssue(w http.ResponseWriter, r *http.Request) {
	if err := s.DeleteIssue(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleDuplicateIssue(w http.ResponseWriter, r *http.Request) {
	is, err := s.DuplicateIssue(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, is)
}

func (s *Service) handleFileTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := s.FileTicket(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"key": ticket.Key, "url": ticket.URL})
}

func (s *Service) handleGetSortPreference(w http.ResponseWriter, r *http.Request) {
	order, err := s.SortPreference(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"order": string(order)})
}

func (s *Service) handleSetSortPreference(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Order report.SortOrder `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.SetSortPreference(r.Context(), req.Order); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"order": string(req.Order)})
}

func (s *Service) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := s.ExportJSON(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="report.json"`)
	w.Write(data)
}

func (s *Service) handleExportHTML(w http.ResponseWriter, r *http.Request) {
	data, err := s.ExportHTML(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func (s *Service) handleDigest(w http.ResponseWriter, r *http.Request) {
	sinceParam := r.URL.Query().Get("since")
	since, err := time.Parse("2006-01-02", sinceParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("since must be YYYY-MM-DD"))
		return
	}
	text, err := s.DigestSince(r.Context(), since)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := s.RecentEvents(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if events == nil {
		events = []eventlog.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, report.ErrNoReport), errors.Is(err, report.ErrIssueNotFound):
		return http.StatusNotFound
	case errors.Is(err, report.ErrInvalidReport),
		errors.Is(err, tracker.ErrUnrecognized),
		errors.Is(err, tracker.ErrIncompleteConfig):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
