package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazyhaar/a11yreport/report"
	"github.com/hazyhaar/a11yreport/tracker"

	_ "modernc.org/sqlite"
)

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func TestHTTPReportLifecycle(t *testing.T) {
	s, _ := newTestService(t)
	h := s.Routes()

	rec := doJSON(t, h, http.MethodGet, "/report", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("empty slot: status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/report", map[string]string{"name": "Audit"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d body = %s", rec.Code, rec.Body.String())
	}
	var created report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	rec = doJSON(t, h, http.MethodGet, "/report", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get: status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodDelete, "/report", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/report", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("after delete: status = %d", rec.Code)
	}
}

func TestHTTPIssueFlow(t *testing.T) {
	s, _ := newTestService(t)
	h := s.Routes()
	s.NewReport(context.Background(), "Audit")

	rec := doJSON(t, h, http.MethodPost, "/issues", map[string]any{
		"page":  "/checkout",
		"title": "Low contrast",
		"tags":  []string{"wcag143"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: status = %d body = %s", rec.Code, rec.Body.String())
	}
	var is report.Issue
	if err := json.Unmarshal(rec.Body.Bytes(), &is); err != nil {
		t.Fatal(err)
	}
	if is.CriterionNumber != "1.4.3" {
		t.Errorf("criterion from tags = %q", is.CriterionNumber)
	}

	rec = doJSON(t, h, http.MethodPatch, "/issues/"+is.ID, map[string]string{"notes": "retested, still broken"})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/issues?needsReview=true", nil)
	var open []report.Issue
	if err := json.Unmarshal(rec.Body.Bytes(), &open); err != nil {
		t.Fatal(err)
	}
	if len(open) != 0 {
		t.Errorf("noted issue still needs review: %+v", open)
	}

	rec = doJSON(t, h, http.MethodPost, "/issues/"+is.ID+"/duplicate", nil)
	if rec.Code != http.StatusCreated {
		t.Errorf("duplicate: status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodDelete, "/issues/"+is.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodDelete, "/issues/"+is.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("double delete: status = %d", rec.Code)
	}
}

func TestHTTPSetTracker(t *testing.T) {
	s, _ := newTestService(t)
	h := s.Routes()
	s.NewReport(context.Background(), "Audit")

	// A pasted tracker URL in place of an explicit projectKey.
	rec := doJSON(t, h, http.MethodPut, "/report/tracker", map[string]string{
		"baseUrl":   "https://x.atlassian.net",
		"apiToken":  "t",
		"userEmail": "e@x",
		"project":   "https://x.atlassian.net/browse/ACC-41",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set: status = %d body = %s", rec.Code, rec.Body.String())
	}
	var r report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatal(err)
	}
	if r.Tracker == nil || r.Tracker.ProjectKey != "ACC" {
		t.Errorf("tracker = %+v", r.Tracker)
	}

	rec = doJSON(t, h, http.MethodPut, "/report/tracker", map[string]string{
		"baseUrl":   "https://x.atlassian.net",
		"apiToken":  "t",
		"userEmail": "e@x",
		"project":   "definitely not a project",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unrecognized reference: status = %d", rec.Code)
	}
}

func TestHTTPFileTicketIncompleteConfig(t *testing.T) {
	filer := &fakeFiler{err: tracker.ErrIncompleteConfig}
	s, _ := newTestService(t, WithTicketFiler(filer))
	h := s.Routes()
	ctx := context.Background()
	s.NewReport(ctx, "Audit")
	is, _ := s.AddIssue(ctx, report.Issue{Page: "/a", Title: "x"}, nil)

	// Missing credentials are the caller's fault, not the tracker's.
	rec := doJSON(t, h, http.MethodPost, "/issues/"+is.ID+"/ticket", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("incomplete config: status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestHTTPSortPreference(t *testing.T) {
	s, _ := newTestService(t)
	h := s.Routes()

	rec := doJSON(t, h, http.MethodPut, "/preferences/sort", map[string]string{"order": "priority"})
	if rec.Code != http.StatusOK {
		t.Fatalf("put: status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/preferences/sort", nil)
	if !strings.Contains(rec.Body.String(), "priority") {
		t.Errorf("get: %s", rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPut, "/preferences/sort", map[string]string{"order": "bogus"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bogus order: status = %d", rec.Code)
	}
}

func TestHTTPExportAndDigest(t *testing.T) {
	s, _ := newTestService(t)
	h := s.Routes()
	ctx := context.Background()
	s.NewReport(ctx, "Audit")
	s.AddIssue(ctx, report.Issue{Page: "/a", Title: "x", Priority: report.PriorityBlocker}, nil)

	rec := doJSON(t, h, http.MethodGet, "/export/json", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("json export: status = %d", rec.Code)
	}
	var exported report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &exported); err != nil {
		t.Fatalf("export not valid JSON: %v", err)
	}

	rec = doJSON(t, h, http.MethodGet, "/export/html", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<!DOCTYPE html>") {
		t.Errorf("html export: status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/digest?since=2026-08-01", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "New issues: 1") {
		t.Errorf("digest: status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/digest?since=not-a-date", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad since: status = %d", rec.Code)
	}
}

func TestHTTPImportMergeRoundTrip(t *testing.T) {
	s, _ := newTestService(t)
	h := s.Routes()
	ctx := context.Background()
	s.NewReport(ctx, "Mine")
	s.AddIssue(ctx, report.Issue{Page: "/a", Title: "mine"}, nil)

	exportRec := doJSON(t, h, http.MethodGet, "/export/json", nil)

	rec := doJSON(t, h, http.MethodPost, "/report/merge", map[string]any{
		"name":   "Combined",
		"report": json.RawMessage(exportRec.Body.Bytes()),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("merge: status = %d body = %s", rec.Code, rec.Body.String())
	}
	var merged report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &merged); err != nil {
		t.Fatal(err)
	}
	// Self-merge: same issue ids collide, no duplication.
	if len(merged.Issues) != 1 {
		t.Errorf("self merge duplicated issues: %d", len(merged.Issues))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/report/import", strings.NewReader("not json")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed import: status = %d", rec.Code)
	}
}
