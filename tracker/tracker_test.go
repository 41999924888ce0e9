package tracker

// WHAT: tracker reference parsing and ticket filing through the relay.
// WHY: references arrive as pasted URLs or bare keys; filing must carry
// credentials per-request and surface tracker rejections verbatim.

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hazyhaar/a11yreport/report"
)

func TestParseResource(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Resource
	}{
		{"issue url", "https://example.atlassian.net/browse/ACC-123", Resource{Kind: KindIssue, ProjectKey: "ACC", IssueKey: "ACC-123"}},
		{"issue url lowercase", "https://example.atlassian.net/browse/acc-7", Resource{Kind: KindIssue, ProjectKey: "ACC", IssueKey: "ACC-7"}},
		{"issue url with query", "https://example.atlassian.net/browse/ACC-123?focused=true", Resource{Kind: KindIssue, ProjectKey: "ACC", IssueKey: "ACC-123"}},
		{"project url", "https://example.atlassian.net/browse/ACC", Resource{Kind: KindProject, ProjectKey: "ACC"}},
		{"board url", "https://example.atlassian.net/jira/software/projects/ACC/boards/42", Resource{Kind: KindBoard, ProjectKey: "ACC", BoardID: "42"}},
		{"bare key", "ACC", Resource{Kind: KindProject, ProjectKey: "ACC"}},
		{"bare key lowercase", "acc", Resource{Kind: KindProject, ProjectKey: "ACC"}},
		{"bare key mixed", "Web2", Resource{Kind: KindProject, ProjectKey: "WEB2"}},
		{"digit-leading key rejected", "2ACC", Resource{Kind: KindUnrecognized}},
		{"too long key rejected", "ABCDEFGHIJK", Resource{Kind: KindUnrecognized}},
		{"empty", "", Resource{Kind: KindUnrecognized}},
		{"random text", "not a tracker thing", Resource{Kind: KindUnrecognized}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseResource(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseResource(%q) (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func completeConfig(baseURL string) *report.TrackerConfig {
	return &report.TrackerConfig{
		BaseURL:    baseURL,
		APIToken:   "tok",
		UserEmail:  "auditor@example.com",
		ProjectKey: "ACC",
	}
}

func TestCreateTicket(t *testing.T) {
	var captured proxyRequest
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/proxy" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		json.NewEncoder(w).Encode(proxyResponse{
			OK: true, Status: 201, StatusText: "Created",
			Data: json.RawMessage(`{"id":"10001","key":"ACC-7"}`),
		})
	}))
	defer relay.Close()

	c := NewClient(relay.URL)
	is := report.Issue{
		ID:              "iss_1",
		Page:            "/checkout",
		CriterionNumber: "1.4.3",
		Title:           "Low contrast on submit button",
		Description:     "<p>Button text is <strong>2.8:1</strong>.</p>",
		Priority:        report.PriorityBlocker,
	}
	ticket, err := c.CreateTicket(context.Background(), completeConfig("https://example.atlassian.net/"), is)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ticket.Key != "ACC-7" {
		t.Errorf("key = %q", ticket.Key)
	}
	if ticket.URL != "https://example.atlassian.net/browse/ACC-7" {
		t.Errorf("url = %q", ticket.URL)
	}

	if captured.URL != "https://example.atlassian.net/rest/api/2/issue" {
		t.Errorf("forwarded url = %q", captured.URL)
	}
	if captured.Method != http.MethodPost {
		t.Errorf("forwarded method = %q", captured.Method)
	}
	if !strings.HasPrefix(captured.Headers["Authorization"], "Basic ") {
		t.Errorf("auth header = %q", captured.Headers["Authorization"])
	}

	var payload jiraCreatePayload
	if err := json.Unmarshal(captured.Body, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Fields.Project.Key != "ACC" {
		t.Errorf("project key = %q", payload.Fields.Project.Key)
	}
	if !strings.Contains(payload.Fields.Summary, "Low contrast") {
		t.Errorf("summary = %q", payload.Fields.Summary)
	}
	if !strings.Contains(payload.Fields.Description, "1.4.3 Contrast (Minimum)") {
		t.Errorf("description missing criterion:\n%s", payload.Fields.Description)
	}
	if strings.Contains(payload.Fields.Description, "<strong>") {
		t.Errorf("rich text not converted:\n%s", payload.Fields.Description)
	}
}

func TestCreateTicketTrackerRejection(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(proxyResponse{
			OK: false, Status: 401, StatusText: "Unauthorized",
		})
	}))
	defer relay.Close()

	c := NewClient(relay.URL)
	_, err := c.CreateTicket(context.Background(), completeConfig("https://example.atlassian.net"), report.Issue{Title: "x"})
	if err == nil {
		t.Fatal("rejection not surfaced")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %v", err)
	}
}

func TestCreateTicketIncompleteConfig(t *testing.T) {
	c := NewClient("http://relay.invalid")

	_, err := c.CreateTicket(context.Background(), &report.TrackerConfig{BaseURL: "https://x"}, report.Issue{})
	if err == nil || !strings.Contains(err.Error(), "incomplete") {
		t.Errorf("missing credentials: err = %v", err)
	}

	cfg := completeConfig("https://x")
	cfg.ProjectKey = ""
	_, err = c.CreateTicket(context.Background(), cfg, report.Issue{})
	if err == nil || !strings.Contains(err.Error(), "project key") {
		t.Errorf("missing project key: err = %v", err)
	}
}

func TestCreateTicketRelayUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	_, err := c.CreateTicket(context.Background(), completeConfig("https://x"), report.Issue{Title: "x"})
	if err == nil {
		t.Fatal("unreachable relay not surfaced")
	}
}
