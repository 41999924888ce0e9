package editor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/a11yreport/kit"
	"github.com/hazyhaar/a11yreport/report"
)

// RegisterMCP registers the editor tools on an MCP server, exposing the same
// operations as the HTTP API to agent clients.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerReportGetTool(srv)
	s.registerReportMergeTool(srv)
	s.registerReportDigestTool(srv)
	s.registerTrackerSetTool(srv)
	s.registerIssueListTool(srv)
	s.registerIssueAddTool(srv)
	s.registerIssueUpdateTool(srv)
	s.registerIssueDeleteTool(srv)
	s.registerIssueDuplicateTool(srv)
	s.registerTicketFileTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// --- report_get ---

func (s *Service) registerReportGetTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "report_get",
		Description: "Return the current accessibility report with all issues and pages.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		cur := s.Current()
		if cur == nil {
			return nil, report.ErrNoReport
		}
		return cur, nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- report_merge ---

type mergeReq struct {
	Name   string          `json:"name"`
	Report json.RawMessage `json:"report"`
}

func (s *Service) registerReportMergeTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "report_merge",
		Description: "Merge a second report document into the current report under a new name. Duplicate issue ids keep the most recently updated copy.",
		InputSchema: inputSchema(map[string]any{
			"name":   map[string]any{"type": "string", "description": "Name for the merged report"},
			"report": map[string]any{"type": "object", "description": "Second report document (portable JSON shape)"},
		}, []string{"name", "report"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*mergeReq)
		return s.Merge(ctx, r.Report, r.Name)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r mergeReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- report_digest ---

type digestReq struct {
	Since string `json:"since"`
}

func (s *Service) registerReportDigestTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "report_digest",
		Description: "Summarize the issues created since a date (YYYY-MM-DD): count, priority breakdown, per-criterion listing.",
		InputSchema: inputSchema(map[string]any{
			"since": map[string]any{"type": "string", "description": "Start date, YYYY-MM-DD"},
		}, []string{"since"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*digestReq)
		since, err := time.Parse("2006-01-02", r.Since)
		if err != nil {
			return nil, err
		}
		text, err := s.DigestSince(ctx, since)
		if err != nil {
			return nil, err
		}
		return map[string]any{"digest": text}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r digestReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- tracker_set ---

type trackerSetReq struct {
	report.TrackerConfig
	Project string `json:"project,omitempty"`
}

func (s *Service) registerTrackerSetTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "tracker_set",
		Description: "Attach tracker credentials to the current report. The project may be given as an explicit projectKey, or as a pasted tracker URL or bare key in the project field.",
		InputSchema: inputSchema(map[string]any{
			"baseUrl":    map[string]any{"type": "string", "description": "Tracker base URL"},
			"apiToken":   map[string]any{"type": "string", "description": "Tracker API token"},
			"userEmail":  map[string]any{"type": "string", "description": "Account email paired with the token"},
			"projectKey": map[string]any{"type": "string", "description": "Explicit project key"},
			"project":    map[string]any{"type": "string", "description": "Pasted tracker URL or bare project key, used when projectKey is absent"},
		}, []string{"baseUrl", "apiToken", "userEmail"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*trackerSetReq)
		return s.SetTracker(ctx, r.TrackerConfig, r.Project)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r trackerSetReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- issue_list ---

type issueListReq struct {
	Order       string `json:"order,omitempty"`
	NeedsReview bool   `json:"needsReview,omitempty"`
}

func (s *Service) registerIssueListTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "issue_list",
		Description: "List the current report's issues, sorted for display and optionally filtered to those lacking remediation notes.",
		InputSchema: inputSchema(map[string]any{
			"order":       map[string]any{"type": "string", "description": "Sort order: page, criteria, or priority"},
			"needsReview": map[string]any{"type": "boolean", "description": "Keep only issues without notes"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*issueListReq)
		return s.Issues(ctx, report.SortOrder(r.Order), r.NeedsReview)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r issueListReq
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				return nil, err
			}
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- issue_add ---

type issueAddReq struct {
	report.Issue
	Tags []string `json:"tags,omitempty"`
}

func (s *Service) registerIssueAddTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "issue_add",
		Description: "Record a new accessibility issue on the current report. When criterionNumber is absent, scanner tags are parsed for one.",
		InputSchema: inputSchema(map[string]any{
			"page":            map[string]any{"type": "string", "description": "Page the issue was found on"},
			"criterionNumber": map[string]any{"type": "string", "description": "Dotted WCAG criterion, e.g. 1.4.3"},
			"title":           map[string]any{"type": "string"},
			"description":     map[string]any{"type": "string"},
			"location":        map[string]any{"type": "string", "description": "CSS selector or element reference"},
			"screenshot":      map[string]any{"type": "string", "description": "Embedded image data URI"},
			"notes":           map[string]any{"type": "string"},
			"priority":        map[string]any{"type": "string", "description": "low, medium, or blocker"},
			"tags":            map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		}, []string{"page", "title"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*issueAddReq)
		return s.AddIssue(ctx, r.Issue, r.Tags)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r issueAddReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- issue_update ---

type issueUpdateReq struct {
	ID    string            `json:"id"`
	Patch report.IssuePatch `json:"patch"`
}

func (s *Service) registerIssueUpdateTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "issue_update",
		Description: "Merge partial field updates into one issue; absent fields are left untouched.",
		InputSchema: inputSchema(map[string]any{
			"id":    map[string]any{"type": "string", "description": "Issue id"},
			"patch": map[string]any{"type": "object", "description": "Fields to update"},
		}, []string{"id", "patch"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*issueUpdateReq)
		return s.UpdateIssue(ctx, r.ID, r.Patch)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r issueUpdateReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- issue_delete ---

type issueIDReq struct {
	ID string `json:"id"`
}

func (s *Service) registerIssueDeleteTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "issue_delete",
		Description: "Remove one issue from the current report and prune pages no longer referenced.",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Issue id"},
		}, []string{"id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*issueIDReq)
		if err := s.DeleteIssue(ctx, r.ID); err != nil {
			return nil, err
		}
		return map[string]any{"deleted": r.ID}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeIssueID)
}

func (s *Service) registerIssueDuplicateTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "issue_duplicate",
		Description: "Duplicate one issue under a fresh id; the copy carries no tracker ticket reference.",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Issue id to duplicate"},
		}, []string{"id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*issueIDReq)
		return s.DuplicateIssue(ctx, r.ID)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeIssueID)
}

func (s *Service) registerTicketFileTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "ticket_file",
		Description: "File one issue as a ticket in the configured tracker and store the ticket reference back onto the issue.",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Issue id to file"},
		}, []string{"id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*issueIDReq)
		ticket, err := s.FileTicket(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		return map[string]string{"key": ticket.Key, "url": ticket.URL}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeIssueID)
}

func decodeIssueID(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	var r issueIDReq
	if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
		return nil, err
	}
	return &kit.MCPDecodeResult{Request: &r}, nil
}
