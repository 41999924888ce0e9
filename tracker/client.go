package tracker

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"github.com/hazyhaar/a11yreport/report"
	"github.com/hazyhaar/a11yreport/wcag"
)

// ErrIncompleteConfig is returned when the report carries no usable tracker
// credentials.
var ErrIncompleteConfig = errors.New("tracker: config incomplete")

// Ticket is the reference returned by a successful filing.
type Ticket struct {
	Key string
	URL string
}

// Client files tickets through the relay. Each filing is one independent
// request; there is no dedup or queuing, so triggering the action twice
// files two tickets.
type Client struct {
	httpClient *http.Client
	relayURL   string
	logger     *slog.Logger
	md         *converter.Converter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used to reach the relay.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client that forwards through the relay at relayURL.
func NewClient(relayURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		relayURL:   strings.TrimRight(relayURL, "/"),
		logger:     slog.Default(),
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// proxyRequest is the relay envelope; mirrors relay.Request.
type proxyRequest struct {
	URL     string            `json:"url"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    json.RawMessage   `json:"body,omitempty"`
}

type proxyResponse struct {
	OK         bool            `json:"ok"`
	Status     int             `json:"status"`
	StatusText string          `json:"statusText"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error,omitempty"`
}

// jiraCreatePayload is the tracker's create-issue request body.
type jiraCreatePayload struct {
	Fields jiraFields `json:"fields"`
}

type jiraFields struct {
	Project     jiraProject   `json:"project"`
	Summary     string        `json:"summary"`
	Description string        `json:"description"`
	IssueType   jiraIssueType `json:"issuetype"`
	Labels      []string      `json:"labels,omitempty"`
}

type jiraProject struct {
	Key string `json:"key"`
}

type jiraIssueType struct {
	Name string `json:"name"`
}

// CreateTicket files one issue as a tracker ticket using the credentials in
// cfg and returns the created ticket reference. The relay response status is
// surfaced verbatim in the error when the tracker rejects the request.
func (c *Client) CreateTicket(ctx context.Context, cfg *report.TrackerConfig, is report.Issue) (Ticket, error) {
	if !cfg.Complete() {
		return Ticket{}, ErrIncompleteConfig
	}
	projectKey := cfg.ProjectKey
	if projectKey == "" {
		return Ticket{}, fmt.Errorf("%w: project key missing", ErrIncompleteConfig)
	}

	payload := jiraCreatePayload{
		Fields: jiraFields{
			Project:     jiraProject{Key: projectKey},
			Summary:     fmt.Sprintf("[a11y] %s", is.Title),
			Description: c.ticketDescription(is),
			IssueType:   jiraIssueType{Name: "Bug"},
			Labels:      []string{"accessibility"},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Ticket{}, fmt.Errorf("tracker: encode payload: %w", err)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(cfg.UserEmail + ":" + cfg.APIToken))
	envelope, err := json.Marshal(proxyRequest{
		URL:    strings.TrimRight(cfg.BaseURL, "/") + "/rest/api/2/issue",
		Method: http.MethodPost,
		Headers: map[string]string{
			"Authorization": "Basic " + auth,
			"Content-Type":  "application/json",
		},
		Body: body,
	})
	if err != nil {
		return Ticket{}, fmt.Errorf("tracker: encode envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.relayURL+"/proxy", bytes.NewReader(envelope))
	if err != nil {
		return Ticket{}, fmt.Errorf("tracker: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Ticket{}, fmt.Errorf("tracker: relay unreachable: %w", err)
	}
	defer resp.Body.Close()

	var pr proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return Ticket{}, fmt.Errorf("tracker: decode relay response: %w", err)
	}
	if !pr.OK {
		c.logger.Warn("ticket filing rejected", "status", pr.Status, "status_text", pr.StatusText)
		return Ticket{}, fmt.Errorf("tracker: create failed: %d %s", pr.Status, pr.StatusText)
	}

	var created struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(pr.Data, &created); err != nil || created.Key == "" {
		return Ticket{}, fmt.Errorf("tracker: unexpected create response: %s", pr.Data)
	}
	return Ticket{
		Key: created.Key,
		URL: strings.TrimRight(cfg.BaseURL, "/") + "/browse/" + created.Key,
	}, nil
}

// ticketDescription assembles the ticket body. Description and notes may
// carry rich-text HTML from the editor; they are converted to markdown so
// the tracker renders them cleanly.
func (c *Client) ticketDescription(is report.Issue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Page: %s\n", is.Page)
	fmt.Fprintf(&b, "Criterion: %s\n", wcag.Label(is.CriterionNumber))
	fmt.Fprintf(&b, "Priority: %s\n", is.Priority)
	if is.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", is.Location)
	}
	if is.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", c.toMarkdown(is.Description))
	}
	if is.Notes != "" {
		fmt.Fprintf(&b, "\nNotes:\n%s\n", c.toMarkdown(is.Notes))
	}
	return b.String()
}

func (c *Client) toMarkdown(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}
	out, err := c.md.ConvertString(text)
	if err != nil {
		c.logger.Warn("rich text conversion failed, sending raw", "error", err)
		return text
	}
	return out
}
