// Package relay implements the pass-through HTTP forwarder the editor uses
// to reach the external ticket tracker. It forwards one request verbatim and
// reflects the upstream response; no retries, no queuing, no session state.
package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/a11yreport/safeweb"
)

// Request is the /proxy envelope. Method defaults to GET when absent.
type Request struct {
	URL     string            `json:"url"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    json.RawMessage   `json:"body,omitempty"`
}

// Response reflects the upstream result. OK is true for 2xx upstream
// statuses; Data holds parsed JSON when the upstream says it sent JSON and
// raw text otherwise.
type Response struct {
	OK         bool            `json:"ok"`
	Status     int             `json:"status"`
	StatusText string          `json:"statusText"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Handler serves the relay endpoints.
type Handler struct {
	client     *http.Client
	logger     *slog.Logger
	checkURL   func(string) error
	maxRespLen int64
	started    time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithHTTPClient overrides the outbound HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(h *Handler) { h.client = hc }
}

// WithLogger sets the handler logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// WithSSRFGuard rejects forwards to private or loopback addresses. Off by
// default: the relay normally runs beside the editor and forwards wherever
// the tracker lives, including internal deployments.
func WithSSRFGuard() Option {
	return func(h *Handler) { h.checkURL = safeweb.ValidateURL }
}

// New creates a relay Handler.
func New(opts ...Option) *Handler {
	h := &Handler{
		client:     http.DefaultClient,
		logger:     slog.Default(),
		checkURL:   safeweb.ValidateScheme,
		maxRespLen: safeweb.MaxResponseBody,
		started:    time.Now(),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Routes returns the relay router: POST /proxy and GET / health.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleHealth)
	r.Post("/proxy", h.handleProxy)
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

func (h *Handler) handleProxy(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			OK: false, Status: http.StatusBadRequest,
			StatusText: "Bad Request", Error: "invalid proxy envelope",
		})
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, Response{
			OK: false, Status: http.StatusBadRequest,
			StatusText: "Bad Request", Error: "url required",
		})
		return
	}
	if err := h.checkURL(req.URL); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			OK: false, Status: http.StatusBadRequest,
			StatusText: "Bad Request", Error: err.Error(),
		})
		return
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	out, err := http.NewRequestWithContext(r.Context(), method, req.URL, body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			OK: false, Status: http.StatusBadRequest,
			StatusText: "Bad Request", Error: err.Error(),
		})
		return
	}
	for k, v := range req.Headers {
		out.Header.Set(k, v)
	}

	resp, err := h.client.Do(out)
	if err != nil {
		// Transport failure: surface a 500 envelope, never an empty reply.
		h.logger.Warn("relay forward failed", "url", req.URL, "error", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			OK: false, Status: http.StatusInternalServerError,
			StatusText: "Internal Server Error", Error: err.Error(),
		})
		return
	}
	defer resp.Body.Close()

	data, err := safeweb.LimitedReadAll(resp.Body, h.maxRespLen)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{
			OK: false, Status: http.StatusInternalServerError,
			StatusText: "Internal Server Error",
			Error:      fmt.Sprintf("read upstream body: %v", err),
		})
		return
	}

	envelope := Response{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Data:       encodeData(resp.Header.Get("Content-Type"), data),
	}
	// Mirror the upstream status, except statuses that forbid a response body
	// (1xx, 204, 304): those answer 200 and carry the status in the envelope.
	code := resp.StatusCode
	if code < http.StatusOK || code == http.StatusNoContent || code == http.StatusNotModified {
		code = http.StatusOK
	}
	writeJSON(w, code, envelope)
}

// encodeData passes JSON bodies through raw and wraps everything else as a
// JSON string.
func encodeData(contentType string, body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if strings.Contains(contentType, "application/json") && json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, err := json.Marshal(string(body))
	if err != nil {
		return nil
	}
	return json.RawMessage(quoted)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
