// Package editor is the editing surface: it owns the single current report,
// applies the pure transforms from the report package, and persists each
// accepted mutation fire-and-forget through the repository.
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/a11yreport/eventlog"
	"github.com/hazyhaar/a11yreport/export"
	"github.com/hazyhaar/a11yreport/idgen"
	"github.com/hazyhaar/a11yreport/report"
	"github.com/hazyhaar/a11yreport/tracker"
	"github.com/hazyhaar/a11yreport/wcag"
)

// Repository is the persistence collaborator: one report slot plus the sort
// preference. The sqlite store implements it; tests may substitute.
type Repository interface {
	GetReport(ctx context.Context) (*report.Report, error)
	PutReport(ctx context.Context, r report.Report) error
	DeleteReport(ctx context.Context) error
	GetSortPreference(ctx context.Context) (report.SortOrder, error)
	PutSortPreference(ctx context.Context, order report.SortOrder) error
}

// TicketFiler files one issue as a remote tracker ticket.
type TicketFiler interface {
	CreateTicket(ctx context.Context, cfg *report.TrackerConfig, is report.Issue) (tracker.Ticket, error)
}

// Service owns the current report. All mutations hold the mutex, apply a
// pure transform, swap the in-memory value, then schedule a save. Saves are
// fire-and-forget: a failing repository is logged and the edit survives in
// memory for the session.
type Service struct {
	repo        Repository
	events      *eventlog.Logger
	filer       TicketFiler
	logger      *slog.Logger
	newID       idgen.Generator
	now         func() time.Time
	save        func(func())
	saveTimeout time.Duration

	mu      sync.Mutex
	current *report.Report
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithEventLog sets the activity logger.
func WithEventLog(l *eventlog.Logger) Option {
	return func(s *Service) { s.events = l }
}

// WithTicketFiler sets the tracker client used for ticket filing.
func WithTicketFiler(f TicketFiler) Option {
	return func(s *Service) { s.filer = f }
}

// WithIDGenerator sets a custom ID generator.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(s *Service) { s.newID = gen }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSyncSave makes saves run inline instead of in a goroutine. For tests.
func WithSyncSave() Option {
	return func(s *Service) { s.save = func(fn func()) { fn() } }
}

// WithSaveTimeout bounds each background repository write. Non-positive
// values are ignored.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.saveTimeout = d
		}
	}
}

// New creates a Service backed by the given repository.
func New(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		logger:      slog.Default(),
		newID:       idgen.Default,
		now:         time.Now,
		save:        func(fn func()) { go fn() },
		saveTimeout: 5 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load reads the persisted report into memory. Called once at startup; a
// missing slot is not an error.
func (s *Service) Load(ctx context.Context) error {
	r, err := s.repo.GetReport(ctx)
	if err != nil {
		return fmt.Errorf("editor: load report: %w", err)
	}
	s.mu.Lock()
	s.current = r
	s.mu.Unlock()
	return nil
}

// Current returns a copy of the current report, or nil when none exists.
func (s *Service) Current() *report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	r := s.current.Clone()
	return &r
}

// NewReport replaces the current report with a fresh empty one.
func (s *Service) NewReport(ctx context.Context, name string) report.Report {
	r := report.New(s.newID(), name, s.now())
	s.swap(ctx, r)
	s.logEvent(ctx, "report.create", r.ID, true)
	return r
}

// ImportReport replaces the current report with a decoded portable document.
// Structural validation covers the top-level shape only; a malformed document
// aborts the import with no partial load.
func (s *Service) ImportReport(ctx context.Context, raw []byte) (report.Report, error) {
	r, err := export.DecodeJSON(raw)
	if err != nil {
		s.logEvent(ctx, "report.import", "", false)
		return report.Report{}, err
	}
	s.swap(ctx, r)
	s.logEvent(ctx, "report.import", r.ID, true)
	return r, nil
}

// DeleteReport clears the current report, in memory and in the repository.
// Unlike edits, the repository delete is synchronous and its error surfaces.
func (s *Service) DeleteReport(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	if err := s.repo.DeleteReport(ctx); err != nil {
		return err
	}
	s.logEvent(ctx, "report.delete", "", true)
	return nil
}

// SetTracker attaches tracker credentials to the current report. The project
// may arrive as an explicit key in cfg or as a pasted tracker reference
// (project, issue, or board URL, or a bare key); when the explicit key is
// absent it is derived from the reference.
func (s *Service) SetTracker(ctx context.Context, cfg report.TrackerConfig, ref string) (report.Report, error) {
	if cfg.ProjectKey == "" && ref != "" {
		res := tracker.ParseResource(ref)
		if res.Kind == tracker.KindUnrecognized {
			return report.Report{}, fmt.Errorf("%w: %q", tracker.ErrUnrecognized, ref)
		}
		cfg.ProjectKey = res.ProjectKey
	}

	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return report.Report{}, report.ErrNoReport
	}
	r := s.current.Clone()
	r.Tracker = &cfg
	r.UpdatedAt = s.now()
	s.current = &r
	s.mu.Unlock()

	s.scheduleSave(r)
	return r, nil
}

// AddIssue appends a new issue to the current report. When the issue carries
// no criterion number, scanner tags are consulted for one.
func (s *Service) AddIssue(ctx context.Context, is report.Issue, tags []string) (report.Issue, error) {
	if is.CriterionNumber == "" {
		is.CriterionNumber = wcag.ExtractCriterion(tags)
	}

	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return report.Issue{}, report.ErrNoReport
	}
	id := s.newID()
	r := report.AddIssue(*s.current, is, id, s.now())
	s.current = &r
	s.mu.Unlock()

	s.scheduleSave(r)
	s.logEvent(ctx, "issue.add", id, true)
	return *r.IssueByID(id), nil
}

// UpdateIssue merges a partial patch into one issue.
func (s *Service) UpdateIssue(ctx context.Context, issueID string, patch report.IssuePatch) (report.Issue, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return report.Issue{}, report.ErrNoReport
	}
	r, ok := report.UpdateIssue(*s.current, issueID, patch, s.now())
	if !ok {
		s.mu.Unlock()
		return report.Issue{}, fmt.Errorf("%w: %s", report.ErrIssueNotFound, issueID)
	}
	s.current = &r
	s.mu.Unlock()

	s.scheduleSave(r)
	s.logEvent(ctx, "issue.update", issueID, true)
	return *r.IssueByID(issueID), nil
}

// DuplicateIssue appends a copy of an issue under a fresh id. The copy
// carries no ticket reference.
func (s *Service) DuplicateIssue(ctx context.Context, issueID string) (report.Issue, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return report.Issue{}, report.ErrNoReport
	}
	newID := s.newID()
	r, ok := report.DuplicateIssue(*s.current, issueID, newID, s.now())
	if !ok {
		s.mu.Unlock()
		return report.Issue{}, fmt.Errorf("%w: %s", report.ErrIssueNotFound, issueID)
	}
	s.current = &r
	s.mu.Unlock()

	s.scheduleSave(r)
	s.logEvent(ctx, "issue.duplicate", newID, true)
	return *r.IssueByID(newID), nil
}

// DeleteIssue removes one issue and prunes now-unreferenced pages.
func (s *Service) DeleteIssue(ctx context.Context, issueID string) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return report.ErrNoReport
	}
	r, ok := report.DeleteIssue(*s.current, issueID, s.now())
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", report.ErrIssueNotFound, issueID)
	}
	s.current = &r
	s.mu.Unlock()

	s.scheduleSave(r)
	s.logEvent(ctx, "issue.delete", issueID, true)
	return nil
}

// Issues returns the issue list ordered for display. An invalid order falls
// back to the persisted preference. The filter keeps only issues still
// lacking remediation notes.
func (s *Service) Issues(ctx context.Context, order report.SortOrder, needsReviewOnly bool) ([]report.Issue, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return nil, report.ErrNoReport
	}
	issues := append([]report.Issue(nil), s.current.Issues...)
	s.mu.Unlock()

	if !order.Valid() {
		pref, err := s.repo.GetSortPreference(ctx)
		if err != nil {
			s.logger.Warn("sort preference read failed", "error", err)
			pref = report.SortByPage
		}
		order = pref
	}
	if needsReviewOnly {
		issues = report.FilterNeedsReview(issues)
	}
	return report.SortIssues(issues, order), nil
}

// Merge combines the current report with a second portable document under a
// new name. The incoming document is validated before the merge runs; a
// structurally invalid document rejects the whole operation.
func (s *Service) Merge(ctx context.Context, raw []byte, name string) (report.Report, error) {
	other, err := export.DecodeJSON(raw)
	if err != nil {
		s.logEvent(ctx, "report.merge", "", false)
		return report.Report{}, err
	}

	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return report.Report{}, report.ErrNoReport
	}
	merged := report.Merge(*s.current, other, name, s.newID(), s.now())
	s.current = &merged
	s.mu.Unlock()

	s.scheduleSave(merged)
	s.logEvent(ctx, "report.merge", merged.ID, true)
	return merged, nil
}

// SortPreference returns the persisted default sort order.
func (s *Service) SortPreference(ctx context.Context) (report.SortOrder, error) {
	return s.repo.GetSortPreference(ctx)
}

// SetSortPreference persists the default sort order.
func (s *Service) SetSortPreference(ctx context.Context, order report.SortOrder) error {
	if !order.Valid() {
		return fmt.Errorf("editor: unknown sort order %q", order)
	}
	return s.repo.PutSortPreference(ctx, order)
}

// ExportJSON renders the current report as the portable JSON document.
func (s *Service) ExportJSON(ctx context.Context) ([]byte, error) {
	r := s.Current()
	if r == nil {
		return nil, report.ErrNoReport
	}
	return export.EncodeJSON(*r)
}

// ExportHTML renders the current report as a self-contained HTML document,
// ordered by the persisted sort preference.
func (s *Service) ExportHTML(ctx context.Context) ([]byte, error) {
	r := s.Current()
	if r == nil {
		return nil, report.ErrNoReport
	}
	order, err := s.repo.GetSortPreference(ctx)
	if err != nil {
		s.logger.Warn("sort preference read failed", "error", err)
		order = report.SortByPage
	}
	return export.BuildHTML(*r, order)
}

// DigestSince renders the free-text digest of issues created since a date.
func (s *Service) DigestSince(ctx context.Context, since time.Time) (string, error) {
	r := s.Current()
	if r == nil {
		return "", report.ErrNoReport
	}
	return export.BuildDigest(*r, since).Render(r.Name), nil
}

// FileTicket files one issue with the tracker configured on the current
// report and stores the resulting ticket reference back onto the issue.
func (s *Service) FileTicket(ctx context.Context, issueID string) (tracker.Ticket, error) {
	if s.filer == nil {
		return tracker.Ticket{}, fmt.Errorf("editor: no tracker client configured")
	}

	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return tracker.Ticket{}, report.ErrNoReport
	}
	cfg := s.current.Tracker
	is := s.current.IssueByID(issueID)
	s.mu.Unlock()

	if is == nil {
		return tracker.Ticket{}, fmt.Errorf("%w: %s", report.ErrIssueNotFound, issueID)
	}

	ticket, err := s.filer.CreateTicket(ctx, cfg, *is)
	if err != nil {
		s.logEvent(ctx, "ticket.file", issueID, false)
		return tracker.Ticket{}, err
	}

	if _, err := s.UpdateIssue(ctx, issueID, report.IssuePatch{
		TrackerTicketURL: &ticket.URL,
		TrackerTicketKey: &ticket.Key,
	}); err != nil {
		// Ticket exists remotely; surface the bookkeeping failure anyway.
		return ticket, err
	}
	s.logEvent(ctx, "ticket.file", issueID, true)
	return ticket, nil
}

// RecentEvents returns the newest activity entries.
func (s *Service) RecentEvents(ctx context.Context, limit int) ([]eventlog.Event, error) {
	if s.events == nil {
		return nil, nil
	}
	return s.events.Recent(ctx, limit)
}

// swap replaces the current report and schedules a save.
func (s *Service) swap(ctx context.Context, r report.Report) {
	s.mu.Lock()
	s.current = &r
	s.mu.Unlock()
	s.scheduleSave(r)
}

// scheduleSave persists the given snapshot fire-and-forget. The snapshot is
// captured by value, so later edits never race the write.
func (s *Service) scheduleSave(r report.Report) {
	s.save(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
		defer cancel()
		if err := s.repo.PutReport(ctx, r); err != nil {
			s.logger.Error("report save failed", "report_id", r.ID, "error", err)
		}
	})
}

func (s *Service) logEvent(ctx context.Context, eventType, entityID string, success bool) {
	if s.events == nil {
		return
	}
	s.events.Log(ctx, eventlog.Event{Type: eventType, EntityID: entityID, Success: success, At: s.now()})
}
