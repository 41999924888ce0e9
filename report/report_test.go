package report

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var t0 = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func testReport() Report {
	r := New("rpt_1", "Audit", t0)
	r = AddIssue(r, Issue{
		Page:            "/checkout",
		CriterionNumber: "1.4.3",
		Title:           "Low contrast on submit button",
		Priority:        PriorityBlocker,
	}, "iss_1", t0.Add(time.Minute))
	r = AddIssue(r, Issue{
		Page:            "/home",
		CriterionNumber: "1.1.1",
		Title:           "Hero image missing alt text",
		Priority:        PriorityMedium,
		Notes:           "add alt attribute",
	}, "iss_2", t0.Add(2*time.Minute))
	return r
}

func TestAddIssueRegistersPage(t *testing.T) {
	r := testReport()
	want := []string{"/checkout", "/home"}
	if diff := cmp.Diff(want, r.Pages); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
	if len(r.Issues) != 2 {
		t.Fatalf("issues: got %d, want 2", len(r.Issues))
	}
	if r.Issues[0].ID != "iss_1" {
		t.Errorf("issue id: got %q", r.Issues[0].ID)
	}
}

func TestAddIssueDefaultsPriority(t *testing.T) {
	r := New("rpt_1", "Audit", t0)
	r = AddIssue(r, Issue{Page: "/a", Title: "x"}, "iss_1", t0)
	if got := r.Issues[0].Priority; got != PriorityMedium {
		t.Errorf("priority: got %q, want medium", got)
	}
}

func TestAddThenDeleteRestoresPages(t *testing.T) {
	// WHAT: Adding an issue on a new page then deleting it by id returns
	// Pages to exactly its pre-add state.
	// WHY: This is the self-healing invariant of the pages set.
	r := testReport()
	before := append([]string(nil), r.Pages...)

	r2 := AddIssue(r, Issue{Page: "/cart", Title: "y"}, "iss_3", t0.Add(3*time.Minute))
	if len(r2.Pages) != len(before)+1 {
		t.Fatalf("page not added: %v", r2.Pages)
	}

	r3, ok := DeleteIssue(r2, "iss_3", t0.Add(4*time.Minute))
	if !ok {
		t.Fatal("delete reported issue missing")
	}
	if diff := cmp.Diff(before, r3.Pages); diff != "" {
		t.Errorf("pages not restored (-want +got):\n%s", diff)
	}
}

func TestDeleteIssuePrunesUnusedPages(t *testing.T) {
	r := testReport()
	r2, ok := DeleteIssue(r, "iss_1", t0.Add(time.Hour))
	if !ok {
		t.Fatal("delete failed")
	}
	if diff := cmp.Diff([]string{"/home"}, r2.Pages); diff != "" {
		t.Errorf("pages (-want +got):\n%s", diff)
	}
}

func TestDeleteIssueUnknownID(t *testing.T) {
	r := testReport()
	r2, ok := DeleteIssue(r, "iss_nope", t0)
	if ok {
		t.Error("delete of unknown id reported success")
	}
	if diff := cmp.Diff(r, r2); diff != "" {
		t.Errorf("report changed on failed delete:\n%s", diff)
	}
}

func TestUpdateIssuePartialPatch(t *testing.T) {
	r := testReport()
	notes := "use #1a1a1a on #ffffff"
	prio := PriorityMedium
	later := t0.Add(time.Hour)

	r2, ok := UpdateIssue(r, "iss_1", IssuePatch{Notes: &notes, Priority: &prio}, later)
	if !ok {
		t.Fatal("update failed")
	}
	got := r2.IssueByID("iss_1")
	if got.Notes != notes {
		t.Errorf("notes: got %q", got.Notes)
	}
	if got.Priority != PriorityMedium {
		t.Errorf("priority: got %q", got.Priority)
	}
	// Untouched fields survive.
	if got.Title != "Low contrast on submit button" {
		t.Errorf("title clobbered: %q", got.Title)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Errorf("updatedAt not refreshed: %v", got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(t0.Add(time.Minute)) {
		t.Errorf("createdAt changed: %v", got.CreatedAt)
	}
	// Input untouched.
	if r.IssueByID("iss_1").Notes != "" {
		t.Error("input report mutated")
	}
}

func TestUpdateIssuePageChangeKeepsOldPage(t *testing.T) {
	// A page change adds the new page but does not prune the old one;
	// pruning happens only on delete.
	r := testReport()
	page := "/checkout/v2"
	r2, ok := UpdateIssue(r, "iss_1", IssuePatch{Page: &page}, t0.Add(time.Hour))
	if !ok {
		t.Fatal("update failed")
	}
	want := []string{"/checkout", "/home", "/checkout/v2"}
	if diff := cmp.Diff(want, r2.Pages); diff != "" {
		t.Errorf("pages (-want +got):\n%s", diff)
	}
}

func TestDuplicateIssue(t *testing.T) {
	r := testReport()
	later := t0.Add(time.Hour)
	r2, ok := DuplicateIssue(r, "iss_1", "iss_9", later)
	if !ok {
		t.Fatal("duplicate failed")
	}
	dup := r2.IssueByID("iss_9")
	if dup == nil {
		t.Fatal("duplicate not found")
	}
	if dup.Title != "Low contrast on submit button" {
		t.Errorf("title: got %q", dup.Title)
	}
	if !dup.CreatedAt.Equal(later) || !dup.UpdatedAt.Equal(later) {
		t.Errorf("timestamps not fresh: %v %v", dup.CreatedAt, dup.UpdatedAt)
	}
	if len(r2.Issues) != 3 {
		t.Errorf("issues: got %d, want 3", len(r2.Issues))
	}
}

func TestDuplicateDropsTicketReference(t *testing.T) {
	r := testReport()
	url := "https://acme.example.net/browse/ACC-7"
	key := "ACC-7"
	r, _ = UpdateIssue(r, "iss_1", IssuePatch{TrackerTicketURL: &url, TrackerTicketKey: &key}, t0.Add(time.Minute))

	r2, _ := DuplicateIssue(r, "iss_1", "iss_9", t0.Add(time.Hour))
	dup := r2.IssueByID("iss_9")
	if dup.TrackerTicketKey != "" || dup.TrackerTicketURL != "" {
		t.Errorf("duplicate carried ticket reference: %q %q", dup.TrackerTicketKey, dup.TrackerTicketURL)
	}
}
