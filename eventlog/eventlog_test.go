package eventlog

import (
	"context"
	"testing"
	"time"

	"github.com/hazyhaar/a11yreport/dbopen"
	"github.com/hazyhaar/a11yreport/idgen"

	_ "modernc.org/sqlite"
)

func TestLogAndRecent(t *testing.T) {
	db := dbopen.OpenMemory(t)
	if err := Init(db); err != nil {
		t.Fatalf("init: %v", err)
	}
	n := 0
	l := New(db, WithIDGenerator(func() string {
		n++
		return "evt_" + string(rune('a'+n-1))
	}))
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	l.Log(ctx, Event{Type: "issue.add", EntityID: "iss_1", Success: true, At: base})
	l.Log(ctx, Event{Type: "issue.delete", EntityID: "iss_1", Success: true, At: base.Add(time.Minute)})
	l.Log(ctx, Event{Type: "ticket.file", EntityID: "iss_2", Success: false, At: base.Add(2 * time.Minute)})

	events, err := l.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Type != "ticket.file" || events[0].Success {
		t.Errorf("newest first: got %+v", events[0])
	}
	if events[2].Type != "issue.add" {
		t.Errorf("oldest last: got %+v", events[2])
	}
}

func TestRecentLimit(t *testing.T) {
	db := dbopen.OpenMemory(t)
	if err := Init(db); err != nil {
		t.Fatal(err)
	}
	l := New(db)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		l.Log(ctx, Event{Type: "issue.update", EntityID: "iss_1", Success: true})
	}
	events, err := l.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Errorf("got %d events, want 2", len(events))
	}
}

func TestLogFailureDoesNotPanic(t *testing.T) {
	db := dbopen.OpenMemory(t)
	// No Init: the insert fails, the call must still return.
	l := New(db)
	l.Log(context.Background(), Event{Type: "issue.add", Success: true})

	var nilLogger *Logger
	nilLogger.Log(context.Background(), Event{Type: "issue.add"})
}

func TestCleanup(t *testing.T) {
	db := dbopen.OpenMemory(t)
	if err := Init(db); err != nil {
		t.Fatal(err)
	}
	l := New(db, WithIDGenerator(idgen.Prefixed("evt_", idgen.Default)))
	ctx := context.Background()

	l.Log(ctx, Event{Type: "issue.add", Success: true, At: time.Now().AddDate(0, 0, -40)})
	l.Log(ctx, Event{Type: "issue.add", Success: true, At: time.Now()})

	if err := Cleanup(ctx, db, 30); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	events, err := l.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Errorf("got %d events after cleanup, want 1", len(events))
	}
}
