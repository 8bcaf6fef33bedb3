package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/lectio/internal/db"
)

func setupNoteTestDB(t *testing.T) func() {
	t.Helper()
	cleanup := setupCatchupTestDB(t)
	if err := db.DB.AutoMigrate(&db.ReadingNote{}); err != nil {
		cleanup()
		t.Fatalf("failed to migrate note table: %v", err)
	}
	return cleanup
}

func TestNoteUpsertKeepsSingleRow(t *testing.T) {
	cleanup := setupNoteTestDB(t)
	defer cleanup()

	start := date("2024-07-01")
	sub, schedules := seedSubscription(t, start, 2)

	svc := NewNoteService(db.DB)
	if _, err := svc.Upsert(sub.UserID, schedules[0].ID, "初稿"); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	note, err := svc.Upsert(sub.UserID, schedules[0].ID, "改稿")
	if err != nil {
		t.Fatalf("second Upsert returned error: %v", err)
	}
	if note.Content != "改稿" {
		t.Fatalf("expected updated content, got %q", note.Content)
	}

	var count int64
	if err := db.DB.Model(&db.ReadingNote{}).Count(&count).Error; err != nil {
		t.Fatalf("count notes: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single note row, got %d", count)
	}
}

func TestNoteGetRendersSanitizedHTML(t *testing.T) {
	cleanup := setupNoteTestDB(t)
	defer cleanup()

	start := date("2024-07-01")
	sub, schedules := seedSubscription(t, start, 1)

	svc := NewNoteService(db.DB)
	content := "**感动**\n\n<script>alert(1)</script>"
	if _, err := svc.Upsert(sub.UserID, schedules[0].ID, content); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	rendered, err := svc.Get(sub.UserID, schedules[0].ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !strings.Contains(rendered.HTML, "<strong>感动</strong>") {
		t.Fatalf("expected markdown rendering, got %q", rendered.HTML)
	}
	if strings.Contains(rendered.HTML, "<script>") {
		t.Fatalf("expected script tag stripped, got %q", rendered.HTML)
	}
}

func TestNoteGetMissing(t *testing.T) {
	cleanup := setupNoteTestDB(t)
	defer cleanup()

	start := date("2024-07-01")
	sub, schedules := seedSubscription(t, start, 1)

	svc := NewNoteService(db.DB)
	if _, err := svc.Get(sub.UserID, schedules[0].ID); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestNoteUpsertRejectsMissingSchedule(t *testing.T) {
	cleanup := setupNoteTestDB(t)
	defer cleanup()

	svc := NewNoteService(db.DB)
	if _, err := svc.Upsert(1, 999, "内容"); !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
}

func TestNoteDeleteThenList(t *testing.T) {
	cleanup := setupNoteTestDB(t)
	defer cleanup()

	start := date("2024-07-01")
	sub, schedules := seedSubscription(t, start, 2)

	svc := NewNoteService(db.DB)
	for _, schedule := range schedules {
		if _, err := svc.Upsert(sub.UserID, schedule.ID, "笔记"); err != nil {
			t.Fatalf("Upsert returned error: %v", err)
		}
	}

	if err := svc.Delete(sub.UserID, schedules[0].ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	notes, err := svc.ListForUser(sub.UserID)
	if err != nil {
		t.Fatalf("ListForUser returned error: %v", err)
	}
	if len(notes) != 1 || notes[0].ScheduleID != schedules[1].ID {
		t.Fatalf("unexpected notes after delete: %+v", notes)
	}
}
