package service

import (
	"errors"
	"testing"
	"time"

	"github.com/lectio/internal/db"
)

func TestSubscribeNormalizesStartDate(t *testing.T) {
	cleanup := setupCatchupTestDB(t)
	defer cleanup()

	user := seedUser(t, "alice")
	plans := NewPlanService(db.DB)
	plan, err := plans.Create(PlanInput{Name: "约翰福音"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	svc := NewSubscriptionService(db.DB)
	sub, err := svc.Subscribe(user.ID, plan.ID, date("2024-08-01").Add(15*time.Hour))
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	if !sub.StartDate.Equal(date("2024-08-01")) {
		t.Fatalf("expected start date normalized to midnight, got %v", sub.StartDate)
	}

	if _, err := svc.Subscribe(user.ID, plan.ID, date("2024-08-02")); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}
	if _, err := svc.Subscribe(user.ID, plan.ID+100, date("2024-08-02")); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestGetForUserChecksOwnership(t *testing.T) {
	cleanup := setupCatchupTestDB(t)
	defer cleanup()

	start := date("2024-08-01")
	sub, _ := seedSubscription(t, start, 2)

	svc := NewSubscriptionService(db.DB)
	if _, err := svc.GetForUser(sub.UserID, sub.ID); err != nil {
		t.Fatalf("GetForUser returned error: %v", err)
	}
	if _, err := svc.GetForUser(sub.UserID+100, sub.ID); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
	}
}

func TestDeactivateKeepsSubscription(t *testing.T) {
	cleanup := setupCatchupTestDB(t)
	defer cleanup()

	start := date("2024-08-01")
	sub, _ := seedSubscription(t, start, 2)

	svc := NewSubscriptionService(db.DB)
	deactivated, err := svc.Deactivate(sub.UserID, sub.ID)
	if err != nil {
		t.Fatalf("Deactivate returned error: %v", err)
	}
	if deactivated.IsActive {
		t.Fatal("expected inactive subscription")
	}

	subs, err := svc.ListForUser(sub.UserID)
	if err != nil {
		t.Fatalf("ListForUser returned error: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected subscription preserved, got %d", len(subs))
	}
}

func TestTodaySchedules(t *testing.T) {
	cleanup := setupCatchupTestDB(t)
	defer cleanup()

	start := date("2024-08-01")
	sub, schedules := seedSubscription(t, start, 3)

	svc := NewSubscriptionService(db.DB)
	today, err := svc.TodaySchedules(sub.UserID, sub.ID, date("2024-08-02").Add(8*time.Hour))
	if err != nil {
		t.Fatalf("TodaySchedules returned error: %v", err)
	}
	if len(today) != 1 || today[0].ID != schedules[1].ID {
		t.Fatalf("unexpected today schedules: %+v", today)
	}
}
