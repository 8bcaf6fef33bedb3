package service

import (
	"errors"
	"testing"

	"github.com/lectio/internal/db"
)

func TestCreatePlanRequiresName(t *testing.T) {
	cleanup := setupCatchupTestDB(t)
	defer cleanup()

	svc := NewPlanService(db.DB)
	if _, err := svc.Create(PlanInput{Name: "   "}); !errors.Is(err, ErrPlanInvalidInput) {
		t.Fatalf("expected ErrPlanInvalidInput, got %v", err)
	}
}

func TestAddSchedulesRefreshesDuration(t *testing.T) {
	cleanup := setupCatchupTestDB(t)
	defer cleanup()

	svc := NewPlanService(db.DB)
	plan, err := svc.Create(PlanInput{Name: "创世记两周", Description: "每天三章"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	inputs := []ScheduleInput{
		{Date: date("2024-07-01"), Book: "创世记", StartChapter: 1, EndChapter: 3},
		{Date: date("2024-07-01"), Book: "诗篇", StartChapter: 1, EndChapter: 1},
		{Date: date("2024-07-02"), Book: "创世记", StartChapter: 4, EndChapter: 6},
	}
	created, err := svc.AddSchedules(plan.ID, inputs)
	if err != nil {
		t.Fatalf("AddSchedules returned error: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 schedules, got %d", len(created))
	}

	// 同日两条只算一天
	refreshed, err := svc.Get(plan.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if refreshed.DurationDays != 2 {
		t.Fatalf("expected duration 2 days, got %d", refreshed.DurationDays)
	}
}

func TestAddSchedulesValidatesChapterRange(t *testing.T) {
	cleanup := setupCatchupTestDB(t)
	defer cleanup()

	svc := NewPlanService(db.DB)
	plan, err := svc.Create(PlanInput{Name: "诗篇"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	_, err = svc.AddSchedules(plan.ID, []ScheduleInput{
		{Date: date("2024-07-01"), Book: "诗篇", StartChapter: 5, EndChapter: 3},
	})
	if !errors.Is(err, ErrPlanInvalidInput) {
		t.Fatalf("expected ErrPlanInvalidInput, got %v", err)
	}
}

func TestListFiltersInactivePlans(t *testing.T) {
	cleanup := setupCatchupTestDB(t)
	defer cleanup()

	svc := NewPlanService(db.DB)
	if _, err := svc.Create(PlanInput{Name: "进行中"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	inactive := false
	if _, err := svc.Create(PlanInput{Name: "已停用", IsActive: &inactive}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	active, err := svc.List(true)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(active) != 1 || active[0].Name != "进行中" {
		t.Fatalf("unexpected active plans: %+v", active)
	}

	all, err := svc.List(false)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(all))
	}
}

func TestSchedulesBetweenInclusive(t *testing.T) {
	cleanup := setupCatchupTestDB(t)
	defer cleanup()

	start := date("2024-07-01")
	sub, _ := seedSubscription(t, start, 5)

	svc := NewPlanService(db.DB)
	schedules, err := svc.SchedulesBetween(sub.PlanID, date("2024-07-02"), date("2024-07-04"))
	if err != nil {
		t.Fatalf("SchedulesBetween returned error: %v", err)
	}
	if len(schedules) != 3 {
		t.Fatalf("expected 3 schedules, got %d", len(schedules))
	}
}
