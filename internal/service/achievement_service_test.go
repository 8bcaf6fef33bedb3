package service

import (
	"testing"

	"github.com/lectio/internal/db"
)

func setupAchievementTestDB(t *testing.T) func() {
	t.Helper()
	cleanup := setupCatchupTestDB(t)
	if err := db.DB.AutoMigrate(&db.Achievement{}, &db.UserAchievement{}); err != nil {
		cleanup()
		t.Fatalf("failed to migrate achievement tables: %v", err)
	}
	if err := db.SeedAchievements(db.DB); err != nil {
		cleanup()
		t.Fatalf("failed to seed achievements: %v", err)
	}
	return cleanup
}

func TestEvaluateChaptersGrantsOnce(t *testing.T) {
	cleanup := setupAchievementTestDB(t)
	defer cleanup()

	user := seedUser(t, "alice")
	svc := NewAchievementService(db.DB)
	now := date("2024-07-01")

	granted, err := svc.EvaluateChapters(user.ID, 15, now)
	if err != nil {
		t.Fatalf("EvaluateChapters returned error: %v", err)
	}
	if len(granted) != 1 || granted[0].Threshold != 10 {
		t.Fatalf("expected the 10-chapter badge, got %+v", granted)
	}

	// 重复评估不再发放
	granted, err = svc.EvaluateChapters(user.ID, 20, now)
	if err != nil {
		t.Fatalf("second EvaluateChapters returned error: %v", err)
	}
	if len(granted) != 0 {
		t.Fatalf("expected no new grants, got %+v", granted)
	}

	earned, err := svc.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("ListForUser returned error: %v", err)
	}
	if len(earned) != 1 {
		t.Fatalf("expected 1 earned achievement, got %d", len(earned))
	}
}

func TestEvaluateChaptersGrantsMultipleThresholds(t *testing.T) {
	cleanup := setupAchievementTestDB(t)
	defer cleanup()

	user := seedUser(t, "alice")
	svc := NewAchievementService(db.DB)

	granted, err := svc.EvaluateChapters(user.ID, 150, date("2024-07-01"))
	if err != nil {
		t.Fatalf("EvaluateChapters returned error: %v", err)
	}
	// 10 章与 100 章两档同时达标
	if len(granted) != 2 {
		t.Fatalf("expected 2 grants, got %+v", granted)
	}
	if granted[0].Threshold != 10 || granted[1].Threshold != 100 {
		t.Fatalf("expected ascending thresholds, got %+v", granted)
	}
}

func TestEvaluateStreakAndCatchupAreIndependent(t *testing.T) {
	cleanup := setupAchievementTestDB(t)
	defer cleanup()

	user := seedUser(t, "alice")
	svc := NewAchievementService(db.DB)
	now := date("2024-07-01")

	streak, err := svc.EvaluateStreak(user.ID, 7, now)
	if err != nil {
		t.Fatalf("EvaluateStreak returned error: %v", err)
	}
	if len(streak) != 1 || streak[0].Kind != db.AchievementKindStreak {
		t.Fatalf("expected streak badge, got %+v", streak)
	}

	catchup, err := svc.EvaluateCatchup(user.ID, 1, now)
	if err != nil {
		t.Fatalf("EvaluateCatchup returned error: %v", err)
	}
	if len(catchup) != 1 || catchup[0].Kind != db.AchievementKindCatchup {
		t.Fatalf("expected catchup badge, got %+v", catchup)
	}

	// 未达标不发放
	none, err := svc.EvaluateStreak(user.ID, 8, now)
	if err != nil {
		t.Fatalf("EvaluateStreak returned error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no grant below next threshold, got %+v", none)
	}
}
