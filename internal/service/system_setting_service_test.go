package service

import (
	"testing"

	"github.com/lectio/internal/db"
)

func setupSettingTestDB(t *testing.T) func() {
	t.Helper()
	cleanup := setupCatchupTestDB(t)
	if err := db.DB.AutoMigrate(&db.SystemSetting{}); err != nil {
		cleanup()
		t.Fatalf("failed to migrate setting table: %v", err)
	}
	return cleanup
}

func TestGetSettingsReturnsDefaults(t *testing.T) {
	cleanup := setupSettingTestDB(t)
	defer cleanup()

	svc := NewSystemSettingService(db.DB)
	settings, err := svc.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings returned error: %v", err)
	}

	if settings.SiteName != "Lectio" {
		t.Fatalf("expected default site name, got %q", settings.SiteName)
	}
	if settings.DefaultMaxDailyReadings != 3 {
		t.Fatalf("expected default 3 readings, got %d", settings.DefaultMaxDailyReadings)
	}
	if settings.DefaultWeekendMultiplier != 1 {
		t.Fatalf("expected default multiplier 1, got %f", settings.DefaultWeekendMultiplier)
	}
}

func TestUpdateSettingsRoundTrip(t *testing.T) {
	cleanup := setupSettingTestDB(t)
	defer cleanup()

	svc := NewSystemSettingService(db.DB)
	saved, err := svc.UpdateSettings(SystemSettingsInput{
		SiteName:                 "每日灵修",
		DefaultMaxDailyReadings:  5,
		DefaultMaxDailyChapters:  12,
		DefaultWeekendMultiplier: 1.5,
	})
	if err != nil {
		t.Fatalf("UpdateSettings returned error: %v", err)
	}
	if saved.SiteName != "每日灵修" {
		t.Fatalf("unexpected saved site name: %q", saved.SiteName)
	}

	loaded, err := svc.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings returned error: %v", err)
	}
	if loaded != saved {
		t.Fatalf("round trip mismatch: saved %+v loaded %+v", saved, loaded)
	}

	// 空站点名与非法值回退默认
	fallback, err := svc.UpdateSettings(SystemSettingsInput{SiteName: "  ", DefaultMaxDailyReadings: -1})
	if err != nil {
		t.Fatalf("UpdateSettings returned error: %v", err)
	}
	if fallback.SiteName != "Lectio" || fallback.DefaultMaxDailyReadings != 3 {
		t.Fatalf("expected defaults restored, got %+v", fallback)
	}
}
