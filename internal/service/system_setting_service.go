package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lectio/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SystemSettings 描述后台可配置的系统信息与补读表单默认值。
type SystemSettings struct {
	SiteName                 string
	DefaultMaxDailyReadings  int
	DefaultMaxDailyChapters  int
	DefaultWeekendMultiplier float64
}

// SystemSettingsInput 用于更新系统设置。
type SystemSettingsInput struct {
	SiteName                 string
	DefaultMaxDailyReadings  int
	DefaultMaxDailyChapters  int
	DefaultWeekendMultiplier float64
}

// SystemSettingService 提供系统设置的读取与更新能力。
type SystemSettingService struct {
	db *gorm.DB
}

// NewSystemSettingService 构造 SystemSettingService。
func NewSystemSettingService(gdb *gorm.DB) *SystemSettingService {
	return &SystemSettingService{db: gdb}
}

var settingKeys = []string{
	db.SettingKeySiteName,
	db.SettingKeyDefaultMaxDailyReadings,
	db.SettingKeyDefaultMaxDailyChapters,
	db.SettingKeyDefaultWeekendMultiplier,
}

// GetSettings 读取系统设置，如未设置将返回默认值。
func (s *SystemSettingService) GetSettings() (SystemSettings, error) {
	result := SystemSettings{
		SiteName:                 "Lectio",
		DefaultMaxDailyReadings:  suggestedDailyReadings,
		DefaultWeekendMultiplier: 1,
	}

	var records []db.SystemSetting
	if err := s.db.Where("key IN ?", settingKeys).Find(&records).Error; err != nil {
		return result, fmt.Errorf("load system settings: %w", err)
	}

	for _, record := range records {
		switch record.Key {
		case db.SettingKeySiteName:
			if strings.TrimSpace(record.Value) != "" {
				result.SiteName = record.Value
			}
		case db.SettingKeyDefaultMaxDailyReadings:
			if value, err := strconv.Atoi(record.Value); err == nil && value > 0 {
				result.DefaultMaxDailyReadings = value
			}
		case db.SettingKeyDefaultMaxDailyChapters:
			if value, err := strconv.Atoi(record.Value); err == nil && value > 0 {
				result.DefaultMaxDailyChapters = value
			}
		case db.SettingKeyDefaultWeekendMultiplier:
			if value, err := strconv.ParseFloat(record.Value, 64); err == nil && value >= 0 {
				result.DefaultWeekendMultiplier = value
			}
		}
	}

	return result, nil
}

// UpdateSettings 保存系统设置，未填写站点名称时回退默认值。
func (s *SystemSettingService) UpdateSettings(input SystemSettingsInput) (SystemSettings, error) {
	sanitized := SystemSettings{
		SiteName:                 strings.TrimSpace(input.SiteName),
		DefaultMaxDailyReadings:  input.DefaultMaxDailyReadings,
		DefaultMaxDailyChapters:  input.DefaultMaxDailyChapters,
		DefaultWeekendMultiplier: input.DefaultWeekendMultiplier,
	}

	if sanitized.SiteName == "" {
		sanitized.SiteName = "Lectio"
	}
	if sanitized.DefaultMaxDailyReadings <= 0 {
		sanitized.DefaultMaxDailyReadings = suggestedDailyReadings
	}
	if sanitized.DefaultWeekendMultiplier < 0 {
		sanitized.DefaultWeekendMultiplier = 1
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := upsertSetting(tx, db.SettingKeySiteName, sanitized.SiteName); err != nil {
			return err
		}
		if err := upsertSetting(tx, db.SettingKeyDefaultMaxDailyReadings, strconv.Itoa(sanitized.DefaultMaxDailyReadings)); err != nil {
			return err
		}
		if err := upsertSetting(tx, db.SettingKeyDefaultMaxDailyChapters, strconv.Itoa(sanitized.DefaultMaxDailyChapters)); err != nil {
			return err
		}
		return upsertSetting(tx, db.SettingKeyDefaultWeekendMultiplier, strconv.FormatFloat(sanitized.DefaultWeekendMultiplier, 'f', -1, 64))
	})
	if err != nil {
		return SystemSettings{}, fmt.Errorf("update system settings: %w", err)
	}

	return sanitized, nil
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.SystemSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
