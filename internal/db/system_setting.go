package db

import "gorm.io/gorm"

// SystemSetting 存储后台可配置的系统级键值对。
type SystemSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (SystemSetting) TableName() string {
	return "system_settings"
}

const (
	// SettingKeySiteName 表示站点名称。
	SettingKeySiteName = "site_name"
	// SettingKeyDefaultMaxDailyReadings 表示补读表单默认的每日条数上限。
	SettingKeyDefaultMaxDailyReadings = "default_max_daily_readings"
	// SettingKeyDefaultMaxDailyChapters 表示补读表单默认的每日章数上限。
	SettingKeyDefaultMaxDailyChapters = "default_max_daily_chapters"
	// SettingKeyDefaultWeekendMultiplier 表示补读表单默认的周末倍率。
	SettingKeyDefaultWeekendMultiplier = "default_weekend_multiplier"
)
