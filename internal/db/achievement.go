package db

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// AchievementKindChapters 按累计完成章数授予
	AchievementKindChapters = "chapters"
	// AchievementKindStreak 按最长连续读经天数授予
	AchievementKindStreak = "streak"
	// AchievementKindCatchup 在完成补读会话时授予
	AchievementKindCatchup = "catchup"
)

// Achievement 定义成就条目
// Kind + Threshold 描述触发条件，Code 为稳定标识
type Achievement struct {
	gorm.Model
	Code        string `gorm:"uniqueIndex"`
	Name        string
	Description string
	Kind        string `gorm:"index"`
	Threshold   int
}

// UserAchievement 记录用户已获得的成就
// User + Achievement 采用唯一索引，保证不重复授予
type UserAchievement struct {
	gorm.Model
	UserID        uint        `gorm:"index;index:idx_user_achievement_unique,unique"`
	User          User        `gorm:"constraint:OnDelete:CASCADE"`
	AchievementID uint        `gorm:"index:idx_user_achievement_unique,unique"`
	Achievement   Achievement `gorm:"constraint:OnDelete:CASCADE"`
	EarnedAt      time.Time
}

// TableName 重写确保唯一索引作用到 user_id + achievement_id
func (UserAchievement) TableName() string {
	return "user_achievements"
}

var defaultAchievements = []Achievement{
	{Code: "chapters-10", Name: "初尝甘甜", Description: "累计读完 10 章", Kind: AchievementKindChapters, Threshold: 10},
	{Code: "chapters-100", Name: "百章同行", Description: "累计读完 100 章", Kind: AchievementKindChapters, Threshold: 100},
	{Code: "chapters-1189", Name: "通读全卷", Description: "累计读完 1189 章", Kind: AchievementKindChapters, Threshold: 1189},
	{Code: "streak-7", Name: "七日恒心", Description: "连续读经 7 天", Kind: AchievementKindStreak, Threshold: 7},
	{Code: "streak-30", Name: "月久弥坚", Description: "连续读经 30 天", Kind: AchievementKindStreak, Threshold: 30},
	{Code: "catchup-1", Name: "迎头赶上", Description: "完成一次补读会话", Kind: AchievementKindCatchup, Threshold: 1},
}

// SeedAchievements 写入内置成就目录，按 Code 幂等
func SeedAchievements(gdb *gorm.DB) error {
	for _, item := range defaultAchievements {
		record := item
		if err := gdb.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&record).Error; err != nil {
			return err
		}
	}
	return nil
}
