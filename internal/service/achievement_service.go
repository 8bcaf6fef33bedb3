package service

import (
	"fmt"
	"time"

	"github.com/lectio/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AchievementService 负责成就的判定与授予
// 授予按 (user, achievement) 唯一索引幂等，重复评估不会重复发放
type AchievementService struct {
	db *gorm.DB
}

// NewAchievementService 构造 AchievementService
func NewAchievementService(gdb *gorm.DB) *AchievementService {
	return &AchievementService{db: gdb}
}

// ListForUser 返回用户已获得的成就，按获得时间升序
func (s *AchievementService) ListForUser(userID uint) ([]db.UserAchievement, error) {
	var items []db.UserAchievement
	if err := s.db.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list user achievements: %w", err)
	}
	return items, nil
}

// EvaluateChapters 依据累计完成章数授予章数类成就，返回本次新授予的条目
func (s *AchievementService) EvaluateChapters(userID uint, totalChapters int, now time.Time) ([]db.Achievement, error) {
	return s.award(userID, db.AchievementKindChapters, totalChapters, now)
}

// EvaluateStreak 依据最长连续天数授予连胜类成就
func (s *AchievementService) EvaluateStreak(userID uint, longestStreak int, now time.Time) ([]db.Achievement, error) {
	return s.award(userID, db.AchievementKindStreak, longestStreak, now)
}

// EvaluateCatchup 在完成补读会话时授予补读类成就
func (s *AchievementService) EvaluateCatchup(userID uint, completedSessions int, now time.Time) ([]db.Achievement, error) {
	return s.award(userID, db.AchievementKindCatchup, completedSessions, now)
}

func (s *AchievementService) award(userID uint, kind string, value int, now time.Time) ([]db.Achievement, error) {
	var candidates []db.Achievement
	if err := s.db.Where("kind = ? AND threshold <= ?", kind, value).
		Order("threshold ASC").
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("list achievement candidates: %w", err)
	}

	var granted []db.Achievement
	for _, candidate := range candidates {
		record := db.UserAchievement{
			UserID:        userID,
			AchievementID: candidate.ID,
			EarnedAt:      now,
		}
		insert := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).Create(&record)
		if insert.Error != nil {
			return nil, fmt.Errorf("grant achievement: %w", insert.Error)
		}
		if insert.RowsAffected > 0 {
			granted = append(granted, candidate)
		}
	}

	return granted, nil
}
