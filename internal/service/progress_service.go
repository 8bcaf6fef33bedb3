package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/lectio/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrScheduleNotFound 在日程条目不存在或不属于订阅计划时返回
var ErrScheduleNotFound = errors.New("reading schedule not found")

// ProgressService 负责订阅的进度台账：完成勾选、统计与连续读经天数
// 补读内核不经过本服务改写进度，两套完成状态彼此独立
type ProgressService struct {
	db *gorm.DB
}

// NewProgressService 构造 ProgressService
func NewProgressService(gdb *gorm.DB) *ProgressService {
	return &ProgressService{db: gdb}
}

// ProgressStats 汇总订阅的阅读统计
type ProgressStats struct {
	TotalSchedules    int
	CompletedCount    int
	CompletedChapters int
	CompletionRate    float64
	CurrentStreak     int
	LongestStreak     int
}

// Toggle 翻转订阅对某条日程的完成状态，幂等 upsert
func (s *ProgressService) Toggle(subscriptionID, scheduleID uint, now time.Time) (*db.ReadingProgress, error) {
	var schedule db.ReadingSchedule
	if err := s.db.First(&schedule, scheduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("load reading schedule: %w", err)
	}

	var sub db.PlanSubscription
	if err := s.db.First(&sub, subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	if sub.PlanID != schedule.PlanID {
		return nil, ErrScheduleNotFound
	}

	var record db.ReadingProgress
	err := s.db.Where("subscription_id = ? AND schedule_id = ?", subscriptionID, scheduleID).
		First(&record).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = db.ReadingProgress{
			SubscriptionID: subscriptionID,
			ScheduleID:     scheduleID,
			IsCompleted:    true,
			CompletedAt:    &now,
		}
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subscription_id"}, {Name: "schedule_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_completed", "completed_at", "updated_at"}),
		}).Create(&record).Error; err != nil {
			return nil, fmt.Errorf("create reading progress: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("load reading progress: %w", err)
	default:
		record.IsCompleted = !record.IsCompleted
		if record.IsCompleted {
			record.CompletedAt = &now
		} else {
			record.CompletedAt = nil
		}
		if err := s.db.Save(&record).Error; err != nil {
			return nil, fmt.Errorf("toggle reading progress: %w", err)
		}
	}

	return &record, nil
}

// StatsBetween 统计订阅在闭区间内的完成情况与连续天数
func (s *ProgressService) StatsBetween(subscriptionID uint, start, end time.Time) (*ProgressStats, error) {
	var sub db.PlanSubscription
	if err := s.db.First(&sub, subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("load subscription: %w", err)
	}

	rangeStart := normalizeToDate(start)
	rangeEnd := normalizeToDate(end)

	var total int64
	if err := s.db.Model(&db.ReadingSchedule{}).
		Where("plan_id = ? AND date BETWEEN ? AND ?", sub.PlanID, rangeStart, rangeEnd).
		Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count schedules: %w", err)
	}

	completed, err := s.completedBetween(subscriptionID, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	stats := &ProgressStats{
		TotalSchedules: int(total),
		CompletedCount: len(completed),
	}
	for _, item := range completed {
		stats.CompletedChapters += item.ChapterCount()
	}
	if stats.TotalSchedules > 0 {
		stats.CompletionRate = float64(stats.CompletedCount) / float64(stats.TotalSchedules)
	}

	stats.CurrentStreak, stats.LongestStreak = calculateStreaks(completed)

	return stats, nil
}

// CompletedChapters 返回订阅累计完成的章数，供成就判定使用
func (s *ProgressService) CompletedChapters(userID uint) (int, error) {
	var schedules []db.ReadingSchedule
	if err := s.db.Model(&db.ReadingSchedule{}).
		Select("reading_schedules.*").
		Joins("JOIN reading_progresses ON reading_progresses.schedule_id = reading_schedules.id").
		Joins("JOIN plan_subscriptions ON plan_subscriptions.id = reading_progresses.subscription_id").
		Where("plan_subscriptions.user_id = ? AND reading_progresses.is_completed = ?", userID, true).
		Find(&schedules).Error; err != nil {
		return 0, fmt.Errorf("list completed schedules: %w", err)
	}

	chapters := 0
	for _, item := range schedules {
		chapters += item.ChapterCount()
	}
	return chapters, nil
}

func (s *ProgressService) completedBetween(subscriptionID uint, start, end time.Time) ([]db.ReadingSchedule, error) {
	var schedules []db.ReadingSchedule
	if err := s.db.Model(&db.ReadingSchedule{}).
		Select("reading_schedules.*").
		Joins("JOIN reading_progresses ON reading_progresses.schedule_id = reading_schedules.id").
		Where("reading_progresses.subscription_id = ? AND reading_progresses.is_completed = ?", subscriptionID, true).
		Where("reading_schedules.date BETWEEN ? AND ?", start, end).
		Order("reading_schedules.date ASC, reading_schedules.id ASC").
		Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("list completed schedules: %w", err)
	}
	return schedules, nil
}

// calculateStreaks 以完成条目的日程日期计算当前与最长连续天数。
// 同一天多条记录只算一天。
func calculateStreaks(completed []db.ReadingSchedule) (current, longest int) {
	if len(completed) == 0 {
		return 0, 0
	}

	var days []time.Time
	for _, item := range completed {
		date := normalizeToDate(item.Date)
		if len(days) == 0 || !days[len(days)-1].Equal(date) {
			days = append(days, date)
		}
	}

	longest = 1
	current = 1

	for i := 1; i < len(days); i++ {
		delta := int(days[i].Sub(days[i-1]).Hours() / 24)
		if delta == 1 {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}

	return current, longest
}
