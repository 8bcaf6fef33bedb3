package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/lectio/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrSubscriptionNotFound 在订阅不存在或不属于当前用户时返回
	ErrSubscriptionNotFound = errors.New("plan subscription not found")
	// ErrAlreadySubscribed 在用户重复订阅同一计划时返回
	ErrAlreadySubscribed = errors.New("user already subscribed to plan")
)

// SubscriptionService 负责用户与计划之间的订阅关系
type SubscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService 构造 SubscriptionService
func NewSubscriptionService(gdb *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: gdb}
}

// Subscribe 为用户订阅计划，起始日归一化到当天零点
func (s *SubscriptionService) Subscribe(userID, planID uint, startDate time.Time) (*db.PlanSubscription, error) {
	var plan db.ReadingPlan
	if err := s.db.First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("load reading plan: %w", err)
	}

	var count int64
	if err := s.db.Model(&db.PlanSubscription{}).
		Where("user_id = ? AND plan_id = ?", userID, planID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count subscriptions: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadySubscribed
	}

	sub := db.PlanSubscription{
		UserID:    userID,
		PlanID:    planID,
		StartDate: normalizeToDate(startDate),
		IsActive:  true,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	return &sub, nil
}

// ListForUser 返回用户的订阅集合
func (s *SubscriptionService) ListForUser(userID uint) ([]db.PlanSubscription, error) {
	var subs []db.PlanSubscription
	if err := s.db.Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// GetForUser 返回用户名下的订阅
func (s *SubscriptionService) GetForUser(userID, subscriptionID uint) (*db.PlanSubscription, error) {
	var sub db.PlanSubscription
	err := s.db.Preload("Plan").
		Where("id = ? AND user_id = ?", subscriptionID, userID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &sub, nil
}

// Deactivate 停用订阅，保留历史进度
func (s *SubscriptionService) Deactivate(userID, subscriptionID uint) (*db.PlanSubscription, error) {
	sub, err := s.GetForUser(userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	sub.IsActive = false
	if err := s.db.Save(sub).Error; err != nil {
		return nil, fmt.Errorf("deactivate subscription: %w", err)
	}
	return sub, nil
}

// TodaySchedules 返回订阅当天应读的日程条目
func (s *SubscriptionService) TodaySchedules(userID, subscriptionID uint, now time.Time) ([]db.ReadingSchedule, error) {
	sub, err := s.GetForUser(userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	today := normalizeToDate(now)
	var schedules []db.ReadingSchedule
	if err := s.db.Where("plan_id = ? AND date = ?", sub.PlanID, today).
		Order("id ASC").
		Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("list today schedules: %w", err)
	}
	return schedules, nil
}
