package db

import (
	"time"

	"gorm.io/gorm"
)

// PlanSubscription 关联用户与读经计划
// StartDate 为订阅生效日，逾期判定均以它为下界
// User + Plan 采用唯一索引，同一用户不重复订阅同一计划
type PlanSubscription struct {
	gorm.Model
	UserID    uint        `gorm:"index;index:idx_subscription_unique,unique"`
	User      User        `gorm:"constraint:OnDelete:CASCADE"`
	PlanID    uint        `gorm:"index;index:idx_subscription_unique,unique"`
	Plan      ReadingPlan `gorm:"constraint:OnDelete:CASCADE"`
	StartDate time.Time
	IsActive  bool
}

// ReadingProgress 记录订阅对某条日程的完成情况
// Subscription + Schedule 采用唯一索引，保证幂等
// 补读内核只在会话创建时导入既有进度，其余时刻不改写本表
type ReadingProgress struct {
	gorm.Model
	SubscriptionID uint             `gorm:"index;index:idx_progress_unique,unique"`
	Subscription   PlanSubscription `gorm:"constraint:OnDelete:CASCADE"`
	ScheduleID     uint             `gorm:"index;index:idx_progress_unique,unique"`
	Schedule       ReadingSchedule  `gorm:"constraint:OnDelete:CASCADE"`
	IsCompleted    bool
	CompletedAt    *time.Time
}

// TableName 重写确保唯一索引作用到 subscription_id + schedule_id
func (ReadingProgress) TableName() string {
	return "reading_progresses"
}
