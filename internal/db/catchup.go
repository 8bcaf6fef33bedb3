package db

import (
	"time"

	"gorm.io/gorm"
)

const (
	// CatchupStatusActive 表示补读会话进行中
	CatchupStatusActive = "active"
	// CatchupStatusCompleted 表示用户已确认完成
	CatchupStatusCompleted = "completed"
	// CatchupStatusAbandoned 表示用户已放弃
	CatchupStatusAbandoned = "abandoned"
)

// CatchupSession 表示一次补读会话
// RangeStart/RangeEnd 界定参与重排的逾期日程窗口
// Strategy 仅作展示标签，不影响分配算法
// MaxDailyReadings/MaxDailyChapters 为空表示该维度不限
// WeekendMultiplier 在周六/周日按 floor(上限*倍率) 缩放两个上限；
// 0 表示周末完全不排期，默认值由调用方显式写入，不设列默认
// 状态机：active -> completed / abandoned，终态不可回退
type CatchupSession struct {
	gorm.Model
	SubscriptionID    uint             `gorm:"index"`
	Subscription      PlanSubscription `gorm:"constraint:OnDelete:CASCADE"`
	Name              string
	RangeStart        time.Time
	RangeEnd          time.Time
	Strategy          string
	TargetRejoinDate  *time.Time
	MaxDailyReadings  *int
	MaxDailyChapters  *int
	WeekendMultiplier float64
	Status            string `gorm:"index;default:active"`
	CompletedAt       *time.Time
}

// IsActive 判断会话是否仍可被修改
func (s CatchupSession) IsActive() bool {
	return s.Status == CatchupStatusActive
}

// CatchupSchedule 表示会话内一条重排后的日程
// Session + OriginalSchedule 采用唯一索引，同一任务在会话中至多出现一次
// IsCompleted 独立于外部进度表，由用户在会话内逐条勾选
type CatchupSchedule struct {
	gorm.Model
	SessionID          uint            `gorm:"index;index:idx_catchup_schedule_unique,unique"`
	Session            CatchupSession  `gorm:"constraint:OnDelete:CASCADE"`
	OriginalScheduleID uint            `gorm:"index:idx_catchup_schedule_unique,unique"`
	OriginalSchedule   ReadingSchedule `gorm:"constraint:OnDelete:CASCADE"`
	ScheduledDate      time.Time       `gorm:"index"`
	IsCompleted        bool
	CompletedAt        *time.Time
}

// TableName 重写确保唯一索引作用到 session_id + original_schedule_id
func (CatchupSchedule) TableName() string {
	return "catchup_schedules"
}
