package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ReadingPlan 定义了读经计划模型
// Description 为 Markdown 文本，展示时经服务端渲染为 HTML
// DurationDays 由计划的日程条目推导，冗余存储便于列表展示
// IsActive 控制计划是否可被新用户订阅，由创建方显式写入
type ReadingPlan struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Description  string
	DurationDays int
	IsActive     bool
}

// ReadingSchedule 记录计划中某一天的阅读任务
// Plan + Date + Book 采用唯一索引，一天内同一卷书只出现一条记录
// StartChapter/EndChapter 为闭区间，EndChapter >= StartChapter
type ReadingSchedule struct {
	gorm.Model
	PlanID       uint        `gorm:"index;index:idx_schedule_unique,unique"`
	Plan         ReadingPlan `gorm:"constraint:OnDelete:CASCADE"`
	Date         time.Time   `gorm:"index;index:idx_schedule_unique,unique"`
	Book         string      `gorm:"index:idx_schedule_unique,unique"`
	StartChapter int
	EndChapter   int
}

// TableName 重写确保唯一索引作用到 plan_id + date + book
func (ReadingSchedule) TableName() string {
	return "reading_schedules"
}

// ChapterCount 返回该任务覆盖的章数
func (s ReadingSchedule) ChapterCount() int {
	return s.EndChapter - s.StartChapter + 1
}

// ChapterRange 渲染章节区间，单章时折叠为单个数字
func (s ReadingSchedule) ChapterRange() string {
	if s.StartChapter == s.EndChapter {
		return fmt.Sprintf("%d", s.StartChapter)
	}
	return fmt.Sprintf("%d-%d", s.StartChapter, s.EndChapter)
}

// Reference 渲染完整经文引用，如 "创世记 1-3"
func (s ReadingSchedule) Reference() string {
	return fmt.Sprintf("%s %s", s.Book, s.ChapterRange())
}
