package db

import "gorm.io/gorm"

// ReadingNote 记录用户对某条日程的读经笔记
// Content 为 Markdown 文本，展示时渲染为净化后的 HTML
// User + Schedule 采用唯一索引，每人每条日程一篇笔记
type ReadingNote struct {
	gorm.Model
	UserID     uint            `gorm:"index;index:idx_note_unique,unique"`
	User       User            `gorm:"constraint:OnDelete:CASCADE"`
	ScheduleID uint            `gorm:"index:idx_note_unique,unique"`
	Schedule   ReadingSchedule `gorm:"constraint:OnDelete:CASCADE"`
	Content    string
}

// TableName 重写确保唯一索引作用到 user_id + schedule_id
func (ReadingNote) TableName() string {
	return "reading_notes"
}
