package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/lectio/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// ErrNoteNotFound 在笔记不存在时返回
var ErrNoteNotFound = errors.New("reading note not found")

// NoteService 负责读经笔记的维护与 Markdown 渲染
type NoteService struct {
	db *gorm.DB
}

// NewNoteService 构造 NoteService
func NewNoteService(gdb *gorm.DB) *NoteService {
	return &NoteService{db: gdb}
}

// RenderedNote 为笔记及其渲染后的 HTML
type RenderedNote struct {
	Note db.ReadingNote
	HTML string
}

// Upsert 写入用户对某条日程的笔记，同一 (user, schedule) 只保留一篇
func (s *NoteService) Upsert(userID, scheduleID uint, content string) (*db.ReadingNote, error) {
	var schedule db.ReadingSchedule
	if err := s.db.First(&schedule, scheduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("load reading schedule: %w", err)
	}

	record := db.ReadingNote{
		UserID:     userID,
		ScheduleID: scheduleID,
		Content:    strings.TrimSpace(content),
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "schedule_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("upsert reading note: %w", err)
	}

	if err := s.db.Where("user_id = ? AND schedule_id = ?", userID, scheduleID).
		First(&record).Error; err != nil {
		return nil, fmt.Errorf("reload reading note: %w", err)
	}

	return &record, nil
}

// Get 返回用户对某条日程的笔记及渲染结果
func (s *NoteService) Get(userID, scheduleID uint) (*RenderedNote, error) {
	var note db.ReadingNote
	err := s.db.Where("user_id = ? AND schedule_id = ?", userID, scheduleID).
		First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reading note: %w", err)
	}

	rendered, err := RenderMarkdown(note.Content)
	if err != nil {
		return nil, err
	}

	return &RenderedNote{Note: note, HTML: rendered}, nil
}

// ListForUser 返回用户的全部笔记，按日程日期升序
func (s *NoteService) ListForUser(userID uint) ([]db.ReadingNote, error) {
	var notes []db.ReadingNote
	if err := s.db.Preload("Schedule").
		Select("reading_notes.*").
		Joins("JOIN reading_schedules ON reading_schedules.id = reading_notes.schedule_id").
		Where("reading_notes.user_id = ?", userID).
		Order("reading_schedules.date ASC, reading_notes.id ASC").
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list reading notes: %w", err)
	}
	return notes, nil
}

// Delete 删除用户的笔记
func (s *NoteService) Delete(userID, scheduleID uint) error {
	if err := s.db.Where("user_id = ? AND schedule_id = ?", userID, scheduleID).
		Delete(&db.ReadingNote{}).Error; err != nil {
		return fmt.Errorf("delete reading note: %w", err)
	}
	return nil
}

// RenderMarkdown 将 Markdown 渲染为净化后的 HTML
func RenderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return sanitizer.Sanitize(buf.String()), nil
}
