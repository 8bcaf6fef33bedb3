package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lectio/internal/db"
	"github.com/lectio/internal/service"
)

type catchupSettingsPayload struct {
	RangeStart        string   `json:"range_start"`
	RangeEnd          string   `json:"range_end"`
	TargetRejoinDate  string   `json:"target_rejoin_date"`
	MaxDailyReadings  *int     `json:"max_daily_readings"`
	MaxDailyChapters  *int     `json:"max_daily_chapters"`
	WeekendMultiplier *float64 `json:"weekend_multiplier"`
}

type catchupCreatePayload struct {
	catchupSettingsPayload
	Name     string `json:"name"`
	Strategy string `json:"strategy"`
}

type catchupUpdatePayload struct {
	Name              *string  `json:"name"`
	Strategy          *string  `json:"strategy"`
	TargetRejoinDate  *string  `json:"target_rejoin_date"`
	MaxDailyReadings  *int     `json:"max_daily_readings"`
	MaxDailyChapters  *int     `json:"max_daily_chapters"`
	WeekendMultiplier *float64 `json:"weekend_multiplier"`
	Recalculate       bool     `json:"recalculate"`
}

// GetCatchupStatus 返回订阅的逾期概览、进行中的补读会话与推荐设置
func (a *API) GetCatchupStatus(c *gin.Context) {
	subID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的订阅ID")
		return
	}

	if _, err := a.subscriptions.GetForUser(currentUserID(c), subID); err != nil {
		handleCatchupError(c, err)
		return
	}

	status, err := a.catchup.Status(subID, time.Now())
	if err != nil {
		handleCatchupError(c, err)
		return
	}

	items := make([]gin.H, 0, len(status.OverdueSchedules))
	for _, item := range status.OverdueSchedules {
		items = append(items, scheduleItemToPayload(item))
	}

	var overdueRange interface{}
	if status.RangeStart != nil && status.RangeEnd != nil {
		overdueRange = gin.H{
			"start": formatDate(*status.RangeStart),
			"end":   formatDate(*status.RangeEnd),
		}
	}

	var activeSession interface{}
	if status.ActiveSession != nil {
		payload, err := a.sessionToPayload(*status.ActiveSession)
		if err != nil {
			handleCatchupError(c, err)
			return
		}
		activeSession = payload
	}

	c.JSON(http.StatusOK, gin.H{
		"has_overdue":            status.HasOverdue,
		"overdue_count":          len(status.OverdueSchedules),
		"overdue_chapters":       status.OverdueChapters,
		"overdue_range":          overdueRange,
		"overdue_schedules":      items,
		"active_catchup_session": activeSession,
		"suggested_settings": gin.H{
			"max_daily_readings":    status.Suggested.MaxDailyReadings,
			"overdue_count":         status.Suggested.OverdueCount,
			"overdue_chapters":      status.Suggested.OverdueChapters,
			"estimated_days":        status.Suggested.EstimatedDays,
			"estimated_rejoin_date": formatDate(status.Suggested.EstimatedRejoinDate),
		},
	})
}

// PreviewCatchup 对补读分配做干跑试算，不写库
func (a *API) PreviewCatchup(c *gin.Context) {
	subID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的订阅ID")
		return
	}

	if _, err := a.subscriptions.GetForUser(currentUserID(c), subID); err != nil {
		handleCatchupError(c, err)
		return
	}

	var payload catchupSettingsPayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}

	input := service.CatchupPreviewInput{}
	input.RangeStart, err = parseDate(payload.RangeStart)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的范围起始日期")
		return
	}
	input.RangeEnd, err = parseDate(payload.RangeEnd)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的范围结束日期")
		return
	}
	input.Settings, err = settingsFromPayload(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的补读设置")
		return
	}

	preview, err := a.catchup.Preview(subID, input, time.Now())
	if err != nil {
		handleCatchupError(c, err)
		return
	}

	c.JSON(http.StatusOK, previewToPayload(preview))
}

// CreateCatchupSession 创建补读会话；范围与名称必填
func (a *API) CreateCatchupSession(c *gin.Context) {
	subID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的订阅ID")
		return
	}

	if _, err := a.subscriptions.GetForUser(currentUserID(c), subID); err != nil {
		handleCatchupError(c, err)
		return
	}

	var payload catchupCreatePayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}

	rangeStart, err := parseDate(payload.RangeStart)
	if err != nil || rangeStart == nil {
		respondError(c, http.StatusBadRequest, "范围起始日期必填且格式为 YYYY-MM-DD")
		return
	}
	rangeEnd, err := parseDate(payload.RangeEnd)
	if err != nil || rangeEnd == nil {
		respondError(c, http.StatusBadRequest, "范围结束日期必填且格式为 YYYY-MM-DD")
		return
	}

	settings, err := settingsFromPayload(payload.catchupSettingsPayload)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的补读设置")
		return
	}

	input := service.CatchupCreateInput{
		Name:       payload.Name,
		Strategy:   payload.Strategy,
		RangeStart: *rangeStart,
		RangeEnd:   *rangeEnd,
		Settings:   settings,
	}

	session, schedules, err := a.catchup.CreateSession(subID, input, time.Now())
	if err != nil {
		handleCatchupError(c, err)
		return
	}

	sessionPayload, err := a.sessionToPayload(*session)
	if err != nil {
		handleCatchupError(c, err)
		return
	}

	items := make([]gin.H, 0, len(schedules))
	for _, item := range schedules {
		items = append(items, catchupScheduleToPayload(item))
	}

	c.JSON(http.StatusCreated, gin.H{
		"session":   sessionPayload,
		"schedules": items,
	})
}

// UpdateCatchupSession 对进行中的会话做部分更新，可选触发重新分配
func (a *API) UpdateCatchupSession(c *gin.Context) {
	sessionID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的会话ID")
		return
	}

	var payload catchupUpdatePayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}

	input := service.CatchupUpdateInput{
		Name:              payload.Name,
		Strategy:          payload.Strategy,
		MaxDailyReadings:  payload.MaxDailyReadings,
		MaxDailyChapters:  payload.MaxDailyChapters,
		WeekendMultiplier: payload.WeekendMultiplier,
		Recalculate:       payload.Recalculate,
	}
	if payload.TargetRejoinDate != nil {
		target, err := parseDate(*payload.TargetRejoinDate)
		if err != nil || target == nil {
			respondError(c, http.StatusBadRequest, "无效的目标回归日期")
			return
		}
		input.TargetRejoinDate = target
	}

	session, err := a.catchup.UpdateSession(currentUserID(c), sessionID, input, time.Now())
	if err != nil {
		handleCatchupError(c, err)
		return
	}

	sessionPayload, err := a.sessionToPayload(*session)
	if err != nil {
		handleCatchupError(c, err)
		return
	}

	schedules, err := a.catchup.ListSchedules(session.ID)
	if err != nil {
		handleCatchupError(c, err)
		return
	}
	items := make([]gin.H, 0, len(schedules))
	for _, item := range schedules {
		items = append(items, catchupScheduleToPayload(item))
	}

	c.JSON(http.StatusOK, gin.H{"session": sessionPayload, "schedules": items})
}

// ToggleCatchupSchedule 翻转单条补读日程的完成状态
func (a *API) ToggleCatchupSchedule(c *gin.Context) {
	scheduleID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的补读日程ID")
		return
	}

	record, err := a.catchup.ToggleSchedule(currentUserID(c), scheduleID, time.Now())
	if err != nil {
		handleCatchupError(c, err)
		return
	}

	// Preload 原始日程供前端展示经文引用
	reloaded, err := a.catchup.ListSchedules(record.SessionID)
	if err != nil {
		handleCatchupError(c, err)
		return
	}
	for _, item := range reloaded {
		if item.ID == record.ID {
			c.JSON(http.StatusOK, gin.H{"schedule": catchupScheduleToPayload(item)})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"schedule": catchupScheduleToPayload(*record)})
}

// CompleteCatchupSession 结束会话并返回祝贺摘要；剩余未完成仅提示不拦截
func (a *API) CompleteCatchupSession(c *gin.Context) {
	sessionID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的会话ID")
		return
	}

	userID := currentUserID(c)
	session, celebration, warnings, err := a.catchup.CompleteSession(userID, sessionID, time.Now())
	if err != nil {
		handleCatchupError(c, err)
		return
	}

	// 完成补读会话视为一次达成，顺带评估补读类成就
	var completedSessions int64
	a.db.Model(&db.CatchupSession{}).
		Joins("JOIN plan_subscriptions ON plan_subscriptions.id = catchup_sessions.subscription_id").
		Where("plan_subscriptions.user_id = ? AND catchup_sessions.status = ?", userID, db.CatchupStatusCompleted).
		Count(&completedSessions)
	granted, _ := a.achievements.EvaluateCatchup(userID, int(completedSessions), time.Now())

	sessionPayload, err := a.sessionToPayload(*session)
	if err != nil {
		handleCatchupError(c, err)
		return
	}

	if warnings == nil {
		warnings = []string{}
	}
	achievements := make([]gin.H, 0, len(granted))
	for _, item := range granted {
		achievements = append(achievements, gin.H{"code": item.Code, "name": item.Name})
	}

	c.JSON(http.StatusOK, gin.H{
		"session":  sessionPayload,
		"warnings": warnings,
		"celebration": gin.H{
			"total_count":     celebration.TotalCount,
			"completed_count": celebration.CompletedCount,
			"total_chapters":  celebration.TotalChapters,
			"elapsed_days":    celebration.ElapsedDays,
		},
		"new_achievements": achievements,
	})
}

// AbandonCatchupSession 放弃会话
func (a *API) AbandonCatchupSession(c *gin.Context) {
	sessionID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的会话ID")
		return
	}

	session, err := a.catchup.AbandonSession(currentUserID(c), sessionID)
	if err != nil {
		handleCatchupError(c, err)
		return
	}

	sessionPayload, err := a.sessionToPayload(*session)
	if err != nil {
		handleCatchupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": sessionPayload})
}

func settingsFromPayload(payload catchupSettingsPayload) (service.CatchupSettings, error) {
	settings := service.CatchupSettings{
		MaxDailyReadings:  payload.MaxDailyReadings,
		MaxDailyChapters:  payload.MaxDailyChapters,
		WeekendMultiplier: 1,
	}
	if payload.WeekendMultiplier != nil {
		settings.WeekendMultiplier = *payload.WeekendMultiplier
	}

	target, err := parseDate(payload.TargetRejoinDate)
	if err != nil {
		return settings, err
	}
	settings.TargetRejoinDate = target

	return settings, nil
}

func previewToPayload(preview *service.CatchupPreview) gin.H {
	days := make([]gin.H, 0, len(preview.Days))
	for _, day := range preview.Days {
		days = append(days, distributionDayToPayload(day))
	}

	warnings := preview.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return gin.H{
		"valid": preview.Valid,
		"summary": gin.H{
			"total_schedules":        preview.Summary.TotalSchedules,
			"total_chapters":         preview.Summary.TotalChapters,
			"daily_average_readings": preview.Summary.DailyAverageReadings,
			"daily_average_chapters": preview.Summary.DailyAverageChapters,
			"estimated_days":         preview.Summary.EstimatedDays,
			"rejoin_date":            formatDatePtr(preview.Summary.RejoinDate),
		},
		"preview_schedules": days,
		"warnings":          warnings,
	}
}

func distributionDayToPayload(day service.DistributionDay) gin.H {
	items := make([]gin.H, 0, len(day.Items))
	for _, item := range day.Items {
		items = append(items, scheduleItemToPayload(item))
	}
	return gin.H{
		"date":           formatDate(day.Date),
		"is_weekend":     day.IsWeekend,
		"items":          items,
		"total_chapters": day.TotalChapters,
	}
}

func scheduleItemToPayload(item db.ReadingSchedule) gin.H {
	return gin.H{
		"id":            item.ID,
		"date":          formatDate(item.Date),
		"book":          item.Book,
		"start_chapter": item.StartChapter,
		"end_chapter":   item.EndChapter,
		"chapters":      item.ChapterRange(),
		"reference":     item.Reference(),
	}
}

func catchupScheduleToPayload(item db.CatchupSchedule) gin.H {
	return gin.H{
		"id":                item.ID,
		"session_id":        item.SessionID,
		"original_schedule": scheduleItemToPayload(item.OriginalSchedule),
		"scheduled_date":    formatDate(item.ScheduledDate),
		"is_completed":      item.IsCompleted,
		"completed_at":      formatTimePtr(item.CompletedAt),
	}
}

func (a *API) sessionToPayload(session db.CatchupSession) (gin.H, error) {
	total, completed, err := a.catchup.Progress(session.ID)
	if err != nil {
		return nil, err
	}

	percent := 0.0
	if total > 0 {
		percent = float64(completed) / float64(total) * 100
	}

	return gin.H{
		"id":                 session.ID,
		"subscription_id":    session.SubscriptionID,
		"name":               session.Name,
		"range_start":        formatDate(session.RangeStart),
		"range_end":          formatDate(session.RangeEnd),
		"strategy":           session.Strategy,
		"target_rejoin_date": formatDatePtr(session.TargetRejoinDate),
		"max_daily_readings": session.MaxDailyReadings,
		"max_daily_chapters": session.MaxDailyChapters,
		"weekend_multiplier": session.WeekendMultiplier,
		"status":             session.Status,
		"completed_at":       formatTimePtr(session.CompletedAt),
		"created_at":         session.CreatedAt.Format(time.RFC3339),
		"progress": gin.H{
			"total":     total,
			"completed": completed,
			"remaining": total - completed,
			"percent":   percent,
		},
	}, nil
}

func handleCatchupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubscriptionNotFound),
		errors.Is(err, service.ErrCatchupSessionNotFound),
		errors.Is(err, service.ErrCatchupScheduleNotFound):
		respondError(c, http.StatusNotFound, "资源不存在")
	case errors.Is(err, service.ErrActiveCatchupSessionExists):
		respondError(c, http.StatusBadRequest, "该订阅已有进行中的补读会话")
	case errors.Is(err, service.ErrNoOverdueSchedules):
		respondError(c, http.StatusBadRequest, "所选范围内没有逾期的读经任务")
	case errors.Is(err, service.ErrCatchupSessionNotActive):
		respondError(c, http.StatusBadRequest, "补读会话已结束，无法修改")
	case errors.Is(err, service.ErrCatchupInvalidInput):
		respondError(c, http.StatusBadRequest, "补读设置不合法")
	default:
		respondError(c, http.StatusInternalServerError, "服务器内部错误")
	}
}
