package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lectio/internal/service"
)

type toggleProgressPayload struct {
	ScheduleID uint `json:"schedule_id"`
}

// ToggleProgress 翻转订阅对某条日程的完成状态，并顺带评估成就
func (a *API) ToggleProgress(c *gin.Context) {
	subID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的订阅ID")
		return
	}

	userID := currentUserID(c)
	if _, err := a.subscriptions.GetForUser(userID, subID); err != nil {
		handleSubscriptionError(c, err)
		return
	}

	var payload toggleProgressPayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}
	if payload.ScheduleID == 0 {
		respondError(c, http.StatusBadRequest, "日程ID必填")
		return
	}

	now := time.Now()
	record, err := a.progress.Toggle(subID, payload.ScheduleID, now)
	if err != nil {
		handleProgressError(c, err)
		return
	}

	granted := a.evaluateAchievements(userID, subID, now)

	c.JSON(http.StatusOK, gin.H{
		"progress": gin.H{
			"subscription_id": record.SubscriptionID,
			"schedule_id":     record.ScheduleID,
			"is_completed":    record.IsCompleted,
			"completed_at":    formatTimePtr(record.CompletedAt),
		},
		"new_achievements": granted,
	})
}

// GetProgressStats 返回订阅在区间内的完成统计与连续天数
func (a *API) GetProgressStats(c *gin.Context) {
	subID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的订阅ID")
		return
	}

	sub, err := a.subscriptions.GetForUser(currentUserID(c), subID)
	if err != nil {
		handleSubscriptionError(c, err)
		return
	}

	start, err := parseDate(c.Query("start"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的起始日期")
		return
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的结束日期")
		return
	}

	rangeStart := sub.StartDate
	rangeEnd := time.Now()
	if start != nil {
		rangeStart = *start
	}
	if end != nil {
		rangeEnd = *end
	}

	stats, err := a.progress.StatsBetween(subID, rangeStart, rangeEnd)
	if err != nil {
		handleProgressError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"total_schedules":    stats.TotalSchedules,
			"completed_count":    stats.CompletedCount,
			"completed_chapters": stats.CompletedChapters,
			"completion_rate":    stats.CompletionRate,
			"current_streak":     stats.CurrentStreak,
			"longest_streak":     stats.LongestStreak,
		},
	})
}

// ListAchievements 返回当前用户已获得的成就
func (a *API) ListAchievements(c *gin.Context) {
	items, err := a.achievements.ListForUser(currentUserID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取成就列表失败")
		return
	}

	payload := make([]gin.H, 0, len(items))
	for _, item := range items {
		payload = append(payload, gin.H{
			"code":        item.Achievement.Code,
			"name":        item.Achievement.Name,
			"description": item.Achievement.Description,
			"earned_at":   item.EarnedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"achievements": payload})
}

// evaluateAchievements 在进度变化后评估章数与连胜类成就，失败时静默跳过
func (a *API) evaluateAchievements(userID, subscriptionID uint, now time.Time) []gin.H {
	granted := make([]gin.H, 0)

	if chapters, err := a.progress.CompletedChapters(userID); err == nil {
		if items, err := a.achievements.EvaluateChapters(userID, chapters, now); err == nil {
			for _, item := range items {
				granted = append(granted, gin.H{"code": item.Code, "name": item.Name})
			}
		}
	}

	if sub, err := a.subscriptions.GetForUser(userID, subscriptionID); err == nil {
		if stats, err := a.progress.StatsBetween(subscriptionID, sub.StartDate, now); err == nil {
			if items, err := a.achievements.EvaluateStreak(userID, stats.LongestStreak, now); err == nil {
				for _, item := range items {
					granted = append(granted, gin.H{"code": item.Code, "name": item.Name})
				}
			}
		}
	}

	return granted
}

func handleProgressError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		respondError(c, http.StatusNotFound, "日程不存在")
	case errors.Is(err, service.ErrSubscriptionNotFound):
		respondError(c, http.StatusNotFound, "订阅不存在")
	default:
		respondError(c, http.StatusInternalServerError, "服务器内部错误")
	}
}
