package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lectio/internal/db"
	"github.com/lectio/internal/service"
)

type subscribePayload struct {
	PlanID    uint   `json:"plan_id"`
	StartDate string `json:"start_date"`
}

// Subscribe 为当前用户订阅计划，起始日缺省为今天
func (a *API) Subscribe(c *gin.Context) {
	var payload subscribePayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}
	if payload.PlanID == 0 {
		respondError(c, http.StatusBadRequest, "计划ID必填")
		return
	}

	startDate := time.Now()
	if parsed, err := parseDate(payload.StartDate); err != nil {
		respondError(c, http.StatusBadRequest, "无效的起始日期")
		return
	} else if parsed != nil {
		startDate = *parsed
	}

	sub, err := a.subscriptions.Subscribe(currentUserID(c), payload.PlanID, startDate)
	if err != nil {
		handleSubscriptionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subscription": subscriptionToPayload(*sub)})
}

// ListSubscriptions 返回当前用户的订阅集合
func (a *API) ListSubscriptions(c *gin.Context) {
	subs, err := a.subscriptions.ListForUser(currentUserID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取订阅列表失败")
		return
	}

	items := make([]gin.H, 0, len(subs))
	for _, sub := range subs {
		items = append(items, subscriptionToPayload(sub))
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": items})
}

// DeactivateSubscription 停用订阅
func (a *API) DeactivateSubscription(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的订阅ID")
		return
	}

	sub, err := a.subscriptions.Deactivate(currentUserID(c), id)
	if err != nil {
		handleSubscriptionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": subscriptionToPayload(*sub)})
}

// GetTodayReadings 返回订阅当天应读的日程
func (a *API) GetTodayReadings(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的订阅ID")
		return
	}

	schedules, err := a.subscriptions.TodaySchedules(currentUserID(c), id, time.Now())
	if err != nil {
		handleSubscriptionError(c, err)
		return
	}

	items := make([]gin.H, 0, len(schedules))
	for _, item := range schedules {
		items = append(items, scheduleItemToPayload(item))
	}
	c.JSON(http.StatusOK, gin.H{"schedules": items})
}

func subscriptionToPayload(sub db.PlanSubscription) gin.H {
	payload := gin.H{
		"id":         sub.ID,
		"user_id":    sub.UserID,
		"plan_id":    sub.PlanID,
		"start_date": formatDate(sub.StartDate),
		"is_active":  sub.IsActive,
	}
	if sub.Plan.ID != 0 {
		payload["plan"] = planToPayload(sub.Plan)
	}
	return payload
}

func handleSubscriptionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubscriptionNotFound):
		respondError(c, http.StatusNotFound, "订阅不存在")
	case errors.Is(err, service.ErrPlanNotFound):
		respondError(c, http.StatusNotFound, "计划不存在")
	case errors.Is(err, service.ErrAlreadySubscribed):
		respondError(c, http.StatusBadRequest, "已订阅该计划")
	default:
		respondError(c, http.StatusInternalServerError, "服务器内部错误")
	}
}
