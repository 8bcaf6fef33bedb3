package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lectio/internal/db"
	"github.com/lectio/internal/service"
)

type planPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type schedulePayload struct {
	Date         string `json:"date"`
	Book         string `json:"book"`
	StartChapter int    `json:"start_chapter"`
	EndChapter   int    `json:"end_chapter"`
}

type addSchedulesPayload struct {
	Schedules []schedulePayload `json:"schedules"`
}

// ListPlans 返回计划列表
func (a *API) ListPlans(c *gin.Context) {
	onlyActive := c.Query("all") == ""
	plans, err := a.plans.List(onlyActive)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取计划列表失败")
		return
	}

	items := make([]gin.H, 0, len(plans))
	for _, plan := range plans {
		items = append(items, planToPayload(plan))
	}
	c.JSON(http.StatusOK, gin.H{"plans": items})
}

// GetPlan 返回单个计划详情，描述渲染为净化后的 HTML
func (a *API) GetPlan(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划ID")
		return
	}

	plan, err := a.plans.Get(id)
	if err != nil {
		handlePlanError(c, err)
		return
	}

	descriptionHTML, err := service.RenderMarkdown(plan.Description)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "渲染计划描述失败")
		return
	}

	payload := planToPayload(*plan)
	payload["description_html"] = descriptionHTML
	c.JSON(http.StatusOK, gin.H{"plan": payload})
}

// CreatePlan 创建计划
func (a *API) CreatePlan(c *gin.Context) {
	var payload planPayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}

	plan, err := a.plans.Create(service.PlanInput{
		Name:        payload.Name,
		Description: payload.Description,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"plan": planToPayload(*plan)})
}

// UpdatePlan 更新计划基本信息
func (a *API) UpdatePlan(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划ID")
		return
	}

	var payload planPayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}

	plan, err := a.plans.Update(id, service.PlanInput{
		Name:        payload.Name,
		Description: payload.Description,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": planToPayload(*plan)})
}

// AddPlanSchedules 批量追加日程条目
func (a *API) AddPlanSchedules(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划ID")
		return
	}

	var payload addSchedulesPayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}
	if len(payload.Schedules) == 0 {
		respondError(c, http.StatusBadRequest, "日程列表不能为空")
		return
	}

	inputs := make([]service.ScheduleInput, 0, len(payload.Schedules))
	for _, item := range payload.Schedules {
		date, err := parseDate(item.Date)
		if err != nil || date == nil {
			respondError(c, http.StatusBadRequest, "日程日期必填且格式为 YYYY-MM-DD")
			return
		}
		inputs = append(inputs, service.ScheduleInput{
			Date:         *date,
			Book:         item.Book,
			StartChapter: item.StartChapter,
			EndChapter:   item.EndChapter,
		})
	}

	created, err := a.plans.AddSchedules(id, inputs)
	if err != nil {
		handlePlanError(c, err)
		return
	}

	items := make([]gin.H, 0, len(created))
	for _, item := range created {
		items = append(items, scheduleItemToPayload(item))
	}
	c.JSON(http.StatusCreated, gin.H{"schedules": items})
}

// ListPlanSchedules 返回计划在区间内的日程条目
func (a *API) ListPlanSchedules(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划ID")
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

	now := time.Now()
	rangeStart := now.AddDate(0, 0, -30)
	rangeEnd := now.AddDate(0, 0, 30)
	if start != nil {
		rangeStart = *start
	}
	if end != nil {
		rangeEnd = *end
	}

	schedules, err := a.plans.SchedulesBetween(id, rangeStart, rangeEnd)
	if err != nil {
		handlePlanError(c, err)
		return
	}

	items := make([]gin.H, 0, len(schedules))
	for _, item := range schedules {
		items = append(items, scheduleItemToPayload(item))
	}
	c.JSON(http.StatusOK, gin.H{"schedules": items})
}

func planToPayload(plan db.ReadingPlan) gin.H {
	return gin.H{
		"id":            plan.ID,
		"name":          plan.Name,
		"description":   plan.Description,
		"duration_days": plan.DurationDays,
		"is_active":     plan.IsActive,
	}
}

func handlePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		respondError(c, http.StatusNotFound, "计划不存在")
	case errors.Is(err, service.ErrPlanInvalidInput):
		respondError(c, http.StatusBadRequest, "计划数据不合法")
	default:
		respondError(c, http.StatusInternalServerError, "服务器内部错误")
	}
}
