package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lectio/internal/service"
)

type systemSettingsPayload struct {
	SiteName                 string  `json:"site_name"`
	DefaultMaxDailyReadings  int     `json:"default_max_daily_readings"`
	DefaultMaxDailyChapters  int     `json:"default_max_daily_chapters"`
	DefaultWeekendMultiplier float64 `json:"default_weekend_multiplier"`
}

// GetSystemSettings 返回系统设置，供前端预填补读表单
func (a *API) GetSystemSettings(c *gin.Context) {
	settings, err := a.system.GetSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取系统设置失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settingsToPayload(settings)})
}

// UpdateSystemSettings 保存系统设置
func (a *API) UpdateSystemSettings(c *gin.Context) {
	var payload systemSettingsPayload
	if !bindJSON(c, &payload, "请求数据格式错误") {
		return
	}

	settings, err := a.system.UpdateSettings(service.SystemSettingsInput{
		SiteName:                 payload.SiteName,
		DefaultMaxDailyReadings:  payload.DefaultMaxDailyReadings,
		DefaultMaxDailyChapters:  payload.DefaultMaxDailyChapters,
		DefaultWeekendMultiplier: payload.DefaultWeekendMultiplier,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "保存系统设置失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settingsToPayload(settings)})
}

func settingsToPayload(settings service.SystemSettings) gin.H {
	return gin.H{
		"site_name":                  settings.SiteName,
		"default_max_daily_readings": settings.DefaultMaxDailyReadings,
		"default_max_daily_chapters": settings.DefaultMaxDailyChapters,
		"default_weekend_multiplier": settings.DefaultWeekendMultiplier,
	}
}
