package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/lectio/internal/handler"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(db *gorm.DB, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("lectio_session", store))

	api := handler.NewAPI(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	r.POST("/api/register", api.Register)
	r.POST("/api/login", api.Login)
	r.POST("/api/logout", api.Logout)

	// 需要认证的业务路由
	auth := r.Group("/api")
	auth.Use(handler.AuthRequired())
	{
		auth.GET("/plans", api.ListPlans)
		auth.GET("/plans/:id", api.GetPlan)
		auth.POST("/plans", api.CreatePlan)
		auth.PUT("/plans/:id", api.UpdatePlan)
		auth.GET("/plans/:id/schedules", api.ListPlanSchedules)
		auth.POST("/plans/:id/schedules", api.AddPlanSchedules)

		auth.GET("/subscriptions", api.ListSubscriptions)
		auth.POST("/subscriptions", api.Subscribe)
		auth.POST("/subscriptions/:id/deactivate", api.DeactivateSubscription)
		auth.GET("/subscriptions/:id/today", api.GetTodayReadings)
		auth.POST("/subscriptions/:id/progress/toggle", api.ToggleProgress)
		auth.GET("/subscriptions/:id/progress/stats", api.GetProgressStats)

		// 补读核心接口
		auth.GET("/subscriptions/:id/catchup/status", api.GetCatchupStatus)
		auth.POST("/subscriptions/:id/catchup/preview", api.PreviewCatchup)
		auth.POST("/subscriptions/:id/catchup/sessions", api.CreateCatchupSession)
		auth.PATCH("/catchup/sessions/:id", api.UpdateCatchupSession)
		auth.POST("/catchup/sessions/:id/complete", api.CompleteCatchupSession)
		auth.POST("/catchup/sessions/:id/abandon", api.AbandonCatchupSession)
		auth.POST("/catchup/schedules/:id/toggle", api.ToggleCatchupSchedule)

		auth.GET("/achievements", api.ListAchievements)

		auth.POST("/users/:id/follow", api.FollowUser)
		auth.POST("/users/:id/unfollow", api.UnfollowUser)
		auth.GET("/following", api.ListFollowing)
		auth.GET("/followers", api.ListFollowers)

		auth.POST("/groups", api.CreateGroup)
		auth.POST("/groups/join", api.JoinGroup)
		auth.POST("/groups/:id/leave", api.LeaveGroup)
		auth.GET("/groups/:id/members", api.ListGroupMembers)
		auth.GET("/groups/:id/leaderboard", api.GetGroupLeaderboard)

		auth.GET("/schedules/:id/note", api.GetNote)
		auth.PUT("/schedules/:id/note", api.UpsertNote)
		auth.DELETE("/schedules/:id/note", api.DeleteNote)

		auth.GET("/settings", api.GetSystemSettings)
		auth.PUT("/settings", api.UpdateSystemSettings)
	}

	return r
}
