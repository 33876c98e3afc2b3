package controller

import (
	"github.com/gin-gonic/gin"
	adminctrl "github.com/lshigami/attemptkeeper/internal/controller/admin"
	userctrl "github.com/lshigami/attemptkeeper/internal/controller/user"
)

// RegisterRoutes mounts the admin and user APIs under /api/v1. Admin routes
// are guarded by adminToken when it is set.
func RegisterRoutes(router *gin.Engine, adminToken string, adminCtrl *adminctrl.AdminJobController, userCtrl *userctrl.UserStatsController) {
	apiV1 := router.Group("/api/v1")

	admin := apiV1.Group("/admin", adminctrl.RequireToken(adminToken))
	{
		jobs := admin.Group("/jobs")
		jobs.POST("/mark-abandoned", adminCtrl.MarkAbandoned)
		jobs.POST("/purge-abandoned", adminCtrl.PurgeAbandoned)

		admin.POST("/stats/reconcile", adminCtrl.Reconcile)
	}

	users := apiV1.Group("/users/:user_id")
	{
		users.GET("/stats/daily", userCtrl.GetDailyStats)
		users.GET("/stats/summary", userCtrl.GetSummary)
	}

	attempts := apiV1.Group("/attempts")
	{
		attempts.POST("", userCtrl.StartAttempt)
		attempts.GET("/:attempt_id", userCtrl.GetAttempt)
		attempts.GET("/:attempt_id/progress", userCtrl.GetProgress)
		attempts.POST("/:attempt_id/activity", userCtrl.RecordActivity)
		attempts.POST("/:attempt_id/finish", userCtrl.FinishAttempt)
	}
}
