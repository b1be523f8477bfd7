package app

import (
	"ailearn_backend/internal/config"
	"ailearn_backend/internal/middleware"
	"ailearn_backend/internal/model"
	"ailearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		api.GET("/health", c.health.Health)
		api.POST("/register", c.auth.Register)
		api.POST("/login", c.auth.Login)
	}

	// 匿名可访问的学习/目录读接口，带 token 时按登录用户计算状态
	public := api.Group("")
	public.Use(middleware.TryAuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		public.GET("/learning/levels/:level/modules", c.learning.GetLevelModules)
		public.GET("/learning/modules/:id", c.learning.GetModule)
		public.GET("/learning/modules/:id/quiz", c.quiz.StartQuiz)

		public.GET("/progress", c.progress.GetProgress)
		public.GET("/leaderboard", c.progress.GetLeaderboard)

		public.GET("/tools", c.tool.ListTools)
		public.GET("/tools/:slug", c.tool.GetTool)
		public.POST("/tools/:slug/click", c.tool.RecordClick)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authed.GET("/profile", c.auth.GetProfile)
		authed.POST("/learning/modules/:id/quiz", c.quiz.SubmitQuiz)

		authed.GET("/achievements", c.achievement.GetAchievements)
		authed.POST("/checkin", c.achievement.Checkin)
		authed.GET("/checkin/stats", c.achievement.GetCheckinStats)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/modules", c.admin.ListModules)
		admin.POST("/modules", c.admin.CreateModule)
		admin.PUT("/modules/:id", c.admin.UpdateModule)
		admin.DELETE("/modules/:id", c.admin.DeleteModule)

		admin.GET("/modules/:id/questions", c.admin.ListQuestions)
		admin.POST("/modules/:id/questions", c.admin.CreateQuestion)
		admin.PUT("/questions/:id", c.admin.UpdateQuestion)
		admin.DELETE("/questions/:id", c.admin.DeleteQuestion)

		admin.POST("/tools", c.admin.CreateTool)
		admin.PUT("/tools/:id", c.admin.UpdateTool)
		admin.DELETE("/tools/:id", c.admin.DeleteTool)

		admin.POST("/uploads/logo", c.admin.UploadLogo)
	}
}
