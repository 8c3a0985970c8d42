package app

import (
	"exam_prep_backend/docs"
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/middleware"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.GET("/plans", c.subscription.ListPlans)
		public.GET("/exams", c.content.ListExams)
		public.GET("/exams/:id", c.content.GetExam)
		public.GET("/exams/:id/sub-exams", c.content.ListSubExams)
	}

	// 2. 登录即可访问的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.Auth(cfg.JWT.Secret))
	{
		authGroup.GET("/me", c.auth.Me)
		authGroup.POST("/subscriptions", c.subscription.Subscribe)
		authGroup.GET("/subscriptions/current", c.subscription.Current)
		authGroup.GET("/dashboard", c.analytics.Dashboard)
		authGroup.GET("/performance", c.analytics.Hub)
		authGroup.GET("/my-results", c.test.MyResults)
		authGroup.GET("/submissions/:id", c.test.GetResult)
		authGroup.GET("/revision", c.revision.List)
		authGroup.GET("/revision/summary", c.revision.Summary)
	}

	// 3. 需要有效订阅的学习内容与考试路由
	subscribed := router.Group("/api")
	subscribed.Use(middleware.Auth(cfg.JWT.Secret), middleware.RequireSubscription(a.DB))
	{
		subscribed.GET("/sub-exams/with-full-length-tests", c.content.ListSubExamsWithFullLength)
		subscribed.GET("/sub-exams/:id/notes", c.content.ListNotes)
		subscribed.GET("/sub-exams/:id/mind-maps", c.content.ListMindMaps)
		subscribed.GET("/sub-exams/:id/flashcards", c.content.ListFlashcards)
		subscribed.GET("/sub-exams/:id/tests", c.test.ListTests)
		subscribed.GET("/tests/:id", c.test.GetTest)
		subscribed.GET("/tests/:id/unlock-status", c.test.CheckUnlockStatus)
		subscribed.POST("/tests/:id/purchase", c.test.Purchase)
		subscribed.POST("/tests/:id/start", c.test.Start)
		subscribed.POST("/submissions/:id/submit", c.test.Submit)
		subscribed.POST("/submissions/:id/mark-reasons", c.test.SaveMarkReasons)
		subscribed.POST("/revision/challenge", c.revision.BuildChallenge)
	}

	// 4. 管理员路由
	admin := router.Group("/api/admin")
	admin.Use(middleware.Auth(cfg.JWT.Secret), middleware.Role(model.Admin))
	{
		admin.POST("/exams", c.content.CreateExam)
		admin.POST("/sub-exams", c.content.CreateSubExam)
		admin.POST("/notes", c.content.CreateNote)
		admin.POST("/mind-maps", c.content.UploadMindMap)
		admin.POST("/flashcards", c.content.CreateFlashcard)
		admin.POST("/tests", c.adminTest.CreateTestCard)
		admin.POST("/questions", c.adminTest.CreateQuestions)
		admin.POST("/weekly-quiz", c.adminTest.BuildWeeklyQuiz)
	}
}
