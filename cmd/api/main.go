package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/kidsread/kidsread-api/api/swagger"
	"github.com/kidsread/kidsread-api/internal/handler"
	"github.com/kidsread/kidsread-api/internal/middleware"
	"github.com/kidsread/kidsread-api/internal/models"
	"github.com/kidsread/kidsread-api/internal/repository"
	"github.com/kidsread/kidsread-api/internal/service"
	"github.com/kidsread/kidsread-api/pkg/cache"
	"github.com/kidsread/kidsread-api/pkg/config"
	"github.com/kidsread/kidsread-api/pkg/database"
	"github.com/kidsread/kidsread-api/pkg/export"
	"github.com/kidsread/kidsread-api/pkg/logger"
	corsmiddleware "github.com/kidsread/kidsread-api/pkg/middleware/cors"
	reqidmiddleware "github.com/kidsread/kidsread-api/pkg/middleware/requestid"
)

// @title KidsRead API
// @version 1.0.0
// @description Reading education backend with period-based advice reports
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	cacheEnabled := false
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		cacheEnabled = true
	}
	reportCache := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, cacheEnabled && cfg.Reports.CacheEnabled)
	ebookCache := service.NewCacheService(cacheRepo, metricsSvc, cfg.Ebooks.CacheTTL, logr, cacheEnabled && cfg.Ebooks.CacheEnabled)

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	ebookRepo := repository.NewEbookRepository(db)
	readingRepo := repository.NewReadingRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	statsRepo := repository.NewStatsRepository(db, cfg.Reports.PassingScore)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "kidsread-api",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, userRepo, validate, logr)
	categorySvc := service.NewCategoryService(categoryRepo, validate, logr)
	ebookSvc := service.NewEbookService(ebookRepo, categoryRepo, ebookCache, cfg.Ebooks.CacheTTL, validate, logr)
	readingSvc := service.NewReadingService(readingRepo, studentRepo, ebookRepo, validate, logr)
	questionSvc := service.NewQuestionService(questionRepo, ebookRepo, validate, logr)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, studentRepo, validate, logr)
	adviceSvc := service.NewAdviceService(statsRepo, reportCache, cfg.Reports.CacheTTL, metricsSvc, logr)
	exportSvc := service.NewExportService(adviceSvc, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	ebookHandler := handler.NewEbookHandler(ebookSvc)
	readingHandler := handler.NewReadingHandler(readingSvc)
	questionHandler := handler.NewQuestionHandler(questionSvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
	reportHandler := handler.NewReportHandler(adviceSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if !cfg.IsProduction() {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	users := api.Group("/users", middleware.JWT(authSvc))
	{
		users.GET("", middleware.RequireRoles(models.RoleAdmin), userHandler.List)
		users.GET("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), userHandler.Get)
		users.POST("", middleware.RequireRoles(models.RoleAdmin), userHandler.Create)
		users.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), userHandler.Update)
		users.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), userHandler.Delete)
	}

	students := api.Group("/students", middleware.JWT(authSvc))
	{
		students.GET("", studentHandler.List)
		students.GET("/:id", studentHandler.Get)
		students.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleParent), studentHandler.Create)
		students.PUT("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleParent), studentHandler.Update)
		students.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), studentHandler.Delete)
	}

	categories := api.Group("/categories", middleware.JWT(authSvc))
	{
		categories.GET("", categoryHandler.List)
		categories.GET("/:id", categoryHandler.Get)
		categories.POST("", middleware.RequireRoles(models.RoleAdmin), categoryHandler.Create)
		categories.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), categoryHandler.Update)
		categories.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), categoryHandler.Delete)
	}

	// The catalogue is browsable without an account; writes stay staff-only.
	ebooks := api.Group("/ebooks")
	{
		ebooks.GET("", middleware.OptionalJWT(authSvc), ebookHandler.List)
		ebooks.GET("/:id", middleware.OptionalJWT(authSvc), ebookHandler.Get)
		ebooks.POST("", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), ebookHandler.Create)
		ebooks.PUT("/:id", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), ebookHandler.Update)
		ebooks.DELETE("/:id", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), ebookHandler.Delete)
	}

	readings := api.Group("/readings", middleware.JWT(authSvc))
	{
		readings.GET("", readingHandler.List)
		readings.GET("/:id", readingHandler.Get)
		readings.POST("", readingHandler.Create)
		readings.PUT("/:id", readingHandler.Update)
		readings.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), readingHandler.Delete)
	}

	questions := api.Group("/questions", middleware.JWT(authSvc))
	{
		questions.GET("", questionHandler.List)
		questions.GET("/:id", questionHandler.Get)
		questions.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), questionHandler.Create)
		questions.PUT("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), questionHandler.Update)
		questions.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), questionHandler.Delete)
	}

	feedback := api.Group("/feedback", middleware.JWT(authSvc))
	{
		feedback.GET("", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), feedbackHandler.List)
		feedback.GET("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), feedbackHandler.Get)
		feedback.POST("", feedbackHandler.Create)
		feedback.POST("/:id/resolve", middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), feedbackHandler.Resolve)
		feedback.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), feedbackHandler.Delete)
	}

	reports := api.Group("/reports/advice", middleware.JWT(authSvc))
	{
		reports.GET("/weekly", reportHandler.Weekly)
		reports.GET("/monthly", reportHandler.Monthly)
		reports.GET("/yearly", reportHandler.Yearly)
		reports.GET("/custom", reportHandler.Custom)
		reports.GET("/short", reportHandler.Short)
		reports.GET("/history", reportHandler.History)
		reports.GET("/export", reportHandler.Export)
	}

	monitoring := api.Group("/monitoring", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		monitoring.GET("/metrics", metricsHandler.Snapshot)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
