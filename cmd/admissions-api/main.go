package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/school-admissions-api/api/swagger"
	"github.com/noah-isme/school-admissions-api/internal/handler"
	"github.com/noah-isme/school-admissions-api/internal/middleware"
	"github.com/noah-isme/school-admissions-api/internal/models"
	"github.com/noah-isme/school-admissions-api/internal/repository"
	"github.com/noah-isme/school-admissions-api/internal/service"
	"github.com/noah-isme/school-admissions-api/pkg/cache"
	"github.com/noah-isme/school-admissions-api/pkg/config"
	"github.com/noah-isme/school-admissions-api/pkg/database"
	"github.com/noah-isme/school-admissions-api/pkg/jobs"
	"github.com/noah-isme/school-admissions-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-admissions-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-admissions-api/pkg/middleware/requestid"
	"github.com/noah-isme/school-admissions-api/pkg/storage"
)

// @title School Admissions API
// @version 1.0.0
// @description Enquiry, admission and scholarship-test registration workflows for the school website.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, verification cache disabled", "error", err)
		redisClient = nil
	}

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}
	documentStore, err := storage.NewLocalStorage(cfg.Documents.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init document storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Documents.SignedURLSecret, cfg.Documents.SignedURLTTL)

	validate := validator.New()
	metricsService := service.NewMetricsService()

	cleanupService := service.NewCleanupService(uploadStore, jobs.QueueConfig{
		Workers:    cfg.Cleanup.Workers,
		MaxRetries: cfg.Cleanup.Retries,
		Logger:     logr,
	}, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cleanupService.Start(ctx)
	defer cleanupService.Stop()

	userRepo := repository.NewUserRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	enquiryRepo := repository.NewEnquiryRepository(db)
	admissionRepo := repository.NewAdmissionRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	sequenceService := service.NewSequenceService(sequenceRepo, metricsService, logr)
	enquiryService := service.NewEnquiryService(enquiryRepo, admissionRepo, sequenceService, cacheRepo, cfg.Verify.CacheTTL, validate, logr)
	admissionService := service.NewAdmissionService(admissionRepo, enquiryService, sequenceService, cleanupService, nil, validate, logr)
	registrationService := service.NewRegistrationService(registrationRepo, sequenceService, cleanupService, nil, validate, logr)
	documentService := service.NewDocumentService(registrationRepo, admissionRepo, documentStore, nil, signer, metricsService, service.DocumentConfig{
		APIPrefix:     cfg.APIPrefix,
		SchoolName:    cfg.Documents.SchoolName,
		SchoolAddress: cfg.Documents.SchoolAddress,
	}, validate, logr)

	authHandler := handler.NewAuthHandler(authService)
	enquiryHandler := handler.NewEnquiryHandler(enquiryService)
	admissionHandler := handler.NewAdmissionHandler(admissionService)
	registrationHandler := handler.NewRegistrationHandler(registrationService)
	documentHandler := handler.NewDocumentHandler(documentService)
	uploadHandler := handler.NewUploadHandler(uploadStore, cfg.Uploads, logr)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/enquiries", enquiryHandler.Create)
	api.POST("/enquiries/verify", enquiryHandler.Verify)
	api.POST("/admissions", admissionHandler.Create)
	api.POST("/registrations", registrationHandler.Create)
	api.POST("/uploads", uploadHandler.Upload)
	api.GET("/documents/download", documentHandler.Download)

	admin := api.Group("")
	admin.Use(middleware.JWT(authService))
	admin.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))

	admin.GET("/auth/me", authHandler.Me)

	admin.GET("/enquiries", enquiryHandler.List)
	admin.GET("/enquiries/:id", enquiryHandler.Get)
	admin.PUT("/enquiries/:id/status",
		middleware.Audit(userRepo, models.AuditActionEnquiryStatus, "enquiry"),
		enquiryHandler.UpdateStatus)
	admin.DELETE("/enquiries/:id",
		middleware.Audit(userRepo, models.AuditActionEnquiryDelete, "enquiry"),
		enquiryHandler.Delete)

	admin.GET("/admissions", admissionHandler.List)
	admin.GET("/admissions/export", admissionHandler.Export)
	admin.GET("/admissions/:id", admissionHandler.Get)
	admin.PUT("/admissions/:id/status",
		middleware.Audit(userRepo, models.AuditActionAdmissionStatus, "admission"),
		admissionHandler.UpdateStatus)
	admin.DELETE("/admissions/:id",
		middleware.Audit(userRepo, models.AuditActionAdmissionDelete, "admission"),
		admissionHandler.Delete)

	admin.GET("/registrations", registrationHandler.List)
	admin.GET("/registrations/export", registrationHandler.Export)
	admin.GET("/registrations/:id", registrationHandler.Get)
	admin.PUT("/registrations/:id/status",
		middleware.Audit(userRepo, models.AuditActionRegistrationStatus, "registration"),
		registrationHandler.UpdateStatus)
	admin.DELETE("/registrations/:id",
		middleware.Audit(userRepo, models.AuditActionRegistrationDelete, "registration"),
		registrationHandler.Delete)

	admin.POST("/documents/generate",
		middleware.Audit(userRepo, models.AuditActionDocumentGenerate, "document"),
		documentHandler.Generate)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
