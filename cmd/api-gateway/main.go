package main

import (
	"context"
	"errors"
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

	_ "github.com/fitify-app/fitify-api/api/swagger"
	"github.com/fitify-app/fitify-api/internal/handler"
	"github.com/fitify-app/fitify-api/internal/middleware"
	"github.com/fitify-app/fitify-api/internal/models"
	"github.com/fitify-app/fitify-api/internal/repository"
	"github.com/fitify-app/fitify-api/internal/service"
	"github.com/fitify-app/fitify-api/pkg/cache"
	"github.com/fitify-app/fitify-api/pkg/config"
	"github.com/fitify-app/fitify-api/pkg/database"
	"github.com/fitify-app/fitify-api/pkg/logger"
	corsmiddleware "github.com/fitify-app/fitify-api/pkg/middleware/cors"
	reqidmiddleware "github.com/fitify-app/fitify-api/pkg/middleware/requestid"
)

// @title Fitify API
// @version 1.0.0
// @description Fitness platform backend: trainers, slots, classes, bookings, community forum
// @BasePath /
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
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	trainerRepo := repository.NewTrainerRepository(db)
	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	forumRepo := repository.NewForumRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()

	trainerSvc := service.NewTrainerService(trainerRepo, userRepo, cacheRepo, validate, logr, service.TrainerQueueConfig{
		Workers:    cfg.Trainers.ReconcileWorkers,
		Retries:    cfg.Trainers.ReconcileRetries,
		RetryDelay: cfg.Trainers.ReconcileRetryDelay,
	}, cfg.Cache.TrainerListTTL)
	trainerSvc.SetMetrics(metricsSvc)

	authSvc := service.NewAuthService(userRepo, validate, logr, cfg.JWT)
	userSvc := service.NewUserService(userRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, cacheRepo, validate, logr, cfg.Cache.FeaturedClassesTTL)
	subSvc := service.NewSubscriptionService(subRepo, validate, logr)
	bookingSvc := service.NewBookingService(bookingRepo, trainerRepo, classRepo, subRepo, validate, logr)
	forumSvc := service.NewForumService(forumRepo, validate, logr)
	reviewSvc := service.NewReviewService(reviewRepo, trainerRepo, validate, logr)
	reportSvc := service.NewReportService(bookingSvc, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	trainerSvc.Start(ctx)
	defer trainerSvc.Stop()

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	trainerHandler := handler.NewTrainerHandler(trainerSvc)
	classHandler := handler.NewClassHandler(classSvc, trainerSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	forumHandler := handler.NewForumHandler(forumSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	subHandler := handler.NewSubscriptionHandler(subSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/social", authHandler.SocialLogin)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	authed := middleware.JWT(authSvc)
	admin := middleware.RequireRoles(models.RoleAdmin)
	trainerOrAdmin := middleware.RequireRoles(models.RoleTrainer, models.RoleAdmin)

	trainers := api.Group("/trainers")
	trainers.GET("", trainerHandler.List)
	trainers.GET("/approved", trainerHandler.Approved)
	trainers.GET("/random", trainerHandler.Random)
	trainers.GET("/applications", authed, admin, trainerHandler.Pending)
	trainers.GET("/applications/:email", authed, middleware.RBAC("admin", "SELF"), trainerHandler.MyApplications)
	trainers.GET("/email/:email", trainerHandler.GetByEmail)
	trainers.GET("/:id", trainerHandler.Get)
	trainers.POST("/apply", authed, trainerHandler.Apply)
	trainers.POST("/:id/approve", authed, admin, trainerHandler.Approve)
	trainers.POST("/:id/reject", authed, admin, trainerHandler.Reject)
	trainers.POST("/:id/demote", authed, admin, trainerHandler.Demote)
	trainers.POST("/slots", authed, trainerOrAdmin, trainerHandler.AddSlot)
	trainers.DELETE("/:id/slots", authed, trainerOrAdmin, trainerHandler.RemoveSlot)
	trainers.POST("/reconcile/:email", authed, admin, trainerHandler.Reconcile)

	classes := api.Group("/classes")
	classes.GET("", classHandler.List)
	classes.GET("/featured", classHandler.Featured)
	classes.GET("/trainer/:id", classHandler.ForTrainer)
	classes.GET("/:id", classHandler.Get)
	classes.POST("", authed, admin, classHandler.Create)

	bookings := api.Group("/bookings")
	bookings.POST("", authed, bookingHandler.Create)
	bookings.GET("/trainer/:id", authed, trainerOrAdmin, bookingHandler.ForTrainer)
	bookings.GET("/member/:email", authed, middleware.RBAC("admin", "SELF"), bookingHandler.ForMember)

	forum := api.Group("/forum")
	forum.GET("", forumHandler.List)
	forum.GET("/latest", forumHandler.Latest)
	forum.GET("/:id", forumHandler.Get)
	forum.POST("", authed, trainerOrAdmin, forumHandler.Create)
	forum.POST("/:id/vote", authed, forumHandler.Vote)

	reviews := api.Group("/reviews")
	reviews.GET("", reviewHandler.List)
	reviews.POST("", authed, reviewHandler.Create)

	subs := api.Group("/subscriptions")
	subs.GET("", authed, admin, subHandler.List)
	subs.POST("", subHandler.Subscribe)

	users := api.Group("/users")
	users.GET("", authed, admin, userHandler.List)
	users.GET("/:email/role", userHandler.Role)
	users.PUT("/me", authed, userHandler.UpdateProfile)
	users.POST("/:id/promote", authed, admin, userHandler.PromoteAdmin)
	users.POST("/:id/demote", authed, admin, userHandler.DemoteAdmin)

	adminGroup := api.Group("/admin", authed, admin)
	adminGroup.GET("/balance", bookingHandler.Balance)
	adminGroup.GET("/balance/export", reportHandler.BalanceReport)
	adminGroup.GET("/membership-stats", bookingHandler.MembershipStats)
	adminGroup.GET("/metrics", metricsHandler.Snapshot)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
