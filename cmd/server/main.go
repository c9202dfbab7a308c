package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/config"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/handler"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/middleware"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/repository"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting dynaclean service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to auto-migrate tables", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	rdb := initRedis(cfg.Redis)

	fileStore, err := service.NewFileStore(cfg.MinIO)
	if err != nil {
		zapLogger.Fatal("Failed to connect to object storage", zap.Error(err))
	}

	mailer := service.NewMailer(cfg.SMTP, zapLogger)
	notifyTo := splitEmails(os.Getenv("NOTIFY_EMAILS"))

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, cfg, rdb, fileStore, mailer, notifyTo, zapLogger)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func splitEmails(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.POST("/auth/register",
				middleware.RequireRole(entity.RoleAdmin), h.Auth.Register)

			// catalog
			products := authorized.Group("/products")
			{
				products.POST("", h.Catalog.CreateProduct)
				products.GET("/:code", h.Catalog.GetProduct)
			}
			spares := authorized.Group("/spares")
			{
				spares.POST("", h.Catalog.CreateSpare)
				spares.GET("/:code", h.Catalog.GetSpare)
			}

			// stock ledger and summaries
			stock := authorized.Group("/stock")
			{
				stock.GET("", h.Stock.ListSummaries)
				stock.GET("/ledger", h.Stock.ListLedger)
				stock.POST("/in", h.Stock.WarehouseIn)
				stock.GET("/:kind/:code", h.Stock.GetSummary)
			}

			// production orders and component issuance
			productions := authorized.Group("/productions")
			{
				productions.GET("", h.Production.List)
				productions.POST("", h.Production.Create)
				productions.GET("/process", h.Production.GetProcess)
				productions.POST("/process", h.Production.PostProcess)
				productions.GET("/bom/compare", h.Bom.Compare)
				productions.POST("/bom/compare", h.Bom.ApplyUpdate)
			}

			// master BOM
			bom := authorized.Group("/bom")
			{
				bom.GET("", h.Bom.GetMaster)
				bom.POST("", h.Bom.ReplaceMaster)
				bom.POST("/import", h.Bom.ImportMaster)
			}

			// dispatch
			dispatch := authorized.Group("/dispatch")
			{
				dispatch.GET("", h.Dispatch.List)
				dispatch.POST("", h.Dispatch.Create)
				dispatch.POST("/update",
					middleware.RequireRole(entity.RoleWarehouseIncharge), h.Dispatch.ConfirmUpdate)
				dispatch.GET("/:id", h.Dispatch.Get)
			}

			// stock requests, one workflow serving both routes
			stockRequests := authorized.Group("/stock-request")
			{
				stockRequests.GET("", h.Request.List(entity.ItemKindProduct))
				stockRequests.POST("", h.Request.Create(entity.ItemKindProduct))
				stockRequests.GET("/:id", h.Request.Get)
				stockRequests.PATCH("/:id", h.Request.Update)
				stockRequests.PATCH("/:id/status", h.Request.Advance)
			}
			spareRequests := authorized.Group("/spare/stock-request")
			{
				spareRequests.GET("", h.Request.List(entity.ItemKindSpare))
				spareRequests.POST("", h.Request.Create(entity.ItemKindSpare))
				spareRequests.GET("/:id", h.Request.Get)
				spareRequests.PATCH("/:id", h.Request.Update)
				spareRequests.PATCH("/:id/status", h.Request.Advance)
			}
		}
	}
}
