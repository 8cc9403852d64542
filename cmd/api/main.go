package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "consumables/api/swagger" // swagger docs
	"consumables/internal/auth"
	"consumables/internal/config"
	"consumables/internal/database"
	"consumables/internal/handler"
	"consumables/internal/middleware"
	"consumables/internal/repository"
	"consumables/internal/repository/badgerstore"
	"consumables/internal/service"
	"consumables/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// openStore connects the configured storage backend. The returned func releases it.
func openStore(cfg config.Config) (repository.Store, func(), error) {
	if cfg.StorageDriver == config.DriverBadger {
		db, err := badgerstore.Open(cfg.BadgerPath)
		if err != nil {
			return repository.Store{}, nil, err
		}
		log.Printf("Opened badger store at %s", cfg.BadgerPath)
		return badgerstore.New(db), func() { _ = db.Close() }, nil
	}

	db, err := database.NewConnection(cfg.DSN(), database.LogLevel(cfg.GormLogLevel))
	if err != nil {
		return repository.Store{}, nil, err
	}
	log.Println("Connected to PostgreSQL successfully.")
	return repository.NewPostgresStore(db), func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}, nil
}

// @title           Consumables Ordering API
// @version         1.0
// @description     Factory consumables catalog, request log and weekly/monthly reporting.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Storage initialization failed: %v", err)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	issuer := auth.NewIssuer([]byte(cfg.JWTSecret), cfg.AdminTokenTTL)
	requireAdmin := middleware.RequireAdmin(issuer)

	// Set up dependencies (Repository -> Service -> Handler)
	authService := service.NewAuthService(cfg.AdminPassword, issuer)
	catalogService := service.NewCatalogService(store, wsHub)
	referenceService := service.NewReferenceService(store, wsHub)
	requestService := service.NewRequestService(store, wsHub, cfg.DefaultRequester)
	reportService := service.NewReportService(store, cfg.Location, cfg.ReportLocale)
	auditService := service.NewAuditService(store.Audit)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService, int(cfg.AdminTokenTTL.Seconds()))
	catalogHandler := handler.NewCatalogHandler(catalogService, requireAdmin)
	referenceHandler := handler.NewReferenceHandler(referenceService, requireAdmin)
	requestHandler := handler.NewRequestHandler(requestService, requireAdmin, cfg.Location)
	reportHandler := handler.NewReportHandler(reportService, requireAdmin, cfg.Location)
	auditHandler := handler.NewAuditHandler(auditService, requireAdmin)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "storage": cfg.StorageDriver})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, issuer)
	})

	// API Routing
	authHandler.RegisterRoutes(router.Group(""))
	catalogHandler.RegisterRoutes(router.Group(""))
	referenceHandler.RegisterRoutes(router.Group(""))
	requestHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
