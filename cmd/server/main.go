package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	importapp "github.com/partsdepot/backend/internal/application/import"
	"github.com/partsdepot/backend/internal/infrastructure/config"
	csvimport "github.com/partsdepot/backend/internal/infrastructure/import"
	"github.com/partsdepot/backend/internal/infrastructure/logger"
	"github.com/partsdepot/backend/internal/infrastructure/persistence"
	"github.com/partsdepot/backend/internal/interfaces/http/handler"
	"github.com/partsdepot/backend/internal/interfaces/http/middleware"
	"github.com/partsdepot/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting PartsDepot Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories for the read endpoints
	partRepo := persistence.NewGormPartRepository(db.DB)
	manufacturerRepo := persistence.NewGormManufacturerRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	modelRepo := persistence.NewGormModelRepository(db.DB)

	// Import pipeline
	sessionStore := csvimport.NewInMemorySessionStore(cfg.Import.SessionTTL)
	defer sessionStore.Stop()

	txScope := persistence.NewGormTransactionScope(db.DB)
	importService := importapp.NewCatalogImportService(txScope, sessionStore, log,
		importapp.WithPreviewRows(cfg.Import.PreviewRows),
		importapp.WithMaxRows(cfg.Import.MaxRows),
		importapp.WithMaxErrors(cfg.Import.MaxErrors),
		importapp.WithTVARateDefault(cfg.Import.DefaultTVA),
		importapp.WithFallbackCategory(cfg.Import.CategoryName),
	)

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.RegisterValidators(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	systemHandler := handler.NewSystemHandler(db)
	systemHandler.RegisterHealthRoutes(engine)

	r := router.NewRouter(engine)
	r.Register(handler.NewImportHandler(importService, cfg.Import.MaxFileSize))
	r.Register(handler.NewCatalogHandler(partRepo, manufacturerRepo, categoryRepo))
	r.Register(handler.NewVehicleHandler(brandRepo, modelRepo))
	r.Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}
