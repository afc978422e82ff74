package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerniceZTT/cbam_end/config"
	"github.com/BerniceZTT/cbam_end/controllers"
	"github.com/BerniceZTT/cbam_end/repository"
	"github.com/BerniceZTT/cbam_end/routes"
	"github.com/BerniceZTT/cbam_end/service"
	"github.com/BerniceZTT/cbam_end/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.LoadConfig()

	utils.InitLogger(cfg.Debug)
	utils.SetJWTSecret(cfg.JWTKey)

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	price, err := decimal.NewFromString(cfg.CertificatePrice)
	if err != nil {
		utils.Logger.Fatal().Err(err).Str("price", cfg.CertificatePrice).Msg("invalid CBAM_CERTIFICATE_PRICE")
	}

	store, err := openStore(cfg)
	if err != nil {
		utils.Logger.Fatal().Err(err).Str("dataSource", cfg.DataSource).Msg("failed to open store")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			utils.Logger.Error().Err(err).Msg("close store failed")
		}
	}()

	utils.Logger.Info().Msg("initializing system data...")
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repository.InitializeAdminAccount(initCtx, store, cfg.AdminPassword); err != nil {
		utils.Logger.Error().Err(err).Msg("initialize admin account failed")
	}
	if cfg.SeedSampleData {
		suppliers, imports := service.GenerateSampleData(service.DefaultSampleOptions)
		if err := repository.SeedData(initCtx, store, suppliers, imports, false); err != nil {
			utils.Logger.Warn().Err(err).Msg("seed sample data skipped")
		}
	}
	cancelInit()
	utils.Logger.Info().Msg("system initialization finished")

	ctl := controllers.NewController(store, price)
	router := routes.NewRouter(store, ctl, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		utils.Logger.Info().Msgf("server listening on port %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Logger.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("server shutdown failed")
	}

	utils.Logger.Info().Msg("server stopped")
}

// openStore 连接配置的存储后端
func openStore(cfg *config.Config) (repository.Store, error) {
	if cfg.DataSource == config.DataSourceMemory {
		utils.Logger.Info().Msg("using in-memory store")
		return repository.NewMemoryStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return repository.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
}
