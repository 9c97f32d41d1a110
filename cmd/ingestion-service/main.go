package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"equity-ingestor/internal/ingestor/adapter"
	"equity-ingestor/internal/ingestor/config"
	ingestorhttp "equity-ingestor/internal/ingestor/delivery/http"
	"equity-ingestor/internal/ingestor/repository"
	"equity-ingestor/internal/ingestor/service"
	"equity-ingestor/internal/report"
	"equity-ingestor/pkg/logger"
	"equity-ingestor/pkg/postgres"
	"equity-ingestor/pkg/redis"
	"equity-ingestor/pkg/telegram"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the ingestion pipeline once, or on a schedule when ingestion.cron_schedule is set",
	Run:   runIngestion,
}

func runIngestion(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Ingestion Service", zap.String("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize optional Redis summary sink
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		defer redisClient.Close()
	}

	// Initialize optional Telegram notifier
	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", zap.Error(err))
		}
	}

	// Initialize storage repositories
	tickersRepo := repository.NewTickersRepository(db.DB)
	priceBarRepo := repository.NewPriceBarRepository(db.DB)
	dividendRepo := repository.NewDividendRepository(db.DB)
	frequencyRepo := repository.NewDividendFrequencyRepository(db.DB)
	insiderRepo := repository.NewInsiderTransactionRepository(db.DB)
	newsRepo := repository.NewNewsRepository(db.DB)
	runRepo := repository.NewIngestionRunRepository(db.DB)

	// Initialize provider repositories and adapters
	yahooRepo := repository.NewYahooFinanceRepository(cfg, appLogger)
	finnhubRepo := repository.NewFinnhubRepository(cfg, appLogger)
	marketauxRepo := repository.NewMarketauxRepository(cfg, appLogger)

	adapters := []adapter.ProviderAdapter{
		adapter.NewYahooPriceAdapter(yahooRepo, appLogger),
		adapter.NewYahooDividendAdapter(yahooRepo, appLogger),
		adapter.NewFinnhubInsiderAdapter(finnhubRepo, appLogger),
		adapter.NewMarketauxNewsAdapter(marketauxRepo, appLogger),
	}

	ingestionSvc := service.NewIngestionService(
		cfg, appLogger, adapters,
		tickersRepo, priceBarRepo, dividendRepo, frequencyRepo, insiderRepo, newsRepo, runRepo,
		redisClientOrNil(redisClient), notifier,
	)

	// Start the ops HTTP server when a port is configured
	if cfg.API.Port > 0 {
		e := echo.New()
		e.HideBanner = true
		handler := ingestorhttp.NewRunHandler(runRepo, report.NewGenerator(db.DB), appLogger)
		handler.RegisterRoutes(e)
		go func() {
			addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
			if err := e.Start(addr); err != nil {
				appLogger.Info("HTTP server stopped", zap.Error(err))
			}
		}()
		defer e.Close()
	}

	if cfg.Ingestion.CronSchedule == "" {
		if _, err := ingestionSvc.Run(ctx); err != nil {
			appLogger.Error("Ingestion run failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	// Scheduled mode: run on the cron schedule until interrupted.
	c := cron.New()
	_, err = c.AddFunc(cfg.Ingestion.CronSchedule, func() {
		if _, err := ingestionSvc.Run(ctx); err != nil {
			appLogger.Error("Scheduled ingestion run failed", zap.Error(err))
		}
	})
	if err != nil {
		appLogger.Fatal("Invalid cron schedule", zap.Error(err))
	}
	c.Start()

	appLogger.Info("Ingestion service started",
		zap.String("cron_schedule", cfg.Ingestion.CronSchedule))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down ingestion service...")
	<-c.Stop().Done()
	cancel()
	appLogger.Info("Ingestion service stopped.")
}

// redisClientOrNil unwraps the optional client so the service sees a plain
// nil when Redis is disabled.
func redisClientOrNil(c *redis.Client) *goredis.Client {
	if c == nil {
		return nil
	}
	return c.Client
}

func main() {
	rootCmd := &cobra.Command{Use: "ingestion-service"}

	runCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-ingestor.yaml", "Path to the configuration file")

	rootCmd.AddCommand(runCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing ingestion-service CLI: %s\n", err)
		os.Exit(1)
	}
}
