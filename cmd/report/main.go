package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"equity-ingestor/internal/ingestor/config"
	"equity-ingestor/internal/report"
	"equity-ingestor/pkg/postgres"

	"github.com/spf13/cobra"
)

var (
	configPath string
	outputPath string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates the plain-text analysis report over the persisted data",
	Run:   generateReport,
}

func generateReport(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := postgres.NewDB(postgres.Config{
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
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	generator := report.NewGenerator(db.DB)
	if err := generator.WriteText(context.Background(), out); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
}

func main() {
	rootCmd := &cobra.Command{Use: "report"}

	generateCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-ingestor.yaml", "Path to the configuration file")
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")

	rootCmd.AddCommand(generateCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing report CLI: %s\n", err)
		os.Exit(1)
	}
}
