package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/worker"
)

var workWorkers int

var workCmd = &cobra.Command{
	Use:   "work",
	Short: "Start the queue worker",
	Long: `Consume analysis jobs from RabbitMQ, run them through the analysis
tiers, and publish progress and results. Resumes referenced by object key
are downloaded from the configured S3 bucket.`,
	RunE: runWork,
}

func init() {
	workCmd.Flags().IntVar(&workWorkers, "workers", 0, "number of concurrent workers (overrides WORKER_COUNT)")
	rootCmd.AddCommand(workCmd)
}

func runWork(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if cmd.Flags().Changed("workers") {
		cfg.WorkerCount = workWorkers
	}
	if err := cfg.ValidateWorker(); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orch, err := buildOrchestrator(ctx, cfg, log)
	if err != nil {
		return err
	}

	var store worker.ResumeStore
	if cfg.S3Configured() {
		store, err = worker.NewResumeStore(ctx, cfg)
		if err != nil {
			return err
		}
	} else {
		log.Info("object storage not configured, jobs must carry resume text inline")
	}

	return worker.New(cfg, orch, store, log).Run(ctx)
}
