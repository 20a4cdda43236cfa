package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/aggregator"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/api"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/chain"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/config"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/engine"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/history"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/metrics"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/registry"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/scheduler"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/underwriting"
	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Initialize configuration
	if err := config.Init(); err != nil {
		panic(fmt.Sprintf("Failed to initialize config: %v", err))
	}

	// Start metrics collection
	metrics.StartMetricsCollection()

	// Initialize logger
	logConfig := logging.LoggerConfig{
		LogDir:      logging.BaseDataDir,
		ProcessName: logging.ScoringProcess,
		Environment: getEnvironment(),
		UseColors:   true,
	}

	if err := logging.InitServiceLogger(logConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger := logging.GetServiceLogger()

	logger.Info("Starting TigerScore scoring service...")

	// Wallet registry: Redis-backed when configured, in-memory otherwise
	var walletRegistry registry.WalletRegistry
	var redisRegistry *registry.RedisRegistry
	if config.IsRedisConfigured() {
		reg, err := registry.NewRedisRegistry(config.GetRedisAddr(), config.GetRedisPassword())
		if err != nil {
			logger.Warnf("Failed to connect to Redis registry: %v", err)
			logger.Info("Falling back to in-memory wallet registry")
			walletRegistry = registry.NewInMemoryRegistry()
		} else {
			logger.Info("Redis wallet registry initialized", "addr", config.GetRedisAddr())
			redisRegistry = reg
			walletRegistry = reg
		}
	} else {
		logger.Info("Redis not configured, using in-memory wallet registry")
		walletRegistry = registry.NewInMemoryRegistry()
	}

	// Score history store (optional)
	var historyStore *history.Store
	if config.IsDatabaseConfigured() {
		store, err := history.NewStore(history.Config{
			Hosts:       []string{fmt.Sprintf("%s:%s", config.GetDatabaseHostAddress(), config.GetDatabaseHostPort())},
			Timeout:     10 * time.Second,
			ConnectWait: 10 * time.Second,
			Retries:     3,
		}, logger)
		if err != nil {
			logger.Warnf("Score history store unavailable: %v", err)
			logger.Info("Continuing without score history")
		} else {
			historyStore = store
			defer historyStore.Close()
		}
	} else {
		logger.Info("Database not configured, score history disabled")
	}

	// On-chain updater (optional; score computation works without it)
	var chainClient scheduler.ChainClient
	if config.IsChainConfigured() {
		updater, err := chain.NewUpdater(chain.Config{
			RPCURL:       config.GetRPCURL(),
			ProgramID:    config.GetProgramID(),
			AuthorityKey: config.GetAuthorityKey(),
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize on-chain updater", "error", err)
		}
		chainClient = updater
		logger.Info("On-chain updater initialized",
			"rpc_url", config.GetRPCURL(),
			"program_id", config.GetProgramID(),
			"authority", updater.Authority().String(),
		)
	} else {
		logger.Warn("TIGERTRUST_PROGRAM_ID or AUTHORITY_PRIVATE_KEY not set - on-chain updates disabled")
	}

	// Feature client (optional)
	var featureClient *aggregator.FeatureClient
	if config.GetFeatureServerURL() != "" {
		client, err := aggregator.NewFeatureClient(config.GetFeatureServerURL(), logger)
		if err != nil {
			logger.Fatal("Failed to initialize feature client", "error", err)
		}
		featureClient = client
		defer featureClient.Close()
		logger.Info("Feature client initialized", "url", config.GetFeatureServerURL())
	} else {
		logger.Info("Feature server not configured, scoring from on-chain profiles only")
	}

	scoringEngine := engine.NewEngine(logger)
	underwriter := underwriting.NewEngine(logger)
	agg := aggregator.NewAggregator(featureClient, logger)

	// Seed the monitored-wallet set from the environment
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	for _, wallet := range config.GetMonitoredWallets() {
		if err := walletRegistry.Add(seedCtx, wallet); err != nil {
			logger.Warnf("Failed to seed monitored wallet %s: %v", wallet, err)
		}
	}
	seedCancel()

	// Initialize the recalculation orchestrator
	orchestrator := scheduler.NewOrchestrator(scheduler.Config{
		UpdateIntervalHours: config.GetUpdateIntervalHours(),
	}, scheduler.Dependencies{
		Logger:     logger,
		Registry:   walletRegistry,
		Aggregator: agg,
		Engine:     scoringEngine,
		Chain:      chainClient,
		History:    historyStore,
	})

	// Setup HTTP server
	srv := api.NewServer(api.Config{
		Port: config.GetScoringAPIPort(),
	}, api.Dependencies{
		Logger:       logger,
		Engine:       scoringEngine,
		Underwriter:  underwriter,
		Chain:        chainClient,
		Orchestrator: orchestrator,
		Registry:     walletRegistry,
		History:      historyStore,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start orchestrator in background
	go func() {
		logger.Info("Starting recalculation cycles...")
		orchestrator.Start(ctx)
	}()

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server for scoring API...", "port", config.GetScoringAPIPort())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	logger.Info("TigerScore scoring service ready",
		"api_port", config.GetScoringAPIPort(),
		"chain_configured", config.IsChainConfigured(),
		"redis_configured", config.IsRedisConfigured(),
		"database_configured", config.IsDatabaseConfigured(),
		"update_interval_hours", config.GetUpdateIntervalHours(),
		"monitored_wallets", len(config.GetMonitoredWallets()),
	)

	// Handle graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	<-shutdown

	performGracefulShutdown(cancel, srv, orchestrator, redisRegistry, logger)
}

func getEnvironment() logging.LogLevel {
	if config.IsDevMode() {
		return logging.Development
	}
	return logging.Production
}

func performGracefulShutdown(cancel context.CancelFunc, srv *api.Server, orchestrator *scheduler.Orchestrator, redisRegistry *registry.RedisRegistry, logger logging.Logger) {
	shutdownStart := time.Now()
	logger.Info("Initiating graceful shutdown...")

	// Cancel context to stop the orchestrator
	cancel()
	orchestrator.Stop()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	// Shutdown server gracefully
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Close the Redis registry if it was in use
	if redisRegistry != nil {
		if err := redisRegistry.Close(); err != nil {
			logger.Warnf("Error closing Redis registry: %v", err)
		}
	}

	logger.Info("Scoring service shutdown complete", "duration", time.Since(shutdownStart))
	logging.Shutdown()
	os.Exit(0)
}
