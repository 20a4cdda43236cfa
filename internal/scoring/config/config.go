package config

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/tigertrust/tigerscore-backend/pkg/env"
)

type Config struct {
	devMode bool

	// Scoring API Port
	scoringAPIPort string

	// Solana RPC and user-profile program
	rpcURL       string
	programID    string
	authorityKey string

	// Orchestrator settings
	updateIntervalHours int
	monitoredWallets    []string

	// Scoring model selector (unused by the deterministic path)
	scoringModel string

	// External feature server for wallet signal aggregation
	featureServerURL string

	// Redis-backed wallet registry
	redisAddr     string
	redisPassword string

	// ScyllaDB Host and Port for score history
	databaseHostAddress string
	databaseHostPort    string
}

var cfg Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment")
	}
	cfg = Config{
		devMode:             env.GetEnvBool("DEV_MODE", false),
		scoringAPIPort:      env.GetEnvString("SCORING_API_PORT", "5001"),
		rpcURL:              env.GetEnvString("SOLANA_RPC_URL", "https://api.devnet.solana.com"),
		programID:           env.GetEnvString("TIGERTRUST_PROGRAM_ID", ""),
		authorityKey:        env.GetEnvString("AUTHORITY_PRIVATE_KEY", ""),
		updateIntervalHours: env.GetEnvInt("SCORE_UPDATE_INTERVAL_HOURS", 24),
		monitoredWallets:    splitWallets(env.GetEnvString("MONITORED_WALLETS", "")),
		scoringModel:        env.GetEnvString("SCORING_MODEL", "deterministic"),
		featureServerURL:    env.GetEnvString("FEATURE_SERVER_URL", ""),
		redisAddr:           env.GetEnvString("REDIS_ADDR", ""),
		redisPassword:       env.GetEnvString("REDIS_PASSWORD", ""),
		databaseHostAddress: env.GetEnvString("DATABASE_HOST", ""),
		databaseHostPort:    env.GetEnvString("DATABASE_HOST_PORT", "9042"),
	}
	if err := validateConfig(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !cfg.devMode {
		gin.SetMode(gin.ReleaseMode)
	}
	return nil
}

// validateConfig rejects malformed values; missing chain credentials are
// allowed (the health endpoint reports configured-ness and chain-dependent
// endpoints fail per-request).
func validateConfig() error {
	if !env.IsValidRPCURL(cfg.rpcURL) {
		return fmt.Errorf("invalid Solana RPC URL: %s", cfg.rpcURL)
	}
	if !env.IsValidPort(cfg.scoringAPIPort) {
		return fmt.Errorf("invalid scoring API port: %s", cfg.scoringAPIPort)
	}
	if cfg.programID != "" && !env.IsValidSolanaAddress(cfg.programID) {
		return fmt.Errorf("invalid program ID: %s", cfg.programID)
	}
	if cfg.authorityKey != "" && !env.IsValidPrivateKey(cfg.authorityKey) {
		return fmt.Errorf("invalid authority private key")
	}
	if cfg.updateIntervalHours < 1 {
		return fmt.Errorf("invalid update interval: %d hours", cfg.updateIntervalHours)
	}
	return nil
}

func splitWallets(raw string) []string {
	var wallets []string
	for _, w := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(w); trimmed != "" {
			wallets = append(wallets, trimmed)
		}
	}
	return wallets
}

func IsDevMode() bool {
	return cfg.devMode
}

func GetScoringAPIPort() string {
	return cfg.scoringAPIPort
}

func GetRPCURL() string {
	return cfg.rpcURL
}

func GetProgramID() string {
	return cfg.programID
}

func GetAuthorityKey() string {
	return cfg.authorityKey
}

func GetUpdateIntervalHours() int {
	return cfg.updateIntervalHours
}

func GetMonitoredWallets() []string {
	return cfg.monitoredWallets
}

func GetScoringModel() string {
	return cfg.scoringModel
}

func GetFeatureServerURL() string {
	return cfg.featureServerURL
}

func GetRedisAddr() string {
	return cfg.redisAddr
}

func GetRedisPassword() string {
	return cfg.redisPassword
}

func GetDatabaseHostAddress() string {
	return cfg.databaseHostAddress
}

func GetDatabaseHostPort() string {
	return cfg.databaseHostPort
}

// IsChainConfigured reports whether on-chain updates can be attempted
func IsChainConfigured() bool {
	return cfg.programID != "" && cfg.authorityKey != ""
}

func IsRedisConfigured() bool {
	return cfg.redisAddr != ""
}

func IsDatabaseConfigured() bool {
	return cfg.databaseHostAddress != ""
}
