package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/aggregator"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/engine"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/history"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/metrics"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/registry"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/types"
	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

const (
	// Delay between wallets within a cycle, to respect RPC rate limits
	defaultInterWalletDelay = 2 * time.Second
	// Backoff after a cycle-level fault before the scheduler resumes
	defaultCycleBackoff = 60 * time.Second
)

// ChainClient is the on-chain surface the orchestrator depends on
type ChainClient interface {
	FetchProfile(ctx context.Context, wallet string) (types.OnChainProfile, error)
	UpdateScore(ctx context.Context, wallet string, score int, tier types.Tier) types.OnChainUpdateResult
}

// Config holds the orchestrator configuration
type Config struct {
	UpdateIntervalHours int
	InterWalletDelay    time.Duration
	CycleBackoff        time.Duration
}

// Dependencies holds the orchestrator dependencies. Registry and History are
// injected so tests can run isolated instances; History may be nil.
type Dependencies struct {
	Logger     logging.Logger
	Registry   registry.WalletRegistry
	Aggregator *aggregator.Aggregator
	Engine     *engine.Engine
	Chain      ChainClient
	History    *history.Store
}

// Orchestrator drives score recalculation: synchronously on events, and
// periodically over the monitored-wallet registry. Wallets are processed
// strictly sequentially; the single authority signer never has two
// transactions in flight.
type Orchestrator struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger logging.Logger

	registry   registry.WalletRegistry
	aggregator *aggregator.Aggregator
	engine     *engine.Engine
	chain      ChainClient
	history    *history.Store

	cron             *cron.Cron
	intervalHours    int
	interWalletDelay time.Duration
	cycleBackoff     time.Duration

	// cycleMu makes cycles single-flight; lockMu guards walletLocks
	cycleMu     sync.Mutex
	lockMu      sync.Mutex
	walletLocks map[string]*sync.Mutex

	statsMu        sync.RWMutex
	cyclesRun      int64
	lastCycleAt    time.Time
	lastCycleStats CycleStats
}

// CycleStats summarizes one completed cycle
type CycleStats struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// NewOrchestrator creates a new recalculation orchestrator
func NewOrchestrator(cfg Config, deps Dependencies) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())

	interWalletDelay := cfg.InterWalletDelay
	if interWalletDelay <= 0 {
		interWalletDelay = defaultInterWalletDelay
	}
	cycleBackoff := cfg.CycleBackoff
	if cycleBackoff <= 0 {
		cycleBackoff = defaultCycleBackoff
	}
	intervalHours := cfg.UpdateIntervalHours
	if intervalHours <= 0 {
		intervalHours = 24
	}

	o := &Orchestrator{
		ctx:              ctx,
		cancel:           cancel,
		logger:           deps.Logger,
		registry:         deps.Registry,
		aggregator:       deps.Aggregator,
		engine:           deps.Engine,
		chain:            deps.Chain,
		history:          deps.History,
		cron:             cron.New(),
		intervalHours:    intervalHours,
		interWalletDelay: interWalletDelay,
		cycleBackoff:     cycleBackoff,
		walletLocks:      make(map[string]*sync.Mutex),
	}

	o.logger.Info("Recalculation orchestrator initialized",
		"update_interval_hours", intervalHours,
		"inter_wallet_delay", interWalletDelay,
	)

	return o
}

// Start runs one cycle immediately, then schedules cycles at the configured
// hour interval. Blocks until the context is cancelled.
func (o *Orchestrator) Start(ctx context.Context) {
	o.logger.Info("Starting recalculation orchestrator")

	o.runCycleSafe()

	cronSpec := fmt.Sprintf("@every %dh", o.intervalHours)
	if _, err := o.cron.AddFunc(cronSpec, o.runCycleSafe); err != nil {
		o.logger.Errorf("Failed to schedule periodic cycles: %v", err)
		return
	}
	o.cron.Start()

	select {
	case <-ctx.Done():
		o.logger.Info("Orchestrator context cancelled, stopping")
	case <-o.ctx.Done():
		o.logger.Info("Orchestrator stopped")
	}

	cronCtx := o.cron.Stop()
	<-cronCtx.Done()
}

// Stop gracefully stops the orchestrator. In-flight wallets finish; the stop
// takes effect at the next cycle boundary.
func (o *Orchestrator) Stop() {
	o.logger.Info("Stopping recalculation orchestrator")
	o.cancel()
}

// runCycleSafe guards the periodic loop: a fault in one cycle is logged and
// followed by a backoff, never a dead scheduler.
func (o *Orchestrator) runCycleSafe() {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Errorf("Recalculation cycle panicked: %v. Backing off for %v", r, o.cycleBackoff)
			select {
			case <-time.After(o.cycleBackoff):
			case <-o.ctx.Done():
			}
		}
	}()

	// Stop signal honored at the top of each cycle, not mid-wallet
	select {
	case <-o.ctx.Done():
		return
	default:
	}

	o.RunCycle(o.ctx)
}

// RunCycle processes every monitored wallet once, sequentially. A single
// wallet's failure is recorded as that wallet's outcome and the cycle
// continues.
func (o *Orchestrator) RunCycle(ctx context.Context) []types.WalletUpdateOutcome {
	o.cycleMu.Lock()
	defer o.cycleMu.Unlock()

	wallets, err := o.registry.List(ctx)
	if err != nil {
		o.logger.Errorf("Failed to list monitored wallets: %v", err)
		return nil
	}
	metrics.MonitoredWallets.Set(float64(len(wallets)))

	if len(wallets) == 0 {
		o.logger.Warn("No wallets to monitor")
		return nil
	}

	o.logger.Info("Starting update cycle", "wallets", len(wallets))
	startTime := time.Now()

	outcomes := make([]types.WalletUpdateOutcome, 0, len(wallets))
	succeeded, failed := 0, 0

	for i, wallet := range wallets {
		outcome := o.UpdateWallet(ctx, wallet)
		outcomes = append(outcomes, outcome)

		if outcome.Success {
			succeeded++
		} else {
			failed++
		}

		if i < len(wallets)-1 {
			select {
			case <-time.After(o.interWalletDelay):
			case <-ctx.Done():
			}
		}
	}

	duration := time.Since(startTime)
	metrics.TrackCycleCompletion(duration)

	o.statsMu.Lock()
	o.cyclesRun++
	o.lastCycleAt = time.Now().UTC()
	o.lastCycleStats = CycleStats{
		Total:     len(wallets),
		Succeeded: succeeded,
		Failed:    failed,
		Duration:  duration,
	}
	o.statsMu.Unlock()

	o.logger.Info("Update cycle complete",
		"succeeded", succeeded,
		"failed", failed,
		"total", len(wallets),
		"duration", duration,
	)

	return outcomes
}

// HandleEvent registers the wallet if absent and runs its update cycle
// immediately and synchronously.
func (o *Orchestrator) HandleEvent(ctx context.Context, wallet, eventType string) types.WalletUpdateOutcome {
	o.logger.Info("Event received", "event_type", eventType, "wallet", wallet)

	if err := o.registry.Add(ctx, wallet); err != nil {
		o.logger.Errorf("Failed to register wallet %s: %v", wallet, err)
		return types.WalletUpdateOutcome{
			WalletAddress: wallet,
			Error:         fmt.Sprintf("failed to register wallet: %v", err),
		}
	}

	return o.UpdateWallet(ctx, wallet)
}

// UpdateWallet runs the full recalculation pipeline for one wallet:
// fetch profile, aggregate inputs, score, write on-chain, record history.
// A per-wallet lock serializes event-driven and periodic updates so two
// score writes never race on the same account.
func (o *Orchestrator) UpdateWallet(ctx context.Context, wallet string) types.WalletUpdateOutcome {
	lock := o.walletLock(wallet)
	lock.Lock()
	defer lock.Unlock()

	outcome := types.WalletUpdateOutcome{WalletAddress: wallet}

	if o.chain == nil {
		outcome.Error = "chain updater not configured"
		metrics.TrackWalletUpdate("skipped")
		return outcome
	}

	profile, err := o.chain.FetchProfile(ctx, wallet)
	if err != nil {
		o.logger.Errorf("Failed to fetch profile for %s: %v", wallet, err)
		outcome.Error = fmt.Sprintf("profile fetch failed: %v", err)
		metrics.TrackWalletUpdate("failed")
		o.record(ctx, outcome)
		return outcome
	}
	if !profile.Exists {
		o.logger.Warn("Skipping wallet, profile not found", "wallet", wallet)
		outcome.Error = "profile not found"
		metrics.TrackWalletUpdate("skipped")
		return outcome
	}

	input := o.aggregator.Aggregate(ctx, wallet, profile)
	scoreResult := o.engine.Score(input)
	outcome.ScoreResult = &scoreResult
	metrics.TrackScoreComputed()

	updateResult := o.chain.UpdateScore(ctx, wallet, scoreResult.Score, scoreResult.Tier)
	outcome.ChainUpdate = &updateResult
	metrics.TrackChainUpdate(updateResult.Success)

	if updateResult.Success {
		outcome.Success = true
		metrics.TrackWalletUpdate("success")
		o.logger.Info("Wallet updated",
			"wallet", wallet,
			"score", scoreResult.Score,
			"tier", scoreResult.Tier.String(),
			"signature", updateResult.Signature,
		)
	} else {
		outcome.Error = updateResult.Error
		metrics.TrackWalletUpdate("failed")
		o.logger.Error("Failed to update wallet",
			"wallet", wallet,
			"error", updateResult.Error,
		)
	}

	o.record(ctx, outcome)
	return outcome
}

// Stats returns a snapshot of orchestrator activity
func (o *Orchestrator) Stats() (cycles int64, lastCycleAt time.Time, last CycleStats) {
	o.statsMu.RLock()
	defer o.statsMu.RUnlock()
	return o.cyclesRun, o.lastCycleAt, o.lastCycleStats
}

func (o *Orchestrator) record(ctx context.Context, outcome types.WalletUpdateOutcome) {
	if o.history == nil {
		return
	}
	if err := o.history.Record(ctx, outcome); err != nil {
		o.logger.Warnf("Failed to record score history for %s: %v", outcome.WalletAddress, err)
	}
}

func (o *Orchestrator) walletLock(wallet string) *sync.Mutex {
	o.lockMu.Lock()
	defer o.lockMu.Unlock()
	lock, ok := o.walletLocks[wallet]
	if !ok {
		lock = &sync.Mutex{}
		o.walletLocks[wallet] = lock
	}
	return lock
}
