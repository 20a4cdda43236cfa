package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/aggregator"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/engine"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/registry"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/types"
	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

type noopLogger struct{}

func (l *noopLogger) Debug(msg string, tags ...any)               {}
func (l *noopLogger) Info(msg string, tags ...any)                {}
func (l *noopLogger) Warn(msg string, tags ...any)                {}
func (l *noopLogger) Error(msg string, tags ...any)               {}
func (l *noopLogger) Fatal(msg string, tags ...any)               {}
func (l *noopLogger) Debugf(template string, args ...interface{}) {}
func (l *noopLogger) Infof(template string, args ...interface{})  {}
func (l *noopLogger) Warnf(template string, args ...interface{})  {}
func (l *noopLogger) Errorf(template string, args ...interface{}) {}
func (l *noopLogger) Fatalf(template string, args ...interface{}) {}
func (l *noopLogger) With(tags ...any) logging.Logger             { return l }

// fakeChain is an in-memory stand-in for the Solana updater
type fakeChain struct {
	profiles    map[string]types.OnChainProfile
	failUpdates map[string]bool
	updates     []string
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		profiles:    make(map[string]types.OnChainProfile),
		failUpdates: make(map[string]bool),
	}
}

func (f *fakeChain) addProfile(wallet string) {
	f.profiles[wallet] = types.OnChainProfile{
		WalletAddress: wallet,
		Exists:        true,
		Decoded:       true,
		DID:           "did:tiger:" + wallet,
	}
}

func (f *fakeChain) FetchProfile(_ context.Context, wallet string) (types.OnChainProfile, error) {
	profile, ok := f.profiles[wallet]
	if !ok {
		return types.OnChainProfile{WalletAddress: wallet}, nil
	}
	return profile, nil
}

func (f *fakeChain) UpdateScore(_ context.Context, wallet string, score int, tier types.Tier) types.OnChainUpdateResult {
	f.updates = append(f.updates, wallet)
	if f.failUpdates[wallet] {
		return types.OnChainUpdateResult{
			WalletAddress: wallet,
			Error:         "rpc unavailable",
		}
	}
	return types.OnChainUpdateResult{
		Success:       true,
		WalletAddress: wallet,
		Signature:     "sig-" + wallet,
		Score:         score,
		Tier:          tier,
		Timestamp:     time.Now().UTC(),
	}
}

func newTestOrchestrator(chain ChainClient) (*Orchestrator, registry.WalletRegistry) {
	logger := &noopLogger{}
	reg := registry.NewInMemoryRegistry()

	o := NewOrchestrator(Config{
		UpdateIntervalHours: 1,
		InterWalletDelay:    time.Millisecond,
		CycleBackoff:        time.Millisecond,
	}, Dependencies{
		Logger:     logger,
		Registry:   reg,
		Aggregator: aggregator.NewAggregator(nil, logger),
		Engine:     engine.NewEngine(logger),
		Chain:      chain,
	})
	return o, reg
}

func TestHandleEventRegistersAndUpdates(t *testing.T) {
	chain := newFakeChain()
	chain.addProfile("wallet1")
	o, reg := newTestOrchestrator(chain)
	ctx := context.Background()

	outcome := o.HandleEvent(ctx, "wallet1", "loan_repaid")

	assert.True(t, outcome.Success)
	require.NotNil(t, outcome.ScoreResult)
	require.NotNil(t, outcome.ChainUpdate)
	assert.Equal(t, "sig-wallet1", outcome.ChainUpdate.Signature)

	monitored, err := reg.Contains(ctx, "wallet1")
	require.NoError(t, err)
	assert.True(t, monitored)
}

func TestUpdateWalletProfileNotFound(t *testing.T) {
	o, _ := newTestOrchestrator(newFakeChain())

	outcome := o.UpdateWallet(context.Background(), "unknown")

	assert.False(t, outcome.Success)
	assert.Equal(t, "profile not found", outcome.Error)
	assert.Nil(t, outcome.ScoreResult)
}

func TestUpdateWalletChainNotConfigured(t *testing.T) {
	o, _ := newTestOrchestrator(nil)

	outcome := o.UpdateWallet(context.Background(), "wallet1")

	assert.False(t, outcome.Success)
	assert.Equal(t, "chain updater not configured", outcome.Error)
}

func TestRunCycleIsolatesFailures(t *testing.T) {
	chain := newFakeChain()
	chain.addProfile("walletA")
	chain.addProfile("walletB")
	chain.failUpdates["walletA"] = true
	o, reg := newTestOrchestrator(chain)
	ctx := context.Background()

	require.NoError(t, reg.Add(ctx, "walletA"))
	require.NoError(t, reg.Add(ctx, "walletB"))

	outcomes := o.RunCycle(ctx)

	require.Len(t, outcomes, 2)
	byWallet := make(map[string]types.WalletUpdateOutcome, len(outcomes))
	for _, outcome := range outcomes {
		byWallet[outcome.WalletAddress] = outcome
	}

	assert.False(t, byWallet["walletA"].Success)
	assert.Equal(t, "rpc unavailable", byWallet["walletA"].Error)
	assert.True(t, byWallet["walletB"].Success)

	// Both wallets were attempted despite the first failure
	assert.Len(t, chain.updates, 2)
}

func TestRunCycleEmptyRegistry(t *testing.T) {
	o, _ := newTestOrchestrator(newFakeChain())
	assert.Nil(t, o.RunCycle(context.Background()))
}

func TestRunCycleUpdatesStats(t *testing.T) {
	chain := newFakeChain()
	chain.addProfile("wallet1")
	o, reg := newTestOrchestrator(chain)
	ctx := context.Background()

	require.NoError(t, reg.Add(ctx, "wallet1"))
	o.RunCycle(ctx)

	cycles, lastCycleAt, last := o.Stats()
	assert.Equal(t, int64(1), cycles)
	assert.False(t, lastCycleAt.IsZero())
	assert.Equal(t, 1, last.Total)
	assert.Equal(t, 1, last.Succeeded)
	assert.Equal(t, 0, last.Failed)
}

func TestStartStopsOnCancel(t *testing.T) {
	chain := newFakeChain()
	o, _ := newTestOrchestrator(chain)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		o.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("orchestrator did not stop after context cancellation")
	}
}
