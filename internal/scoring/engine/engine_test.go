package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/types"
	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

type noopLogger struct{}

func (l *noopLogger) Debug(msg string, tags ...any)                 {}
func (l *noopLogger) Info(msg string, tags ...any)                  {}
func (l *noopLogger) Warn(msg string, tags ...any)                  {}
func (l *noopLogger) Error(msg string, tags ...any)                 {}
func (l *noopLogger) Fatal(msg string, tags ...any)                 {}
func (l *noopLogger) Debugf(template string, args ...interface{})   {}
func (l *noopLogger) Infof(template string, args ...interface{})    {}
func (l *noopLogger) Warnf(template string, args ...interface{})    {}
func (l *noopLogger) Errorf(template string, args ...interface{})   {}
func (l *noopLogger) Fatalf(template string, args ...interface{})   {}
func (l *noopLogger) With(tags ...any) logging.Logger               { return l }

func newTestEngine() *Engine {
	return NewEngine(&noopLogger{})
}

func TestScoreEmptyProfile(t *testing.T) {
	e := newTestEngine()

	result := e.Score(types.UserProfileInput{WalletAddress: "wallet1"})

	assert.Equal(t, 300, result.Score)
	assert.Equal(t, types.TierSilver, result.Tier)
	assert.Equal(t, "Medium-High", result.RiskCategory)
	assert.Equal(t, 0.7, result.Confidence)
	assert.Equal(t, "deterministic", result.ModelUsed)
	assert.Equal(t, "wallet1", result.WalletAddress)
}

func TestScoreStrongProfile(t *testing.T) {
	e := newTestEngine()

	input := types.UserProfileInput{
		WalletAddress:           "wallet2",
		SuccessfulRepayments:    5,
		HumanVerified:           true,
		WalletAgeDays:           200,
		TxCount:                 150,
		NFTCount:                2,
		EducationVCs:            []string{"Education VC"},
		IncomeVerified:          true,
		IncomeDebtRatio:         3,
		ActivityRegularityScore: 70,
	}

	result := e.Score(input)

	// 300 + 300 + 80 + 40 + 40 + 20 + 30 + 110 + 40
	assert.Equal(t, 960, result.Score)
	assert.Equal(t, types.TierDiamond, result.Tier)
	assert.Equal(t, "Very Low", result.RiskCategory)
}

func TestScoreEstablishedBorrowerJustBelowPlatinum(t *testing.T) {
	e := newTestEngine()

	input := types.UserProfileInput{
		WalletAddress:        "wallet5",
		SuccessfulRepayments: 3,
		HumanVerified:        true,
		WalletAgeDays:        365,
		TxCount:              250,
		NFTCount:             5,
		EducationVCs:         []string{"Education VC"},
	}

	result := e.Score(input)

	// 300 + 180 + 80 + 40 + 40 + 20 + 30 = 690, just short of Platinum
	assert.Equal(t, 690, result.Score)
	assert.Equal(t, types.TierGold, result.Tier)
	assert.Equal(t, "Medium", result.RiskCategory)
}

func TestScoreClampedAtZero(t *testing.T) {
	e := newTestEngine()

	result := e.Score(types.UserProfileInput{
		WalletAddress: "wallet3",
		Defaults:      3,
	})

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, types.TierBronze, result.Tier)
	assert.Equal(t, "High", result.RiskCategory)
}

func TestScoreClampedAtMax(t *testing.T) {
	e := newTestEngine()

	result := e.Score(types.UserProfileInput{
		WalletAddress:        "wallet4",
		SuccessfulRepayments: 20,
	})

	assert.Equal(t, 1000, result.Score)
	assert.Equal(t, types.TierDiamond, result.Tier)
}

func TestScoreFactorBreakdown(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name        string
		input       types.UserProfileInput
		wantOnchain int
	}{
		{
			name:        "mature active wallet",
			input:       types.UserProfileInput{WalletAddress: "w", WalletAgeDays: 200, TxCount: 150},
			wantOnchain: 60,
		},
		{
			name:        "new wallet",
			input:       types.UserProfileInput{WalletAddress: "w", WalletAgeDays: 10, TxCount: 5},
			wantOnchain: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Score(tt.input)
			assert.Equal(t, tt.wantOnchain, result.FactorBreakdown["onchain_contribution"])
			assert.Equal(t, 20, result.FactorBreakdown["behavioral_contribution"])
		})
	}
}

func TestScoreRepaymentDominates(t *testing.T) {
	e := newTestEngine()

	repaid := e.Score(types.UserProfileInput{WalletAddress: "w", SuccessfulRepayments: 2})
	defaulted := e.Score(types.UserProfileInput{WalletAddress: "w", Defaults: 1})

	assert.Equal(t, 420, repaid.Score)
	assert.Equal(t, 180, defaulted.Score)
	assert.Equal(t, 120, repaid.FactorBreakdown["repayment_contribution"])
	assert.Equal(t, -120, defaulted.FactorBreakdown["repayment_contribution"])
}

func TestBatchScore(t *testing.T) {
	e := newTestEngine()

	inputs := []types.UserProfileInput{
		{WalletAddress: "a"},
		{WalletAddress: "b", SuccessfulRepayments: 5},
		{WalletAddress: "c", Defaults: 2},
	}

	items := e.BatchScore(inputs)

	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, inputs[i].WalletAddress, item.WalletAddress)
		require.NotNil(t, item.Result)
		assert.Empty(t, item.Error)
	}
	assert.Equal(t, 300, items[0].Result.Score)
	assert.Equal(t, 600, items[1].Result.Score)
	assert.Equal(t, 60, items[2].Result.Score)
}

func TestBatchScoreEmpty(t *testing.T) {
	e := newTestEngine()
	items := e.BatchScore(nil)
	assert.Empty(t, items)
}
