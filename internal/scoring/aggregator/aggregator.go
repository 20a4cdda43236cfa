package aggregator

import (
	"context"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/types"
	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

// Aggregator assembles the scoring input for a wallet from the on-chain
// profile and, when configured, the external feature server. Missing sources
// degrade to zeroed signals; aggregation itself never fails.
type Aggregator struct {
	features *FeatureClient // nil when no feature server is configured
	logger   logging.Logger
}

func NewAggregator(features *FeatureClient, logger logging.Logger) *Aggregator {
	return &Aggregator{features: features, logger: logger}
}

// Aggregate builds a UserProfileInput for the wallet
func (a *Aggregator) Aggregate(ctx context.Context, wallet string, profile types.OnChainProfile) types.UserProfileInput {
	input := types.UserProfileInput{
		WalletAddress: wallet,
	}

	if profile.Exists && profile.Decoded {
		input.IdentityLevel = "None"
		if profile.DID != "" {
			input.IdentityLevel = "Verified"
			input.HumanVerified = true
		}
	}

	if a.features == nil {
		a.logger.Debug("No feature server configured, scoring from on-chain profile only", "wallet", wallet)
		return input
	}

	features, err := a.features.FetchFeatures(ctx, wallet)
	if err != nil {
		a.logger.Warnf("Feature fetch failed for %s, scoring with partial data: %v", wallet, err)
		return input
	}

	input.WalletAgeDays = features.WalletAgeDays
	input.TxCount = features.TxCount
	input.NFTCount = features.NFTCount
	input.TokenCount = features.TokenCount
	input.SmartContractCount = features.TxCount / 2
	input.HumanVerified = input.HumanVerified || features.HumanVerified
	input.SuccessfulRepayments = features.SuccessfulRepayments
	input.Defaults = features.Defaults
	input.TotalLoans = features.SuccessfulRepayments + features.Defaults
	if features.Defaults == 0 {
		input.OnTimeRate = 100
	} else {
		input.OnTimeRate = 50
	}
	if features.HasVC {
		input.EducationVCs = []string{"Education VC"}
	}

	input.ActiveDaysLast30 = features.ActiveDaysLast30
	input.AvgTxPerActiveDay = features.AvgTxPerActiveDay
	input.ActivityRegularityScore = features.ActivityRegularityScore
	input.RecentActivityScore = features.ActivityRegularityScore

	input.MonthlyIncome = features.MonthlyIncome
	input.Debt = features.Debt
	input.OutstandingDebt = features.Debt
	input.IncomeVerified = features.IncomeVerified
	input.IncomeBracket = features.IncomeBracket
	input.IncomeDebtRatio = features.IncomeDebtRatio

	if input.IdentityLevel == "" {
		if features.HumanVerified {
			input.IdentityLevel = "Verified"
		} else {
			input.IdentityLevel = "None"
		}
	}

	return input
}
