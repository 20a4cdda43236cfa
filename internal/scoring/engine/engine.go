package engine

import (
	"fmt"
	"time"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/types"
	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

const (
	baseScore = 300
	minScore  = 0
	maxScore  = 1000

	// Deterministic-path confidence; there is no model-uncertainty signal
	fallbackConfidence = 0.7
	modelName          = "deterministic"
)

// Engine computes TigerScores from aggregated user signals. Scoring is a
// total function: malformed or missing inputs coerce to zero values and
// never produce an error.
type Engine struct {
	logger logging.Logger
}

func NewEngine(logger logging.Logger) *Engine {
	return &Engine{logger: logger}
}

// Score computes the TigerScore for a single user profile
func (e *Engine) Score(input types.UserProfileInput) types.ScoreResult {
	score := baseScore

	// Repayment history dominates and can push the sum negative
	repayment := input.SuccessfulRepayments*60 - input.Defaults*120
	score += repayment

	verification := 0
	if input.HumanVerified {
		verification = 80
	}
	score += verification

	if input.WalletAgeDays > 180 {
		score += 40
	}
	if input.TxCount > 100 {
		score += 40
	}
	if input.NFTCount > 0 {
		score += 20
	}

	hasVCs := len(input.EducationVCs) > 0 || len(input.EmploymentVCs) > 0 || len(input.FinancialVCs) > 0
	if hasVCs {
		score += 30
	}

	income := 0
	if input.IncomeVerified {
		income = 60
		if input.IncomeDebtRatio > 2 {
			income += 50
		} else if input.IncomeDebtRatio > 1 {
			income += 25
		}
	}
	score += income

	activity := 0
	if input.ActivityRegularityScore > 60 {
		activity = 40
	} else if input.ActivityRegularityScore > 30 {
		activity = 20
	}
	score += activity

	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}

	onchain := 30
	if input.WalletAgeDays > 180 && input.TxCount > 100 {
		onchain = 60
	}

	result := types.ScoreResult{
		WalletAddress: input.WalletAddress,
		Score:         score,
		Tier:          types.TierForScore(score),
		RiskCategory:  types.RiskCategoryForScore(score),
		Confidence:    fallbackConfidence,
		FactorBreakdown: map[string]int{
			"repayment_contribution":           repayment,
			"vc_contribution":                  verification,
			"onchain_contribution":             onchain,
			"income_contribution":              income,
			"activity_regularity_contribution": activity,
			"behavioral_contribution":          20,
		},
		ComputedAt: time.Now().UTC(),
		ModelUsed:  modelName,
	}

	e.logger.Debug("Computed TigerScore",
		"wallet", input.WalletAddress,
		"score", result.Score,
		"tier", result.Tier.String(),
	)

	return result
}

// BatchScore scores every input, isolating faults: a panic while scoring one
// entry becomes that entry's error and the rest of the batch still completes.
func (e *Engine) BatchScore(inputs []types.UserProfileInput) []types.BatchScoreItem {
	items := make([]types.BatchScoreItem, 0, len(inputs))
	for _, input := range inputs {
		items = append(items, e.scoreOne(input))
	}
	return items
}

func (e *Engine) scoreOne(input types.UserProfileInput) (item types.BatchScoreItem) {
	item.WalletAddress = input.WalletAddress

	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorf("Scoring failed for wallet %s: %v", input.WalletAddress, r)
			item.Result = nil
			item.Error = fmt.Sprintf("scoring failed: %v", r)
		}
	}()

	result := e.Score(input)
	item.Result = &result
	return item
}
