package underwriting

import (
	"fmt"
	"math"
	"time"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/types"
	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

const (
	// Minimum verified monthly income to qualify for any loan
	minRequiredIncome = 100.0
	// Minimum approvable amount; below this the applicant is told to build score
	minApprovableAmount = 10.0

	scoreLimitFactor  = 0.8
	incomeLimitFactor = 0.3
)

// LoanTier is one row of the static underwriting table
type LoanTier struct {
	Level            int
	MinTigerScore    int
	MaxLoanLimit     float64
	BaseInterestRate float64
	MaxDTIRatio      float64
	Description      string
}

// loanTiers is ordered by ascending MinTigerScore; selection walks it from
// the top down and picks the first tier the score qualifies for.
var loanTiers = []LoanTier{
	{Level: 0, MinTigerScore: 0, MaxLoanLimit: 50, BaseInterestRate: 15, MaxDTIRatio: 0.2, Description: "Entry-level micro-loan"},
	{Level: 1, MinTigerScore: 200, MaxLoanLimit: 150, BaseInterestRate: 10, MaxDTIRatio: 0.3, Description: "Intermediate borrower"},
	{Level: 2, MinTigerScore: 400, MaxLoanLimit: 500, BaseInterestRate: 7, MaxDTIRatio: 0.4, Description: "Trusted borrower"},
	{Level: 3, MinTigerScore: 600, MaxLoanLimit: 1000, BaseInterestRate: 5, MaxDTIRatio: 0.5, Description: "Elite borrower"},
}

// repaymentTerms enumerates the supported terms in days
var repaymentTerms = map[string]int{
	"7_days":  7,
	"15_days": 15,
	"30_days": 30,
	"60_days": 60,
	"90_days": 90,
}

// Tiers returns a copy of the underwriting table
func Tiers() []LoanTier {
	out := make([]LoanTier, len(loanTiers))
	copy(out, loanTiers)
	return out
}

// ValidateRequest checks the request shape. An invalid amount or an
// unrecognized term is a validation error, not an underwriting decision.
func ValidateRequest(req types.LoanRequest) error {
	if req.Amount <= 0 {
		return fmt.Errorf("invalid loan amount: must be a positive number")
	}
	if _, ok := repaymentTerms[req.Term]; !ok {
		return fmt.Errorf("invalid repayment term %q: supported terms are 7_days, 15_days, 30_days, 60_days, 90_days", req.Term)
	}
	return nil
}

// Engine turns a score and a loan request into an approve/reject decision
type Engine struct {
	logger logging.Logger
	now    func() time.Time
}

func NewEngine(logger logging.Logger) *Engine {
	return &Engine{logger: logger, now: time.Now}
}

// Evaluate runs the underwriting gates in order; the first failing gate
// determines the rejection reason. Rejections are normal decisions.
// The request must already have passed ValidateRequest.
func (e *Engine) Evaluate(scoreResult types.ScoreResult, req types.LoanRequest, income types.IncomeInfo) types.LoanDecision {
	score := scoreResult.Score

	decision := types.LoanDecision{
		Score: score,
		Tier:  scoreResult.Tier,
	}

	// Gate 1: tier selection
	tier, ok := selectTier(score)
	if !ok {
		decision.RejectionReason = fmt.Sprintf("Insufficient TigerScore (%d). Minimum required: %d", score, loanTiers[0].MinTigerScore)
		return decision
	}

	// Gate 2: minimum verified income
	if income.MonthlyIncome < minRequiredIncome {
		decision.RejectionReason = fmt.Sprintf("Insufficient verified income ($%.0f). Minimum required: $%.0f/month", income.MonthlyIncome, minRequiredIncome)
		return decision
	}

	// Gate 3: debt-to-income against the tier cap
	currentDTI := 0.0
	if income.MonthlyIncome > 0 {
		currentDTI = income.OutstandingDebt / income.MonthlyIncome
	}
	decision.CurrentDTI = math.Round(currentDTI*1000) / 10

	if currentDTI > tier.MaxDTIRatio {
		decision.RejectionReason = fmt.Sprintf("High Debt-to-Income Ratio (%.1f%%). Maximum allowed: %.1f%%", currentDTI*100, tier.MaxDTIRatio*100)
		return decision
	}

	// Gate 4: maximum approvable amount
	scoreBasedLimit := float64(int(float64(score) * scoreLimitFactor))
	incomeBasedLimit := float64(int(income.MonthlyIncome * incomeLimitFactor))
	maxApproved := math.Min(tier.MaxLoanLimit, math.Min(scoreBasedLimit, incomeBasedLimit))

	if maxApproved < minApprovableAmount {
		decision.RejectionReason = fmt.Sprintf("Maximum approved amount ($%.0f) is too low. Please build your TigerScore first.", maxApproved)
		return decision
	}

	// Terms: simple, non-compounding interest
	approvedAmount := math.Min(req.Amount, maxApproved)
	repaymentDays := repaymentTerms[req.Term]
	interestAmount := (approvedAmount * tier.BaseInterestRate * float64(repaymentDays)) / (100 * 365)
	totalRepayment := approvedAmount + interestAmount
	dailyPayment := totalRepayment / float64(repaymentDays)
	dueDate := e.now().Unix() + int64(repaymentDays)*24*60*60

	decision.Approved = true
	decision.Terms = &types.LoanTerms{
		ApprovedAmount:  round2(approvedAmount),
		RequestedAmount: req.Amount,
		InterestRate:    tier.BaseInterestRate,
		RepaymentTerm:   req.Term,
		RepaymentDays:   repaymentDays,
		InterestAmount:  round2(interestAmount),
		TotalRepayment:  round2(totalRepayment),
		DailyPayment:    round2(dailyPayment),
		DueDate:         dueDate,
		TierLevel:       tier.Level,
		TierLabel:       tier.Description,
	}

	e.logger.Info("Loan approved",
		"wallet", scoreResult.WalletAddress,
		"approved_amount", decision.Terms.ApprovedAmount,
		"interest_rate", tier.BaseInterestRate,
		"term_days", repaymentDays,
	)

	return decision
}

// selectTier picks the highest tier whose threshold the score meets
func selectTier(score int) (LoanTier, bool) {
	for i := len(loanTiers) - 1; i >= 0; i-- {
		if score >= loanTiers[i].MinTigerScore {
			return loanTiers[i], true
		}
	}
	return LoanTier{}, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
