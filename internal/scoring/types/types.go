package types

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// UserProfileInput carries every behavioral, identity and financial signal the
// scoring engine reads. All fields are optional; missing values are zero and
// the engine never fails on them.
type UserProfileInput struct {
	WalletAddress string `json:"wallet_address"`

	// On-chain activity
	WalletAgeDays      int      `json:"wallet_age_days"`
	TxCount            int      `json:"tx_count"`
	TotalVolume        float64  `json:"total_volume"`
	NFTCount           int      `json:"nft_count"`
	TokenCount         int      `json:"token_count"`
	DefiProtocols      []string `json:"defi_protocols"`
	SmartContractCount int      `json:"smart_contract_count"`

	// Identity
	HumanVerified bool   `json:"human_verified"`
	IdentityLevel string `json:"identity_level"`

	// Verifiable credentials
	EducationVCs  []string `json:"education_vcs"`
	EmploymentVCs []string `json:"employment_vcs"`
	FinancialVCs  []string `json:"financial_vcs"`

	// Loan history
	TotalLoans            int     `json:"total_loans"`
	SuccessfulRepayments  int     `json:"successful_repayments"`
	Defaults              int     `json:"defaults"`
	AvgRepaymentDays      float64 `json:"avg_repayment_days"`
	TotalBorrowed         float64 `json:"total_borrowed"`
	TotalRepaid           float64 `json:"total_repaid"`
	OutstandingDebt       float64 `json:"outstanding_debt"`
	OnTimeRate            float64 `json:"on_time_rate"`

	// Activity regularity
	RecentActivityScore     float64 `json:"recent_activity_score"`
	ActiveDaysLast30        int     `json:"active_days_last_30"`
	AvgTxPerActiveDay       float64 `json:"avg_tx_per_active_day"`
	ActivityRegularityScore float64 `json:"activity_regularity_score"`
	NetworkScore            float64 `json:"network_score"`

	// Verified income
	MonthlyIncome   float64 `json:"monthly_income"`
	Debt            float64 `json:"debt"`
	IncomeVerified  bool    `json:"income_verified"`
	IncomeBracket   string  `json:"income_bracket"`
	IncomeDebtRatio float64 `json:"income_debt_ratio"`
}

// ScoreResult is the immutable output of one scoring call
type ScoreResult struct {
	WalletAddress   string         `json:"wallet_address"`
	Score           int            `json:"tiger_score"`
	Tier            Tier           `json:"tier"`
	RiskCategory    string         `json:"risk_category"`
	Confidence      float64        `json:"confidence_level"`
	FactorBreakdown map[string]int `json:"key_factors"`
	ComputedAt      time.Time      `json:"calculated_at"`
	ModelUsed       string         `json:"model_used"`
}

// BatchScoreItem holds either a result or the error that replaced it.
// A batch always yields one item per input.
type BatchScoreItem struct {
	WalletAddress string       `json:"wallet_address"`
	Result        *ScoreResult `json:"result,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// LoanRequest is the borrower's ask
type LoanRequest struct {
	Amount float64 `json:"loan_amount"`
	Term   string  `json:"repayment_term"`
}

// IncomeInfo is the externally verified income picture used by underwriting
type IncomeInfo struct {
	MonthlyIncome   float64 `json:"monthly_income"`
	OutstandingDebt float64 `json:"outstanding_debt"`
}

// LoanTerms is the approved side of a decision
type LoanTerms struct {
	ApprovedAmount  float64 `json:"approved_amount"`
	RequestedAmount float64 `json:"requested_amount"`
	InterestRate    float64 `json:"interest_rate"`
	RepaymentTerm   string  `json:"repayment_term"`
	RepaymentDays   int     `json:"repayment_days"`
	InterestAmount  float64 `json:"interest_amount"`
	TotalRepayment  float64 `json:"total_repayment_amount"`
	DailyPayment    float64 `json:"daily_payment"`
	DueDate         int64   `json:"repayment_due_date"`
	TierLevel       int     `json:"tier_level"`
	TierLabel       string  `json:"tier_label"`
}

// LoanDecision carries exactly one of the two shapes: an approval with terms,
// or a rejection with a reason. A rejection is a computed decision, not an error.
type LoanDecision struct {
	Approved        bool       `json:"approved"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	Score           int        `json:"tiger_score"`
	Tier            Tier       `json:"tier"`
	CurrentDTI      float64    `json:"current_dti,omitempty"`
	Terms           *LoanTerms `json:"proposed_terms,omitempty"`
}

// ChainAccountRef is the deterministic location of a wallet's profile account
type ChainAccountRef struct {
	Address solana.PublicKey `json:"address"`
	Bump    uint8            `json:"derivation_bump"`
}

// OnChainUpdateResult is the outcome of a single score-write attempt.
// The updater never retries; retry policy belongs to the orchestrator.
type OnChainUpdateResult struct {
	Success       bool      `json:"success"`
	Signature     string    `json:"signature,omitempty"`
	Error         string    `json:"error,omitempty"`
	WalletAddress string    `json:"wallet_address"`
	Score         int       `json:"score"`
	Tier          Tier      `json:"tier"`
	Timestamp     time.Time `json:"timestamp"`
}

// OnChainProfile is the decoded user-profile account. Exists reports whether
// the account was found; Decoded reports whether the bytes matched the
// expected layout (short buffers yield a zeroed, undecoded profile).
type OnChainProfile struct {
	WalletAddress       string `json:"wallet_address"`
	TigerScore          uint64 `json:"tiger_score"`
	Tier                Tier   `json:"tier"`
	DID                 string `json:"did"`
	HumanVerifiedVCHash string `json:"human_verified_vc_hash"`
	CreatedAt           uint64 `json:"created_at"`
	UpdatedAt           uint64 `json:"updated_at"`
	Exists              bool   `json:"exists"`
	Decoded             bool   `json:"decoded"`
}

// WalletUpdateOutcome is one wallet's result within an orchestrator cycle
type WalletUpdateOutcome struct {
	WalletAddress string               `json:"wallet_address"`
	Success       bool                 `json:"success"`
	Error         string               `json:"error,omitempty"`
	ScoreResult   *ScoreResult         `json:"score_result,omitempty"`
	ChainUpdate   *OnChainUpdateResult `json:"on_chain_update,omitempty"`
}
