package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/engine"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/metrics"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/types"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/underwriting"
	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

// LoanHandler handles loan underwriting requests
type LoanHandler struct {
	logger      logging.Logger
	engine      *engine.Engine
	underwriter *underwriting.Engine
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(logger logging.Logger, scoringEngine *engine.Engine, underwriter *underwriting.Engine) *LoanHandler {
	return &LoanHandler{
		logger:      logger,
		engine:      scoringEngine,
		underwriter: underwriter,
	}
}

// loanEvaluateRequest is the flat payload: the borrower's profile plus the ask
type loanEvaluateRequest struct {
	types.UserProfileInput
	types.LoanRequest
}

// loanResponse flattens the decision under the success flag; the flag mirrors
// the approval, so a rejection pairs success=false with the rejection reason
type loanResponse struct {
	Success bool `json:"success"`
	types.LoanDecision
}

// Evaluate scores the applicant and runs the underwriting gates. A rejection
// is a 200 with the reason; only malformed requests are 400s.
func (h *LoanHandler) Evaluate(c *gin.Context) {
	var req loanEvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return
	}
	if req.WalletAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "wallet_address is required"})
		return
	}
	if err := underwriting.ValidateRequest(req.LoanRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	scoreResult := h.engine.Score(req.UserProfileInput)
	metrics.TrackScoreComputed()

	income := types.IncomeInfo{
		MonthlyIncome:   req.MonthlyIncome,
		OutstandingDebt: req.OutstandingDebt,
	}
	decision := h.underwriter.Evaluate(scoreResult, req.LoanRequest, income)
	metrics.TrackLoanDecision(decision.Approved)

	c.JSON(http.StatusOK, loanResponse{Success: decision.Approved, LoanDecision: decision})
}
