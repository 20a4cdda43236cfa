package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/engine"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/metrics"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/scheduler"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/types"
	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

// ScoreHandler handles score computation and on-chain submission requests
type ScoreHandler struct {
	logger logging.Logger
	engine *engine.Engine
	chain  scheduler.ChainClient
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(logger logging.Logger, scoringEngine *engine.Engine, chain scheduler.ChainClient) *ScoreHandler {
	return &ScoreHandler{
		logger: logger,
		engine: scoringEngine,
		chain:  chain,
	}
}

// scoreResponse flattens the result under the mandatory success flag
type scoreResponse struct {
	Success bool `json:"success"`
	types.ScoreResult
}

// Calculate computes a TigerScore without touching the chain
func (h *ScoreHandler) Calculate(c *gin.Context) {
	var input types.UserProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return
	}
	if input.WalletAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "wallet_address is required"})
		return
	}

	result := h.engine.Score(input)
	metrics.TrackScoreComputed()

	c.JSON(http.StatusOK, scoreResponse{Success: true, ScoreResult: result})
}

// CalculateAndUpdate computes a TigerScore and writes it on-chain in one call.
// The response always carries both halves; a failed chain write does not
// invalidate the computed score.
func (h *ScoreHandler) CalculateAndUpdate(c *gin.Context) {
	var input types.UserProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return
	}
	if input.WalletAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "wallet_address is required"})
		return
	}

	result := h.engine.Score(input)
	metrics.TrackScoreComputed()

	var update types.OnChainUpdateResult
	if h.chain == nil {
		update = types.OnChainUpdateResult{
			WalletAddress: input.WalletAddress,
			Error:         "on-chain updates are not configured",
		}
	} else {
		update = h.chain.UpdateScore(c.Request.Context(), input.WalletAddress, result.Score, result.Tier)
		metrics.TrackChainUpdate(update.Success)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      update.Success,
		"score_result": result,
		"chain_update": update,
	})
}

type updateScoreRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
	Score         *int   `json:"score" binding:"required"`
	Tier          string `json:"tier" binding:"required"`
}

// Update writes an externally computed score on-chain
func (h *ScoreHandler) Update(c *gin.Context) {
	var req updateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return
	}
	if *req.Score < 0 || *req.Score > 1000 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "score must be between 0 and 1000"})
		return
	}
	tier, err := types.ParseTier(req.Tier)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if h.chain == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "on-chain updates are not configured"})
		return
	}

	result := h.chain.UpdateScore(c.Request.Context(), req.WalletAddress, *req.Score, tier)
	metrics.TrackChainUpdate(result.Success)

	if !result.Success {
		c.JSON(http.StatusInternalServerError, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

type batchCalculateRequest struct {
	Users []types.UserProfileInput `json:"users" binding:"required"`
}

// BatchCalculate scores a batch of profiles with per-entry fault isolation
func (h *ScoreHandler) BatchCalculate(c *gin.Context) {
	var req batchCalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return
	}
	if len(req.Users) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "users must not be empty"})
		return
	}

	items := h.engine.BatchScore(req.Users)
	for _, item := range items {
		if item.Error == "" {
			metrics.TrackScoreComputed()
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": items,
		"count":   len(items),
	})
}
