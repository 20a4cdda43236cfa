package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/history"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/scheduler"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/types"
	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

// ProfileHandler serves on-chain profile reads and score history
type ProfileHandler struct {
	logger  logging.Logger
	chain   scheduler.ChainClient
	history *history.Store
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(logger logging.Logger, chain scheduler.ChainClient, store *history.Store) *ProfileHandler {
	return &ProfileHandler{
		logger:  logger,
		chain:   chain,
		history: store,
	}
}

// GetProfile reads and decodes a wallet's on-chain profile account
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	wallet := c.Param("wallet")

	if h.chain == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "on-chain reads are not configured"})
		return
	}

	profile, err := h.chain.FetchProfile(c.Request.Context(), wallet)
	if err != nil {
		h.logger.Errorf("Failed to fetch profile for %s: %v", wallet, err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "failed to fetch profile: " + err.Error()})
		return
	}
	if !profile.Exists {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user profile not found"})
		return
	}

	c.JSON(http.StatusOK, profileResponse{Success: true, OnChainProfile: profile})
}

// profileResponse flattens the decoded account under the success flag
type profileResponse struct {
	Success bool `json:"success"`
	types.OnChainProfile
}

// GetHistory returns the most recent score snapshots for a wallet
func (h *ProfileHandler) GetHistory(c *gin.Context) {
	wallet := c.Param("wallet")

	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "score history is not configured"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "limit must be a positive integer"})
		return
	}

	snapshots, err := h.history.Recent(c.Request.Context(), wallet, limit)
	if err != nil {
		h.logger.Errorf("Failed to read score history for %s: %v", wallet, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to read score history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"wallet_address": wallet,
		"history":        snapshots,
		"count":          len(snapshots),
	})
}
