package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/registry"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/scheduler"
	"github.com/tigertrust/tigerscore-backend/pkg/env"
	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

// WalletsHandler manages the monitored-wallet registry and manual
// recalculation triggers
type WalletsHandler struct {
	logger       logging.Logger
	registry     registry.WalletRegistry
	orchestrator *scheduler.Orchestrator
}

// NewWalletsHandler creates a new wallets handler
func NewWalletsHandler(logger logging.Logger, reg registry.WalletRegistry, orchestrator *scheduler.Orchestrator) *WalletsHandler {
	return &WalletsHandler{
		logger:       logger,
		registry:     reg,
		orchestrator: orchestrator,
	}
}

// List returns every monitored wallet
func (h *WalletsHandler) List(c *gin.Context) {
	wallets, err := h.registry.List(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to list monitored wallets: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list monitored wallets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"wallets": wallets,
		"count":   len(wallets),
	})
}

type addWalletRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
}

// Add registers a wallet for periodic score updates
func (h *WalletsHandler) Add(c *gin.Context) {
	var req addWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
		return
	}
	if !env.IsValidSolanaAddress(req.WalletAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid Solana wallet address"})
		return
	}

	if err := h.registry.Add(c.Request.Context(), req.WalletAddress); err != nil {
		h.logger.Errorf("Failed to register wallet %s: %v", req.WalletAddress, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to register wallet"})
		return
	}

	h.logger.Info("Wallet registered for monitoring", "wallet", req.WalletAddress)
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"wallet_address": req.WalletAddress,
		"monitored":      true,
	})
}

// Remove deregisters a wallet from periodic score updates
func (h *WalletsHandler) Remove(c *gin.Context) {
	wallet := c.Param("wallet")

	if err := h.registry.Remove(c.Request.Context(), wallet); err != nil {
		h.logger.Errorf("Failed to deregister wallet %s: %v", wallet, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to deregister wallet"})
		return
	}

	h.logger.Info("Wallet removed from monitoring", "wallet", wallet)
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"wallet_address": wallet,
		"monitored":      false,
	})
}

type triggerRequest struct {
	WalletAddress string `json:"wallet_address"`
	EventType     string `json:"event_type"`
}

// TriggerRecalculation runs a recalculation synchronously: one wallet when the
// body names it, otherwise a full cycle over the monitored set. The response
// carries the completed outcomes.
func (h *WalletsHandler) TriggerRecalculation(c *gin.Context) {
	var req triggerRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body: " + err.Error()})
			return
		}
	}

	if req.WalletAddress != "" {
		eventType := req.EventType
		if eventType == "" {
			eventType = "manual_trigger"
		}
		outcome := h.orchestrator.HandleEvent(c.Request.Context(), req.WalletAddress, eventType)
		c.JSON(http.StatusOK, outcome)
		return
	}

	outcomes := h.orchestrator.RunCycle(c.Request.Context())
	succeeded := 0
	for _, outcome := range outcomes {
		if outcome.Success {
			succeeded++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"outcomes":  outcomes,
		"total":     len(outcomes),
		"succeeded": succeeded,
		"failed":    len(outcomes) - succeeded,
	})
}
