package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/aggregator"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/engine"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/registry"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/scheduler"
)

const validWallet = "So11111111111111111111111111111111111111112"

func newWalletsRouter() (*gin.Engine, registry.WalletRegistry) {
	gin.SetMode(gin.TestMode)

	logger := &MockLogger{}
	reg := registry.NewInMemoryRegistry()
	orchestrator := scheduler.NewOrchestrator(scheduler.Config{
		UpdateIntervalHours: 1,
		InterWalletDelay:    time.Millisecond,
	}, scheduler.Dependencies{
		Logger:     logger,
		Registry:   reg,
		Aggregator: aggregator.NewAggregator(nil, logger),
		Engine:     engine.NewEngine(logger),
	})

	h := NewWalletsHandler(logger, reg, orchestrator)

	r := gin.New()
	r.GET("/api/wallets", h.List)
	r.POST("/api/wallets", h.Add)
	r.DELETE("/api/wallets/:wallet", h.Remove)
	r.POST("/api/trigger/recalculate", h.TriggerRecalculation)
	return r, reg
}

func TestAddAndListWallets(t *testing.T) {
	r, _ := newWalletsRouter()

	body := `{"wallet_address": "` + validWallet + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/wallets", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/wallets", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool     `json:"success"`
		Wallets []string `json:"wallets"`
		Count   int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, 1, response.Count)
	assert.Equal(t, []string{validWallet}, response.Wallets)
}

func TestAddWalletInvalidAddress(t *testing.T) {
	r, _ := newWalletsRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/wallets", strings.NewReader(`{"wallet_address": "not-base58!"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["success"])
}

func TestRemoveWallet(t *testing.T) {
	r, reg := newWalletsRouter()
	require.NoError(t, reg.Add(context.Background(), validWallet))

	req := httptest.NewRequest(http.MethodDelete, "/api/wallets/"+validWallet, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	wallets, err := reg.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, wallets)
}

func TestTriggerRecalculationFullCycle(t *testing.T) {
	r, _ := newWalletsRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/trigger/recalculate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success   bool `json:"success"`
		Total     int  `json:"total"`
		Succeeded int  `json:"succeeded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, 0, response.Total)
}

func TestTriggerRecalculationSingleWallet(t *testing.T) {
	r, _ := newWalletsRouter()

	// No chain client is configured, so the synchronous update reports failure
	body := `{"wallet_address": "` + validWallet + `", "event_type": "loan_repaid"}`
	req := httptest.NewRequest(http.MethodPost, "/api/trigger/recalculate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var outcome struct {
		WalletAddress string `json:"wallet_address"`
		Success       bool   `json:"success"`
		Error         string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, validWallet, outcome.WalletAddress)
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "not configured")
}
