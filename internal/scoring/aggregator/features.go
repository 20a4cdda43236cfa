package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tigertrust/tigerscore-backend/pkg/logging"
	"github.com/tigertrust/tigerscore-backend/pkg/retry"
)

// WalletFeatures is the feature-server view of a wallet's behavioral signals
type WalletFeatures struct {
	TxCount                 int     `json:"txCount"`
	WalletAgeDays           int     `json:"walletAgeDays"`
	NFTCount                int     `json:"nftCount"`
	TokenCount              int     `json:"tokenCount"`
	SuccessfulRepayments    int     `json:"successfulRepayments"`
	Defaults                int     `json:"defaults"`
	HumanVerified           bool    `json:"humanVerified"`
	HasVC                   bool    `json:"hasVC"`
	ActiveDaysLast30        int     `json:"activeDaysLast30"`
	AvgTxPerActiveDay       float64 `json:"avgTxPerActiveDay"`
	ActivityRegularityScore float64 `json:"activityRegularityScore"`
	MonthlyIncome           float64 `json:"monthlyIncome"`
	Debt                    float64 `json:"debt"`
	IncomeVerified          bool    `json:"incomeVerified"`
	IncomeBracket           string  `json:"incomeBracket"`
	IncomeDebtRatio         float64 `json:"incomeDebtRatio"`
}

type featureResponse struct {
	Wallet       string         `json:"wallet"`
	FeaturesUsed WalletFeatures `json:"features_used"`
}

// FeatureClient fetches wallet features from the risk/feature server
type FeatureClient struct {
	baseURL    string
	httpClient *retry.HTTPClient
	logger     logging.Logger
}

func NewFeatureClient(baseURL string, logger logging.Logger) (*FeatureClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("feature server URL is required")
	}

	httpClient, err := retry.NewHTTPClient(retry.DefaultHTTPRetryConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &FeatureClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// FetchFeatures asks the feature server to recompute a wallet's signals
func (c *FeatureClient) FetchFeatures(ctx context.Context, wallet string) (*WalletFeatures, error) {
	url := fmt.Sprintf("%s/api/risk/recalculate", c.baseURL)

	payload, err := json.Marshal(map[string]string{"wallet": wallet})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feature request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create feature request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.DoWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch features for %s: %w", wallet, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feature server returned status %d for %s", resp.StatusCode, wallet)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature response: %w", err)
	}

	var parsed featureResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feature response: %w", err)
	}

	c.logger.Debugf("Fetched features for %s: tx_count=%d, wallet_age=%d", wallet, parsed.FeaturesUsed.TxCount, parsed.FeaturesUsed.WalletAgeDays)
	return &parsed.FeaturesUsed, nil
}

func (c *FeatureClient) Close() {
	c.httpClient.Close()
}
