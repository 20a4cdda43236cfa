package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierForScore(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  Tier
	}{
		{"zero score", 0, TierBronze},
		{"just below silver", 299, TierBronze},
		{"silver threshold", 300, TierSilver},
		{"just below gold", 499, TierSilver},
		{"gold threshold", 500, TierGold},
		{"just below platinum", 699, TierGold},
		{"platinum threshold", 700, TierPlatinum},
		{"just below diamond", 849, TierPlatinum},
		{"diamond threshold", 850, TierDiamond},
		{"max score", 1000, TierDiamond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TierForScore(tt.score))
		})
	}
}

func TestRiskCategoryForScore(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{900, "Very Low"},
		{750, "Low"},
		{600, "Medium"},
		{350, "Medium-High"},
		{100, "High"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskCategoryForScore(tt.score))
	}
}

func TestParseTier(t *testing.T) {
	for _, label := range []string{"Bronze", "Silver", "Gold", "Platinum", "Diamond"} {
		tier, err := ParseTier(label)
		require.NoError(t, err)
		assert.Equal(t, label, tier.String())
	}

	_, err := ParseTier("Copper")
	assert.Error(t, err)
}

func TestTierChainValue(t *testing.T) {
	assert.Equal(t, uint8(0), TierBronze.ChainValue())
	assert.Equal(t, uint8(4), TierDiamond.ChainValue())
}

func TestTierJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(TierGold)
	require.NoError(t, err)
	assert.Equal(t, `"Gold"`, string(data))

	var tier Tier
	require.NoError(t, json.Unmarshal([]byte(`"Platinum"`), &tier))
	assert.Equal(t, TierPlatinum, tier)

	assert.Error(t, json.Unmarshal([]byte(`42`), &tier))
}
