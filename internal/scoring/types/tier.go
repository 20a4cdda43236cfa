package types

import "fmt"

// Tier is the credit tier derived from a TigerScore. It is the single
// representation used everywhere; the on-chain byte and the display label
// are views of the same value.
type Tier uint8

const (
	TierBronze Tier = iota
	TierSilver
	TierGold
	TierPlatinum
	TierDiamond
)

var tierLabels = [...]string{"Bronze", "Silver", "Gold", "Platinum", "Diamond"}

func (t Tier) String() string {
	if int(t) >= len(tierLabels) {
		return "Bronze"
	}
	return tierLabels[t]
}

// ChainValue returns the single-byte encoding written into the on-chain profile
func (t Tier) ChainValue() uint8 {
	return uint8(t)
}

// ParseTier maps a display label back to a Tier
func ParseTier(label string) (Tier, error) {
	for i, l := range tierLabels {
		if l == label {
			return Tier(i), nil
		}
	}
	return TierBronze, fmt.Errorf("invalid tier: %s", label)
}

// TierForScore maps a clamped TigerScore to its tier
func TierForScore(score int) Tier {
	switch {
	case score >= 850:
		return TierDiamond
	case score >= 700:
		return TierPlatinum
	case score >= 500:
		return TierGold
	case score >= 300:
		return TierSilver
	default:
		return TierBronze
	}
}

// RiskCategoryForScore maps a clamped TigerScore to its risk category.
// Same threshold ladder as the tiers.
func RiskCategoryForScore(score int) string {
	switch {
	case score >= 850:
		return "Very Low"
	case score >= 700:
		return "Low"
	case score >= 500:
		return "Medium"
	case score >= 300:
		return "Medium-High"
	default:
		return "High"
	}
}

func (t Tier) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Tier) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid tier: %s", string(data))
	}
	parsed, err := ParseTier(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
