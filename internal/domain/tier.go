package domain

// RiskTier is the categorical fire-risk level used to colour diagram points.
type RiskTier string

const (
	TierLow      RiskTier = "Baixo"
	TierModerate RiskTier = "Moderado"
	TierHigh     RiskTier = "Alto"
	TierCritical RiskTier = "Crítico"
)

// Tiers lists the tiers in ascending order.
var Tiers = []RiskTier{TierLow, TierModerate, TierHigh, TierCritical}

// tierBounds are the right-open cut points: Tiers[i] covers
// [tierBounds[i], tierBounds[i+1]).
var tierBounds = []float64{0, 0.25, 0.50, 0.75, 1.20}

// TierOf buckets a risk value. A value equal to a cut point belongs to the
// tier that starts there. Values outside [0, 1.20) have no tier.
func TierOf(risk float64) (RiskTier, bool) {
	for i, tier := range Tiers {
		if risk >= tierBounds[i] && risk < tierBounds[i+1] {
			return tier, true
		}
	}
	return "", false
}

// Color returns the hex colour used for the tier in diagrams.
func (t RiskTier) Color() string {
	switch t {
	case TierLow:
		return "#4CAF50"
	case TierModerate:
		return "#FFC107"
	case TierHigh:
		return "#FFA500"
	case TierCritical:
		return "#D32F2F"
	default:
		return "#9E9E9E"
	}
}
