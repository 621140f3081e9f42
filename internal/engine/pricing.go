package engine

import "math"

// Extra setup cost per signal, on top of the tier's band minimum.
const (
	microPerModuleMXN  = 500
	perModuleMXN       = 1500
	perToolingScoreMXN = 2000
	perVolumeScoreMXN  = 2500
	priceFloorMXN      = 1000
	minROIMultiple     = 3
)

var toolingScores = map[string]int{
	"solo_whatsapp": 0,
	"excel":         1,
	"shopify":       2,
	"erp_complejo":  3,
}

var volumeScores = map[string]int{
	"bajo":  0,
	"medio": 1,
	"alto":  2,
}

// SuggestSetupPrice computes a setup fee inside the tier's band. MICRO scales
// only with module count and rounds to 100; other tiers add tooling and
// volume extras and round to 500.
func SuggestSetupPrice(tier TierDecision, moduleCount int, toolingLevel, transactionVolume string) int {
	if tier.Tier == TierMicro {
		price := clampInt(tier.MinPriceMXN+moduleCount*microPerModuleMXN, tier.MinPriceMXN, tier.MaxPriceMXN)
		return roundToNearest(price, 100)
	}

	toolingScore, ok := toolingScores[toolingLevel]
	if !ok {
		toolingScore = 1
	}
	volumeScore, ok := volumeScores[transactionVolume]
	if !ok {
		volumeScore = 1
	}
	extra := moduleCount*perModuleMXN + toolingScore*perToolingScoreMXN + volumeScore*perVolumeScoreMXN
	price := clampInt(tier.MinPriceMXN+extra, tier.MinPriceMXN, tier.MaxPriceMXN)
	return roundToNearest(price, 500)
}

// EnforceROIGuard caps the price so the projected annual savings stay at
// least 3x above it. When the cap fires the price is rounded down to a 500
// multiple (never above the ceiling) and floored at 1000. Returns the final
// price, whether it was adjusted, and the raw ceiling.
func EnforceROIGuard(price int, annualSavingsMXN float64) (int, bool, float64) {
	ceiling := annualSavingsMXN / minROIMultiple
	if float64(price) <= ceiling {
		return price, false, ceiling
	}
	adjusted := int(ceiling)
	adjusted -= adjusted % 500
	if adjusted < priceFloorMXN {
		adjusted = priceFloorMXN
	}
	return adjusted, true, ceiling
}

// PricingAssumptions returns the disclaimers attached to every quote.
func PricingAssumptions() []string {
	return []string{
		"Incluye diseno, implementacion y monitoreo inicial.",
		"No incluye costos de infraestructura de terceros.",
		"El alcance final puede ajustarse despues del diagnostico.",
		"La automatizacion aplica solo a procesos administrativos o repetitivos.",
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundToNearest(v, step int) int {
	return int(math.Round(float64(v)/float64(step))) * step
}
