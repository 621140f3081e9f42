package engine

// Price bands in MXN per tier.
var tierBands = map[string][2]int{
	TierMicro:  {2000, 3000},
	TierLite:   {8000, 12000},
	TierGrowth: {25000, 45000},
	TierElite:  {60000, 120000},
}

var eliteScaleKeywords = []string{
	"memoria", "scraping", "masivo", "trading", "erp", "multi-sucursal", "multisucursal", "sucursales",
}

var growthCommercialKeywords = []string{
	"ventas", "crm", "pipeline", "leads", "inventario", "soporte",
}

var microSoloKeywords = []string{
	"agenda personal", "asistente personal", "solo yo", "trabajo solo", "agendar citas",
}

// EstimateComplexity derives the heuristic complexity seed from team size.
// The diagnosis may later replace it with the model's assessment.
func EstimateComplexity(teamSize int) ComplexityLevel {
	switch {
	case teamSize <= 5:
		return ComplexityLow
	case teamSize <= 25:
		return ComplexityMedium
	default:
		return ComplexityHigh
	}
}

// employeeBand returns the explicit band label, deriving one from team size
// when the prospect left it blank.
func employeeBand(in BusinessIntake) string {
	if in.EmployeeBand != "" {
		return in.EmployeeBand
	}
	switch {
	case in.TeamSize <= 5:
		return "1-5"
	case in.TeamSize <= 20:
		return "6-20"
	default:
		return "21-100+"
	}
}

// DecideServiceTier classifies the prospect into one of the four pricing
// bands. Rules are evaluated in order and the first match wins; the reason
// string names the triggering rule.
func DecideServiceTier(in BusinessIntake, selectedCount int, complexity ComplexityLevel) TierDecision {
	text := combinedTierText(in)
	band := employeeBand(in)
	volume := in.TransactionVolume
	tooling := in.ToolingLevel

	lowVolume := volume == "" || volume == "bajo"
	simpleTooling := tooling == "" || tooling == "solo_whatsapp" || tooling == "excel"
	smallBand := band == "1-5"

	eliteEligible := containsAny(text, eliteScaleKeywords) ||
		tooling == "erp_complejo" ||
		band == "21-100+" ||
		volume == "alto" ||
		complexity == ComplexityHigh
	if eliteEligible {
		return decision(TierElite, "Escala avanzada: integraciones complejas, volumen alto o IA con memoria.")
	}

	if smallBand && lowVolume && simpleTooling &&
		(selectedCount <= 1 || containsAny(text, microSoloKeywords) || in.TeamSize <= 2) {
		return decision(TierMicro, "Uso personal o micro-negocio con una sola necesidad puntual.")
	}

	if (smallBand && lowVolume && simpleTooling) || complexity == ComplexityLow {
		return decision(TierLite, "Micro-negocio con operacion simple y herramientas basicas.")
	}

	// Guard rail: small low-volume teams stay in LITE even when commercial
	// keywords or selections would otherwise push them to GROWTH.
	if in.TeamSize <= 10 && lowVolume && simpleTooling && complexity != ComplexityHigh {
		return decision(TierLite, "Equipo chico con volumen bajo: alcance LITE protegido.")
	}

	if containsAny(text, growthCommercialKeywords) || selectedCount > 0 ||
		band == "6-20" || volume == "medio" || complexity == ComplexityMedium {
		return decision(TierGrowth, "PyME con procesos comerciales u operativos por integrar.")
	}

	return decision(TierGrowth, "Perfil intermedio: alcance GROWTH por defecto.")
}

func decision(tier, reason string) TierDecision {
	band := tierBands[tier]
	return TierDecision{
		Tier:        tier,
		MinPriceMXN: band[0],
		MaxPriceMXN: band[1],
		Reason:      reason,
	}
}
