package engine

// Constants are the labor-cost assumptions behind every ROI figure. They are
// read once at config load and passed by value; the engine never consults the
// environment itself.
type Constants struct {
	NetMonthlySalaryMXN float64
	BenefitsRate        float64
	WorkdaysPerMonth    float64
	HoursPerDay         float64
	WeeksPerMonth       float64
}

// DefaultConstants returns the reference assumptions for the Mexican market.
func DefaultConstants() Constants {
	return Constants{
		NetMonthlySalaryMXN: 10000,
		BenefitsRate:        0.30,
		WorkdaysPerMonth:    22,
		HoursPerDay:         8,
		WeeksPerMonth:       4.33,
	}
}

// Error-risk factors by pain profile, recoverable fraction, opportunity
// factors and rotation training days. See EstimateROI.
const (
	errorFactorAdmin     = 0.35
	errorFactorFinance   = 0.25
	errorFactorDefault   = 0.15
	errorRecoveryRate    = 0.6
	opportunityHigh      = 0.8
	opportunityMedium    = 0.6
	opportunityLow       = 0.3
	trainingDaysAdmin    = 10
	trainingDaysDefault  = 7
	scopeFactorFloor     = 0.4
	scopeFactorPerModule = 0.1
	scopeFactorBase      = 0.15
	scopeRatioCap        = 0.6
)

var financePainKeywords = []string{
	"banco", "conciliacion", "tesoreria", "contabilidad", "finanzas",
	"inventario", "stock", "factura", "facturacion",
}

var salesPainKeywords = []string{
	"ventas", "venta", "leads", "respuesta", "soporte", "whatsapp", "clientes",
}

// EstimateROI converts reported weekly manual hours into fully-loaded labor
// cost figures. painText must be normalized; selected holds the intake's
// priority keys. All values stay unrounded; callers round at the boundary.
func EstimateROI(c Constants, hoursPerWeek float64, painText string, selected []string) ROIBreakdown {
	if hoursPerWeek < 0 {
		hoursPerWeek = 0
	}
	loadedMonthly := c.NetMonthlySalaryMXN * (1 + c.BenefitsRate)
	loadedDaily := loadedMonthly / c.WorkdaysPerMonth
	loadedHourly := loadedDaily / c.HoursPerDay

	manualHoursMonth := hoursPerWeek * c.WeeksPerMonth
	manualJornadasMonth := manualHoursMonth / c.HoursPerDay
	timeValueMonth := manualHoursMonth * loadedHourly

	selectedSet := make(map[string]bool, len(selected))
	for _, key := range selected {
		selectedSet[key] = true
	}
	adminSignal := selectedSet[PriorityAdminWork] || selectedSet[PrioritySmartDocuments] ||
		containsAny(painText, adminPainKeywords)
	financeSignal := selectedSet[PriorityReconciliation] || selectedSet[PriorityInventoryData] ||
		containsAny(painText, financePainKeywords)

	errorFactor := errorFactorDefault
	switch {
	case adminSignal:
		errorFactor = errorFactorAdmin
	case financeSignal:
		errorFactor = errorFactorFinance
	}
	errorCostMonth := timeValueMonth * errorFactor
	errorSavingsMonth := errorCostMonth * errorRecoveryRate

	opportunityFactor := opportunityLow
	switch {
	case selectedSet[PriorityWhatsAppSales]:
		opportunityFactor = opportunityHigh
	case containsAny(painText, salesPainKeywords):
		opportunityFactor = opportunityMedium
	}
	opportunityMonth := timeValueMonth * opportunityFactor

	totalMonth := timeValueMonth + errorSavingsMonth
	totalWithOppMonth := totalMonth + opportunityMonth

	trainingDays := float64(trainingDaysDefault)
	if adminSignal {
		trainingDays = trainingDaysAdmin
	}

	return ROIBreakdown{
		ManualHoursPerMonth:             manualHoursMonth,
		ManualJornadasPerMonth:          manualJornadasMonth,
		LoadedDailyCostMXN:              loadedDaily,
		LoadedMonthlyCostMXN:            loadedMonthly,
		TimeValueMXNPerMonth:            timeValueMonth,
		ErrorCostMXNPerMonth:            errorCostMonth,
		ErrorSavingsMXNPerMonth:         errorSavingsMonth,
		OpportunityCostMXNPerMonth:      opportunityMonth,
		TotalMXNPerMonth:                totalMonth,
		TotalMXNPerYear:                 totalMonth * 12,
		TotalWithOpportunityMXNPerMonth: totalWithOppMonth,
		TotalWithOpportunityMXNPerYear:  totalWithOppMonth * 12,
		RotationCostMXNPerHire:          loadedDaily * trainingDays,
		FTEEquivalent:                   manualJornadasMonth / c.WorkdaysPerMonth,
	}
}

var restrictedIndustryKeywords = []string{
	"consultorio", "clinica", "dentista", "medico", "salud",
	"restaurante", "cocina", "chef", "barberia", "estetica",
}

// automationScopeFactor discounts projected savings for businesses where the
// core service cannot be automated (hands-on trades, regulated care) or where
// the team splits across unrelated functions.
func automationScopeFactor(in BusinessIntake) float64 {
	text := Normalize(in.BusinessFocus + " " + in.Processes + " " + in.TeamRoles)
	factor := 1.0
	if containsAny(text, restrictedIndustryKeywords) {
		factor *= 0.65
	}
	if in.TeamFocusSame != nil && !*in.TeamFocusSame {
		factor *= 0.85
	}
	if factor < scopeFactorFloor {
		factor = scopeFactorFloor
	}
	return factor
}

// estimateHoursSavedPerMonth projects the monthly hours the recommended
// modules can realistically absorb. The ratio grows with module count and is
// capped, then discounted by the scope factor.
func estimateHoursSavedPerMonth(c Constants, in BusinessIntake, moduleCount int) float64 {
	ratio := scopeFactorBase + float64(moduleCount)*scopeFactorPerModule
	if ratio > scopeRatioCap {
		ratio = scopeRatioCap
	}
	ratio *= automationScopeFactor(in)
	weeklySaved := in.ManualHoursPerWeek * ratio
	return weeklySaved * c.WeeksPerMonth
}
