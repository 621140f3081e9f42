package engine

import (
	"context"
	"math"

	"kan-backend/internal/llm"
)

// Analyzer wires the full diagnosis flow: friction detection, module scoring,
// ROI estimation, two-pass tier decision, pricing with the ROI guard, the
// narrative diagnosis, and the roadmap. It is stateless and safe for
// concurrent use.
type Analyzer struct {
	Constants Constants
	Client    llm.Client
}

// NewAnalyzer builds an analyzer. client may be nil to disable the model
// path.
func NewAnalyzer(c Constants, client llm.Client) Analyzer {
	return Analyzer{Constants: c, Client: client}
}

// Run produces a complete AnalysisOutput for a validated intake. It never
// returns an error: external-model failures degrade to local heuristics.
func (a Analyzer) Run(ctx context.Context, in BusinessIntake) AnalysisOutput {
	frictionGuess := DetectFriction(in)
	selection := ScoreModules(in)

	painText := combinedPainText(in)
	roi := EstimateROI(a.Constants, in.ManualHoursPerWeek, painText, in.SelectedModules)

	// First pass: heuristic complexity seeds the tier so the model sees a
	// realistic setup fee in its money framing.
	heuristicLevel := EstimateComplexity(in.TeamSize)
	pricingCount := len(in.SelectedModules)
	if pricingCount == 0 {
		pricingCount = len(selection.Recommended)
	}
	seedTier := DecideServiceTier(in, pricingCount, heuristicLevel)
	seedSetup := SuggestSetupPrice(seedTier, pricingCount, in.ToolingLevel, in.TransactionVolume)
	seedPayback := float64(seedSetup) / math.Max(roi.TotalMXNPerMonth, 1)

	diagnoser := Diagnoser{Client: a.Client, Constants: a.Constants}
	diagnosis := diagnoser.Diagnose(ctx, in, frictionGuess, selection, ROIContext{
		ManualJornadasPerMonth:         roi.ManualJornadasPerMonth,
		TimeValueMXNPerMonth:           roi.TimeValueMXNPerMonth,
		ErrorCostMXNPerMonth:           roi.ErrorCostMXNPerMonth,
		ErrorSavingsMXNPerMonth:        roi.ErrorSavingsMXNPerMonth,
		OpportunityCostMXNPerMonth:     roi.OpportunityCostMXNPerMonth,
		TotalWithOpportunityMXNPerYear: roi.TotalWithOpportunityMXNPerYear,
		RotationCostMXNPerHire:         roi.RotationCostMXNPerHire,
		FTEEquivalent:                  roi.FTEEquivalent,
		PaybackMonths:                  seedPayback,
		SetupFeeMXN:                    seedSetup,
	})

	// Second pass: the model's complexity assessment (when valid) refines the
	// tier before pricing is finalized.
	finalLevel := heuristicLevel
	if diagnosis.ComplexityLevel != "" {
		finalLevel = diagnosis.ComplexityLevel
	}
	tier := DecideServiceTier(in, pricingCount, finalLevel)
	baseSetup := SuggestSetupPrice(tier, pricingCount, in.ToolingLevel, in.TransactionVolume)

	loadedHourly := roi.LoadedDailyCostMXN / a.Constants.HoursPerDay
	hoursSavedMonth := estimateHoursSavedPerMonth(a.Constants, in, len(selection.Recommended))
	roiAnnualFormula := hoursSavedMonth * 12 * loadedHourly
	setup, adjusted, _ := EnforceROIGuard(baseSetup, roiAnnualFormula)
	payback := float64(setup) / math.Max(roi.TotalMXNPerMonth, 1)
	roiMultiple := roiAnnualFormula / math.Max(float64(setup), 1)

	pricing := PricingQuote{
		SetupFeeMXN:          setup,
		MonthlyRetainerMXN:   0,
		Assumptions:          PricingAssumptions(),
		ImplementationTier:   titleLevel(finalLevel),
		ServiceTier:          tier.Tier,
		ServiceTierReason:    tier.Reason,
		SuggestedRangeMinMXN: tier.MinPriceMXN,
		SuggestedRangeMaxMXN: tier.MaxPriceMXN,
		ROIAnnualFormulaMXN:  round2(roiAnnualFormula),
		ROIAnnualNetMXN:      round2(roiAnnualFormula - float64(setup)),
		ROIMultiple:          round2(roiMultiple),
		ROIAdjustedTo3x:      adjusted,
	}

	recommended := resolveModules(diagnosis.RecommendedModules)
	if len(recommended) == 0 {
		recommended = selection.Recommended
	}
	if len(recommended) == 0 {
		recommended = modules[:3]
	}
	optional := resolveModulesExcluding(diagnosis.OptionalModules, recommended)

	return AnalysisOutput{
		FrictionPoints:     diagnosis.PainPoints,
		RecommendedModules: recommended,
		OptionalModules:    optional,
		Opportunities:      diagnosis.Opportunities,
		Limitations:        diagnosis.Limitations,
		DataNeeded:         diagnosis.DataNeeded,
		PrimaryBottleneck:  diagnosis.PrimaryBottleneck,

		ROIHoursSavedPerMonth:              round1(roi.ManualHoursPerMonth),
		ROITimeValueMXNPerMonth:            round2(roi.TimeValueMXNPerMonth),
		ROIErrorCostMXNPerMonth:            round2(roi.ErrorCostMXNPerMonth),
		ROIErrorSavingsMXNPerMonth:         round2(roi.ErrorSavingsMXNPerMonth),
		ROIOpportunityMXNPerMonth:          round2(roi.OpportunityCostMXNPerMonth),
		ROITotalWithOpportunityMXNPerMonth: round2(roi.TotalWithOpportunityMXNPerMonth),
		ROITotalWithOpportunityMXNPerYear:  round2(roi.TotalWithOpportunityMXNPerYear),
		ROILoadedDailyCostMXN:              round2(roi.LoadedDailyCostMXN),
		ROILoadedMonthlyCostMXN:            round2(roi.LoadedMonthlyCostMXN),
		ROIRotationCostMXNPerHire:          round2(roi.RotationCostMXNPerHire),
		ROIFTEEquivalent:                   round2(roi.FTEEquivalent),
		ROIMXNSavedPerMonth:                round2(roi.TotalMXNPerMonth),
		PaybackMonths:                      round2(payback),

		Roadmap: BuildRoadmap(recommended, ""),
		Pricing: pricing,
		Notes:   diagnosis.Summary,
	}
}

func resolveModules(names []string) []AutomationModule {
	var out []AutomationModule
	for _, name := range names {
		if m, ok := ModuleByName(name); ok {
			out = append(out, m)
		}
	}
	return out
}

func resolveModulesExcluding(names []string, exclude []AutomationModule) []AutomationModule {
	excluded := make(map[ModuleID]bool, len(exclude))
	for _, m := range exclude {
		excluded[m.ID] = true
	}
	var out []AutomationModule
	for _, name := range names {
		if m, ok := ModuleByName(name); ok && !excluded[m.ID] {
			out = append(out, m)
			excluded[m.ID] = true
		}
	}
	return out
}

func titleLevel(level ComplexityLevel) string {
	s := string(level)
	if s == "" {
		return ""
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
