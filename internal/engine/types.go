package engine

// BusinessIntake is the validated questionnaire a prospect submits.
// Validation (required fields, non-negative numerics, enumerated labels)
// happens at the HTTP boundary; the engine assumes clean input.
type BusinessIntake struct {
	CompanyName        string   `json:"company_name"`
	Industry           string   `json:"industry"`
	BusinessFocus      string   `json:"business_focus"`
	Region             string   `json:"region"`
	TeamSize           int      `json:"team_size"`
	TeamSizeTarget     int      `json:"team_size_target,omitempty"`
	TeamFocusSame      *bool    `json:"team_focus_same,omitempty"`
	TeamRoles          string   `json:"team_roles,omitempty"`
	EmployeeBand       string   `json:"employee_band,omitempty"`
	TransactionVolume  string   `json:"transaction_volume,omitempty"`
	ToolingLevel       string   `json:"tooling_level,omitempty"`
	ManualHoursPerWeek float64  `json:"manual_hours_per_week"`
	SelectedModules    []string `json:"selected_modules,omitempty"`
	Processes          string   `json:"processes"`
	Bottlenecks        string   `json:"bottlenecks"`
	Systems            string   `json:"systems"`
	Goals              string   `json:"goals"`
	BudgetRange        string   `json:"budget_range,omitempty"`
	ContactEmail       string   `json:"contact_email,omitempty"`
	ContactWhatsApp    string   `json:"contact_whatsapp,omitempty"`
}

// AutomationModule is one catalog entry. The catalog is defined once at
// process start and read-only thereafter.
type AutomationModule struct {
	ID             ModuleID `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Effort         string   `json:"effort"`
	Impact         int      `json:"impact"`
	Integrations   []string `json:"integrations"`
	EstimatedWeeks int      `json:"estimated_weeks"`
	Tags           []string `json:"tags"`
}

// ROIBreakdown holds the monthly and annualized figures derived from the
// reported manual hours. Values are kept unrounded; rounding happens at the
// presentation boundary.
type ROIBreakdown struct {
	ManualHoursPerMonth             float64 `json:"manual_hours_per_month"`
	ManualJornadasPerMonth          float64 `json:"manual_jornadas_per_month"`
	LoadedDailyCostMXN              float64 `json:"loaded_daily_cost_mxn"`
	LoadedMonthlyCostMXN            float64 `json:"loaded_monthly_cost_mxn"`
	TimeValueMXNPerMonth            float64 `json:"time_value_mxn_per_month"`
	ErrorCostMXNPerMonth            float64 `json:"error_cost_mxn_per_month"`
	ErrorSavingsMXNPerMonth         float64 `json:"error_savings_mxn_per_month"`
	OpportunityCostMXNPerMonth      float64 `json:"opportunity_cost_mxn_per_month"`
	TotalMXNPerMonth                float64 `json:"total_mxn_per_month"`
	TotalMXNPerYear                 float64 `json:"total_mxn_per_year"`
	TotalWithOpportunityMXNPerMonth float64 `json:"total_with_opportunity_mxn_per_month"`
	TotalWithOpportunityMXNPerYear  float64 `json:"total_with_opportunity_mxn_per_year"`
	RotationCostMXNPerHire          float64 `json:"rotation_cost_mxn_per_hire"`
	FTEEquivalent                   float64 `json:"fte_equivalent"`
}

// TierDecision is the chosen pricing band plus the rule that triggered it.
type TierDecision struct {
	Tier        string `json:"tier"`
	MinPriceMXN int    `json:"min_price_mxn"`
	MaxPriceMXN int    `json:"max_price_mxn"`
	Reason      string `json:"reason"`
}

// PricingQuote is the full commercial proposal attached to an analysis.
type PricingQuote struct {
	SetupFeeMXN          int      `json:"setup_fee_mxn"`
	MonthlyRetainerMXN   int      `json:"monthly_retainer_mxn"`
	Assumptions          []string `json:"assumptions"`
	ImplementationTier   string   `json:"implementation_tier"`
	ImplementationETA    string   `json:"implementation_eta,omitempty"`
	ServiceTier          string   `json:"service_tier"`
	ServiceTierReason    string   `json:"service_tier_reason"`
	SuggestedRangeMinMXN int      `json:"suggested_range_min_mxn"`
	SuggestedRangeMaxMXN int      `json:"suggested_range_max_mxn"`
	ROIAnnualFormulaMXN  float64  `json:"roi_annual_formula_mxn"`
	ROIAnnualNetMXN      float64  `json:"roi_annual_net_mxn"`
	ROIMultiple          float64  `json:"roi_multiple"`
	ROIAdjustedTo3x      bool     `json:"roi_adjusted_to_3x"`
}

// RoadmapPhase is one of the three fixed delivery phases.
type RoadmapPhase struct {
	Name          string `json:"name"`
	Focus         string `json:"focus"`
	DurationWeeks int    `json:"duration_weeks"`
	DurationLabel string `json:"duration_label,omitempty"`
	Deliverable   string `json:"deliverable"`
}

// AnalysisOutput is the engine's sole externally visible product. It is
// immutable after construction and persisted wholesale as JSON.
type AnalysisOutput struct {
	FrictionPoints     []string           `json:"friction_points"`
	RecommendedModules []AutomationModule `json:"recommended_modules"`
	OptionalModules    []AutomationModule `json:"optional_modules"`
	Opportunities      []string           `json:"opportunities"`
	Limitations        []string           `json:"limitations"`
	DataNeeded         []string           `json:"data_needed"`
	PrimaryBottleneck  string             `json:"primary_bottleneck"`

	ROIHoursSavedPerMonth               float64 `json:"roi_hours_saved_per_month"`
	ROITimeValueMXNPerMonth             float64 `json:"roi_time_value_mxn_per_month"`
	ROIErrorCostMXNPerMonth             float64 `json:"roi_error_cost_mxn_per_month"`
	ROIErrorSavingsMXNPerMonth          float64 `json:"roi_error_savings_mxn_per_month"`
	ROIOpportunityMXNPerMonth           float64 `json:"roi_opportunity_mxn_per_month"`
	ROITotalWithOpportunityMXNPerMonth  float64 `json:"roi_total_with_opportunity_mxn_per_month"`
	ROITotalWithOpportunityMXNPerYear   float64 `json:"roi_total_with_opportunity_mxn_per_year"`
	ROILoadedDailyCostMXN               float64 `json:"roi_loaded_daily_cost_mxn"`
	ROILoadedMonthlyCostMXN             float64 `json:"roi_loaded_monthly_cost_mxn"`
	ROIRotationCostMXNPerHire           float64 `json:"roi_rotation_cost_mxn_per_hire"`
	ROIFTEEquivalent                    float64 `json:"roi_fte_equivalent"`
	ROIMXNSavedPerMonth                 float64 `json:"roi_mxn_saved_per_month"`
	PaybackMonths                       float64 `json:"payback_months"`

	Roadmap []RoadmapPhase `json:"roadmap"`
	Pricing PricingQuote   `json:"pricing"`
	Notes   string         `json:"notes"`
}

// ComplexityLevel is the coarse complexity signal the diagnosis may refine.
type ComplexityLevel string

const (
	ComplexityLow    ComplexityLevel = "low"
	ComplexityMedium ComplexityLevel = "medium"
	ComplexityHigh   ComplexityLevel = "high"
)

// Service tiers, ordered from smallest to largest engagement.
const (
	TierMicro  = "MICRO"
	TierLite   = "LITE"
	TierGrowth = "GROWTH"
	TierElite  = "ELITE"
)
