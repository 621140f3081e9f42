package engine

import (
	"math"
	"testing"
)

func TestEstimateROIDeterministic(t *testing.T) {
	c := DefaultConstants()
	first := EstimateROI(c, 20, "conciliacion con banco y facturas", nil)
	second := EstimateROI(c, 20, "conciliacion con banco y facturas", nil)
	if first != second {
		t.Fatalf("EstimateROI is not deterministic:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestEstimateROIArithmetic(t *testing.T) {
	c := DefaultConstants()
	roi := EstimateROI(c, 20, "texto sin señales", nil)

	loadedMonthly := 10000 * 1.30
	loadedDaily := loadedMonthly / 22
	loadedHourly := loadedDaily / 8
	hoursMonth := 20 * 4.33
	timeValue := hoursMonth * loadedHourly

	if roi.LoadedMonthlyCostMXN != loadedMonthly {
		t.Errorf("LoadedMonthlyCostMXN = %v, want %v", roi.LoadedMonthlyCostMXN, loadedMonthly)
	}
	if roi.ManualHoursPerMonth != hoursMonth {
		t.Errorf("ManualHoursPerMonth = %v, want %v", roi.ManualHoursPerMonth, hoursMonth)
	}
	if math.Abs(roi.TimeValueMXNPerMonth-timeValue) > 1e-9 {
		t.Errorf("TimeValueMXNPerMonth = %v, want %v", roi.TimeValueMXNPerMonth, timeValue)
	}
	if math.Abs(roi.ErrorCostMXNPerMonth-timeValue*errorFactorDefault) > 1e-9 {
		t.Errorf("ErrorCostMXNPerMonth = %v, want default factor applied", roi.ErrorCostMXNPerMonth)
	}
	if math.Abs(roi.ErrorSavingsMXNPerMonth-roi.ErrorCostMXNPerMonth*errorRecoveryRate) > 1e-9 {
		t.Errorf("ErrorSavingsMXNPerMonth = %v, want 0.6 of error cost", roi.ErrorSavingsMXNPerMonth)
	}
	if math.Abs(roi.OpportunityCostMXNPerMonth-timeValue*opportunityLow) > 1e-9 {
		t.Errorf("OpportunityCostMXNPerMonth = %v, want low factor applied", roi.OpportunityCostMXNPerMonth)
	}
	if roi.TotalMXNPerYear != roi.TotalMXNPerMonth*12 {
		t.Errorf("TotalMXNPerYear = %v, want 12x monthly", roi.TotalMXNPerYear)
	}
	if math.Abs(roi.RotationCostMXNPerHire-loadedDaily*trainingDaysDefault) > 1e-9 {
		t.Errorf("RotationCostMXNPerHire = %v, want %v training days", roi.RotationCostMXNPerHire, trainingDaysDefault)
	}
	if math.Abs(roi.FTEEquivalent-roi.ManualJornadasPerMonth/22) > 1e-9 {
		t.Errorf("FTEEquivalent = %v", roi.FTEEquivalent)
	}
}

func TestEstimateROIFactorSelection(t *testing.T) {
	c := DefaultConstants()
	tests := []struct {
		name            string
		painText        string
		selected        []string
		wantErrorFactor float64
		wantOppFactor   float64
		wantTraining    float64
	}{
		{
			name:            "admin pain dominates",
			painText:        "papeleo y archivos perdidos",
			wantErrorFactor: errorFactorAdmin,
			wantOppFactor:   opportunityLow,
			wantTraining:    trainingDaysAdmin,
		},
		{
			name:            "finance pain",
			painText:        "conciliacion con el banco cada mes",
			wantErrorFactor: errorFactorFinance,
			wantOppFactor:   opportunityLow,
			wantTraining:    trainingDaysDefault,
		},
		{
			name:            "explicit whatsapp priority",
			painText:        "sin señales",
			selected:        []string{PriorityWhatsAppSales},
			wantErrorFactor: errorFactorDefault,
			wantOppFactor:   opportunityHigh,
			wantTraining:    trainingDaysDefault,
		},
		{
			name:            "sales keywords",
			painText:        "perdemos ventas por respuesta lenta",
			wantErrorFactor: errorFactorDefault,
			wantOppFactor:   opportunityMedium,
			wantTraining:    trainingDaysDefault,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roi := EstimateROI(c, 10, tt.painText, tt.selected)
			gotError := roi.ErrorCostMXNPerMonth / roi.TimeValueMXNPerMonth
			if math.Abs(gotError-tt.wantErrorFactor) > 1e-9 {
				t.Errorf("error factor = %v, want %v", gotError, tt.wantErrorFactor)
			}
			gotOpp := roi.OpportunityCostMXNPerMonth / roi.TimeValueMXNPerMonth
			if math.Abs(gotOpp-tt.wantOppFactor) > 1e-9 {
				t.Errorf("opportunity factor = %v, want %v", gotOpp, tt.wantOppFactor)
			}
			loadedDaily := roi.LoadedDailyCostMXN
			if math.Abs(roi.RotationCostMXNPerHire-loadedDaily*tt.wantTraining) > 1e-9 {
				t.Errorf("rotation cost = %v, want %v days", roi.RotationCostMXNPerHire, tt.wantTraining)
			}
		})
	}
}

func TestEstimateROINegativeHoursClampedToZero(t *testing.T) {
	roi := EstimateROI(DefaultConstants(), -5, "", nil)
	if roi.ManualHoursPerMonth != 0 || roi.TimeValueMXNPerMonth != 0 {
		t.Fatalf("negative hours produced non-zero figures: %+v", roi)
	}
}

func TestAutomationScopeFactor(t *testing.T) {
	same := true
	mixed := false
	tests := []struct {
		name   string
		intake BusinessIntake
		want   float64
	}{
		{"unrestricted", BusinessIntake{BusinessFocus: "distribuidora", TeamFocusSame: &same}, 1.0},
		{"restricted industry", BusinessIntake{BusinessFocus: "clinica dental"}, 0.65},
		{"mixed team", BusinessIntake{BusinessFocus: "distribuidora", TeamFocusSame: &mixed}, 0.85},
		{"restricted and mixed", BusinessIntake{BusinessFocus: "restaurante", TeamFocusSame: &mixed}, 0.65 * 0.85},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := automationScopeFactor(tt.intake); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("automationScopeFactor = %v, want %v", got, tt.want)
			}
		})
	}
}
