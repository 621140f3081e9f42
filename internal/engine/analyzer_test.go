package engine

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
)

func TestRunSmallBusinessScenario(t *testing.T) {
	in := BusinessIntake{
		CompanyName:        "Papeleria Luna",
		Industry:           "Comercio",
		BusinessFocus:      "venta de papeleria",
		Region:             "CDMX",
		TeamSize:           3,
		ManualHoursPerWeek: 20,
		Processes:          "capturamos todo a mano",
		Bottlenecks:        "perdemos tiempo copiando datos a excel",
		Systems:            "excel",
		Goals:              "dejar de capturar",
	}
	out := NewAnalyzer(DefaultConstants(), nil).Run(context.Background(), in)

	if tier := out.Pricing.ServiceTier; tier != TierMicro && tier != TierLite {
		t.Errorf("tier = %s, want MICRO or LITE for a 3-person low-signal business", tier)
	}
	if len(out.FrictionPoints) == 0 {
		t.Fatalf("no friction points")
	}
	found := false
	for _, p := range out.FrictionPoints {
		if p == frictionPatterns[0].label {
			found = true
		}
	}
	if !found {
		t.Errorf("manual-work label missing from friction points: %v", out.FrictionPoints)
	}
	if len(out.RecommendedModules) == 0 || len(out.RecommendedModules) > 5 {
		t.Fatalf("recommended modules length = %d", len(out.RecommendedModules))
	}
	for _, m := range out.RecommendedModules {
		if _, ok := ModuleByName(m.Name); !ok {
			t.Errorf("recommended module %q not in catalog", m.Name)
		}
	}
	if len(out.OptionalModules) > 4 {
		t.Errorf("optional modules length = %d", len(out.OptionalModules))
	}
	if out.Pricing.SetupFeeMXN <= 0 {
		t.Errorf("setup fee = %d", out.Pricing.SetupFeeMXN)
	}
	if len(out.Roadmap) != 3 {
		t.Errorf("roadmap phases = %d, want 3", len(out.Roadmap))
	}
	if out.Notes == "" {
		t.Errorf("notes empty; local summary expected")
	}
}

func TestRunDeterministicWithoutModel(t *testing.T) {
	in := testIntake()
	a := NewAnalyzer(DefaultConstants(), nil)
	first := a.Run(context.Background(), in)
	second := a.Run(context.Background(), in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Run is not deterministic without a model")
	}
}

func TestRunPriceInsideTierBand(t *testing.T) {
	intakes := []BusinessIntake{
		testIntake(),
		{TeamSize: 2, ManualHoursPerWeek: 5, Bottlenecks: "agendar citas"},
		{TeamSize: 40, TransactionVolume: "alto", ManualHoursPerWeek: 60, Bottlenecks: "erp multi-sucursal", Processes: "ventas", Systems: "erp"},
	}
	a := NewAnalyzer(DefaultConstants(), nil)
	for _, in := range intakes {
		out := a.Run(context.Background(), in)
		p := out.Pricing
		if !p.ROIAdjustedTo3x {
			if p.SetupFeeMXN < p.SuggestedRangeMinMXN || p.SetupFeeMXN > p.SuggestedRangeMaxMXN {
				t.Errorf("setup fee %d outside band [%d,%d] (tier %s)",
					p.SetupFeeMXN, p.SuggestedRangeMinMXN, p.SuggestedRangeMaxMXN, p.ServiceTier)
			}
		}
		if p.ROIAdjustedTo3x && float64(p.SetupFeeMXN) > p.ROIAnnualFormulaMXN/3+1 && p.SetupFeeMXN > priceFloorMXN {
			t.Errorf("clamped fee %d exceeds annual/3 = %v", p.SetupFeeMXN, p.ROIAnnualFormulaMXN/3)
		}
	}
}

func TestRunComplexityRefinementChangesTier(t *testing.T) {
	in := testIntake() // team of 8, excel-level tooling
	reply := `{"complexity_assessment": {"level": "high", "reasoning": "integraciones complejas"}}`
	stub := &stubLLM{text: reply, model: "gemini-2.0-flash"}

	withModel := NewAnalyzer(DefaultConstants(), stub).Run(context.Background(), in)
	withoutModel := NewAnalyzer(DefaultConstants(), nil).Run(context.Background(), in)

	if withModel.Pricing.ServiceTier != TierElite {
		t.Errorf("tier with high complexity signal = %s, want ELITE", withModel.Pricing.ServiceTier)
	}
	if withoutModel.Pricing.ServiceTier == TierElite {
		t.Errorf("heuristic-only tier unexpectedly ELITE")
	}
}

func TestAnalysisOutputJSONRoundTrip(t *testing.T) {
	out := NewAnalyzer(DefaultConstants(), nil).Run(context.Background(), testIntake())
	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back AnalysisOutput
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(out, back) {
		t.Fatalf("round trip changed the value:\nout  = %+v\nback = %+v", out, back)
	}
}
