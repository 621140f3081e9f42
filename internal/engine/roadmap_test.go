package engine

import "testing"

func TestBuildRoadmap(t *testing.T) {
	mods := func(weeks ...int) []AutomationModule {
		out := make([]AutomationModule, len(weeks))
		for i, w := range weeks {
			out[i] = AutomationModule{EstimatedWeeks: w}
		}
		return out
	}

	tests := []struct {
		name      string
		modules   []AutomationModule
		wantWeeks int
	}{
		{"no modules clamps to minimum", nil, 2},
		{"small build", mods(2, 2), 2},
		{"medium build rounds up", mods(3, 4), 4},
		{"large build clamps to maximum", mods(4, 4, 4, 4), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phases := BuildRoadmap(tt.modules, "")
			if len(phases) != 3 {
				t.Fatalf("phases = %d, want 3", len(phases))
			}
			if phases[0].Name != "Diagnostico" || phases[1].Name != "Implementacion" || phases[2].Name != "Escala" {
				t.Fatalf("unexpected phase names: %v", phases)
			}
			if phases[1].DurationWeeks != tt.wantWeeks {
				t.Errorf("implementation weeks = %d, want %d", phases[1].DurationWeeks, tt.wantWeeks)
			}
			if phases[0].DurationWeeks != 1 || phases[2].DurationWeeks != 1 {
				t.Errorf("diagnostic/scale phases must be 1 week")
			}
		})
	}
}

func TestBuildRoadmapExpressETA(t *testing.T) {
	phases := BuildRoadmap([]AutomationModule{{EstimatedWeeks: 4}}, "mismo dia")
	if phases[0].DurationLabel != "1-2 dias" {
		t.Errorf("diagnostic label = %q, want express label", phases[0].DurationLabel)
	}
	if phases[1].DurationWeeks != 1 {
		t.Errorf("implementation weeks = %d, want 1 for express eta", phases[1].DurationWeeks)
	}
	if phases[1].DurationLabel != "mismo dia" {
		t.Errorf("implementation label = %q, want eta passthrough", phases[1].DurationLabel)
	}
}
