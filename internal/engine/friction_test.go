package engine

import "testing"

func TestDetectFriction(t *testing.T) {
	tests := []struct {
		name      string
		intake    BusinessIntake
		wantLabel string
	}{
		{
			name:      "manual work in excel",
			intake:    BusinessIntake{Bottlenecks: "perdemos tiempo copiando datos a excel"},
			wantLabel: "Tu equipo pierde horas cada semana en tareas repetitivas (capturas, copiar/pegar, Excel).",
		},
		{
			name:      "lost files",
			intake:    BusinessIntake{Processes: "cada quien guarda archivos en su carpeta"},
			wantLabel: "Tienes caos administrativo: se pierden archivos, carpetas y versiones (y eso cuesta dinero).",
		},
		{
			name:      "slow invoicing",
			intake:    BusinessIntake{Bottlenecks: "la facturacion nos toma dias"},
			wantLabel: "La facturacion te frena: capturas, correcciones y envios manuales.",
		},
		{
			name:      "nothing matches",
			intake:    BusinessIntake{Bottlenecks: "todo va bien"},
			wantLabel: genericFrictionLabel,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := DetectFriction(tt.intake)
			if len(points) == 0 {
				t.Fatalf("DetectFriction returned no points")
			}
			found := false
			for _, p := range points {
				if p == tt.wantLabel {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("DetectFriction = %v, missing %q", points, tt.wantLabel)
			}
		})
	}
}

func TestDetectFrictionKeepsTableOrder(t *testing.T) {
	in := BusinessIntake{
		Processes:   "capturamos facturas a mano en excel",
		Bottlenecks: "la conciliacion con el banco tarda",
	}
	points := DetectFriction(in)
	if len(points) < 2 {
		t.Fatalf("expected multiple points, got %v", points)
	}
	// The repetitive-work label is declared before the reconciliation label.
	if points[0] != frictionPatterns[0].label {
		t.Errorf("points[0] = %q, want table-ordered first label", points[0])
	}
}
