package engine

import (
	"math"
	"strings"
)

// BuildRoadmap derives the fixed three-phase delivery plan. Implementation
// duration is half the summed build weeks, clamped to [2,6]. An ETA hint
// mentioning hours or days shortens the plan to an express engagement.
func BuildRoadmap(recommended []AutomationModule, implementationETA string) []RoadmapPhase {
	buildWeeks := 0
	for _, m := range recommended {
		buildWeeks += m.EstimatedWeeks
	}
	implementationWeeks := int(math.Ceil(float64(buildWeeks) / 2))
	if implementationWeeks < 2 {
		implementationWeeks = 2
	}
	if implementationWeeks > 6 {
		implementationWeeks = 6
	}

	diagnosticLabel := "1 semana"
	implementationLabel := implementationETA
	if implementationETA != "" {
		eta := strings.ToLower(implementationETA)
		if strings.Contains(eta, "hora") || strings.Contains(eta, "dia") {
			diagnosticLabel = "1-2 dias"
			implementationWeeks = 1
		}
	}

	return []RoadmapPhase{
		{
			Name:          "Diagnostico",
			Focus:         "Diagnostico y mapeo de procesos",
			DurationWeeks: 1,
			DurationLabel: diagnosticLabel,
			Deliverable:   "Mapa de flujo y lista priorizada",
		},
		{
			Name:          "Implementacion",
			Focus:         "Automatizaciones modulares y pruebas",
			DurationWeeks: implementationWeeks,
			DurationLabel: implementationLabel,
			Deliverable:   "Flujos en produccion con control de calidad",
		},
		{
			Name:          "Escala",
			Focus:         "Optimizacion de prompts, monitoreo y mejoras",
			DurationWeeks: 1,
			DurationLabel: "1 semana",
			Deliverable:   "Tablero de indicadores y plan de mejora continua",
		},
	}
}
