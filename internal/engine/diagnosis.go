package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"kan-backend/internal/llm"
)

// Diagnosis holds the narrative fields of an analysis. Module lists carry
// catalog display names only; the merge step guarantees that.
type Diagnosis struct {
	PrimaryBottleneck  string
	PainPoints         []string
	RecommendedModules []string
	OptionalModules    []string
	Summary            string
	Opportunities      []string
	Limitations        []string
	DataNeeded         []string
	ExtraOptions       []string
	ComplexityLevel    ComplexityLevel

	// Observability only; never affects the result shape.
	Model          string
	FallbackReason llm.Reason
}

// ROIContext is the money framing handed to the model alongside the intake.
type ROIContext struct {
	ManualJornadasPerMonth         float64
	TimeValueMXNPerMonth           float64
	ErrorCostMXNPerMonth           float64
	ErrorSavingsMXNPerMonth        float64
	OpportunityCostMXNPerMonth     float64
	TotalWithOpportunityMXNPerYear float64
	RotationCostMXNPerHire         float64
	FTEEquivalent                  float64
	PaybackMonths                  float64
	SetupFeeMXN                    int
}

const diagnosisTimeout = 25 * time.Second

// Diagnoser produces the narrative diagnosis: deterministic local heuristics
// first, then one bounded model call whose reply is merged field by field.
// A nil Client disables the model path entirely.
type Diagnoser struct {
	Client    llm.Client
	Constants Constants
}

// Diagnose never fails: any model error degrades to the local result with
// FallbackReason set. The single call is bounded and not retried.
func (d Diagnoser) Diagnose(ctx context.Context, in BusinessIntake, frictionPoints []string, sel ScoredSelection, roi ROIContext) Diagnosis {
	fallback := localDiagnosis(d.Constants, in, frictionPoints, sel)
	if d.Client == nil {
		fallback.FallbackReason = llm.ReasonMissingAPIKey
		return fallback
	}

	callCtx, cancel := context.WithTimeout(ctx, diagnosisTimeout)
	defer cancel()
	out, err := d.Client.Generate(callCtx, llm.GenerateInput{
		Prompt:          buildDiagnosisPrompt(in, frictionPoints, sel, roi),
		MaxOutputTokens: 520,
		Temperature:     0.2,
	})
	if err != nil {
		fallback.FallbackReason = llm.ReasonOf(err)
		return fallback
	}

	parsed, ok := extractJSON(out.Text)
	if !ok {
		fallback.FallbackReason = llm.ReasonInvalidJSON
		return fallback
	}
	merged := mergeDiagnosis(fallback, parsed)
	merged.Model = out.Model
	return merged
}

// modelDiagnosis is the JSON shape requested from the model. Fields arrive as
// raw messages so each one can be validated independently.
type modelDiagnosis struct {
	PrimaryBottleneck    string          `json:"primary_bottleneck"`
	PainPoints           json.RawMessage `json:"pain_points"`
	RecommendedModules   json.RawMessage `json:"recommended_modules"`
	OptionalModules      json.RawMessage `json:"optional_modules"`
	Summary              string          `json:"summary"`
	Opportunities        json.RawMessage `json:"opportunities"`
	Limitations          json.RawMessage `json:"limitations"`
	DataNeeded           json.RawMessage `json:"data_needed"`
	ExtraOptions         json.RawMessage `json:"extra_options"`
	ComplexityAssessment *struct {
		Level     string `json:"level"`
		Reasoning string `json:"reasoning"`
	} `json:"complexity_assessment"`
}

// extractJSON pulls the outermost JSON object out of the model reply, which
// may be wrapped in prose or code fences.
func extractJSON(text string) (modelDiagnosis, bool) {
	var parsed modelDiagnosis
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return parsed, false
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return parsed, false
	}
	return parsed, true
}

// mergeDiagnosis validates each model field independently and substitutes the
// fallback value when a field is missing, mistyped, or references names
// outside the catalog.
func mergeDiagnosis(fallback Diagnosis, m modelDiagnosis) Diagnosis {
	out := fallback

	if primary := strings.TrimSpace(m.PrimaryBottleneck); primary != "" {
		out.PrimaryBottleneck = primary
	}

	if pain := stringList(m.PainPoints); pain != nil {
		pain = truncate(pain, 6)
		if len(pain) > 0 {
			out.PainPoints = pain
		}
	}

	if rec := stringList(m.RecommendedModules); rec != nil {
		names := filterCatalogNames(rec, nil)
		names = truncate(names, 5)
		if len(names) > 0 {
			out.RecommendedModules = names
		}
	}
	if opt := stringList(m.OptionalModules); opt != nil {
		names := filterCatalogNames(opt, out.RecommendedModules)
		out.OptionalModules = truncate(names, 4)
	}

	if summary := strings.TrimSpace(m.Summary); summary != "" {
		out.Summary = summary
	}
	if v := stringList(m.Opportunities); v != nil {
		out.Opportunities = truncate(v, 6)
	}
	if v := stringList(m.Limitations); v != nil {
		out.Limitations = truncate(v, 3)
	}
	if v := stringList(m.DataNeeded); v != nil {
		out.DataNeeded = truncate(v, 6)
	}
	if v := stringList(m.ExtraOptions); v != nil {
		out.ExtraOptions = truncate(v, 4)
	}

	if m.ComplexityAssessment != nil {
		level := ComplexityLevel(strings.ToLower(strings.TrimSpace(m.ComplexityAssessment.Level)))
		switch level {
		case ComplexityLow, ComplexityMedium, ComplexityHigh:
			out.ComplexityLevel = level
		}
	}
	return out
}

// stringList decodes a raw field into trimmed non-empty strings. A missing or
// non-list field yields nil, which the merge treats as "keep fallback".
func stringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return cleaned
}

func filterCatalogNames(names, exclude []string) []string {
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}
	var out []string
	for _, name := range names {
		if excluded[name] {
			continue
		}
		if _, ok := ModuleByName(name); ok {
			out = append(out, name)
			excluded[name] = true
		}
	}
	return out
}

func truncate(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// buildDiagnosisPrompt assembles the structured-JSON instruction plus the
// intake, the money framing, the compact catalog, and the heuristic seed the
// model may correct.
func buildDiagnosisPrompt(in BusinessIntake, frictionPoints []string, sel ScoredSelection, roi ROIContext) string {
	var b strings.Builder
	b.WriteString("Actuas como Director de Estrategia Digital y Automatizacion para K'an (Expertos en IA y Seguridad). ")
	b.WriteString("Tu objetivo es entregar un diagnostico de clase mundial, que inspire confianza total y profesionalismo. ")
	b.WriteString("Escribe con autoridad, directo y empoderador (cero tecnicismos, enfoque en resultados y seguridad). ")
	b.WriteString("Reglas:\n")
	b.WriteString("- Detecta el cuello de botella principal (1), y explica por que es la palanca #1.\n")
	b.WriteString("- No recomiendes WhatsApp/chatbots si el dolor NO menciona ventas/leads/mensajes/soporte/citas.\n")
	b.WriteString("- No recomiendes Shopify/ERP si NO se menciona ecommerce/inventario.\n")
	b.WriteString("- Siempre incluye: riesgo de error humano, costo de oportunidad (ventas/atencion), costo de rotacion (reentrenamiento) y escalabilidad (evitar contratar mas).\n")
	b.WriteString("- Traduce tiempo a jornadas completas (8h) y a dias de sueldo.\n")
	b.WriteString("- Elige modulos SOLO del catalogo (usa el nombre exacto).\n\n")
	b.WriteString("Devuelve SOLO JSON valido con estas claves:\n")
	b.WriteString("primary_bottleneck (string), pain_points (array<string> 3-6), recommended_modules (array<string> 3-5), optional_modules (array<string> 0-4), ")
	b.WriteString("summary (string 3-5 frases), opportunities (array<string> 3-6 con formato 'Accion: por que aplica'), ")
	b.WriteString("limitations (array<string> 2-3), data_needed (array<string> 3-6), complexity_assessment (object).\n\n")
	b.WriteString("Matriz de pricing modular (contexto obligatorio): ")
	b.WriteString("MICRO: uso personal o agenda/chatbot basico ($2,000-$3,000 MXN). ")
	b.WriteString("LITE: micro y <=5 empleados ($8,000-$12,000 MXN). ")
	b.WriteString("GROWTH: PyME y procesos comerciales/integraciones (>10 empleados, $25,000-$45,000 MXN). ")
	b.WriteString("ELITE: memoria IA/scraping masivo/trading/ERP complejo ($60,000+ MXN).\n")

	fmt.Fprintf(&b, "Industria: %s\n", in.Industry)
	fmt.Fprintf(&b, "Actividad: %s\n", in.BusinessFocus)
	fmt.Fprintf(&b, "Region: %s\n", in.Region)
	fmt.Fprintf(&b, "Equipo total: %d\n", in.TeamSize)
	fmt.Fprintf(&b, "Roles del equipo: %s\n", orUnspecified(in.TeamRoles))
	fmt.Fprintf(&b, "Prioridades marcadas (si las hay): %s\n", orUnspecified(strings.Join(in.SelectedModules, ", ")))
	fmt.Fprintf(&b, "Operacion (opcional): %s\n", orUnspecified(in.Processes))
	fmt.Fprintf(&b, "Cuello de botella (texto del cliente): %s\n", in.Bottlenecks)
	fmt.Fprintf(&b, "Herramientas: %s\n", orUnspecified(in.Systems))
	fmt.Fprintf(&b, "Objetivos: %s\n\n", orUnspecified(in.Goals))

	b.WriteString("Contexto de impacto (estimado en MXN):\n")
	fmt.Fprintf(&b, "- Jornadas completas al mes (8h): %.1f\n", roi.ManualJornadasPerMonth)
	fmt.Fprintf(&b, "- Sueldo regalado por tiempo: $%.0f MXN/mes\n", roi.TimeValueMXNPerMonth)
	fmt.Fprintf(&b, "- Riesgo de error humano (impacto): $%.0f MXN/mes\n", roi.ErrorCostMXNPerMonth)
	fmt.Fprintf(&b, "- Ahorro por errores evitados: $%.0f MXN/mes\n", roi.ErrorSavingsMXNPerMonth)
	fmt.Fprintf(&b, "- Costo de oportunidad (ventas/atencion): $%.0f MXN/mes\n", roi.OpportunityCostMXNPerMonth)
	fmt.Fprintf(&b, "- Impacto anual total proyectado: $%.0f MXN/año\n", roi.TotalWithOpportunityMXNPerYear)
	fmt.Fprintf(&b, "- Costo de rotacion (reentrenamiento): $%.0f MXN por reemplazo\n", roi.RotationCostMXNPerHire)
	fmt.Fprintf(&b, "- Escalabilidad: equivale a %.2f personas de tiempo completo\n", roi.FTEEquivalent)
	fmt.Fprintf(&b, "- Payback conservador (sin oportunidad): %.2f meses\n\n", roi.PaybackMonths)

	b.WriteString("Catalogo de modulos disponibles:\n")
	for _, m := range Catalog() {
		fmt.Fprintf(&b, "- %s: %s (Integraciones: %s)\n", m.Name, m.Description, strings.Join(m.Integrations, ", "))
	}
	b.WriteString("\n")

	b.WriteString("complexity_assessment: Objeto con { \"level\": \"low\"|\"medium\"|\"high\", \"reasoning\": \"breve explicacion\" }. ")
	b.WriteString("Define el nivel de complejidad/costo. ")
	b.WriteString("'low': Micro-negocio o proceso aislado simple (ej. tienda local). ")
	b.WriteString("'medium': PyME estandar. ")
	b.WriteString("'high': Corporativo o integraciones complejas.\n\n")

	b.WriteString("Sugerencia inicial del sistema (puedes corregirla):\n")
	fmt.Fprintf(&b, "- Dolor detectado: %s\n", orUnspecified(strings.Join(frictionPoints, ", ")))
	recommended := moduleNames(sel.Recommended)
	fmt.Fprintf(&b, "- Modulos sugeridos: %s\n", orUnspecified(strings.Join(truncate(recommended, 5), ", ")))
	return b.String()
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "no especificado"
	}
	return s
}
