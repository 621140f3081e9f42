package engine

import (
	"fmt"
	"strings"
)

var healthIndustryKeywords = []string{"salud", "medico", "clinica", "consultorio", "dentista"}
var foodIndustryKeywords = []string{"restaurante", "alimentos", "cocina", "chef", "comida"}

type industryFlags struct {
	health    bool
	food      bool
	regulated bool
}

func detectIndustryFlags(in BusinessIntake) industryFlags {
	text := strings.ToLower(in.Industry + " " + in.BusinessFocus)
	flags := industryFlags{
		health: containsAny(text, healthIndustryKeywords),
		food:   containsAny(text, foodIndustryKeywords),
	}
	flags.regulated = flags.health || flags.food
	return flags
}

// opportunityReasons explains, per module, why it applies. Modules without an
// entry get the generic reason.
var opportunityReasons = map[ModuleID]string{
	ModuleWhatsAppSalesBot: "captura pedidos y prospectos en WhatsApp, reduce tiempos de respuesta y agenda seguimiento",
	ModuleSupportChatbot:   "responde dudas frecuentes y libera carga al equipo en soporte",
	ModuleReconciliation:   "detecta diferencias entre banco, ventas y hojas para evitar fugas, fraudes y retrabajo",
	ModuleSmartInvoicing:   "genera y envia facturas automaticamente para evitar retrasos",
	ModuleShopifyERPSync:   "actualiza inventario y pedidos en tiempo real para evitar stock desactualizado",
	ModuleCRMCleanup:       "ordena y limpia leads para que ventas enfoque esfuerzo en prospectos reales",
	ModuleOpsDashboards:    "da visibilidad diaria de ventas, inventario y cumplimiento",
	ModuleAdminEfficiency:  "automatiza carpetas y archivos para que nunca se pierdan documentos y todo quede ordenado 24/7",
	ModuleDocGenerator:     "genera contratos/cotizaciones/facturas en PDF sin errores, sin copiar y pegar",
}

const genericOpportunityReason = "automatiza una tarea repetitiva clave de tu operacion"

// localSummary produces the deterministic executive summary used when the
// model is unavailable.
func localSummary(c Constants, in BusinessIntake, frictionPoints []string) string {
	frictionSummary := strings.Join(frictionPoints, ", ")
	if frictionSummary == "" {
		frictionSummary = "operacion actual"
	}

	teamTarget := ""
	if in.TeamSizeTarget > 0 {
		teamTarget = fmt.Sprintf("El equipo objetivo es %d.", in.TeamSizeTarget)
	}

	focus := strings.TrimSpace(in.Bottlenecks)
	if focus == "" {
		focus = strings.TrimSpace(in.Processes)
	}
	if focus == "" {
		focus = "operaciones"
	}
	if len(focus) > 140 {
		focus = focus[:140] + "..."
	}

	hoursNote := ""
	if in.ManualHoursPerWeek > 0 {
		jornadasMes := in.ManualHoursPerWeek * c.WeeksPerMonth / c.HoursPerDay
		hoursNote = fmt.Sprintf("Hoy se regalan aprox. %.1f dias de sueldo al mes en tareas manuales.", jornadasMes)
	}

	return strings.TrimSpace(fmt.Sprintf(
		"La empresa opera en %s (%s). %s El mayor bloqueo esta en: %s. Prioridad inmediata: atacar %s. %s",
		in.Industry, in.BusinessFocus, hoursNote, frictionSummary, focus, teamTarget,
	))
}

// localDiagnosis builds the complete heuristic Diagnosis. It is always
// computed first; the model merge only overrides fields that validate.
func localDiagnosis(c Constants, in BusinessIntake, frictionPoints []string, sel ScoredSelection) Diagnosis {
	text := Normalize(in.Processes + " " + in.Bottlenecks + " " + in.Systems)

	var opportunities []string
	limit := len(sel.Recommended)
	if limit > 4 {
		limit = 4
	}
	for _, m := range sel.Recommended[:limit] {
		reason, ok := opportunityReasons[m.ID]
		if !ok {
			reason = genericOpportunityReason
		}
		opportunities = append(opportunities, fmt.Sprintf("%s: %s.", m.Name, reason))
	}
	if len(opportunities) == 0 {
		opportunities = []string{"Priorizar tareas administrativas repetitivas para ahorrar tiempo."}
	}

	flags := detectIndustryFlags(in)
	limitations := []string{
		"Se requiere validacion humana antes de mover dinero, datos sensibles o decisiones finales.",
	}
	if flags.regulated {
		limitations = append(limitations,
			"En rubros regulados, la automatizacion se limita a procesos administrativos, no al servicio humano.")
	}
	if in.TeamFocusSame != nil && !*in.TeamFocusSame {
		limitations = append(limitations, "Equipo mixto: priorizar procesos transversales primero.")
	}

	dataNeeded := []string{
		fmt.Sprintf("Accesos a sistemas: %s.", in.Systems),
		"Volumen mensual de operaciones (ventas, tickets, pedidos).",
		"Responsable interno para validar procesos y cambios.",
	}
	if strings.Contains(text, "inventario") {
		dataNeeded = append(dataNeeded, "Catalogo de productos e inventario actualizado.")
	}
	if strings.Contains(text, "factura") || strings.Contains(text, "facturacion") {
		dataNeeded = append(dataNeeded, "Acceso al sistema de facturacion o CFDI.")
	}
	if strings.Contains(text, "whatsapp") {
		dataNeeded = append(dataNeeded, "Linea y API de WhatsApp Business (o proveedor actual).")
	}
	if len(sel.Optional) > 0 {
		dataNeeded = append(dataNeeded, "Confirmar si quieres activar opciones adicionales.")
	}

	primary := strings.TrimSpace(in.Bottlenecks)
	if len(primary) > 140 {
		primary = primary[:140]
	}
	if primary == "" && len(frictionPoints) > 0 {
		primary = frictionPoints[0]
	}

	painPoints := frictionPoints
	if len(painPoints) == 0 {
		painPoints = []string{genericFrictionLabel}
	}

	return Diagnosis{
		PrimaryBottleneck:  primary,
		PainPoints:         painPoints,
		RecommendedModules: moduleNames(sel.Recommended),
		OptionalModules:    moduleNames(sel.Optional),
		Summary:            localSummary(c, in, frictionPoints),
		Opportunities:      opportunities,
		Limitations:        limitations,
		DataNeeded:         dataNeeded,
		ExtraOptions:       moduleNames(sel.Optional),
	}
}

func moduleNames(ms []AutomationModule) []string {
	names := make([]string, 0, len(ms))
	for _, m := range ms {
		names = append(names, m.Name)
	}
	return names
}
