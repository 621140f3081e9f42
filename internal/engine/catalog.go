package engine

import "fmt"

// ModuleID identifies a catalog entry. Gate and priority tables are keyed by
// ModuleID so VerifyCatalog can check them against the catalog at start time.
type ModuleID string

const (
	ModuleWhatsAppSalesBot ModuleID = "whatsapp_sales_bot"
	ModuleSupportChatbot   ModuleID = "customer_support_chatbot"
	ModuleReconciliation   ModuleID = "bank_sales_reconciliation"
	ModuleShopifyERPSync   ModuleID = "shopify_erp_sync"
	ModuleSmartInvoicing   ModuleID = "smart_invoicing"
	ModuleOpsDashboards    ModuleID = "ops_dashboards"
	ModuleTicketRouting    ModuleID = "ticket_routing"
	ModuleCRMCleanup       ModuleID = "crm_cleanup"
	ModuleStaffOnboarding  ModuleID = "staff_onboarding"
	ModuleEmailAutomation  ModuleID = "email_automation"
	ModuleAdminEfficiency  ModuleID = "admin_efficiency"
	ModuleDocGenerator     ModuleID = "document_generator"
)

// modules is the canonical catalog. Declaration order is load-bearing: the
// scorer breaks score ties by position in this slice, and the last-resort
// fallback takes the head of it. Do not reorder without revisiting both.
var modules = []AutomationModule{
	{
		ID:             ModuleWhatsAppSalesBot,
		Name:           "Bot de ventas para WhatsApp",
		Description:    "Captura leads, responde FAQs, califica prospectos y agenda llamadas.",
		Effort:         "M",
		Impact:         5,
		Integrations:   []string{"WhatsApp", "CRM"},
		EstimatedWeeks: 3,
		Tags:           []string{"whatsapp", "ventas", "leads", "seguimiento", "cotizacion", "citas", "agenda", "reservas"},
	},
	{
		ID:             ModuleSupportChatbot,
		Name:           "Chatbot de atencion al cliente",
		Description:    "Responde preguntas frecuentes en web o WhatsApp y escala a un humano.",
		Effort:         "M",
		Impact:         4,
		Integrations:   []string{"Webchat", "WhatsApp", "CRM"},
		EstimatedWeeks: 3,
		Tags:           []string{"chatbot", "soporte", "web", "whatsapp", "faq", "citas", "agenda"},
	},
	{
		ID:             ModuleReconciliation,
		Name:           "Conciliacion automatica (banco vs ventas)",
		Description:    "Cruza movimientos bancarios con ventas, facturas y reportes contables.",
		Effort:         "M",
		Impact:         4,
		Integrations:   []string{"Banco", "ERP", "Contabilidad"},
		EstimatedWeeks: 3,
		Tags:           []string{"banco", "conciliacion", "contabilidad", "tesoreria"},
	},
	{
		ID:             ModuleShopifyERPSync,
		Name:           "Sincronizacion Shopify-ERP",
		Description:    "Actualiza inventario, pedidos y clientes entre Shopify y ERP.",
		Effort:         "L",
		Impact:         4,
		Integrations:   []string{"Shopify", "ERP"},
		EstimatedWeeks: 4,
		Tags:           []string{"shopify", "inventario", "erp", "stock", "pedido"},
	},
	{
		ID:             ModuleSmartInvoicing,
		Name:           "Facturacion inteligente",
		Description:    "Genera facturas, valida datos y envia comprobantes automaticamente.",
		Effort:         "S",
		Impact:         3,
		Integrations:   []string{"Facturacion", "Correo"},
		EstimatedWeeks: 2,
		Tags:           []string{"factura", "facturacion", "comprobante", "correo", "sat"},
	},
	{
		ID:             ModuleOpsDashboards,
		Name:           "Reportes y dashboards operativos",
		Description:    "Convierte datos dispersos en dashboards semanales con alertas.",
		Effort:         "S",
		Impact:         3,
		Integrations:   []string{"BI", "Google Sheets"},
		EstimatedWeeks: 2,
		Tags:           []string{"reporte", "dashboard", "kpi", "excel", "administracion", "indicadores"},
	},
	{
		ID:             ModuleTicketRouting,
		Name:           "Ruteo de tickets de soporte",
		Description:    "Clasifica tickets y asigna SLA automaticamente.",
		Effort:         "S",
		Impact:         3,
		Integrations:   []string{"Helpdesk"},
		EstimatedWeeks: 2,
		Tags:           []string{"soporte", "ticket", "servicio", "sla"},
	},
	{
		ID:             ModuleCRMCleanup,
		Name:           "Enriquecimiento y limpieza de CRM",
		Description:    "Depura duplicados y completa datos de clientes.",
		Effort:         "S",
		Impact:         2,
		Integrations:   []string{"CRM"},
		EstimatedWeeks: 1,
		Tags:           []string{"crm", "duplicado", "limpieza", "datos"},
	},
	{
		ID:             ModuleStaffOnboarding,
		Name:           "Onboarding de personal",
		Description:    "Automatiza checklist, accesos y capacitaciones.",
		Effort:         "S",
		Impact:         2,
		Integrations:   []string{"HR", "Correo"},
		EstimatedWeeks: 1,
		Tags:           []string{"onboarding", "rh", "recursos humanos", "capacitar"},
	},
	{
		ID:             ModuleEmailAutomation,
		Name:           "Automatizacion de correo",
		Description:    "Clasifica, etiqueta y responde correos repetitivos.",
		Effort:         "S",
		Impact:         3,
		Integrations:   []string{"Correo"},
		EstimatedWeeks: 2,
		Tags:           []string{"correo", "email", "bandeja", "seguimiento"},
	},
	{
		ID:             ModuleAdminEfficiency,
		Name:           "Eficiencia administrativa (archivos y carpetas)",
		Description:    "Ordena carpetas, archivos y versiones para que nada se pierda.",
		Effort:         "S",
		Impact:         4,
		Integrations:   []string{"Drive", "OneDrive", "Dropbox"},
		EstimatedWeeks: 2,
		Tags:           []string{"carpeta", "archivo", "documento", "organizar", "papeleo", "drive"},
	},
	{
		ID:             ModuleDocGenerator,
		Name:           "Generador de documentos inteligente",
		Description:    "Genera contratos, cotizaciones y recibos en PDF sin copiar y pegar.",
		Effort:         "S",
		Impact:         4,
		Integrations:   []string{"PDF", "Correo", "Firma electronica"},
		EstimatedWeeks: 2,
		Tags:           []string{"contrato", "cotizacion", "pdf", "recibo", "firma", "plantilla"},
	},
}

// moduleGates lists, per module, the keywords at least one of which must
// appear in the intake text before the module may be recommended. Modules
// absent from this table are always allowed. Explicit selection bypasses
// the gate.
var moduleGates = map[ModuleID][]string{
	ModuleShopifyERPSync: {"shopify", "ecommerce", "tienda online", "tienda en linea", "woocommerce"},
	ModuleReconciliation: {"banco", "conciliacion", "tesoreria", "finanzas", "contabilidad", "ventas"},
	ModuleSmartInvoicing: {"factura", "facturacion", "comprobante", "sat"},
	ModuleTicketRouting:  {"ticket", "soporte", "helpdesk", "sla"},
	ModuleCRMCleanup:     {"crm", "leads", "ventas"},
	ModuleWhatsAppSalesBot: {
		"whatsapp", "ventas", "leads", "cotizacion", "prospectos", "citas", "agenda", "reservas", "turnos",
	},
	ModuleSupportChatbot:  {"chatbot", "soporte", "clientes", "atencion", "faq", "citas", "agenda"},
	ModuleStaffOnboarding: {"rh", "recursos humanos", "onboarding", "personal", "nomina"},
	ModuleAdminEfficiency: {
		"carpeta", "carpetas", "archivo", "archivos", "documento", "documentos",
		"organizar", "papeleo", "drive", "onedrive", "dropbox",
	},
	ModuleDocGenerator: {"factura", "facturacion", "contrato", "cotizacion", "pdf", "recibo", "firma", "firmar"},
}

// Priority keys a prospect can tick on the intake form. Each expands to the
// concrete modules it covers.
const (
	PriorityWhatsAppSales  = "whatsapp_ventas"
	PriorityInventoryData  = "inventarios_datos"
	PriorityDashboards     = "dashboards_reportes"
	PriorityAdminWork      = "eficiencia_administrativa"
	PrioritySmartDocuments = "documentos_inteligentes"
	PriorityReconciliation = "conciliacion_automatica"
)

var priorityExpansion = map[string][]ModuleID{
	PriorityWhatsAppSales:  {ModuleWhatsAppSalesBot, ModuleSupportChatbot},
	PriorityInventoryData:  {ModuleShopifyERPSync, ModuleOpsDashboards, ModuleReconciliation},
	PriorityDashboards:     {ModuleOpsDashboards},
	PriorityAdminWork:      {ModuleAdminEfficiency},
	PrioritySmartDocuments: {ModuleDocGenerator, ModuleSmartInvoicing},
	PriorityReconciliation: {ModuleReconciliation},
}

// genericFallback is used when scoring surfaces nothing. Order matters.
var genericFallback = []ModuleID{
	ModuleAdminEfficiency,
	ModuleDocGenerator,
	ModuleOpsDashboards,
	ModuleReconciliation,
	ModuleSmartInvoicing,
}

// Catalog returns the full module list in declaration order. Callers must
// treat the returned slice and its entries as read-only.
func Catalog() []AutomationModule {
	return modules
}

// ModuleByID looks up a catalog entry.
func ModuleByID(id ModuleID) (AutomationModule, bool) {
	for _, m := range modules {
		if m.ID == id {
			return m, true
		}
	}
	return AutomationModule{}, false
}

// ModuleByName resolves a display name back to its catalog entry. The LLM
// merge path uses this to reject invented module names.
func ModuleByName(name string) (AutomationModule, bool) {
	for _, m := range modules {
		if m.Name == name {
			return m, true
		}
	}
	return AutomationModule{}, false
}

// declIndex returns the declaration position of a module, used as the sort
// tie-break in the scorer.
func declIndex(id ModuleID) int {
	for i, m := range modules {
		if m.ID == id {
			return i
		}
	}
	return len(modules)
}

// VerifyCatalog checks the referential integrity of the catalog and its side
// tables. It is called once at process start; a failure is a programming
// error, not a runtime condition.
func VerifyCatalog() error {
	if len(modules) == 0 {
		return fmt.Errorf("catalog: empty module list")
	}
	seenID := make(map[ModuleID]bool, len(modules))
	seenName := make(map[string]bool, len(modules))
	for _, m := range modules {
		if m.ID == "" || m.Name == "" {
			return fmt.Errorf("catalog: module with empty id or name")
		}
		if seenID[m.ID] {
			return fmt.Errorf("catalog: duplicate module id %q", m.ID)
		}
		if seenName[m.Name] {
			return fmt.Errorf("catalog: duplicate module name %q", m.Name)
		}
		seenID[m.ID] = true
		seenName[m.Name] = true
		if m.EstimatedWeeks < 1 {
			return fmt.Errorf("catalog: module %q has estimated_weeks < 1", m.ID)
		}
		if len(m.Tags) == 0 {
			return fmt.Errorf("catalog: module %q has no tags", m.ID)
		}
	}
	for id, keys := range moduleGates {
		if !seenID[id] {
			return fmt.Errorf("catalog: gate table references unknown module %q", id)
		}
		if len(keys) == 0 {
			return fmt.Errorf("catalog: gate for %q has no keywords", id)
		}
	}
	for key, ids := range priorityExpansion {
		if len(ids) == 0 {
			return fmt.Errorf("catalog: priority %q expands to nothing", key)
		}
		for _, id := range ids {
			if !seenID[id] {
				return fmt.Errorf("catalog: priority %q references unknown module %q", key, id)
			}
		}
	}
	for _, id := range genericFallback {
		if !seenID[id] {
			return fmt.Errorf("catalog: fallback list references unknown module %q", id)
		}
	}
	return nil
}
