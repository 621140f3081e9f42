package projects

// AccessItem describes one credential or system access the onboarding form
// asks for, keyed by the modules that need it.
type AccessItem struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Placeholder string   `json:"placeholder"`
	Modules     []string `json:"modules"`
}

var accessItems = []AccessItem{
	{
		Key:         "whatsapp",
		Label:       "WhatsApp Business API",
		Description: "Proveedor, numero, tipo de API (Meta/Twilio) y acceso.",
		Placeholder: "Ej. Meta Cloud API, numero +521..., token, URL webhook",
		Modules:     []string{"Bot de ventas para WhatsApp", "Chatbot de atencion al cliente"},
	},
	{
		Key:         "website",
		Label:       "Sitio web / Widget",
		Description: "Acceso o dominio para instalar el chatbot.",
		Placeholder: "URL del sitio + acceso al panel o tag manager",
		Modules:     []string{"Chatbot de atencion al cliente"},
	},
	{
		Key:         "crm",
		Label:       "CRM",
		Description: "Acceso al CRM para leads, pipeline y clientes.",
		Placeholder: "Ej. HubSpot, Pipedrive, Zoho + API key",
		Modules:     []string{"Bot de ventas para WhatsApp", "Enriquecimiento y limpieza de CRM"},
	},
	{
		Key:         "shopify",
		Label:       "Shopify",
		Description: "Admin o API key para inventario, pedidos y clientes.",
		Placeholder: "Ej. store.myshopify.com + Admin API access token",
		Modules:     []string{"Sincronizacion Shopify-ERP"},
	},
	{
		Key:         "erp",
		Label:       "ERP / Inventario",
		Description: "Sistema ERP, endpoint y credenciales.",
		Placeholder: "Ej. Odoo / SAP / Bind ERP + API key",
		Modules:     []string{"Sincronizacion Shopify-ERP", "Conciliacion automatica (banco vs ventas)"},
	},
	{
		Key:         "banking",
		Label:       "Bancos / Conciliacion",
		Description: "Formato de estados de cuenta o API bancaria.",
		Placeholder: "Ej. Banorte CSV semanal o API token",
		Modules:     []string{"Conciliacion automatica (banco vs ventas)"},
	},
	{
		Key:         "invoicing",
		Label:       "Facturacion",
		Description: "Proveedor de facturacion o sistema fiscal.",
		Placeholder: "Ej. Facturama / Alegra / Contpaqi + credenciales",
		Modules:     []string{"Facturacion inteligente"},
	},
	{
		Key:         "helpdesk",
		Label:       "Helpdesk / Soporte",
		Description: "Herramienta de tickets y acceso.",
		Placeholder: "Ej. Zendesk / Freshdesk + API key",
		Modules:     []string{"Ruteo de tickets de soporte"},
	},
	{
		Key:         "email",
		Label:       "Correo / Mensajeria",
		Description: "Proveedor de correo para automatizaciones.",
		Placeholder: "Ej. Gmail / Outlook + cuenta y metodo de acceso",
		Modules:     []string{"Automatizacion de correo"},
	},
	{
		Key:         "bi",
		Label:       "BI / Reportes",
		Description: "Fuentes de datos y herramienta de dashboards.",
		Placeholder: "Ej. Google Sheets + Looker Studio",
		Modules:     []string{"Reportes y dashboards operativos"},
	},
	{
		Key:         "storage",
		Label:       "Archivos / Documentos",
		Description: "Carpetas compartidas y plantillas de documentos.",
		Placeholder: "Ej. Google Drive / OneDrive + carpeta compartida",
		Modules: []string{
			"Eficiencia administrativa (archivos y carpetas)",
			"Generador de documentos inteligente",
		},
	},
	{
		Key:         "hr",
		Label:       "HR / Onboarding",
		Description: "Sistema de recursos humanos o accesos internos.",
		Placeholder: "Ej. BambooHR / Google Workspace",
		Modules:     []string{"Onboarding de personal"},
	},
}

// AccessItems returns the onboarding access catalog.
func AccessItems() []AccessItem {
	return accessItems
}
