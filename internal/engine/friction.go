package engine

// frictionPattern pairs a customer-facing pain statement with the keywords
// that trigger it. The table is ordered; emitted labels keep table order.
type frictionPattern struct {
	label string
	keys  []string
}

var frictionPatterns = []frictionPattern{
	{
		label: "Tu equipo pierde horas cada semana en tareas repetitivas (capturas, copiar/pegar, Excel).",
		keys:  []string{"manual", "excel", "copiar", "pegar", "captura"},
	},
	{
		label: "Tienes caos administrativo: se pierden archivos, carpetas y versiones (y eso cuesta dinero).",
		keys: []string{
			"carpeta", "carpetas", "archivo", "archivos", "documento", "documentos",
			"papeleo", "organizar", "drive", "onedrive", "dropbox",
		},
	},
	{
		label: "Los errores de copiar/pegar en documentos (cotizaciones, contratos, facturas) te salen caros.",
		keys:  []string{"cotizacion", "cotizar", "contrato", "factura", "facturacion", "pdf", "firma", "firmar"},
	},
	{
		label: "Se te pueden ir ventas porque los leads se pierden entre WhatsApp, correos y notas.",
		keys:  []string{"whatsapp", "correo", "seguimiento", "leads", "prospect"},
	},
	{
		label: "Tus clientes esperan demasiado por una respuesta (y eso mata conversion).",
		keys:  []string{"soporte", "ticket", "respuesta", "tard", "espera", "sla"},
	},
	{
		label: "Pierdes ventas por inventario desactualizado (no sabes que hay realmente).",
		keys:  []string{"inventario", "stock", "erp", "shopify"},
	},
	{
		label: "La facturacion te frena: capturas, correcciones y envios manuales.",
		keys:  []string{"factura", "facturacion", "comprobante", "cfdi", "sat"},
	},
	{
		label: "Tus finanzas se cierran tarde por conciliacion manual y errores de captura.",
		keys:  []string{"banco", "conciliacion", "tesoreria", "contabilidad"},
	},
	{
		label: "Tus reportes llegan tarde: tomas decisiones sin datos al dia.",
		keys:  []string{"reporte", "dashboard", "kpi", "indicador"},
	},
}

const genericFrictionLabel = "Hay tiempos muertos y poca visibilidad: hoy no sabes que pasa en tiempo real."

// DetectFriction maps intake text to pain statements. A label is emitted when
// any of its keywords appears in the normalized combined text; order follows
// the pattern table. If nothing matches, the single generic label is returned.
func DetectFriction(in BusinessIntake) []string {
	text := combinedPainText(in)
	var points []string
	for _, p := range frictionPatterns {
		if containsAny(text, p.keys) {
			points = append(points, p.label)
		}
	}
	if len(points) == 0 {
		points = append(points, genericFrictionLabel)
	}
	return points
}
