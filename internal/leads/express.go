package leads

import (
	"strings"

	"kan-backend/internal/engine"
)

// ExpressOffer is a fixed-price quick-start package. The price here is the
// source of truth for express checkouts; engine pricing still runs so the
// lead carries a full analysis.
type ExpressOffer struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	PriceMXN int      `json:"price_mxn"`
	Modules  []string `json:"modules"`
	ETALabel string   `json:"eta_label"`
}

var expressOffers = map[string]ExpressOffer{
	"chatbot_whatsapp": {
		Key:      "chatbot_whatsapp",
		Label:    "Chatbot basico para WhatsApp",
		PriceMXN: 2000,
		Modules: []string{
			"Bot de ventas para WhatsApp",
			"Chatbot de atencion al cliente",
		},
		ETALabel: "48 horas",
	},
	"agenda_chatbot": {
		Key:      "agenda_chatbot",
		Label:    "Agenda + chatbot por WhatsApp",
		PriceMXN: 3500,
		Modules: []string{
			"Bot de ventas para WhatsApp",
			"Eficiencia administrativa (archivos y carpetas)",
		},
		ETALabel: "48 horas",
	},
}

// ExpressOfferByKey returns a catalog offer, defaulting unknown keys to the
// basic chatbot.
func ExpressOfferByKey(key string) ExpressOffer {
	offer, ok := expressOffers[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return expressOffers["chatbot_whatsapp"]
	}
	return offer
}

// ExpressOfferFor detects whether an intake came from an express quick-start
// flow. The budget field carries the express marker; the rest of the text
// disambiguates which package it was.
func ExpressOfferFor(in engine.BusinessIntake) (ExpressOffer, bool) {
	budget := strings.ToLower(strings.TrimSpace(in.BudgetRange))
	if !strings.Contains(budget, "express") {
		return ExpressOffer{}, false
	}

	text := strings.ToLower(strings.Join([]string{
		in.BusinessFocus,
		in.Goals,
		in.Processes,
		budget,
	}, " "))

	for _, token := range []string{"agenda", "cita", "recordatorio", "3,500"} {
		if strings.Contains(text, token) {
			return expressOffers["agenda_chatbot"], true
		}
	}
	return expressOffers["chatbot_whatsapp"], true
}

func quickIntake(offer ExpressOffer, companyName, contactEmail, contactWhatsApp string) engine.BusinessIntake {
	company := strings.TrimSpace(companyName)
	if company == "" {
		company = "Negocio local"
	}

	if offer.Key == "agenda_chatbot" {
		return engine.BusinessIntake{
			CompanyName:        company,
			Industry:           "Servicios",
			BusinessFocus:      "Agenda y confirmacion de citas por WhatsApp",
			Region:             "Mexico",
			TeamSize:           1,
			EmployeeBand:       "1-5",
			TransactionVolume:  "bajo",
			ToolingLevel:       "solo_whatsapp",
			ManualHoursPerWeek: 6,
			SelectedModules:    []string{"whatsapp_ventas", "eficiencia_administrativa"},
			Processes:          "agenda, citas, confirmaciones y recordatorios",
			Bottlenecks:        "Confirmamos citas manualmente por chat y se pierden espacios por falta de recordatorios automaticos.",
			Systems:            "WhatsApp",
			Goals:              "Automatizar agenda, confirmaciones y seguimiento por WhatsApp.",
			BudgetRange:        "$3,500 MXN (precio fijo express)",
			ContactEmail:       strings.TrimSpace(contactEmail),
			ContactWhatsApp:    strings.TrimSpace(contactWhatsApp),
		}
	}

	return engine.BusinessIntake{
		CompanyName:        company,
		Industry:           "Comercio",
		BusinessFocus:      "Atencion y ventas por WhatsApp con chatbot basico",
		Region:             "Mexico",
		TeamSize:           1,
		EmployeeBand:       "1-5",
		TransactionVolume:  "bajo",
		ToolingLevel:       "solo_whatsapp",
		ManualHoursPerWeek: 6,
		SelectedModules:    []string{"whatsapp_ventas"},
		Processes:          "mensajes entrantes, FAQ y seguimiento de prospectos",
		Bottlenecks:        "Responder mensajes manualmente quita tiempo y provoca que algunos prospectos se pierdan sin seguimiento.",
		Systems:            "WhatsApp",
		Goals:              "Activar chatbot rapido para responder FAQ y captar datos de contacto.",
		BudgetRange:        "$2,000 MXN (precio fijo express)",
		ContactEmail:       strings.TrimSpace(contactEmail),
		ContactWhatsApp:    strings.TrimSpace(contactWhatsApp),
	}
}
