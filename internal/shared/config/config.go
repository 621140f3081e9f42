package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"kan-backend/internal/engine"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	DatabaseURL     string
	Env             string

	GeminiAPIKey         string
	GeminiBaseURL        string
	GeminiModel          string
	GeminiTimeoutSeconds int

	// Engine carries the labor-cost assumptions, resolved once here so the
	// engine itself never reads the environment.
	Engine engine.Constants

	// AppPublicURL is the externally reachable base URL, used for webhook
	// callbacks inside provisioned workflows and as the default checkout
	// return target.
	AppPublicURL string

	N8NBaseURL string
	N8NAPIKey  string

	MetaAppID       string
	MetaAppSecret   string
	MetaRedirectURL string

	MercadoPagoAccessToken         string
	MercadoPagoPublicKey           string
	MercadoPagoAPIBase             string
	MercadoPagoItemTitle           string
	MercadoPagoStatementDescriptor string
	MercadoPagoWebhookURL          string
	PaymentSuccessURL              string
	PaymentPendingURL              string
	PaymentFailureURL              string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	appPublic := strings.TrimRight(strings.TrimSpace(os.Getenv("APP_PUBLIC_URL")), "/")

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,
		Env:             env,

		GeminiAPIKey:         strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL:        getEnv("GEMINI_BASE_URL", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", ""),
		GeminiTimeoutSeconds: getEnvInt("GEMINI_TIMEOUT_SECONDS", 25),

		Engine: loadEngineConstants(),

		AppPublicURL: appPublic,

		N8NBaseURL: strings.TrimRight(getEnv("N8N_BASE_URL", ""), "/"),
		N8NAPIKey:  getEnv("N8N_API_KEY", ""),

		MetaAppID:       getEnv("META_APP_ID", ""),
		MetaAppSecret:   getEnv("META_APP_SECRET", ""),
		MetaRedirectURL: getEnv("META_REDIRECT_URL", ""),

		MercadoPagoAccessToken:         getEnv("MP_ACCESS_TOKEN", ""),
		MercadoPagoPublicKey:           getEnv("MP_PUBLIC_KEY", ""),
		MercadoPagoAPIBase:             getEnv("MP_API_BASE_URL", ""),
		MercadoPagoItemTitle:           getEnv("MP_ITEM_TITLE", ""),
		MercadoPagoStatementDescriptor: getEnv("MP_STATEMENT_DESCRIPTOR", ""),
		MercadoPagoWebhookURL:          getEnv("MP_WEBHOOK_URL", ""),
		PaymentSuccessURL:              getEnv("MP_BACK_URL_SUCCESS", appPublic+"/"),
		PaymentPendingURL:              getEnv("MP_BACK_URL_PENDING", appPublic+"/"),
		PaymentFailureURL:              getEnv("MP_BACK_URL_FAILURE", appPublic+"/"),
	}
}

// loadEngineConstants starts from the reference assumptions and applies any
// environment overrides. Invalid values fall back to the default.
func loadEngineConstants() engine.Constants {
	c := engine.DefaultConstants()
	c.NetMonthlySalaryMXN = getEnvFloat("NET_MONTHLY_SALARY_MXN", c.NetMonthlySalaryMXN)
	c.BenefitsRate = getEnvFloat("BENEFITS_RATE", c.BenefitsRate)
	c.WorkdaysPerMonth = getEnvFloat("WORKDAYS_PER_MONTH", c.WorkdaysPerMonth)
	c.HoursPerDay = getEnvFloat("HOURS_PER_DAY", c.HoursPerDay)
	c.WeeksPerMonth = getEnvFloat("WEEKS_PER_MONTH", c.WeeksPerMonth)
	return c
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
		return parsed
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
		return parsed
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
