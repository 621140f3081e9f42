package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kan-backend/internal/engine"
	"kan-backend/internal/leads"
	"kan-backend/internal/llm"
	"kan-backend/internal/llm/gemini"
	"kan-backend/internal/meta"
	"kan-backend/internal/payments"
	"kan-backend/internal/projects"
	"kan-backend/internal/provision"
	"kan-backend/internal/shared/config"
	"kan-backend/internal/shared/metrics"
	"kan-backend/internal/shared/server/middleware"
	"kan-backend/internal/shared/server/respond"
	"kan-backend/internal/shared/storage/db"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT": {Rate: 10, Burst: 30},
			},
		}),
	)

	// The module catalog is static data shared by every request; a broken
	// catalog is a programming error worth failing fast on.
	if err := engine.VerifyCatalog(); err != nil {
		log.Fatalf("catalog verification failed: %v", err)
	}

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var llmClient llm.Client
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel,
			time.Duration(cfg.GeminiTimeoutSeconds)*time.Second)
		if err != nil {
			log.Printf("gemini client disabled: %v", err)
		} else {
			llmClient = client
		}
	}

	analyzer := engine.NewAnalyzer(cfg.Engine, llmClient)

	var leadsRepo leads.LeadsRepo
	if sqlDB != nil {
		leadsRepo = &leads.PGRepo{DB: sqlDB}
	} else {
		leadsRepo = leads.NewMemoryRepo()
	}
	leadSvc := leads.NewService(leadsRepo, analyzer, llmClient)
	leadHandler := leads.NewHandler(leadSvc)

	var provisioner *provision.Client
	if cfg.N8NBaseURL != "" {
		provisioner = provision.NewClient(cfg.N8NBaseURL, cfg.N8NAPIKey, cfg.AppPublicURL)
	}

	var projectsRepo projects.ProjectsRepo
	if sqlDB != nil {
		projectsRepo = &projects.PGRepo{DB: sqlDB}
	} else {
		projectsRepo = projects.NewMemoryRepo()
	}
	projectSvc := projects.NewService(projectsRepo, leadSvc, provisioner)
	projectHandler := projects.NewHandler(projectSvc)

	var tokenRepo meta.TokenRepo
	if sqlDB != nil {
		tokenRepo = &meta.PGRepo{DB: sqlDB}
	} else {
		tokenRepo = meta.NewMemoryRepo()
	}
	metaSvc := meta.NewService(cfg.MetaAppID, cfg.MetaAppSecret, cfg.MetaRedirectURL, tokenRepo, leadSvc)
	metaHandler := meta.NewHandler(metaSvc, meta.NewValidator())

	var mp *payments.Client
	if cfg.MercadoPagoAccessToken != "" && cfg.MercadoPagoPublicKey != "" {
		mp = payments.NewClient(payments.Config{
			AccessToken:         cfg.MercadoPagoAccessToken,
			PublicKey:           cfg.MercadoPagoPublicKey,
			APIBase:             cfg.MercadoPagoAPIBase,
			ItemTitle:           cfg.MercadoPagoItemTitle,
			StatementDescriptor: cfg.MercadoPagoStatementDescriptor,
			WebhookURL:          cfg.MercadoPagoWebhookURL,
			BackURLs: payments.BackURLs{
				Success: cfg.PaymentSuccessURL,
				Pending: cfg.PaymentPendingURL,
				Failure: cfg.PaymentFailureURL,
			},
		})
	}
	paymentHandler := payments.NewHandler(payments.NewService(leadSvc, projectSvc, mp))

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/health/ai", aiHealth(llmClient))
	api.GET("/metrics", metrics.Handler())
	leadHandler.RegisterRoutes(api)
	projectHandler.RegisterRoutes(api)
	metaHandler.RegisterRoutes(api)
	paymentHandler.RegisterRoutes(api)

	return r
}

// aiHealth probes the generation backend with a one-word prompt. Missing
// credentials are a 400 (operator misconfiguration), everything else a 503.
func aiHealth(client llm.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil {
			respond.JSON(c, http.StatusBadRequest, gin.H{"ok": false, "error": string(llm.ReasonMissingAPIKey)})
			return
		}
		out, err := client.Generate(c.Request.Context(), llm.GenerateInput{
			Prompt:          "ping",
			MaxOutputTokens: 8,
		})
		if err != nil {
			reason := llm.ReasonOf(err)
			status := http.StatusServiceUnavailable
			if reason == llm.ReasonMissingAPIKey {
				status = http.StatusBadRequest
			}
			respond.JSON(c, status, gin.H{"ok": false, "error": string(reason)})
			return
		}
		respond.JSON(c, http.StatusOK, gin.H{"ok": true, "model": out.Model})
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
