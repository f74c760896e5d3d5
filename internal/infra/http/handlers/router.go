package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/http/middleware"
)

type RouterConfig struct {
	Leads          *LeadHandler
	Export         *ExportHandler
	Auth           *AuthHandler
	Health         *HealthHandler
	WhatsApp       *WhatsAppHandler
	Webhook        *WebhookHandler
	JWTSecret      []byte
	AllowedOrigins []string
	// EnableTestWebhook expõe POST /webhook/test (desenvolvimento)
	EnableTestWebhook bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/webhook", func(r chi.Router) {
		r.Post("/twilio", cfg.Webhook.Twilio)
		r.Get("/cloud", cfg.Webhook.CloudVerify)
		r.Post("/cloud", cfg.Webhook.Cloud)
		if cfg.EnableTestWebhook {
			r.Post("/test", cfg.Webhook.Test)
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", cfg.Health.Handle)
		r.Post("/login", cfg.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))

			r.Get("/leads", cfg.Leads.List)
			r.Get("/leads/phone/{phone}", cfg.Leads.ByPhone)
			r.Get("/leads/{id}", cfg.Leads.Get)
			r.Patch("/leads/{id}/status", cfg.Leads.UpdateStatus)
			r.Patch("/leads/{id}/assign", cfg.Leads.Assign)
			r.Patch("/leads/{id}/notes", cfg.Leads.UpdateNotes)
			r.Get("/stats", cfg.Leads.GetStats)
			r.Get("/export/excel", cfg.Export.Excel)
			r.Get("/whatsapp/qr", cfg.WhatsApp.QRCode)
		})
	})

	return r
}
