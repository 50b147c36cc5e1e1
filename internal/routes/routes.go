package routes

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daleel-sa/daleel-backend/internal/config"
	"github.com/daleel-sa/daleel-backend/internal/handlers"
	"github.com/daleel-sa/daleel-backend/internal/middleware"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, cfg *config.Config, whatsapp *handlers.WhatsAppHandler) {
	webhooks := app.Group("/webhook")
	if cfg.DisableWebhookValidation {
		webhooks.Post("/whatsapp", whatsapp.HandleWebhook)
	} else {
		webhooks.Post("/whatsapp", middleware.ValidateTwilioSignature(cfg.TwilioAuthToken), whatsapp.HandleWebhook)
	}

	// Development only; not registered behind signature validation
	app.Post("/test/whatsapp", whatsapp.HandleTestWebhook)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
