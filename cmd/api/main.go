// Package main é o ponto de entrada da API Aprendize
package main

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/aprendize/aprendize-app/backend/internal/adapters/mercadopago"
	"github.com/aprendize/aprendize-app/backend/internal/catalog"
	"github.com/aprendize/aprendize-app/backend/internal/checkout"
	"github.com/aprendize/aprendize-app/backend/internal/config"
	"github.com/aprendize/aprendize-app/backend/internal/coupons"
	"github.com/aprendize/aprendize-app/backend/internal/handlers"
	"github.com/aprendize/aprendize-app/backend/internal/logger"
)

func main() {
	// Carrega configurações
	cfg, err := config.Load()
	if err != nil {
		panic("erro ao carregar configurações: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info().
		Str("env", cfg.Env).
		Bool("gateway_sandbox", cfg.Gateway.Sandbox).
		Msg("iniciando Aprendize API")

	// Cliente do gateway de pagamento
	gateway, err := mercadopago.NewClient(&cfg.Gateway)
	if err != nil {
		log.Fatal().Err(err).Msg("erro ao inicializar cliente do gateway")
	}

	// Catálogo de planos e tabela de cupons
	cat := catalog.New(catalog.DefaultPlans())
	validator := coupons.NewValidator(coupons.DefaultTable())

	// Orquestrador do checkout
	manager := checkout.NewManager(
		cat,
		validator,
		gateway,
		log,
		cfg.Checkout.SessionSeconds,
		cfg.Checkout.LowTimeThresholdSeconds,
	)

	// Webhooks: confirmações assíncronas de PIX e boleto
	provider := &mercadopago.WebhookHandler{
		WebhookSecret:           cfg.Gateway.WebhookSecret,
		SkipSignatureValidation: cfg.IsDevelopment() && cfg.Gateway.WebhookSecret == "",
		OnPaymentUpdate: func(ctx context.Context, eventID, paymentID string) error {
			return manager.HandleGatewayEvent(ctx, eventID, paymentID)
		},
		OnError: func(err error) {
			log.Error().Err(err).Msg("erro ao processar notificação do gateway")
		},
	}

	// Configura o router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	checkoutHandler := handlers.NewCheckoutHandler(manager, cat, log)
	webhookHandler := handlers.NewWebhookHandler(provider, log)
	handlers.SetupRoutes(r, cfg.AllowedOrigins, checkoutHandler, webhookHandler)

	// Inicia o servidor
	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("servidor rodando")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("erro ao iniciar servidor")
	}
}
