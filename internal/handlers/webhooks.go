package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/aprendize/aprendize-app/backend/internal/adapters/mercadopago"
)

// WebhookHandler recebe notificações do gateway de pagamento
type WebhookHandler struct {
	provider *mercadopago.WebhookHandler
	log      zerolog.Logger
}

// NewWebhookHandler cria um novo handler de webhooks
func NewWebhookHandler(provider *mercadopago.WebhookHandler, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{provider: provider, log: log}
}

// HandlePaymentWebhook processa notificações de pagamento do gateway
// Endpoint: POST /api/webhooks/payments
func (wh *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		wh.log.Error().Err(err).Msg("webhook: erro ao ler body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "erro ao ler requisição"})
		return
	}

	signature := c.GetHeader("x-signature")
	requestID := c.GetHeader("x-request-id")

	err = wh.provider.HandleNotification(c.Request.Context(), body, signature, requestID)
	if err != nil {
		if errors.Is(err, mercadopago.ErrInvalidSignature) {
			wh.log.Warn().Msg("webhook: assinatura inválida")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "assinatura inválida"})
			return
		}
		// Erros de processamento já foram logados; respondemos 200
		// mesmo assim para evitar retentativas do gateway
		wh.log.Error().Err(err).Msg("webhook: erro no processamento")
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
