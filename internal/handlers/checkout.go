// Package handlers contém os handlers HTTP da aplicação
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/aprendize/aprendize-app/backend/internal/catalog"
	"github.com/aprendize/aprendize-app/backend/internal/checkout"
	"github.com/aprendize/aprendize-app/backend/internal/domain"
	"github.com/aprendize/aprendize-app/backend/internal/payment"
	"github.com/aprendize/aprendize-app/backend/internal/ports"
)

// CheckoutHandler expõe o fluxo de checkout via HTTP
type CheckoutHandler struct {
	manager *checkout.Manager
	catalog *catalog.Catalog
	log     zerolog.Logger
}

// NewCheckoutHandler cria um novo handler de checkout
func NewCheckoutHandler(manager *checkout.Manager, cat *catalog.Catalog, log zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{manager: manager, catalog: cat, log: log}
}

// GetPlans lista os planos de assinatura disponíveis
// Endpoint: GET /api/plans
func (h *CheckoutHandler) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.catalog.All()})
}

// CreateSessionRequest representa a abertura de uma sessão de checkout
type CreateSessionRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Payer  struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"required,email"`
		Document string `json:"document"`
	} `json:"payer" binding:"required"`
}

// CreateSession abre uma nova sessão de checkout com tempo de vida limitado
// Endpoint: POST /api/checkout/sessions
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dados da sessão inválidos"})
		return
	}

	session := h.manager.CreateSession(req.UserID, ports.PayerInfo{
		Name:     req.Payer.Name,
		Email:    req.Payer.Email,
		Document: req.Payer.Document,
	})

	c.JSON(http.StatusCreated, session.Summary())
}

// SelectPlanRequest representa a seleção de plano
type SelectPlanRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// SelectPlan registra o plano escolhido na sessão
// Endpoint: POST /api/checkout/sessions/:id/plan
func (h *CheckoutHandler) SelectPlan(c *gin.Context) {
	var req SelectPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan_id é obrigatório"})
		return
	}

	if err := h.manager.SelectPlan(c.Param("id"), req.PlanID); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondSummary(c)
}

// ApplyCouponRequest representa a aplicação de cupom
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// ApplyCoupon aplica um cupom de desconto à sessão
// Endpoint: POST /api/checkout/sessions/:id/coupon
func (h *CheckoutHandler) ApplyCoupon(c *gin.Context) {
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code é obrigatório"})
		return
	}

	if err := h.manager.ApplyCoupon(c.Param("id"), req.Code); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondSummary(c)
}

// SelectTabRequest representa a troca de aba de pagamento
type SelectTabRequest struct {
	Tab checkout.PaymentTab `json:"tab" binding:"required"`
}

// SelectPaymentTab troca a aba de método de pagamento da sessão
// Endpoint: POST /api/checkout/sessions/:id/payment-tab
func (h *CheckoutHandler) SelectPaymentTab(c *gin.Context) {
	var req SelectTabRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Tab.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aba de pagamento inválida"})
		return
	}

	if err := h.manager.SelectPaymentTab(c.Param("id"), req.Tab); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondSummary(c)
}

// GetSummary retorna o resumo atual da sessão
// Endpoint: GET /api/checkout/sessions/:id/summary
func (h *CheckoutHandler) GetSummary(c *gin.Context) {
	h.respondSummary(c)
}

// GetSession retorna o estado atual da sessão
// Endpoint: GET /api/checkout/sessions/:id
func (h *CheckoutHandler) GetSession(c *gin.Context) {
	h.respondSummary(c)
}

// DestroySession encerra a sessão e cancela seu contador regressivo
// Endpoint: DELETE /api/checkout/sessions/:id
func (h *CheckoutHandler) DestroySession(c *gin.Context) {
	if err := h.manager.DestroySession(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reset reinicia uma sessão expirada preservando plano e cupom
// Endpoint: POST /api/checkout/sessions/:id/reset
func (h *CheckoutHandler) Reset(c *gin.Context) {
	if err := h.manager.Reset(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondSummary(c)
}

// GeneratePaymentRequest representa a etapa de geração de pagamento
type GeneratePaymentRequest struct {
	// Cartão salvo: seleção explícita (opcional)
	PaymentMethodID string `json:"payment_method_id"`

	// Cartão novo: dados a tokenizar
	Card *CardRequest `json:"card"`
}

// CardRequest carrega os dados de um cartão novo
type CardRequest struct {
	Number     string `json:"number" binding:"required"`
	HolderName string `json:"holder_name" binding:"required"`
	ExpMonth   int    `json:"exp_month" binding:"required,min=1,max=12"`
	ExpYear    int    `json:"exp_year" binding:"required"`
	CVV        string `json:"cvv" binding:"required"`
}

// GeneratePayment gera o artefato de pagamento da aba selecionada
// Endpoint: POST /api/checkout/sessions/:id/payments
func (h *CheckoutHandler) GeneratePayment(c *gin.Context) {
	var req GeneratePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dados de pagamento inválidos"})
		return
	}

	input := checkout.GenerateInput{SelectedMethodID: req.PaymentMethodID}
	if req.Card != nil {
		input.Card = &ports.CardFields{
			Number:     req.Card.Number,
			HolderName: req.Card.HolderName,
			ExpMonth:   req.Card.ExpMonth,
			ExpYear:    req.Card.ExpYear,
			CVV:        req.Card.CVV,
		}
	}

	artifact, err := h.manager.GeneratePayment(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"artifact": artifact})
}

// ConfirmPayment efetiva a cobrança de um artefato gerado
// Endpoint: POST /api/checkout/sessions/:id/payments/:artifactId/confirm
func (h *CheckoutHandler) ConfirmPayment(c *gin.Context) {
	sessionID := c.Param("id")
	status, err := h.manager.ConfirmPayment(c.Request.Context(), sessionID, c.Param("artifactId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{"status": status}
	if status == domain.PaymentStatusPaid {
		if sub, invoice, err := h.manager.Result(sessionID); err == nil {
			resp["subscription"] = sub
			resp["invoice"] = invoice
		}
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterMethodRequest representa o cadastro de um método de pagamento
type RegisterMethodRequest struct {
	Type        domain.PaymentMethodType `json:"type" binding:"required"`
	Brand       string                   `json:"brand"`
	Last4       string                   `json:"last4"`
	ExpiryMonth int                      `json:"expiry_month"`
	ExpiryYear  int                      `json:"expiry_year"`
	IsDefault   bool                     `json:"is_default"`
}

// RegisterPaymentMethod cadastra um método salvo para o usuário
// Endpoint: POST /api/users/:userId/payment-methods
func (h *CheckoutHandler) RegisterPaymentMethod(c *gin.Context) {
	var req RegisterMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Type.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "método de pagamento inválido"})
		return
	}

	method := h.manager.RegisterPaymentMethod(c.Param("userId"), domain.PaymentMethod{
		Type:        req.Type,
		Brand:       req.Brand,
		Last4:       req.Last4,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		IsDefault:   req.IsDefault,
	})
	c.JSON(http.StatusCreated, method)
}

// ListPaymentMethods lista os métodos salvos do usuário
// Endpoint: GET /api/users/:userId/payment-methods
func (h *CheckoutHandler) ListPaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"payment_methods": h.manager.PaymentMethods(c.Param("userId"))})
}

// DownloadInvoice retorna a URL do PDF de uma fatura paga
// Endpoint: GET /api/invoices/:id/download
func (h *CheckoutHandler) DownloadInvoice(c *gin.Context) {
	url, err := h.manager.DownloadInvoice(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"download_url": url})
}

// respondSummary devolve o resumo da sessão do path atual
func (h *CheckoutHandler) respondSummary(c *gin.Context) {
	summary, err := h.manager.Summary(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// respondError traduz erros de domínio em respostas HTTP
func (h *CheckoutHandler) respondError(c *gin.Context, err error) {
	switch {
	case checkout.IsSessionExpired(err):
		// 410: a sessão expirou; o cliente deve oferecer o reinício
		c.JSON(http.StatusGone, gin.H{"error": "sessão expirada", "can_reset": true})
	case checkout.IsAlreadyProcessing(err):
		// Submissão duplicada é ignorada sem disparar nova cobrança
		c.JSON(http.StatusAccepted, gin.H{"status": "processing"})
	case checkout.IsInvalidCoupon(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "cupom inválido"})
	case payment.IsNoPaymentMethodAvailable(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "nenhum método de pagamento disponível"})
	case errors.Is(err, checkout.ErrNoPlanSelected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "nenhum plano selecionado"})
	case errors.Is(err, payment.ErrTokenAlreadyUsed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "token de cartão já utilizado"})
	case errors.Is(err, checkout.ErrSessionNotFound),
		errors.Is(err, checkout.ErrInvoiceNotFound),
		errors.Is(err, catalog.ErrPlanNotFound),
		errors.Is(err, payment.ErrArtifactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvoiceNotPaid):
		c.JSON(http.StatusConflict, gin.H{"error": "fatura ainda não foi paga"})
	case errors.Is(err, checkout.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "operação inválida no estado atual da sessão"})
	case ports.IsGatewayError(err):
		// Falha de gateway nunca é fatal para a sessão: o cliente pode tentar de novo
		h.log.Error().Err(err).Msg("falha do gateway de pagamento")
		c.JSON(http.StatusBadGateway, gin.H{"error": "gateway de pagamento indisponível", "retryable": true})
	default:
		h.log.Error().Err(err).Msg("erro inesperado no checkout")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro interno"})
	}
}

// HealthCheck verifica se o servidor está funcionando
// Endpoint: GET /health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "aprendize-api",
	})
}
