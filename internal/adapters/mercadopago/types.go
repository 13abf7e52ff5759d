package mercadopago

import "fmt"

// TokenResponse representa a resposta do endpoint de autenticação OAuth2
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// CardTokenRequest representa a tokenização de um cartão novo
type CardTokenRequest struct {
	CardNumber      string `json:"card_number"`
	CardholderName  string `json:"cardholder_name"`
	ExpirationMonth int    `json:"expiration_month"`
	ExpirationYear  int    `json:"expiration_year"`
	SecurityCode    string `json:"security_code"`
}

// CardTokenResponse representa o token emitido para um cartão
type CardTokenResponse struct {
	ID        string `json:"id"`
	LastFour  string `json:"last_four_digits"`
	ExpiresAt string `json:"date_due,omitempty"`
}

// Identification representa o documento do pagador
type Identification struct {
	Type   string `json:"type"` // CPF ou CNPJ
	Number string `json:"number"`
}

// Payer representa os dados do pagador enviados à API
type Payer struct {
	Email          string          `json:"email,omitempty"`
	FirstName      string          `json:"first_name,omitempty"`
	Identification *Identification `json:"identification,omitempty"`
}

// PaymentRequest representa uma requisição de criação de pagamento
type PaymentRequest struct {
	TransactionAmount float64 `json:"transaction_amount"` // Valor em reais, 2 casas
	Description       string  `json:"description,omitempty"`
	PaymentMethodID   string  `json:"payment_method_id"` // "pix", "bolbradesco" ou bandeira do cartão
	Token             string  `json:"token,omitempty"`   // Token de cartão (uso único)
	Installments      int     `json:"installments,omitempty"`
	Payer             Payer   `json:"payer"`
}

// TransactionData carrega os dados de PIX retornados na criação
type TransactionData struct {
	QRCode    string `json:"qr_code"` // Código copia e cola
	TicketURL string `json:"ticket_url,omitempty"`
}

// PointOfInteraction agrupa os dados de interação do pagamento
type PointOfInteraction struct {
	TransactionData TransactionData `json:"transaction_data"`
}

// TransactionDetails carrega os dados de boleto retornados na criação
type TransactionDetails struct {
	ExternalResourceURL string `json:"external_resource_url,omitempty"` // URL do boleto imprimível
	DigitableLine       string `json:"digitable_line,omitempty"`        // Linha digitável
}

// PaymentResponse representa um pagamento na API
type PaymentResponse struct {
	ID                 int64               `json:"id"`
	Status             string              `json:"status"` // approved, pending, in_process, rejected...
	StatusDetail       string              `json:"status_detail,omitempty"`
	DateOfExpiration   string              `json:"date_of_expiration,omitempty"`
	PointOfInteraction *PointOfInteraction `json:"point_of_interaction,omitempty"`
	TransactionDetails *TransactionDetails `json:"transaction_details,omitempty"`
}

// RefundResponse representa uma devolução criada
type RefundResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// WebhookNotification representa o payload de uma notificação de webhook
type WebhookNotification struct {
	ID     string `json:"id"`     // ID do evento
	Action string `json:"action"` // ex: "payment.updated"
	Type   string `json:"type"`   // ex: "payment"
	Data   struct {
		ID string `json:"id"` // ID do pagamento
	} `json:"data"`
}

// APIError representa um erro retornado pela API
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("mercadopago: %s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("mercadopago: status %d: %s", e.Status, e.Message)
}
