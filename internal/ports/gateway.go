// Package ports define as interfaces (portas) para adaptadores externos
// Seguindo o padrão Hexagonal Architecture / Ports & Adapters
package ports

import (
	"context"
	"errors"
)

// ErrGateway indica uma falha genérica do gateway de pagamento.
// Toda falha do gateway é apresentada ao usuário como retentável,
// nunca como erro fatal.
var ErrGateway = errors.New("gateway de pagamento indisponível")

// IsGatewayError retorna true se o erro veio do gateway de pagamento
func IsGatewayError(err error) bool {
	return errors.Is(err, ErrGateway)
}

// ──────────────────────────────────────────────
// Tipos do gateway
// ──────────────────────────────────────────────

// CardFields representa os dados de um cartão novo a ser tokenizado.
// Os dados nunca saem da fronteira do gateway; o restante da aplicação
// só enxerga o token resultante.
type CardFields struct {
	Number     string
	HolderName string
	ExpMonth   int
	ExpYear    int
	CVV        string
}

// PayerInfo representa os dados do pagador
type PayerInfo struct {
	Name     string
	Email    string
	Document string // CPF ou CNPJ
}

// PaymentArtifact carrega os dados específicos do método retornados pelo
// gateway na criação do pagamento
type PaymentArtifact struct {
	QRData      string // Código PIX copia e cola
	Barcode     string // Linha digitável do boleto
	DocumentURL string // URL do boleto imprimível
}

// CreatePaymentRequest representa uma requisição de criação de pagamento
type CreatePaymentRequest struct {
	MethodID    string // ID do método salvo, token de cartão, "pix" ou "boleto"
	AmountCents int64  // Valor em centavos
	Description string
	Payer       PayerInfo
}

// CreatePaymentResponse representa a resposta do gateway
type CreatePaymentResponse struct {
	ID       string // ID do pagamento no gateway
	Status   string // Status cru do gateway (ainda não normalizado)
	Artifact PaymentArtifact
}

// ──────────────────────────────────────────────
// Interface do gateway
// ──────────────────────────────────────────────

// Gateway define a fronteira com o gateway de pagamento externo.
// Qualquer chamada pode falhar com um erro que satisfaz IsGatewayError.
type Gateway interface {
	// CreateCardToken tokeniza os dados de um cartão novo. O token é de uso único.
	CreateCardToken(ctx context.Context, card CardFields) (string, error)

	// CreatePayment cria um pagamento e retorna o artefato específico do método
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error)

	// GetPaymentStatus consulta o status cru de um pagamento
	GetPaymentStatus(ctx context.Context, paymentID string) (string, error)

	// RefundPayment solicita a devolução de um pagamento aprovado
	RefundPayment(ctx context.Context, paymentID string) error
}
