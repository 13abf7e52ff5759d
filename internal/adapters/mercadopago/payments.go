package mercadopago

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aprendize/aprendize-app/backend/internal/ports"
)

// amountToReais converte centavos para o valor decimal em reais aceito pela API
func amountToReais(cents int64) float64 {
	v, _ := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Round(2).Float64()
	return v
}

// wrapGatewayError embrulha falhas do adaptador como erro retentável de gateway
func wrapGatewayError(err error) error {
	return fmt.Errorf("%w: %v", ports.ErrGateway, ClassifyError(err))
}

// CreateCardToken tokeniza os dados de um cartão novo.
// O token retornado é de uso único: consumido na primeira tentativa de pagamento.
func (c *Client) CreateCardToken(ctx context.Context, card ports.CardFields) (string, error) {
	req := CardTokenRequest{
		CardNumber:      card.Number,
		CardholderName:  card.HolderName,
		ExpirationMonth: card.ExpMonth,
		ExpirationYear:  card.ExpYear,
		SecurityCode:    card.CVV,
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, "/v1/card_tokens", req)
	if err != nil {
		return "", wrapGatewayError(err)
	}

	var resp CardTokenResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", wrapGatewayError(fmt.Errorf("erro ao decodificar resposta: %w", err))
	}

	return resp.ID, nil
}

// CreatePayment cria um pagamento e traduz a resposta para o artefato do método
func (c *Client) CreatePayment(ctx context.Context, req *ports.CreatePaymentRequest) (*ports.CreatePaymentResponse, error) {
	payer := Payer{
		Email:     req.Payer.Email,
		FirstName: req.Payer.Name,
	}
	if req.Payer.Document != "" {
		payer.Identification = &Identification{
			Type:   documentType(req.Payer.Document),
			Number: req.Payer.Document,
		}
	}

	apiReq := PaymentRequest{
		TransactionAmount: amountToReais(req.AmountCents),
		Description:       req.Description,
		Payer:             payer,
	}

	switch req.MethodID {
	case "pix":
		apiReq.PaymentMethodID = "pix"
	case "boleto":
		// A API identifica o boleto pelo emissor
		apiReq.PaymentMethodID = "bolbradesco"
	default:
		// Cartão: o MethodID carrega o token (novo) ou o ID do cartão salvo
		apiReq.Token = req.MethodID
		apiReq.Installments = 1
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, "/v1/payments", apiReq)
	if err != nil {
		return nil, wrapGatewayError(err)
	}

	var resp PaymentResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, wrapGatewayError(fmt.Errorf("erro ao decodificar resposta: %w", err))
	}

	out := &ports.CreatePaymentResponse{
		ID:     strconv.FormatInt(resp.ID, 10),
		Status: resp.Status,
	}
	if resp.PointOfInteraction != nil {
		out.Artifact.QRData = resp.PointOfInteraction.TransactionData.QRCode
	}
	if resp.TransactionDetails != nil {
		out.Artifact.Barcode = resp.TransactionDetails.DigitableLine
		out.Artifact.DocumentURL = resp.TransactionDetails.ExternalResourceURL
	}

	return out, nil
}

// GetPaymentStatus consulta o status cru de um pagamento existente
func (c *Client) GetPaymentStatus(ctx context.Context, paymentID string) (string, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil)
	if err != nil {
		return "", wrapGatewayError(err)
	}

	var resp PaymentResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", wrapGatewayError(fmt.Errorf("erro ao decodificar resposta: %w", err))
	}

	return resp.Status, nil
}

// RefundPayment solicita a devolução integral de um pagamento aprovado
func (c *Client) RefundPayment(ctx context.Context, paymentID string) error {
	path := fmt.Sprintf("/v1/payments/%s/refunds", paymentID)
	if _, err := c.doRequest(ctx, http.MethodPost, path, struct{}{}); err != nil {
		return wrapGatewayError(err)
	}
	return nil
}

// documentType infere o tipo do documento pelo tamanho (CPF tem 11 dígitos)
func documentType(document string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, document)
	if len(digits) > 11 {
		return "CNPJ"
	}
	return "CPF"
}

// A asserção garante que o cliente satisfaz a porta do gateway
var _ ports.Gateway = (*Client)(nil)
