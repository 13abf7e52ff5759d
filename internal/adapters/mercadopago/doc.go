// Package mercadopago implementa o adaptador para a API de pagamentos do
// Mercado Pago, cobrindo o contrato da fronteira ports.Gateway.
//
// Este pacote implementa:
//   - Tokenização de cartões (tokens de uso único)
//   - Criação de pagamentos (cartão, PIX e boleto)
//   - Consulta de status e devoluções
//   - Tratamento de webhooks de notificação
//
// # Autenticação
//
// A API usa OAuth2 client_credentials. Você precisa do Client ID e do
// Client Secret da sua aplicação no painel de desenvolvedores.
//
// # Início Rápido
//
// Criar o cliente:
//
//	client, err := mercadopago.NewClient(&cfg.Gateway)
//
// Criar um pagamento PIX:
//
//	resp, err := client.CreatePayment(ctx, &ports.CreatePaymentRequest{
//	    MethodID:    "pix",
//	    AmountCents: 9990,
//	    Description: "Assinatura Aprendize — Mensal",
//	    Payer:       ports.PayerInfo{Name: "João Silva", Email: "joao@exemplo.com", Document: "12345678901"},
//	})
//
// O pagador recebe o código copia e cola em resp.Artifact.QRData.
//
// # Tratamento de Webhooks
//
// Configure um handler de webhook:
//
//	handler := &mercadopago.WebhookHandler{
//	    WebhookSecret: secret,
//	    OnPaymentUpdate: func(ctx context.Context, eventID, paymentID string) error {
//	        // Pagamento mudou de status - reconsultar e liquidar o checkout
//	        return nil
//	    },
//	}
//	err := handler.HandleNotification(ctx, body, r.Header.Get("x-signature"), r.Header.Get("x-request-id"))
//
// # Normalização de status
//
// O adaptador devolve o status cru da API (approved, pending, in_process,
// rejected...). A conversão para a taxonomia interna de quatro valores é
// responsabilidade do pacote payment, não daqui.
//
// # Tratamento de Erros
//
// O pacote fornece erros tipados para condições comuns:
//
//	if mercadopago.IsNotFound(err) {
//	    // Pagamento não existe
//	}
//	if ports.IsGatewayError(err) {
//	    // Falha genérica do gateway - apresentar como retentável
//	}
//
// # Documentação da API
//
// Para mais detalhes, consulte a documentação oficial:
// https://www.mercadopago.com.br/developers
package mercadopago
