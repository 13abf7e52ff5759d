package mercadopago

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSignature indica que a assinatura do webhook não confere
var ErrInvalidSignature = errors.New("assinatura do webhook inválida")

// WebhookHandler valida e despacha notificações do Mercado Pago.
// O Mercado Pago assina cada notificação com HMAC-SHA256 no header
// x-signature, no formato "ts=<timestamp>,v1=<hash>".
type WebhookHandler struct {
	// OnPaymentUpdate é chamado para cada notificação de pagamento válida
	OnPaymentUpdate func(ctx context.Context, eventID, paymentID string) error

	// OnError é chamado quando uma notificação falha (opcional)
	OnError func(err error)

	// WebhookSecret é a chave secreta configurada no painel do gateway
	WebhookSecret string

	// SkipSignatureValidation desabilita a validação (apenas desenvolvimento)
	SkipSignatureValidation bool
}

// HandleNotification valida a assinatura, parseia o payload e despacha
// o evento. signature é o header x-signature e requestID o x-request-id.
func (wh *WebhookHandler) HandleNotification(ctx context.Context, body []byte, signature, requestID string) error {
	var notif WebhookNotification
	if err := json.Unmarshal(body, &notif); err != nil {
		return wh.fail(fmt.Errorf("payload de webhook inválido: %w", err))
	}

	if !wh.SkipSignatureValidation {
		if err := wh.verifySignature(notif.Data.ID, requestID, signature); err != nil {
			return wh.fail(err)
		}
	}

	// Só notificações de pagamento interessam; as demais são confirmadas
	// sem processamento para evitar retentativas
	if notif.Type != "payment" || notif.Data.ID == "" {
		return nil
	}

	if wh.OnPaymentUpdate == nil {
		return nil
	}
	if err := wh.OnPaymentUpdate(ctx, notif.ID, notif.Data.ID); err != nil {
		return wh.fail(err)
	}
	return nil
}

// verifySignature confere o HMAC-SHA256 do manifesto da notificação.
// O manifesto segue o formato documentado:
// "id:<data.id>;request-id:<x-request-id>;ts:<ts>;"
func (wh *WebhookHandler) verifySignature(dataID, requestID, signature string) error {
	if wh.WebhookSecret == "" {
		return fmt.Errorf("%w: secret não configurado", ErrInvalidSignature)
	}

	var ts, v1 string
	for _, part := range strings.Split(signature, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "ts":
			ts = value
		case "v1":
			v1 = value
		}
	}
	if ts == "" || v1 == "" {
		return fmt.Errorf("%w: header x-signature malformado", ErrInvalidSignature)
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)
	mac := hmac.New(sha256.New, []byte(wh.WebhookSecret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(v1)) {
		return ErrInvalidSignature
	}
	return nil
}

func (wh *WebhookHandler) fail(err error) error {
	if wh.OnError != nil {
		wh.OnError(err)
	}
	return err
}
