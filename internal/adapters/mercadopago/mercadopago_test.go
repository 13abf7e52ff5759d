package mercadopago

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aprendize/aprendize-app/backend/internal/config"
	"github.com/aprendize/aprendize-app/backend/internal/ports"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "not found", status: 404, want: ErrNotFound},
		{name: "unauthorized", status: 401, want: ErrUnauthorized},
		{name: "forbidden", status: 403, want: ErrUnauthorized},
		{name: "rate limited", status: 429, want: ErrRateLimited},
		{name: "bad request", status: 400, want: ErrInvalidRequest},
		{name: "unprocessable", status: 422, want: ErrInvalidRequest},
		{name: "server error", status: 500, want: ErrServerError},
		{name: "bad gateway", status: 502, want: ErrServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClassifyError(&APIError{Status: tt.status, Message: "test"})
			if !errors.Is(err, tt.want) {
				t.Errorf("ClassifyError(status %d) = %v, want %v", tt.status, err, tt.want)
			}
		})
	}
}

// newTestClient aponta o cliente para um servidor httptest que já
// responde o fluxo de token
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			json.NewEncoder(w).Encode(TokenResponse{
				AccessToken: "test-token",
				TokenType:   "Bearer",
				ExpiresIn:   3600,
			})
			return
		}
		handler(w, r)
	}))

	client, err := NewClient(&config.GatewayConfig{
		BaseURL:      server.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, server
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(&config.GatewayConfig{}); err == nil {
		t.Error("NewClient without credentials should fail")
	}
}

func TestCreatePaymentPix(t *testing.T) {
	var gotReq PaymentRequest
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Error("missing bearer token")
		}
		if r.Header.Get("X-Idempotency-Key") == "" {
			t.Error("missing idempotency key")
		}

		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotReq)

		json.NewEncoder(w).Encode(PaymentResponse{
			ID:     123456,
			Status: "pending",
			PointOfInteraction: &PointOfInteraction{
				TransactionData: TransactionData{QRCode: "00020126pix-copia-e-cola"},
			},
		})
	})
	defer server.Close()

	resp, err := client.CreatePayment(context.Background(), &ports.CreatePaymentRequest{
		MethodID:    "pix",
		AmountCents: 8991,
		Description: "Assinatura Mensal",
		Payer:       ports.PayerInfo{Name: "Ana", Email: "ana@example.com", Document: "12345678901"},
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	if gotReq.TransactionAmount != 89.91 {
		t.Errorf("transaction_amount = %v, want 89.91 (centavos convertidos)", gotReq.TransactionAmount)
	}
	if gotReq.PaymentMethodID != "pix" {
		t.Errorf("payment_method_id = %s, want pix", gotReq.PaymentMethodID)
	}
	if gotReq.Payer.Identification == nil || gotReq.Payer.Identification.Type != "CPF" {
		t.Error("11-digit document should be sent as CPF")
	}

	if resp.ID != "123456" {
		t.Errorf("payment id = %s, want 123456", resp.ID)
	}
	if resp.Status != "pending" {
		t.Errorf("status = %s, want raw pending", resp.Status)
	}
	if resp.Artifact.QRData != "00020126pix-copia-e-cola" {
		t.Errorf("QRData = %s", resp.Artifact.QRData)
	}
}

func TestCreatePaymentBoletoMapsMethodID(t *testing.T) {
	var gotReq PaymentRequest
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotReq)
		json.NewEncoder(w).Encode(PaymentResponse{
			ID:     7,
			Status: "pending",
			TransactionDetails: &TransactionDetails{
				ExternalResourceURL: "https://mp.example/boleto.pdf",
				DigitableLine:       "23793.38128 60082",
			},
		})
	})
	defer server.Close()

	resp, err := client.CreatePayment(context.Background(), &ports.CreatePaymentRequest{
		MethodID:    "boleto",
		AmountCents: 95880,
		Payer:       ports.PayerInfo{Email: "ana@example.com"},
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if gotReq.PaymentMethodID != "bolbradesco" {
		t.Errorf("payment_method_id = %s, want bolbradesco", gotReq.PaymentMethodID)
	}
	if resp.Artifact.Barcode == "" || resp.Artifact.DocumentURL == "" {
		t.Error("boleto artifact fields missing")
	}
}

func TestCreatePaymentWithCardToken(t *testing.T) {
	var gotReq PaymentRequest
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotReq)
		json.NewEncoder(w).Encode(PaymentResponse{ID: 9, Status: "approved"})
	})
	defer server.Close()

	if _, err := client.CreatePayment(context.Background(), &ports.CreatePaymentRequest{
		MethodID:    "tok-abc",
		AmountCents: 9990,
		Payer:       ports.PayerInfo{Email: "ana@example.com"},
	}); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	if gotReq.Token != "tok-abc" {
		t.Errorf("token = %s, want tok-abc", gotReq.Token)
	}
	if gotReq.Installments != 1 {
		t.Errorf("installments = %d, want 1", gotReq.Installments)
	}
}

func TestCreateCardToken(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/card_tokens" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(CardTokenResponse{ID: "tok-999", LastFour: "6351"})
	})
	defer server.Close()

	token, err := client.CreateCardToken(context.Background(), ports.CardFields{
		Number: "5031433215406351", HolderName: "APRO", ExpMonth: 11, ExpYear: 2030, CVV: "123",
	})
	if err != nil {
		t.Fatalf("CreateCardToken: %v", err)
	}
	if token != "tok-999" {
		t.Errorf("token = %s, want tok-999", token)
	}
}

func TestGetPaymentStatus(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(PaymentResponse{ID: 123, Status: "in_process"})
	})
	defer server.Close()

	status, err := client.GetPaymentStatus(context.Background(), "123")
	if err != nil {
		t.Fatalf("GetPaymentStatus: %v", err)
	}
	if status != "in_process" {
		t.Errorf("status = %s, want raw in_process", status)
	}
}

func TestGatewayErrorsAreRetryable(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "internal_error", "message": "boom"})
	})
	defer server.Close()

	_, err := client.GetPaymentStatus(context.Background(), "123")
	if !ports.IsGatewayError(err) {
		t.Errorf("adapter failures must satisfy IsGatewayError, got %v", err)
	}
}

func signManifest(secret, dataID, requestID, ts string) string {
	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookHandlerSignature(t *testing.T) {
	const secret = "segredo"
	body := []byte(`{"id":"evt-1","action":"payment.updated","type":"payment","data":{"id":"123"}}`)

	var gotEventID, gotPaymentID string
	wh := &WebhookHandler{
		WebhookSecret: secret,
		OnPaymentUpdate: func(ctx context.Context, eventID, paymentID string) error {
			gotEventID, gotPaymentID = eventID, paymentID
			return nil
		},
	}

	t.Run("valid signature", func(t *testing.T) {
		sig := fmt.Sprintf("ts=1700000000,v1=%s", signManifest(secret, "123", "req-1", "1700000000"))
		if err := wh.HandleNotification(context.Background(), body, sig, "req-1"); err != nil {
			t.Fatalf("HandleNotification: %v", err)
		}
		if gotEventID != "evt-1" || gotPaymentID != "123" {
			t.Errorf("dispatched event=%s payment=%s", gotEventID, gotPaymentID)
		}
	})

	t.Run("tampered signature", func(t *testing.T) {
		sig := "ts=1700000000,v1=deadbeef"
		err := wh.HandleNotification(context.Background(), body, sig, "req-1")
		if !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("error = %v, want ErrInvalidSignature", err)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		err := wh.HandleNotification(context.Background(), body, "nada", "req-1")
		if !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("error = %v, want ErrInvalidSignature", err)
		}
	})
}

func TestWebhookHandlerIgnoresOtherEventTypes(t *testing.T) {
	called := false
	wh := &WebhookHandler{
		SkipSignatureValidation: true,
		OnPaymentUpdate: func(ctx context.Context, eventID, paymentID string) error {
			called = true
			return nil
		},
	}

	body := []byte(`{"id":"evt-1","type":"plan","data":{"id":"p-1"}}`)
	if err := wh.HandleNotification(context.Background(), body, "", ""); err != nil {
		t.Fatalf("HandleNotification: %v", err)
	}
	if called {
		t.Error("non-payment events must not dispatch")
	}
}
