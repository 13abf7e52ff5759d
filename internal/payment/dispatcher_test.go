package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aprendize/aprendize-app/backend/internal/domain"
	"github.com/aprendize/aprendize-app/backend/internal/ports"
)

// fakeGateway registra as chamadas feitas e devolve respostas programadas
type fakeGateway struct {
	tokenCalls   int
	paymentCalls []ports.CreatePaymentRequest
	statusByID   map[string]string

	createStatus string
	failCreate   bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		statusByID:   make(map[string]string),
		createStatus: "approved",
	}
}

func (g *fakeGateway) CreateCardToken(ctx context.Context, card ports.CardFields) (string, error) {
	g.tokenCalls++
	return "tok-123", nil
}

func (g *fakeGateway) CreatePayment(ctx context.Context, req *ports.CreatePaymentRequest) (*ports.CreatePaymentResponse, error) {
	if g.failCreate {
		return nil, ports.ErrGateway
	}
	g.paymentCalls = append(g.paymentCalls, *req)

	resp := &ports.CreatePaymentResponse{ID: "pay-1", Status: g.createStatus}
	switch req.MethodID {
	case "pix":
		resp.Status = "pending"
		resp.Artifact.QRData = "00020126580014BR.GOV.BCB.PIX0136aprendize-chave-pix"
	case "boleto":
		resp.Status = "pending"
		resp.Artifact.Barcode = "23793.38128 60082.677139 66000.063305 6 95550000008991"
		resp.Artifact.DocumentURL = "https://gateway.example/boletos/pay-1.pdf"
	}
	return resp, nil
}

func (g *fakeGateway) GetPaymentStatus(ctx context.Context, paymentID string) (string, error) {
	status, ok := g.statusByID[paymentID]
	if !ok {
		return "pending", nil
	}
	return status, nil
}

func (g *fakeGateway) RefundPayment(ctx context.Context, paymentID string) error {
	return nil
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		gateway string
		want    domain.PaymentStatus
	}{
		{"approved", domain.PaymentStatusPaid},
		{"authorized", domain.PaymentStatusPaid},
		{"pending", domain.PaymentStatusPending},
		{"in_process", domain.PaymentStatusPending},
		{"refunded", domain.PaymentStatusRefunded},
		{"charged_back", domain.PaymentStatusRefunded},
		// Status desconhecidos falham fechado
		{"rejected", domain.PaymentStatusFailed},
		{"cancelled", domain.PaymentStatusFailed},
		{"", domain.PaymentStatusFailed},
		{"APPROVED", domain.PaymentStatusFailed},
	}

	for _, tt := range tests {
		if got := NormalizeStatus(tt.gateway); got != tt.want {
			t.Errorf("NormalizeStatus(%q) = %s, want %s", tt.gateway, got, tt.want)
		}
	}
}

func TestStoredCardResolution(t *testing.T) {
	methods := []domain.PaymentMethod{
		{ID: "pm-1", Type: domain.PaymentMethodTypeCredit, Last4: "4242"},
		{ID: "pm-2", Type: domain.PaymentMethodTypeCredit, Last4: "1111", IsDefault: true},
	}

	tests := []struct {
		name       string
		methods    []domain.PaymentMethod
		selected   string
		wantMethod string
		wantErr    bool
	}{
		{name: "explicit selection wins", methods: methods, selected: "pm-1", wantMethod: "pm-1"},
		{name: "falls back to default", methods: methods, wantMethod: "pm-2"},
		{name: "selection not in list", methods: methods, selected: "pm-9", wantErr: true},
		{name: "no methods at all", methods: nil, wantErr: true},
		{
			name:    "methods without default and no selection",
			methods: []domain.PaymentMethod{{ID: "pm-1", Type: domain.PaymentMethodTypeCredit}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(newFakeGateway())
			charger, err := d.Charger(KindStoredCard, ChargerOptions{
				Methods:          tt.methods,
				SelectedMethodID: tt.selected,
			})
			if err != nil {
				t.Fatalf("Charger: %v", err)
			}

			a, err := charger.Generate(context.Background(), 9990, "Assinatura")
			if tt.wantErr {
				if !IsNoPaymentMethodAvailable(err) {
					t.Errorf("Generate error = %v, want ErrNoPaymentMethodAvailable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if a.MethodID != tt.wantMethod {
				t.Errorf("MethodID = %s, want %s", a.MethodID, tt.wantMethod)
			}
			if a.Kind != KindStoredCard || a.IsAsync() {
				t.Error("stored card artifact should be synchronous")
			}
		})
	}
}

func TestStoredCardConfirm(t *testing.T) {
	gw := newFakeGateway()
	d := NewDispatcher(gw)

	charger, _ := d.Charger(KindStoredCard, ChargerOptions{
		Methods: []domain.PaymentMethod{{ID: "pm-1", Type: domain.PaymentMethodTypeCredit, IsDefault: true}},
	})
	a, err := charger.Generate(context.Background(), 9990, "Assinatura")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	status, err := charger.Confirm(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if status != domain.PaymentStatusPaid {
		t.Errorf("status = %s, want paid", status)
	}
	if len(gw.paymentCalls) != 1 {
		t.Fatalf("gateway payments = %d, want 1", len(gw.paymentCalls))
	}
	if gw.paymentCalls[0].MethodID != "pm-1" || gw.paymentCalls[0].AmountCents != 9990 {
		t.Errorf("unexpected payment request: %+v", gw.paymentCalls[0])
	}

	// Confirmação repetida apenas reconsulta, não cobra de novo
	gw.statusByID["pay-1"] = "approved"
	if _, err := charger.Confirm(context.Background(), a.ID); err != nil {
		t.Fatalf("Confirm again: %v", err)
	}
	if len(gw.paymentCalls) != 1 {
		t.Errorf("repeated confirm must not create another payment, got %d", len(gw.paymentCalls))
	}
}

func TestNewCardTokenSingleUse(t *testing.T) {
	gw := newFakeGateway()
	d := NewDispatcher(gw)

	charger, err := d.Charger(KindNewCard, ChargerOptions{
		Card: &ports.CardFields{Number: "5031433215406351", HolderName: "APRO", ExpMonth: 11, ExpYear: 2030, CVV: "123"},
	})
	if err != nil {
		t.Fatalf("Charger: %v", err)
	}

	a, err := charger.Generate(context.Background(), 8991, "Assinatura")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gw.tokenCalls != 1 {
		t.Errorf("tokenization calls = %d, want 1", gw.tokenCalls)
	}

	if _, err := charger.Confirm(context.Background(), a.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if gw.paymentCalls[0].MethodID != "tok-123" {
		t.Errorf("payment should use the card token, got %s", gw.paymentCalls[0].MethodID)
	}

	// O token é de uso único: segunda confirmação é rejeitada
	if _, err := charger.Confirm(context.Background(), a.ID); !errors.Is(err, ErrTokenAlreadyUsed) {
		t.Errorf("second confirm error = %v, want ErrTokenAlreadyUsed", err)
	}
	if len(gw.paymentCalls) != 1 {
		t.Errorf("consumed token must not charge again, payments = %d", len(gw.paymentCalls))
	}
}

func TestNewCardGenerateRequiresCardFields(t *testing.T) {
	d := NewDispatcher(newFakeGateway())
	charger, err := d.Charger(KindNewCard, ChargerOptions{})
	if err != nil {
		t.Fatalf("Charger: %v", err)
	}
	if _, err := charger.Generate(context.Background(), 9990, "Assinatura"); err == nil {
		t.Error("Generate without card fields should fail")
	}
}

func TestNewCardConfirmWithoutCardFields(t *testing.T) {
	gw := newFakeGateway()
	d := NewDispatcher(gw)

	charger, _ := d.Charger(KindNewCard, ChargerOptions{
		Card: &ports.CardFields{Number: "5031433215406351", HolderName: "APRO", ExpMonth: 11, ExpYear: 2030, CVV: "123"},
	})
	a, err := charger.Generate(context.Background(), 8991, "Assinatura")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// A confirmação vem de outra requisição HTTP, sem os dados do
	// cartão: o token guardado no artefato basta
	confirmer, err := d.Charger(KindNewCard, ChargerOptions{})
	if err != nil {
		t.Fatalf("Charger for confirm: %v", err)
	}
	status, err := confirmer.Confirm(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if status != domain.PaymentStatusPaid {
		t.Errorf("status = %s, want paid", status)
	}
	if gw.paymentCalls[0].MethodID != "tok-123" {
		t.Errorf("payment should use the stored token, got %s", gw.paymentCalls[0].MethodID)
	}
}

func TestPixGenerate(t *testing.T) {
	gw := newFakeGateway()
	d := NewDispatcher(gw)
	fixed := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return fixed }

	charger, _ := d.Charger(KindPix, ChargerOptions{})
	a, err := charger.Generate(context.Background(), 8991, "Assinatura")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if a.Kind != KindPix || !a.IsAsync() {
		t.Error("pix artifact should be asynchronous")
	}
	if a.CopyPasteCode == "" {
		t.Error("pix artifact must carry the copy-paste code")
	}
	if a.QRCodeBase64 == "" {
		t.Error("pix artifact must carry the rendered QR code")
	}
	if a.ExpiresAt == nil || !a.ExpiresAt.Equal(fixed.Add(24*time.Hour)) {
		t.Errorf("pix expiry = %v, want creation + 24h", a.ExpiresAt)
	}
	if a.GatewayPaymentID != "pay-1" {
		t.Errorf("GatewayPaymentID = %s", a.GatewayPaymentID)
	}
}

func TestBoletoGenerate(t *testing.T) {
	gw := newFakeGateway()
	d := NewDispatcher(gw)
	fixed := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return fixed }

	charger, _ := d.Charger(KindBoleto, ChargerOptions{})
	a, err := charger.Generate(context.Background(), 8991, "Assinatura")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if a.Kind != KindBoleto || !a.IsAsync() {
		t.Error("boleto artifact should be asynchronous")
	}
	if a.BarcodeNumber == "" || a.DocumentURL == "" {
		t.Error("boleto artifact must carry barcode and document URL")
	}
	if a.ExpiresAt == nil || !a.ExpiresAt.Equal(fixed.Add(72*time.Hour)) {
		t.Errorf("boleto expiry = %v, want creation + 72h", a.ExpiresAt)
	}
}

func TestAsyncConfirmPolling(t *testing.T) {
	gw := newFakeGateway()
	d := NewDispatcher(gw)

	charger, _ := d.Charger(KindPix, ChargerOptions{})
	a, err := charger.Generate(context.Background(), 8991, "Assinatura")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Antes da liquidação o status segue pendente
	status, err := charger.Confirm(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if status != domain.PaymentStatusPending {
		t.Errorf("status = %s, want pending", status)
	}

	gw.statusByID["pay-1"] = "approved"
	status, err = charger.Confirm(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Confirm after settlement: %v", err)
	}
	if status != domain.PaymentStatusPaid {
		t.Errorf("status = %s, want paid", status)
	}
}

func TestGenerateGatewayFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.failCreate = true
	d := NewDispatcher(gw)

	charger, _ := d.Charger(KindPix, ChargerOptions{})
	if _, err := charger.Generate(context.Background(), 8991, "Assinatura"); !ports.IsGatewayError(err) {
		t.Errorf("error = %v, want gateway error", err)
	}
}

func TestArtifactNotFound(t *testing.T) {
	d := NewDispatcher(newFakeGateway())
	if _, err := d.Artifact("nao-existe"); !errors.Is(err, ErrArtifactNotFound) {
		t.Errorf("error = %v, want ErrArtifactNotFound", err)
	}
}
