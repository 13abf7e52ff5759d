// Package payment implementa o despacho polimórfico sobre os métodos de
// pagamento do checkout: cartão salvo, cartão novo, PIX e boleto.
// Cada variante tem seu próprio ciclo de geração/confirmação, mas todas
// atendem à mesma interface de capacidade (Charger), o que permite testar
// cada ciclo de forma independente.
package payment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/aprendize/aprendize-app/backend/internal/domain"
	"github.com/aprendize/aprendize-app/backend/internal/ports"
)

// Erros do despachante de pagamentos
var (
	// ErrNoPaymentMethodAvailable indica que não há método salvo selecionado
	// nem método padrão para cobrar
	ErrNoPaymentMethodAvailable = errors.New("payment: nenhum método de pagamento disponível")

	// ErrArtifactNotFound indica que o artefato de pagamento não existe
	ErrArtifactNotFound = errors.New("payment: artefato de pagamento não encontrado")

	// ErrTokenAlreadyUsed indica reuso de um token de cartão, que é de uso único
	ErrTokenAlreadyUsed = errors.New("payment: token de cartão já utilizado")
)

// IsNoPaymentMethodAvailable retorna true se o erro indica ausência de método de pagamento
func IsNoPaymentMethodAvailable(err error) bool {
	return errors.Is(err, ErrNoPaymentMethodAvailable)
}

// Tempo de validade dos artefatos assíncronos
const (
	PixExpiration    = 24 * time.Hour
	BoletoExpiration = 72 * time.Hour
)

// Kind identifica a variante de método de pagamento de um artefato
type Kind string

const (
	KindStoredCard Kind = "stored_card"
	KindNewCard    Kind = "new_card"
	KindPix        Kind = "pix"
	KindBoleto     Kind = "boleto"
)

// Artifact é o resultado da etapa de geração de um pagamento.
// Campos específicos de cada variante ficam vazios nas demais.
type Artifact struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	AmountCents int64      `json:"amount_cents"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`

	// Cartão salvo
	MethodID string `json:"method_id,omitempty"`

	// Cartão novo (token de uso único)
	CardToken string `json:"-"`

	// PIX
	QRCodeBase64  string `json:"qr_code_base64,omitempty"` // Imagem PNG em base64
	CopyPasteCode string `json:"copy_paste_code,omitempty"`

	// Boleto
	BarcodeNumber string `json:"barcode_number,omitempty"`
	DocumentURL   string `json:"document_url,omitempty"`

	// Preenchido quando o gateway já conhece o pagamento
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`

	consumed bool
}

// IsAsync verifica se a confirmação do artefato vem de evento externo
// (webhook) em vez de resposta síncrona
func (a *Artifact) IsAsync() bool {
	return a.Kind == KindPix || a.Kind == KindBoleto
}

// Charger é a capacidade comum a todas as variantes de método de pagamento
type Charger interface {
	// Generate executa a etapa de geração e devolve o artefato resultante
	Generate(ctx context.Context, amountCents int64, description string) (*Artifact, error)

	// Confirm consulta/efetiva a cobrança de um artefato e devolve o status normalizado
	Confirm(ctx context.Context, artifactID string) (domain.PaymentStatus, error)
}

// Dispatcher constrói a variante de Charger adequada e mantém o registro
// de artefatos gerados durante a sessão (estado em memória, escopo da sessão)
type Dispatcher struct {
	gateway ports.Gateway
	now     func() time.Time

	mu        sync.Mutex
	artifacts map[string]*Artifact
}

// NewDispatcher cria um despachante sobre a fronteira do gateway
func NewDispatcher(gateway ports.Gateway) *Dispatcher {
	return &Dispatcher{
		gateway:   gateway,
		now:       time.Now,
		artifacts: make(map[string]*Artifact),
	}
}

// ChargerOptions carrega os dados específicos de cada variante
type ChargerOptions struct {
	// Cartão salvo: métodos cadastrados do usuário e seleção explícita (opcional)
	Methods          []domain.PaymentMethod
	SelectedMethodID string

	// Cartão novo: dados a tokenizar
	Card *ports.CardFields

	// Dados do pagador (todas as variantes)
	Payer ports.PayerInfo
}

// Charger retorna a variante correspondente ao tipo informado
func (d *Dispatcher) Charger(kind Kind, opts ChargerOptions) (Charger, error) {
	switch kind {
	case KindStoredCard:
		return &storedCardCharger{d: d, opts: opts}, nil
	case KindNewCard:
		return &newCardCharger{d: d, opts: opts}, nil
	case KindPix:
		return &pixCharger{d: d, opts: opts}, nil
	case KindBoleto:
		return &boletoCharger{d: d, opts: opts}, nil
	}
	return nil, fmt.Errorf("payment: método de pagamento desconhecido: %s", kind)
}

// Artifact retorna um artefato gerado anteriormente
func (d *Dispatcher) Artifact(id string) (*Artifact, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.artifacts[id]
	if !ok {
		return nil, ErrArtifactNotFound
	}
	return a, nil
}

func (d *Dispatcher) store(a *Artifact) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.artifacts[a.ID] = a
}

func (d *Dispatcher) newArtifact(kind Kind, amountCents int64, description string) *Artifact {
	return &Artifact{
		ID:          uuid.NewString(),
		Kind:        kind,
		AmountCents: amountCents,
		Description: description,
		CreatedAt:   d.now(),
	}
}

// ──────────────────────────────────────────────
// Cartão salvo
// ──────────────────────────────────────────────

// storedCardCharger cobra um método de pagamento já cadastrado.
// Não há etapa de geração junto ao gateway: Generate apenas resolve qual
// método será cobrado (seleção explícita ou método padrão).
type storedCardCharger struct {
	d    *Dispatcher
	opts ChargerOptions
}

func (c *storedCardCharger) Generate(ctx context.Context, amountCents int64, description string) (*Artifact, error) {
	method, err := c.resolveMethod()
	if err != nil {
		return nil, err
	}

	a := c.d.newArtifact(KindStoredCard, amountCents, description)
	a.MethodID = method.ID
	c.d.store(a)
	return a, nil
}

func (c *storedCardCharger) resolveMethod() (*domain.PaymentMethod, error) {
	if c.opts.SelectedMethodID != "" {
		for i := range c.opts.Methods {
			if c.opts.Methods[i].ID == c.opts.SelectedMethodID {
				return &c.opts.Methods[i], nil
			}
		}
		return nil, ErrNoPaymentMethodAvailable
	}
	if def := domain.DefaultPaymentMethod(c.opts.Methods); def != nil {
		return def, nil
	}
	return nil, ErrNoPaymentMethodAvailable
}

func (c *storedCardCharger) Confirm(ctx context.Context, artifactID string) (domain.PaymentStatus, error) {
	a, err := c.d.Artifact(artifactID)
	if err != nil {
		return domain.PaymentStatusFailed, err
	}

	// Confirmação repetida de um pagamento já criado apenas reconsulta o status
	if a.GatewayPaymentID != "" {
		status, err := c.d.gateway.GetPaymentStatus(ctx, a.GatewayPaymentID)
		if err != nil {
			return domain.PaymentStatusFailed, err
		}
		return NormalizeStatus(status), nil
	}

	resp, err := c.d.gateway.CreatePayment(ctx, &ports.CreatePaymentRequest{
		MethodID:    a.MethodID,
		AmountCents: a.AmountCents,
		Description: a.Description,
		Payer:       c.opts.Payer,
	})
	if err != nil {
		return domain.PaymentStatusFailed, err
	}
	a.GatewayPaymentID = resp.ID
	return NormalizeStatus(resp.Status), nil
}

// ──────────────────────────────────────────────
// Cartão novo
// ──────────────────────────────────────────────

// newCardCharger tokeniza um cartão novo antes de cobrar.
// O token emitido pelo gateway é de uso único.
type newCardCharger struct {
	d    *Dispatcher
	opts ChargerOptions
}

func (c *newCardCharger) Generate(ctx context.Context, amountCents int64, description string) (*Artifact, error) {
	// Só a geração precisa dos dados do cartão; a confirmação usa o
	// token já guardado no artefato
	if c.opts.Card == nil {
		return nil, fmt.Errorf("payment: dados do cartão são obrigatórios para cartão novo")
	}

	token, err := c.d.gateway.CreateCardToken(ctx, *c.opts.Card)
	if err != nil {
		return nil, err
	}

	a := c.d.newArtifact(KindNewCard, amountCents, description)
	a.CardToken = token
	c.d.store(a)
	return a, nil
}

func (c *newCardCharger) Confirm(ctx context.Context, artifactID string) (domain.PaymentStatus, error) {
	a, err := c.d.Artifact(artifactID)
	if err != nil {
		return domain.PaymentStatusFailed, err
	}

	c.d.mu.Lock()
	if a.consumed {
		c.d.mu.Unlock()
		return domain.PaymentStatusFailed, ErrTokenAlreadyUsed
	}
	a.consumed = true
	c.d.mu.Unlock()

	resp, err := c.d.gateway.CreatePayment(ctx, &ports.CreatePaymentRequest{
		MethodID:    a.CardToken,
		AmountCents: a.AmountCents,
		Description: a.Description,
		Payer:       c.opts.Payer,
	})
	if err != nil {
		return domain.PaymentStatusFailed, err
	}
	a.GatewayPaymentID = resp.ID
	return NormalizeStatus(resp.Status), nil
}

// ──────────────────────────────────────────────
// PIX
// ──────────────────────────────────────────────

// pixCharger gera uma cobrança PIX com QR Code. A confirmação é
// assíncrona: chega por webhook do gateway, não por polling daqui.
type pixCharger struct {
	d    *Dispatcher
	opts ChargerOptions
}

func (c *pixCharger) Generate(ctx context.Context, amountCents int64, description string) (*Artifact, error) {
	resp, err := c.d.gateway.CreatePayment(ctx, &ports.CreatePaymentRequest{
		MethodID:    "pix",
		AmountCents: amountCents,
		Description: description,
		Payer:       c.opts.Payer,
	})
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(resp.Artifact.QRData, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("payment: erro ao gerar QR Code: %w", err)
	}

	a := c.d.newArtifact(KindPix, amountCents, description)
	a.GatewayPaymentID = resp.ID
	a.CopyPasteCode = resp.Artifact.QRData
	a.QRCodeBase64 = base64.StdEncoding.EncodeToString(png)
	expires := a.CreatedAt.Add(PixExpiration)
	a.ExpiresAt = &expires
	c.d.store(a)
	return a, nil
}

func (c *pixCharger) Confirm(ctx context.Context, artifactID string) (domain.PaymentStatus, error) {
	return c.d.confirmAsync(ctx, artifactID)
}

// ──────────────────────────────────────────────
// Boleto
// ──────────────────────────────────────────────

// boletoCharger gera um boleto bancário. Mesma confirmação assíncrona do
// PIX, porém com liquidação em dias.
type boletoCharger struct {
	d    *Dispatcher
	opts ChargerOptions
}

func (c *boletoCharger) Generate(ctx context.Context, amountCents int64, description string) (*Artifact, error) {
	resp, err := c.d.gateway.CreatePayment(ctx, &ports.CreatePaymentRequest{
		MethodID:    "boleto",
		AmountCents: amountCents,
		Description: description,
		Payer:       c.opts.Payer,
	})
	if err != nil {
		return nil, err
	}

	a := c.d.newArtifact(KindBoleto, amountCents, description)
	a.GatewayPaymentID = resp.ID
	a.BarcodeNumber = resp.Artifact.Barcode
	a.DocumentURL = resp.Artifact.DocumentURL
	expires := a.CreatedAt.Add(BoletoExpiration)
	a.ExpiresAt = &expires
	c.d.store(a)
	return a, nil
}

func (c *boletoCharger) Confirm(ctx context.Context, artifactID string) (domain.PaymentStatus, error) {
	return c.d.confirmAsync(ctx, artifactID)
}

// confirmAsync reconsulta o status de um pagamento assíncrono no gateway
func (d *Dispatcher) confirmAsync(ctx context.Context, artifactID string) (domain.PaymentStatus, error) {
	a, err := d.Artifact(artifactID)
	if err != nil {
		return domain.PaymentStatusFailed, err
	}
	status, err := d.gateway.GetPaymentStatus(ctx, a.GatewayPaymentID)
	if err != nil {
		return domain.PaymentStatusFailed, err
	}
	return NormalizeStatus(status), nil
}
