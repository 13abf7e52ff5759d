// Package checkout implementa a sessão de checkout de assinaturas: uma
// máquina de estados com vida limitada por um contador regressivo, que
// acompanha plano escolhido, cupom aplicado e método de pagamento, e
// orquestra a geração/confirmação da cobrança até materializar a
// assinatura e sua fatura.
package checkout

import (
	"fmt"
	"sync"

	"github.com/aprendize/aprendize-app/backend/internal/coupons"
	"github.com/aprendize/aprendize-app/backend/internal/domain"
	"github.com/aprendize/aprendize-app/backend/internal/pricing"
)

// Parâmetros padrão da sessão
const (
	// DefaultSessionSeconds é a duração inicial do contador regressivo
	DefaultSessionSeconds = 900

	// LowTimeThresholdSeconds é o limite abaixo do qual a sessão emite
	// avisos de pouco tempo restante (não bloqueia nada)
	LowTimeThresholdSeconds = 300
)

// State representa o estado da máquina de estados da sessão
type State string

const (
	StateSelectingPlan  State = "SELECTING_PLAN"
	StatePaymentPending State = "PAYMENT_PENDING"
	StateProcessing     State = "PROCESSING"
	StateConfirmed      State = "CONFIRMED"
	StateExpired        State = "EXPIRED"
)

// IsTerminal verifica se o estado encerra a sessão
func (s State) IsTerminal() bool {
	return s == StateConfirmed || s == StateExpired
}

// PaymentTab identifica a aba de método de pagamento selecionada
type PaymentTab string

const (
	TabStoredCard PaymentTab = "stored_card"
	TabNewCard    PaymentTab = "new_card"
	TabPix        PaymentTab = "pix"
	TabBoleto     PaymentTab = "boleto"
)

// IsValid verifica se a aba é uma das quatro conhecidas
func (t PaymentTab) IsValid() bool {
	switch t {
	case TabStoredCard, TabNewCard, TabPix, TabBoleto:
		return true
	}
	return false
}

// Session é o estado mutável de uma tentativa de checkout.
// Todas as leituras e escritas passam pelas operações abaixo; não há
// estado global compartilhado. As operações são protegidas por mutex
// porque os handlers HTTP executam concorrentes, ainda que o fluxo
// modelado seja o de uma única thread de UI.
type Session struct {
	mu sync.Mutex

	id               string
	state            State
	selectedPlan     *domain.SubscriptionPlan
	appliedCoupon    *domain.Coupon
	secondsRemaining int
	totalSeconds     int
	lowTimeThreshold int
	paymentTab       PaymentTab

	validator *coupons.Validator

	// OnExpired é chamado uma única vez quando o contador chega a zero
	OnExpired func()

	// OnLowTime é chamado a cada tick abaixo do limite de pouco tempo
	// (pode repetir; não muda o estado)
	OnLowTime func(secondsRemaining int)
}

// NewSession cria uma sessão no estado inicial com o contador cheio
func NewSession(id string, validator *coupons.Validator, totalSeconds, lowTimeThreshold int) *Session {
	if totalSeconds <= 0 {
		totalSeconds = DefaultSessionSeconds
	}
	if lowTimeThreshold <= 0 {
		lowTimeThreshold = LowTimeThresholdSeconds
	}
	return &Session{
		id:               id,
		state:            StateSelectingPlan,
		secondsRemaining: totalSeconds,
		totalSeconds:     totalSeconds,
		lowTimeThreshold: lowTimeThreshold,
		paymentTab:       TabStoredCard,
		validator:        validator,
	}
}

// ID retorna o identificador da sessão
func (s *Session) ID() string {
	return s.id
}

// State retorna o estado atual
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Expired verifica se a sessão está expirada
func (s *Session) Expired() bool {
	return s.State() == StateExpired
}

// IsProcessing verifica se há um pagamento em andamento
func (s *Session) IsProcessing() bool {
	return s.State() == StateProcessing
}

// SecondsRemaining retorna os segundos restantes do contador
func (s *Session) SecondsRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secondsRemaining
}

// SelectedPlan retorna o plano escolhido (nil se nenhum)
func (s *Session) SelectedPlan() *domain.SubscriptionPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedPlan
}

// AppliedCoupon retorna o cupom aplicado (nil se nenhum)
func (s *Session) AppliedCoupon() *domain.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appliedCoupon
}

// PaymentTab retorna a aba de método de pagamento selecionada
func (s *Session) PaymentTab() PaymentTab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paymentTab
}

// SelectPlan escolhe o plano da sessão. Permitido apenas em
// SELECTING_PLAN e PAYMENT_PENDING; não reinicia o contador.
func (s *Session) SelectPlan(plan *domain.SubscriptionPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateExpired {
		return ErrSessionExpired
	}
	if s.state != StateSelectingPlan && s.state != StatePaymentPending {
		return ErrInvalidState
	}

	s.selectedPlan = plan
	s.state = StatePaymentPending
	return nil
}

// ApplyCoupon valida e aplica um cupom. Aplicar um novo cupom substitui
// o anterior; reaplicar o mesmo código é idempotente (não há acúmulo).
func (s *Session) ApplyCoupon(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateExpired {
		return ErrSessionExpired
	}
	if s.state == StateConfirmed || s.state == StateProcessing {
		return ErrInvalidState
	}

	coupon, err := s.validator.Validate(code)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCoupon, code)
	}

	s.appliedCoupon = &coupon
	return nil
}

// SelectPaymentTab muda a aba de método de pagamento
func (s *Session) SelectPaymentTab(tab PaymentTab) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateExpired {
		return ErrSessionExpired
	}
	if s.state.IsTerminal() {
		return ErrInvalidState
	}
	if !tab.IsValid() {
		return fmt.Errorf("%w: aba desconhecida %q", ErrInvalidState, tab)
	}

	s.paymentTab = tab
	return nil
}

// Tick decrementa o contador em um segundo. Ao chegar a zero a sessão
// transita para EXPIRED exatamente uma vez e emite o sinal de expiração.
func (s *Session) Tick() {
	s.mu.Lock()

	if s.state.IsTerminal() {
		s.mu.Unlock()
		return
	}

	if s.secondsRemaining > 0 {
		s.secondsRemaining--
	}

	var fireExpired func()
	var fireLowTime func(int)
	remaining := s.secondsRemaining

	if s.secondsRemaining == 0 {
		s.state = StateExpired
		fireExpired = s.OnExpired
	} else if s.secondsRemaining < s.lowTimeThreshold {
		fireLowTime = s.OnLowTime
	}
	s.mu.Unlock()

	// Sinais emitidos fora do lock: os callbacks podem consultar a sessão
	if fireExpired != nil {
		fireExpired()
	}
	if fireLowTime != nil {
		fireLowTime(remaining)
	}
}

// Reset reinicializa o contador e retorna a SELECTING_PLAN. Única ação
// válida a partir de EXPIRED. Plano e cupom são preservados: o reset é
// uma extensão de tempo, não um descarte de dados.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateExpired {
		return ErrInvalidState
	}

	s.secondsRemaining = s.totalSeconds
	s.state = StateSelectingPlan
	return nil
}

// BeginProcessing marca o início de uma tentativa de pagamento,
// garantindo que no máximo uma esteja em andamento
func (s *Session) BeginProcessing() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateExpired {
		return ErrSessionExpired
	}
	if s.state == StateProcessing {
		return ErrAlreadyProcessing
	}
	if s.selectedPlan == nil {
		return ErrNoPlanSelected
	}
	if s.state != StatePaymentPending {
		return ErrInvalidState
	}

	s.state = StateProcessing
	return nil
}

// EndProcessing encerra a tentativa em andamento. Com sucesso a sessão
// vai para CONFIRMED; sem sucesso volta para PAYMENT_PENDING. Se a
// sessão expirou no meio do voo, o resultado é descartado (guarda de
// resposta obsoleta).
func (s *Session) EndProcessing(success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateProcessing {
		return
	}
	if success {
		s.state = StateConfirmed
	} else {
		s.state = StatePaymentPending
	}
}

// MarkConfirmed confirma a sessão a partir de um evento assíncrono do
// gateway (PIX/boleto liquidado). Rejeitado se a sessão expirou.
func (s *Session) MarkConfirmed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateExpired {
		return ErrSessionExpired
	}
	if s.state == StateConfirmed {
		return nil
	}
	if s.state != StatePaymentPending && s.state != StateProcessing {
		return ErrInvalidState
	}

	s.state = StateConfirmed
	return nil
}

// FinalPriceCents calcula o valor final da sessão (plano com cupom)
func (s *Session) FinalPriceCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.FinalPriceForPlan(s.selectedPlan, s.appliedCoupon)
}

// Summary é a visão da sessão exposta à UI
type Summary struct {
	SessionID        string                   `json:"session_id"`
	State            State                    `json:"state"`
	SecondsRemaining int                      `json:"seconds_remaining"`
	Expired          bool                     `json:"expired"`
	LowTime          bool                     `json:"low_time"`
	Plan             *domain.SubscriptionPlan `json:"plan,omitempty"`
	Coupon           *domain.Coupon           `json:"coupon,omitempty"`
	PaymentTab       PaymentTab               `json:"payment_tab"`
	FinalPriceCents  int64                    `json:"final_price_cents"`
	FinalPrice       string                   `json:"final_price"`
}

// Summary monta o resumo atual da sessão
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	final := pricing.FinalPriceForPlan(s.selectedPlan, s.appliedCoupon)
	return Summary{
		SessionID:        s.id,
		State:            s.state,
		SecondsRemaining: s.secondsRemaining,
		Expired:          s.state == StateExpired,
		LowTime:          s.state != StateExpired && s.secondsRemaining < s.lowTimeThreshold,
		Plan:             s.selectedPlan,
		Coupon:           s.appliedCoupon,
		PaymentTab:       s.paymentTab,
		FinalPriceCents:  final,
		FinalPrice:       pricing.FormatBRL(final),
	}
}
