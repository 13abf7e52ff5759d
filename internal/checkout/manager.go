package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aprendize/aprendize-app/backend/internal/catalog"
	"github.com/aprendize/aprendize-app/backend/internal/coupons"
	"github.com/aprendize/aprendize-app/backend/internal/domain"
	"github.com/aprendize/aprendize-app/backend/internal/payment"
	"github.com/aprendize/aprendize-app/backend/internal/ports"
)

// entry agrupa uma sessão com sua tarefa de contagem e os dados do dono
type entry struct {
	session   *Session
	countdown *Countdown
	userID    string
	payer     ports.PayerInfo

	// Preenchidos quando o checkout conclui
	subscription *domain.Subscription
	invoice      *domain.PaymentInvoice
}

// pendingPayment liga um pagamento assíncrono do gateway de volta à
// sessão que o originou
type pendingPayment struct {
	sessionID  string
	artifactID string
}

// Manager é o controlador dono das sessões de checkout. Todo acesso ao
// estado de uma sessão passa por aqui ou pelas operações da própria
// sessão; não há estado global mutável.
type Manager struct {
	catalog    *catalog.Catalog
	validator  *coupons.Validator
	gateway    ports.Gateway
	dispatcher *payment.Dispatcher
	log        zerolog.Logger
	now        func() time.Time

	sessionSeconds   int
	lowTimeThreshold int

	mu            sync.RWMutex
	entries       map[string]*entry
	methods       map[string][]domain.PaymentMethod
	pending       map[string]pendingPayment // ID do pagamento no gateway → sessão
	invoices      map[string]*domain.PaymentInvoice
	webhookEvents map[string]*domain.WebhookEvent // deduplicação por ID de evento
}

// NewManager cria o controlador de checkout
func NewManager(cat *catalog.Catalog, validator *coupons.Validator, gateway ports.Gateway, log zerolog.Logger, sessionSeconds, lowTimeThreshold int) *Manager {
	return &Manager{
		catalog:          cat,
		validator:        validator,
		gateway:          gateway,
		dispatcher:       payment.NewDispatcher(gateway),
		log:              log,
		now:              time.Now,
		sessionSeconds:   sessionSeconds,
		lowTimeThreshold: lowTimeThreshold,
		entries:          make(map[string]*entry),
		methods:          make(map[string][]domain.PaymentMethod),
		pending:          make(map[string]pendingPayment),
		invoices:         make(map[string]*domain.PaymentInvoice),
		webhookEvents:    make(map[string]*domain.WebhookEvent),
	}
}

// CreateSession abre uma nova sessão de checkout para o usuário e inicia
// o contador regressivo
func (m *Manager) CreateSession(userID string, payer ports.PayerInfo) *Session {
	id := uuid.NewString()
	s := NewSession(id, m.validator, m.sessionSeconds, m.lowTimeThreshold)

	log := m.log.With().Str("session_id", id).Str("user_id", userID).Logger()
	s.OnExpired = func() {
		log.Warn().Msg("sessão de checkout expirada")
	}
	s.OnLowTime = func(remaining int) {
		// Aviso não bloqueante; a UI decide como exibir
		log.Debug().Int("seconds_remaining", remaining).Msg("pouco tempo restante na sessão")
	}

	e := &entry{
		session:   s,
		countdown: StartCountdown(s),
		userID:    userID,
		payer:     payer,
	}

	m.mu.Lock()
	m.entries[id] = e
	m.mu.Unlock()

	log.Info().Msg("sessão de checkout criada")
	return s
}

// Session retorna uma sessão ativa pelo id
func (m *Manager) Session(id string) (*Session, error) {
	e, err := m.entry(id)
	if err != nil {
		return nil, err
	}
	return e.session, nil
}

func (m *Manager) entry(id string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// DestroySession encerra a sessão e cancela sua tarefa de contagem
func (m *Manager) DestroySession(id string) error {
	m.mu.Lock()
	e, ok := m.entries[id]
	if ok {
		delete(m.entries, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	e.countdown.Stop()
	m.log.Info().Str("session_id", id).Msg("sessão de checkout encerrada")
	return nil
}

// SelectPlan busca o plano no catálogo e o aplica à sessão
func (m *Manager) SelectPlan(sessionID, planID string) error {
	s, err := m.Session(sessionID)
	if err != nil {
		return err
	}
	plan, err := m.catalog.ByID(planID)
	if err != nil {
		return err
	}
	return s.SelectPlan(plan)
}

// ApplyCoupon aplica um cupom à sessão
func (m *Manager) ApplyCoupon(sessionID, code string) error {
	s, err := m.Session(sessionID)
	if err != nil {
		return err
	}
	return s.ApplyCoupon(code)
}

// SelectPaymentTab muda a aba de método de pagamento da sessão
func (m *Manager) SelectPaymentTab(sessionID string, tab PaymentTab) error {
	s, err := m.Session(sessionID)
	if err != nil {
		return err
	}
	return s.SelectPaymentTab(tab)
}

// Reset estende o tempo de uma sessão expirada
func (m *Manager) Reset(sessionID string) error {
	s, err := m.Session(sessionID)
	if err != nil {
		return err
	}
	return s.Reset()
}

// Summary retorna o resumo atual da sessão
func (m *Manager) Summary(sessionID string) (Summary, error) {
	s, err := m.Session(sessionID)
	if err != nil {
		return Summary{}, err
	}
	return s.Summary(), nil
}

// RegisterPaymentMethod cadastra um método de pagamento para o usuário.
// Se o novo método é padrão, os demais deixam de ser.
func (m *Manager) RegisterPaymentMethod(userID string, method domain.PaymentMethod) domain.PaymentMethod {
	if method.ID == "" {
		method.ID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if method.IsDefault {
		list := m.methods[userID]
		for i := range list {
			list[i].IsDefault = false
		}
	}
	m.methods[userID] = append(m.methods[userID], method)
	return method
}

// PaymentMethods retorna os métodos cadastrados do usuário
func (m *Manager) PaymentMethods(userID string) []domain.PaymentMethod {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.PaymentMethod(nil), m.methods[userID]...)
}

// GenerateInput carrega os dados da etapa de geração de pagamento
type GenerateInput struct {
	// Cartão salvo: seleção explícita (opcional; sem ela, usa o padrão)
	SelectedMethodID string

	// Cartão novo: dados a tokenizar
	Card *ports.CardFields
}

// GeneratePayment executa a etapa de geração da variante selecionada na
// sessão. A chamada ao gateway conta como tentativa em andamento: uma
// segunda submissão concorrente falha com ErrAlreadyProcessing.
func (m *Manager) GeneratePayment(ctx context.Context, sessionID string, input GenerateInput) (*payment.Artifact, error) {
	e, err := m.entry(sessionID)
	if err != nil {
		return nil, err
	}
	s := e.session

	if err := s.BeginProcessing(); err != nil {
		return nil, err
	}

	charger, err := m.chargerFor(s.PaymentTab().kind(), e, input)
	if err != nil {
		s.EndProcessing(false)
		return nil, err
	}

	plan := s.SelectedPlan()
	artifact, err := charger.Generate(ctx, s.FinalPriceCents(), fmt.Sprintf("Assinatura Aprendize — %s", plan.Name))

	// Guarda de resposta obsoleta: se a sessão expirou durante a chamada
	// assíncrona, o resultado é descartado, não aplicado
	if s.Expired() {
		m.log.Warn().Str("session_id", sessionID).Msg("geração concluída após expiração da sessão; resultado descartado")
		return nil, ErrSessionExpired
	}

	if err != nil {
		// Falhas do gateway são retentáveis: a sessão volta a PAYMENT_PENDING
		s.EndProcessing(false)
		return nil, err
	}

	// A geração terminou; a sessão volta a aguardar a confirmação
	// (ação do usuário para cartões, evento externo para PIX/boleto)
	s.EndProcessing(false)

	if artifact.IsAsync() {
		m.mu.Lock()
		m.pending[artifact.GatewayPaymentID] = pendingPayment{sessionID: sessionID, artifactID: artifact.ID}
		m.mu.Unlock()
	}

	m.log.Info().
		Str("session_id", sessionID).
		Str("artifact_id", artifact.ID).
		Str("kind", string(artifact.Kind)).
		Int64("amount_cents", artifact.AmountCents).
		Msg("artefato de pagamento gerado")
	return artifact, nil
}

// ConfirmPayment efetiva a cobrança de um artefato gerado e, se o
// pagamento for aprovado, materializa a assinatura e sua fatura
func (m *Manager) ConfirmPayment(ctx context.Context, sessionID, artifactID string) (domain.PaymentStatus, error) {
	e, err := m.entry(sessionID)
	if err != nil {
		return domain.PaymentStatusFailed, err
	}
	s := e.session

	artifact, err := m.dispatcher.Artifact(artifactID)
	if err != nil {
		return domain.PaymentStatusFailed, err
	}

	if err := s.BeginProcessing(); err != nil {
		return domain.PaymentStatusFailed, err
	}

	charger, err := m.chargerFor(artifact.Kind, e, GenerateInput{})
	if err != nil {
		s.EndProcessing(false)
		return domain.PaymentStatusFailed, err
	}

	status, err := charger.Confirm(ctx, artifactID)

	if s.Expired() {
		m.log.Warn().Str("session_id", sessionID).Msg("confirmação concluída após expiração da sessão; resultado descartado")
		return domain.PaymentStatusFailed, ErrSessionExpired
	}

	if err != nil {
		s.EndProcessing(false)
		return domain.PaymentStatusFailed, err
	}

	if status == domain.PaymentStatusPaid {
		m.settle(e, artifact)
		s.EndProcessing(true)
	} else {
		s.EndProcessing(false)
	}
	return status, nil
}

// chargerFor monta a variante de cobrança com os dados do dono da sessão
func (m *Manager) chargerFor(kind payment.Kind, e *entry, input GenerateInput) (payment.Charger, error) {
	return m.dispatcher.Charger(kind, payment.ChargerOptions{
		Methods:          m.PaymentMethods(e.userID),
		SelectedMethodID: input.SelectedMethodID,
		Card:             input.Card,
		Payer:            e.payer,
	})
}

// kind converte a aba de pagamento da sessão na variante do despachante
func (t PaymentTab) kind() payment.Kind {
	switch t {
	case TabNewCard:
		return payment.KindNewCard
	case TabPix:
		return payment.KindPix
	case TabBoleto:
		return payment.KindBoleto
	default:
		return payment.KindStoredCard
	}
}

// settle materializa a assinatura e a fatura de um checkout confirmado
func (m *Manager) settle(e *entry, artifact *payment.Artifact) {
	now := m.now()
	plan := e.session.SelectedPlan()

	subscription := MaterializeSubscription(e.userID, plan, artifact.MethodID, now)
	invoice := GenerateInvoice(subscription.ID, e.session.FinalPriceCents(), now)

	m.mu.Lock()
	e.subscription = subscription
	e.invoice = invoice
	m.invoices[invoice.ID] = invoice
	m.mu.Unlock()

	m.log.Info().
		Str("session_id", e.session.ID()).
		Str("subscription_id", subscription.ID).
		Str("invoice_id", invoice.ID).
		Str("status", string(subscription.Status)).
		Int64("amount_cents", invoice.AmountCents).
		Msg("assinatura materializada")
}

// Result retorna a assinatura e a fatura de uma sessão confirmada
func (m *Manager) Result(sessionID string) (*domain.Subscription, *domain.PaymentInvoice, error) {
	e, err := m.entry(sessionID)
	if err != nil {
		return nil, nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return e.subscription, e.invoice, nil
}

// HandleGatewayEvent processa uma notificação assíncrona do gateway
// (liquidação de PIX ou boleto). Eventos repetidos são deduplicados pelo
// ID; resultados para sessões expiradas são descartados.
func (m *Manager) HandleGatewayEvent(ctx context.Context, eventID, paymentID string) error {
	now := m.now()

	m.mu.Lock()
	if _, seen := m.webhookEvents[eventID]; seen {
		m.mu.Unlock()
		m.log.Debug().Str("event_id", eventID).Msg("evento de webhook duplicado; ignorado")
		return nil
	}
	event := domain.NewWebhookEvent(eventID, paymentID, now)
	m.webhookEvents[eventID] = event
	pend, known := m.pending[paymentID]
	m.mu.Unlock()

	if !known {
		event.MarkSkipped()
		m.log.Debug().Str("payment_id", paymentID).Msg("notificação para pagamento desconhecido; ignorada")
		return nil
	}

	raw, err := m.gateway.GetPaymentStatus(ctx, paymentID)
	if err != nil {
		event.MarkFailed(err.Error())
		// Falha transitória: libera o ID para a retentativa do gateway
		// não ser engolida pela deduplicação
		m.mu.Lock()
		delete(m.webhookEvents, eventID)
		m.mu.Unlock()
		return fmt.Errorf("erro ao consultar status do pagamento %s: %w", paymentID, err)
	}

	status := payment.NormalizeStatus(raw)
	if status != domain.PaymentStatusPaid {
		event.MarkSkipped()
		m.log.Info().Str("payment_id", paymentID).Str("status", string(status)).Msg("notificação sem liquidação; aguardando")
		return nil
	}

	e, err := m.entry(pend.sessionID)
	if err != nil {
		event.MarkFailed(err.Error())
		return err
	}

	// Guarda de resposta obsoleta: confirmação tardia de sessão expirada
	// é descartada, nunca aplicada
	if err := e.session.MarkConfirmed(); err != nil {
		event.MarkSkipped()
		m.log.Warn().Str("session_id", pend.sessionID).Msg("liquidação recebida para sessão expirada; descartada")
		return nil
	}

	artifact, err := m.dispatcher.Artifact(pend.artifactID)
	if err != nil {
		event.MarkFailed(err.Error())
		return err
	}

	m.settle(e, artifact)

	m.mu.Lock()
	delete(m.pending, paymentID)
	m.mu.Unlock()

	event.MarkProcessed(m.now())
	return nil
}

// DownloadInvoice retorna a URL de download de uma fatura paga
func (m *Manager) DownloadInvoice(invoiceID string) (string, error) {
	m.mu.RLock()
	invoice, ok := m.invoices[invoiceID]
	m.mu.RUnlock()

	if !ok {
		return "", ErrInvoiceNotFound
	}
	if !invoice.IsPaid() {
		return "", domain.ErrInvoiceNotPaid
	}
	return fmt.Sprintf("https://faturas.aprendize.com.br/%s.pdf", invoice.ID), nil
}
