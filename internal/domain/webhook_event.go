package domain

import "time"

// WebhookStatus representa o estado de processamento de uma notificação
// recebida do gateway
type WebhookStatus string

const (
	WebhookStatusPending   WebhookStatus = "pending"
	WebhookStatusProcessed WebhookStatus = "processed"
	WebhookStatusFailed    WebhookStatus = "failed"
	WebhookStatusSkipped   WebhookStatus = "skipped"
)

// WebhookEvent registra uma notificação de pagamento recebida do gateway.
// Mantido em memória apenas para deduplicação (entregas repetidas do
// mesmo evento são puladas) e inspeção durante a sessão.
type WebhookEvent struct {
	EventID     string        `json:"event_id"` // ID do evento no gateway (único)
	PaymentID   string        `json:"payment_id"`
	Status      WebhookStatus `json:"status"`
	ReceivedAt  time.Time     `json:"received_at"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// NewWebhookEvent cria um evento pendente
func NewWebhookEvent(eventID, paymentID string, now time.Time) *WebhookEvent {
	return &WebhookEvent{
		EventID:    eventID,
		PaymentID:  paymentID,
		Status:     WebhookStatusPending,
		ReceivedAt: now,
	}
}

// MarkProcessed marca o evento como processado com sucesso
func (w *WebhookEvent) MarkProcessed(at time.Time) {
	w.Status = WebhookStatusProcessed
	w.ProcessedAt = &at
}

// MarkFailed registra a falha de processamento
func (w *WebhookEvent) MarkFailed(errMsg string) {
	w.Status = WebhookStatusFailed
	w.Error = errMsg
}

// MarkSkipped marca o evento como pulado (duplicado ou irrelevante)
func (w *WebhookEvent) MarkSkipped() {
	w.Status = WebhookStatusSkipped
}
