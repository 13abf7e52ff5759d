package domain

import "time"

// SubscriptionStatus representa o estado de uma assinatura
type SubscriptionStatus string

const (
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// Subscription representa a assinatura de um usuário a um plano.
// Criada uma única vez após a confirmação do pagamento; os limites do
// período só são recalculados na renovação.
type Subscription struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	PlanID             string             `json:"plan_id"`
	Status             SubscriptionStatus `json:"status"`
	CurrentPeriodStart time.Time          `json:"current_period_start"`
	CurrentPeriodEnd   time.Time          `json:"current_period_end"`
	TrialEnd           *time.Time         `json:"trial_end,omitempty"`
	CancelAtPeriodEnd  bool               `json:"cancel_at_period_end"`
	PaymentMethodID    string             `json:"payment_method_id,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// IsActive verifica se a assinatura está ativa ou em período de teste
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusTrialing
}

// IsInTrial verifica se está no período de teste
func (s *Subscription) IsInTrial() bool {
	if s.TrialEnd == nil {
		return false
	}
	return time.Now().Before(*s.TrialEnd)
}

// DaysUntilExpiration retorna dias até o fim do período atual
func (s *Subscription) DaysUntilExpiration() int {
	if s.CurrentPeriodEnd.IsZero() {
		return 0
	}
	duration := time.Until(s.CurrentPeriodEnd)
	return int(duration.Hours() / 24)
}

// CancelAtEnd agenda o cancelamento para o fim do período atual
func (s *Subscription) CancelAtEnd() {
	s.CancelAtPeriodEnd = true
	s.UpdatedAt = time.Now()
}

// Cancel cancela a assinatura imediatamente
func (s *Subscription) Cancel() {
	s.Status = SubscriptionStatusCanceled
	s.UpdatedAt = time.Now()
}
