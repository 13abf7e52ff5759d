package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/aprendize/aprendize-app/backend/internal/domain"
)

// MaterializeSubscription produz a assinatura resultante de um pagamento
// confirmado. O status nasce trialing se o plano tem período de teste,
// senão active. O fim do período usa aritmética de calendário: somar um
// mês a 31 de janeiro cai no último dia válido de fevereiro, não em
// março.
func MaterializeSubscription(userID string, plan *domain.SubscriptionPlan, paymentMethodID string, now time.Time) *domain.Subscription {
	status := domain.SubscriptionStatusActive
	var trialEnd *time.Time
	if plan.HasTrial() {
		status = domain.SubscriptionStatusTrialing
		te := now.AddDate(0, 0, plan.TrialDays)
		trialEnd = &te
	}

	return &domain.Subscription{
		ID:                 uuid.NewString(),
		UserID:             userID,
		PlanID:             plan.ID,
		Status:             status,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   AddInterval(now, plan.Interval),
		TrialEnd:           trialEnd,
		PaymentMethodID:    paymentMethodID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// GenerateInvoice produz a única fatura do checkout concluído: valor
// final pós-desconto, vencimento imediato e status paid.
func GenerateInvoice(subscriptionID string, amountCents int64, now time.Time) *domain.PaymentInvoice {
	invoice := domain.NewPaymentInvoice(uuid.NewString(), subscriptionID, amountCents, now)
	// Cobrança imediata: a fatura nasce pendente e é liquidada no ato
	_ = invoice.MarkPaid(now)
	return invoice
}

// AddInterval soma exatamente uma unidade de calendário do intervalo
func AddInterval(t time.Time, interval domain.PlanInterval) time.Time {
	return addCalendarMonths(t, interval.Months())
}

// addCalendarMonths soma meses preservando o dia do mês quando possível;
// se o mês de destino é mais curto, o dia é grampeado no último dia
// válido (31/01 + 1 mês = 29/02 em ano bissexto).
func addCalendarMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month())
	if day > lastDay {
		day = lastDay
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// daysInMonth retorna o número de dias do mês
func daysInMonth(year int, month time.Month) int {
	// Dia zero do mês seguinte = último dia deste mês
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
