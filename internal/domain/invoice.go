package domain

import (
	"errors"
	"time"
)

// Erros de transição de status de fatura
var (
	ErrInvoiceNotPending = errors.New("domain: fatura não está pendente")
	ErrInvoiceNotPaid    = errors.New("domain: fatura não está paga")
)

// PaymentInvoice representa a fatura de um evento de cobrança.
// Imutável após a criação, exceto pelas transições de status
// pending→paid, pending→failed e paid→refunded.
type PaymentInvoice struct {
	ID             string        `json:"id"`
	SubscriptionID string        `json:"subscription_id"`
	AmountCents    int64         `json:"amount_cents"` // Valor final, já com desconto
	Status         PaymentStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	PaidAt         *time.Time    `json:"paid_at,omitempty"`
	DueDate        time.Time     `json:"due_date"`
}

// NewPaymentInvoice cria uma fatura pendente com vencimento imediato
func NewPaymentInvoice(id, subscriptionID string, amountCents int64, now time.Time) *PaymentInvoice {
	return &PaymentInvoice{
		ID:             id,
		SubscriptionID: subscriptionID,
		AmountCents:    amountCents,
		Status:         PaymentStatusPending,
		CreatedAt:      now,
		DueDate:        now,
	}
}

// AmountInReais retorna o valor em reais
func (i *PaymentInvoice) AmountInReais() float64 {
	return float64(i.AmountCents) / 100
}

// IsPaid verifica se a fatura foi paga
func (i *PaymentInvoice) IsPaid() bool {
	return i.Status == PaymentStatusPaid
}

// MarkPaid marca a fatura como paga. Só é válido a partir de pending.
func (i *PaymentInvoice) MarkPaid(at time.Time) error {
	if i.Status != PaymentStatusPending {
		return ErrInvoiceNotPending
	}
	i.Status = PaymentStatusPaid
	i.PaidAt = &at
	return nil
}

// MarkFailed marca a fatura como falha. Só é válido a partir de pending.
func (i *PaymentInvoice) MarkFailed() error {
	if i.Status != PaymentStatusPending {
		return ErrInvoiceNotPending
	}
	i.Status = PaymentStatusFailed
	return nil
}

// MarkRefunded marca a fatura como reembolsada. Só é válido a partir de paid.
func (i *PaymentInvoice) MarkRefunded() error {
	if i.Status != PaymentStatusPaid {
		return ErrInvoiceNotPaid
	}
	i.Status = PaymentStatusRefunded
	return nil
}
