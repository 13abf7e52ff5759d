package domain

import (
	"errors"
	"testing"
	"time"
)

func TestInvoiceTransitions(t *testing.T) {
	now := time.Now()

	t.Run("pending to paid", func(t *testing.T) {
		inv := NewPaymentInvoice("inv-1", "sub-1", 8991, now)
		if err := inv.MarkPaid(now); err != nil {
			t.Fatalf("MarkPaid: %v", err)
		}
		if !inv.IsPaid() || inv.PaidAt == nil {
			t.Error("invoice should be paid with PaidAt set")
		}
		// Pagar duas vezes é inválido
		if err := inv.MarkPaid(now); !errors.Is(err, ErrInvoiceNotPending) {
			t.Errorf("double MarkPaid: %v, want ErrInvoiceNotPending", err)
		}
	})

	t.Run("pending to failed", func(t *testing.T) {
		inv := NewPaymentInvoice("inv-1", "sub-1", 8991, now)
		if err := inv.MarkFailed(); err != nil {
			t.Fatalf("MarkFailed: %v", err)
		}
		if err := inv.MarkPaid(now); !errors.Is(err, ErrInvoiceNotPending) {
			t.Errorf("MarkPaid after failure: %v, want ErrInvoiceNotPending", err)
		}
	})

	t.Run("refund requires paid", func(t *testing.T) {
		inv := NewPaymentInvoice("inv-1", "sub-1", 8991, now)
		if err := inv.MarkRefunded(); !errors.Is(err, ErrInvoiceNotPaid) {
			t.Errorf("MarkRefunded while pending: %v, want ErrInvoiceNotPaid", err)
		}
		_ = inv.MarkPaid(now)
		if err := inv.MarkRefunded(); err != nil {
			t.Fatalf("MarkRefunded: %v", err)
		}
		if inv.Status != PaymentStatusRefunded {
			t.Errorf("status = %s, want refunded", inv.Status)
		}
	})
}

func TestDefaultPaymentMethod(t *testing.T) {
	methods := []PaymentMethod{
		{ID: "pm-1", Type: PaymentMethodTypeCredit},
		{ID: "pm-2", Type: PaymentMethodTypeCredit, IsDefault: true},
	}

	if def := DefaultPaymentMethod(methods); def == nil || def.ID != "pm-2" {
		t.Errorf("DefaultPaymentMethod = %v, want pm-2", def)
	}
	if def := DefaultPaymentMethod(nil); def != nil {
		t.Errorf("empty list should have no default, got %v", def)
	}
	if def := DefaultPaymentMethod(methods[:1]); def != nil {
		t.Errorf("list without default should return nil, got %v", def)
	}
}

func TestPaymentMethodDisplay(t *testing.T) {
	card := PaymentMethod{Type: PaymentMethodTypeCredit, Brand: "Visa", Last4: "4242"}
	if got := card.Display(); got != "Visa •••• 4242" {
		t.Errorf("Display = %q", got)
	}

	pix := PaymentMethod{Type: PaymentMethodTypePix}
	if got := pix.Display(); got != "pix" {
		t.Errorf("Display = %q", got)
	}
}

func TestSubscriptionHelpers(t *testing.T) {
	now := time.Now()
	trialEnd := now.AddDate(0, 0, 7)
	sub := &Subscription{
		Status:             SubscriptionStatusTrialing,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
		TrialEnd:           &trialEnd,
	}

	if !sub.IsActive() {
		t.Error("trialing subscription should count as active")
	}
	if !sub.IsInTrial() {
		t.Error("should be in trial before TrialEnd")
	}

	past := now.AddDate(0, 0, -1)
	sub.TrialEnd = &past
	if sub.IsInTrial() {
		t.Error("should not be in trial after TrialEnd")
	}

	sub.Cancel()
	if sub.Status != SubscriptionStatusCanceled {
		t.Errorf("status = %s, want canceled", sub.Status)
	}
	if sub.IsActive() {
		t.Error("canceled subscription is not active")
	}
}

func TestPlanIntervalMonths(t *testing.T) {
	tests := []struct {
		interval PlanInterval
		want     int
	}{
		{PlanIntervalMonthly, 1},
		{PlanIntervalQuarterly, 3},
		{PlanIntervalAnnual, 12},
	}
	for _, tt := range tests {
		if got := tt.interval.Months(); got != tt.want {
			t.Errorf("%s.Months() = %d, want %d", tt.interval, got, tt.want)
		}
	}
}
