// Package domain contém as entidades de domínio do checkout de assinaturas
package domain

// PlanInterval representa a periodicidade de cobrança de um plano
type PlanInterval string

const (
	PlanIntervalMonthly   PlanInterval = "monthly"
	PlanIntervalQuarterly PlanInterval = "quarterly"
	PlanIntervalAnnual    PlanInterval = "annual"
)

// Months retorna quantos meses de calendário uma cobrança do intervalo cobre
func (i PlanInterval) Months() int {
	switch i {
	case PlanIntervalMonthly:
		return 1
	case PlanIntervalQuarterly:
		return 3
	case PlanIntervalAnnual:
		return 12
	}
	return 0
}

// IsValid verifica se o intervalo é um dos valores conhecidos
func (i PlanInterval) IsValid() bool {
	return i.Months() > 0
}

// SubscriptionPlan representa um plano de assinatura oferecido pela plataforma.
// Entrada estática de catálogo: nunca é mutada em runtime.
type SubscriptionPlan struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	PriceCents int64        `json:"price_cents"` // Valor em centavos
	Currency   string       `json:"currency"`    // default "BRL"
	Interval   PlanInterval `json:"interval"`
	TrialDays  int          `json:"trial_days,omitempty"` // 0 = sem período de teste
}

// PriceInReais retorna o preço formatado em reais
func (p *SubscriptionPlan) PriceInReais() float64 {
	return float64(p.PriceCents) / 100
}

// HasTrial verifica se o plano oferece período de teste
func (p *SubscriptionPlan) HasTrial() bool {
	return p.TrialDays > 0
}

// NewSubscriptionPlan cria um novo plano com valores padrão
func NewSubscriptionPlan(id, name string, priceCents int64, interval PlanInterval) *SubscriptionPlan {
	return &SubscriptionPlan{
		ID:         id,
		Name:       name,
		PriceCents: priceCents,
		Currency:   "BRL",
		Interval:   interval,
	}
}
