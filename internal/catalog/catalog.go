// Package catalog fornece o catálogo imutável de planos de assinatura
package catalog

import (
	"errors"

	"github.com/aprendize/aprendize-app/backend/internal/domain"
)

// ErrPlanNotFound indica que o plano solicitado não existe no catálogo
var ErrPlanNotFound = errors.New("catalog: plano não encontrado")

// Catalog mantém a lista estática de planos e permite busca por id
type Catalog struct {
	plans []domain.SubscriptionPlan
	byID  map[string]*domain.SubscriptionPlan
}

// New cria um catálogo a partir de uma lista de planos
func New(plans []domain.SubscriptionPlan) *Catalog {
	c := &Catalog{
		plans: plans,
		byID:  make(map[string]*domain.SubscriptionPlan, len(plans)),
	}
	for i := range c.plans {
		c.byID[c.plans[i].ID] = &c.plans[i]
	}
	return c
}

// ByID retorna o plano com o id informado
func (c *Catalog) ByID(id string) (*domain.SubscriptionPlan, error) {
	plan, ok := c.byID[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// All retorna todos os planos do catálogo
func (c *Catalog) All() []domain.SubscriptionPlan {
	return c.plans
}

// DefaultPlans retorna os planos padrão da plataforma
func DefaultPlans() []domain.SubscriptionPlan {
	return []domain.SubscriptionPlan{
		{
			ID:         "plano-mensal",
			Name:       "Mensal",
			PriceCents: 9990, // R$ 99,90
			Currency:   "BRL",
			Interval:   domain.PlanIntervalMonthly,
			TrialDays:  7,
		},
		{
			ID:         "plano-trimestral",
			Name:       "Trimestral",
			PriceCents: 26990, // R$ 269,90
			Currency:   "BRL",
			Interval:   domain.PlanIntervalQuarterly,
			TrialDays:  7,
		},
		{
			ID:         "plano-anual",
			Name:       "Anual",
			PriceCents: 95880, // R$ 958,80
			Currency:   "BRL",
			Interval:   domain.PlanIntervalAnnual,
		},
	}
}
