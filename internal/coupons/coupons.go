// Package coupons implementa a validação de cupons de desconto.
// A validação é uma consulta pura sobre uma tabela fixa, com
// correspondência exata sensível a maiúsculas/minúsculas.
// Limites de uso não são rastreados aqui.
package coupons

import (
	"errors"

	"github.com/aprendize/aprendize-app/backend/internal/domain"
)

// ErrCouponNotFound indica que o código não existe na tabela
var ErrCouponNotFound = errors.New("coupons: cupom não encontrado")

// Validator valida códigos de cupom contra uma tabela fixa
type Validator struct {
	table map[string]int // código → percentual de desconto
}

// NewValidator cria um validador a partir de uma tabela código→percentual
func NewValidator(table map[string]int) *Validator {
	return &Validator{table: table}
}

// Validate retorna o cupom correspondente ao código, ou ErrCouponNotFound
func (v *Validator) Validate(code string) (domain.Coupon, error) {
	discount, ok := v.table[code]
	if !ok {
		return domain.Coupon{}, ErrCouponNotFound
	}
	return domain.Coupon{Code: code, DiscountPercentage: discount}, nil
}

// DefaultTable retorna a tabela de cupons vigente da plataforma
func DefaultTable() map[string]int {
	return map[string]int{
		"PROMO10":     10,
		"ESTUDANTE15": 15,
		"BEMVINDO20":  20,
		"APRENDIZE50": 50,
	}
}
