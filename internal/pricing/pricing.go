// Package pricing concentra o cálculo do valor final de uma cobrança.
// Todo componente que precisa do preço com desconto (resumo da sessão,
// geração de pagamento, fatura) passa por aqui, de modo que os pontos
// de consumo nunca divergem entre si.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aprendize/aprendize-app/backend/internal/domain"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeFinalPrice aplica um desconto percentual a um preço em centavos.
// O resultado é determinístico, arredondado ao centavo (meio para cima)
// e nunca negativo.
func ComputeFinalPrice(priceCents int64, discountPercentage int) int64 {
	if priceCents <= 0 {
		return 0
	}
	if discountPercentage <= 0 {
		return priceCents
	}
	if discountPercentage >= 100 {
		return 0
	}

	price := decimal.NewFromInt(priceCents)
	factor := decimal.NewFromInt(int64(100 - discountPercentage)).Div(oneHundred)
	final := price.Mul(factor).Round(0)
	if final.IsNegative() {
		return 0
	}
	return final.IntPart()
}

// FinalPriceForPlan calcula o valor final de um plano com um cupom opcional
func FinalPriceForPlan(plan *domain.SubscriptionPlan, coupon *domain.Coupon) int64 {
	if plan == nil {
		return 0
	}
	if coupon == nil {
		return ComputeFinalPrice(plan.PriceCents, 0)
	}
	return ComputeFinalPrice(plan.PriceCents, coupon.DiscountPercentage)
}

// FormatBRL formata um valor em centavos no padrão brasileiro (ex: "R$ 1.234,56")
func FormatBRL(cents int64) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}

	reais := cents / 100
	centavos := cents % 100

	digits := fmt.Sprintf("%d", reais)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	value := fmt.Sprintf("R$ %s,%02d", strings.Join(groups, "."), centavos)
	if negative {
		return "-" + value
	}
	return value
}
