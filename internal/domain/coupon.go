package domain

// Coupon representa um cupom de desconto percentual.
// O código é sensível a maiúsculas/minúsculas e o cupom nunca é mutado:
// no máximo um cupom fica aplicado por sessão de checkout.
type Coupon struct {
	Code               string `json:"code"`
	DiscountPercentage int    `json:"discount_percentage"` // 0 a 100
}

// IsValid verifica se o percentual de desconto está dentro da faixa permitida
func (c *Coupon) IsValid() bool {
	return c.Code != "" && c.DiscountPercentage >= 0 && c.DiscountPercentage <= 100
}
