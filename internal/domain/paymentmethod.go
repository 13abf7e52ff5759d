package domain

import "fmt"

// PaymentMethodType representa o tipo de um método de pagamento cadastrado
type PaymentMethodType string

const (
	PaymentMethodTypeCredit  PaymentMethodType = "credit"
	PaymentMethodTypeDebit   PaymentMethodType = "debit"
	PaymentMethodTypePix     PaymentMethodType = "pix"
	PaymentMethodTypeBoleto  PaymentMethodType = "boleto"
	PaymentMethodTypeAccount PaymentMethodType = "account"
)

// IsValid verifica se o tipo é um dos conhecidos
func (t PaymentMethodType) IsValid() bool {
	switch t {
	case PaymentMethodTypeCredit, PaymentMethodTypeDebit, PaymentMethodTypePix,
		PaymentMethodTypeBoleto, PaymentMethodTypeAccount:
		return true
	}
	return false
}

// PaymentMethod representa um método de pagamento salvo de um usuário.
// Em regime permanente espera-se no máximo um método padrão por usuário;
// a seleção de cobrança usa o padrão quando não há escolha explícita.
type PaymentMethod struct {
	ID          string            `json:"id"`
	Type        PaymentMethodType `json:"type"`
	Brand       string            `json:"brand,omitempty"`
	Last4       string            `json:"last4,omitempty"` // Apenas para cartões
	ExpiryMonth int               `json:"expiry_month,omitempty"`
	ExpiryYear  int               `json:"expiry_year,omitempty"`
	IsDefault   bool              `json:"is_default"`
}

// IsCard verifica se o método é um cartão de crédito ou débito
func (m *PaymentMethod) IsCard() bool {
	return m.Type == PaymentMethodTypeCredit || m.Type == PaymentMethodTypeDebit
}

// Display retorna uma descrição curta para exibição (ex: "Visa •••• 4242")
func (m *PaymentMethod) Display() string {
	if m.IsCard() && m.Last4 != "" {
		if m.Brand != "" {
			return fmt.Sprintf("%s •••• %s", m.Brand, m.Last4)
		}
		return fmt.Sprintf("Cartão •••• %s", m.Last4)
	}
	return string(m.Type)
}

// DefaultPaymentMethod retorna o método padrão de uma lista, ou nil se não houver
func DefaultPaymentMethod(methods []PaymentMethod) *PaymentMethod {
	for i := range methods {
		if methods[i].IsDefault {
			return &methods[i]
		}
	}
	return nil
}
