package checkout

import "errors"

// Erros sentinela da sessão de checkout.
// Nenhum deles é fatal: todos são recuperáveis por ação do usuário.
var (
	// ErrSessionExpired indica que a sessão expirou; bloqueia toda mutação
	// e só é recuperável via Reset
	ErrSessionExpired = errors.New("checkout: sessão expirada")

	// ErrInvalidCoupon indica cupom inexistente (corrigível pelo usuário)
	ErrInvalidCoupon = errors.New("checkout: cupom inválido")

	// ErrAlreadyProcessing indica que já há um pagamento em andamento;
	// a segunda submissão é tratada como no-op
	ErrAlreadyProcessing = errors.New("checkout: pagamento já em processamento")

	// ErrNoPlanSelected indica tentativa de pagamento sem plano escolhido
	ErrNoPlanSelected = errors.New("checkout: nenhum plano selecionado")

	// ErrInvalidState indica operação não permitida no estado atual da sessão
	ErrInvalidState = errors.New("checkout: operação não permitida no estado atual")

	// ErrSessionNotFound indica que a sessão não existe ou foi encerrada
	ErrSessionNotFound = errors.New("checkout: sessão não encontrada")

	// ErrInvoiceNotFound indica que a fatura não existe
	ErrInvoiceNotFound = errors.New("checkout: fatura não encontrada")
)

// IsSessionExpired retorna true se o erro indica sessão expirada
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// IsInvalidCoupon retorna true se o erro indica cupom inválido
func IsInvalidCoupon(err error) bool {
	return errors.Is(err, ErrInvalidCoupon)
}

// IsAlreadyProcessing retorna true se o erro indica submissão concorrente
func IsAlreadyProcessing(err error) bool {
	return errors.Is(err, ErrAlreadyProcessing)
}
