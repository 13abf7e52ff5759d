package payment

import "github.com/aprendize/aprendize-app/backend/internal/domain"

// NormalizeStatus converte um status cru do gateway para a taxonomia
// interna de quatro valores. Status não reconhecidos viram failed
// (política fail-closed): nunca avançamos um checkout com base em um
// status que não sabemos interpretar.
func NormalizeStatus(gatewayStatus string) domain.PaymentStatus {
	switch gatewayStatus {
	case "approved", "authorized":
		return domain.PaymentStatusPaid
	case "pending", "in_process":
		return domain.PaymentStatusPending
	case "refunded", "charged_back":
		return domain.PaymentStatusRefunded
	default:
		return domain.PaymentStatusFailed
	}
}
