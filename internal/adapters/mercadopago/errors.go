package mercadopago

import (
	"errors"
	"fmt"
	"net/http"
)

// Erros sentinela para condições comuns da API
var (
	// ErrNotFound indica que o recurso não foi encontrado
	ErrNotFound = errors.New("mercadopago: recurso não encontrado")

	// ErrUnauthorized indica falha de autenticação
	ErrUnauthorized = errors.New("mercadopago: não autorizado")

	// ErrInvalidRequest indica requisição inválida
	ErrInvalidRequest = errors.New("mercadopago: requisição inválida")

	// ErrRateLimited indica rate limiting
	ErrRateLimited = errors.New("mercadopago: rate limit atingido")

	// ErrServerError indica erro interno do servidor do gateway
	ErrServerError = errors.New("mercadopago: erro do servidor")
)

// IsNotFound retorna true se o erro indica que o recurso não foi encontrado
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound
	}
	return false
}

// IsUnauthorized retorna true se o erro indica falha de autenticação
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized
	}
	return false
}

// IsRateLimited retorna true se o erro indica rate limiting
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusTooManyRequests
	}
	return false
}

// IsServerError retorna true se o erro é do servidor do gateway (5xx)
func IsServerError(err error) bool {
	if errors.Is(err, ErrServerError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return false
}

// ClassifyError converte um erro da API para um erro sentinela quando apropriado
func ClassifyError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.Status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Error())
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Error())
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Error())
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, apiErr.Error())
	}

	if apiErr.Status >= 500 {
		return fmt.Errorf("%w: %s", ErrServerError, apiErr.Error())
	}

	return err
}
