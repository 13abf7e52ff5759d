package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aprendize/aprendize-app/backend/internal/config"
)

// Client implementa ports.Gateway para a API do Mercado Pago
type Client struct {
	baseURL      string
	httpClient   *http.Client
	tokenManager *TokenManager
}

// NewClient cria um novo cliente a partir da configuração do gateway
func NewClient(cfg *config.GatewayConfig) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("client_id e client_secret do gateway são obrigatórios")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Sandbox {
			baseURL = APIURLSandbox
		} else {
			baseURL = APIURLProd
		}
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return &Client{
		baseURL:      baseURL,
		httpClient:   httpClient,
		tokenManager: NewTokenManager(cfg.ClientID, cfg.ClientSecret, baseURL, httpClient),
	}, nil
}

// doRequest executa uma requisição HTTP autenticada.
// Em caso de 401 o token é invalidado e a requisição repetida uma vez.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	respBody, status, err := c.attempt(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		c.tokenManager.Invalidate()
		respBody, status, err = c.attempt(ctx, method, path, body)
		if err != nil {
			return nil, err
		}
	}

	if status < 200 || status >= 300 {
		apiErr := &APIError{Status: status}
		if json.Unmarshal(respBody, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = string(respBody)
		}
		apiErr.Status = status
		return nil, apiErr
	}

	return respBody, nil
}

// attempt executa uma única tentativa de requisição
func (c *Client) attempt(ctx context.Context, method, path string, body interface{}) ([]byte, int, error) {
	token, err := c.tokenManager.GetToken()
	if err != nil {
		return nil, 0, err
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("erro ao serializar body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	url := fmt.Sprintf("%s%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao criar requisição: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	if method == http.MethodPost {
		// A API exige chave de idempotência em operações de escrita
		req.Header.Set("X-Idempotency-Key", uuid.NewString())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("erro na requisição HTTP: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	return respBody, resp.StatusCode, nil
}
