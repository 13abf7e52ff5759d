// Package config gerencia as configurações do aplicativo
// carregando variáveis de ambiente do arquivo .env
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config armazena todas as configurações da aplicação
type Config struct {
	// Servidor
	Port string
	Env  string

	// Gateway de pagamento
	Gateway GatewayConfig

	// Checkout
	Checkout CheckoutConfig

	// CORS
	AllowedOrigins []string
}

// GatewayConfig armazena configurações do gateway de pagamento
type GatewayConfig struct {
	BaseURL       string
	ClientID      string
	ClientSecret  string
	WebhookSecret string
	Sandbox       bool
}

// CheckoutConfig armazena os parâmetros da sessão de checkout
type CheckoutConfig struct {
	SessionSeconds          int
	LowTimeThresholdSeconds int
}

// Load carrega as configurações do arquivo .env e variáveis de ambiente
// O arquivo .env é opcional - variáveis de ambiente têm prioridade
func Load() (*Config, error) {
	// Tenta carregar .env (ignora erro se não existir)
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),
		Gateway: GatewayConfig{
			BaseURL:       getEnv("GATEWAY_BASE_URL", ""),
			ClientID:      getEnv("GATEWAY_CLIENT_ID", ""),
			ClientSecret:  getEnv("GATEWAY_CLIENT_SECRET", ""),
			WebhookSecret: getEnv("GATEWAY_WEBHOOK_SECRET", ""),
			Sandbox:       getEnvBool("GATEWAY_SANDBOX", true),
		},
		Checkout: CheckoutConfig{
			SessionSeconds:          getEnvInt("CHECKOUT_SESSION_SECONDS", 900),
			LowTimeThresholdSeconds: getEnvInt("CHECKOUT_LOW_TIME_SECONDS", 300),
		},
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// Validação básica
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate verifica se as configurações obrigatórias estão presentes
func (c *Config) validate() error {
	if c.Gateway.ClientID == "" {
		return fmt.Errorf("GATEWAY_CLIENT_ID é obrigatório")
	}
	if c.Gateway.ClientSecret == "" {
		return fmt.Errorf("GATEWAY_CLIENT_SECRET é obrigatório")
	}
	if c.Checkout.SessionSeconds <= 0 {
		return fmt.Errorf("CHECKOUT_SESSION_SECONDS deve ser positivo")
	}
	if c.Checkout.LowTimeThresholdSeconds < 0 || c.Checkout.LowTimeThresholdSeconds >= c.Checkout.SessionSeconds {
		return fmt.Errorf("CHECKOUT_LOW_TIME_SECONDS deve estar entre 0 e a duração da sessão")
	}
	return nil
}

// IsDevelopment retorna true se estiver em ambiente de desenvolvimento
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction retorna true se estiver em ambiente de produção
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv obtém uma variável de ambiente ou retorna o valor padrão
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt obtém uma variável de ambiente como int
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvBool obtém uma variável de ambiente como bool
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvList obtém uma variável de ambiente como lista separada por vírgulas
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
