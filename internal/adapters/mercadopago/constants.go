package mercadopago

const (
	// Produção
	APIURLProd = "https://api.mercadopago.com"

	// Sandbox/Homologação
	APIURLSandbox = "https://api.sandbox.mercadopago.com"
)
