package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes registra todas as rotas da API
func SetupRoutes(r *gin.Engine, allowedOrigins []string, checkout *CheckoutHandler, webhooks *WebhookHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", HealthCheck)

	api := r.Group("/api")
	{
		api.GET("/plans", checkout.GetPlans)

		sessions := api.Group("/checkout/sessions")
		{
			sessions.POST("", checkout.CreateSession)
			sessions.GET("/:id", checkout.GetSession)
			sessions.DELETE("/:id", checkout.DestroySession)
			sessions.POST("/:id/plan", checkout.SelectPlan)
			sessions.POST("/:id/coupon", checkout.ApplyCoupon)
			sessions.POST("/:id/payment-tab", checkout.SelectPaymentTab)
			sessions.GET("/:id/summary", checkout.GetSummary)
			sessions.POST("/:id/payments", checkout.GeneratePayment)
			sessions.POST("/:id/payments/:artifactId/confirm", checkout.ConfirmPayment)
			sessions.POST("/:id/reset", checkout.Reset)
		}

		users := api.Group("/users")
		{
			users.POST("/:userId/payment-methods", checkout.RegisterPaymentMethod)
			users.GET("/:userId/payment-methods", checkout.ListPaymentMethods)
		}

		api.GET("/invoices/:id/download", checkout.DownloadInvoice)

		api.POST("/webhooks/payments", webhooks.HandlePaymentWebhook)
	}
}
