package routes

import (
	"github.com/gin-gonic/gin"

	coreport "github.com/stellovault/backend/internal/domain/port/core"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/handler"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/middleware"
)

// Handlers groups the API handlers for route registration
type Handlers struct {
	Auth    *handler.AuthHandler
	Wallet  *handler.WalletHandler
	Escrow  *handler.EscrowHandler
	Loan    *handler.LoanHandler
	Webhook *handler.WebhookHandler
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	handlers Handlers,
	tokenParser middleware.TokenParser,
	rateLimiter *middleware.RateLimiter,
	webhookSecret string,
	logger coreport.Logger,
) {
	// Auth routes are the unauthenticated surface and carry the tightest limit
	authRoutes := router.Group("/auth")
	authRoutes.Use(rateLimiter.Middleware("auth"))
	{
		authRoutes.POST("/challenge", handlers.Auth.Challenge)
		authRoutes.POST("/verify", handlers.Auth.Verify)
	}

	authenticated := router.Group("/")
	authenticated.Use(middleware.Auth(tokenParser, logger))
	{
		walletRoutes := authenticated.Group("/wallets")
		{
			walletRoutes.GET("", handlers.Wallet.List)
			walletRoutes.POST("/link/challenge", handlers.Auth.LinkChallenge)
			walletRoutes.POST("/link", handlers.Wallet.Link)
			walletRoutes.DELETE("/:walletId", handlers.Wallet.Unlink)
			walletRoutes.PUT("/:walletId/primary", handlers.Wallet.SetPrimary)
			walletRoutes.PUT("/:walletId/label", handlers.Wallet.UpdateLabel)
		}

		escrowRoutes := authenticated.Group("/escrows")
		{
			escrowRoutes.POST("", handlers.Escrow.Create)
			escrowRoutes.GET("", handlers.Escrow.List)
			escrowRoutes.GET("/:id", handlers.Escrow.Get)
		}

		loanRoutes := authenticated.Group("/loans")
		{
			loanRoutes.POST("", handlers.Loan.Issue)
			loanRoutes.GET("", handlers.Loan.List)
			loanRoutes.GET("/:id", handlers.Loan.Get)
			loanRoutes.POST("/:id/repayments", handlers.Loan.Repay)
		}
	}

	webhookRoutes := router.Group("/webhooks")
	webhookRoutes.Use(middleware.WebhookAuth(webhookSecret, logger))
	{
		webhookRoutes.POST("/escrow", handlers.Webhook.EscrowEvent)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
}
