package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	authUseCase "github.com/stellovault/backend/internal/domain/usecase/auth"
	escrowUseCase "github.com/stellovault/backend/internal/domain/usecase/escrow"
	loanUseCase "github.com/stellovault/backend/internal/domain/usecase/loan"
	walletUseCase "github.com/stellovault/backend/internal/domain/usecase/wallet"

	"github.com/stellovault/backend/internal/infrastructure/adapter/api/handler"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/middleware"
	"github.com/stellovault/backend/internal/infrastructure/adapter/api/routes"
	"github.com/stellovault/backend/internal/infrastructure/adapter/database"
	"github.com/stellovault/backend/internal/infrastructure/adapter/logger"
	"github.com/stellovault/backend/internal/infrastructure/adapter/notifier"
	"github.com/stellovault/backend/internal/infrastructure/adapter/soroban"
	"github.com/stellovault/backend/internal/infrastructure/adapter/stellar"
	timeProvider "github.com/stellovault/backend/internal/infrastructure/adapter/time"
	"github.com/stellovault/backend/internal/infrastructure/adapter/token"
	"github.com/stellovault/backend/internal/infrastructure/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production, cfg.Logger.Level)
	defer func() {
		_ = appLogger.Flush()
	}()

	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database and bring the schema up to date
	dbManager := database.NewManager(database.FromAppConfig(cfg), appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	uow := dbManager.CreateUnitOfWork()

	// External adapters
	verifier := stellar.NewSignatureVerifier()
	tokenIssuer := token.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer, tp)
	invocationBuilder := soroban.NewInvocationBuilder(cfg.Soroban.RPCURL, cfg.Soroban.NetworkPassphrase, appLogger)
	eventHub := notifier.NewHub(appLogger)
	defer eventHub.Close()

	// Redis backs the rate limiter; an empty addr runs without one
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	} else {
		appLogger.Warn("Redis address not configured, rate limiting disabled", nil)
	}
	rateLimiter := middleware.NewRateLimiter(redisClient, cfg.Redis.RateLimit, cfg.Redis.RateLimitWindow, appLogger)

	// Services
	authService := authUseCase.NewService(uow, verifier, tokenIssuer, tp, appLogger)
	walletService := walletUseCase.NewService(uow, authService, tp, appLogger)
	escrowService := escrowUseCase.NewService(uow, invocationBuilder, eventHub, tp, appLogger, cfg.Soroban.EscrowContractID)
	loanService := loanUseCase.NewService(uow, invocationBuilder, eventHub, tp, appLogger, cfg.Soroban.LoanContractID)

	// Background sweep for expired escrows and stale challenges
	sweeper := escrowUseCase.NewSweeper(escrowService, uow, tp, appLogger, cfg.Escrow.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	// API handlers
	handlers := routes.Handlers{
		Auth:    handler.NewAuthHandler(authService, appLogger),
		Wallet:  handler.NewWalletHandler(walletService, appLogger),
		Escrow:  handler.NewEscrowHandler(escrowService, appLogger),
		Loan:    handler.NewLoanHandler(loanService, appLogger),
		Webhook: handler.NewWebhookHandler(escrowService, appLogger),
	}

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, handlers, tokenIssuer, rateLimiter, cfg.Webhook.Secret, appLogger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	if cfg.Database.Host == "" {
		missingConfigs = append(missingConfigs, "database.host (or SV_DB_HOST environment variable)")
	}
	if cfg.Database.Port == "" {
		missingConfigs = append(missingConfigs, "database.port (or SV_DB_PORT environment variable)")
	}
	if cfg.Database.Username == "" {
		missingConfigs = append(missingConfigs, "database.username (or SV_DB_USERNAME environment variable)")
	}
	if cfg.Database.Password == "" {
		missingConfigs = append(missingConfigs, "database.password (or SV_DB_PASSWORD environment variable)")
	}
	if cfg.Database.Database == "" {
		missingConfigs = append(missingConfigs, "database.database (or SV_DB_NAME environment variable)")
	}
	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	// Tokens cannot be minted without a secret; refuse to boot rather than
	// fall back to a guessable default
	if cfg.Auth.JWTSecret == "" {
		missingConfigs = append(missingConfigs, "auth.jwtSecret (or SV_AUTH_JWT_SECRET environment variable)")
	}
	if cfg.Auth.TokenTTL == 0 {
		missingConfigs = append(missingConfigs, "auth.tokenTTL")
	}

	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	if cfg.Environment == config.Production {
		var warnings []string

		if strings.ToLower(cfg.Database.SSLMode) != "require" &&
			strings.ToLower(cfg.Database.SSLMode) != "verify-ca" &&
			strings.ToLower(cfg.Database.SSLMode) != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}

		if cfg.Webhook.Secret == "" {
			warnings = append(warnings, "webhook.secret is unset, the escrow webhook will answer 503")
		}

		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}
		if cfg.Server.WriteTimeout < 5*time.Second {
			warnings = append(warnings, "server.writeTimeout is too low for production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
