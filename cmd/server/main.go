package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/auth"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/cache"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/config"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/database"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/db"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/handlers"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/health"
	httprouter "github.com/kunalprakash3891/nifty-sms-verification-system/internal/http"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/middleware"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/repositories"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/services"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/sms"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	if err := cache.Init(); err != nil {
		log.Printf("[Main] redis unavailable, phone-details cache disabled: %v", err)
	}

	// Repositories
	pendingRepo := repositories.NewPendingVerificationRepository(pool)
	smsLogRepo := repositories.NewSMSLogRepository(pool)
	delayedRepo := repositories.NewDelayedNumberRepository(pool)
	userPhoneRepo := repositories.NewUserPhoneNumberRepository(pool)
	blacklistRepo := repositories.NewBlacklistRepository(pool)

	// The real provider needs complete credentials; anything less runs
	// the in-memory mock so local development works out of the box.
	var provider sms.VerifyProvider
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" && cfg.Twilio.VerifyServiceSID != "" {
		provider = sms.NewTwilioVerifyService(
			cfg.Twilio.AccountSID,
			cfg.Twilio.AuthToken,
			cfg.Twilio.VerifyServiceSID,
			cfg.Verification.Enabled,
		)
		log.Println("[Main] using Twilio Verify provider")
	} else {
		provider = sms.NewMockVerifyService()
		log.Println("[Main] Twilio credentials missing, using mock provider")
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpirationHours, cfg.JWT.Issuer)

	// Services
	blacklistService := services.NewBlacklistService(blacklistRepo)
	phoneNumberService := services.NewPhoneNumberService(userPhoneRepo, pendingRepo)
	verificationService := services.NewVerificationService(
		pendingRepo, smsLogRepo, delayedRepo,
		blacklistService, phoneNumberService,
		provider, jwtManager, cfg,
	)
	cleanupService := services.NewCleanupService(pendingRepo, smsLogRepo)
	if err := cleanupService.Start(); err != nil {
		log.Fatalf("cleanup scheduler failed: %v", err)
	}
	defer cleanupService.Stop()

	// Handlers
	verificationHandler := handlers.NewVerificationHandler(verificationService)
	phoneNumberHandler := handlers.NewPhoneNumberHandler(phoneNumberService)
	blacklistHandler := handlers.NewBlacklistHandler(blacklistService)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool, provider))

	router := httprouter.NewRouter(
		verificationHandler,
		phoneNumberHandler,
		blacklistHandler,
		healthHandler,
		jwtManager,
	)

	handler := middleware.PanicRecovery(
		middleware.RequestLogging(
			middleware.CORS(cfg)(router),
		),
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[Main] listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
