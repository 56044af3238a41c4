package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/auth"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/handlers"
	"github.com/kunalprakash3891/nifty-sms-verification-system/internal/middleware"
)

const apiNamespace = "/nifty-sms-verification-system/v1"

func NewRouter(
	verificationHandler *handlers.VerificationHandler,
	phoneNumberHandler *handlers.PhoneNumberHandler,
	blacklistHandler *handlers.BlacklistHandler,
	healthHandler *handlers.HealthHandler,
	jwtManager *auth.JWTManager,
) *mux.Router {
	r := mux.NewRouter()

	// Operational endpoints outside the API namespace
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix(apiNamespace).Subrouter()
	api.Use(middleware.Metrics)

	// Verification endpoints serve both anonymous and logged-in callers
	public := api.NewRoute().Subrouter()
	public.Use(middleware.OptionalAuthenticate(jwtManager))
	public.HandleFunc("/available", verificationHandler.Available).Methods("GET")
	public.HandleFunc("/requestsmscode", verificationHandler.RequestCode).Methods("POST")
	public.HandleFunc("/verifysmscode", verificationHandler.VerifyCode).Methods("POST")

	// Phone record endpoints require a caller identity
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Authenticate(jwtManager))
	protected.HandleFunc("/phonenumber/{user_id:[0-9]+}", phoneNumberHandler.Get).Methods("GET")
	protected.HandleFunc("/phonenumber/{user_id:[0-9]+}", phoneNumberHandler.Delete).Methods("DELETE")

	// Blacklist management is admin-only
	admin := api.PathPrefix("/blacklist").Subrouter()
	admin.Use(middleware.Authenticate(jwtManager), middleware.RequireRole("admin"))
	admin.HandleFunc("", blacklistHandler.List).Methods("GET")
	admin.HandleFunc("", blacklistHandler.Add).Methods("POST")
	admin.HandleFunc("/{phone_number}", blacklistHandler.Remove).Methods("DELETE")

	return r
}
