package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/kunalprakash3891/nifty-sms-verification-system/pkg/utils"
)

func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[Recovery] panic serving %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
				utils.JSONError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
