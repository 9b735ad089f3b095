package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/m04kA/SMC-SlotBooking/internal/api/handlers"
)

// Recover отвечает 500 на панику в обработчике
func Recover(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					log.Error("type: panic, method: %s, url: %s, requestID: %s, error: %v\n%s",
						r.Method, r.URL.Path, GetRequestID(r.Context()), p, debug.Stack())
					handlers.RespondInternalError(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
