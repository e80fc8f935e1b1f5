package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/2beens/physiotrack/internal/telemetry/metrics"
	"github.com/2beens/physiotrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns a handler panic into a 500 and logs it with the route
// template and session id, so a crash in one session's runner is traceable.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				log.WithFields(log.Fields{
					"route":   routeName(req),
					"method":  req.Method,
					"session": mux.Vars(req)["id"],
				}).Errorf("http: panic serving %s: %v\n%s", req.URL.Path, recovered, debug.Stack())
				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				pkg.WriteError(w, "internal error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, req)
		})
	}
}
