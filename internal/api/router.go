package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/gigapp/gig/backend/internal/api/handlers"
	"github.com/gigapp/gig/backend/pkg/logger"
)

// Handlers groups the endpoint handlers the router wires
type Handlers struct {
	Contracts *handlers.ContractsHandler
	Dashboard *handlers.DashboardHandler
	Calendar  *handlers.CalendarHandler

	// WebSocket upgrades /ws; nil disables push
	WebSocket http.HandlerFunc
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: routes are declared in this function only
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Push channel
	if h.WebSocket != nil {
		r.HandleFunc("/ws", h.WebSocket).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/me", h.Contracts.Me).Methods("GET")

	// Contracts
	api.HandleFunc("/contracts", h.Contracts.List).Methods("GET")
	api.HandleFunc("/contracts/refresh", h.Contracts.Refresh).Methods("POST")
	api.HandleFunc("/contracts/{id}", h.Contracts.Get).Methods("GET")
	api.HandleFunc("/contracts/{id}/{action:accept|decline|cancel}", h.Contracts.Act).Methods("POST")

	// Dashboard
	api.HandleFunc("/dashboard", h.Dashboard.Get).Methods("GET")
	api.HandleFunc("/dashboard/chart", h.Dashboard.Chart).Methods("GET")
	api.HandleFunc("/dashboard/snapshots", h.Dashboard.Snapshots).Methods("GET")

	// Calendar
	api.HandleFunc("/calendar/marks", h.Calendar.Marks).Methods("GET")
	api.HandleFunc("/calendar/agenda", h.Calendar.Agenda).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": logger.ServiceName,
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
