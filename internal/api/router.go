package api

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/birddog/teddy/internal/api/handlers"
	"github.com/birddog/teddy/pkg/config"
	"github.com/birddog/teddy/pkg/logger"
	"github.com/birddog/teddy/pkg/redis"
)

// NewRouter wires all endpoints and middleware.
func NewRouter(
	healthHandler *handlers.HealthHandler,
	insightHandler *handlers.InsightHandler,
	searchHandler *handlers.SearchHandler,
	recommendHandler *handlers.RecommendHandler,
	chatHandler *handlers.ChatHandler,
	limiter *redis.RateLimiter,
	cfg *config.Config,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/insights/property/{parcelID}", insightHandler.GetPropertyInsights).Methods("GET")
	api.HandleFunc("/search/properties", searchHandler.SearchProperties).Methods("GET")
	api.HandleFunc("/recommendations/crops/{parcelID}", recommendHandler.GetCropRecommendations).Methods("GET")

	api.HandleFunc("/chat/message", chatHandler.SendMessage).Methods("POST")
	api.HandleFunc("/chat/history/{conversationID}", chatHandler.GetHistory).Methods("GET")
	api.HandleFunc("/chat/conversation/{conversationID}", chatHandler.DeleteConversation).Methods("DELETE")
	api.HandleFunc("/chat/ws", chatHandler.WebSocket).Methods("GET")

	api.Use(rateLimitMiddleware(limiter, cfg, log))
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
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

// rateLimitMiddleware applies the sliding-window limit per caller IP.
// A nil limiter (Redis disabled) passes everything through.
func rateLimitMiddleware(limiter *redis.RateLimiter, cfg *config.Config, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			allowed, remaining, err := limiter.Allow(r.Context(),
				redis.APIRateLimit(ip, cfg.RateLimit.Requests, cfg.RateLimit.Window))
			if err != nil {
				// Rate limiting must not take the API down with it.
				log.WithError(err).Warn("Rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
