package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"rsbackend/appctx"
	"rsbackend/models"
)

// BotAuthMiddleware authenticates the webhook relay bot with a shared
// secret bearer token.
type BotAuthMiddleware struct {
	apiKey string
}

func NewBotAuthMiddleware(apiKey string) *BotAuthMiddleware {
	return &BotAuthMiddleware{apiKey: apiKey}
}

// WithBotAuth wraps an HTTP handler with bot bearer-token authentication.
func (m *BotAuthMiddleware) WithBotAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Printf("❌ Bot request without bearer token from %s", r.RemoteAddr)
			writeUnauthorized(w, "Missing or invalid authorization header")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if m.apiKey == "" || subtle.ConstantTimeCompare([]byte(token), []byte(m.apiKey)) != 1 {
			log.Printf("❌ Bot request with invalid API key from %s", r.RemoteAddr)
			writeUnauthorized(w, "Invalid API key")
			return
		}

		ctx := appctx.SetActor(r.Context(), models.BotActor())
		next(w, r.WithContext(ctx))
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		log.Printf("❌ Failed to encode unauthorized response: %v", err)
	}
}
