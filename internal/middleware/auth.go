package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Varun5711/deeplinks/internal/auth"
	"github.com/Varun5711/deeplinks/internal/logger"
)

const ClientKey contextKey = "api_client"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	log        *logger.Logger
}

// NewAuthMiddleware returns a middleware that checks management API bearer
// tokens. A nil manager disables the check.
func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		log:        logger.New("auth-middleware"),
	}
}

func (m *AuthMiddleware) RequireToken(next http.HandlerFunc) http.HandlerFunc {
	if m.jwtManager == nil {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			writeError(w, http.StatusUnauthorized, "Authorization header must use the Bearer scheme")
			return
		}

		claims, err := m.jwtManager.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			m.log.Warn("Invalid token: %v", err)
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ClientKey, claims.Client)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func GetClient(ctx context.Context) string {
	if client, ok := ctx.Value(ClientKey).(string); ok {
		return client
	}
	return ""
}
