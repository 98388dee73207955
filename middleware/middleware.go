package middleware // import "github.com/tetherhq/tether-read/middleware"

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tetherhq/tether-read/api/auth"
	"github.com/tetherhq/tether-read/http/request"
	"github.com/tetherhq/tether-read/http/response"
	"github.com/tetherhq/tether-read/log"
)

type Middleware struct {
	verifier auth.Verifier
}

func NewMiddleware(verifier auth.Verifier) *Middleware {
	return &Middleware{verifier: verifier}
}

func (m *Middleware) HandleCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "X-Auth-Token, Authorization, Content-Type, Accept")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Max-Age", "7200")
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) LoggingRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := request.FindClientIP(r)
		log.Debug("[HTTP] Incoming request",
			zap.String("client_ip", clientIP),
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.String("user_agent", r.UserAgent()),
		)

		ctx := context.WithValue(r.Context(), request.ClientIPContextKey, clientIP)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthenticationInterceptor resolves the bearer credential into an owner id
// before any handler touches a data store.
func (m *Middleware) AuthenticationInterceptor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, err := getAccessToken(r)
		if err != nil {
			log.Debug("[API] No usable bearer credential",
				zap.String("client_ip", request.FindClientIP(r)),
				zap.String("user_agent", r.UserAgent()),
			)
			response.Unauthorized(w, r)
			return
		}

		ownerID, err := m.verifier.Verify(r.Context(), accessToken)
		if err != nil {
			log.Debug("[API] Credential rejected",
				zap.Error(err),
				zap.String("client_ip", request.FindClientIP(r)),
			)
			if errors.Is(err, auth.ErrExpiredCredential) {
				response.TokenExpired(w, r)
				return
			}
			response.Unauthorized(w, r)
			return
		}

		next.ServeHTTP(w, request.WithUserID(r, ownerID))
	})
}

// getAccessToken extracts the bearer token from the Authorization header.
func getAccessToken(r *http.Request) (string, error) {
	authorizationHeader := r.Header.Get("Authorization")
	if authorizationHeader == "" {
		return "", auth.ErrMissingCredential
	}

	parts := strings.SplitN(authorizationHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", auth.ErrMissingCredential
	}
	return parts[1], nil
}
