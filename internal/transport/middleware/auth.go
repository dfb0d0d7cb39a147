package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

type callerKey struct{}

// CallerIdentity - идентичность вызывающего из JWT клеймов
type CallerIdentity struct {
	UserId string
	Name   string
}

// Claims - клеймы токена ChroneTask
type Claims struct {
	UserId string `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Auth проверяет Bearer JWT (HS256) и кладет идентичность
// вызывающего в контекст запроса
func Auth(secret string, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeUnauthorized(w)
				return
			}

			claims := &Claims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !parsed.Valid || claims.UserId == "" {
				logger.Warn("invalid token",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), callerKey{}, CallerIdentity{
				UserId: claims.UserId,
				Name:   claims.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerFromContext возвращает идентичность, положенную Auth
func CallerFromContext(ctx context.Context) (CallerIdentity, bool) {
	caller, ok := ctx.Value(callerKey{}).(CallerIdentity)
	return caller, ok
}

// WithCaller кладет идентичность в контекст в обход Auth
func WithCaller(ctx context.Context, caller CallerIdentity) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"missing or invalid token"}}`))
}
