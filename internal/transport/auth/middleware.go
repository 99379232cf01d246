package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"zaireen_import/internal/repository"
)

type ctxKey string

const UserIDKey ctxKey = "userID"

type TokenRepo interface {
	FindByPlainToken(ctx context.Context, plainToken string) (*repository.AccessToken, error)
}

// TokenMiddleware guards mutating endpoints with a bearer access token.
// OPTIONS requests pass through for CORS preflights.
func TokenMiddleware(tokenRepo TokenRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			var tok *repository.AccessToken
			if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
				plain := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
				if plain != "" {
					t, err := tokenRepo.FindByPlainToken(r.Context(), plain)
					if err == nil {
						tok = t
					} else {
						log.Printf("[AUTH] token lookup error: %v", err)
					}
				}
			}

			if tok == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if tok.ExpiresAt != nil && tok.ExpiresAt.Before(time.Now()) {
				http.Error(w, "Token expired", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, fmt.Sprintf("%d", tok.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(ctx context.Context) (string, error) {
	v, ok := ctx.Value(UserIDKey).(string)
	if !ok || v == "" {
		return "", errors.New("userID not found in context")
	}
	return v, nil
}
