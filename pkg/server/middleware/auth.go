package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tiffinhub/tiffinhub/pkg/identity"
	"github.com/tiffinhub/tiffinhub/pkg/server/store"
)

// BearerAuthenticator is middleware that validates bearer tokens and loads
// the acting principal. The user row is fetched fresh on every request so a
// role change or deactivation takes effect immediately; bypass privileges
// are never cached from an earlier request.
type BearerAuthenticator struct {
	UsersStore store.UsersStore
	SigningKey []byte
}

// NewBearerAuthenticator creates a new bearer token authenticator middleware
func NewBearerAuthenticator(usersStore store.UsersStore, signingKey []byte) *BearerAuthenticator {
	return &BearerAuthenticator{UsersStore: usersStore, SigningKey: signingKey}
}

// Middleware returns an HTTP middleware that validates bearer tokens
func (b *BearerAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Authorization missing"))
			return
		}

		tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Malformed authorization header"))
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return b.SigningKey, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid authorization token"))
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid authorization token"))
			return
		}

		user, err := b.UsersStore.FetchUser(subject)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unknown principal"))
			return
		}
		if !user.IsActive {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Account disabled"))
			return
		}

		ctx := identity.Set(r.Context(), &identity.Identity{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
