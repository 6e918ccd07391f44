// Package middleware provides HTTP middleware for the ACM API.
package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"acm/internal/domain"
)

// BasicCredentials holds the shared-secret credentials consuming services
// authenticate with.
type BasicCredentials struct {
	User     string
	Password string
}

// AuthMiddleware tries HTTP basic auth first, then an HS256 bearer token.
// Authentication happens entirely before the core is invoked; handlers see
// only the caller name in the request context. Returns 401 if both fail.
func AuthMiddleware(creds BasicCredentials, jwtSecret []byte) func(http.Handler) http.Handler {
	userHash := sha256.Sum256([]byte(creds.User))
	passHash := sha256.Sum256([]byte(creds.Password))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, pass, ok := r.BasicAuth(); ok {
				uh := sha256.Sum256([]byte(user))
				ph := sha256.Sum256([]byte(pass))
				userOK := subtle.ConstantTimeCompare(uh[:], userHash[:]) == 1
				passOK := subtle.ConstantTimeCompare(ph[:], passHash[:]) == 1
				if userOK && passOK {
					ctx := domain.WithCaller(r.Context(), user)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") && len(jwtSecret) > 0 {
				tokenStr := strings.TrimPrefix(auth, "Bearer ")
				token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
					return jwtSecret, nil
				}, jwt.WithValidMethods([]string{"HS256"}))

				if err == nil && token.Valid {
					if claims, ok := token.Claims.(jwt.MapClaims); ok {
						if sub, ok := claims["sub"].(string); ok && sub != "" {
							ctx := domain.WithCaller(r.Context(), sub)
							next.ServeHTTP(w, r.WithContext(ctx))
							return
						}
					}
				}
			}

			w.Header().Set("WWW-Authenticate", `Basic realm="acm"`)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"code":        http.StatusUnauthorized,
				"description": "unauthorized: provide basic credentials or a valid bearer token",
			})
		})
	}
}
