package middleware

import (
	"net/http"
	"strings"

	"pulseboard/internal/config"
	"pulseboard/internal/pkg"
)

// JWT accepts the access token either as the access_token cookie set by the
// login handler or as an Authorization bearer header.
func JWT(cfg *config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if cookie, err := r.Cookie("access_token"); err == nil {
				token = cookie.Value
			}
			if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}

			if _, err := pkg.ValidateToken(token, cfg.JWTSecret); err != nil {
				http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
