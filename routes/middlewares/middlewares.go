package middlewares

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"
)

// Require gates a route on one permission code carried in the token's
// "perms" claim.
func Require(secret, code string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(oauth.Authorize(secret, nil), permission(code)).Handler(next)
	}
}

func permission(code string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(oauth.ClaimsContext).(map[string]string)
			if !ok {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			granted := false
			if permsClaim, ok := claims["perms"]; ok {
				for _, perm := range strings.Split(permsClaim, ",") {
					if perm == code {
						granted = true
						break
					}
				}
			}

			if !granted {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserID extracts the authenticated user's id from the token claims; nil
// when the request carries no usable token.
func UserID(r *http.Request) *uint {
	claims, ok := r.Context().Value(oauth.ClaimsContext).(map[string]string)
	if !ok {
		return nil
	}
	raw, ok := claims["uid"]
	if !ok {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	uid := uint(id)
	return &uid
}
