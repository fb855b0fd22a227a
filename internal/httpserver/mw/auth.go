package mw

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/silahub/site/internal/logger"
	"github.com/silahub/site/internal/session"
)

type ctxKey int

const adminKey ctxKey = iota

// Authorizer checks a bearer token against the active admin session.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (string, error)
}

// RequireAdmin rejects requests without a bearer token for the active
// admin session. The admin username is stored in the request context.
func RequireAdmin(a Authorizer, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			username, err := a.Authorize(r.Context(), token)
			if err != nil {
				if !errors.Is(err, session.ErrUnauthorized) {
					log.Error("failed to authorize admin request",
						logger.String("path", r.URL.Path),
						logger.Error(err))
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				log.Debugf("RequireAdmin: rejected %s %s: %v", r.Method, r.URL.Path, err)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), adminKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFrom returns the admin username set by RequireAdmin.
func AdminFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(adminKey).(string)
	return v, ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="silahub-admin"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": "authentication required",
	})
}
