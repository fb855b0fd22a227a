package mw

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silahub/site/internal/logger"
	"github.com/silahub/site/internal/session"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host, pattern string
		want          bool
	}{
		{"silahub.ca", "silahub.ca", true},
		{"admin.silahub.ca", "*.silahub.ca", true},
		{"silahub.ca", "*.silahub.ca", false},
		{"evilsilahub.ca", "*.silahub.ca", false},
		{"other.com", "silahub.ca", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchHost(tt.host, tt.pattern), "%s vs %s", tt.host, tt.pattern)
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"Admin.Silahub.ca"}, logger.NewNop())(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "admin.silahub.ca:8080"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req.Host = "example.com"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	passthrough := EnforceHost(nil, logger.NewNop())(okHandler)
	rec = httptest.NewRecorder()
	passthrough.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitPerIP(t *testing.T) {
	limited := 0
	h := RateLimit(RateLimitConfig{
		Burst:             2,
		RefillPerIPPerMin: 1,
		OnLimited:         func() { limited++ },
	})(okHandler)

	hit := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/leads", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, hit("198.51.100.7:1000").Code)
	rec := hit("198.51.100.7:1001")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = hit("198.51.100.7:1002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, 1, limited)

	// Another client has its own bucket.
	assert.Equal(t, http.StatusOK, hit("203.0.113.9:1000").Code)
}

type fakeAuthorizer struct {
	user string
	err  error
}

func (f fakeAuthorizer) Authorize(_ context.Context, token string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if token != "good" {
		return "", session.ErrUnauthorized
	}
	return f.user, nil
}

func TestRequireAdmin(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = AdminFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		auth   fakeAuthorizer
		header string
		want   int
	}{
		{"no header", fakeAuthorizer{user: "admin"}, "", http.StatusUnauthorized},
		{"wrong scheme", fakeAuthorizer{user: "admin"}, "Basic good", http.StatusUnauthorized},
		{"bad token", fakeAuthorizer{user: "admin"}, "Bearer bad", http.StatusUnauthorized},
		{"good token", fakeAuthorizer{user: "admin"}, "bearer good", http.StatusNoContent},
		{"store failure", fakeAuthorizer{err: errors.New("redis down")}, "Bearer good", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			h := RequireAdmin(tt.auth, logger.NewNop())(next)
			req := httptest.NewRequest(http.MethodGet, "/api/admin/leads", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "admin", seen)
			}
			if tt.want == http.StatusUnauthorized {
				assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"https://silahub.ca"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/leads", nil)
	req.Header.Set("Origin", "https://silahub.ca")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://silahub.ca", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
