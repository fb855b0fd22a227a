package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/silahub/site/internal/httpserver/deps"
	"github.com/silahub/site/internal/session"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type sessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Username      string     `json:"username,omitempty"`
	LoggedInAt    *time.Time `json:"loggedInAt,omitempty"`
}

// Login exchanges the admin credentials for a bearer token.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeAndValidate(w, r, d, &req) {
			return
		}

		token, err := d.Session.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, session.ErrInvalidCredentials) {
				countLogin(d, "rejected")
			}
			storeFailure(w, r, d, "login", err)
			return
		}
		countLogin(d, "accepted")
		Success(w, http.StatusOK, "logged in", loginResponse{Token: token, Username: req.Username})
	}
}

// Logout clears the admin session. It is idempotent.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Session.Logout(r.Context()); err != nil {
			storeFailure(w, r, d, "logout", err)
			return
		}
		Success(w, http.StatusOK, "logged out", nil)
	}
}

// SessionState reports whether an admin is signed in.
func SessionState(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := d.Session.State(r.Context())
		if err != nil {
			storeFailure(w, r, d, "session state", err)
			return
		}
		Success(w, http.StatusOK, "", sessionResponse{
			Authenticated: st.Authenticated,
			Username:      st.Username,
			LoggedInAt:    st.LoggedInAt,
		})
	}
}

func countLogin(d deps.Deps, result string) {
	if d.Metrics != nil {
		d.Metrics.AdminLogins.WithLabelValues(result).Inc()
	}
}
