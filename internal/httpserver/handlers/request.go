package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/silahub/site/internal/domain"
	"github.com/silahub/site/internal/httpserver/deps"
	"github.com/silahub/site/internal/logger"
	"github.com/silahub/site/internal/session"
	"github.com/silahub/site/internal/store"
)

const maxBodyBytes = 1 << 20

// decodeAndValidate reads a JSON body into dst and runs the struct
// validation tags. It writes the 400 response itself and reports false on
// failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, d deps.Deps, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}

	if err := d.Validate.Struct(dst); err != nil {
		Error(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

// validationMessage flattens validator errors into one readable line.
// Example: "email must be a valid email; name is required"
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "email":
			parts = append(parts, field+" must be a valid email")
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// storeFailure maps a store or domain error to a response. Unexpected
// errors are logged once here and reported as 500.
func storeFailure(w http.ResponseWriter, r *http.Request, d deps.Deps, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidStatus):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEmptySlug):
		Error(w, http.StatusBadRequest, domain.ErrEmptySlug.Error())
	case errors.Is(err, domain.ErrSlugTaken):
		Error(w, http.StatusConflict, "a post with this title already exists")
	case errors.Is(err, store.ErrConflict):
		Error(w, http.StatusConflict, "the data was modified concurrently, please retry")
	case errors.Is(err, session.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "invalid username or password")
	default:
		d.Logger.Error(op+" failed",
			logger.String("path", r.URL.Path),
			logger.Error(err))
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
