package handlers

import (
	"net/http"

	"github.com/silahub/site/internal/calculator"
	"github.com/silahub/site/internal/httpserver/deps"
)

// Calculator runs the marketing ROI projection.
func Calculator(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in calculator.Input
		if !decodeAndValidate(w, r, d, &in) {
			return
		}
		Success(w, http.StatusOK, "", calculator.Calculate(in))
	}
}

// Industries lists the industries offered by the calculator form.
func Industries(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		Success(w, http.StatusOK, "", calculator.Industries)
	}
}
