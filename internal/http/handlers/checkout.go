package handlers

import (
	"net/http"

	"paygate/internal/provider"

	"github.com/go-chi/chi/v5"
)

// Checkout returns the payment form target, paytype script and a fresh session id.
func Checkout(reg *provider.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := reg.Checkout("", r.URL.Query().Get("pos_id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// DescribeError explains a gateway error code.
func DescribeError(reg *provider.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		p, err := reg.GetProvider("")
		if err != nil {
			writeError(w, r, err)
			return
		}
		msg, ok := p.DescribeError(code)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"code": code, "error": "unknown code"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"code": code, "description": msg})
	}
}
