package handlers

import (
	"context"
	"net/http"
	"time"

	"paygate/internal/provider"

	"github.com/go-chi/chi/v5"
)

// queryTimeout bounds a gateway call made on behalf of an API request.
const queryTimeout = 35 * time.Second

// GetState queries the gateway for the session in the URL.
func GetState(reg *provider.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		posID := r.URL.Query().Get("pos_id")

		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		defer cancel()

		st, err := reg.QueryState(ctx, "", provider.StateQuery{SessionID: sessionID}, posID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toStateResponse(st))
	}
}

// VerifyReport checks a gateway report forwarded as a form (pos_id,
// session_id, ts, sig) and returns the current state of its session.
func VerifyReport(reg *provider.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad form"})
			return
		}
		report := make(map[string]string, len(r.PostForm))
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				report[k] = vs[0]
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		defer cancel()

		st, err := reg.QueryState(ctx, "", provider.StateQuery{Report: report}, r.URL.Query().Get("pos_id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toStateResponse(st))
	}
}
