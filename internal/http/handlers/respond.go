package handlers

import (
	"encoding/json"
	"net/http"

	"paygate/internal/provider"

	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps provider error kinds onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	pe, ok := provider.AsProviderError(err)
	if !ok {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch pe.Kind {
	case provider.KindInvalidArgument:
		status = http.StatusBadRequest
	case provider.KindTransport:
		status = http.StatusBadGateway
		if pe.Code == provider.ErrProviderTimeout {
			status = http.StatusGatewayTimeout
		}
	}
	if status >= 500 {
		log.Error().Err(err).Str("path", r.URL.Path).Str("code", pe.Code).Msg("request failed")
	}
	writeJSON(w, status, pe)
}

// stateResponse is the JSON view of a state query result.
type stateResponse struct {
	SessionID   string             `json:"sessionId"`
	OrderID     string             `json:"orderId"`
	Status      string             `json:"status"`
	TransStatus string             `json:"transStatus"`
	New         bool               `json:"new"`
	Received    bool               `json:"received"`
	Cancelled   bool               `json:"cancelled"`
	Error       bool               `json:"error"`
	Fields      map[string]*string `json:"fields"`
}

func toStateResponse(st provider.StateResult) stateResponse {
	return stateResponse{
		SessionID:   st.SessionID(),
		OrderID:     st.OrderID(),
		Status:      st.Status(),
		TransStatus: st.TransStatus(),
		New:         st.IsNew(),
		Received:    st.IsReceived(),
		Cancelled:   st.IsCancelled(),
		Error:       st.IsError(),
		Fields:      st.Fields(),
	}
}
